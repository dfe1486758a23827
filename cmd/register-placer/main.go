package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ni/delaygraph/asap"
	"github.com/ni/delaygraph/dataset"
	"github.com/ni/delaygraph/dotexport"
	"github.com/ni/delaygraph/engine"
	"github.com/ni/delaygraph/graph"
	"github.com/ni/delaygraph/graphml"
	"github.com/ni/delaygraph/greedy"
	"github.com/ni/delaygraph/scorecard"
	"github.com/ni/delaygraph/telemetry"
)

// config holds CLI defaults overridable via --config (spec.md's distillation
// says nothing about tool configuration; this is the ambient-stack config
// layer every CLI in the corpus carries).
type config struct {
	Telemetry bool `yaml:"telemetry"`
}

var (
	telemetryFlag bool
	configPath    string
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register-placer <dataset-root> <scorecard-dir>",
		Short: "Solve the register assignment problem over a dataset of delay graphs",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], args[1])
		},
	}
	cmd.Flags().BoolVar(&telemetryFlag, "telemetry", false, "enable stdout trace/metric exporters")
	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	return cmd
}

func run(datasetRoot, scorecardDir string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("register-placer: %w", err)
	}
	if telemetryFlag {
		cfg.Telemetry = true
	}

	logger := telemetry.NewLogger(os.Stderr, slog.LevelInfo)

	if cfg.Telemetry {
		shutdown, err := telemetry.EnableStdoutExporters(os.Stdout)
		if err != nil {
			return fmt.Errorf("register-placer: enable telemetry: %w", err)
		}
		defer func() { _ = shutdown(context.Background()) }()
	}

	entries, err := dataset.Discover(datasetRoot)
	if err != nil {
		return fmt.Errorf("register-placer: discover dataset: %w", err)
	}

	if err := os.MkdirAll(scorecardDir, 0o755); err != nil {
		return fmt.Errorf("register-placer: create scorecard dir: %w", err)
	}

	var rows []scorecard.Row
	ctx := context.Background()

	for _, entry := range entries {
		if entry.MissingGoal {
			logger.Warn("skipping entry with no goal file", "name", entry.Name, "graph", entry.GraphPath)
			continue
		}

		row, dotSource, err := solveEntry(ctx, entry, logger)
		if err != nil {
			logger.Warn("entry failed", "name", entry.Name, "error", err)
			continue
		}
		rows = append(rows, row)

		dotPath := filepath.Join(scorecardDir, entry.Name+".dot")
		if err := os.WriteFile(dotPath, []byte(dotSource), 0o644); err != nil {
			return fmt.Errorf("register-placer: write %s: %w", dotPath, err)
		}
	}

	csvPath := filepath.Join(scorecardDir, "scorecard.csv")
	f, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("register-placer: create %s: %w", csvPath, err)
	}
	defer f.Close()

	if err := scorecard.WriteCSV(f, rows); err != nil {
		return fmt.Errorf("register-placer: write scorecard: %w", err)
	}

	logger.Info("run complete", "entries", len(entries), "scored", len(rows))
	return nil
}

func solveEntry(ctx context.Context, entry dataset.Entry, logger *slog.Logger) (scorecard.Row, string, error) {
	graphFile, err := os.Open(entry.GraphPath)
	if err != nil {
		return scorecard.Row{}, "", err
	}
	defer graphFile.Close()

	g, err := graphml.ParseGraph(graphFile)
	if err != nil {
		return scorecard.Row{}, "", err
	}

	goalFile, err := os.Open(entry.GoalPath)
	if err != nil {
		return scorecard.Row{}, "", err
	}
	defer goalFile.Close()

	targetPeriodPS, err := graphml.ParseGoal(goalFile)
	if err != nil {
		return scorecard.Row{}, "", err
	}
	targetPeriodPS = graphml.ClampToEdgeFloor(g, targetPeriodPS)

	best, err := engine.SolveBest(ctx, g, targetPeriodPS, logger,
		engine.AssignerFunc{AssignerName: "asap", Fn: asap.Assign},
		engine.AssignerFunc{AssignerName: "greedy", Fn: func(g *graph.Graph, t int) graph.VertexSet {
			return greedy.Assign(g, t, logger)
		}},
	)
	if err != nil {
		return scorecard.Row{}, "", err
	}

	var dotBuf strings.Builder
	if err := dotexport.Write(&dotBuf, g, best); err != nil {
		return scorecard.Row{}, "", err
	}

	row := scorecard.Row{
		GraphName:       entry.Name,
		Assigner:        best.Name,
		Throughput:      best.Score.Throughput,
		Latency:         best.Score.Latency,
		Registers:       best.Score.Registers,
		PeriodPS:        best.EstimatedPeriodPS,
		SlackPS:         best.Slack,
		FoundComboCycle: best.FoundCombinationalCycle,
	}
	return row, dotBuf.String(), nil
}

func loadConfig(path string) (config, error) {
	if path == "" {
		return config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
