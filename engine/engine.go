// Package engine glues the register-assignment core together: it runs a
// LatencyAssigner, hands the result to the solution evaluator, and wires
// structured logging and OpenTelemetry spans/metrics around that pure
// computation (spec §6's solve contract, plus this project's ambient
// telemetry stack).
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/ni/delaygraph/graph"
	"github.com/ni/delaygraph/solution"
)

const instrumentationName = "github.com/ni/delaygraph/engine"

var (
	tracer = otel.Tracer(instrumentationName)
	meter  = otel.Meter(instrumentationName)

	solveDuration, _ = meter.Float64Histogram(
		"delaygraph_solve_duration_seconds",
		metric.WithDescription("Wall time spent in engine.Solve, by assigner"),
	)
	cycleRepairs, _ = meter.Int64Counter(
		"delaygraph_cycle_repairs_total",
		metric.WithDescription("Solutions returned with a residual combinational cycle"),
	)
	timingViolations, _ = meter.Int64Counter(
		"delaygraph_timing_violations_total",
		metric.WithDescription("Solutions returned with negative slack"),
	)
)

// Assigner is a LatencyAssigner (spec §4.5/§4.6): given a graph and a target
// period, it returns an initial registered set for the SolutionEvaluator to
// fix up and score. asap.Assign fits AssignerFunc directly; greedy.Assign
// fits it through a closure that supplies its logger.
type Assigner interface {
	Name() string
	Assign(g *graph.Graph, targetPeriodPS int) graph.VertexSet
}

// AssignerFunc adapts a bare assignment function to the Assigner interface.
type AssignerFunc struct {
	AssignerName string
	Fn           func(g *graph.Graph, targetPeriodPS int) graph.VertexSet
}

func (f AssignerFunc) Name() string { return f.AssignerName }

func (f AssignerFunc) Assign(g *graph.Graph, targetPeriodPS int) graph.VertexSet {
	return f.Fn(g, targetPeriodPS)
}

// Solve runs a, evaluates the resulting solution, and returns spec §6's pure
// tuple: the final registered set, its score, whether a combinational cycle
// survived repair, and the signed slack against targetPeriodPS.
//
// ctx is checked once at entry only; the core never blocks or suspends
// (spec §5), so there is no deeper cancellation point to add.
func Solve(ctx context.Context, g *graph.Graph, targetPeriodPS int, a Assigner, logger *slog.Logger) (graph.VertexSet, solution.ScoreCard, bool, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, solution.ScoreCard{}, false, 0, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	runID := uuid.NewString()[:12]

	ctx, span := tracer.Start(ctx, "engine.Solve", trace.WithAttributes(
		attribute.String("delaygraph.run_id", runID),
		attribute.Int("delaygraph.vertex_count", g.VertexCount()),
		attribute.Int("delaygraph.target_period_ps", targetPeriodPS),
		attribute.String("delaygraph.assigner", a.Name()),
	))
	defer span.End()

	logger = logger.With("run_id", runID)

	started := time.Now()
	initial := a.Assign(g, targetPeriodPS)

	sol, err := solution.Evaluate(a.Name(), g, initial, targetPeriodPS)
	if err != nil {
		span.RecordError(err)
		return nil, solution.ScoreCard{}, false, 0, fmt.Errorf("engine: evaluate solution: %w", err)
	}

	elapsed := time.Since(started)
	solveDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.String("assigner", a.Name())))

	if sol.FoundCombinationalCycle {
		cycleRepairs.Add(ctx, 1, metric.WithAttributes(attribute.String("assigner", a.Name())))
		logger.Warn("solution retains a combinational cycle after repair",
			"assigner", a.Name(), "period_ps", sol.EstimatedPeriodPS)
	}
	if sol.Slack < 0 {
		timingViolations.Add(ctx, 1, metric.WithAttributes(attribute.String("assigner", a.Name())))
		logger.Warn("solution violates the target period",
			"assigner", a.Name(), "slack_ps", sol.Slack)
	}

	logger.Info("solve complete",
		"assigner", a.Name(),
		"registers", sol.Score.Registers,
		"throughput", sol.Score.Throughput,
		"latency", sol.Score.Latency,
		"period_ps", sol.EstimatedPeriodPS,
		"slack_ps", sol.Slack)

	return sol.Registered, sol.Score, sol.FoundCombinationalCycle, sol.Slack, nil
}

// SolveBest runs every assigner in candidates over g/targetPeriodPS and
// keeps whichever solution.IsBetter prefers (the Supplemented Features
// dual-assigner comparison: spec.md frames ASAP and Greedy as two
// contrasting strategies meant to be compared, not run in isolation).
func SolveBest(ctx context.Context, g *graph.Graph, targetPeriodPS int, logger *slog.Logger, candidates ...Assigner) (*solution.Solution, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var best *solution.Solution
	for _, a := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		initial := a.Assign(g, targetPeriodPS)
		sol, err := solution.Evaluate(a.Name(), g, initial, targetPeriodPS)
		if err != nil {
			return nil, fmt.Errorf("engine: evaluate %s: %w", a.Name(), err)
		}
		if best == nil || solution.IsBetter(sol, best) {
			best = sol
		}
	}
	if best == nil {
		return nil, fmt.Errorf("engine: SolveBest called with no candidate assigners")
	}

	logger.Info("best solution selected", "assigner", best.Name, "registers", best.Score.Registers)
	return best, nil
}
