// Package scorecard emits per-graph, per-assigner results as CSV, for
// aggregation across an entire dataset run. No CSV library appears
// anywhere in the retrieved corpus, so this is built on encoding/csv
// (stdlib).
package scorecard

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Row is one (dataset entry, assigner) result line.
type Row struct {
	GraphName       string
	Assigner        string
	Throughput      int
	Latency         int
	Registers       int
	PeriodPS        int
	SlackPS         int
	FoundComboCycle bool
}

var header = []string{
	"graph", "assigner", "throughput", "latency", "registers",
	"period_ps", "slack_ps", "found_combo_cycle",
}

// WriteCSV writes rows to w with a fixed header, one row per record.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("scorecard: write header: %w", err)
	}

	for _, r := range rows {
		record := []string{
			r.GraphName,
			r.Assigner,
			strconv.Itoa(r.Throughput),
			strconv.Itoa(r.Latency),
			strconv.Itoa(r.Registers),
			strconv.Itoa(r.PeriodPS),
			strconv.Itoa(r.SlackPS),
			strconv.FormatBool(r.FoundComboCycle),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("scorecard: write row for %q: %w", r.GraphName, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("scorecard: flush: %w", err)
	}
	return nil
}
