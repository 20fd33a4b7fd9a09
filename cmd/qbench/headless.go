package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"qbench/bench"
	"qbench/models"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
)

type headlessOptions struct {
	File     string
	Backends []string
	JSON     bool
	Width    int
}

type resultJSON struct {
	Backend     models.BackendID   `json:"backend"`
	Label       string             `json:"label"`
	Status      string             `json:"status"`
	Time        *float64           `json:"time,omitempty"`
	Fidelity    *float64           `json:"fidelity,omitempty"`
	Statevector []models.Amplitude `json:"statevector,omitempty"`
	Error       string             `json:"error,omitempty"`
}

type chartPointJSON struct {
	Backend models.BackendID `json:"backend"`
	Time    float64          `json:"time"`
}

type reportJSON struct {
	Circuit string           `json:"circuit"`
	Results []resultJSON     `json:"results"`
	Chart   []chartPointJSON `json:"chart"`
}

// runHeadless loads the circuit, runs one benchmark and writes the report
func runHeadless(ctx context.Context, s *session, opts headlessOptions, out io.Writer) error {
	if opts.File == "" {
		return &bench.MissingCircuitError{}
	}
	if _, err := s.intake.SubmitPath(opts.File); err != nil {
		return err
	}

	ids := make([]models.BackendID, 0, len(opts.Backends))
	for _, name := range opts.Backends {
		for _, part := range strings.Split(name, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := s.resolveBackend(part)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
	}
	s.selector.SetSelection(ids)

	if err := s.runner.RunBenchmark(ctx); err != nil {
		return err
	}
	s.runner.Wait()

	snap := s.runner.Snapshot()
	if snap.Err != nil {
		return snap.Err
	}

	rows := s.rows(snap)
	points := bench.Project(rows, s.capping)

	if opts.JSON {
		return writeJSONReport(out, snap, rows, points)
	}
	return writeTextReport(out, snap, rows, points, opts.Width)
}

func writeJSONReport(out io.Writer, snap bench.Snapshot, rows []bench.DisplayRow, points []bench.ChartPoint) error {
	report := reportJSON{
		Circuit: snap.Circuit.Name,
		Results: make([]resultJSON, 0, len(rows)),
		Chart:   make([]chartPointJSON, 0, len(points)),
	}
	for _, row := range rows {
		entry := resultJSON{
			Backend: row.Backend.ID,
			Label:   row.Backend.DisplayName(),
			Status:  row.Status.String(),
		}
		switch row.Status {
		case bench.RowSuccess:
			entry.Time = row.Result.Time
			entry.Fidelity = row.Result.Fidelity
			entry.Statevector = row.Statevector()
		case bench.RowFailure:
			entry.Error = row.ErrorText()
		}
		report.Results = append(report.Results, entry)
	}
	for _, p := range points {
		report.Chart = append(report.Chart, chartPointJSON{Backend: p.Backend.ID, Time: p.Time})
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func writeTextReport(out io.Writer, snap bench.Snapshot, rows []bench.DisplayRow, points []bench.ChartPoint, width int) error {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("Backend", "Time (s)", "Fidelity", "Statevector", "Status")

	for _, row := range rows {
		status := "ok"
		if row.Status != bench.RowSuccess {
			status = row.ErrorText()
		}
		t.Row(
			row.Backend.DisplayName(),
			row.TimeText(),
			row.FidelityText(),
			previewText(row),
			status,
		)
	}

	fmt.Fprintf(out, "%s (%s) · %s\n",
		snap.Circuit.Name,
		humanize.Bytes(uint64(snap.Circuit.Size)),
		snap.Elapsed().Round(time.Millisecond),
	)
	fmt.Fprintln(out, t.Render())

	if chart := RenderBarChart(points, width); chart != "" {
		fmt.Fprintln(out)
		fmt.Fprint(out, chart)
	}
	return nil
}

// previewText joins the statevector preview, marking truncation
func previewText(row bench.DisplayRow) string {
	preview := row.StatevectorPreview()
	if len(preview) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(preview))
	for _, amp := range preview {
		parts = append(parts, string(amp))
	}
	text := strings.Join(parts, " ")
	if len(row.Statevector()) > len(preview) {
		text += " …"
	}
	return text
}
