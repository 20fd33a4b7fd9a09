package main

import (
	"fmt"
	"strings"

	"qbench/bench"
	"qbench/models"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const (
	cardWidth     = 30
	resultsHeight = 16
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(qbMagenta).
			Padding(0, 1).
			Width(cardWidth)
	failedCardStyle = cardStyle.BorderForeground(qbRed)
	noDataCardStyle = cardStyle.BorderForeground(lipgloss.Color("#444444"))

	cardTitleStyle = lipgloss.NewStyle().Bold(true)
	cardLabelStyle = lipgloss.NewStyle().Foreground(qbGray).Width(11)
	cardErrorStyle = lipgloss.NewStyle().Foreground(qbRed)
	cardMutedStyle = lipgloss.NewStyle().Foreground(qbGray).Italic(true)
)

type ResultsPaneModel struct {
	catalog  models.Catalog
	capping  bench.CapPolicy
	viewport viewport.Model
	width    int

	snapshot bench.Snapshot
	rows     []bench.DisplayRow
}

func NewResultsPaneModel(catalog models.Catalog, capping bench.CapPolicy) ResultsPaneModel {
	return ResultsPaneModel{
		catalog:  catalog,
		capping:  capping,
		viewport: viewport.New(90, resultsHeight),
		width:    90,
	}
}

// SetSnapshot replaces the rendered run
func (m *ResultsPaneModel) SetSnapshot(snap bench.Snapshot, rows []bench.DisplayRow) {
	m.snapshot = snap
	m.rows = rows
	m.viewport.SetContent(m.render())
}

func (m ResultsPaneModel) Update(msg tea.Msg) (ResultsPaneModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = max(msg.Width-10, 40)
		m.viewport.Width = m.width
		m.viewport.SetContent(m.render())
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return m, func() tea.Msg { return runRequestedMsg{} }
		case "c":
			return m, func() tea.Msg { return clearRequestedMsg{} }
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m ResultsPaneModel) render() string {
	if !m.snapshot.HasResults() {
		return cardMutedStyle.Render("No results yet")
	}

	perRow := max(m.width/(cardWidth+2), 1)
	var lines []string
	var line []string
	for _, row := range m.rows {
		line = append(line, renderCard(row))
		if len(line) == perRow {
			lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, line...))
			line = nil
		}
	}
	if len(line) > 0 {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, line...))
	}

	var b strings.Builder
	reported := 0
	for _, row := range m.rows {
		if row.Status != bench.RowNoData {
			reported++
		}
	}
	summary := fmt.Sprintf("%d of %d backends reported", reported, len(m.catalog))
	if !m.snapshot.FinishedAt.IsZero() && m.snapshot.Err == nil {
		summary += fmt.Sprintf(" · %s · ran %s", m.snapshot.Circuit.Name, humanize.Time(m.snapshot.FinishedAt))
	}
	b.WriteString(cardMutedStyle.Render(summary))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, lines...))
	b.WriteString("\n\n")

	points := bench.Project(m.rows, m.capping)
	if chart := RenderBarChart(points, m.width); chart != "" {
		b.WriteString(chart)
	} else {
		b.WriteString(cardMutedStyle.Render("No execution times to chart"))
	}
	return b.String()
}

func renderCard(row bench.DisplayRow) string {
	title := cardTitleStyle.Render(row.Backend.DisplayName())

	switch row.Status {
	case bench.RowNoData:
		return noDataCardStyle.Render(title + "\n" + cardMutedStyle.Render(row.ErrorText()))
	case bench.RowFailure:
		return failedCardStyle.Render(title + "\n" + cardErrorStyle.Render("Error: "+row.ErrorText()))
	}

	field := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, cardLabelStyle.Render(label), value)
	}

	var parts []string
	parts = append(parts, title)
	if row.Backend.Timed() {
		parts = append(parts, field("Time (s)", row.TimeText()))
	}
	parts = append(parts, field("Fidelity", row.FidelityText()))
	if preview := row.StatevectorPreview(); len(preview) > 0 {
		parts = append(parts, cardLabelStyle.Render("Statevector"))
		for _, amp := range preview {
			parts = append(parts, "  "+string(amp))
		}
		if extra := len(row.Statevector()) - len(preview); extra > 0 {
			parts = append(parts, cardMutedStyle.Render(fmt.Sprintf("  … %d more", extra)))
		}
	}
	return cardStyle.Render(strings.Join(parts, "\n"))
}

func (m ResultsPaneModel) View(width int) string {
	if width > 0 && width != m.viewport.Width {
		m.viewport.Width = width
	}
	return m.viewport.View()
}
