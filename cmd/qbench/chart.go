package main

import (
	"fmt"
	"strings"

	"qbench/bench"

	"github.com/charmbracelet/lipgloss"
)

const (
	chartLabelWidth = 16
	chartValueWidth = 10
	minBarWidth     = 10
)

var (
	chartTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	chartLabelStyle = lipgloss.NewStyle().Width(chartLabelWidth).Foreground(lipgloss.Color("#FAFAFA"))
	chartBarStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
	chartValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// RenderBarChart draws the execution time series as horizontal bars scaled
// to the slowest backend. An empty series renders nothing.
func RenderBarChart(points []bench.ChartPoint, width int) string {
	if len(points) == 0 {
		return ""
	}

	barWidth := width - chartLabelWidth - chartValueWidth - 2
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}

	maxTime := 0.0
	for _, p := range points {
		maxTime = max(maxTime, p.Time)
	}

	var b strings.Builder
	b.WriteString(chartTitleStyle.Render("Execution time (s)"))
	b.WriteString("\n")
	for _, p := range points {
		n := 0
		if maxTime > 0 {
			n = int(p.Time / maxTime * float64(barWidth))
		}
		if n == 0 && p.Time > 0 {
			n = 1
		}
		label := truncate(p.Backend.DisplayName(), chartLabelWidth-1)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			chartLabelStyle.Render(label),
			chartBarStyle.Render(strings.Repeat("█", n)),
			chartValueStyle.Render(fmt.Sprintf(" %.4f", p.Time)),
		))
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
