// Package components provides reusable UI components for the QBench CLI.
//
// This file provides version information and header rendering.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Build information - these are set via ldflags during build
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// VersionString returns the version with the short commit when known
func VersionString() string {
	versionInfo := fmt.Sprintf("v%s", Version)
	if GitCommit != "unknown" && len(GitCommit) > 7 {
		versionInfo += fmt.Sprintf(" (%s)", GitCommit[:7])
	}
	return versionInfo
}

// RenderHeader renders the CLI header with version and service information
func RenderHeader(baseURL string) string {
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7D56F4")).
		Bold(true).
		MarginTop(1).
		MarginBottom(0).
		MarginLeft(2)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		MarginLeft(2).
		MarginBottom(1)

	title := titleStyle.Render("QBench · Quantum Simulator Benchmark")
	subtitle := subtitleStyle.Render(fmt.Sprintf("%s · %s", VersionString(), baseURL))

	return fmt.Sprintf("%s\n%s\n", title, subtitle)
}
