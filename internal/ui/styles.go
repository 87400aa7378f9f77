// Package ui provides the terminal front ends for askc: a full-screen
// transcript view, a line-mode prompt and a plain answer writer.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.AdaptiveColor{Light: "#101F38", Dark: "#8BC34A"}
	muted  = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}
	danger = lipgloss.Color("#e53935")

	userLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	botLabelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2196F3"))
	errorStyle     = lipgloss.NewStyle().Foreground(danger)
	statusStyle    = lipgloss.NewStyle().Italic(true).Foreground(muted)
	helpStyle      = lipgloss.NewStyle().Foreground(muted)
	listeningStyle = lipgloss.NewStyle().Bold(true).Foreground(danger)

	inputBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(accent).
				Padding(0, 1)
)
