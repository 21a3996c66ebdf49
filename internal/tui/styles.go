package tui

import "github.com/charmbracelet/lipgloss"

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	gridFg    = lipgloss.Color("#243141")
	axisFg    = lipgloss.Color("#4B5563")
	overlayFg = lipgloss.Color("#E6E6E6")
	markerFg  = lipgloss.Color("#FFA500")
	borderCol = lipgloss.Color("#243141")

	appStyle     = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle   = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(baseDimFg)
	gridStyle    = lipgloss.NewStyle().Foreground(gridFg)
	axisStyle    = lipgloss.NewStyle().Foreground(axisFg)
	overlayStyle = lipgloss.NewStyle().Foreground(overlayFg)
	markerStyle  = lipgloss.NewStyle().Foreground(markerFg)
)
