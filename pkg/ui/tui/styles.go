package tui

import "github.com/charmbracelet/lipgloss"

var (
	neonCyan   = lipgloss.Color("#00FFFF")
	neonGreen  = lipgloss.Color("#39FF14")
	neonOrange = lipgloss.Color("#FF6700")
	neonRed    = lipgloss.Color("#FF0000")
	dimWhite   = lipgloss.Color("#B0B0B0")

	titleStyle = lipgloss.NewStyle().
			Foreground(neonCyan).
			Bold(true).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(neonCyan).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(neonCyan).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(dimWhite)

	successStyle = lipgloss.NewStyle().
			Foreground(neonGreen)

	failureStyle = lipgloss.NewStyle().
			Foreground(neonRed)

	warningStyle = lipgloss.NewStyle().
			Foreground(neonOrange).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Padding(1, 0, 0, 1)
)
