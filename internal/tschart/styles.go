package tschart

import "github.com/charmbracelet/lipgloss"

const (
	TitleHeight     = 1
	InfoHeight      = 1
	LegendHeight    = 1
	StatusBarHeight = 1

	// MinChartHeight is the smallest chart drawn when the window is tiny.
	MinChartHeight = 4
)

var colorHeading = lipgloss.Color("#FCBC32")

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorHeading)

	titlePathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	legendKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	legendDisabledStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("238")).
				Strikethrough(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#2B3038"}).
			Background(lipgloss.AdaptiveColor{Light: "#4ECDC4", Dark: "#E1F7FA"})

	statusErrorStyle = statusBarStyle.
				Foreground(lipgloss.Color("#B3261E"))
)

// Help screen styles
var (
	helpKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Width(24)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorHeading).
				MarginTop(1)

	helpContentStyle = lipgloss.NewStyle().
				MarginLeft(2).
				MarginTop(1)
)
