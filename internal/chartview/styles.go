package chartview

import "github.com/charmbracelet/lipgloss"

// DefaultPalette is used for series and markers without an explicit color.
var DefaultPalette = []string{
	"#E281FE",
	"#4ECDC4",
	"#FFCF4F",
	"#F0A5AD",
	"#45B7D1",
	"#F6B784",
	"#A9FDF2",
	"#ED9FBB",
	"#FBC36B",
}

var (
	axisStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // gray

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")) // light gray

	markerLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))

	gridStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	gridLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	toolStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FCBC32"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)
)

func colorStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}
