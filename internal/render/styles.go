package render

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Accent    = lipgloss.Color("#e50914")
	Gold      = lipgloss.Color("#f5c518")
	TomatoRed = lipgloss.Color("#fa320a")
	DimGray   = lipgloss.Color("#8b87a8")
	White     = lipgloss.Color("#f5f5f7")
)

var genreColors = map[string]lipgloss.Color{
	"Action":          "#ff6b6b",
	"Adventure":       "#ff9f43",
	"Animation":       "#ffd93d",
	"Comedy":          "#6bcbff",
	"Crime":           "#a29bfe",
	"Documentary":     "#55efc4",
	"Drama":           "#fd79a8",
	"Fantasy":         "#e17055",
	"Horror":          "#b2bec3",
	"Music":           "#00cec9",
	"Mystery":         "#a29bfe",
	"Romance":         "#fd79a8",
	"Science Fiction": "#6bcbff",
	"Thriller":        "#ff6b6b",
	"War":             "#b2bec3",
	"Western":         "#ff9f43",
}

// GenreColor returns the pill colour for a genre name.
func GenreColor(genre string) lipgloss.Color {
	if c, ok := genreColors[genre]; ok {
		return c
	}
	return DimGray
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	headingStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	ratingLabelStyle = lipgloss.NewStyle().
				Foreground(DimGray)

	ratingValueStyle = lipgloss.NewStyle().
				Foreground(Gold).
				Bold(true)

	rtValueStyle = lipgloss.NewStyle().
			Foreground(TomatoRed).
			Bold(true)

	linkStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Underline(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray).
			Padding(0, 1)
)

func pill(genre string) string {
	return lipgloss.NewStyle().
		Foreground(GenreColor(genre)).
		Border(lipgloss.NormalBorder(), false, true).
		BorderForeground(GenreColor(genre)).
		Padding(0, 1).
		Render(genre)
}
