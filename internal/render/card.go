package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/varoOP/fliq/internal/domain"
)

const noStreaming = "No US streaming info available."

// Rating is one badge of the ratings row.
type Rating struct {
	Label string
	Value string
	// RT marks the Rotten Tomatoes badge, which has its own colour.
	RT bool
}

// Ratings lists the badges to show: IMDb when known else the catalog
// rating, then Rotten Tomatoes and Metacritic when present.
func Ratings(d *domain.MovieDetails) []Rating {
	label, value := d.PrimaryRating()
	out := []Rating{{Label: label, Value: value}}

	if d.RottenTomatoesScore != nil {
		out = append(out, Rating{Label: "RT Critics", Value: *d.RottenTomatoesScore, RT: true})
	}
	if d.MetacriticScore != nil {
		out = append(out, Rating{Label: "Metacritic", Value: *d.MetacriticScore})
	}
	return out
}

// RatingsRow renders the badges. display maps each rating to the text shown,
// which lets callers substitute animated values; nil shows the value as is.
func RatingsRow(ratings []Rating, display func(Rating) string) string {
	parts := make([]string, 0, len(ratings))
	for _, r := range ratings {
		text := r.Value
		if display != nil {
			text = display(r)
		}

		value := ratingValueStyle
		if r.RT {
			value = rtValueStyle
		}
		parts = append(parts, ratingLabelStyle.Render(r.Label)+" "+value.Render(text))
	}
	return strings.Join(parts, "   ")
}

// Header renders the title line, meta line and genre pills.
func Header(view *domain.MovieView) string {
	d := view.Details

	title := titleStyle.Render(d.Title)
	if d.Year != "" {
		title += " " + dimStyle.Render("("+d.Year+")")
	}

	lines := []string{title}
	if d.Runtime != nil && *d.Runtime > 0 {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("%d min", *d.Runtime)))
	}

	if len(d.Genres) > 0 {
		pills := make([]string, 0, len(d.Genres))
		for _, g := range d.Genres {
			pills = append(pills, pill(g))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, pills...))
	}

	return strings.Join(lines, "\n")
}

// Body renders everything below the ratings row.
func Body(view *domain.MovieView) string {
	d := view.Details
	var b strings.Builder

	if d.Awards != nil {
		fmt.Fprintf(&b, "🏆 %s\n", *d.Awards)
	}
	if view.TrailerURL != nil {
		fmt.Fprintf(&b, "▶ Watch Trailer %s\n", linkStyle.Render(*view.TrailerURL))
	}
	if d.Overview != "" {
		fmt.Fprintf(&b, "\n%s\n", lipgloss.NewStyle().Width(72).Render(d.Overview))
	}

	b.WriteString("\n")
	b.WriteString(Offers(view.Offers))

	if len(view.Similar) > 0 {
		b.WriteString("\n\n")
		b.WriteString(headingStyle.Render("More Like This"))
		for _, m := range view.Similar {
			b.WriteString("\n  ")
			b.WriteString(resultLine(m))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// Card renders the full detail card.
func Card(view *domain.MovieView) string {
	parts := []string{
		Header(view),
		RatingsRow(Ratings(view.Details), nil),
		Body(view),
	}
	return cardStyle.Render(strings.Join(parts, "\n"))
}

// Offers renders the provider groups, or the empty notice.
func Offers(g domain.OfferGroups) string {
	if g.Empty() {
		return dimStyle.Render(noStreaming)
	}

	groups := []struct {
		label     string
		options   []domain.StreamingOption
		showPrice bool
	}{
		{"Stream", g.Stream, false},
		{"Add-ons", g.Addons, false},
		{"Rent", g.Rent, true},
		{"Buy", g.Buy, true},
	}

	var sections []string
	for _, group := range groups {
		if len(group.options) == 0 {
			continue
		}

		lines := []string{headingStyle.Render(group.label)}
		for _, o := range group.options {
			line := "  " + o.Service
			if group.showPrice && o.Price != nil {
				line += " " + ratingValueStyle.Render(o.Price.Formatted)
			}
			if o.Link != "" {
				line += " " + dimStyle.Render(o.Link)
			}
			lines = append(lines, line)
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	return strings.Join(sections, "\n")
}

// ShareText is the message used when sharing a movie.
func ShareText(d *domain.MovieDetails) string {
	if d == nil {
		return "Check this out on Fliq!"
	}
	return fmt.Sprintf("Check out %s on Fliq!", d.Title)
}
