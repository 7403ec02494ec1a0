package render

import (
	"fmt"
	"strings"

	"github.com/varoOP/fliq/internal/domain"
)

func resultLine(r domain.SearchResult) string {
	line := r.Title
	if year := r.Year(); year != "" {
		line += " " + dimStyle.Render("("+year+")")
	}
	if r.VoteAverage > 0 {
		line += " " + ratingValueStyle.Render(fmt.Sprintf("★ %.1f", r.VoteAverage))
	}
	return line + " " + dimStyle.Render(fmt.Sprintf("#%d", r.ID))
}

// Results renders a numbered result list.
func Results(results []domain.SearchResult) string {
	if len(results) == 0 {
		return dimStyle.Render("No results.")
	}

	lines := make([]string, 0, len(results))
	for i, r := range results {
		lines = append(lines, fmt.Sprintf("%2d. %s", i+1, resultLine(r)))
	}
	return strings.Join(lines, "\n")
}

// History renders the recent searches.
func History(entries []domain.HistoryEntry) string {
	if len(entries) == 0 {
		return dimStyle.Render("No recent searches.")
	}

	lines := []string{headingStyle.Render("Recent searches")}
	for _, e := range entries {
		line := "  " + e.Title
		if e.Year != "" {
			line += " " + dimStyle.Render("("+e.Year+")")
		}
		lines = append(lines, line+" "+dimStyle.Render(fmt.Sprintf("#%d", e.ID)))
	}
	return strings.Join(lines, "\n")
}
