package main

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/vadimtrunov/MovieMate/internal/core"
	"github.com/vadimtrunov/MovieMate/internal/frontend"
)

func userMessage(err error) string {
	return frontend.UserMessage(err)
}

// renderJSON renders v as indented JSON for --json output.
func renderJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode output: %w", err)
	}
	return string(data), nil
}

// renderSummaries renders a numbered search result list.
func renderSummaries(header string, items []core.MovieSummary) string {
	if len(items) == 0 {
		return styleDim.Render(frontend.MsgNoResults)
	}
	var b strings.Builder
	b.WriteString(styleHeader.Render(header))
	b.WriteByte('\n')
	for i, s := range items {
		fmt.Fprintf(&b, "%s %s  %s\n",
			styleDim.Render(fmt.Sprintf("%2d.", i+1)),
			styleTitle.Render(frontend.SummaryLine(s)),
			styleDim.Render(s.IMDbID),
		)
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderRecommendations renders recommended titles with their scores.
func renderRecommendations(seed string, recs []core.MovieDetails) string {
	if len(recs) == 0 {
		return styleDim.Render(fmt.Sprintf("No recommendations found for %q.", seed))
	}
	var b strings.Builder
	b.WriteString(styleHeader.Render(fmt.Sprintf("Because you liked %s", seed)))
	b.WriteByte('\n')
	for i := range recs {
		d := &recs[i]
		fmt.Fprintf(&b, "%s %s  %s\n",
			styleDim.Render(fmt.Sprintf("%2d.", i+1)),
			styleTitle.Render(frontend.SummaryLine(d.MovieSummary)),
			styleInfo.Render(frontend.FormatIMDbRating(d)),
		)
		if len(d.Genres) > 0 {
			fmt.Fprintf(&b, "    %s\n", styleDim.Render(strings.Join(d.Genres, ", ")))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderDetails renders the full details view of one title.
func renderDetails(d *core.MovieDetails) string {
	var b strings.Builder
	b.WriteString(styleHeader.Render(frontend.SummaryLine(d.MovieSummary)))
	b.WriteByte('\n')

	field := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "%s %s\n", styleLabel.Render(label), value)
	}
	list := func(label string, values []string) {
		field(label, strings.Join(values, ", "))
	}

	field("IMDb", frontend.FormatIMDbRating(d))
	for _, r := range d.Ratings {
		if r.Source == "Internet Movie Database" {
			continue
		}
		field(r.Source, r.Value)
	}
	field("Metascore", d.Metascore)
	field("Rated", d.Rated)
	field("Released", d.Released)
	field("Runtime", d.Runtime)
	list("Genre", d.Genres)
	field("Director", d.Director)
	list("Writers", d.Writers)
	list("Actors", d.Actors)
	list("Language", d.Languages)
	list("Country", d.Countries)
	field("Awards", d.Awards)
	field("Box office", d.BoxOffice)
	field("DVD", d.DVD)
	field("Production", d.Production)
	if d.HasPoster() {
		field("Poster", d.PosterURL)
	}
	if d.Plot != "" {
		b.WriteByte('\n')
		b.WriteString(d.Plot)
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
