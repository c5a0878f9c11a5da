package frontend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vadimtrunov/MovieMate/internal/core"
)

// FormatVotes renders a vote count with thousands separators.
func FormatVotes(n int) string {
	if n < 0 {
		return "-" + FormatVotes(-n)
	}
	s := strconv.Itoa(n)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatIMDbRating renders the IMDb score, e.g. "9.0/10 (2,945,313 votes)".
func FormatIMDbRating(d *core.MovieDetails) string {
	if d == nil || d.IMDbRating == nil {
		return "unrated"
	}
	s := fmt.Sprintf("%.1f/10", *d.IMDbRating)
	if d.IMDbVotes != nil {
		s += fmt.Sprintf(" (%s votes)", FormatVotes(*d.IMDbVotes))
	}
	return s
}

// SummaryLine renders "Title (Year)" with the media type when it is not a movie.
func SummaryLine(s core.MovieSummary) string {
	line := s.Title
	if s.Year != "" {
		line += " (" + s.Year + ")"
	}
	if s.Type != "" && s.Type != core.TypeMovie {
		line += " [" + string(s.Type) + "]"
	}
	return line
}

// Summaries extracts the summary part of each detail record.
func Summaries(details []core.MovieDetails) []core.MovieSummary {
	out := make([]core.MovieSummary, len(details))
	for i, d := range details {
		out[i] = d.MovieSummary
	}
	return out
}
