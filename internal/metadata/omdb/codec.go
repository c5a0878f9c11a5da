package omdb

import (
	"strconv"
	"strings"

	"github.com/vadimtrunov/MovieMate/internal/core"
)

// notAvailable is OMDb's placeholder for a missing value.
const notAvailable = "N/A"

func summaryFromWire(w wireSummary) core.MovieSummary {
	return core.MovieSummary{
		IMDbID:    w.IMDbID,
		Title:     w.Title,
		Year:      w.Year,
		Type:      core.MediaType(w.Type),
		PosterURL: posterFromWire(w.Poster),
	}
}

func detailsFromWire(w wireDetails) core.MovieDetails {
	d := core.MovieDetails{
		MovieSummary: core.MovieSummary{
			IMDbID:    w.IMDbID,
			Title:     w.Title,
			Year:      w.Year,
			Type:      core.MediaType(w.Type),
			PosterURL: posterFromWire(w.Poster),
		},
		Rated:      w.Rated,
		Released:   w.Released,
		Runtime:    w.Runtime,
		Genres:     splitList(w.Genre),
		Director:   w.Director,
		Writers:    splitList(w.Writer),
		Actors:     splitList(w.Actors),
		Plot:       w.Plot,
		Languages:  splitList(w.Language),
		Countries:  splitList(w.Country),
		Awards:     w.Awards,
		Metascore:  w.Metascore,
		IMDbRating: parseRating(w.IMDbRating),
		IMDbVotes:  parseVotes(w.IMDbVotes),
		BoxOffice:  optionalFromWire(w.BoxOffice),
		DVD:        optionalFromWire(w.DVD),
		Production: optionalFromWire(w.Production),
	}
	for _, r := range w.Ratings {
		d.Ratings = append(d.Ratings, core.Rating{Source: r.Source, Value: r.Value})
	}
	return d
}

// detailsToWire renders d in the shape OMDb returns for a detail lookup.
func detailsToWire(d core.MovieDetails) wireDetails {
	w := wireDetails{
		Response:   "True",
		Title:      d.Title,
		Year:       d.Year,
		Rated:      d.Rated,
		Released:   d.Released,
		Runtime:    d.Runtime,
		Genre:      joinList(d.Genres),
		Director:   d.Director,
		Writer:     joinList(d.Writers),
		Actors:     joinList(d.Actors),
		Plot:       d.Plot,
		Language:   joinList(d.Languages),
		Country:    joinList(d.Countries),
		Awards:     d.Awards,
		Poster:     posterToWire(d.PosterURL),
		Metascore:  d.Metascore,
		IMDbRating: formatRating(d.IMDbRating),
		IMDbVotes:  formatVotes(d.IMDbVotes),
		IMDbID:     d.IMDbID,
		Type:       string(d.Type),
		DVD:        optionalToWire(d.DVD),
		BoxOffice:  optionalToWire(d.BoxOffice),
		Production: optionalToWire(d.Production),
	}
	for _, r := range d.Ratings {
		w.Ratings = append(w.Ratings, wireRating{Source: r.Source, Value: r.Value})
	}
	return w
}

func posterFromWire(s string) string {
	if s == "" || s == notAvailable {
		return core.PosterUnavailable
	}
	return s
}

func posterToWire(s string) string {
	if s == "" || s == core.PosterUnavailable {
		return notAvailable
	}
	return s
}

func optionalFromWire(s string) string {
	if s == notAvailable {
		return ""
	}
	return s
}

func optionalToWire(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}

// splitList turns "Action, Crime, Drama" into its trimmed parts.
func splitList(s string) []string {
	if s == "" || s == notAvailable {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func joinList(items []string) string {
	if len(items) == 0 {
		return notAvailable
	}
	return strings.Join(items, ", ")
}

func parseRating(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &v
}

func formatRating(v *float64) string {
	if v == nil {
		return notAvailable
	}
	// IMDb ratings carry one decimal ("9.0"); fall back to full precision
	// when that would lose information.
	s := strconv.FormatFloat(*v, 'f', 1, 64)
	if back, err := strconv.ParseFloat(s, 64); err != nil || back != *v {
		s = strconv.FormatFloat(*v, 'f', -1, 64)
	}
	return s
}

// parseVotes reads counts like "2,945,313".
func parseVotes(s string) *int {
	n, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
	if err != nil {
		return nil
	}
	return &n
}

func formatVotes(v *int) string {
	if v == nil {
		return notAvailable
	}
	n := *v
	sign := ""
	if n < 0 {
		sign, n = "-", -n
	}
	digits := strconv.Itoa(n)
	var b strings.Builder
	b.WriteString(sign)
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}
