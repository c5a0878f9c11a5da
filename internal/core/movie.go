package core

// PosterUnavailable marks a title without a usable poster image.
const PosterUnavailable = "unavailable"

// MediaType is the kind of title the catalog returns.
type MediaType string

// Media types understood by the catalog.
const (
	TypeMovie   MediaType = "movie"
	TypeSeries  MediaType = "series"
	TypeEpisode MediaType = "episode"
)

// Valid reports whether t is one of the known media types.
func (t MediaType) Valid() bool {
	switch t {
	case TypeMovie, TypeSeries, TypeEpisode:
		return true
	}
	return false
}

// PlotLength selects how much of the plot the detail lookup returns.
type PlotLength string

// Plot lengths accepted by the catalog.
const (
	PlotShort PlotLength = "short"
	PlotFull  PlotLength = "full"
)

// Valid reports whether p is short or full.
func (p PlotLength) Valid() bool {
	return p == PlotShort || p == PlotFull
}

// MovieSummary is a single search hit.
type MovieSummary struct {
	IMDbID    string    `json:"imdb_id"`
	Title     string    `json:"title"`
	Year      string    `json:"year"`
	Type      MediaType `json:"type"`
	PosterURL string    `json:"poster_url"`
}

// HasPoster reports whether PosterURL points at an image.
func (m MovieSummary) HasPoster() bool {
	return m.PosterURL != "" && m.PosterURL != PosterUnavailable
}

// Rating is one entry of the per-source ratings list.
type Rating struct {
	Source string `json:"source"`
	Value  string `json:"value"`
}

// MovieDetails is the full record for a single title.
// Genres keeps upstream order; the first genre drives recommendations.
type MovieDetails struct {
	MovieSummary

	Rated      string   `json:"rated"`
	Released   string   `json:"released"`
	Runtime    string   `json:"runtime"`
	Genres     []string `json:"genres"`
	Director   string   `json:"director"`
	Writers    []string `json:"writers"`
	Actors     []string `json:"actors"`
	Plot       string   `json:"plot"`
	Languages  []string `json:"languages"`
	Countries  []string `json:"countries"`
	Awards     string   `json:"awards"`
	Ratings    []Rating `json:"ratings"`
	Metascore  string   `json:"metascore"`
	IMDbRating *float64 `json:"imdb_rating"` // nil when unrated
	IMDbVotes  *int     `json:"imdb_votes"`  // nil when unknown

	// Optional fields; empty means the upstream had no value.
	BoxOffice  string `json:"box_office,omitempty"`
	DVD        string `json:"dvd,omitempty"`
	Production string `json:"production,omitempty"`
}

// PrimaryGenre returns the first genre, or "" when none is known.
func (d *MovieDetails) PrimaryGenre() string {
	if d == nil || len(d.Genres) == 0 {
		return ""
	}
	return d.Genres[0]
}

// RatingsBySource returns ratings keyed by source name.
func (d *MovieDetails) RatingsBySource() map[string]string {
	out := make(map[string]string, len(d.Ratings))
	for _, r := range d.Ratings {
		out[r.Source] = r.Value
	}
	return out
}
