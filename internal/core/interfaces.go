package core

import "context"

// Catalog defines the movie metadata lookups the rest of MovieMate depends on.
// The OMDb client is the only implementation; tests substitute fakes.
type Catalog interface {
	// SearchByTitle returns matching titles in upstream order.
	// A query with no matches yields an empty slice and a nil error.
	SearchByTitle(ctx context.Context, req SearchRequest) ([]MovieSummary, error)

	// GetDetailsByID returns the full record for an IMDb identifier.
	GetDetailsByID(ctx context.Context, imdbID string, plot PlotLength) (*MovieDetails, error)
}

// SearchRequest describes a title search.
type SearchRequest struct {
	Title string    `json:"title" validate:"required"`
	Year  string    `json:"year,omitempty" validate:"omitempty,len=4,numeric"`
	Type  MediaType `json:"type,omitempty" validate:"omitempty,oneof=movie series episode"`
}
