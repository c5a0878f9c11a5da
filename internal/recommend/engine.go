// Package recommend derives movie recommendations from a seed title's
// primary genre.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vadimtrunov/MovieMate/internal/core"
)

// ErrSeedNotFound is returned when the seed title search yields nothing.
var ErrSeedNotFound = errors.New("seed title not found")

// Stage names a step of the recommendation pipeline.
type Stage string

// Pipeline stages in execution order.
const (
	StageSeedSearch      Stage = "seed_search"
	StageSeedDetail      Stage = "seed_detail"
	StageGenreDerive     Stage = "genre_derive"
	StageCandidateSearch Stage = "candidate_search"
	StageCandidateDetail Stage = "candidate_detail"
)

// StageError reports the stage at which a recommendation failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("recommend %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Options tunes the engine.
type Options struct {
	DefaultResults int // used when a request leaves MaxResults at zero
	MaxResults     int // upper bound a request may ask for
	Concurrency    int // parallel candidate detail fetches
}

// DefaultOptions returns the stock engine settings.
func DefaultOptions() Options {
	return Options{DefaultResults: 10, MaxResults: 20, Concurrency: 4}
}

// Request asks for up to MaxResults titles similar to SeedTitle.
type Request struct {
	SeedTitle  string `json:"seed_title" validate:"required"`
	MaxResults int    `json:"max_results" validate:"gte=0"`
}

// Engine turns a seed title into recommendations using the catalog.
// It holds no per-request state and may serve concurrent requests.
type Engine struct {
	catalog core.Catalog
	opts    Options
	logger  *slog.Logger
}

// New creates an Engine. Zero option fields fall back to DefaultOptions.
func New(catalog core.Catalog, opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultOptions()
	if opts.MaxResults <= 0 {
		opts.MaxResults = def.MaxResults
	}
	if opts.DefaultResults <= 0 {
		opts.DefaultResults = min(def.DefaultResults, opts.MaxResults)
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = def.Concurrency
	}
	return &Engine{catalog: catalog, opts: opts, logger: logger}
}

// Recommend resolves the seed, derives its primary genre, searches for that
// genre and returns details for up to MaxResults candidates in search order.
// Candidates whose details cannot be fetched are skipped. A seed without
// genres, or a genre search without usable hits, yields an empty result.
func (e *Engine) Recommend(ctx context.Context, req Request) ([]core.MovieDetails, error) {
	req, err := e.normalize(req)
	if err != nil {
		return nil, err
	}
	log := e.logger.With(slog.String("seed", req.SeedTitle))

	log.Debug("recommend stage", slog.String("stage", string(StageSeedSearch)))
	hits, err := e.catalog.SearchByTitle(ctx, core.SearchRequest{Title: req.SeedTitle})
	if err != nil {
		return nil, &StageError{Stage: StageSeedSearch, Err: err}
	}
	if len(hits) == 0 {
		return nil, &StageError{Stage: StageSeedSearch, Err: ErrSeedNotFound}
	}
	seedHit := hits[0]

	log.Debug("recommend stage", slog.String("stage", string(StageSeedDetail)), slog.String("imdb_id", seedHit.IMDbID))
	seed, err := e.catalog.GetDetailsByID(ctx, seedHit.IMDbID, core.PlotShort)
	if err != nil {
		return nil, &StageError{Stage: StageSeedDetail, Err: err}
	}
	seedID := seed.IMDbID
	if seedID == "" {
		seedID = seedHit.IMDbID
	}

	genre := seed.PrimaryGenre()
	log.Debug("recommend stage", slog.String("stage", string(StageGenreDerive)), slog.String("genre", genre))
	if genre == "" {
		return []core.MovieDetails{}, nil
	}

	// The genre name is used as a title query; OMDb has no genre search.
	log.Debug("recommend stage", slog.String("stage", string(StageCandidateSearch)))
	candidates, err := e.catalog.SearchByTitle(ctx, core.SearchRequest{Title: genre})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &StageError{Stage: StageCandidateSearch, Err: ctxErr}
		}
		log.Warn("candidate search failed", slog.String("genre", genre), slog.String("error", err.Error()))
		return []core.MovieDetails{}, nil
	}

	candidates = excludeSeed(candidates, seedID, seedHit.IMDbID)
	if len(candidates) == 0 {
		return []core.MovieDetails{}, nil
	}

	log.Debug("recommend stage",
		slog.String("stage", string(StageCandidateDetail)),
		slog.Int("candidates", len(candidates)),
		slog.Int("max_results", req.MaxResults),
	)
	out, err := e.collect(ctx, candidates, req.MaxResults, seedID)
	if err != nil {
		return nil, &StageError{Stage: StageCandidateDetail, Err: err}
	}
	return out, nil
}

func (e *Engine) normalize(req Request) (Request, error) {
	req.SeedTitle = strings.TrimSpace(req.SeedTitle)
	if err := core.ValidateStruct(req); err != nil {
		return req, err
	}
	if req.MaxResults == 0 {
		req.MaxResults = e.opts.DefaultResults
	}
	if req.MaxResults > e.opts.MaxResults {
		return req, &core.ValidationError{
			Field:  "max_results",
			Reason: fmt.Sprintf("must be at most %d", e.opts.MaxResults),
		}
	}
	return req, nil
}

// excludeSeed drops candidates matching any seed identifier, and repeats.
func excludeSeed(candidates []core.MovieSummary, seedIDs ...string) []core.MovieSummary {
	seen := make(map[string]struct{}, len(candidates)+len(seedIDs))
	for _, id := range seedIDs {
		seen[id] = struct{}{}
	}
	out := make([]core.MovieSummary, 0, len(candidates))
	for _, c := range candidates {
		if _, skip := seen[c.IMDbID]; skip {
			continue
		}
		seen[c.IMDbID] = struct{}{}
		out = append(out, c)
	}
	return out
}

// collect fetches candidate details until want have succeeded or the
// candidates run out. Each round fetches only as many candidates as are
// still needed, so the result matches a sequential walk and no more than
// the required details are requested when nothing fails.
func (e *Engine) collect(ctx context.Context, candidates []core.MovieSummary, want int, seedID string) ([]core.MovieDetails, error) {
	out := make([]core.MovieDetails, 0, want)
	next := 0
	for len(out) < want && next < len(candidates) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(next+want-len(out), len(candidates))
		window := candidates[next:end]
		next = end

		results := make([]*core.MovieDetails, len(window))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.opts.Concurrency)
		for i, c := range window {
			g.Go(func() error {
				d, err := e.catalog.GetDetailsByID(gctx, c.IMDbID, core.PlotShort)
				if err != nil {
					if ctxErr := ctx.Err(); ctxErr != nil {
						return ctxErr
					}
					e.logger.Warn("skipping candidate",
						slog.String("imdb_id", c.IMDbID),
						slog.String("error", err.Error()),
					)
					return nil
				}
				if d.IMDbID == seedID {
					return nil
				}
				results[i] = d
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		for _, d := range results {
			if d != nil {
				out = append(out, *d)
			}
		}
	}
	return out, nil
}
