package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vadimtrunov/MovieMate/internal/core"
	"github.com/vadimtrunov/MovieMate/internal/recommend"
)

func newSearchCmd() *cobra.Command {
	var (
		year      string
		mediaType string
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "search [title]",
		Short: "Search OMDb by title",
		Example: `  moviemate search "The Dark Knight"
  moviemate search Dune --year 2021
  moviemate search "Breaking Bad" --type series`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := core.SearchRequest{
				Title: strings.Join(args, " "),
				Year:  year,
				Type:  core.MediaType(mediaType),
			}
			return runCatalogTask(cmd, "Searching", asJSON, func(ctx context.Context, d deps) (any, string, error) {
				results, err := d.catalog.SearchByTitle(ctx, req)
				if err != nil {
					return nil, "", err
				}
				return results, renderSummaries(fmt.Sprintf("Results for %q", req.Title), results), nil
			})
		},
	}
	cmd.Flags().StringVar(&year, "year", "", "release year (4 digits)")
	cmd.Flags().StringVar(&mediaType, "type", string(core.TypeMovie), "media type: movie, series or episode")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}

func newDetailsCmd() *cobra.Command {
	var (
		plot   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:     "details [imdb-id]",
		Short:   "Show details for an IMDb identifier",
		Example: `  moviemate details tt0468569 --plot short`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			return runCatalogTask(cmd, "Loading", asJSON, func(ctx context.Context, d deps) (any, string, error) {
				p := core.PlotLength(plot)
				if p == "" {
					p = d.plot
				}
				details, err := d.catalog.GetDetailsByID(ctx, id, p)
				if err != nil {
					return nil, "", err
				}
				return details, renderDetails(details), nil
			})
		},
	}
	cmd.Flags().StringVar(&plot, "plot", "", "plot length: short or full (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print details as JSON")
	return cmd
}

func newRecommendCmd() *cobra.Command {
	var (
		count  int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "recommend [title]",
		Short: "Recommend titles sharing a genre with a movie",
		Example: `  moviemate recommend "The Dark Knight"
  moviemate recommend Inception -n 5`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := recommend.Request{SeedTitle: strings.Join(args, " "), MaxResults: count}
			return runCatalogTask(cmd, "Finding recommendations", asJSON, func(ctx context.Context, d deps) (any, string, error) {
				recs, err := d.engine.Recommend(ctx, req)
				if err != nil {
					return nil, "", err
				}
				return recs, renderRecommendations(req.SeedTitle, recs), nil
			})
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of recommendations (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print recommendations as JSON")
	return cmd
}

// deps are the services a catalog command runs against.
type deps struct {
	catalog core.Catalog
	engine  *recommend.Engine
	plot    core.PlotLength
}

// catalogFunc returns the raw value for --json and its terminal rendering.
type catalogFunc func(ctx context.Context, d deps) (any, string, error)

// runCatalogTask wires configuration and services, then runs fn behind a
// spinner, or prints its JSON value when asJSON is set.
func runCatalogTask(cmd *cobra.Command, label string, asJSON bool, fn catalogFunc) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	catalog, err := initCatalog(cfg, logger)
	if err != nil {
		return &displayError{err: err}
	}
	d := deps{
		catalog: catalog,
		engine:  initEngine(cfg, catalog, logger),
		plot:    core.PlotLength(cfg.OMDb.Plot),
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	if asJSON {
		v, _, err := fn(ctx, d)
		if err != nil {
			return &displayError{err: err}
		}
		out, err := renderJSON(v)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	}

	return runTask(ctx, label, func(ctx context.Context) (string, error) {
		_, out, err := fn(ctx, d)
		return out, err
	})
}
