package mcp

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vadimtrunov/MovieMate/internal/core"
	"github.com/vadimtrunov/MovieMate/internal/frontend"
	"github.com/vadimtrunov/MovieMate/internal/recommend"
)

// mockCatalog implements core.Catalog for testing.
type mockCatalog struct {
	results    []core.MovieSummary
	searchErr  error
	details    *core.MovieDetails
	detailsErr error

	gotSearch core.SearchRequest
	gotID     string
	gotPlot   core.PlotLength
}

func (m *mockCatalog) SearchByTitle(_ context.Context, req core.SearchRequest) ([]core.MovieSummary, error) {
	m.gotSearch = req
	return m.results, m.searchErr
}

func (m *mockCatalog) GetDetailsByID(_ context.Context, id string, plot core.PlotLength) (*core.MovieDetails, error) {
	m.gotID, m.gotPlot = id, plot
	return m.details, m.detailsErr
}

// mockRecommender implements Recommender for testing.
type mockRecommender struct {
	recs []core.MovieDetails
	err  error
	got  recommend.Request
}

func (m *mockRecommender) Recommend(_ context.Context, req recommend.Request) ([]core.MovieDetails, error) {
	m.got = req
	return m.recs, m.err
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func callTool(t *testing.T, srv *Server, toolName string, args map[string]any) *mcpsdk.CallToolResult {
	t.Helper()
	ctx := context.Background()

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	_, err := srv.MCPServer().Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test-client"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { _ = session.Close() })

	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      toolName,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("call tool %s: %v", toolName, err)
	}
	return result
}

func resultText(t *testing.T, result *mcpsdk.CallToolResult) string {
	t.Helper()
	if len(result.Content) != 1 {
		t.Fatalf("expected 1 content block, got %d", len(result.Content))
	}
	text, ok := result.Content[0].(*mcpsdk.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return text.Text
}

func TestSearchMovie(t *testing.T) {
	t.Parallel()
	catalog := &mockCatalog{results: []core.MovieSummary{
		{IMDbID: "tt1375666", Title: "Inception", Year: "2010", Type: core.TypeMovie},
	}}
	srv := NewServer(Deps{Catalog: catalog}, "test", discardLogger)

	result := callTool(t, srv, "search_movie", map[string]any{"title": "Inception", "year": 2010, "type": "movie"})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", resultText(t, result))
	}

	var got []core.MovieSummary
	if err := json.Unmarshal([]byte(resultText(t, result)), &got); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if len(got) != 1 || got[0].IMDbID != "tt1375666" {
		t.Errorf("unexpected result: %+v", got)
	}
	if catalog.gotSearch != (core.SearchRequest{Title: "Inception", Year: "2010", Type: core.TypeMovie}) {
		t.Errorf("unexpected search request %+v", catalog.gotSearch)
	}
}

func TestSearchMovie_NoResults(t *testing.T) {
	t.Parallel()
	srv := NewServer(Deps{Catalog: &mockCatalog{results: []core.MovieSummary{}}}, "test", discardLogger)

	result := callTool(t, srv, "search_movie", map[string]any{"title": "zzzznomatch"})
	if result.IsError {
		t.Fatal("an empty search is not an error")
	}
	if got := resultText(t, result); got != "[]" {
		t.Errorf("expected empty JSON array, got %q", got)
	}
}

func TestGetMovieDetails(t *testing.T) {
	t.Parallel()
	catalog := &mockCatalog{details: &core.MovieDetails{
		MovieSummary: core.MovieSummary{IMDbID: "tt0468569", Title: "The Dark Knight"},
		Genres:       []string{"Action", "Crime", "Drama"},
	}}
	srv := NewServer(Deps{Catalog: catalog}, "test", discardLogger)

	result := callTool(t, srv, "get_movie_details", map[string]any{"imdb_id": "tt0468569"})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", resultText(t, result))
	}

	var got core.MovieDetails
	if err := json.Unmarshal([]byte(resultText(t, result)), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.PrimaryGenre() != "Action" {
		t.Errorf("unexpected genres %v", got.Genres)
	}
	if catalog.gotPlot != core.PlotFull {
		t.Errorf("expected full plot by default, got %q", catalog.gotPlot)
	}
}

func TestRecommendMovies(t *testing.T) {
	t.Parallel()
	rec := &mockRecommender{recs: []core.MovieDetails{
		{MovieSummary: core.MovieSummary{IMDbID: "tt0172495", Title: "Gladiator"}},
	}}
	srv := NewServer(Deps{Recommender: rec}, "test", discardLogger)

	result := callTool(t, srv, "recommend_movies", map[string]any{"title": "The Dark Knight", "max_results": 3})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", resultText(t, result))
	}

	var got []core.MovieDetails
	if err := json.Unmarshal([]byte(resultText(t, result)), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Gladiator" {
		t.Errorf("unexpected result: %+v", got)
	}
	if rec.got != (recommend.Request{SeedTitle: "The Dark Knight", MaxResults: 3}) {
		t.Errorf("unexpected request %+v", rec.got)
	}
}

func TestToolError_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		deps Deps
		tool string
		args map[string]any
		want string
	}{
		{
			name: "auth",
			deps: Deps{Catalog: &mockCatalog{searchErr: &core.AuthError{Message: "Invalid API key!"}}},
			tool: "search_movie",
			args: map[string]any{"title": "x"},
			want: frontend.MsgInvalidKey,
		},
		{
			name: "not_found",
			deps: Deps{Catalog: &mockCatalog{detailsErr: &core.NotFoundError{ID: "tt0000000"}}},
			tool: "get_movie_details",
			args: map[string]any{"imdb_id": "tt0000000"},
			want: frontend.MsgNoResults,
		},
		{
			name: "seed_not_found",
			deps: Deps{Recommender: &mockRecommender{err: &recommend.StageError{Stage: recommend.StageSeedSearch, Err: recommend.ErrSeedNotFound}}},
			tool: "recommend_movies",
			args: map[string]any{"title": "zzzznomatch"},
			want: frontend.MsgNoResults,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := callTool(t, NewServer(tt.deps, "test", discardLogger), tt.tool, tt.args)
			if !result.IsError {
				t.Fatal("expected error result")
			}
			if got := resultText(t, result); !strings.Contains(got, tt.want) {
				t.Errorf("expected %q in %q", tt.want, got)
			}
		})
	}
}

func TestToolError_NilDependency(t *testing.T) {
	t.Parallel()
	srv := NewServer(Deps{}, "test", discardLogger)

	tests := []struct {
		tool string
		args map[string]any
	}{
		{"search_movie", map[string]any{"title": "Test"}},
		{"get_movie_details", map[string]any{"imdb_id": "tt0000001"}},
		{"recommend_movies", map[string]any{"title": "Test"}},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			t.Parallel()
			result := callTool(t, srv, tt.tool, tt.args)
			if !result.IsError {
				t.Errorf("expected error for %s with nil dependency", tt.tool)
			}
		})
	}
}

func TestToolError_BadArgs(t *testing.T) {
	t.Parallel()
	srv := NewServer(Deps{Catalog: &mockCatalog{}, Recommender: &mockRecommender{}}, "test", discardLogger)

	tests := []struct {
		name string
		tool string
		args map[string]any
	}{
		{"missing_title", "search_movie", map[string]any{}},
		{"empty_title", "search_movie", map[string]any{"title": ""}},
		{"bad_type_kind", "search_movie", map[string]any{"title": "x", "type": true}},
		{"missing_id", "get_movie_details", map[string]any{}},
		{"fractional_max", "recommend_movies", map[string]any{"title": "x", "max_results": 2.5}},
		{"bad_max", "recommend_movies", map[string]any{"title": "x", "max_results": "many"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if result := callTool(t, srv, tt.tool, tt.args); !result.IsError {
				t.Errorf("expected error for %s", tt.name)
			}
		})
	}
}

func TestOptionalHelpers(t *testing.T) {
	t.Parallel()

	args := map[string]any{"year": float64(2010), "n": "4", "s": "x"}
	if got, _ := optionalString(args, "year"); got != "2010" {
		t.Errorf("optionalString(year) = %q", got)
	}
	if got, _ := optionalString(args, "missing"); got != "" {
		t.Errorf("optionalString(missing) = %q", got)
	}
	if got, _ := optionalInt(args, "n"); got != 4 {
		t.Errorf("optionalInt(n) = %d", got)
	}
	if got, _ := optionalInt(args, "missing"); got != 0 {
		t.Errorf("optionalInt(missing) = %d", got)
	}
}
