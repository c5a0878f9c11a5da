package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/goccy/go-json"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vadimtrunov/MovieMate/internal/core"
	"github.com/vadimtrunov/MovieMate/internal/frontend"
	"github.com/vadimtrunov/MovieMate/internal/recommend"
)

// Recommender produces recommendations for a seed title.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) ([]core.MovieDetails, error)
}

// Deps holds dependencies for MCP tool handlers.
type Deps struct {
	Catalog     core.Catalog
	Recommender Recommender
}

// Server wraps an MCP SDK server with MovieMate tool handlers.
type Server struct {
	server *mcpsdk.Server
	deps   Deps
	logger *slog.Logger
}

// NewServer creates an MCP server with all MovieMate tools registered.
func NewServer(deps Deps, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if version == "" {
		version = "dev"
	}

	s := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "moviemate",
			Version: version,
		},
		&mcpsdk.ServerOptions{Logger: logger},
	)

	srv := &Server{server: s, deps: deps, logger: logger}
	srv.registerTools()
	return srv
}

// ServeStdio runs the MCP server over stdin/stdout.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.server.Run(ctx, &mcpsdk.StdioTransport{})
}

// MCPServer returns the underlying MCP SDK server (for testing).
func (s *Server) MCPServer() *mcpsdk.Server {
	return s.server
}

func (s *Server) registerTools() {
	s.server.AddTool(searchMovieTool(), s.handleSearchMovie)
	s.server.AddTool(getMovieDetailsTool(), s.handleGetMovieDetails)
	s.server.AddTool(recommendMoviesTool(), s.handleRecommendMovies)
}

func searchMovieTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "search_movie",
		Description: "Search OMDb by title. Returns matching titles with IMDb IDs, years, types and poster URLs.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{
					"type":        "string",
					"description": "The title to search for",
				},
				"year": map[string]any{
					"type":        "integer",
					"description": "Optional four-digit release year",
				},
				"type": map[string]any{
					"type":        "string",
					"enum":        []any{"movie", "series", "episode"},
					"description": "Kind of title, defaults to movie",
				},
			},
			"required": []any{"title"},
		},
	}
}

func getMovieDetailsTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "get_movie_details",
		Description: "Get full details for a title by IMDb ID (e.g. tt0468569): genres, cast, plot, ratings and more.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"imdb_id": map[string]any{
					"type":        "string",
					"description": "The IMDb ID of the title",
				},
				"plot": map[string]any{
					"type":        "string",
					"enum":        []any{"short", "full"},
					"description": "Plot length, defaults to full",
				},
			},
			"required": []any{"imdb_id"},
		},
	}
}

func recommendMoviesTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "recommend_movies",
		Description: "Recommend titles that share the primary genre of a seed movie. Returns full details in relevance order.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{
					"type":        "string",
					"description": "Title of the seed movie",
				},
				"max_results": map[string]any{
					"type":        "integer",
					"description": "How many recommendations to return",
				},
			},
			"required": []any{"title"},
		},
	}
}

// Tool handlers parse arguments, call the catalog and return JSON text content.

func (s *Server) handleSearchMovie(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Catalog == nil {
		return toolError(frontend.MsgMissingKey), nil
	}

	args, err := parseArgs(req.Params.Arguments)
	if err != nil {
		return toolError(err.Error()), nil
	}
	title, err := requiredString(args, "title")
	if err != nil {
		return toolError(err.Error()), nil
	}
	year, err := optionalString(args, "year")
	if err != nil {
		return toolError(err.Error()), nil
	}
	mediaType, err := optionalString(args, "type")
	if err != nil {
		return toolError(err.Error()), nil
	}

	results, err := s.deps.Catalog.SearchByTitle(ctx, core.SearchRequest{
		Title: title,
		Year:  year,
		Type:  core.MediaType(mediaType),
	})
	if err != nil {
		return s.toolFailure("search", err), nil
	}
	return toolJSON(results)
}

func (s *Server) handleGetMovieDetails(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Catalog == nil {
		return toolError(frontend.MsgMissingKey), nil
	}

	args, err := parseArgs(req.Params.Arguments)
	if err != nil {
		return toolError(err.Error()), nil
	}
	id, err := requiredString(args, "imdb_id")
	if err != nil {
		return toolError(err.Error()), nil
	}
	plot, err := optionalString(args, "plot")
	if err != nil {
		return toolError(err.Error()), nil
	}
	if plot == "" {
		plot = string(core.PlotFull)
	}

	details, err := s.deps.Catalog.GetDetailsByID(ctx, id, core.PlotLength(plot))
	if err != nil {
		return s.toolFailure("details", err), nil
	}
	return toolJSON(details)
}

func (s *Server) handleRecommendMovies(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Recommender == nil {
		return toolError(frontend.MsgMissingKey), nil
	}

	args, err := parseArgs(req.Params.Arguments)
	if err != nil {
		return toolError(err.Error()), nil
	}
	title, err := requiredString(args, "title")
	if err != nil {
		return toolError(err.Error()), nil
	}
	maxResults, err := optionalInt(args, "max_results")
	if err != nil {
		return toolError(err.Error()), nil
	}

	recs, err := s.deps.Recommender.Recommend(ctx, recommend.Request{SeedTitle: title, MaxResults: maxResults})
	if err != nil {
		return s.toolFailure("recommend", err), nil
	}
	return toolJSON(recs)
}

// Helper functions.

// toolFailure logs err and returns a tool error carrying the user message.
func (s *Server) toolFailure(op string, err error) *mcpsdk.CallToolResult {
	s.logger.Warn("mcp tool failed",
		slog.String("op", op),
		slog.String("error", err.Error()),
	)
	return toolError(fmt.Sprintf("%s failed: %s", op, frontend.UserMessage(err)))
}

// toolJSON marshals v to JSON and returns it as text content.
func toolJSON(v any) (*mcpsdk.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return toolError(fmt.Sprintf("marshal result: %v", err)), nil
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
	}, nil
}

// toolError returns a tool result indicating an error.
func toolError(msg string) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: msg}},
		IsError: true,
	}
}

func parseArgs(raw []byte) (map[string]any, error) {
	args := map[string]any{}
	if len(raw) == 0 {
		return args, nil
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	return args, nil
}

// requiredString extracts a non-empty string argument.
func requiredString(args map[string]any, key string) (string, error) {
	val, ok := args[key]
	if !ok {
		return "", fmt.Errorf("%s is required", key)
	}
	s, ok := val.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%s must be a non-empty string", key)
	}
	return s, nil
}

// optionalString extracts a string argument; numbers are formatted.
func optionalString(args map[string]any, key string) (string, error) {
	switch v := args[key].(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("%s must be a string, got %T", key, v)
	}
}

// optionalInt extracts an integer argument; absent means zero.
func optionalInt(args map[string]any, key string) (int, error) {
	switch v := args[key].(type) {
	case nil:
		return 0, nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%s must be an integer", key)
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%s must be a number: %w", key, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%s must be a number, got %T", key, v)
	}
}
