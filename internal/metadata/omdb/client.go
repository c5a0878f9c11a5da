package omdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/vadimtrunov/MovieMate/internal/core"
	"github.com/vadimtrunov/MovieMate/internal/httpclient"
)

const (
	// DefaultBaseURL is the public OMDb endpoint.
	DefaultBaseURL = "https://www.omdbapi.com/"

	maxBodyBytes = 1 << 20
)

var imdbIDPattern = regexp.MustCompile(`^tt\d{7,}$`)

// Options configures a Client.
type Options struct {
	APIKey  string
	BaseURL string
	HTTP    httpclient.Config

	// CacheTTL opts in to keeping successful responses in memory for the
	// life of the process. Zero, the default, sends every call upstream.
	CacheTTL time.Duration
}

// Client is an OMDb API client. It is safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	http    *httpclient.Client
	logger  *slog.Logger

	searches *cache[[]core.MovieSummary]
	details  *cache[core.MovieDetails]
}

var _ core.Catalog = (*Client)(nil)

// New creates an OMDb client. It returns core.ErrMissingAPIKey when no key
// is configured, so no request is ever sent without one.
func New(opts Options, logger *slog.Logger) (*Client, error) {
	key := strings.TrimSpace(opts.APIKey)
	if key == "" {
		return nil, core.ErrMissingAPIKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	c := &Client{
		baseURL: base,
		apiKey:  key,
		http:    httpclient.New(opts.HTTP, logger),
		logger:  logger,
	}
	if opts.CacheTTL > 0 {
		c.searches = newCache[[]core.MovieSummary](opts.CacheTTL)
		c.details = newCache[core.MovieDetails](opts.CacheTTL)
	}
	return c, nil
}

// SearchByTitle searches titles. Type defaults to movie. A search without
// matches returns an empty slice. Results keep upstream order with duplicate
// identifiers dropped.
func (c *Client) SearchByTitle(ctx context.Context, req core.SearchRequest) ([]core.MovieSummary, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Year = strings.TrimSpace(req.Year)
	if req.Type == "" {
		req.Type = core.TypeMovie
	}
	if err := core.ValidateStruct(req); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s|%s|%s", strings.ToLower(req.Title), req.Year, req.Type)
	if c.searches != nil {
		if cached, ok := c.searches.Get(key); ok {
			return slices.Clone(cached), nil
		}
	}
	out, err := c.search(ctx, req)
	if err != nil {
		return nil, err
	}
	if c.searches != nil {
		c.searches.Set(key, slices.Clone(out))
	}
	return out, nil
}

func (c *Client) search(ctx context.Context, req core.SearchRequest) ([]core.MovieSummary, error) {
	params := url.Values{"s": {req.Title}, "type": {string(req.Type)}}
	if req.Year != "" {
		params.Set("y", req.Year)
	}

	var resp searchResponse
	if err := c.get(ctx, params, "", &resp); err != nil {
		if core.IsNotFound(err) {
			return []core.MovieSummary{}, nil
		}
		return nil, fmt.Errorf("search %q: %w", req.Title, err)
	}

	seen := make(map[string]struct{}, len(resp.Search))
	out := make([]core.MovieSummary, 0, len(resp.Search))
	for _, w := range resp.Search {
		if _, dup := seen[w.IMDbID]; dup {
			continue
		}
		seen[w.IMDbID] = struct{}{}
		out = append(out, summaryFromWire(w))
	}
	c.logger.Debug("omdb search",
		slog.String("title", req.Title),
		slog.Int("results", len(out)),
	)
	return out, nil
}

// GetDetailsByID fetches the full record for an IMDb identifier.
// An empty plot length means short.
func (c *Client) GetDetailsByID(ctx context.Context, imdbID string, plot core.PlotLength) (*core.MovieDetails, error) {
	imdbID = strings.TrimSpace(imdbID)
	if !imdbIDPattern.MatchString(imdbID) {
		return nil, &core.ValidationError{Field: "imdb_id", Reason: "must look like tt0000000"}
	}
	if plot == "" {
		plot = core.PlotShort
	}
	if !plot.Valid() {
		return nil, &core.ValidationError{Field: "plot", Reason: "must be one of: short, full"}
	}

	key := imdbID + "|" + string(plot)
	if c.details != nil {
		if cached, ok := c.details.Get(key); ok {
			d := cloneDetails(cached)
			return &d, nil
		}
	}

	params := url.Values{"i": {imdbID}, "plot": {string(plot)}}

	var resp wireDetails
	if err := c.get(ctx, params, imdbID, &resp); err != nil {
		return nil, fmt.Errorf("get details %s: %w", imdbID, err)
	}

	details := detailsFromWire(resp)
	if c.details != nil {
		c.details.Set(key, cloneDetails(details))
	}
	return &details, nil
}

// Ping sends a minimal search to check the key and connectivity. It never
// answers from the cache.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.search(ctx, core.SearchRequest{Title: "test", Type: core.TypeMovie})
	return err
}

// get performs an authenticated GET request against OMDb and decodes the
// JSON body into result. Error payloads are classified into core error
// types; id is reported on not-found errors.
func (c *Client) get(ctx context.Context, params url.Values, id string, result any) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return &core.TransportError{Cause: fmt.Errorf("invalid URL: %w", err)}
	}

	q := u.Query()
	q.Set("apikey", c.apiKey)
	for k, vs := range params {
		for _, v := range vs {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return &core.TransportError{Cause: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &core.TransportError{Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &core.TransportError{Cause: fmt.Errorf("read body: %w", err)}
	}

	// OMDb reports most failures as a JSON envelope; a bad key also comes
	// back as 401 with the same shape.
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil || env.Response == "" {
		if resp.StatusCode != http.StatusOK {
			return &core.TransportError{Cause: &HTTPStatusError{StatusCode: resp.StatusCode}}
		}
		if err == nil {
			err = errors.New("missing Response field")
		}
		return &core.TransportError{Cause: fmt.Errorf("decode response: %w", err)}
	}
	if !strings.EqualFold(env.Response, "True") {
		return classify(env.Error, id)
	}
	if err := json.Unmarshal(body, result); err != nil {
		return &core.TransportError{Cause: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// classify maps an OMDb error message onto the core error types.
func classify(message, id string) error {
	msg := strings.TrimSpace(message)
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "api key"):
		return &core.AuthError{Message: msg}
	case strings.HasSuffix(lower, "not found!"),
		lower == "incorrect imdb id.",
		lower == "error getting data.":
		return &core.NotFoundError{ID: id}
	case msg == "":
		return &core.UpstreamError{Message: "unknown error"}
	default:
		return &core.UpstreamError{Message: msg}
	}
}

// HTTPStatusError reports a non-200 response that carried no OMDb payload.
type HTTPStatusError struct {
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d", e.StatusCode)
}
