package omdb

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/vadimtrunov/MovieMate/internal/core"
	"github.com/vadimtrunov/MovieMate/internal/httpclient"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testHTTPConfig() httpclient.Config {
	return httpclient.Config{
		MaxRetries: 1,
		BaseDelay:  time.Millisecond,
		MaxDelay:   10 * time.Millisecond,
		Timeout:    2 * time.Second,
	}
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Options{APIKey: "test-key", BaseURL: server.URL, HTTP: testHTTPConfig()}, discardLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_MissingAPIKey(t *testing.T) {
	t.Parallel()

	for _, key := range []string{"", "   "} {
		if _, err := New(Options{APIKey: key}, nil); !errors.Is(err, core.ErrMissingAPIKey) {
			t.Errorf("key %q: expected ErrMissingAPIKey, got %v", key, err)
		}
	}
}

func TestSearchByTitle(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("apikey") != "test-key" {
			t.Error("missing apikey")
		}
		if q.Get("s") != "Inception" {
			t.Errorf("unexpected s: %s", q.Get("s"))
		}
		if q.Get("type") != "movie" {
			t.Errorf("expected type=movie by default, got %q", q.Get("type"))
		}
		if q.Has("y") {
			t.Error("year must not be sent when empty")
		}
		writeJSON(w, searchResponse{
			Response: "True",
			Search: []wireSummary{
				{Title: "Inception", Year: "2010", IMDbID: "tt1375666", Type: "movie", Poster: "https://img/x.jpg"},
				{Title: "Inception: The Cobol Job", Year: "2010", IMDbID: "tt5295894", Type: "movie", Poster: "N/A"},
				{Title: "Inception", Year: "2010", IMDbID: "tt1375666", Type: "movie", Poster: "https://img/x.jpg"},
			},
			TotalResults: "3",
		})
	}))

	got, err := client.SearchByTitle(context.Background(), core.SearchRequest{Title: "  Inception "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 deduplicated results, got %d", len(got))
	}
	if got[0].IMDbID != "tt1375666" || got[1].IMDbID != "tt5295894" {
		t.Errorf("unexpected order: %+v", got)
	}
	if got[1].PosterURL != core.PosterUnavailable {
		t.Errorf("expected unavailable poster, got %q", got[1].PosterURL)
	}
	if got[0].Type != core.TypeMovie {
		t.Errorf("expected movie type, got %q", got[0].Type)
	}
}

func TestSearchByTitle_YearAndType(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("y") != "2008" {
			t.Errorf("expected y=2008, got %q", r.URL.Query().Get("y"))
		}
		if r.URL.Query().Get("type") != "series" {
			t.Errorf("expected type=series, got %q", r.URL.Query().Get("type"))
		}
		writeJSON(w, searchResponse{Response: "True", Search: []wireSummary{}})
	}))

	_, err := client.SearchByTitle(context.Background(), core.SearchRequest{Title: "Breaking Bad", Year: "2008", Type: core.TypeSeries})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSearchByTitle_NotFoundIsEmpty(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, envelope{Response: "False", Error: "Movie not found!"})
	}))

	got, err := client.SearchByTitle(context.Background(), core.SearchRequest{Title: "zzzznomatch"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestSearchByTitle_ValidationSkipsNetwork(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		writeJSON(w, searchResponse{Response: "True"})
	}))

	tests := []struct {
		name string
		req  core.SearchRequest
	}{
		{"empty_title", core.SearchRequest{Title: "   "}},
		{"bad_year", core.SearchRequest{Title: "x", Year: "20x0"}},
		{"bad_type", core.SearchRequest{Title: "x", Type: "game"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.SearchByTitle(context.Background(), tt.req)
			if !core.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
	if calls.Load() != 0 {
		t.Errorf("expected no requests, got %d", calls.Load())
	}
}

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		check   func(error) bool
		checkID string
	}{
		{"invalid_key", http.StatusUnauthorized, `{"Response":"False","Error":"Invalid API key!"}`, core.IsAuth, "auth"},
		{"no_key", http.StatusUnauthorized, `{"Response":"False","Error":"No API key provided."}`, core.IsAuth, "auth"},
		{"too_many", http.StatusOK, `{"Response":"False","Error":"Too many results."}`, isUpstream, "upstream"},
		{"limit", http.StatusOK, `{"Response":"False","Error":"Request limit reached!"}`, isUpstream, "upstream"},
		{"garbage", http.StatusOK, `<html>oops</html>`, core.IsTransport, "transport"},
		{"no_envelope", http.StatusOK, `{"Search":[]}`, core.IsTransport, "transport"},
		{"bad_status", http.StatusServiceUnavailable, `down`, core.IsTransport, "transport"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			_, err := client.SearchByTitle(context.Background(), core.SearchRequest{Title: "Batman"})
			if err == nil {
				t.Fatal("expected error")
			}
			if !tt.check(err) {
				t.Errorf("expected %s error, got %T: %v", tt.checkID, err, err)
			}
		})
	}
}

func isUpstream(err error) bool {
	var ue *core.UpstreamError
	return errors.As(err, &ue)
}

func TestSearchByTitle_TransportFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	base := server.URL
	server.Close()

	client, err := New(Options{APIKey: "k", BaseURL: base, HTTP: testHTTPConfig()}, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	_, err = client.SearchByTitle(context.Background(), core.SearchRequest{Title: "Batman"})
	if !core.IsTransport(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestGetDetailsByID(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("i") != "tt0468569" {
			t.Errorf("unexpected i: %s", q.Get("i"))
		}
		if q.Get("plot") != "full" {
			t.Errorf("expected plot=full, got %q", q.Get("plot"))
		}
		_, _ = io.WriteString(w, darkKnightJSON)
	}))

	d, err := client.GetDetailsByID(context.Background(), "tt0468569", core.PlotFull)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Title != "The Dark Knight" {
		t.Errorf("unexpected title %q", d.Title)
	}
	if d.PrimaryGenre() != "Action" || len(d.Genres) != 3 {
		t.Errorf("unexpected genres %v", d.Genres)
	}
	if d.IMDbRating == nil || *d.IMDbRating != 9.0 {
		t.Errorf("unexpected rating %v", d.IMDbRating)
	}
	if d.IMDbVotes == nil || *d.IMDbVotes != 2945313 {
		t.Errorf("unexpected votes %v", d.IMDbVotes)
	}
	if d.DVD != "" {
		t.Errorf("expected N/A DVD to be empty, got %q", d.DVD)
	}
	if d.BoxOffice != "$534,987,076" {
		t.Errorf("unexpected box office %q", d.BoxOffice)
	}
	if len(d.Ratings) != 3 {
		t.Errorf("expected 3 ratings, got %d", len(d.Ratings))
	}
}

func TestGetDetailsByID_DefaultPlotShort(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("plot") != "short" {
			t.Errorf("expected plot=short, got %q", r.URL.Query().Get("plot"))
		}
		_, _ = io.WriteString(w, darkKnightJSON)
	}))

	if _, err := client.GetDetailsByID(context.Background(), "tt0468569", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetDetailsByID_InvalidInputSkipsNetwork(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	}))

	for _, id := range []string{"", "0468569", "tt123", "nm0000288", "tt04685x9"} {
		if _, err := client.GetDetailsByID(context.Background(), id, core.PlotShort); !core.IsValidation(err) {
			t.Errorf("id %q: expected validation error, got %v", id, err)
		}
	}
	if _, err := client.GetDetailsByID(context.Background(), "tt0468569", "medium"); !core.IsValidation(err) {
		t.Errorf("expected validation error for plot, got %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("expected no requests, got %d", calls.Load())
	}
}

func TestGetDetailsByID_NotFound(t *testing.T) {
	t.Parallel()

	for _, msg := range []string{"Incorrect IMDb ID.", "Error getting data."} {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, envelope{Response: "False", Error: msg})
		}))
		_, err := client.GetDetailsByID(context.Background(), "tt9999999", core.PlotShort)
		var nf *core.NotFoundError
		if !errors.As(err, &nf) {
			t.Fatalf("%q: expected NotFoundError, got %v", msg, err)
		}
		if nf.ID != "tt9999999" {
			t.Errorf("expected ID on error, got %q", nf.ID)
		}
	}
}

func TestPing(t *testing.T) {
	t.Parallel()

	ok := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("s") != "test" {
			t.Errorf("unexpected probe query %q", r.URL.Query().Get("s"))
		}
		writeJSON(w, searchResponse{Response: "True"})
	}))
	if err := ok.Ping(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	bad := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		writeJSON(w, envelope{Response: "False", Error: "Invalid API key!"})
	}))
	if err := bad.Ping(context.Background()); !core.IsAuth(err) {
		t.Errorf("expected auth error, got %v", err)
	}
}

const darkKnightJSON = `{
  "Title": "The Dark Knight",
  "Year": "2008",
  "Rated": "PG-13",
  "Released": "18 Jul 2008",
  "Runtime": "152 min",
  "Genre": "Action, Crime, Drama",
  "Director": "Christopher Nolan",
  "Writer": "Jonathan Nolan, Christopher Nolan, David S. Goyer",
  "Actors": "Christian Bale, Heath Ledger, Aaron Eckhart",
  "Plot": "When a menace known as the Joker wreaks havoc and chaos on the people of Gotham...",
  "Language": "English, Mandarin",
  "Country": "United States, United Kingdom",
  "Awards": "Won 2 Oscars. 164 wins & 165 nominations total",
  "Poster": "https://m.media-amazon.com/images/M/MV5BMTMxNTMwODM0NF5BMl5BanBnXkFtZTcwODAyMTk2Mw@@._V1_SX300.jpg",
  "Ratings": [
    {"Source": "Internet Movie Database", "Value": "9.0/10"},
    {"Source": "Rotten Tomatoes", "Value": "94%"},
    {"Source": "Metacritic", "Value": "84/100"}
  ],
  "Metascore": "84",
  "imdbRating": "9.0",
  "imdbVotes": "2,945,313",
  "imdbID": "tt0468569",
  "Type": "movie",
  "DVD": "N/A",
  "BoxOffice": "$534,987,076",
  "Production": "N/A",
  "Website": "N/A",
  "Response": "True"
}`
