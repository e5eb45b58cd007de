package tmdb_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"subdl/internal/tmdb"
)

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := tmdb.New("", "https://example.com", "en-US"); err == nil {
		t.Fatal("expected error when api key missing")
	}
}

func TestSearchMovieSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "key" {
			t.Fatalf("expected api_key query parameter, got %q", r.URL.RawQuery)
		}
		if r.URL.Query().Get("primary_release_year") != "1999" {
			t.Fatalf("expected year filter, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":1,"results":[{"id":1,"title":"Example","release_date":"1999-10-15"}]}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "en-US")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	resp, err := client.SearchMovie(context.Background(), "Example", 1999)
	if err != nil {
		t.Fatalf("SearchMovie returned error: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Title != "Example" {
		t.Fatalf("unexpected response: %#v", resp)
	}
	if resp.Results[0].Year() != 1999 {
		t.Fatalf("Year() = %d, want 1999", resp.Results[0].Year())
	}
}

func TestSearchMovieHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"status_code":500}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if _, err := client.SearchMovie(context.Background(), "fail", 0); err == nil {
		t.Fatal("expected error when TMDB returns non-200")
	}
}

func TestSearchMovieEmptyQuery(t *testing.T) {
	client, err := tmdb.New("key", "https://example.com", "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.SearchMovie(context.Background(), "  ", 0); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestWatchProviderRegionsFiltersPlatform(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/42/watch/providers" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": 42,
			"results": {
				"US": {"flatrate": [{"provider_name": "Apple TV Plus"}]},
				"GB": {"buy": [{"provider_name": "Apple TV"}], "rent": [{"provider_name": "Sky Store"}]},
				"DE": {"flatrate": [{"provider_name": "Netflix"}]},
				"FR": {"rent": [{"provider_name": "Apple TV"}]}
			}
		}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	regions, err := client.WatchProviderRegions(context.Background(), "movie", 42)
	if err != nil {
		t.Fatalf("WatchProviderRegions returned error: %v", err)
	}
	want := []string{"fr", "gb", "us"}
	if len(regions) != len(want) {
		t.Fatalf("regions = %v, want %v", regions, want)
	}
	for i := range want {
		if regions[i] != want[i] {
			t.Fatalf("regions = %v, want %v", regions, want)
		}
	}
}

func TestWatchProviderRegionsRejectsMediaType(t *testing.T) {
	client, err := tmdb.New("key", "https://example.com", "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.WatchProviderRegions(context.Background(), "book", 1); err == nil {
		t.Fatal("expected error for unsupported media type")
	}
}

func TestMovieDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/7" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":7,"title":"Heat","release_date":"1995-12-15"}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "en-US")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	details, err := client.MovieDetails(context.Background(), 7)
	if err != nil {
		t.Fatalf("MovieDetails returned error: %v", err)
	}
	if details.DisplayTitle() != "Heat" || details.Year() != 1995 || details.MediaType != "movie" {
		t.Fatalf("unexpected details: %#v", details)
	}
}
