package tmdb

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dosyammh/critic/internal/logger"
	"github.com/dosyammh/critic/internal/providers"
)

func TestMovieSearch_ParsesResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("api_key"); got != "test-key" {
			t.Fatalf("api_key = %q", got)
		}
		fmt.Fprint(w, `{"results": [
      {"id": 603, "title": "The Matrix", "overview": "A hacker discovers reality is a simulation.", "poster_path": "/matrix.jpg", "release_date": "1999-03-31", "vote_average": 8.7, "genre_ids": [28, 878]}
    ]}`)
	}))
	defer server.Close()

	client := NewClient(logger.NewNop(), "test-key", WithBaseURL(server.URL))
	items, err := client.Movies().Search(context.Background(), "matrix")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	item := items[0]
	if item.ID != "603" {
		t.Errorf("ID = %q, want %q", item.ID, "603")
	}
	if item.Category != providers.CategoryMovies {
		t.Errorf("Category = %q", item.Category)
	}
	if item.ImageURL != defaultImageBaseURL+"/matrix.jpg" {
		t.Errorf("ImageURL = %q", item.ImageURL)
	}
}

func TestTVSearch_ParsesResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/tv" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"results": [
      {"id": 1396, "name": "Breaking Bad", "overview": "A chemistry teacher turns to crime.", "poster_path": "/bb.jpg", "first_air_date": "2008-01-20", "vote_average": 9.5}
    ]}`)
	}))
	defer server.Close()

	client := NewClient(logger.NewNop(), "test-key", WithBaseURL(server.URL))
	items, err := client.TVShows().Search(context.Background(), "breaking bad")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Title != "Breaking Bad" || items[0].Category != providers.CategoryTVShows {
		t.Errorf("unexpected item: %+v", items[0])
	}
}

func TestSearch_NoAPIKeyUsesDemoCatalog(t *testing.T) {
	client := NewClient(logger.NewNop(), "")

	items, err := client.Movies().Search(context.Background(), "godfather")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Title != "The Godfather" {
		t.Fatalf("expected demo catalog match, got %+v", items)
	}

	items, err = client.TVShows().Search(context.Background(), "chef")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Title != "The Bear" {
		t.Fatalf("expected demo catalog match, got %+v", items)
	}
}

func TestSearch_HTTPErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(logger.NewNop(), "bad-key", WithBaseURL(server.URL))
	if _, err := client.Movies().Search(context.Background(), "matrix"); err == nil {
		t.Fatal("expected an error, got nil")
	}
}
