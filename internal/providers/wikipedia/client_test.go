package wikipedia

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dosyammh/critic/internal/logger"
	"github.com/dosyammh/critic/internal/providers"
)

const summaryJSON = `{
  "pageid": 736,
  "title": "Albert Einstein",
  "extract": "German-born theoretical physicist.",
  "lang": "en",
  "thumbnail": {"source": "https://upload.wikimedia.org/einstein.jpg"},
  "content_urls": {"desktop": {"page": "https://en.wikipedia.org/wiki/Albert_Einstein"}}
}`

func TestSearch_DirectSummaryHit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/rest_v1/page/summary/") {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, summaryJSON)
	}))
	defer server.Close()

	client := NewClient(logger.NewNop(), WithBaseURL(server.URL))
	items, err := client.Search(context.Background(), "Albert Einstein")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	item := items[0]
	if item.ID != "736" {
		t.Errorf("ID = %q, want %q", item.ID, "736")
	}
	if item.Source != providers.SourceWikipedia {
		t.Errorf("Source = %q, want %q", item.Source, providers.SourceWikipedia)
	}
	if item.Category != providers.CategoryArticles {
		t.Errorf("Category = %q, want %q", item.Category, providers.CategoryArticles)
	}
	if item.ImageURL != "https://upload.wikimedia.org/einstein.jpg" {
		t.Errorf("ImageURL = %q", item.ImageURL)
	}
}

func TestSearch_FallsBackToOpenSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/api/rest_v1/page/summary/Albert"):
			// Misspelled direct lookup misses.
			if strings.Contains(r.URL.Path, "Einstein") {
				fmt.Fprint(w, summaryJSON)
				return
			}
			w.WriteHeader(http.StatusNotFound)
		case r.URL.Path == "/w/api.php":
			fmt.Fprint(w, `["albert einstin", ["Albert Einstein"], [""], [""]]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(logger.NewNop(), WithBaseURL(server.URL))
	items, err := client.Search(context.Background(), "Albert einstin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Title != "Albert Einstein" {
		t.Errorf("Title = %q, want %q", items[0].Title, "Albert Einstein")
	}
}

func TestSearch_NoMatchReturnsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/w/api.php" {
			fmt.Fprint(w, `["zzz", [], [], []]`)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(logger.NewNop(), WithBaseURL(server.URL))
	items, err := client.Search(context.Background(), "zzz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
}

func TestSearch_ServerErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(logger.NewNop(), WithBaseURL(server.URL))
	if _, err := client.Search(context.Background(), "anything"); err == nil {
		t.Fatal("expected an error, got nil")
	}
}
