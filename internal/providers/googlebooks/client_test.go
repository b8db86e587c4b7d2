package googlebooks

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dosyammh/critic/internal/logger"
	"github.com/dosyammh/critic/internal/providers"
)

const volumesJSON = `{
  "items": [
    {
      "id": "vol-1",
      "volumeInfo": {
        "title": "Dune",
        "authors": ["Frank Herbert"],
        "description": "Set on the desert planet Arrakis.",
        "publishedDate": "1965",
        "categories": ["Fiction"],
        "imageLinks": {"thumbnail": "http://books.google.com/dune.jpg"}
      }
    },
    {
      "id": "vol-2",
      "volumeInfo": {
        "title": "Dune Messiah",
        "description": "The second novel in the Dune saga."
      }
    },
    {
      "id": "",
      "volumeInfo": {"title": "Broken entry"}
    }
  ]
}`

func TestSearch_ParsesVolumes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/books/v1/volumes" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "dune" {
			t.Fatalf("q = %q, want %q", got, "dune")
		}
		fmt.Fprint(w, volumesJSON)
	}))
	defer server.Close()

	client := NewClient(logger.NewNop(), WithBaseURL(server.URL))
	items, err := client.Search(context.Background(), "dune")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items (broken entry skipped), got %d", len(items))
	}
	if items[0].ID != "vol-1" || items[0].Source != providers.SourceGoogleBooks {
		t.Errorf("unexpected first item: %+v", items[0])
	}
	if items[0].ImageURL != "https://books.google.com/dune.jpg" {
		t.Errorf("thumbnail not upgraded to https: %q", items[0].ImageURL)
	}
	if items[1].Description != "The second novel in the Dune saga." {
		t.Errorf("Description = %q", items[1].Description)
	}
}

func TestSearch_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	client := NewClient(logger.NewNop(), WithBaseURL(server.URL))
	items, err := client.Search(context.Background(), "nothing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
}

func TestSearch_HTTPErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(logger.NewNop(), WithBaseURL(server.URL))
	if _, err := client.Search(context.Background(), "dune"); err == nil {
		t.Fatal("expected an error, got nil")
	}
}
