package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/dosyammh/critic/internal/providers"
	"github.com/dosyammh/critic/internal/services"
)

type stubSearchService struct {
	items []providers.Item
	err   error

	gotQuery    string
	gotCategory providers.Category
}

func (s *stubSearchService) Search(ctx context.Context, query string, category providers.Category) ([]providers.Item, error) {
	s.gotQuery = query
	s.gotCategory = category
	return s.items, s.err
}

func (s *stubSearchService) Categories() []providers.Category {
	return []providers.Category{providers.CategoryMovies, providers.CategoryBooks}
}

func searchRouter(svc services.SearchService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewSearchHandler(svc)
	router.GET("/api/search", handler.Search)
	router.GET("/api/categories", handler.Categories)
	return router
}

func TestSearchHandlerReturnsResults(t *testing.T) {
	svc := &stubSearchService{items: []providers.Item{
		{ID: "1", Title: "Dune", Source: providers.SourceTMDB, Category: providers.CategoryMovies},
		{ID: "2", Title: "Dune", Source: providers.SourceGoogleBooks, Category: providers.CategoryBooks},
	}}
	router := searchRouter(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/search?q=dune&category=Movies", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotQuery != "dune" || svc.gotCategory != providers.CategoryMovies {
		t.Fatalf("service called with %q/%q", svc.gotQuery, svc.gotCategory)
	}

	var payload struct {
		Results []providers.Item `json:"results"`
		Count   int              `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Count != 2 || len(payload.Results) != 2 {
		t.Fatalf("expected 2 results, got count=%d len=%d", payload.Count, len(payload.Results))
	}
}

func TestSearchHandlerRequiresQuery(t *testing.T) {
	router := searchRouter(&stubSearchService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var envelope ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope.Error.Code != "missing_query" {
		t.Fatalf("expected missing_query, got %q", envelope.Error.Code)
	}
}

func TestSearchHandlerRejectsUnknownCategory(t *testing.T) {
	router := searchRouter(&stubSearchService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/search?q=dune&category=Podcasts", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var envelope ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope.Error.Code != "invalid_category" {
		t.Fatalf("expected invalid_category, got %q", envelope.Error.Code)
	}
}

func TestSearchHandlerMapsServiceErrors(t *testing.T) {
	router := searchRouter(&stubSearchService{err: services.ErrInvalidInput})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/search?q=%20", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for ErrInvalidInput, got %d", rec.Code)
	}
}

func TestCategoriesHandler(t *testing.T) {
	router := searchRouter(&stubSearchService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var payload struct {
		Categories []providers.Category `json:"categories"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(payload.Categories))
	}
}
