package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dosyammh/critic/internal/providers"
	"github.com/dosyammh/critic/internal/services"
)

type SearchHandler struct {
	searchService services.SearchService
}

func NewSearchHandler(searchService services.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

func (sh *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		RespondError(c, http.StatusBadRequest, "missing_query", fmt.Errorf("query parameter q is required"))
		return
	}

	var category providers.Category
	if raw := c.Query("category"); raw != "" {
		parsed, ok := providers.ParseCategory(raw)
		if !ok {
			RespondError(c, http.StatusBadRequest, "invalid_category", fmt.Errorf("unknown category %q", raw))
			return
		}
		category = parsed
	}

	items, err := sh.searchService.Search(c.Request.Context(), query, category)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"results": items, "count": len(items)})
}

func (sh *SearchHandler) Categories(c *gin.Context) {
	RespondOK(c, gin.H{"categories": sh.searchService.Categories()})
}
