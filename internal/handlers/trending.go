package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dosyammh/critic/internal/services"
)

type TrendingHandler struct {
	trendingService services.TrendingService
}

func NewTrendingHandler(trendingService services.TrendingService) *TrendingHandler {
	return &TrendingHandler{trendingService: trendingService}
}

func (th *TrendingHandler) Trending(c *gin.Context) {
	period, ok := services.ParsePeriod(c.Query("period"))
	if !ok {
		RespondError(c, http.StatusBadRequest, "invalid_period", fmt.Errorf("unknown period %q", c.Query("period")))
		return
	}
	items, err := th.trendingService.Trending(c.Request.Context(), period)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"trending": items, "period": period})
}
