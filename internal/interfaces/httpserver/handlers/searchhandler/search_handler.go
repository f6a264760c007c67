package searchhandler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"matchpulse/analysis-api/internal/domain/search"
	"matchpulse/analysis-api/internal/interfaces/httpserver/requests"
	"matchpulse/analysis-api/internal/utils/platformerrors"
)

// SearchHandler exposes the web search endpoint.
type SearchHandler struct {
	service *search.Service
	logger  zerolog.Logger
}

func New(service *search.Service, logger zerolog.Logger) *SearchHandler {
	return &SearchHandler{service: service, logger: logger}
}

// Search handles POST /api/search.
func (h *SearchHandler) Search(c *gin.Context) {
	ctx := c.Request.Context()

	var req requests.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteError(c, platformerrors.NewError(ctx, platformerrors.LayerHandler,
			platformerrors.ErrorTypeValidation, "invalid search request", err), h.logger)
		return
	}

	c.JSON(http.StatusOK, h.service.SearchAndAnalyze(ctx, req.Query, req.Temperature))
}
