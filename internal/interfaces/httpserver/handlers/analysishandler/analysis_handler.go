package analysishandler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"matchpulse/analysis-api/internal/domain/analysis"
	"matchpulse/analysis-api/internal/interfaces/httpserver/requests"
	"matchpulse/analysis-api/internal/utils/platformerrors"
)

// AnalysisHandler exposes the sport analysis endpoints.
type AnalysisHandler struct {
	service *analysis.Service
	logger  zerolog.Logger
}

func New(service *analysis.Service, logger zerolog.Logger) *AnalysisHandler {
	return &AnalysisHandler{service: service, logger: logger}
}

// Analyze handles POST /api/analyze.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	ctx := c.Request.Context()

	var req requests.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteError(c, platformerrors.NewError(ctx, platformerrors.LayerHandler,
			platformerrors.ErrorTypeValidation, "invalid analyze request", err), h.logger)
		return
	}

	resp, err := h.service.Analyze(ctx, analysis.AnalyzeInput{
		Sport:       req.Sport,
		DataText:    req.DataText,
		Model:       req.ModelID,
		Temperature: req.Temperature,
	})
	if err != nil {
		platformerrors.WriteError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Results handles GET /api/results.
func (h *AnalysisHandler) Results(c *gin.Context) {
	ctx := c.Request.Context()

	var sport *analysis.Sport
	if raw, ok := c.GetQuery("sport"); ok && raw != "" {
		parsed, err := analysis.ParseSport(ctx, raw)
		if err != nil {
			platformerrors.WriteError(c, err, h.logger)
			return
		}
		sport = &parsed
	}

	items, err := h.service.ListResults(ctx, sport)
	if err != nil {
		platformerrors.WriteError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Result handles GET /api/results/:id. An unknown id answers with a
// not_found marker body rather than an error status.
func (h *AnalysisHandler) Result(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		platformerrors.WriteError(c, platformerrors.NewError(ctx, platformerrors.LayerHandler,
			platformerrors.ErrorTypeValidation, "result id must be a positive integer", err), h.logger)
		return
	}

	detail, err := h.service.GetResult(ctx, uint(id))
	if err != nil {
		platformerrors.WriteError(c, err, h.logger)
		return
	}
	if detail == nil {
		c.JSON(http.StatusOK, gin.H{"error": "not_found"})
		return
	}
	c.JSON(http.StatusOK, detail)
}
