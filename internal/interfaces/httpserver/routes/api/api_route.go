package api

import (
	"github.com/gin-gonic/gin"

	"matchpulse/analysis-api/internal/interfaces/httpserver/handlers/analysishandler"
	"matchpulse/analysis-api/internal/interfaces/httpserver/handlers/chathandler"
	"matchpulse/analysis-api/internal/interfaces/httpserver/handlers/searchhandler"
)

// APIRoute groups all /api endpoints.
type APIRoute struct {
	chatHandler     *chathandler.ChatHandler
	analysisHandler *analysishandler.AnalysisHandler
	searchHandler   *searchhandler.SearchHandler
}

func New(
	chatHandler *chathandler.ChatHandler,
	analysisHandler *analysishandler.AnalysisHandler,
	searchHandler *searchhandler.SearchHandler,
) *APIRoute {
	return &APIRoute{
		chatHandler:     chatHandler,
		analysisHandler: analysisHandler,
		searchHandler:   searchHandler,
	}
}

func (r *APIRoute) RegisterRouter(router gin.IRouter) {
	apiGroup := router.Group("/api")

	apiGroup.POST("/chat", r.chatHandler.Chat)
	apiGroup.GET("/conversations", r.chatHandler.Conversations)
	apiGroup.GET("/conversation-sessions", r.chatHandler.Sessions)

	apiGroup.POST("/analyze", r.analysisHandler.Analyze)
	apiGroup.GET("/results", r.analysisHandler.Results)
	apiGroup.GET("/results/:id", r.analysisHandler.Result)

	apiGroup.POST("/search", r.searchHandler.Search)
}
