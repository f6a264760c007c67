package chathandler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"matchpulse/analysis-api/internal/domain/chat"
	"matchpulse/analysis-api/internal/interfaces/httpserver/requests"
	"matchpulse/analysis-api/internal/interfaces/httpserver/responses"
	"matchpulse/analysis-api/internal/utils/platformerrors"
)

// ChatHandler exposes the chat relay and conversation history endpoints.
type ChatHandler struct {
	service *chat.Service
	logger  zerolog.Logger
}

func New(service *chat.Service, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{service: service, logger: logger}
}

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(c *gin.Context) {
	ctx := c.Request.Context()

	var req requests.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteError(c, platformerrors.NewError(ctx, platformerrors.LayerHandler,
			platformerrors.ErrorTypeValidation, "invalid chat request", err), h.logger)
		return
	}

	history := make([]chat.Message, 0, len(req.History))
	for _, m := range req.History {
		history = append(history, chat.Message{Role: m.Role, Content: m.Content})
	}

	out, err := h.service.Reply(ctx, chat.ReplyInput{
		Text:      req.Text,
		History:   history,
		SessionID: req.SessionID,
	})
	if err != nil {
		platformerrors.WriteError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, responses.ChatResponse{Reply: out.Reply, CreatedAt: out.CreatedAt})
}

// Conversations handles GET /api/conversations.
func (h *ChatHandler) Conversations(c *gin.Context) {
	ctx := c.Request.Context()

	filter := chat.TurnFilter{
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "pageSize", 20),
		Order:    c.DefaultQuery("order", chat.OrderDesc),
	}
	if sessionID, ok := c.GetQuery("sessionId"); ok {
		filter.SessionID = &sessionID
	}

	page, err := h.service.ListTurns(ctx, filter)
	if err != nil {
		platformerrors.WriteError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Sessions handles GET /api/conversation-sessions.
func (h *ChatHandler) Sessions(c *gin.Context) {
	ctx := c.Request.Context()

	page, err := h.service.ListSessions(ctx, queryInt(c, "page", 1), queryInt(c, "pageSize", 20))
	if err != nil {
		platformerrors.WriteError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, page)
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return val
}
