package requests

// ChatMessage is one client-supplied history entry.
type ChatMessage struct {
	Role    string `json:"role" binding:"omitempty,oneof=user assistant"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Text      string        `json:"text" binding:"required"`
	History   []ChatMessage `json:"history"`
	SessionID *string       `json:"sessionId"`
}
