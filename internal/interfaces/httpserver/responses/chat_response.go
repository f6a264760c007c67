package responses

import "time"

// ChatResponse is the body returned by POST /api/chat.
type ChatResponse struct {
	Reply     string    `json:"reply"`
	CreatedAt time.Time `json:"createdAt"`
}
