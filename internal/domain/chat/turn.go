package chat

import (
	"context"
	"time"
)

// Order values accepted by FindTurns.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Turn is one persisted conversation message, user or assistant.
type Turn struct {
	ID        uint      `json:"id"`
	SessionID *string   `json:"sessionId"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// TurnFilter selects a page of turns, optionally scoped to one session.
type TurnFilter struct {
	SessionID *string
	Page      int
	PageSize  int
	Order     string
}

// TurnPage is a paginated slice of turns plus the unpaginated total.
type TurnPage struct {
	Items    []Turn `json:"items"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
	Total    int64  `json:"total"`
}

// SessionAggregate summarizes one session: message count and activity bounds.
type SessionAggregate struct {
	SessionID *string   `json:"sessionId"`
	Count     int64     `json:"count"`
	FirstAt   time.Time `json:"firstAt"`
	LastAt    time.Time `json:"lastAt"`
}

// SessionPage is a paginated list of session aggregates, most recently
// active session first.
type SessionPage struct {
	Items    []SessionAggregate `json:"items"`
	Page     int                `json:"page"`
	PageSize int                `json:"pageSize"`
	Total    int64              `json:"total"`
}

// TurnRepository persists and queries conversation turns.
type TurnRepository interface {
	// SaveExchange stores the user turn and the assistant reply as one
	// transaction; either both rows land or neither does.
	SaveExchange(ctx context.Context, sessionID *string, userText, replyText string) error
	FindTurns(ctx context.Context, filter TurnFilter) (*TurnPage, error)
	SessionAggregates(ctx context.Context, page, pageSize int) (*SessionPage, error)
}

// Exchange is one completed user/assistant round trip.
type Exchange struct {
	SessionID *string   `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
	Input     string    `json:"input"`
	Reply     string    `json:"reply"`
}

// ExchangeSink receives completed exchanges for side-channel recording.
// Sink failures never fail the chat request.
type ExchangeSink interface {
	Record(ctx context.Context, exchange Exchange) error
}
