package analysis

import (
	"context"
	"strings"
	"time"

	"matchpulse/analysis-api/internal/utils/platformerrors"
)

// Sport selects which analysis table and prompt a request targets.
type Sport string

const (
	SportFootball   Sport = "football"
	SportBasketball Sport = "basketball"
)

// ParseSport validates and canonicalizes the sport parameter.
func ParseSport(ctx context.Context, raw string) (Sport, error) {
	switch Sport(strings.ToLower(strings.TrimSpace(raw))) {
	case SportFootball:
		return SportFootball, nil
	case SportBasketball:
		return SportBasketball, nil
	default:
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "sport must be 'football' or 'basketball'", nil)
	}
}

// Predictions is the score/trend block of a structured result.
type Predictions struct {
	Score     string `json:"score"`
	TrendNote string `json:"trend_note"`
}

// Result is the structured analysis produced by normalization. Every field is
// populated; callers never see a partial result.
type Result struct {
	Summary       string            `json:"summary"`
	Angles        map[string]string `json:"angles"`
	DeepAnalysis  string            `json:"deep_analysis"`
	Predictions   Predictions       `json:"predictions"`
	BettingAdvice string            `json:"betting_advice"`
	Probability   float64           `json:"probability"`
	Disclaimers   string            `json:"disclaimers"`
}

// Record is a persisted analysis row.
type Record struct {
	ID         uint
	Sport      Sport
	QueryText  string
	ResultJSON string
	CreatedAt  time.Time
}

// ListItem is the listing projection of a record.
type ListItem struct {
	ID        uint      `json:"id"`
	Sport     Sport     `json:"sport"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"createdAt"`
}

// Repository persists analysis records across the two per-sport tables.
type Repository interface {
	Create(ctx context.Context, sport Sport, queryText, resultJSON string) (*Record, error)
	ListBySport(ctx context.Context, sport Sport, limit int) ([]Record, error)
	// FindByID probes the football table first, then basketball.
	FindByID(ctx context.Context, id uint) (*Record, error)
}
