package exchangelog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"matchpulse/analysis-api/internal/domain/chat"
)

const sessionPrefixLen = 12

// FileSink writes one JSON artifact per completed chat exchange into a
// flat directory, named by timestamp and session prefix.
type FileSink struct {
	dir string
}

var _ chat.ExchangeSink = (*FileSink)(nil)

// NewFileSink creates the artifact directory if needed.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create exchange log dir %s: %w", dir, err)
	}
	return &FileSink{dir: dir}, nil
}

// Record writes the exchange as pretty-printed JSON.
func (s *FileSink) Record(_ context.Context, exchange chat.Exchange) error {
	payload, err := json.MarshalIndent(exchange, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal exchange: %w", err)
	}

	path := filepath.Join(s.dir, artifactName(exchange.SessionID, exchange.CreatedAt))
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write exchange artifact: %w", err)
	}
	return nil
}

// artifactName builds "<timestamp>_<session>.json" with filesystem-hostile
// characters replaced and the session id capped at twelve characters.
func artifactName(sessionID *string, createdAt time.Time) string {
	ts := createdAt.Format("2006-01-02T15:04:05.000000")
	ts = strings.NewReplacer(":", "-", ".", "-").Replace(ts)

	session := "nosession"
	if sessionID != nil && *sessionID != "" {
		session = *sessionID
		if runes := []rune(session); len(runes) > sessionPrefixLen {
			session = string(runes[:sessionPrefixLen])
		}
	}
	return ts + "_" + session + ".json"
}
