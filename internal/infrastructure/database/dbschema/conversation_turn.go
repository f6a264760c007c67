package dbschema

import (
	"time"

	"matchpulse/analysis-api/internal/domain/chat"
	"matchpulse/analysis-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(ConversationTurn{})
}

// ConversationTurn represents the database schema for one chat message.
type ConversationTurn struct {
	ID        uint      `gorm:"primaryKey"`
	SessionID *string   `gorm:"type:varchar(64);index:idx_conversation_turns_session"`
	Role      string    `gorm:"type:varchar(16);not null"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index:idx_conversation_turns_created_at"`
}

func (ConversationTurn) TableName() string {
	return "conversation_turns"
}

func (t *ConversationTurn) EtoD() chat.Turn {
	return chat.Turn{
		ID:        t.ID,
		SessionID: t.SessionID,
		Role:      t.Role,
		Content:   t.Content,
		CreatedAt: t.CreatedAt,
	}
}
