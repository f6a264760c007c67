package conversationrepo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"matchpulse/analysis-api/internal/domain/chat"
	"matchpulse/analysis-api/internal/infrastructure/database/dbschema"
	"matchpulse/analysis-api/internal/utils/platformerrors"
)

// ConversationRepository implements chat.TurnRepository using GORM.
type ConversationRepository struct {
	db *gorm.DB
}

var _ chat.TurnRepository = (*ConversationRepository)(nil)

// New creates a new ConversationRepository.
func New(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// SaveExchange stores the user turn and the assistant reply atomically.
func (r *ConversationRepository) SaveExchange(ctx context.Context, sessionID *string, userText, replyText string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		turns := []dbschema.ConversationTurn{
			{SessionID: sessionID, Role: "user", Content: userText},
			{SessionID: sessionID, Role: "assistant", Content: replyText},
		}
		return tx.Create(&turns).Error
	})
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabase, "failed to persist chat exchange", err)
	}
	return nil
}

// FindTurns returns one page of turns ordered by creation time.
func (r *ConversationRepository) FindTurns(ctx context.Context, filter chat.TurnFilter) (*chat.TurnPage, error) {
	query := r.db.WithContext(ctx).Model(&dbschema.ConversationTurn{})
	if filter.SessionID != nil {
		query = query.Where("session_id = ?", *filter.SessionID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabase, "failed to count conversation turns", err)
	}

	order := "created_at DESC"
	if filter.Order == chat.OrderAsc {
		order = "created_at ASC"
	}

	var rows []dbschema.ConversationTurn
	err := query.
		Order(order).
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabase, "failed to query conversation turns", err)
	}

	items := make([]chat.Turn, 0, len(rows))
	for i := range rows {
		items = append(items, rows[i].EtoD())
	}
	return &chat.TurnPage{
		Items:    items,
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Total:    total,
	}, nil
}

// SessionAggregates groups turns by session, most recently active first.
func (r *ConversationRepository) SessionAggregates(ctx context.Context, page, pageSize int) (*chat.SessionPage, error) {
	grouped := r.db.WithContext(ctx).
		Model(&dbschema.ConversationTurn{}).
		Select("session_id").
		Group("session_id")

	var total int64
	if err := r.db.WithContext(ctx).Table("(?) AS sessions", grouped).Count(&total).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabase, "failed to count sessions", err)
	}

	var rows []struct {
		SessionID *string
		Count     int64
		FirstAt   *time.Time
		LastAt    *time.Time
	}
	err := r.db.WithContext(ctx).
		Model(&dbschema.ConversationTurn{}).
		Select("session_id, COUNT(id) AS count, MIN(created_at) AS first_at, MAX(created_at) AS last_at").
		Group("session_id").
		Order("MAX(created_at) DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Scan(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabase, "failed to aggregate sessions", err)
	}

	items := make([]chat.SessionAggregate, 0, len(rows))
	for _, row := range rows {
		item := chat.SessionAggregate{SessionID: row.SessionID, Count: row.Count}
		if row.FirstAt != nil {
			item.FirstAt = *row.FirstAt
		}
		if row.LastAt != nil {
			item.LastAt = *row.LastAt
		}
		items = append(items, item)
	}
	return &chat.SessionPage{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}
