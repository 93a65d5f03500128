package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"fmk-dating/internal/db"
)

// MessageRepository provides data access methods for the Message model.
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new repository bound to the given DB connection.
func NewMessageRepository(database *gorm.DB) *MessageRepository {
	return &MessageRepository{db: database}
}

// ListByMatch returns the match's messages in chronological order.
func (r *MessageRepository) ListByMatch(ctx context.Context, matchID int64) ([]db.Message, error) {
	var messages []db.Message
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

// Create persists a new message and fills in its assigned ID.
func (r *MessageRepository) Create(ctx context.Context, message *db.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// Get returns the message scoped to its match, or nil when no row exists.
func (r *MessageRepository) Get(ctx context.Context, matchID, messageID int64) (*db.Message, error) {
	var message db.Message
	err := r.db.WithContext(ctx).
		First(&message, "id = ? AND match_id = ?", messageID, matchID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// SetBlur updates the reveal flag, the only mutable message field.
func (r *MessageRepository) SetBlur(ctx context.Context, messageID int64, blurred bool) error {
	return r.db.WithContext(ctx).
		Model(&db.Message{}).
		Where("id = ?", messageID).
		Update("blurred", blurred).Error
}
