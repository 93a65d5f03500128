package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fmk-dating/internal/db"
)

// ActionRepository provides data access methods for the Action model.
type ActionRepository struct {
	db *gorm.DB
}

// NewActionRepository creates a new repository bound to the given DB connection.
func NewActionRepository(database *gorm.DB) *ActionRepository {
	return &ActionRepository{db: database}
}

// Upsert inserts or overwrites the action recorded by from -> to.
//
// The composite PK (from_user_id, to_user_id) guarantees a single row per
// ordered pair; resubmission replaces the kind.
func (r *ActionRepository) Upsert(ctx context.Context, fromID, toID int64, kind string) error {
	action := db.Action{
		FromUserID: fromID,
		ToUserID:   toID,
		Kind:       kind,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "from_user_id"}, {Name: "to_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"kind", "updated_at"}),
		}).
		Create(&action).Error
}

// GetKind returns the action kind recorded by from -> to, or "" when none.
func (r *ActionRepository) GetKind(ctx context.Context, fromID, toID int64) (string, error) {
	var action db.Action
	err := r.db.WithContext(ctx).
		First(&action, "from_user_id = ? AND to_user_id = ?", fromID, toID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return action.Kind, nil
}
