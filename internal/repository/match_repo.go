package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fmk-dating/internal/db"
)

// MatchRepository provides data access methods for the Match model.
type MatchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new repository bound to the given DB connection.
func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// CreateIfAbsent inserts a match for the unordered pair unless one already
// exists. The unique pair_key index absorbs the two-writer race: a losing
// insert becomes a no-op and the surviving row is returned instead.
//
// Returns the live match row and whether this call created it.
func (r *MatchRepository) CreateIfAbsent(ctx context.Context, match *db.Match) (*db.Match, bool, error) {
	match.PairKey = db.PairKey(match.User1ID, match.User2ID)

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pair_key"}},
			DoNothing: true,
		}).
		Create(match).Error
	if err != nil {
		return nil, false, err
	}

	// Conflict path: the insert was skipped and no ID was assigned.
	if match.ID == 0 {
		existing, err := r.GetByPair(ctx, match.User1ID, match.User2ID)
		if err != nil {
			return nil, false, err
		}
		if existing == nil {
			return nil, false, gorm.ErrRecordNotFound
		}
		return existing, false, nil
	}
	return match, true, nil
}

// GetByID returns the match, or nil when no row exists.
func (r *MatchRepository) GetByID(ctx context.Context, matchID int64) (*db.Match, error) {
	var match db.Match
	err := r.db.WithContext(ctx).First(&match, matchID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// GetByPair returns the match for the unordered pair, or nil when none.
func (r *MatchRepository) GetByPair(ctx context.Context, a, b int64) (*db.Match, error) {
	var match db.Match
	err := r.db.WithContext(ctx).
		First(&match, "pair_key = ?", db.PairKey(a, b)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// ListActive returns the user's open chats: instant matches plus conditional
// matches confirmed by both members, newest first, with members preloaded.
func (r *MatchRepository) ListActive(ctx context.Context, userID int64) ([]db.Match, error) {
	var matches []db.Match
	err := r.db.WithContext(ctx).
		Preload("User1").
		Preload("User2").
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Where("type = ? OR (confirm1 = ? AND confirm2 = ?)", db.MatchInstant, true, true).
		Order("created_at DESC").
		Find(&matches).Error
	return matches, err
}

// ListPending returns the user's conditional matches still waiting on at
// least one confirmation, newest first, with members preloaded.
func (r *MatchRepository) ListPending(ctx context.Context, userID int64) ([]db.Match, error) {
	var matches []db.Match
	err := r.db.WithContext(ctx).
		Preload("User1").
		Preload("User2").
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Where("type = ?", db.MatchConditional).
		Where("NOT (confirm1 = ? AND confirm2 = ?)", true, true).
		Order("created_at DESC").
		Find(&matches).Error
	return matches, err
}

// CountPending counts the user's unconfirmed conditional matches.
func (r *MatchRepository) CountPending(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Where("type = ?", db.MatchConditional).
		Where("NOT (confirm1 = ? AND confirm2 = ?)", true, true).
		Count(&count).Error
	return count, err
}

// Confirm sets the acting member's own confirmation flag and returns the
// refreshed row. Confirming twice is a no-op.
func (r *MatchRepository) Confirm(ctx context.Context, match *db.Match, userID int64) (*db.Match, error) {
	column := "confirm1"
	if match.User2ID == userID {
		column = "confirm2"
	}
	err := r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("id = ?", match.ID).
		Update(column, true).Error
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, match.ID)
}

// Delete removes the match row and its chat messages.
func (r *MatchRepository) Delete(ctx context.Context, matchID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("match_id = ?", matchID).Delete(&db.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db.Match{}, matchID).Error
	})
}
