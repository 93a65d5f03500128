package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"fmk-dating/internal/db"
)

// MaxPhotos is the server-side cap on profile photos.
const MaxPhotos = 5

// ErrPhotoLimit is returned when adding a photo to a full profile.
var ErrPhotoLimit = errors.New("photo limit reached")

// UserRepository provides data access methods for the User model.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// Get returns the user by Telegram id, or nil when no row exists.
func (r *UserRepository) Get(ctx context.Context, userID int64) (*db.User, error) {
	var user db.User
	err := r.db.WithContext(ctx).First(&user, "telegram_user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpsertLogin creates the user row on first login or refreshes updated_at on
// a repeat login, leaving the profile fields untouched.
func (r *UserRepository) UpsertLogin(ctx context.Context, user *db.User) (*db.User, error) {
	existing, err := r.Get(ctx, user.TelegramUserID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		if user.Photos == nil {
			user.Photos = db.StringList{}
		}
		if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
			return nil, err
		}
		return user, nil
	}

	err = r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("telegram_user_id = ?", user.TelegramUserID).
		Update("updated_at", time.Now()).Error
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, user.TelegramUserID)
}

// UpdateProfile applies pre-validated column updates and returns the fresh row.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID int64, updates map[string]interface{}) (*db.User, error) {
	if len(updates) > 0 {
		err := r.db.WithContext(ctx).
			Model(&db.User{}).
			Where("telegram_user_id = ?", userID).
			Updates(updates).Error
		if err != nil {
			return nil, err
		}
	}
	return r.Get(ctx, userID)
}

// AddPhoto appends one photo URL, enforcing the MaxPhotos cap.
func (r *UserRepository) AddPhoto(ctx context.Context, userID int64, photoURL string) (db.StringList, error) {
	var user db.User
	if err := r.db.WithContext(ctx).First(&user, "telegram_user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	if len(user.Photos) >= MaxPhotos {
		return nil, ErrPhotoLimit
	}

	photos := append(user.Photos, photoURL)
	err := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("telegram_user_id = ?", userID).
		Update("photos", photos).Error
	if err != nil {
		return nil, err
	}
	return photos, nil
}

// NextCandidate picks one uniform-random user eligible for userID.
//
// Excluded: the requester, every user the requester kill-ed, every user
// already paired with the requester in a match row (either orientation),
// and users with an empty photo list. Returns nil when the pool is empty.
func (r *UserRepository) NextCandidate(ctx context.Context, userID int64) (*db.User, error) {
	random := "RANDOM()"
	if r.db.Dialector.Name() == "mysql" {
		random = "RAND()"
	}

	var user db.User
	err := r.db.WithContext(ctx).
		Where("telegram_user_id <> ?", userID).
		Where(`NOT EXISTS (
			SELECT 1 FROM actions a
			WHERE a.from_user_id = ?
			  AND a.to_user_id = users.telegram_user_id
			  AND a.kind = ?)`, userID, db.ActionKill).
		Where(`NOT EXISTS (
			SELECT 1 FROM matches m
			WHERE (m.user1_id = ? AND m.user2_id = users.telegram_user_id)
			   OR (m.user2_id = ? AND m.user1_id = users.telegram_user_id))`, userID, userID).
		Where("photos IS NOT NULL AND photos <> '' AND photos <> '[]'").
		Order(random).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes the user and everything referencing them: messages,
// matches, actions. Done explicitly in one transaction so cleanup does not
// depend on the driver's foreign-key enforcement.
func (r *UserRepository) Delete(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM messages WHERE sender_id = ? OR match_id IN (
			SELECT id FROM matches WHERE user1_id = ? OR user2_id = ?)`,
			userID, userID, userID).Error; err != nil {
			return err
		}
		if err := tx.Where("user1_id = ? OR user2_id = ?", userID, userID).
			Delete(&db.Match{}).Error; err != nil {
			return err
		}
		if err := tx.Where("from_user_id = ? OR to_user_id = ?", userID, userID).
			Delete(&db.Action{}).Error; err != nil {
			return err
		}
		return tx.Where("telegram_user_id = ?", userID).Delete(&db.User{}).Error
	})
}
