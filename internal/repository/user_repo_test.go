package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fmk-dating/internal/db"
	"fmk-dating/internal/repository"
)

func TestUpsertLoginCreatesThenTouches(t *testing.T) {
	ctx := context.Background()
	gdb := setupRepoDB(t)
	repo := repository.NewUserRepository(gdb)

	user, err := repo.UpsertLogin(ctx, &db.User{
		TelegramUserID: 100, FirstName: "Alina", Username: "alina", Language: "ru", Theme: "light", FilmGrain: true,
	})
	require.NoError(t, err)
	assert.NotNil(t, user.Photos)
	assert.Empty(t, user.Photos)

	// customize the profile, then log in again
	_, err = repo.UpdateProfile(ctx, 100, map[string]interface{}{"description": "custom", "theme": "dark"})
	require.NoError(t, err)
	require.NoError(t, gdb.Model(&db.User{}).Where("telegram_user_id = ?", int64(100)).
		Update("updated_at", time.Now().Add(-time.Hour)).Error)

	again, err := repo.UpsertLogin(ctx, &db.User{TelegramUserID: 100, FirstName: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Alina", again.FirstName)
	assert.Equal(t, "custom", again.Description)
	assert.Equal(t, "dark", again.Theme)
	assert.WithinDuration(t, time.Now(), again.UpdatedAt, time.Minute)
	assert.EqualValues(t, 1, count(t, gdb, &db.User{}))
}

func TestGetMissingUserIsNil(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(setupRepoDB(t))

	user, err := repo.Get(ctx, 404)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestAddPhotoEnforcesCap(t *testing.T) {
	ctx := context.Background()
	gdb := setupRepoDB(t)
	repo := repository.NewUserRepository(gdb)
	seedUser(t, gdb, 1, "Alina")

	for i := 0; i < repository.MaxPhotos; i++ {
		photos, err := repo.AddPhoto(ctx, 1, "https://example.com/p.jpg")
		require.NoError(t, err)
		assert.Len(t, photos, i+1)
	}

	_, err := repo.AddPhoto(ctx, 1, "https://example.com/extra.jpg")
	assert.ErrorIs(t, err, repository.ErrPhotoLimit)

	user, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, user.Photos, repository.MaxPhotos)
}

func TestNextCandidateExclusions(t *testing.T) {
	ctx := context.Background()
	gdb := setupRepoDB(t)
	users := repository.NewUserRepository(gdb)
	actions := repository.NewActionRepository(gdb)
	matches := repository.NewMatchRepository(gdb)

	seedUser(t, gdb, 1, "Me", "https://example.com/me.jpg")
	seedUser(t, gdb, 2, "Killed", "https://example.com/k.jpg")
	seedUser(t, gdb, 3, "Matched", "https://example.com/m.jpg")
	seedUser(t, gdb, 4, "Photoless")
	seedUser(t, gdb, 5, "Eligible", "https://example.com/e.jpg")

	require.NoError(t, actions.Upsert(ctx, 1, 2, db.ActionKill))
	// fuck does not exclude, only kill does
	require.NoError(t, actions.Upsert(ctx, 1, 5, db.ActionFuck))
	_, _, err := matches.CreateIfAbsent(ctx, &db.Match{User1ID: 3, User2ID: 1, Type: db.MatchConditional})
	require.NoError(t, err)

	// random ordering, so sample repeatedly
	for i := 0; i < 10; i++ {
		candidate, err := users.NextCandidate(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, candidate)
		assert.EqualValues(t, 5, candidate.TelegramUserID)
	}
}

func TestNextCandidateEmptyPool(t *testing.T) {
	ctx := context.Background()
	gdb := setupRepoDB(t)
	repo := repository.NewUserRepository(gdb)
	seedUser(t, gdb, 1, "Me", "https://example.com/me.jpg")

	candidate, err := repo.NextCandidate(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, candidate)
}

func TestDeleteCascades(t *testing.T) {
	ctx := context.Background()
	gdb := setupRepoDB(t)
	users := repository.NewUserRepository(gdb)
	actions := repository.NewActionRepository(gdb)
	matches := repository.NewMatchRepository(gdb)
	messages := repository.NewMessageRepository(gdb)

	seedUser(t, gdb, 1, "Alina", "https://example.com/a.jpg")
	seedUser(t, gdb, 2, "Boris", "https://example.com/b.jpg")
	seedUser(t, gdb, 3, "Chulpan", "https://example.com/c.jpg")

	require.NoError(t, actions.Upsert(ctx, 1, 2, db.ActionMarry))
	require.NoError(t, actions.Upsert(ctx, 2, 1, db.ActionMarry))
	require.NoError(t, actions.Upsert(ctx, 2, 3, db.ActionFuck))
	match, _, err := matches.CreateIfAbsent(ctx, &db.Match{User1ID: 1, User2ID: 2, Type: db.MatchInstant, Confirm1: true, Confirm2: true})
	require.NoError(t, err)
	require.NoError(t, messages.Create(ctx, &db.Message{MatchID: match.ID, SenderID: 1, Type: db.MessageText, Content: "hi"}))

	require.NoError(t, users.Delete(ctx, 1))

	gone, err := users.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, gone)
	assert.EqualValues(t, 0, count(t, gdb, &db.Match{}))
	assert.EqualValues(t, 0, count(t, gdb, &db.Message{}))
	// actions not involving the deleted user survive
	assert.EqualValues(t, 1, count(t, gdb, &db.Action{}))

	kept, err := users.Get(ctx, 2)
	require.NoError(t, err)
	assert.NotNil(t, kept)
}
