package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fmk-dating/internal/db"
	"fmk-dating/internal/repository"
)

func TestCreateIfAbsentCollapsesOrientations(t *testing.T) {
	ctx := context.Background()
	gdb := setupRepoDB(t)
	repo := repository.NewMatchRepository(gdb)

	first, created, err := repo.CreateIfAbsent(ctx, &db.Match{
		User1ID: 1, User2ID: 2, Type: db.MatchConditional,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, db.PairKey(1, 2), first.PairKey)

	// reversed orientation hits the same pair_key
	second, created, err := repo.CreateIfAbsent(ctx, &db.Match{
		User1ID: 2, User2ID: 1, Type: db.MatchInstant,
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, db.MatchConditional, second.Type)
	assert.EqualValues(t, 1, count(t, gdb, &db.Match{}))
}

func TestGetByPairEitherOrder(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMatchRepository(setupRepoDB(t))

	created, _, err := repo.CreateIfAbsent(ctx, &db.Match{User1ID: 3, User2ID: 7, Type: db.MatchInstant})
	require.NoError(t, err)

	match, err := repo.GetByPair(ctx, 7, 3)
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, created.ID, match.ID)

	missing, err := repo.GetByPair(ctx, 7, 8)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestConfirmSetsOnlyOwnFlag(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMatchRepository(setupRepoDB(t))

	match, _, err := repo.CreateIfAbsent(ctx, &db.Match{User1ID: 10, User2ID: 20, Type: db.MatchConditional})
	require.NoError(t, err)

	match, err = repo.Confirm(ctx, match, 20)
	require.NoError(t, err)
	assert.False(t, match.Confirm1)
	assert.True(t, match.Confirm2)
	assert.False(t, match.Active())

	// confirming twice is a no-op
	match, err = repo.Confirm(ctx, match, 20)
	require.NoError(t, err)
	assert.False(t, match.Confirm1)
	assert.True(t, match.Confirm2)

	match, err = repo.Confirm(ctx, match, 10)
	require.NoError(t, err)
	assert.True(t, match.Confirm1)
	assert.True(t, match.Confirm2)
	assert.True(t, match.Active())
}

func TestActiveAndPendingLists(t *testing.T) {
	ctx := context.Background()
	gdb := setupRepoDB(t)
	repo := repository.NewMatchRepository(gdb)

	seedUser(t, gdb, 1, "Alina", "https://example.com/a.jpg")
	seedUser(t, gdb, 2, "Boris", "https://example.com/b.jpg")
	seedUser(t, gdb, 3, "Chulpan", "https://example.com/c.jpg")
	seedUser(t, gdb, 4, "Dina", "https://example.com/d.jpg")

	_, _, err := repo.CreateIfAbsent(ctx, &db.Match{
		User1ID: 1, User2ID: 2, Type: db.MatchInstant, Confirm1: true, Confirm2: true,
	})
	require.NoError(t, err)
	pending, _, err := repo.CreateIfAbsent(ctx, &db.Match{User1ID: 3, User2ID: 1, Type: db.MatchConditional})
	require.NoError(t, err)
	confirmed, _, err := repo.CreateIfAbsent(ctx, &db.Match{User1ID: 1, User2ID: 4, Type: db.MatchConditional})
	require.NoError(t, err)
	confirmed, err = repo.Confirm(ctx, confirmed, 1)
	require.NoError(t, err)
	_, err = repo.Confirm(ctx, confirmed, 4)
	require.NoError(t, err)

	active, err := repo.ListActive(ctx, 1)
	require.NoError(t, err)
	require.Len(t, active, 2)
	for _, m := range active {
		assert.True(t, m.Active())
		assert.NotEmpty(t, m.User1.FirstName)
		assert.NotEmpty(t, m.User2.FirstName)
	}

	waiting, err := repo.ListPending(ctx, 1)
	require.NoError(t, err)
	require.Len(t, waiting, 1)
	assert.Equal(t, pending.ID, waiting[0].ID)

	n, err := repo.CountPending(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	// the other member of the pending match sees it too
	n, err = repo.CountPending(ctx, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	// an uninvolved user sees nothing
	active, err = repo.ListActive(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestDeleteRemovesMatchAndMessages(t *testing.T) {
	ctx := context.Background()
	gdb := setupRepoDB(t)
	matches := repository.NewMatchRepository(gdb)
	messages := repository.NewMessageRepository(gdb)

	match, _, err := matches.CreateIfAbsent(ctx, &db.Match{User1ID: 1, User2ID: 2, Type: db.MatchInstant})
	require.NoError(t, err)
	other, _, err := matches.CreateIfAbsent(ctx, &db.Match{User1ID: 1, User2ID: 3, Type: db.MatchInstant})
	require.NoError(t, err)

	require.NoError(t, messages.Create(ctx, &db.Message{MatchID: match.ID, SenderID: 1, Type: db.MessageText, Content: "привет"}))
	require.NoError(t, messages.Create(ctx, &db.Message{MatchID: match.ID, SenderID: 2, Type: db.MessageText, Content: "hi"}))
	require.NoError(t, messages.Create(ctx, &db.Message{MatchID: other.ID, SenderID: 1, Type: db.MessageText, Content: "keep"}))

	require.NoError(t, matches.Delete(ctx, match.ID))

	gone, err := matches.GetByID(ctx, match.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	left, err := messages.ListByMatch(ctx, match.ID)
	require.NoError(t, err)
	assert.Empty(t, left)

	kept, err := messages.ListByMatch(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}
