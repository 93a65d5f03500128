package repository_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"fmk-dating/internal/db"
)

func setupRepoDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(database))
	return database
}

func seedUser(t *testing.T, gdb *gorm.DB, id int64, name string, photos ...string) *db.User {
	t.Helper()
	user := &db.User{
		TelegramUserID: id,
		FirstName:      name,
		Username:       name,
		Photos:         db.StringList(photos),
	}
	require.NoError(t, gdb.Create(user).Error)
	return user
}

func count(t *testing.T, gdb *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Model(model).Count(&n).Error)
	return n
}
