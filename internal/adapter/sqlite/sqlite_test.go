package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracker/internal/domain"
)

func openTestDB(t *testing.T) (*DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "tracker.db")
	db, err := Open(path, false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, path
}

func TestUpsertAndLoad(t *testing.T) {
	db, _ := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SetString(ctx, domain.KeyFullName, "Ana"))
	require.NoError(t, db.SetString(ctx, domain.KeyFullName, "Ana Maria"))

	v, ok, err := db.GetString(ctx, domain.KeyFullName)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Ana Maria", v)

	var count int64
	require.NoError(t, db.gorm.Model(&KVEntry{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRemove(t *testing.T) {
	db, _ := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SetBool(ctx, domain.KeyDarkTheme, true))
	require.NoError(t, db.Remove(ctx, domain.KeyDarkTheme))
	require.NoError(t, db.Remove(ctx, domain.KeyDarkTheme))

	_, ok, err := db.GetBool(ctx, domain.KeyDarkTheme)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDurableAcrossReopen(t *testing.T) {
	db, path := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SetStringList(ctx, domain.KeyCachedActivities, []string{`{"text":"Buy milk","done":false}`}))
	require.NoError(t, db.SetInt(ctx, domain.KeyCounterValue, 5))
	require.NoError(t, db.Close())

	reopened, err := Open(path, false)
	require.NoError(t, err)
	defer reopened.Close() //nolint:errcheck

	list, ok, err := reopened.GetStringList(ctx, domain.KeyCachedActivities)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{`{"text":"Buy milk","done":false}`}, list)

	n, ok, err := reopened.GetInt(ctx, domain.KeyCounterValue)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(5), n)
}

func TestKindMismatch(t *testing.T) {
	db, _ := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SetInt(ctx, domain.KeyCounterValue, 1))
	_, _, err := db.GetStringList(ctx, domain.KeyCounterValue)
	assert.ErrorIs(t, err, domain.ErrKindMismatch)
}
