package history

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/eter-store/eter-admin/internal/db/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.SettingsHistory{}), "failed to migrate test database")

	return db
}

func entry(key, oldValue, newValue string) *models.SettingsHistory {
	e := &models.SettingsHistory{
		Key:           key,
		NewValue:      models.JSON(newValue),
		ChangedBy:     "1",
		ChangedReason: "test",
	}
	if oldValue != "" {
		e.OldValue = models.JSON(oldValue)
	}

	return e
}

func TestAppendAndGet(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	e := entry("store_name", "", `"A"`)
	require.NoError(t, Append(ctx, db, e))
	assert.NotZero(t, e.ID)
	assert.False(t, e.CreatedAt.IsZero())

	got, err := Get(ctx, db, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "store_name", got.Key)
	assert.False(t, got.HasOldValue())
	assert.JSONEq(t, `"A"`, string(got.NewValue))

	_, err = Get(ctx, db, e.ID+100)
	require.ErrorIs(t, err, ErrHistoryNotFound)
}

func TestAppendRejectsInvalidInput(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.ErrorIs(t, Append(ctx, nil, entry("k", "", "1")), ErrDBNil)
	require.ErrorIs(t, Append(ctx, db, nil), ErrEntryNil)

	persisted := entry("k", "", "1")
	persisted.ID = 7
	require.ErrorIs(t, Append(ctx, db, persisted), ErrEntryPersisted)
}

func TestListTimeline(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, Append(ctx, db, entry("k", "", `"A"`)))
	require.NoError(t, Append(ctx, db, entry("other", "", `1`)))
	require.NoError(t, Append(ctx, db, entry("k", `"A"`, `"B"`)))
	require.NoError(t, Append(ctx, db, entry("k", `"B"`, `"A"`)))

	entries, err := List(ctx, db, "k", 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.False(t, entries[0].HasOldValue())
	assert.JSONEq(t, `"A"`, string(entries[0].NewValue))
	assert.JSONEq(t, `"A"`, string(entries[1].OldValue))
	assert.JSONEq(t, `"B"`, string(entries[1].NewValue))
	assert.JSONEq(t, `"B"`, string(entries[2].OldValue))
	assert.JSONEq(t, `"A"`, string(entries[2].NewValue))

	all, err := List(ctx, db, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	limited, err := List(ctx, db, "k", 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	// newest two, still oldest first
	assert.JSONEq(t, `"B"`, string(limited[0].NewValue))
	assert.JSONEq(t, `"A"`, string(limited[1].NewValue))
}

func TestLog(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	log := NewLog(db)

	e := entry("theme", `"light"`, `"dark"`)
	require.NoError(t, log.Append(ctx, e))

	got, err := log.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, got.HasOldValue())

	entries, err := log.List(ctx, "theme", 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
