package settings

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/gofiber/storage/memory/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eter-store/eter-admin/internal/db/controller/history"
	"github.com/eter-store/eter-admin/internal/db/controller/setting"
	"github.com/eter-store/eter-admin/internal/db/models"
)

// countingRepo counts List calls to observe cache hits.
type countingRepo struct {
	Repository
	lists int
}

func (c *countingRepo) List(ctx context.Context, category models.Category) ([]models.Setting, error) {
	c.lists++
	return c.Repository.List(ctx, category)
}

type brokenStorage struct{}

func (brokenStorage) Get(string) ([]byte, error)                { return nil, errors.New("get failed") }
func (brokenStorage) Set(string, []byte, time.Duration) error { return errors.New("set failed") }
func (brokenStorage) Delete(string) error                      { return errors.New("delete failed") }

func TestCacheServesSnapshotsUntilChange(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	repo := &countingRepo{Repository: setting.NewStore(db)}
	cache := NewCache(memory.New(), time.Minute)
	svc := NewService(repo, history.NewLog(db), staticIdentity("1"),
		WithReader(cache), WithNotifiers(cache))

	require.NoError(t, svc.UpdateSetting(ctx, UpdateInput{Key: "theme", Value: json.RawMessage(`"dark"`)}))

	first, err := svc.GetSettings(ctx, "")
	require.NoError(t, err)
	second, err := svc.GetSettings(ctx, "")
	require.NoError(t, err)

	assert.Equal(t, 1, repo.lists)
	assert.JSONEq(t, string(first.Data["theme"]), string(second.Data["theme"]))

	_, err = svc.GetSettings(ctx, models.CategoryGeneral)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.lists)

	require.NoError(t, svc.UpdateSetting(ctx, UpdateInput{Key: "theme", Value: json.RawMessage(`"light"`)}))

	third, err := svc.GetSettings(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 3, repo.lists)
	assert.JSONEq(t, `"light"`, string(third.Data["theme"]))

	general, err := svc.GetSettings(ctx, models.CategoryGeneral)
	require.NoError(t, err)
	assert.Equal(t, 4, repo.lists)
	assert.JSONEq(t, `"light"`, string(general.Data["theme"]))
}

func TestCacheFallsBackOnStorageErrors(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	cache := NewCache(brokenStorage{}, time.Minute)
	svc := NewService(setting.NewStore(db), history.NewLog(db), staticIdentity("1"),
		WithReader(cache), WithNotifiers(cache))

	require.NoError(t, svc.UpdateSetting(ctx, UpdateInput{Key: "currency", Value: json.RawMessage(`"BRL"`)}))

	snapshot, err := svc.GetSettings(ctx, "")
	require.NoError(t, err)
	assert.JSONEq(t, `"BRL"`, string(snapshot.Data["currency"]))

	require.Error(t, cache.SettingChanged(ctx, "currency", nil))
}

// hookRepo runs onList once, after the rows were read and before they are returned.
type hookRepo struct {
	Repository
	onList func()
}

func (h *hookRepo) List(ctx context.Context, category models.Category) ([]models.Setting, error) {
	rows, err := h.Repository.List(ctx, category)

	if fn := h.onList; fn != nil {
		h.onList = nil
		fn()
	}

	return rows, err
}

func TestCacheDoesNotKeepSnapshotLoadedBeforeChange(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	repo := &hookRepo{Repository: setting.NewStore(db)}
	cache := NewCache(memory.New(), 0)
	svc := NewService(repo, history.NewLog(db), staticIdentity("1"),
		WithReader(cache), WithNotifiers(cache))

	require.NoError(t, svc.UpdateSetting(ctx, UpdateInput{Key: "theme", Value: json.RawMessage(`"dark"`)}))

	repo.onList = func() {
		require.NoError(t, svc.UpdateSetting(ctx, UpdateInput{Key: "theme", Value: json.RawMessage(`"light"`)}))
	}

	stale, err := svc.GetSettings(ctx, "")
	require.NoError(t, err)
	assert.JSONEq(t, `"dark"`, string(stale.Data["theme"]))

	fresh, err := svc.GetSettings(ctx, "")
	require.NoError(t, err)
	assert.JSONEq(t, `"light"`, string(fresh.Data["theme"]))
}

func TestCacheChangeDropsPreviousGeneration(t *testing.T) {
	ctx := context.Background()
	storage := memory.New()
	cache := NewCache(storage, 0)

	load := func(context.Context, models.Category) (*Snapshot, error) {
		return &Snapshot{Data: map[string]json.RawMessage{"currency": json.RawMessage(`"BRL"`)}}, nil
	}

	_, err := cache.Snapshot(ctx, models.CategoryBilling, load)
	require.NoError(t, err)

	generation, err := storage.Get(cacheGenerationKey)
	require.NoError(t, err)

	key := cacheKey(string(generation), models.CategoryBilling)
	raw, err := storage.Get(key)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	require.NoError(t, cache.SettingChanged(ctx, "currency", nil))

	raw, err = storage.Get(key)
	require.NoError(t, err)
	assert.Empty(t, raw)

	next, err := storage.Get(cacheGenerationKey)
	require.NoError(t, err)
	assert.NotEqual(t, string(generation), string(next))
}
