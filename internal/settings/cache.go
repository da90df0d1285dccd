package settings

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/eter-store/eter-admin/internal/db/models"
)

const (
	cacheKeyPrefix     = "settings:"
	cacheGenerationKey = cacheKeyPrefix + "generation"
	cacheAllCategories = "*"
)

// Storage is the subset of the gofiber storage interface the cache needs.
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte, exp time.Duration) error
	Delete(key string) error
}

// Cache keeps marshalled snapshots per category. It is a Reader and a Notifier.
// Entries are keyed by a generation that every change replaces, so a snapshot
// loaded before a change can never be served after it.
type Cache struct {
	storage Storage
	ttl     time.Duration
}

// NewCache creates a Cache. A zero ttl keeps entries until the next change.
func NewCache(storage Storage, ttl time.Duration) *Cache {
	return &Cache{storage: storage, ttl: ttl}
}

func cacheKey(generation string, category models.Category) string {
	name := string(category)
	if name == "" {
		name = cacheAllCategories
	}

	return cacheKeyPrefix + generation + ":" + name
}

// generation returns the current generation, creating one if none is stored.
func (c *Cache) generation() (string, error) {
	raw, err := c.storage.Get(cacheGenerationKey)
	if err != nil {
		return "", err
	}

	if len(raw) > 0 {
		return string(raw), nil
	}

	return c.rotate()
}

func (c *Cache) rotate() (string, error) {
	generation := uuid.NewString()
	if err := c.storage.Set(cacheGenerationKey, []byte(generation), 0); err != nil {
		return "", err
	}

	return generation, nil
}

// Snapshot returns the cached snapshot for category or loads it. A loaded snapshot
// is stored only if no change was signalled while it was loading. Storage
// failures fall through to load.
func (c *Cache) Snapshot(ctx context.Context, category models.Category, load LoadFunc) (*Snapshot, error) {
	generation, err := c.generation()
	if err != nil {
		log.Warn().Err(err).Msg("settings cache generation unavailable")
		return load(ctx, category)
	}

	key := cacheKey(generation, category)

	raw, err := c.storage.Get(key)
	if err != nil {
		log.Warn().Err(err).Str("cache_key", key).Msg("settings cache read failed")
	}

	if len(raw) > 0 {
		var snapshot Snapshot
		if err = json.Unmarshal(raw, &snapshot); err == nil {
			return &snapshot, nil
		}

		log.Warn().Err(err).Str("cache_key", key).Msg("discarding undecodable settings cache entry")
	}

	snapshot, err := load(ctx, category)
	if err != nil {
		return nil, err
	}

	if current, err := c.generation(); err != nil || current != generation {
		return snapshot, nil
	}

	if raw, err = json.Marshal(snapshot); err == nil {
		err = c.storage.Set(key, raw, c.ttl)
	}

	if err != nil {
		log.Warn().Err(err).Str("cache_key", key).Msg("settings cache write failed")
	}

	return snapshot, nil
}

// SettingChanged starts a new generation and drops the entries of the previous one.
func (c *Cache) SettingChanged(_ context.Context, _ string, _ *models.SettingsHistory) error {
	previous, getErr := c.storage.Get(cacheGenerationKey)

	if _, err := c.rotate(); err != nil {
		return err
	}

	if getErr != nil || len(previous) == 0 {
		return getErr
	}

	var firstErr error

	for _, key := range categoryKeys(string(previous)) {
		if err := c.storage.Delete(key); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

func categoryKeys(generation string) []string {
	keys := make([]string, 0, len(models.Categories)+1)
	keys = append(keys, cacheKey(generation, ""))

	for _, category := range models.Categories {
		keys = append(keys, cacheKey(generation, category))
	}

	return keys
}
