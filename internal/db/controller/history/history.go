// Package history is the gorm backed, append-only settings history log.
package history

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/eter-store/eter-admin/internal/db/models"
)

const (
	// DefaultLimit is used when a caller passes a non positive limit.
	DefaultLimit = 100
	// MaxLimit caps the number of entries returned by one List call.
	MaxLimit = 500
)

var (
	// ErrHistoryNotFound is returned when a history entry does not exist.
	ErrHistoryNotFound = errors.New("history entry not found")
	// ErrEntryNil is returned when Append receives a nil entry.
	ErrEntryNil = errors.New("history entry is nil")
	// ErrEntryPersisted is returned when Append receives an entry that already has an id.
	ErrEntryPersisted = errors.New("history entry already persisted")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Append inserts a new entry. The database assigns ID and CreatedAt.
func Append(ctx context.Context, db *gorm.DB, entry *models.SettingsHistory) error {
	if db == nil {
		return ErrDBNil
	}
	if entry == nil {
		return ErrEntryNil
	}
	if entry.ID != 0 {
		return ErrEntryPersisted
	}

	return db.WithContext(ctx).Create(entry).Error
}

// Get retrieves an entry by id.
func Get(ctx context.Context, db *gorm.DB, id uint64) (*models.SettingsHistory, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var entry models.SettingsHistory
	result := db.WithContext(ctx).First(&entry, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrHistoryNotFound
		}
		return nil, result.Error
	}

	return &entry, nil
}

// List returns the timeline in creation order. An empty key returns entries for every key.
// Only the newest limit entries are returned.
func List(ctx context.Context, db *gorm.DB, key string, limit int) ([]models.SettingsHistory, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	query := db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Limit(limit)
	if key != "" {
		query = query.Where("setting_key = ?", key)
	}

	var entries []models.SettingsHistory
	if result := query.Find(&entries); result.Error != nil {
		return nil, result.Error
	}

	// newest first from the query, timeline is oldest first
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	return entries, nil
}

// Log binds the history functions to a database handle.
type Log struct {
	db *gorm.DB
}

// NewLog creates a Log on top of db.
func NewLog(db *gorm.DB) *Log {
	return &Log{db: db}
}

// Append inserts entry.
func (l *Log) Append(ctx context.Context, entry *models.SettingsHistory) error {
	return Append(ctx, l.db, entry)
}

// Get retrieves the entry with id.
func (l *Log) Get(ctx context.Context, id uint64) (*models.SettingsHistory, error) {
	return Get(ctx, l.db, id)
}

// List returns the timeline for key.
func (l *Log) List(ctx context.Context, key string, limit int) ([]models.SettingsHistory, error) {
	return List(ctx, l.db, key, limit)
}
