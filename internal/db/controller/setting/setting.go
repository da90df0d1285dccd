// Package setting is the gorm backed settings repository.
package setting

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/eter-store/eter-admin/internal/db/models"
)

const (
	keyQueryPattern      = "setting_key = ?"
	categoryQueryPattern = "category = ?"
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingKeyEmpty is returned when attempting to read or write a setting with an empty key.
	ErrSettingKeyEmpty = errors.New("setting key cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a setting by its key.
func Get(ctx context.Context, db *gorm.DB, key string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrSettingKeyEmpty
	}

	var setting models.Setting
	result := db.WithContext(ctx).Where(keyQueryPattern, key).First(&setting)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, result.Error
	}

	return &setting, nil
}

// List retrieves all settings ordered by key. An empty category returns every record.
func List(ctx context.Context, db *gorm.DB, category models.Category) ([]models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	query := db.WithContext(ctx).Order("setting_key ASC")
	if category != "" {
		query = query.Where(categoryQueryPattern, category)
	}

	var settings []models.Setting
	if result := query.Find(&settings); result.Error != nil {
		return nil, result.Error
	}

	return settings, nil
}

// Upsert inserts the setting or, if its key exists, overwrites value, category and
// audit columns. The last writer wins; there is no version check.
func Upsert(ctx context.Context, db *gorm.DB, setting *models.Setting) error {
	if db == nil {
		return ErrDBNil
	}
	if setting == nil || setting.Key == "" {
		return ErrSettingKeyEmpty
	}

	if setting.Category == "" {
		setting.Category = models.CategoryGeneral
	}
	if setting.UpdatedAt.IsZero() {
		setting.UpdatedAt = time.Now().UTC()
	}

	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "category", "updated_at", "updated_by"}),
	}).Create(setting).Error
}

// DeleteByKey deletes a setting by key. History entries for the key are kept.
func DeleteByKey(ctx context.Context, db *gorm.DB, key string) error {
	if db == nil {
		return ErrDBNil
	}
	if key == "" {
		return ErrSettingKeyEmpty
	}

	result := db.WithContext(ctx).Where(keyQueryPattern, key).Delete(&models.Setting{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSettingNotFound
	}

	return nil
}

// Store binds the repository functions to a database handle.
type Store struct {
	db *gorm.DB
}

// NewStore creates a Store on top of db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Get retrieves a setting by key.
func (s *Store) Get(ctx context.Context, key string) (*models.Setting, error) {
	return Get(ctx, s.db, key)
}

// List retrieves settings, optionally filtered by category.
func (s *Store) List(ctx context.Context, category models.Category) ([]models.Setting, error) {
	return List(ctx, s.db, category)
}

// Upsert writes the setting.
func (s *Store) Upsert(ctx context.Context, setting *models.Setting) error {
	return Upsert(ctx, s.db, setting)
}
