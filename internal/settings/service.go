// Package settings implements the dashboard settings service: reads, audited writes
// and rollbacks on top of the settings repository and its history log.
//
// Writes are two sequential steps (setting upsert, history append) without a shared
// transaction. A failed upsert aborts the operation; a failed history append is logged
// and the operation still succeeds because the setting change is already committed.
// Concurrent writes to the same key are last-writer-wins.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/eter-store/eter-admin/internal/db/controller/history"
	"github.com/eter-store/eter-admin/internal/db/controller/setting"
	"github.com/eter-store/eter-admin/internal/db/models"
)

const (
	// DefaultReason is recorded when an update carries no reason.
	DefaultReason = "Update via dashboard"

	rollbackReasonFormat = "Rollback to version from %s"
	rollbackTimeLayout   = "2006-01-02 15:04:05 MST"
)

type (
	// Repository reads and writes live settings.
	Repository interface {
		Get(ctx context.Context, key string) (*models.Setting, error)
		List(ctx context.Context, category models.Category) ([]models.Setting, error)
		Upsert(ctx context.Context, setting *models.Setting) error
	}

	// HistoryLog is the append-only audit trail.
	HistoryLog interface {
		Append(ctx context.Context, entry *models.SettingsHistory) error
		Get(ctx context.Context, id uint64) (*models.SettingsHistory, error)
		List(ctx context.Context, key string, limit int) ([]models.SettingsHistory, error)
	}

	// Identity resolves the authenticated actor of the current request.
	Identity interface {
		Actor(ctx context.Context) (string, bool)
	}

	// Notifier receives a signal after a setting was changed. entry is nil when the
	// history append failed.
	Notifier interface {
		SettingChanged(ctx context.Context, key string, entry *models.SettingsHistory) error
	}

	// Reader serves snapshots, e.g. from a cache, falling back to load.
	Reader interface {
		Snapshot(ctx context.Context, category models.Category, load LoadFunc) (*Snapshot, error)
	}

	// LoadFunc loads a snapshot from the repository.
	LoadFunc func(ctx context.Context, category models.Category) (*Snapshot, error)
)

// Snapshot is the result of GetSettings.
type Snapshot struct {
	// Data maps every key to its value.
	Data map[string]json.RawMessage `json:"data"`
	// Metadata holds the raw records for display of category and audit columns.
	Metadata []models.Setting `json:"metadata"`
}

// UpdateInput describes one settings update.
type UpdateInput struct {
	Key      string          `json:"key"                validate:"required,max=191"`
	Value    json.RawMessage `json:"value"              validate:"required"`
	Reason   string          `json:"reason,omitempty"   validate:"max=255"`
	Category models.Category `json:"category,omitempty" validate:"omitempty,oneof=general security notifications appearance billing"`
}

// Service orchestrates the repository and the history log.
type Service struct {
	repo      Repository
	history   HistoryLog
	identity  Identity
	reader    Reader
	notifiers []Notifier
	validator *validator.Validate
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithReader serves GetSettings through r.
func WithReader(r Reader) Option {
	return func(s *Service) {
		s.reader = r
	}
}

// WithNotifiers registers change notifiers. They run in order after every applied change.
func WithNotifiers(n ...Notifier) Option {
	return func(s *Service) {
		s.notifiers = append(s.notifiers, n...)
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a settings service.
func NewService(repo Repository, historyLog HistoryLog, identity Identity, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		history:   historyLog,
		identity:  identity,
		validator: validator.New(),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// GetSettings returns all settings, or only those of category when it is not empty.
// Repository errors are returned unchanged.
func (s *Service) GetSettings(ctx context.Context, category models.Category) (*Snapshot, error) {
	if category != "" && !category.Valid() {
		return nil, ErrInvalidCategory
	}

	var (
		snapshot *Snapshot
		err      error
	)

	if s.reader != nil {
		snapshot, err = s.reader.Snapshot(ctx, category, s.load)
	} else {
		snapshot, err = s.load(ctx, category)
	}

	observe(opGet, err)

	return snapshot, err
}

func (s *Service) load(ctx context.Context, category models.Category) (*Snapshot, error) {
	records, err := s.repo.List(ctx, category)
	if err != nil {
		return nil, err
	}

	snapshot := &Snapshot{
		Data:     make(map[string]json.RawMessage, len(records)),
		Metadata: records,
	}

	for _, record := range records {
		snapshot.Data[record.Key] = json.RawMessage(record.Value)
	}

	return snapshot, nil
}

// UpdateSetting writes in.Value under in.Key and records the change.
func (s *Service) UpdateSetting(ctx context.Context, in UpdateInput) error {
	err := s.updateSetting(ctx, in)
	observe(opUpdate, err)

	return err
}

func (s *Service) updateSetting(ctx context.Context, in UpdateInput) error {
	actor, ok := s.identity.Actor(ctx)
	if !ok {
		return ErrUnauthorized
	}

	if err := s.validator.Struct(in); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, validationMessage(err))
	}

	if !json.Valid(in.Value) {
		return fmt.Errorf("%w: value is not valid JSON", ErrInvalidInput)
	}

	if in.Reason == "" {
		in.Reason = DefaultReason
	}

	current, err := s.repo.Get(ctx, in.Key)
	if err != nil && !errors.Is(err, setting.ErrSettingNotFound) {
		return err
	}

	var oldValue models.JSON

	category := in.Category
	if current != nil {
		oldValue = current.Value
		if category == "" {
			category = current.Category
		}
	}

	record := &models.Setting{
		Key:       in.Key,
		Value:     models.JSON(in.Value),
		Category:  category,
		UpdatedAt: s.now().UTC(),
		UpdatedBy: actor,
	}

	if err = s.repo.Upsert(ctx, record); err != nil {
		log.Error().Err(err).Str("key", in.Key).Str("actor", actor).Msg("failed to write setting")
		return err
	}

	entry := &models.SettingsHistory{
		Key:           in.Key,
		OldValue:      oldValue,
		NewValue:      models.JSON(in.Value),
		ChangedBy:     actor,
		ChangedReason: in.Reason,
	}

	s.appendHistory(ctx, entry)
	s.notify(ctx, in.Key, entry)

	log.Info().Str("key", in.Key).Str("actor", actor).Str("reason", in.Reason).Msg("setting updated")

	return nil
}

// RollbackSetting restores the value a history entry replaced. The entry itself is
// left untouched; the rollback is recorded as a new entry.
func (s *Service) RollbackSetting(ctx context.Context, historyID string) error {
	err := s.rollbackSetting(ctx, historyID)
	observe(opRollback, err)

	return err
}

func (s *Service) rollbackSetting(ctx context.Context, historyID string) error {
	actor, ok := s.identity.Actor(ctx)
	if !ok {
		return ErrUnauthorized
	}

	id, err := strconv.ParseUint(historyID, 10, 64)
	if err != nil {
		return ErrNotFound
	}

	target, err := s.history.Get(ctx, id)
	if err != nil {
		if errors.Is(err, history.ErrHistoryNotFound) {
			return ErrNotFound
		}

		return err
	}

	restored := target.OldValue
	if !target.HasOldValue() {
		restored = models.JSON("null")
	}

	record := &models.Setting{
		Key:       target.Key,
		Value:     restored,
		UpdatedAt: s.now().UTC(),
		UpdatedBy: actor,
	}

	current, err := s.repo.Get(ctx, target.Key)
	switch {
	case err == nil:
		record.Category = current.Category
	case !errors.Is(err, setting.ErrSettingNotFound):
		return err
	}

	if err = s.repo.Upsert(ctx, record); err != nil {
		log.Error().Err(err).Str("key", target.Key).Uint64("history_id", id).Msg("failed to roll back setting")
		return err
	}

	entry := &models.SettingsHistory{
		Key:           target.Key,
		OldValue:      target.NewValue,
		NewValue:      restored,
		ChangedBy:     actor,
		ChangedReason: fmt.Sprintf(rollbackReasonFormat, target.CreatedAt.UTC().Format(rollbackTimeLayout)),
	}

	s.appendHistory(ctx, entry)
	s.notify(ctx, target.Key, entry)

	log.Info().Str("key", target.Key).Str("actor", actor).Uint64("history_id", id).Msg("setting rolled back")

	return nil
}

// History returns the change timeline of key, oldest first. An empty key returns
// the timeline of every setting.
func (s *Service) History(ctx context.Context, key string, limit int) ([]models.SettingsHistory, error) {
	entries, err := s.history.List(ctx, key, limit)
	observe(opHistory, err)

	return entries, err
}

// appendHistory writes entry. A failure is logged and entry.ID stays zero.
func (s *Service) appendHistory(ctx context.Context, entry *models.SettingsHistory) {
	if err := s.history.Append(ctx, entry); err != nil {
		historyFailures.Inc()
		log.Error().Err(err).
			Str("key", entry.Key).
			Str("actor", entry.ChangedBy).
			Msg("setting applied but history entry could not be written")
	}
}

func (s *Service) notify(ctx context.Context, key string, entry *models.SettingsHistory) {
	if entry != nil && entry.ID == 0 {
		entry = nil
	}

	for _, n := range s.notifiers {
		if err := n.SettingChanged(ctx, key, entry); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("settings change notification failed")
		}
	}
}

func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return err.Error()
	}

	ve := validationErrors[0]

	return "field '" + ve.Field() + "' failed validation tag '" + ve.Tag() + "'"
}
