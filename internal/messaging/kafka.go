// Package messaging publishes settings change events to Kafka.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	kafka "github.com/segmentio/kafka-go"

	"github.com/eter-store/eter-admin/internal/db/models"
	"github.com/eter-store/eter-admin/internal/logger/adapter/stdlogger"
)

// EventTypeSettingChanged is the type of every event sent by KafkaPublisher.
const EventTypeSettingChanged = "settings.changed"

// Config holds the kafka producer settings.
type Config struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	// WriteTimeout bounds a single publish. Zero uses the kafka-go default.
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
}

// SettingChangedEvent is the payload published after a setting changed.
type SettingChangedEvent struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	HistoryID     string          `json:"history_id,omitempty"`
	Key           string          `json:"key"`
	OldValue      json.RawMessage `json:"old_value,omitempty"`
	NewValue      json.RawMessage `json:"new_value,omitempty"`
	ChangedBy     string          `json:"changed_by,omitempty"`
	ChangedReason string          `json:"changed_reason,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher sends SettingChangedEvent messages keyed by setting key.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	now    func() time.Time
}

// NewKafkaPublisher creates a publisher writing to cfg.Topic. Messages are batched
// and sent in the background; delivery failures are logged by logCompletion.
func NewKafkaPublisher(cfg Config) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: cfg.WriteTimeout,
		Async:        true,
		Completion:   logCompletion,
		Logger:       stdlogger.NewWithLevel("kafka", zerolog.DebugLevel),
		ErrorLogger:  stdlogger.NewWithLevel("kafka", zerolog.ErrorLevel),
	}

	return newKafkaPublisher(w, cfg.Topic)
}

// logCompletion reports the outcome of a background batch.
func logCompletion(messages []kafka.Message, err error) {
	if err == nil {
		return
	}

	keys := make([]string, 0, len(messages))
	for _, m := range messages {
		keys = append(keys, string(m.Key))
	}

	log.Error().Err(err).Strs("keys", keys).Msg("failed to deliver settings change events")
}

func newKafkaPublisher(w messageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: w, topic: topic, now: time.Now}
}

// SettingChanged publishes the change. entry may be nil when the history entry could
// not be written; the event then only names the key.
func (p *KafkaPublisher) SettingChanged(ctx context.Context, key string, entry *models.SettingsHistory) error {
	event := SettingChangedEvent{
		EventID:    uuid.NewString(),
		EventType:  EventTypeSettingChanged,
		Key:        key,
		OccurredAt: p.now().UTC(),
	}

	if entry != nil {
		event.HistoryID = strconv.FormatUint(entry.ID, 10)
		event.ChangedBy = entry.ChangedBy
		event.ChangedReason = entry.ChangedReason
		event.NewValue = json.RawMessage(entry.NewValue)

		if entry.HasOldValue() {
			event.OldValue = json.RawMessage(entry.OldValue)
		}
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to serialize settings change event: %w", err)
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(key),
		Value: data,
	}

	if err = p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish settings change event: %w", err)
	}

	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
