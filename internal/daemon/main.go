// Package daemon wires configuration, persistence, messaging and the web service together.
package daemon

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/eter-store/eter-admin/internal/auth"
	"github.com/eter-store/eter-admin/internal/config"
	"github.com/eter-store/eter-admin/internal/db"
	"github.com/eter-store/eter-admin/internal/db/controller/history"
	"github.com/eter-store/eter-admin/internal/db/controller/setting"
	"github.com/eter-store/eter-admin/internal/gamification"
	"github.com/eter-store/eter-admin/internal/messaging"
	"github.com/eter-store/eter-admin/internal/settings"
	"github.com/eter-store/eter-admin/internal/web"
	"github.com/eter-store/eter-admin/internal/web/session"
)

// ErrNilConfig is returned by New without a configuration.
var ErrNilConfig = errors.New("daemon: config is nil")

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	storage    kvStorage
	publisher  *messaging.KafkaPublisher
	webService *web.Service
}

// Start serves http until SIGINT or SIGTERM and then shuts down gracefully.
func (d *Daemon) Start() error {
	errCh := make(chan error, 1)

	go func() {
		errCh <- d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
	}()

	log.Info().Int("port", d.cfg.Webserver.Port).Msg("web service started")

	go d.webService.WaitShutdown()

	err := <-errCh

	d.Close()

	return err
}

// Close releases the storage, kafka and database connections.
func (d *Daemon) Close() {
	if d.publisher != nil {
		if err := d.publisher.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close kafka publisher")
		}
	}

	if d.storage != nil {
		if err := d.storage.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close storage")
		}
	}

	if d.db != nil {
		if sqlDB, err := d.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// New creates a new Daemon instance with the provided configuration.
func New(ctx context.Context, cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	levels, err := gamification.NewTable(cfg.Academy.Levels)
	if err != nil {
		return nil, fmt.Errorf("invalid academy levels: %w", err)
	}

	conn, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}

	d := &Daemon{cfg: cfg, db: conn}

	if d.storage, err = newStorage(cfg); err != nil {
		d.Close()
		return nil, err
	}

	var opts []settings.Option

	if cfg.Settings.CacheEnabled {
		cache := settings.NewCache(d.storage, cfg.Settings.CacheTTL)
		opts = append(opts, settings.WithReader(cache), settings.WithNotifiers(cache))
	}

	if cfg.Kafka.Enabled {
		d.publisher = messaging.NewKafkaPublisher(cfg.Kafka)
		opts = append(opts, settings.WithNotifiers(d.publisher))

		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("kafka change events enabled")
	}

	settingsService := settings.NewService(
		setting.NewStore(conn),
		history.NewLog(conn),
		auth.ContextIdentity{},
		opts...,
	)

	d.webService, err = web.New(cfg, web.Deps{
		Auth:     auth.NewService(conn),
		Users:    auth.NewLocalProvider(conn),
		Sessions: session.New(d.storage, cfg.Webserver.Session.ExpiryTime),
		Settings: settingsService,
		Levels:   levels,
	})
	if err != nil {
		d.Close()
		return nil, err //nolint:wrapcheck
	}

	return d, nil
}

// Migrate creates or updates the schema and seeds roles, the bootstrap admin and the
// default settings.
func Migrate(ctx context.Context, cfg *config.Config) error {
	if cfg == nil {
		return ErrNilConfig
	}

	conn, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}

	if sqlDB, err := conn.DB(); err == nil {
		_ = sqlDB.Close()
	}

	return nil
}

func openDatabase(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	conn, err := db.Open(cfg.DB)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if err = db.Migrate(ctx, conn); err == nil {
		err = seed(ctx, cfg, conn)
		if err != nil {
			err = fmt.Errorf("failed to seed database: %w", err)
		}
	}

	if err != nil {
		if sqlDB, dbErr := conn.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}

		return nil, err
	}

	return conn, nil
}
