package daemon

import (
	"time"

	"github.com/gofiber/storage/memory/v2"
	"github.com/gofiber/storage/mysql/v2"
	"github.com/gofiber/storage/postgres/v3"

	"github.com/eter-store/eter-admin/internal/config"
	"github.com/eter-store/eter-admin/internal/db/dsn"
)

// kvStorage is what the session store and the settings cache share.
type kvStorage interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte, exp time.Duration) error
	Delete(key string) error
	Close() error
}

// newStorage creates the configured gofiber storage driver. The sql drivers reuse the
// database connection settings.
func newStorage(cfg *config.Config) (kvStorage, error) {
	switch cfg.Storage.Engine {
	case config.StorageMySQL:
		return mysql.New(mysql.Config{
			ConnectionURI: dsn.Create(cfg.DB),
			Table:         cfg.Storage.Table,
			Reset:         cfg.Storage.Reset,
			GCInterval:    cfg.Storage.GCInterval,
		}), nil
	case config.StoragePostgres:
		return postgres.New(postgres.Config{
			ConnectionURI: dsn.PostgresURI(cfg.DB),
			Table:         cfg.Storage.Table,
			Reset:         cfg.Storage.Reset,
			GCInterval:    cfg.Storage.GCInterval,
		}), nil
	case config.StorageMemory, "":
		return memory.New(memory.Config{
			GCInterval: cfg.Storage.GCInterval,
		}), nil
	default:
		return nil, config.ErrUnknownStorageEngine
	}
}
