package config

import "time"

// Supported gorm engines.
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// Supported storage engines.
const (
	StorageMemory   = "memory"
	StorageMySQL    = EngineMySQL
	StoragePostgres = EnginePostgres
)

// DB holds the database configuration settings.
type DB struct {
	GormEngine string `mapstructure:"gormEngine"`
	Extras     string `mapstructure:"extras"`
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	User       string `mapstructure:"user"`
	Password   string `mapstructure:"password" json:"-" toml:"-"`
	Name       string `mapstructure:"name"`
	// Path is the database file for the sqlite engine.
	Path string `mapstructure:"path"`

	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"`
	// LogLevel of the gorm logger: silent, error, warn or info.
	LogLevel string `mapstructure:"logLevel"`
}
