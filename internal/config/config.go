// Package config reads the main.toml configuration.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/eter-store/eter-admin/internal/gamification"
)

const (
	// EnvPrefix prefixes environment variables overriding single keys, e.g. ETER_ADMIN_WEBSERVER_PORT.
	EnvPrefix = "ETER_ADMIN"

	// EnvConfigJSON holds a JSON document merged over main.toml.
	EnvConfigJSON = "ETER_ADMIN_CONFIG_JSON"

	defaultShutDownTime = 5
	invalidErrMessage   = "invalid config"
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var c Config

	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("main")
	v.SetConfigType("toml")
	v.AddConfigPath(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	if configJSON := os.Getenv(EnvConfigJSON); configJSON != "" {
		v.SetConfigType("json")

		if err := v.MergeConfig(strings.NewReader(configJSON)); err != nil {
			return Config{}, errors.Wrap(err, "failed to merge "+EnvConfigJSON)
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode config")
	}

	return c, validate(&c)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("title", "Éter Store Admin")
	v.SetDefault("db.gormEngine", EngineSQLite)
	v.SetDefault("db.path", "eter-admin.db")
	v.SetDefault("storage.engine", StorageMemory)
	v.SetDefault("storage.table", "fiber_storage")
	v.SetDefault("webserver.shutDownTime", defaultShutDownTime)
	v.SetDefault("webserver.session.cookieName", "session")
	v.SetDefault("webserver.session.expiryTime", "24h")
	v.SetDefault("settings.cacheTTL", "5m")
	v.SetDefault("kafka.topic", "eter.settings.changed")
}

// DumpConfig config as TOML String.
func DumpConfig(c Config) (string, error) {
	var buffer bytes.Buffer

	enc := toml.NewEncoder(&buffer)
	enc.SetIndentTables(true)

	if err := enc.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings the service cannot start without and fills defaults.
func validate(c *Config) error {
	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	switch c.DB.GormEngine {
	case "":
		c.DB.GormEngine = EngineSQLite
	case EngineMySQL, EnginePostgres, EngineSQLite:
	default:
		return errors.Wrap(ErrUnknownDBEngine, invalidErrMessage)
	}

	switch c.Storage.Engine {
	case "":
		c.Storage.Engine = StorageMemory
	case StorageMemory:
	case StorageMySQL, StoragePostgres:
		if c.Storage.Engine != c.DB.GormEngine {
			return errors.Wrap(ErrStorageNeedsMatchingDB, invalidErrMessage)
		}
	default:
		return errors.Wrap(ErrUnknownStorageEngine, invalidErrMessage)
	}

	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		return errors.Wrap(ErrKafkaNoBrokers, invalidErrMessage)
	}

	if len(c.Academy.Levels) == 0 {
		c.Academy.Levels = gamification.DefaultLevels()
	}

	if _, err := gamification.NewTable(c.Academy.Levels); err != nil {
		return errors.Wrap(err, invalidErrMessage)
	}

	return nil
}
