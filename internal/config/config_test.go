package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eter-store/eter-admin/internal/gamification"
)

func configPath(t *testing.T) string {
	t.Helper()

	projectRoot, err := filepath.Abs("../../")
	require.NoError(t, err, "failed to get project root")

	return filepath.Join(projectRoot, "etc") + string(filepath.Separator)
}

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(configPath(t))
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.Title)
	assert.Equal(t, 8080, cfg.Webserver.Port)
	assert.NotEmpty(t, cfg.Webserver.URL)
	assert.Equal(t, 24*time.Hour, cfg.Webserver.Session.ExpiryTime)
	assert.Equal(t, EngineSQLite, cfg.DB.GormEngine)
	assert.Equal(t, StorageMemory, cfg.Storage.Engine)
	assert.Equal(t, 5*time.Minute, cfg.Settings.CacheTTL)
	assert.Equal(t, "eter-admin", cfg.Log.ServiceName)
	assert.True(t, cfg.Log.Console.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Log.DataDog.Timeout)
	assert.Equal(t, gamification.DefaultLevels(), cfg.Academy.Levels)
}

func TestReadConfigWithJSONOverride(t *testing.T) {
	t.Setenv(EnvConfigJSON, `{"Title":"Test Override","Webserver":{"Port":9090}}`)

	cfg, err := ReadConfig(configPath(t))
	require.NoError(t, err)

	assert.Equal(t, "Test Override", cfg.Title)
	assert.Equal(t, 9090, cfg.Webserver.Port)
	assert.Equal(t, "http://localhost:8080", cfg.Webserver.URL)
}

func TestReadConfigWithEnvOverride(t *testing.T) {
	t.Setenv("ETER_ADMIN_WEBSERVER_PORT", "7070")

	cfg, err := ReadConfig(configPath(t))
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Webserver.Port)
}

func TestReadConfigMissingFile(t *testing.T) {
	_, err := ReadConfig(t.TempDir() + string(filepath.Separator))
	assert.Error(t, err)
}

func TestConfigValidation(t *testing.T) {
	valid := func() Config {
		return Config{
			Webserver: Webserver{
				Port: 8080,
				URL:  "http://localhost:8080",
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{name: "missing port", mutate: func(c *Config) { c.Webserver.Port = 0 }, wantErr: ErrWebServerPortCanNotBeZero},
		{name: "missing URL", mutate: func(c *Config) { c.Webserver.URL = "" }, wantErr: ErrEmptyURL},
		{name: "unknown db engine", mutate: func(c *Config) { c.DB.GormEngine = "oracle" }, wantErr: ErrUnknownDBEngine},
		{name: "unknown storage", mutate: func(c *Config) { c.Storage.Engine = "redis" }, wantErr: ErrUnknownStorageEngine},
		{
			name: "storage engine differs from db",
			mutate: func(c *Config) {
				c.DB.GormEngine = EngineMySQL
				c.Storage.Engine = StoragePostgres
			},
			wantErr: ErrStorageNeedsMatchingDB,
		},
		{name: "kafka without brokers", mutate: func(c *Config) { c.Kafka.Enabled = true }, wantErr: ErrKafkaNoBrokers},
		{
			name: "bad level table",
			mutate: func(c *Config) {
				c.Academy.Levels = []gamification.Level{{Level: 1, XPThreshold: 10, Title: "Iniciante"}}
			},
			wantErr: gamification.ErrFirstThreshold,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)

			err := validate(&c)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, defaultShutDownTime, c.Webserver.ShutDownTime)
				assert.Equal(t, EngineSQLite, c.DB.GormEngine)
				assert.Equal(t, StorageMemory, c.Storage.Engine)
				assert.Len(t, c.Academy.Levels, len(gamification.DefaultLevels()))

				return
			}

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDumpConfig(t *testing.T) {
	cfg := Config{
		Title:   "Test",
		DevMode: true,
		DB:      DB{GormEngine: EngineMySQL, Password: "secret"},
		Admin:   Admin{Username: "admin", Password: "secret"},
	}

	out, err := DumpConfig(cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Test")
	assert.NotContains(t, out, "secret")

	outJSON, err := DumpConfigJSON(cfg)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(outJSON, "{"))
	assert.Contains(t, outJSON, `"Title": "Test"`)
	assert.NotContains(t, outJSON, "secret")
}
