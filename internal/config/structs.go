package config

import (
	"time"

	"github.com/eter-store/eter-admin/internal/gamification"
	"github.com/eter-store/eter-admin/internal/logger"
	"github.com/eter-store/eter-admin/internal/messaging"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration `mapstructure:"expiryTime"`
	CookieName string        `mapstructure:"cookieName"`
}

// Config overall data structure.
type Config struct {
	DevMode   bool             `mapstructure:"devMode"` // enable dev mode for development
	Title     string           `mapstructure:"title"`
	DB        DB               `mapstructure:"db"`
	Storage   Storage          `mapstructure:"storage"`
	Log       logger.Log       `mapstructure:"log"`
	Webserver Webserver        `mapstructure:"webserver"`
	Settings  Settings         `mapstructure:"settings"`
	Academy   Academy          `mapstructure:"academy"`
	Kafka     messaging.Config `mapstructure:"kafka"`
	Admin     Admin            `mapstructure:"admin"`
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool    `mapstructure:"disableRecover"` // disable recover middleware
	Domain         string  `mapstructure:"domain"`         // domain name for the session cookie
	Port           int     `mapstructure:"port"`           // listening port for the webserver
	ShutDownTime   int     `mapstructure:"shutDownTime"`   // wait time for shutdown in seconds
	URL            string  `mapstructure:"url"`            // base url for the webserver
	Session        Session `mapstructure:"session"`        // session settings
}

// Storage selects the gofiber storage driver used for sessions and the settings cache.
type Storage struct {
	Engine     string        `mapstructure:"engine"` // memory, mysql or postgres
	Table      string        `mapstructure:"table"`
	Reset      bool          `mapstructure:"reset"`
	GCInterval time.Duration `mapstructure:"gcInterval"`
}

// Settings configures the settings service.
type Settings struct {
	// CacheEnabled serves getSettings from the storage backend.
	CacheEnabled bool `mapstructure:"cacheEnabled"`
	// CacheTTL bounds how long a cached snapshot is served.
	CacheTTL time.Duration `mapstructure:"cacheTTL"`
}

// Academy configures the gamification level table.
type Academy struct {
	Levels []gamification.Level `mapstructure:"levels"`
}

// Admin is the account seeded on first start when no admin exists.
type Admin struct {
	Username string `mapstructure:"username"`
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password" json:"-" toml:"-"`
}
