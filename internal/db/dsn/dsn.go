// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"strings"

	"github.com/eter-store/eter-admin/internal/config"
)

// Create builds the Data Source Name for the configured gorm engine.
func Create(db config.DB) string {
	switch db.GormEngine {
	case config.EnginePostgres:
		out := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
			db.Host,
			db.Port,
			db.User,
			db.Password,
			db.Name,
		)

		if db.Extras != "" {
			out += " " + db.Extras
		}

		return out
	case config.EngineSQLite:
		path := db.Path
		if path == "" {
			path = ":memory:"
		}

		if db.Extras != "" {
			sep := "?"
			if strings.Contains(path, "?") {
				sep = "&"
			}

			path += sep + db.Extras
		}

		return path
	default:
		out := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
			db.User,
			db.Password,
			db.Host,
			db.Port,
			db.Name,
		)

		if db.Extras != "" {
			out += "?" + db.Extras
		}

		return out
	}
}

// PostgresURI builds a postgres:// connection URI, used by drivers that do not accept keyword DSNs.
func PostgresURI(db config.DB) string {
	out := fmt.Sprintf("postgres://%s:%s@%s:%d/%s", db.User, db.Password, db.Host, db.Port, db.Name)

	if db.Extras != "" {
		out += "?" + strings.ReplaceAll(db.Extras, " ", "&")
	}

	return out
}
