package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("config webserver.port listening port can not be 0")

	// ErrUnknownDBEngine error if db.gormEngine is not supported.
	ErrUnknownDBEngine = errors.New("config db.gormEngine must be mysql, postgres or sqlite")

	// ErrUnknownStorageEngine error if storage.engine is not supported.
	ErrUnknownStorageEngine = errors.New("config storage.engine must be memory, mysql or postgres")

	// ErrStorageNeedsMatchingDB error if a sql storage engine differs from the db engine.
	ErrStorageNeedsMatchingDB = errors.New("config storage.engine mysql/postgres must match db.gormEngine")

	// ErrKafkaNoBrokers error if kafka is enabled without brokers or topic.
	ErrKafkaNoBrokers = errors.New("config kafka needs brokers and a topic when enabled")
)
