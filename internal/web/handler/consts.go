package handler

const (
	// RootPath is the root path the route group.
	RootPath = "/"

	// APIPrefix is the prefix of every JSON endpoint.
	APIPrefix = "/api"

	// ErrNilDepsFatalLogMsg is used if a handler is created without its services.
	ErrNilDepsFatalLogMsg = "handler dependencies must not be nil"
)
