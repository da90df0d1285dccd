// Package logout ends the current session.
package logout

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/eter-store/eter-admin/internal/config"
	"github.com/eter-store/eter-admin/internal/web/handler"
	"github.com/eter-store/eter-admin/internal/web/session"
)

// Path is the path to the logout endpoint below the api group.
const Path = "/logout"

// Service is the logout handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	sessions *session.Store
}

// New creates the logout handler.
func New(cfg *config.Config, sessions *session.Store) *Service {
	if cfg == nil || sessions == nil {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
	}

	return &Service{cfg: cfg, sessions: sessions}
}

// Init registers the logout route.
func (s *Service) Init(router fiber.Router) {
	router.Post(Path, s.Post)
}

// Post deletes the session and expires the cookie. It succeeds without a session.
func (s *Service) Post(c fiber.Ctx) error {
	name := s.cfg.Webserver.Session.CookieName

	if err := s.sessions.Delete(c.Cookies(name)); err != nil {
		log.Error().Err(err).Msg("failed to delete session")
	}

	c.ClearCookie(name)

	return handler.Success(c)
}
