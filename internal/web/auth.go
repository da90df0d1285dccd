package web

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/eter-store/eter-admin/internal/auth"
	"github.com/eter-store/eter-admin/internal/web/handler"
	"github.com/eter-store/eter-admin/internal/web/session"
)

// SessionMiddleware resolves the session cookie into the active user. It stores the
// user in fiber.Locals and the actor in the request context, or answers 401.
func (s *Service) SessionMiddleware(c fiber.Ctx) error {
	sessionID := c.Cookies(s.cfg.Webserver.Session.CookieName)
	if sessionID == "" {
		return handler.JSONError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	data, err := s.sessions.Read(sessionID)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			log.Error().Err(err).Msg("failed to read session")
		}

		return handler.JSONError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	user, err := s.users.GetUserByID(c.Context(), data.UserID)
	if err != nil {
		if !errors.Is(err, auth.ErrUserNotFound) {
			log.Error().Err(err).Uint64("user_id", data.UserID).Msg("failed to load session user")
			return handler.JSONError(c, fiber.StatusInternalServerError, "Internal Server Error")
		}

		return handler.JSONError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	if !user.Active {
		_ = s.sessions.Delete(sessionID)
		return handler.JSONError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	c.Locals(auth.LocalsUser, user)
	c.SetContext(auth.WithActor(c.Context(), user.ActorID()))

	return c.Next()
}

// MeResponse describes the logged in user. Role is the effective role, the one
// Permissions were computed from.
type MeResponse struct {
	ID          uint64   `json:"id,string"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Points      uint64   `json:"points"`
	Permissions []string `json:"permissions"`
}

// Me handles GET /api/me.
func (s *Service) Me(c fiber.Ctx) error {
	user := auth.UserFromContext(c)
	if user == nil {
		return handler.JSONError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	permissions, err := s.authService.GetUserPermissions(c.Context(), user)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to get user permissions")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	role, err := s.authService.EffectiveRole(c.Context(), user)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to get effective role")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	return handler.Data(c, MeResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Role:        role.Name,
		Points:      user.Points,
		Permissions: permissions,
	})
}
