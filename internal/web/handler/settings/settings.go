// Package settings serves the store settings API: snapshot, update, history and rollback.
package settings

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/eter-store/eter-admin/internal/auth"
	"github.com/eter-store/eter-admin/internal/db/models"
	"github.com/eter-store/eter-admin/internal/settings"
	"github.com/eter-store/eter-admin/internal/web/handler"
)

const (
	// Path is the settings route prefix below the api group.
	Path = "/settings"
)

// UpdateRequest is the body of PUT /api/settings/:key.
type UpdateRequest struct {
	Value    json.RawMessage `json:"value"`
	Reason   string          `json:"reason"`
	Category models.Category `json:"category"`
}

// Service is the settings handler service.
type Service struct {
	handler.Service
	settings *settings.Service
	auth     *auth.Service
}

// New creates the settings handler.
func New(settingsService *settings.Service, authService *auth.Service) *Service {
	if settingsService == nil || authService == nil {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
	}

	return &Service{settings: settingsService, auth: authService}
}

// Init registers the settings routes.
func (s *Service) Init(router fiber.Router) {
	read := auth.RequirePermission(s.auth, auth.PermSettingsRead)

	router.Get(Path, read, s.List)
	router.Get(Path+"/history", read, s.History)
	router.Put(Path+"/:key", auth.RequirePermission(s.auth, auth.PermSettingsUpdate), s.Update)
	router.Post(Path+"/history/:id/rollback", auth.RequirePermission(s.auth, auth.PermSettingsRollback), s.Rollback)
}

// List handles GET /settings?category=.
func (s *Service) List(c fiber.Ctx) error {
	snapshot, err := s.settings.GetSettings(c.Context(), models.Category(c.Query("category")))
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(snapshot)
}

// Update handles PUT /settings/:key.
func (s *Service) Update(c fiber.Ctx) error {
	var req UpdateRequest

	if err := c.Bind().JSON(&req); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}

	err := s.settings.UpdateSetting(c.Context(), settings.UpdateInput{
		Key:      c.Params("key"),
		Value:    req.Value,
		Reason:   req.Reason,
		Category: req.Category,
	})
	if err != nil {
		return s.fail(c, err)
	}

	return handler.Success(c)
}

// History handles GET /settings/history?key=&limit=.
func (s *Service) History(c fiber.Ctx) error {
	entries, err := s.settings.History(c.Context(), c.Query("key"), fiber.Query[int](c, "limit"))
	if err != nil {
		return s.fail(c, err)
	}

	return handler.Data(c, entries)
}

// Rollback handles POST /settings/history/:id/rollback.
func (s *Service) Rollback(c fiber.Ctx) error {
	if err := s.settings.RollbackSetting(c.Context(), c.Params("id")); err != nil {
		return s.fail(c, err)
	}

	return handler.Success(c)
}

func (s *Service) fail(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, settings.ErrUnauthorized):
		return handler.JSONError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, settings.ErrNotFound):
		return handler.JSONError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, settings.ErrInvalidCategory), errors.Is(err, settings.ErrInvalidInput):
		return handler.JSONError(c, fiber.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("settings request failed")
		return handler.JSONError(c, fiber.StatusInternalServerError, err.Error())
	}
}
