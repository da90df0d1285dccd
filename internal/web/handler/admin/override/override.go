// Package override provides handlers for managing the role override allowlist in the admin area.
package override

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/eter-store/eter-admin/internal/auth"
	"github.com/eter-store/eter-admin/internal/web/handler"
)

const (
	// Path is the base path for role override management below the api group.
	Path = "/admin/role-overrides"
)

// GrantRequest is the body of POST /admin/role-overrides.
type GrantRequest struct {
	Email  string `json:"email"  validate:"required,email,max=255"`
	Role   string `json:"role"   validate:"required,max=100"`
	Reason string `json:"reason" validate:"required,max=255"`
}

// Service provides list, grant and revoke for role overrides.
type Service struct {
	handler.Service
	auth      *auth.Service
	validator *validator.Validate
}

// New creates the handler.
func New(authService *auth.Service) *Service {
	if authService == nil {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
	}

	return &Service{auth: authService, validator: validator.New()}
}

// Init registers routes.
func (s *Service) Init(router fiber.Router) {
	perm := auth.RequirePermission(s.auth, auth.PermAdminRoles)

	router.Get(Path, perm, s.List)
	router.Post(Path, perm, s.Grant)
	router.Delete(Path+"/:email", perm, s.Revoke)
}

// List returns every override.
func (s *Service) List(c fiber.Ctx) error {
	overrides, err := s.auth.ListOverrides(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list role overrides")
		return handler.JSONError(c, fiber.StatusInternalServerError, err.Error())
	}

	return handler.Data(c, overrides)
}

// Grant creates or replaces the override for an e-mail address.
func (s *Service) Grant(c fiber.Ctx) error {
	var req GrantRequest

	if err := c.Bind().JSON(&req); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, err.Error())
	}

	actor, _ := auth.ActorFromContext(c.Context())

	override, err := s.auth.GrantOverride(c.Context(), req.Email, req.Role, req.Reason, actor)

	switch {
	case errors.Is(err, auth.ErrRoleNotFound), errors.Is(err, auth.ErrOverrideReasonEmpty):
		return handler.JSONError(c, fiber.StatusBadRequest, err.Error())
	case err != nil:
		log.Error().Err(err).Str("email", req.Email).Msg("failed to grant role override")
		return handler.JSONError(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(handler.DataResponse{Data: override})
}

// Revoke deletes the override for the e-mail in the path.
func (s *Service) Revoke(c fiber.Ctx) error {
	actor, _ := auth.ActorFromContext(c.Context())

	err := s.auth.RevokeOverride(c.Context(), c.Params("email"), actor)

	switch {
	case errors.Is(err, auth.ErrOverrideNotFound):
		return handler.JSONError(c, fiber.StatusNotFound, err.Error())
	case err != nil:
		log.Error().Err(err).Msg("failed to revoke role override")
		return handler.JSONError(c, fiber.StatusInternalServerError, err.Error())
	}

	return handler.Success(c)
}
