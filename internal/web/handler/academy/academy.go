// Package academy serves the gamification level of the logged in user.
package academy

import (
	"math"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/eter-store/eter-admin/internal/auth"
	"github.com/eter-store/eter-admin/internal/gamification"
	"github.com/eter-store/eter-admin/internal/web/handler"
)

// Path is the academy route prefix below the api group.
const Path = "/academy"

// Service is the academy handler service.
type Service struct {
	handler.Service
	auth  *auth.Service
	table gamification.Table
}

// New creates the academy handler over table.
func New(authService *auth.Service, table gamification.Table) *Service {
	if authService == nil {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
	}

	return &Service{auth: authService, table: table}
}

// Init registers the academy routes.
func (s *Service) Init(router fiber.Router) {
	view := auth.RequirePermission(s.auth, auth.PermAcademyView)

	router.Get(Path+"/level", view, s.Level)
	router.Get(Path+"/levels", view, s.Levels)
}

// Level handles GET /academy/level.
func (s *Service) Level(c fiber.Ctx) error {
	user := auth.UserFromContext(c)
	if user == nil {
		return handler.JSONError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	points := int64(math.MaxInt64)
	if user.Points < math.MaxInt64 {
		points = int64(user.Points)
	}

	return handler.Data(c, s.table.ComputeLevel(points))
}

// Levels handles GET /academy/levels.
func (s *Service) Levels(c fiber.Ctx) error {
	return handler.Data(c, s.table.Levels())
}
