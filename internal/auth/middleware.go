package auth

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/eter-store/eter-admin/internal/db/models"
)

// LocalsUser is the fiber.Locals key holding the authenticated *models.User.
const LocalsUser = "user"

// UserFromContext returns the authenticated user or nil.
func UserFromContext(c fiber.Ctx) *models.User {
	user, ok := c.Locals(LocalsUser).(*models.User)
	if !ok || user == nil || user.ID == 0 {
		return nil
	}

	return user
}

// RequirePermission creates Fiber middleware that requires a specific permission.
func RequirePermission(authService *Service, permission string) fiber.Handler {
	return RequireAnyPermission(authService, permission)
}

// RequireAnyPermission creates Fiber middleware that requires at least one of the given permissions.
func RequireAnyPermission(authService *Service, permissions ...string) fiber.Handler {
	return func(c fiber.Ctx) error {
		user := UserFromContext(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}

		hasPermission, err := authService.HasAnyPermission(c.Context(), user, permissions)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", user.ID).Strs("permissions", permissions).
				Msg("Failed to check permission")

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
		}

		if !hasPermission {
			log.Warn().Uint64("user_id", user.ID).Strs("permissions", permissions).
				Msg("User lacks required permission")

			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
		}

		return c.Next()
	}
}
