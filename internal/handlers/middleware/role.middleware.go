package middleware

import (
	"slices"

	"showroom/internal/models"

	"github.com/gofiber/fiber/v2"
)

// RequireRole must run after RequireAuth.
func (m *Middleware) RequireRole(roles ...models.Role) fiber.Handler {
	log := m.log.Function("RequireRole")

	return func(c *fiber.Ctx) error {
		user := GetUser(c)
		if user == nil {
			log.Info("user not found in context")
			return unauthorized(c, "Authentication required")
		}

		if !slices.Contains(roles, user.Role) {
			log.Info("role not permitted", "userID", user.ID, "role", user.Role)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Insufficient permissions",
			})
		}

		return c.Next()
	}
}

func (m *Middleware) RequireStaff() fiber.Handler {
	return m.RequireRole(models.RoleAdmin, models.RoleSuperadmin)
}

func (m *Middleware) RequireSuperadmin() fiber.Handler {
	return m.RequireRole(models.RoleSuperadmin)
}
