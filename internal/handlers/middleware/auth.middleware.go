package middleware

import (
	"context"
	"errors"
	"strings"

	"showroom/internal/models"
	"showroom/internal/types"

	"github.com/gofiber/fiber/v2"
)

type AuthContextKey string

const (
	UserKey      AuthContextKey = "user"
	UserKeyFiber string         = "User"
)

// RequireAuth resolves the bearer token to a stored, active user. The stored role is authoritative.
func (m *Middleware) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return m.authenticate(c, true)
	}
}

// OptionalAuth attaches the user when a bearer token is present and rejects only malformed credentials.
func (m *Middleware) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return m.authenticate(c, false)
	}
}

func (m *Middleware) authenticate(c *fiber.Ctx, required bool) error {
	log := m.log.TraceFromContext(c.UserContext()).Function("authenticate")

	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		if !required {
			return c.Next()
		}
		log.Info("missing authorization header")
		return unauthorized(c, "Authorization header required")
	}

	tokenParts := strings.Fields(authHeader)
	if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "bearer") {
		log.Info("invalid authorization header format")
		return unauthorized(c, "Invalid authorization header format")
	}

	claims, err := m.tokens.Validate(tokenParts[1])
	if errors.Is(err, types.ErrConfiguration) {
		log.Er("token validator not configured", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "server configuration error",
		})
	}
	if err != nil {
		log.Info("token validation failed", "error", err.Error())
		return unauthorized(c, "Invalid token")
	}

	userID, err := claims.UserID()
	if err != nil {
		return unauthorized(c, "Invalid token")
	}

	user, err := m.userRepo.GetByID(c.UserContext(), m.DB.SQL, userID)
	if err != nil {
		log.Info("user not found", "userID", userID, "error", err.Error())
		return unauthorized(c, "User not found")
	}

	if !user.IsActive {
		log.Info("inactive user rejected", "userID", user.ID)
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Account is disabled",
		})
	}

	c.Locals(UserKeyFiber, user)
	ctx := context.WithValue(c.UserContext(), UserKey, user)
	c.SetUserContext(ctx)

	log.Debug("user authenticated", "userID", user.ID, "role", user.Role)
	return c.Next()
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": message,
	})
}

func GetUser(c *fiber.Ctx) *models.User {
	user, ok := c.Locals(UserKeyFiber).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// UserFromContext is the service-side counterpart of GetUser.
func UserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
