package middleware

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"showroom/config"
	"showroom/internal/database"
	"showroom/internal/database/dbtest"
	"showroom/internal/models"
	"showroom/internal/repositories"
	"showroom/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	app     *fiber.App
	db      database.DB
	tokens  *services.TokenService
	repos   repositories.Repository
	member  *models.User
	admin   *models.User
	blocked *models.User
}

func setup(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	db := dbtest.New(t)
	repos := repositories.New(db)
	cfg := config.Config{JWTSecret: "test-secret", JWTTTLMinutes: 60}
	tokens := services.NewTokenService(cfg)

	member := &models.User{Name: "Member", Email: "member@example.com", Role: models.RoleUser}
	admin := &models.User{Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin}
	blocked := &models.User{Name: "Blocked", Email: "blocked@example.com", Role: models.RoleUser}
	for _, user := range []*models.User{member, admin, blocked} {
		require.NoError(t, repos.User.Create(ctx, db.SQL, user))
	}
	require.NoError(t, db.SQL.Model(blocked).Update("is_active", false).Error)

	m := New(db, cfg, repos, tokens)

	app := fiber.New()
	app.Use(m.TraceID())
	app.Get("/me", m.RequireAuth(), func(c *fiber.Ctx) error {
		return c.SendString(GetUser(c).Email)
	})
	app.Get("/maybe", m.OptionalAuth(), func(c *fiber.Ctx) error {
		if user := UserFromContext(c.UserContext()); user != nil {
			return c.SendString(user.Email)
		}
		return c.SendString("anonymous")
	})
	app.Get("/trace", func(c *fiber.Ctx) error {
		return c.SendString(GetTraceID(c))
	})
	app.Get("/staff", m.RequireAuth(), m.RequireStaff(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	return fixture{app: app, db: db, tokens: tokens, repos: repos, member: member, admin: admin, blocked: blocked}
}

func (f fixture) bearer(t *testing.T, user *models.User) string {
	t.Helper()
	token, _, err := f.tokens.Issue(user)
	require.NoError(t, err)
	return "Bearer " + token
}

func (f fixture) do(t *testing.T, path, authorization string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set(fiber.HeaderAuthorization, authorization)
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestRequireAuth(t *testing.T) {
	f := setup(t)

	tests := []struct {
		name          string
		authorization string
		status        int
	}{
		{"missing header", "", fiber.StatusUnauthorized},
		{"wrong scheme", "Basic abc", fiber.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", fiber.StatusUnauthorized},
		{"inactive user", f.bearer(t, f.blocked), fiber.StatusForbidden},
		{"valid token", f.bearer(t, f.member), fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := f.do(t, "/me", tt.authorization)
			assert.Equal(t, tt.status, status)
		})
	}

	_, body := f.do(t, "/me", f.bearer(t, f.member))
	assert.Equal(t, f.member.Email, body)
}

func TestRequireAuth_MissingSecret(t *testing.T) {
	f := setup(t)
	token := f.bearer(t, f.member)

	cfg := config.Config{JWTSecret: ""}
	m := New(f.db, cfg, f.repos, services.NewTokenService(cfg))
	app := fiber.New()
	app.Get("/me", m.RequireAuth(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"server configuration error"}`, string(body))
}

func TestRequireAuth_UsesStoredRole(t *testing.T) {
	f := setup(t)

	// token minted while the user was an admin
	token := f.bearer(t, f.admin)
	status, _ := f.do(t, "/staff", token)
	assert.Equal(t, fiber.StatusNoContent, status)

	require.NoError(t, f.repos.User.UpdateRole(context.Background(), f.db.SQL, f.admin.ID, models.RoleUser))
	status, _ = f.do(t, "/staff", token)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = f.do(t, "/staff", f.bearer(t, f.member))
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestOptionalAuth(t *testing.T) {
	f := setup(t)

	status, body := f.do(t, "/maybe", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "anonymous", body)

	_, body = f.do(t, "/maybe", f.bearer(t, f.member))
	assert.Equal(t, f.member.Email, body)

	status, _ = f.do(t, "/maybe", "Bearer forged")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestTraceID(t *testing.T) {
	f := setup(t)

	req := httptest.NewRequest(fiber.MethodGet, "/maybe", nil)
	req.Header.Set(TraceIDHeader, "trace-123")
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "trace-123", resp.Header.Get(TraceIDHeader))

	resp, err = f.app.Test(httptest.NewRequest(fiber.MethodGet, "/maybe", nil))
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get(TraceIDHeader), 36)

	status, body := f.do(t, "/trace", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body, 36)

	req = httptest.NewRequest(fiber.MethodGet, "/trace", nil)
	req.Header.Set(TraceIDHeader, strings.Repeat("x", 129))
	resp, err = f.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	traced, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, resp.Header.Get(TraceIDHeader), string(traced))
	assert.Len(t, traced, 36)
}
