package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"showroom/config"
	"showroom/internal/app"
	"showroom/internal/database/dbtest"
	"showroom/internal/models"
	"showroom/internal/types"
	"showroom/internal/utils"
	"showroom/pkg/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "correct-horse"

type testServer struct {
	t   *testing.T
	app *app.App
	srv *fiber.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := config.Config{
		GeneralVersion:           "test",
		JWTSecret:                "handler-test-secret",
		JWTTTLMinutes:            60,
		EnforceStatusTransitions: true,
		UploadDir:                t.TempDir(),
	}

	application, err := app.Build(cfg, dbtest.New(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.EventBus.Close() })

	srv := fiber.New()
	require.NoError(t, Router(srv, application))

	return &testServer{t: t, app: application, srv: srv}
}

func (s *testServer) call(method, path, token string, body any) (int, map[string]any) {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := s.srv.Test(req, -1)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)

	decoded := map[string]any{}
	if len(raw) > 0 {
		require.NoError(s.t, json.Unmarshal(raw, &decoded), string(raw))
	}
	return resp.StatusCode, decoded
}

func (s *testServer) register(name, email string) string {
	s.t.Helper()
	status, body := s.call(http.MethodPost, "/api/auth/register", "", map[string]any{
		"name":     name,
		"email":    email,
		"password": testPassword,
	})
	require.Equal(s.t, fiber.StatusCreated, status, body)
	return body["token"].(string)
}

func (s *testServer) seedSuperadmin() string {
	s.t.Helper()
	hash, err := utils.HashPassword(testPassword)
	require.NoError(s.t, err)

	root := &models.User{
		Name:         "Root",
		Email:        "root@example.com",
		PasswordHash: hash,
		Role:         models.RoleSuperadmin,
	}
	require.NoError(s.t, s.app.Repos.User.Create(context.Background(), s.app.Database.SQL, root))

	status, body := s.call(http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    root.Email,
		"password": testPassword,
	})
	require.Equal(s.t, fiber.StatusOK, status, body)
	return body["token"].(string)
}

func userID(body map[string]any) string {
	return body["user"].(map[string]any)["id"].(string)
}

func nested(body map[string]any, key string) map[string]any {
	return body[key].(map[string]any)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	status, body := s.call(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.register("Asha", "Asha@Example.com")

	status, body := s.call(http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "asha@example.com", nested(body, "user")["email"])
	assert.Equal(t, "user", nested(body, "user")["role"])

	status, body = s.call(http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "Dup", "email": "asha@example.com", "password": testPassword,
	})
	assert.Equal(t, fiber.StatusBadRequest, status, body)

	status, body = s.call(http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "asha@example.com", "password": "wrong-password",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Contains(t, body, "error")

	status, _ = s.call(http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body = s.call(http.MethodPost, "/api/auth/forgot-password", "", map[string]any{"email": "asha@example.com"})
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "server configuration error", body["error"])
}

func TestRoleGates(t *testing.T) {
	s := newTestServer(t)
	rootToken := s.seedSuperadmin()
	memberToken := s.register("Member", "member@example.com")

	status, _ := s.call(http.MethodPost, "/api/rooms", memberToken, map[string]any{"name": "Nope"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = s.call(http.MethodGet, "/api/superadmin/users", memberToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body := s.call(http.MethodGet, "/api/superadmin/users?limit=500", rootToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 2, nested(body, "meta")["total"])
	assert.EqualValues(t, pagination.MaxLimit, nested(body, "meta")["limit"])
	assert.Len(t, body["data"], 2)

	status, _ = s.call(http.MethodGet, "/api/cars?fuelType=Steam", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = s.call(http.MethodGet, "/api/rooms/not-a-uuid", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestMarketplaceFlow(t *testing.T) {
	s := newTestServer(t)
	rootToken := s.seedSuperadmin()

	adminToken := s.register("Dealer", "dealer@example.com")
	_, me := s.call(http.MethodGet, "/api/users/me", adminToken, nil)
	status, _ := s.call(http.MethodPut, "/api/superadmin/users/"+userID(me)+"/role", rootToken, map[string]any{"role": "admin"})
	require.Equal(t, fiber.StatusOK, status)

	buyerToken := s.register("Buyer", "buyer@example.com")
	strangerToken := s.register("Stranger", "stranger@example.com")

	status, body := s.call(http.MethodPost, "/api/rooms", adminToken, map[string]any{
		"name": "Dealer Motors", "location": "Pune",
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	roomID := nested(body, "room")["id"].(string)

	status, body = s.call(http.MethodPost, "/api/cars", adminToken, map[string]any{
		"brand": "Tata", "model": "Nexon", "year": 2023, "price": "1250000",
		"fuelType": "Electric", "transmission": "Automatic",
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	car := nested(body, "car")
	assert.Equal(t, roomID, car["roomId"])
	carID := car["id"].(string)

	status, body = s.call(http.MethodGet, "/api/cars?brand=Tata&roomId="+roomID, "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 1, nested(body, "meta")["total"])

	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
	status, body = s.call(http.MethodPost, "/api/bookings", buyerToken, map[string]any{
		"carId":     carID,
		"startDate": start,
		"endDate":   start.Add(72 * time.Hour),
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	bookingID := nested(body, "booking")["id"].(string)

	status, body = s.call(http.MethodPut, "/api/admin/bookings", buyerToken, map[string]any{
		"bookingId": bookingID, "status": "Confirmed",
	})
	assert.Equal(t, fiber.StatusForbidden, status, body)

	status, body = s.call(http.MethodPut, "/api/admin/bookings", adminToken, map[string]any{
		"bookingId": bookingID, "status": "Confirmed",
	})
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, "Confirmed", nested(body, "booking")["status"])

	status, body = s.call(http.MethodPut, "/api/admin/bookings", adminToken, map[string]any{
		"bookingId": bookingID, "status": "Pending",
	})
	assert.Equal(t, fiber.StatusConflict, status, body)

	status, body = s.call(http.MethodPut, "/api/admin/bookings", adminToken, map[string]any{
		"bookingId": bookingID, "status": "Shipped",
	})
	assert.Equal(t, fiber.StatusBadRequest, status, body)

	status, body = s.call(http.MethodPost, "/api/payments", buyerToken, map[string]any{
		"bookingId": bookingID, "amount": "1250000", "method": "upi",
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	paymentID := nested(body, "payment")["id"].(string)

	status, _ = s.call(http.MethodGet, "/api/payments/"+paymentID, strangerToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body = s.call(http.MethodPut, "/api/admin/payments/"+paymentID+"/approve", adminToken, nil)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, "approved", nested(body, "payment")["status"])

	status, body = s.call(http.MethodGet, "/api/payments/"+paymentID, buyerToken, nil)
	require.Equal(t, fiber.StatusOK, status, body)

	status, body = s.call(http.MethodGet, "/api/payments/mine", buyerToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["payments"], 1)

	status, body = s.call(http.MethodGet, "/api/notifications", buyerToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.NotZero(t, body["unread"])

	status, body = s.call(http.MethodPut, "/api/notifications/read-all", buyerToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.NotZero(t, body["updated"])

	status, body = s.call(http.MethodGet, "/api/admin/dashboard", adminToken, nil)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Nil(t, body["rooms"], "admins do not see platform totals")

	status, body = s.call(http.MethodGet, "/api/admin/dashboard", rootToken, nil)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.EqualValues(t, 1, body["rooms"])

	status, _ = s.call(http.MethodDelete, "/api/rooms/"+roomID, adminToken, nil)
	require.Equal(t, fiber.StatusNoContent, status)

	status, _ = s.call(http.MethodGet, "/api/cars/"+carID, "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestChatRoutes(t *testing.T) {
	s := newTestServer(t)
	aliceToken := s.register("Alice", "alice@example.com")
	bobToken := s.register("Bob", "bob@example.com")
	_, bob := s.call(http.MethodGet, "/api/users/me", bobToken, nil)
	_, alice := s.call(http.MethodGet, "/api/users/me", aliceToken, nil)

	status, body := s.call(http.MethodPost, "/api/chat/messages", aliceToken, map[string]any{
		"receiverId": userID(bob), "content": "Is the Nexon still available?",
	})
	require.Equal(t, fiber.StatusCreated, status, body)

	status, body = s.call(http.MethodGet, "/api/chat/conversations", bobToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["conversations"], 1)

	status, body = s.call(http.MethodGet, "/api/chat/conversations/"+userID(alice), bobToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["messages"], 1)

	status, _ = s.call(http.MethodGet, "/api/chat/conversations/"+userID(alice)+"?since=yesterday", bobToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{types.ErrUnauthorized, fiber.StatusUnauthorized},
		{types.Forbidden("not yours"), fiber.StatusForbidden},
		{types.NotFound("car"), fiber.StatusNotFound},
		{types.Validation("bad"), fiber.StatusBadRequest},
		{types.InvalidTransition("Sold", "Pending"), fiber.StatusConflict},
		{types.ErrConfiguration, fiber.StatusInternalServerError},
		{types.Backend(errors.New("connection refused")), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.status, statusFor(tt.err))
		})
	}
}
