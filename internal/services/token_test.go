package services

import (
	"testing"
	"time"

	"showroom/config"
	"showroom/internal/models"
	"showroom/internal/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser(role models.Role) *models.User {
	user := &models.User{Name: "Test", Email: "test@example.com", Role: role, IsActive: true}
	user.ID = uuid.New()
	return user
}

func TestTokenService_IssueAndValidate(t *testing.T) {
	service := NewTokenService(config.Config{JWTSecret: "secret", JWTTTLMinutes: 60})
	user := testUser(models.RoleAdmin)

	token, expiresAt, err := service.Issue(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := service.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

func TestTokenService_Rejections(t *testing.T) {
	service := NewTokenService(config.Config{JWTSecret: "secret", JWTTTLMinutes: 60})
	token, _, err := service.Issue(testUser(models.RoleUser))
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenService(config.Config{JWTSecret: "other", JWTTTLMinutes: 60})
		_, err := other.Validate(token)
		assert.ErrorIs(t, err, types.ErrUnauthorized)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := service.Validate("not.a.token")
		assert.ErrorIs(t, err, types.ErrUnauthorized)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewTokenService(config.Config{JWTSecret: "secret", JWTTTLMinutes: 60})
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.Validate(token)
		assert.ErrorIs(t, err, types.ErrUnauthorized)
	})
}

func TestTokenService_MissingSecret(t *testing.T) {
	service := NewTokenService(config.Config{JWTTTLMinutes: 60})

	_, _, err := service.Issue(testUser(models.RoleUser))
	assert.ErrorIs(t, err, types.ErrConfiguration)

	_, err = service.Validate("anything")
	assert.ErrorIs(t, err, types.ErrConfiguration)
}
