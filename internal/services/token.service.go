package services

import (
	"errors"
	"fmt"
	"time"

	"showroom/config"
	"showroom/internal/models"
	"showroom/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "showroom"

type Claims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed subject", types.ErrUnauthorized)
	}
	return id, nil
}

// TokenValidator is what the auth middleware and websocket handshake need.
type TokenValidator interface {
	Validate(token string) (*Claims, error)
}

type TokenService struct {
	secret []byte
	ttl    time.Duration
	log    logger.Logger
	now    func() time.Time
}

func NewTokenService(config config.Config) *TokenService {
	return &TokenService{
		secret: []byte(config.JWTSecret),
		ttl:    time.Duration(config.JWTTTLMinutes) * time.Minute,
		log:    logger.New("TokenService"),
		now:    time.Now,
	}
}

// Issue signs an HS256 token for the user. The role claim is informational; requests are
// authorized against the stored role.
func (s *TokenService) Issue(user *models.User) (string, time.Time, error) {
	log := s.log.Function("Issue")

	if len(s.secret) == 0 {
		return "", time.Time{}, log.Err("jwt secret is not configured", types.ErrConfiguration)
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   user.ID.String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, log.Err("failed to sign token", err, "userID", user.ID)
	}
	return signed, expiresAt, nil
}

func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	if len(s.secret) == 0 {
		return nil, types.ErrConfiguration
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, types.ErrUnauthorized
			}
			return s.secret, nil
		},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token expired", types.ErrUnauthorized)
		}
		return nil, fmt.Errorf("%w: invalid token", types.ErrUnauthorized)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", types.ErrUnauthorized)
	}
	return claims, nil
}
