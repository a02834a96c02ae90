package authController

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"showroom/config"
	"showroom/internal/database"
	. "showroom/internal/models"
	"showroom/internal/repositories"
	"showroom/internal/services"
	"showroom/internal/types"
	"showroom/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

const RESET_TOKEN_TTL = time.Hour

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdatePasswordRequest carries either a reset token or the current password.
type UpdatePasswordRequest struct {
	Token           string `json:"token"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      UserProfile `json:"user"`
}

type AuthControllerInterface interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	ForgotPassword(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, actor *User, req UpdatePasswordRequest) error
}

type AuthController struct {
	userRepo     repositories.UserRepository
	resetRepo    repositories.PasswordResetRepository
	tokens       *services.TokenService
	mailer       services.Mailer
	transactions services.Transactor
	db           *gorm.DB
	config       config.Config
	log          logger.Logger
	now          func() time.Time
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) AuthControllerInterface {
	return &AuthController{
		userRepo:     repos.User,
		resetRepo:    repos.PasswordReset,
		tokens:       services.Token,
		mailer:       services.Mail,
		transactions: services.Transaction,
		db:           db.SQL,
		config:       config,
		log:          logger.New("authController"),
		now:          time.Now,
	}
}

func (ac *AuthController) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	log := ac.log.TraceFromContext(ctx).Function("Register")

	req.Name = strings.TrimSpace(req.Name)
	email := NormalizeEmail(req.Email)
	if req.Name == "" {
		return nil, types.Validation("name is required")
	}
	if !strings.Contains(email, "@") {
		return nil, types.Validation("a valid email is required")
	}
	if !utils.ValidPassword(req.Password) {
		return nil, types.Validation("password must be at least %d characters", utils.MinPasswordLength)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, log.Err("failed to hash password", types.Backend(err))
	}

	user := &User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: hash,
		Phone:        strings.TrimSpace(req.Phone),
		Role:         RoleUser,
	}
	if err := ac.userRepo.Create(ctx, ac.db, user); err != nil {
		return nil, err
	}

	log.Info("User registered", "userID", user.ID)
	return ac.issue(user)
}

func (ac *AuthController) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	log := ac.log.TraceFromContext(ctx).Function("Login")

	user, err := ac.userRepo.GetByEmail(ctx, ac.db, req.Email)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", types.ErrUnauthorized)
		}
		return nil, err
	}

	if !utils.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, fmt.Errorf("%w: invalid email or password", types.ErrUnauthorized)
	}
	if !user.IsActive {
		return nil, types.Forbidden("account is disabled")
	}

	response, err := ac.issue(user)
	if err != nil {
		return nil, err
	}

	now := ac.now().UTC()
	if err := ac.userRepo.TouchLogin(ctx, ac.db, user.ID, now); err != nil {
		log.Warn("failed to record login time", "userID", user.ID, "error", err)
	} else {
		response.User.LastLoginAt = &now
	}

	return response, nil
}

// ForgotPassword succeeds for unknown emails so the endpoint does not reveal accounts.
func (ac *AuthController) ForgotPassword(ctx context.Context, email string) error {
	log := ac.log.TraceFromContext(ctx).Function("ForgotPassword")

	if ac.config.AMQPURL == "" || ac.config.MailQueue == "" {
		return log.Err("password reset mail is not configured", types.ErrConfiguration)
	}

	user, err := ac.userRepo.GetByEmail(ctx, ac.db, email)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil
		}
		return err
	}
	if !user.IsActive || user.Role == RoleSuperadmin {
		return nil
	}

	token, tokenHash, err := utils.NewResetToken()
	if err != nil {
		return log.Err("failed to create reset token", types.Backend(err))
	}

	if err := ac.resetRepo.Create(ctx, ac.db, &PasswordResetToken{
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: ac.now().UTC().Add(RESET_TOKEN_TTL),
	}); err != nil {
		return err
	}

	return ac.mailer.Send(ctx, services.MailMessage{
		To:       user.Email,
		Subject:  "Reset your password",
		Template: "password_reset",
		Data: map[string]any{
			"name":     user.Name,
			"resetUrl": ac.resetURL(token),
		},
	})
}

func (ac *AuthController) UpdatePassword(ctx context.Context, actor *User, req UpdatePasswordRequest) error {
	log := ac.log.TraceFromContext(ctx).Function("UpdatePassword")

	if !utils.ValidPassword(req.NewPassword) {
		return types.Validation("password must be at least %d characters", utils.MinPasswordLength)
	}

	if req.Token != "" {
		return ac.resetWithToken(ctx, req)
	}

	if actor == nil {
		return fmt.Errorf("%w: reset token or session required", types.ErrUnauthorized)
	}
	if actor.Role == RoleSuperadmin {
		return types.Forbidden("superadmin password cannot be changed here")
	}

	// The cached actor carries no password hash.
	stored, err := ac.userRepo.GetByEmail(ctx, ac.db, actor.Email)
	if err != nil {
		return err
	}
	if !utils.VerifyPassword(stored.PasswordHash, req.CurrentPassword) {
		return types.Validation("current password is incorrect")
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return log.Err("failed to hash password", types.Backend(err))
	}

	return ac.userRepo.UpdatePassword(ctx, ac.db, stored.ID, hash)
}

func (ac *AuthController) resetWithToken(ctx context.Context, req UpdatePasswordRequest) error {
	log := ac.log.TraceFromContext(ctx).Function("resetWithToken")

	reset, err := ac.resetRepo.GetByHash(ctx, ac.db, utils.HashToken(req.Token))
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return types.Validation("invalid or expired reset token")
		}
		return err
	}
	if !reset.Usable(ac.now().UTC()) {
		return types.Validation("invalid or expired reset token")
	}

	user, err := ac.userRepo.GetByID(ctx, ac.db, reset.UserID)
	if err != nil {
		return err
	}
	if user.Role == RoleSuperadmin {
		return types.Forbidden("superadmin password cannot be reset")
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return log.Err("failed to hash password", types.Backend(err))
	}

	return ac.transactions.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := ac.resetRepo.MarkUsed(ctx, tx, reset.ID, ac.now().UTC()); err != nil {
			return err
		}
		return ac.userRepo.UpdatePassword(ctx, tx, user.ID, hash)
	})
}

func (ac *AuthController) issue(user *User) (*AuthResponse, error) {
	token, expiresAt, err := ac.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, ExpiresAt: expiresAt, User: user.ToProfile()}, nil
}

func (ac *AuthController) resetURL(token string) string {
	base := strings.TrimRight(ac.config.AppBaseURL, "/")
	return base + "/reset-password?token=" + url.QueryEscape(token)
}
