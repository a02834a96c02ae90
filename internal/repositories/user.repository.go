package repositories

import (
	"context"
	"errors"
	"time"

	"showroom/internal/database"
	. "showroom/internal/models"
	"showroom/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	USER_CACHE_EXPIRY = 24 * time.Hour
	USER_CACHE_PREFIX = "user"
)

type UserRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*User, error)
	Create(ctx context.Context, tx *gorm.DB, user *User) error
	Update(ctx context.Context, tx *gorm.DB, user *User) error
	UpdateRole(ctx context.Context, tx *gorm.DB, id uuid.UUID, role Role) error
	UpdatePassword(ctx context.Context, tx *gorm.DB, id uuid.UUID, passwordHash string) error
	TouchLogin(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) error
	List(ctx context.Context, tx *gorm.DB, page Page) ([]*User, int64, error)
	CountByRole(ctx context.Context, tx *gorm.DB) (map[Role]int64, error)
	ClearCache(ctx context.Context, id uuid.UUID) error
}

type userRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewUserRepository(cache database.CacheClient) UserRepository {
	return &userRepository{
		cache: cache,
		log:   logger.New("userRepository"),
	}
}

// GetByID serves from the user cache first. The auth middleware calls this on every request.
func (r *userRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByID")

	var cached User
	found, err := database.NewCacheBuilder(r.cache, id).
		WithContext(ctx).
		WithHash(USER_CACHE_PREFIX).
		Get(&cached)
	if err != nil {
		log.Warn("failed to get user from cache", "userID", id, "error", err)
	}
	if found {
		return &cached, nil
	}

	user, err := gorm.G[User](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		return nil, dbError(log, "failed to get user by id", err, "userID", id)
	}

	r.addToCache(ctx, &user)
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*User, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByEmail")

	user, err := gorm.G[User](tx).Where("email = ?", NormalizeEmail(email)).First(ctx)
	if err != nil {
		return nil, dbError(log, "failed to get user by email", err)
	}

	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, tx *gorm.DB, user *User) error {
	log := r.log.TraceFromContext(ctx).Function("Create")

	user.Email = NormalizeEmail(user.Email)
	if user.Role == "" {
		user.Role = RoleUser
	}
	user.IsActive = true

	if err := tx.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return types.Validation("email already registered")
		}
		return dbError(log, "failed to create user", err, "email", user.Email)
	}

	return nil
}

func (r *userRepository) Update(ctx context.Context, tx *gorm.DB, user *User) error {
	log := r.log.TraceFromContext(ctx).Function("Update")

	if err := tx.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{"name": user.Name, "phone": user.Phone}).Error; err != nil {
		return dbError(log, "failed to update user", err, "userID", user.ID)
	}

	return r.ClearCache(ctx, user.ID)
}

func (r *userRepository) UpdateRole(ctx context.Context, tx *gorm.DB, id uuid.UUID, role Role) error {
	log := r.log.TraceFromContext(ctx).Function("UpdateRole")

	result := tx.WithContext(ctx).Model(&User{}).Where("id = ?", id).Update("role", role)
	if result.Error != nil {
		return dbError(log, "failed to update user role", result.Error, "userID", id)
	}
	if result.RowsAffected == 0 {
		return types.ErrNotFound
	}

	return r.ClearCache(ctx, id)
}

func (r *userRepository) UpdatePassword(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	passwordHash string,
) error {
	log := r.log.TraceFromContext(ctx).Function("UpdatePassword")

	result := tx.WithContext(ctx).Model(&User{}).Where("id = ?", id).Update("password_hash", passwordHash)
	if result.Error != nil {
		return dbError(log, "failed to update password", result.Error, "userID", id)
	}
	if result.RowsAffected == 0 {
		return types.ErrNotFound
	}

	return r.ClearCache(ctx, id)
}

func (r *userRepository) TouchLogin(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) error {
	log := r.log.TraceFromContext(ctx).Function("TouchLogin")

	if err := tx.WithContext(ctx).Model(&User{}).Where("id = ?", id).Update("last_login_at", at).Error; err != nil {
		return dbError(log, "failed to record login", err, "userID", id)
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, tx *gorm.DB, page Page) ([]*User, int64, error) {
	log := r.log.TraceFromContext(ctx).Function("List")

	var total int64
	if err := tx.WithContext(ctx).Model(&User{}).Count(&total).Error; err != nil {
		return nil, 0, dbError(log, "failed to count users", err)
	}

	var users []*User
	if err := page.apply(tx.WithContext(ctx).Order("created_at DESC")).Find(&users).Error; err != nil {
		return nil, 0, dbError(log, "failed to list users", err)
	}

	return users, total, nil
}

func (r *userRepository) CountByRole(ctx context.Context, tx *gorm.DB) (map[Role]int64, error) {
	log := r.log.TraceFromContext(ctx).Function("CountByRole")

	var rows []struct {
		Role  Role
		Count int64
	}
	if err := tx.WithContext(ctx).
		Model(&User{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Scan(&rows).Error; err != nil {
		return nil, dbError(log, "failed to count users by role", err)
	}

	counts := map[Role]int64{RoleUser: 0, RoleAdmin: 0, RoleSuperadmin: 0}
	for _, row := range rows {
		counts[row.Role] = row.Count
	}
	return counts, nil
}

func (r *userRepository) ClearCache(ctx context.Context, id uuid.UUID) error {
	if err := database.NewCacheBuilder(r.cache, id).
		WithContext(ctx).
		WithHash(USER_CACHE_PREFIX).
		Delete(); err != nil {
		r.log.Function("ClearCache").Warn("failed to clear user cache", "userID", id, "error", err)
	}
	return nil
}

func (r *userRepository) addToCache(ctx context.Context, user *User) {
	if err := database.NewCacheBuilder(r.cache, user.ID).
		WithContext(ctx).
		WithHash(USER_CACHE_PREFIX).
		WithStruct(user).
		WithTTL(USER_CACHE_EXPIRY).
		Set(); err != nil {
		r.log.Function("addToCache").Warn("failed to add user to cache", "userID", user.ID, "error", err)
	}
}
