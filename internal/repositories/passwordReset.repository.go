package repositories

import (
	"context"
	"time"

	. "showroom/internal/models"
	"showroom/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PasswordResetRepository interface {
	Create(ctx context.Context, tx *gorm.DB, token *PasswordResetToken) error
	GetByHash(ctx context.Context, tx *gorm.DB, tokenHash string) (*PasswordResetToken, error)
	MarkUsed(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) error
	DeleteStale(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error)
}

type passwordResetRepository struct {
	log logger.Logger
}

func NewPasswordResetRepository() PasswordResetRepository {
	return &passwordResetRepository{log: logger.New("passwordResetRepository")}
}

func (r *passwordResetRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	token *PasswordResetToken,
) error {
	log := r.log.TraceFromContext(ctx).Function("Create")

	if err := tx.WithContext(ctx).Create(token).Error; err != nil {
		return dbError(log, "failed to store reset token", err, "userID", token.UserID)
	}
	return nil
}

func (r *passwordResetRepository) GetByHash(
	ctx context.Context,
	tx *gorm.DB,
	tokenHash string,
) (*PasswordResetToken, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByHash")

	token, err := gorm.G[PasswordResetToken](tx).Where("token_hash = ?", tokenHash).First(ctx)
	if err != nil {
		return nil, dbError(log, "failed to get reset token", err)
	}
	return &token, nil
}

// MarkUsed only succeeds once per token.
func (r *passwordResetRepository) MarkUsed(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	at time.Time,
) error {
	log := r.log.TraceFromContext(ctx).Function("MarkUsed")

	result := tx.WithContext(ctx).
		Model(&PasswordResetToken{}).
		Where("id = ? AND used_at IS NULL", id).
		Update("used_at", at)
	if result.Error != nil {
		return dbError(log, "failed to mark reset token used", result.Error, "tokenID", id)
	}
	if result.RowsAffected == 0 {
		return types.Validation("reset token already used")
	}
	return nil
}

func (r *passwordResetRepository) DeleteStale(
	ctx context.Context,
	tx *gorm.DB,
	now time.Time,
) (int64, error) {
	log := r.log.TraceFromContext(ctx).Function("DeleteStale")

	result := tx.WithContext(ctx).
		Where("expires_at < ? OR used_at IS NOT NULL", now).
		Delete(&PasswordResetToken{})
	if result.Error != nil {
		return 0, dbError(log, "failed to purge reset tokens", result.Error)
	}
	return result.RowsAffected, nil
}
