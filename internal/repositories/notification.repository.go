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

type NotificationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, notification *Notification) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, unreadOnly bool, page Page) ([]*Notification, int64, error)
	CountUnread(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, tx *gorm.DB, id uuid.UUID, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	DeleteReadBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
}

type notificationRepository struct {
	log logger.Logger
}

func NewNotificationRepository() NotificationRepository {
	return &notificationRepository{log: logger.New("notificationRepository")}
}

func (r *notificationRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	notification *Notification,
) error {
	log := r.log.TraceFromContext(ctx).Function("Create")

	if err := tx.WithContext(ctx).Create(notification).Error; err != nil {
		return dbError(log, "failed to create notification", err, "userID", notification.UserID)
	}
	return nil
}

func (r *notificationRepository) ListByUser(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	unreadOnly bool,
	page Page,
) ([]*Notification, int64, error) {
	log := r.log.TraceFromContext(ctx).Function("ListByUser")

	query := tx.WithContext(ctx).Model(&Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, dbError(log, "failed to count notifications", err, "userID", userID)
	}

	var notifications []*Notification
	if err := page.apply(query.Order("created_at DESC")).Find(&notifications).Error; err != nil {
		return nil, 0, dbError(log, "failed to list notifications", err, "userID", userID)
	}
	return notifications, total, nil
}

func (r *notificationRepository) CountUnread(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) (int64, error) {
	log := r.log.TraceFromContext(ctx).Function("CountUnread")

	var total int64
	if err := tx.WithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&total).Error; err != nil {
		return 0, dbError(log, "failed to count unread notifications", err, "userID", userID)
	}
	return total, nil
}

// MarkRead matches on recipient as well as id, so another user's notification reads as missing.
func (r *notificationRepository) MarkRead(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	userID uuid.UUID,
) error {
	log := r.log.TraceFromContext(ctx).Function("MarkRead")

	result := tx.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return dbError(log, "failed to mark notification read", result.Error, "notificationID", id)
	}
	if result.RowsAffected == 0 {
		return types.ErrNotFound
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) (int64, error) {
	log := r.log.TraceFromContext(ctx).Function("MarkAllRead")

	result := tx.WithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, dbError(log, "failed to mark notifications read", result.Error, "userID", userID)
	}
	return result.RowsAffected, nil
}

func (r *notificationRepository) DeleteReadBefore(
	ctx context.Context,
	tx *gorm.DB,
	cutoff time.Time,
) (int64, error) {
	log := r.log.TraceFromContext(ctx).Function("DeleteReadBefore")

	result := tx.WithContext(ctx).
		Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&Notification{})
	if result.Error != nil {
		return 0, dbError(log, "failed to purge notifications", result.Error)
	}
	return result.RowsAffected, nil
}
