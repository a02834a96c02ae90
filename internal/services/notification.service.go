package services

import (
	"context"

	"showroom/internal/events"
	"showroom/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationWriter interface {
	Create(ctx context.Context, tx *gorm.DB, notification *models.Notification) error
}

type Notifier interface {
	Notify(ctx context.Context, notification *models.Notification) error
}

// NotificationService persists a notification and then pushes it to the recipient's live sessions.
type NotificationService struct {
	db        *gorm.DB
	repo      NotificationWriter
	publisher events.Publisher
	log       logger.Logger
}

func NewNotificationService(
	db *gorm.DB,
	repo NotificationWriter,
	publisher events.Publisher,
) *NotificationService {
	return &NotificationService{
		db:        db,
		repo:      repo,
		publisher: publisher,
		log:       logger.New("NotificationService"),
	}
}

// Notify fails only when the row cannot be stored. A failed publish is logged.
func (s *NotificationService) Notify(ctx context.Context, notification *models.Notification) error {
	log := s.log.TraceFromContext(ctx).Function("Notify")

	if err := s.repo.Create(ctx, s.db, notification); err != nil {
		return err
	}

	if s.publisher == nil {
		return nil
	}

	userID := notification.UserID
	if err := s.publisher.Publish(events.USER_CHANNEL, events.Event{
		Type:   events.NOTIFICATION,
		UserID: &userID,
		Data: map[string]any{
			"notification": notification,
		},
	}); err != nil {
		log.Warn("failed to publish notification", "notificationID", notification.ID, "error", err)
	}

	return nil
}

// NotifyQuietly is for secondary side effects that must not fail the caller.
func NotifyQuietly(
	ctx context.Context,
	notifier Notifier,
	log logger.Logger,
	userID uuid.UUID,
	kind models.NotificationType,
	title, message string,
	relatedID *uuid.UUID,
) {
	if notifier == nil || userID == uuid.Nil {
		return
	}

	err := notifier.Notify(ctx, &models.Notification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      kind,
		RelatedID: relatedID,
	})
	if err != nil {
		log.Warn("failed to send notification", "userID", userID, "type", kind, "error", err)
	}
}
