package jobs

import (
	"context"
	"time"

	"showroom/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

const DEFAULT_NOTIFICATION_RETENTION_DAYS = 90

type NotificationPurger interface {
	DeleteReadBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
}

// NotificationCleanupJob removes read notifications older than the retention window. Unread ones are kept.
type NotificationCleanupJob struct {
	repo      NotificationPurger
	db        *gorm.DB
	retention time.Duration
	log       logger.Logger
	schedule  services.Schedule
	now       func() time.Time
}

func NewNotificationCleanupJob(
	repo NotificationPurger,
	db *gorm.DB,
	retentionDays int,
	schedule services.Schedule,
) *NotificationCleanupJob {
	log := logger.New("notificationCleanupJob")

	if retentionDays <= 0 {
		retentionDays = DEFAULT_NOTIFICATION_RETENTION_DAYS
	}
	log.Info("Creating notification cleanup job", "schedule", schedule, "retentionDays", retentionDays)

	return &NotificationCleanupJob{
		repo:      repo,
		db:        db,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		log:       log,
		schedule:  schedule,
		now:       time.Now,
	}
}

func (j *NotificationCleanupJob) Name() string {
	return "DailyNotificationCleanup"
}

func (j *NotificationCleanupJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	cutoff := j.now().Add(-j.retention)
	deleted, err := j.repo.DeleteReadBefore(ctx, j.db, cutoff)
	if err != nil {
		return log.Err("failed to purge notifications", err, "cutoff", cutoff)
	}

	log.Info("Notification cleanup completed", "deleted", deleted, "cutoff", cutoff)
	return nil
}

func (j *NotificationCleanupJob) Schedule() services.Schedule {
	return j.schedule
}
