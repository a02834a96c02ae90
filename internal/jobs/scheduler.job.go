package jobs

import (
	"showroom/config"
	"showroom/internal/database"
	"showroom/internal/repositories"
	"showroom/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	Daily  = services.Daily
	Hourly = services.Hourly
)

func RegisterAllJobs(
	schedulerService *services.SchedulerService,
	config config.Config,
	repos repositories.Repository,
	db database.DB,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")
	log.Info("Registering jobs")

	notificationCleanupJob := NewNotificationCleanupJob(
		repos.Notification,
		db.SQL,
		config.NotificationRetentionDays,
		Daily,
	)
	if err := schedulerService.AddJob(notificationCleanupJob); err != nil {
		return log.Err("failed to register notification cleanup job", err)
	}
	log.Info("Registered notification cleanup job", "schedule", "daily")

	resetTokenCleanupJob := NewResetTokenCleanupJob(
		repos.PasswordReset,
		db.SQL,
		Hourly,
	)
	if err := schedulerService.AddJob(resetTokenCleanupJob); err != nil {
		return log.Err("failed to register reset token cleanup job", err)
	}
	log.Info("Registered reset token cleanup job", "schedule", "hourly")

	return nil
}
