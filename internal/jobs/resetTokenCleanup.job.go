package jobs

import (
	"context"
	"time"

	"showroom/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type ResetTokenPurger interface {
	DeleteStale(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error)
}

type ResetTokenCleanupJob struct {
	repo     ResetTokenPurger
	db       *gorm.DB
	log      logger.Logger
	schedule services.Schedule
	now      func() time.Time
}

func NewResetTokenCleanupJob(
	repo ResetTokenPurger,
	db *gorm.DB,
	schedule services.Schedule,
) *ResetTokenCleanupJob {
	return &ResetTokenCleanupJob{
		repo:     repo,
		db:       db,
		log:      logger.New("resetTokenCleanupJob"),
		schedule: schedule,
		now:      time.Now,
	}
}

func (j *ResetTokenCleanupJob) Name() string {
	return "HourlyResetTokenCleanup"
}

// Execute drops expired and used reset tokens.
func (j *ResetTokenCleanupJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	deleted, err := j.repo.DeleteStale(ctx, j.db, j.now())
	if err != nil {
		return log.Err("failed to purge reset tokens", err)
	}

	if deleted > 0 {
		log.Info("Reset token cleanup completed", "deleted", deleted)
	}
	return nil
}

func (j *ResetTokenCleanupJob) Schedule() services.Schedule {
	return j.schedule
}
