package jobs

import (
	"context"
	"testing"
	"time"

	"showroom/config"
	"showroom/internal/database/dbtest"
	"showroom/internal/models"
	"showroom/internal/repositories"
	"showroom/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationCleanupJob_Execute(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	repos := repositories.New(db)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	seed := func(title string, read bool, age time.Duration) {
		n := &models.Notification{
			UserID: userID,
			Title:  title,
			Type:   models.NotificationNewMessage,
			IsRead: read,
		}
		n.CreatedAt = now.Add(-age)
		require.NoError(t, repos.Notification.Create(ctx, db.SQL, n))
	}
	seed("old read", true, 40*24*time.Hour)
	seed("old unread", false, 40*24*time.Hour)
	seed("recent read", true, 24*time.Hour)

	job := NewNotificationCleanupJob(repos.Notification, db.SQL, 30, Daily)
	job.now = func() time.Time { return now }
	require.NoError(t, job.Execute(ctx))

	var titles []string
	require.NoError(t, db.SQL.Model(&models.Notification{}).Order("title").Pluck("title", &titles).Error)
	assert.Equal(t, []string{"old unread", "recent read"}, titles)
	assert.Equal(t, services.Daily, job.Schedule())
}

func TestNotificationCleanupJob_DefaultRetention(t *testing.T) {
	job := NewNotificationCleanupJob(nil, nil, 0, Daily)
	assert.Equal(t, DEFAULT_NOTIFICATION_RETENTION_DAYS*24*time.Hour, job.retention)
}

func TestResetTokenCleanupJob_Execute(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	repos := repositories.New(db)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	used := now.Add(-time.Minute)

	tokens := []*models.PasswordResetToken{
		{UserID: uuid.New(), TokenHash: "expired", ExpiresAt: now.Add(-time.Hour)},
		{UserID: uuid.New(), TokenHash: "used", ExpiresAt: now.Add(time.Hour), UsedAt: &used},
		{UserID: uuid.New(), TokenHash: "live", ExpiresAt: now.Add(time.Hour)},
	}
	for _, token := range tokens {
		require.NoError(t, repos.PasswordReset.Create(ctx, db.SQL, token))
	}

	job := NewResetTokenCleanupJob(repos.PasswordReset, db.SQL, Hourly)
	job.now = func() time.Time { return now }
	require.NoError(t, job.Execute(ctx))

	var hashes []string
	require.NoError(t, db.SQL.Model(&models.PasswordResetToken{}).Pluck("token_hash", &hashes).Error)
	assert.Equal(t, []string{"live"}, hashes)
}

func TestRegisterAllJobs(t *testing.T) {
	db := dbtest.New(t)
	repos := repositories.New(db)
	scheduler := services.NewSchedulerService()

	require.NoError(t, RegisterAllJobs(scheduler, config.Config{}, repos, db))
	assert.Equal(t, 2, scheduler.GetJobCount())
}
