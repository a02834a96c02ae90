package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJob struct {
	name     string
	schedule Schedule
}

func (j stubJob) Name() string                      { return j.name }
func (j stubJob) Execute(ctx context.Context) error { return nil }
func (j stubJob) Schedule() Schedule                { return j.schedule }

func TestSchedulerService_Lifecycle(t *testing.T) {
	scheduler := NewSchedulerService()
	ctx := context.Background()

	require.NoError(t, scheduler.Start(ctx))
	assert.False(t, scheduler.IsRunning(), "no jobs means no start")

	require.NoError(t, scheduler.AddJob(stubJob{name: "hourly", schedule: Hourly}))
	require.NoError(t, scheduler.AddJob(stubJob{name: "daily", schedule: Daily}))
	assert.Equal(t, 2, scheduler.GetJobCount())

	require.NoError(t, scheduler.Start(ctx))
	assert.True(t, scheduler.IsRunning())

	require.NoError(t, scheduler.Stop(ctx))
	assert.False(t, scheduler.IsRunning())
}

func TestSchedulerService_RejectsUnknownSchedule(t *testing.T) {
	scheduler := NewSchedulerService()
	assert.Error(t, scheduler.AddJob(stubJob{name: "odd", schedule: Schedule(42)}))
	assert.Equal(t, 0, scheduler.GetJobCount())
}
