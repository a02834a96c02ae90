package notificationController

import (
	"context"
	"testing"

	"showroom/config"
	"showroom/internal/database/dbtest"
	. "showroom/internal/models"
	"showroom/internal/repositories"
	"showroom/internal/services"
	"showroom/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationController_ReadLifecycle(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	repos := repositories.New(db)
	controller := New(repos, services.Service{}, config.Config{}, db)

	owner := &User{Name: "Owner", Email: "owner@example.com"}
	other := &User{Name: "Other", Email: "other@example.com"}
	require.NoError(t, repos.User.Create(ctx, db.SQL, owner))
	require.NoError(t, repos.User.Create(ctx, db.SQL, other))

	var first *Notification
	for i, title := range []string{"one", "two", "three"} {
		notification := &Notification{UserID: owner.ID, Title: title, Type: NotificationBookingStatus}
		require.NoError(t, repos.Notification.Create(ctx, db.SQL, notification))
		if i == 0 {
			first = notification
		}
	}

	list, err := controller.List(ctx, owner, false, repositories.Page{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
	assert.Equal(t, int64(3), list.Total)
	assert.Equal(t, int64(3), list.Unread)

	assert.ErrorIs(t, controller.MarkRead(ctx, other, first.ID), types.ErrNotFound)
	require.NoError(t, controller.MarkRead(ctx, owner, first.ID))

	list, err = controller.List(ctx, owner, true, repositories.Page{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
	assert.Equal(t, int64(2), list.Unread)

	count, err := controller.MarkAllRead(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	list, err = controller.List(ctx, owner, true, repositories.Page{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
	assert.Zero(t, list.Unread)

	_, err = controller.List(ctx, nil, false, repositories.Page{})
	assert.ErrorIs(t, err, types.ErrUnauthorized)
}
