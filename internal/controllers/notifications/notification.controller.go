package notificationController

import (
	"context"
	"fmt"

	"showroom/config"
	"showroom/internal/database"
	. "showroom/internal/models"
	"showroom/internal/repositories"
	"showroom/internal/services"
	"showroom/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationList struct {
	Items  []*Notification `json:"items"`
	Total  int64           `json:"total"`
	Unread int64           `json:"unread"`
}

type NotificationControllerInterface interface {
	List(ctx context.Context, actor *User, unreadOnly bool, page repositories.Page) (*NotificationList, error)
	MarkRead(ctx context.Context, actor *User, id uuid.UUID) error
	MarkAllRead(ctx context.Context, actor *User) (int64, error)
}

type NotificationController struct {
	repo   repositories.NotificationRepository
	db     *gorm.DB
	config config.Config
	log    logger.Logger
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) NotificationControllerInterface {
	return &NotificationController{
		repo:   repos.Notification,
		db:     db.SQL,
		config: config,
		log:    logger.New("notificationController"),
	}
}

func (nc *NotificationController) List(
	ctx context.Context,
	actor *User,
	unreadOnly bool,
	page repositories.Page,
) (*NotificationList, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: login required", types.ErrUnauthorized)
	}

	items, total, err := nc.repo.ListByUser(ctx, nc.db, actor.ID, unreadOnly, page)
	if err != nil {
		return nil, err
	}
	unread, err := nc.repo.CountUnread(ctx, nc.db, actor.ID)
	if err != nil {
		return nil, err
	}

	return &NotificationList{Items: items, Total: total, Unread: unread}, nil
}

// MarkRead reports NotFound for another user's notification.
func (nc *NotificationController) MarkRead(ctx context.Context, actor *User, id uuid.UUID) error {
	if actor == nil {
		return fmt.Errorf("%w: login required", types.ErrUnauthorized)
	}
	return nc.repo.MarkRead(ctx, nc.db, id, actor.ID)
}

func (nc *NotificationController) MarkAllRead(ctx context.Context, actor *User) (int64, error) {
	log := nc.log.TraceFromContext(ctx).Function("MarkAllRead")

	if actor == nil {
		return 0, fmt.Errorf("%w: login required", types.ErrUnauthorized)
	}

	count, err := nc.repo.MarkAllRead(ctx, nc.db, actor.ID)
	if err != nil {
		return 0, err
	}

	log.Debug("Notifications marked read", "userID", actor.ID, "count", count)
	return count, nil
}
