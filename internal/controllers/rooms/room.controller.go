package roomController

import (
	"context"
	"errors"
	"strings"

	"showroom/config"
	"showroom/internal/database"
	. "showroom/internal/models"
	"showroom/internal/policy"
	"showroom/internal/repositories"
	"showroom/internal/services"
	"showroom/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoomRequest is used for create and partial update. Nil fields are left unchanged.
type RoomRequest struct {
	Name             *string    `json:"name"`
	Description      *string    `json:"description"`
	Location         *string    `json:"location"`
	IsActive         *bool      `json:"isActive"`
	YouTubeChannelID *string    `json:"youtubeChannelId"`
	AdminID          *uuid.UUID `json:"adminId"`
}

type VideoLister interface {
	ChannelVideos(ctx context.Context, channelID string) ([]services.Video, error)
}

type RoomControllerInterface interface {
	List(ctx context.Context, page repositories.Page) ([]*Room, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*Room, error)
	Create(ctx context.Context, actor *User, req RoomRequest) (*Room, error)
	Update(ctx context.Context, actor *User, id uuid.UUID, req RoomRequest) (*Room, error)
	Delete(ctx context.Context, actor *User, id uuid.UUID) error
	Videos(ctx context.Context, id uuid.UUID) ([]services.Video, error)
}

type RoomController struct {
	roomRepo     repositories.RoomRepository
	carRepo      repositories.CarRepository
	userRepo     repositories.UserRepository
	transactions services.Transactor
	videos       VideoLister
	db           *gorm.DB
	config       config.Config
	log          logger.Logger
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) RoomControllerInterface {
	return &RoomController{
		roomRepo:     repos.Room,
		carRepo:      repos.Car,
		userRepo:     repos.User,
		transactions: services.Transaction,
		videos:       services.Video,
		db:           db.SQL,
		config:       config,
		log:          logger.New("roomController"),
	}
}

func (rc *RoomController) List(ctx context.Context, page repositories.Page) ([]*Room, int64, error) {
	return rc.roomRepo.List(ctx, rc.db, true, page)
}

func (rc *RoomController) Get(ctx context.Context, id uuid.UUID) (*Room, error) {
	return rc.roomRepo.GetByID(ctx, rc.db, id)
}

// Create assigns an admin's room to that admin. A superadmin may name an admin owner or leave it unowned.
func (rc *RoomController) Create(ctx context.Context, actor *User, req RoomRequest) (*Room, error) {
	log := rc.log.TraceFromContext(ctx).Function("Create")

	if !policy.IsStaff(actor) {
		return nil, types.Forbidden("only admins can create rooms")
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return nil, types.Validation("room name is required")
	}

	ownerID := actor.ID
	if actor.Role == RoleSuperadmin {
		ownerID = uuid.Nil
		if req.AdminID != nil {
			owner, err := rc.userRepo.GetByID(ctx, rc.db, *req.AdminID)
			if err != nil {
				return nil, err
			}
			if owner.Role != RoleAdmin {
				return nil, types.Validation("room owner must be an admin")
			}
			ownerID = owner.ID
		}
	}

	if ownerID != uuid.Nil {
		_, err := rc.roomRepo.GetByAdminID(ctx, rc.db, ownerID)
		if err == nil {
			return nil, types.Validation("admin already owns a room")
		}
		if !errors.Is(err, types.ErrNotFound) {
			return nil, err
		}
	}

	room := &Room{}
	if ownerID != uuid.Nil {
		room.AdminID = &ownerID
	}
	applyRoomRequest(room, req)

	// Create always inserts an active row; the column default hides a false value.
	err := rc.transactions.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := rc.roomRepo.Create(ctx, tx, room); err != nil {
			return err
		}
		if req.IsActive == nil || *req.IsActive {
			return nil
		}
		room.IsActive = false
		return rc.roomRepo.Update(ctx, tx, room)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Room created", "roomID", room.ID, "adminID", ownerID)
	return room, nil
}

func (rc *RoomController) Update(
	ctx context.Context,
	actor *User,
	id uuid.UUID,
	req RoomRequest,
) (*Room, error) {
	room, err := rc.managedRoom(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, types.Validation("room name cannot be empty")
	}
	applyRoomRequest(room, req)

	if err := rc.roomRepo.Update(ctx, rc.db, room); err != nil {
		return nil, err
	}
	return room, nil
}

// Delete removes the room and every car in it in one transaction.
func (rc *RoomController) Delete(ctx context.Context, actor *User, id uuid.UUID) error {
	log := rc.log.TraceFromContext(ctx).Function("Delete")

	if _, err := rc.managedRoom(ctx, actor, id); err != nil {
		return err
	}

	var removedCars int64
	err := rc.transactions.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		count, err := rc.carRepo.DeleteByRoom(ctx, tx, id)
		if err != nil {
			return err
		}
		removedCars = count
		return rc.roomRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	log.Info("Room deleted", "roomID", id, "cars", removedCars, "by", actor.ID)
	return nil
}

func (rc *RoomController) Videos(ctx context.Context, id uuid.UUID) ([]services.Video, error) {
	room, err := rc.roomRepo.GetByID(ctx, rc.db, id)
	if err != nil {
		return nil, err
	}
	if room.YouTubeChannelID == nil {
		return []services.Video{}, nil
	}
	return rc.videos.ChannelVideos(ctx, *room.YouTubeChannelID)
}

func (rc *RoomController) managedRoom(ctx context.Context, actor *User, id uuid.UUID) (*Room, error) {
	if !policy.IsStaff(actor) {
		return nil, types.Forbidden("only admins can manage rooms")
	}

	room, err := rc.roomRepo.GetByID(ctx, rc.db, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanManage(actor, room.OwnerID()) {
		return nil, types.Forbidden("room belongs to another admin")
	}
	return room, nil
}

func applyRoomRequest(room *Room, req RoomRequest) {
	if req.Name != nil {
		room.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		room.Description = *req.Description
	}
	if req.Location != nil {
		room.Location = *req.Location
	}
	if req.IsActive != nil {
		room.IsActive = *req.IsActive
	}
	if req.YouTubeChannelID != nil {
		channelID := strings.TrimSpace(*req.YouTubeChannelID)
		if channelID == "" {
			room.YouTubeChannelID = nil
		} else {
			room.YouTubeChannelID = &channelID
		}
	}
}
