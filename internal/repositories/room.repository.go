package repositories

import (
	"context"

	. "showroom/internal/models"
	"showroom/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoomRepository interface {
	Create(ctx context.Context, tx *gorm.DB, room *Room) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Room, error)
	GetByAdminID(ctx context.Context, tx *gorm.DB, adminID uuid.UUID) (*Room, error)
	List(ctx context.Context, tx *gorm.DB, activeOnly bool, page Page) ([]*Room, int64, error)
	Update(ctx context.Context, tx *gorm.DB, room *Room) error
	SetScannerImage(ctx context.Context, tx *gorm.DB, id uuid.UUID, url string) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type roomRepository struct {
	log logger.Logger
}

func NewRoomRepository() RoomRepository {
	return &roomRepository{log: logger.New("roomRepository")}
}

func (r *roomRepository) Create(ctx context.Context, tx *gorm.DB, room *Room) error {
	log := r.log.TraceFromContext(ctx).Function("Create")

	room.IsActive = true
	if err := tx.WithContext(ctx).Create(room).Error; err != nil {
		return dbError(log, "failed to create room", err, "name", room.Name)
	}
	return nil
}

func (r *roomRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Room, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByID")

	room, err := gorm.G[Room](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		return nil, dbError(log, "failed to get room", err, "roomID", id)
	}
	return &room, nil
}

func (r *roomRepository) GetByAdminID(
	ctx context.Context,
	tx *gorm.DB,
	adminID uuid.UUID,
) (*Room, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByAdminID")

	room, err := gorm.G[Room](tx).Where("admin_id = ?", adminID).First(ctx)
	if err != nil {
		return nil, dbError(log, "failed to get room by admin", err, "adminID", adminID)
	}
	return &room, nil
}

func (r *roomRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	activeOnly bool,
	page Page,
) ([]*Room, int64, error) {
	log := r.log.TraceFromContext(ctx).Function("List")

	query := tx.WithContext(ctx).Model(&Room{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, dbError(log, "failed to count rooms", err)
	}

	var rooms []*Room
	if err := page.apply(query.Order("created_at DESC")).Find(&rooms).Error; err != nil {
		return nil, 0, dbError(log, "failed to list rooms", err)
	}
	return rooms, total, nil
}

func (r *roomRepository) Update(ctx context.Context, tx *gorm.DB, room *Room) error {
	log := r.log.TraceFromContext(ctx).Function("Update")

	if err := tx.WithContext(ctx).
		Model(&Room{}).
		Where("id = ?", room.ID).
		Updates(map[string]any{
			"name":               room.Name,
			"description":        room.Description,
			"location":           room.Location,
			"is_active":          room.IsActive,
			"youtube_channel_id": room.YouTubeChannelID,
		}).Error; err != nil {
		return dbError(log, "failed to update room", err, "roomID", room.ID)
	}
	return nil
}

func (r *roomRepository) SetScannerImage(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	url string,
) error {
	log := r.log.TraceFromContext(ctx).Function("SetScannerImage")

	result := tx.WithContext(ctx).Model(&Room{}).Where("id = ?", id).Update("scanner_image_url", url)
	if result.Error != nil {
		return dbError(log, "failed to set scanner image", result.Error, "roomID", id)
	}
	if result.RowsAffected == 0 {
		return types.ErrNotFound
	}
	return nil
}

func (r *roomRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := r.log.TraceFromContext(ctx).Function("Delete")

	result := tx.WithContext(ctx).Where("id = ?", id).Delete(&Room{})
	if result.Error != nil {
		return dbError(log, "failed to delete room", result.Error, "roomID", id)
	}
	if result.RowsAffected == 0 {
		return types.ErrNotFound
	}
	return nil
}

func (r *roomRepository) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	log := r.log.TraceFromContext(ctx).Function("Count")

	var total int64
	if err := tx.WithContext(ctx).Model(&Room{}).Count(&total).Error; err != nil {
		return 0, dbError(log, "failed to count rooms", err)
	}
	return total, nil
}
