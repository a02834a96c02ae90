package repositories

import (
	"context"

	. "showroom/internal/models"
	"showroom/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, booking *Booking) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Booking, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status BookingStatus) error
	List(ctx context.Context, tx *gorm.DB, scope Scope) ([]*Booking, error)
}

type bookingRepository struct {
	log logger.Logger
}

func NewBookingRepository() BookingRepository {
	return &bookingRepository{log: logger.New("bookingRepository")}
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *Booking) error {
	log := r.log.TraceFromContext(ctx).Function("Create")

	if booking.Status == "" {
		booking.Status = BookingPending
	}
	if err := tx.WithContext(ctx).Create(booking).Error; err != nil {
		return dbError(log, "failed to create booking", err, "carID", booking.CarID)
	}
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Booking, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByID")

	booking, err := gorm.G[Booking](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		return nil, dbError(log, "failed to get booking", err, "bookingID", id)
	}
	return &booking, nil
}

func (r *bookingRepository) UpdateStatus(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	status BookingStatus,
) error {
	log := r.log.TraceFromContext(ctx).Function("UpdateStatus")

	result := tx.WithContext(ctx).Model(&Booking{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return dbError(log, "failed to update booking status", result.Error, "bookingID", id)
	}
	if result.RowsAffected == 0 {
		return types.ErrNotFound
	}
	return nil
}

// List returns bookings newest first. RoomAdminID joins through cars to the owning room.
func (r *bookingRepository) List(ctx context.Context, tx *gorm.DB, scope Scope) ([]*Booking, error) {
	log := r.log.TraceFromContext(ctx).Function("List")

	query := tx.WithContext(ctx).Model(&Booking{})
	if scope.RoomAdminID != nil {
		query = query.Where("bookings.car_id IN ("+carsInAdminRooms+")", *scope.RoomAdminID)
	}
	if scope.UserID != nil {
		query = query.Where("bookings.user_id = ?", *scope.UserID)
	}

	var bookings []*Booking
	if err := query.Order("bookings.created_at DESC").Find(&bookings).Error; err != nil {
		return nil, dbError(log, "failed to list bookings", err)
	}
	return bookings, nil
}
