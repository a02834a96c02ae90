package repositories

import (
	"errors"

	"showroom/internal/database"
	"showroom/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository struct {
	User          UserRepository
	Room          RoomRepository
	Car           CarRepository
	Booking       BookingRepository
	Payment       PaymentRepository
	Notification  NotificationRepository
	Message       MessageRepository
	PasswordReset PasswordResetRepository
}

func New(db database.DB) Repository {
	return Repository{
		User:          NewUserRepository(db.Cache.User),
		Room:          NewRoomRepository(),
		Car:           NewCarRepository(),
		Booking:       NewBookingRepository(),
		Payment:       NewPaymentRepository(),
		Notification:  NewNotificationRepository(),
		Message:       NewMessageRepository(),
		PasswordReset: NewPasswordResetRepository(),
	}
}

// Scope narrows list queries. A nil field means no restriction on that axis.
type Scope struct {
	// RoomAdminID restricts rows to rooms owned by this admin.
	RoomAdminID *uuid.UUID
	// UserID restricts rows to this user.
	UserID *uuid.UUID
}

// Page is an offset window. Limit <= 0 means unbounded.
type Page struct {
	Offset int
	Limit  int
}

func (p Page) apply(query *gorm.DB) *gorm.DB {
	if p.Limit > 0 {
		query = query.Limit(p.Limit)
	}
	if p.Offset > 0 {
		query = query.Offset(p.Offset)
	}
	return query
}

const (
	carsInAdminRooms     = "SELECT cars.id FROM cars JOIN rooms ON rooms.id = cars.room_id WHERE rooms.admin_id = ?"
	bookingsInAdminRooms = "SELECT bookings.id FROM bookings JOIN cars ON cars.id = bookings.car_id JOIN rooms ON rooms.id = cars.room_id WHERE rooms.admin_id = ?"
)

// dbError maps driver errors onto the service sentinels. Misses are not logged.
func dbError(log logger.Logger, msg string, err error, keysAndValues ...any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return types.Validation("record already exists")
	}
	return log.Err(msg, types.Backend(err), keysAndValues...)
}
