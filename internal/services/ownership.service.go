package services

import (
	"context"

	"showroom/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoomReader interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Room, error)
}

type CarReader interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Car, error)
}

type BookingReader interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Booking, error)
}

type PaymentReader interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Payment, error)
}

// OwnershipService walks payment -> booking -> car -> room to find the admin that owns a row.
// Every resolver returns uuid.Nil for an unowned room and ErrNotFound when a hop is missing.
type OwnershipService struct {
	db       *gorm.DB
	rooms    RoomReader
	cars     CarReader
	bookings BookingReader
	payments PaymentReader
}

func NewOwnershipService(
	db *gorm.DB,
	rooms RoomReader,
	cars CarReader,
	bookings BookingReader,
	payments PaymentReader,
) *OwnershipService {
	return &OwnershipService{
		db:       db,
		rooms:    rooms,
		cars:     cars,
		bookings: bookings,
		payments: payments,
	}
}

func (s *OwnershipService) ResolveRoomOwner(ctx context.Context, roomID uuid.UUID) (uuid.UUID, error) {
	room, err := s.rooms.GetByID(ctx, s.db, roomID)
	if err != nil {
		return uuid.Nil, err
	}
	return room.OwnerID(), nil
}

func (s *OwnershipService) ResolveCarOwner(ctx context.Context, carID uuid.UUID) (uuid.UUID, error) {
	car, err := s.cars.GetByID(ctx, s.db, carID)
	if err != nil {
		return uuid.Nil, err
	}
	return s.ResolveRoomOwner(ctx, car.RoomID)
}

func (s *OwnershipService) ResolveBookingOwner(ctx context.Context, bookingID uuid.UUID) (uuid.UUID, error) {
	booking, err := s.bookings.GetByID(ctx, s.db, bookingID)
	if err != nil {
		return uuid.Nil, err
	}
	return s.ResolveCarOwner(ctx, booking.CarID)
}

func (s *OwnershipService) ResolvePaymentOwner(ctx context.Context, paymentID uuid.UUID) (uuid.UUID, error) {
	payment, err := s.payments.GetByID(ctx, s.db, paymentID)
	if err != nil {
		return uuid.Nil, err
	}
	return s.ResolveBookingOwner(ctx, payment.BookingID)
}
