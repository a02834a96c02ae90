package bookingController

import (
	"context"
	"errors"
	"fmt"
	"time"

	"showroom/config"
	"showroom/internal/database"
	. "showroom/internal/models"
	"showroom/internal/policy"
	"showroom/internal/repositories"
	"showroom/internal/services"
	"showroom/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateBookingRequest struct {
	CarID      uuid.UUID        `json:"carId"`
	StartDate  time.Time        `json:"startDate"`
	EndDate    time.Time        `json:"endDate"`
	TotalPrice *decimal.Decimal `json:"totalPrice"`
	Notes      string           `json:"notes"`
}

type SetStatusRequest struct {
	BookingID uuid.UUID `json:"bookingId"`
	Status    string    `json:"status"`
}

// BookingView is a booking with a summary of its car. Car is nil when the car was deleted.
type BookingView struct {
	*Booking
	Car *CarSummary `json:"car,omitempty"`
}

type OwnerResolver interface {
	ResolveCarOwner(ctx context.Context, carID uuid.UUID) (uuid.UUID, error)
}

type BookingControllerInterface interface {
	Create(ctx context.Context, actor *User, req CreateBookingRequest) (*Booking, error)
	SetStatus(ctx context.Context, actor *User, req SetStatusRequest) (*Booking, error)
	ListForAdmin(ctx context.Context, actor *User) ([]BookingView, error)
	ListMine(ctx context.Context, actor *User) ([]BookingView, error)
}

type BookingController struct {
	bookingRepo repositories.BookingRepository
	carRepo     repositories.CarRepository
	roomRepo    repositories.RoomRepository
	owners      OwnerResolver
	notifier    services.Notifier
	db          *gorm.DB
	config      config.Config
	log         logger.Logger
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) BookingControllerInterface {
	return &BookingController{
		bookingRepo: repos.Booking,
		carRepo:     repos.Car,
		roomRepo:    repos.Room,
		owners:      services.Ownership,
		notifier:    services.Notification,
		db:          db.SQL,
		config:      config,
		log:         logger.New("bookingController"),
	}
}

func (bc *BookingController) Create(
	ctx context.Context,
	actor *User,
	req CreateBookingRequest,
) (*Booking, error) {
	log := bc.log.TraceFromContext(ctx).Function("Create")

	if actor == nil {
		return nil, fmt.Errorf("%w: login required", types.ErrUnauthorized)
	}
	if req.CarID == uuid.Nil {
		return nil, types.Validation("carId is required")
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return nil, types.Validation("startDate and endDate are required")
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, types.Validation("endDate must not be before startDate")
	}

	car, err := bc.carRepo.GetByID(ctx, bc.db, req.CarID)
	if err != nil {
		return nil, err
	}
	if car.Availability != AvailabilityAvailable {
		return nil, types.Validation("car is %s", car.Availability)
	}

	total := car.Price
	if req.TotalPrice != nil {
		if req.TotalPrice.IsNegative() {
			return nil, types.Validation("totalPrice cannot be negative")
		}
		total = *req.TotalPrice
	}

	roomID := car.RoomID
	booking := &Booking{
		UserID:     actor.ID,
		CarID:      car.ID,
		RoomID:     &roomID,
		StartDate:  req.StartDate.UTC(),
		EndDate:    req.EndDate.UTC(),
		TotalPrice: total,
		Status:     BookingPending,
		Notes:      req.Notes,
	}
	if err := bc.bookingRepo.Create(ctx, bc.db, booking); err != nil {
		return nil, err
	}

	log.Info("Booking created", "bookingID", booking.ID, "carID", car.ID, "userID", actor.ID)

	carName := car.Brand + " " + car.Model
	if room, err := bc.roomRepo.GetByID(ctx, bc.db, car.RoomID); err != nil {
		log.Warn("failed to load room for booking notification", "roomID", car.RoomID, "error", err)
	} else {
		services.NotifyQuietly(ctx, bc.notifier, log, room.OwnerID(),
			NotificationNewBooking,
			"New booking",
			fmt.Sprintf("%s booked %s", actor.Name, carName),
			&booking.ID,
		)
	}
	services.NotifyQuietly(ctx, bc.notifier, log, actor.ID,
		NotificationBookingSubmitted,
		"Booking submitted",
		fmt.Sprintf("Your booking for %s is pending review", carName),
		&booking.ID,
	)

	return booking, nil
}

// SetStatus writing the current status returns the booking unchanged.
func (bc *BookingController) SetStatus(
	ctx context.Context,
	actor *User,
	req SetStatusRequest,
) (*Booking, error) {
	log := bc.log.TraceFromContext(ctx).Function("SetStatus")

	if !policy.IsStaff(actor) {
		return nil, types.Forbidden("only admins can change booking status")
	}

	next, ok := ParseBookingStatus(req.Status)
	if !ok {
		return nil, types.Validation("unknown booking status %q", req.Status)
	}

	booking, err := bc.bookingRepo.GetByID(ctx, bc.db, req.BookingID)
	if err != nil {
		return nil, err
	}

	ownerID, err := bc.owners.ResolveCarOwner(ctx, booking.CarID)
	if err != nil {
		return nil, err
	}
	if !policy.CanManage(actor, ownerID) {
		return nil, types.Forbidden("booking belongs to another room")
	}

	if booking.Status == next {
		return booking, nil
	}
	if bc.config.EnforceStatusTransitions && !booking.Status.CanTransitionTo(next) {
		return nil, types.InvalidTransition(string(booking.Status), string(next))
	}

	if err := bc.bookingRepo.UpdateStatus(ctx, bc.db, booking.ID, next); err != nil {
		return nil, err
	}

	previous := booking.Status
	booking.Status = next
	log.Info("Booking status changed", "bookingID", booking.ID, "from", previous, "to", next, "by", actor.ID)

	services.NotifyQuietly(ctx, bc.notifier, log, booking.UserID,
		NotificationBookingStatus,
		"Booking updated",
		fmt.Sprintf("Your booking is now %s", next),
		&booking.ID,
	)

	return booking, nil
}

func (bc *BookingController) ListForAdmin(ctx context.Context, actor *User) ([]BookingView, error) {
	if !policy.IsStaff(actor) {
		return nil, types.Forbidden("only admins can list room bookings")
	}

	scope := repositories.Scope{}
	if actor.Role == RoleAdmin {
		scope.RoomAdminID = &actor.ID
	}
	return bc.list(ctx, scope)
}

func (bc *BookingController) ListMine(ctx context.Context, actor *User) ([]BookingView, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: login required", types.ErrUnauthorized)
	}
	return bc.list(ctx, repositories.Scope{UserID: &actor.ID})
}

func (bc *BookingController) list(ctx context.Context, scope repositories.Scope) ([]BookingView, error) {
	log := bc.log.TraceFromContext(ctx).Function("list")

	bookings, err := bc.bookingRepo.List(ctx, bc.db, scope)
	if err != nil {
		return nil, err
	}

	cars := make(map[uuid.UUID]*CarSummary)
	views := make([]BookingView, 0, len(bookings))
	for _, booking := range bookings {
		summary, seen := cars[booking.CarID]
		if !seen {
			car, err := bc.carRepo.GetByID(ctx, bc.db, booking.CarID)
			switch {
			case err == nil:
				s := car.ToSummary()
				summary = &s
			case !errors.Is(err, types.ErrNotFound):
				return nil, err
			default:
				log.Debug("booking car no longer exists", "bookingID", booking.ID, "carID", booking.CarID)
			}
			cars[booking.CarID] = summary
		}
		views = append(views, BookingView{Booking: booking, Car: summary})
	}
	return views, nil
}
