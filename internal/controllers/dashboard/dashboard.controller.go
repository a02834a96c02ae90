package dashboardController

import (
	"context"
	"time"

	"showroom/config"
	"showroom/internal/database"
	. "showroom/internal/models"
	"showroom/internal/policy"
	"showroom/internal/repositories"
	"showroom/internal/services"
	"showroom/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MonthlyBucket struct {
	Month    int             `json:"month"`
	Bookings int             `json:"bookings"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type CarStats struct {
	Total          int                  `json:"total"`
	ByAvailability map[Availability]int `json:"byAvailability"`
}

type BookingStats struct {
	Total    int                   `json:"total"`
	ByStatus map[BookingStatus]int `json:"byStatus"`
}

type Dashboard struct {
	Year     int             `json:"year"`
	Cars     CarStats        `json:"cars"`
	Bookings BookingStats    `json:"bookings"`
	Revenue  decimal.Decimal `json:"revenue"`
	Monthly  []MonthlyBucket `json:"monthly"`
	Users    map[Role]int64  `json:"users,omitempty"`
	Rooms    *int64          `json:"rooms,omitempty"`
}

type DashboardControllerInterface interface {
	Get(ctx context.Context, actor *User, year int) (*Dashboard, error)
}

type DashboardController struct {
	carRepo     repositories.CarRepository
	bookingRepo repositories.BookingRepository
	paymentRepo repositories.PaymentRepository
	userRepo    repositories.UserRepository
	roomRepo    repositories.RoomRepository
	db          *gorm.DB
	config      config.Config
	log         logger.Logger
	now         func() time.Time
	location    *time.Location
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) DashboardControllerInterface {
	return &DashboardController{
		carRepo:     repos.Car,
		bookingRepo: repos.Booking,
		paymentRepo: repos.Payment,
		userRepo:    repos.User,
		roomRepo:    repos.Room,
		db:          db.SQL,
		config:      config,
		log:         logger.New("dashboardController"),
		now:         time.Now,
		location:    time.Local,
	}
}

// Get is scoped to the admin's room; a superadmin sees the platform. year <= 0 means the current year.
func (dc *DashboardController) Get(ctx context.Context, actor *User, year int) (*Dashboard, error) {
	log := dc.log.TraceFromContext(ctx).Function("Get")

	if !policy.IsStaff(actor) {
		return nil, types.Forbidden("only admins can view the dashboard")
	}
	if year <= 0 {
		year = dc.now().In(dc.location).Year()
	}

	scope := repositories.Scope{}
	if actor.Role == RoleAdmin {
		scope.RoomAdminID = &actor.ID
	}

	cars, err := dc.carRepo.ListScoped(ctx, dc.db, scope)
	if err != nil {
		return nil, err
	}
	bookings, err := dc.bookingRepo.List(ctx, dc.db, scope)
	if err != nil {
		return nil, err
	}
	payments, err := dc.paymentRepo.List(ctx, dc.db, scope)
	if err != nil {
		return nil, err
	}

	dashboard := Summarize(cars, bookings, payments, year, dc.location)

	if actor.Role == RoleSuperadmin {
		users, err := dc.userRepo.CountByRole(ctx, dc.db)
		if err != nil {
			return nil, err
		}
		rooms, err := dc.roomRepo.Count(ctx, dc.db)
		if err != nil {
			return nil, err
		}
		dashboard.Users = users
		dashboard.Rooms = &rooms
	}

	log.Debug("Dashboard computed", "actorID", actor.ID, "year", year, "cars", len(cars), "bookings", len(bookings))
	return &dashboard, nil
}

// Summarize reduces the scoped rows into counts, revenue and calendar-month buckets in loc.
// Revenue counts approved and completed payments only.
func Summarize(
	cars []*Car,
	bookings []*Booking,
	payments []*Payment,
	year int,
	loc *time.Location,
) Dashboard {
	if loc == nil {
		loc = time.Local
	}

	dashboard := Dashboard{
		Year: year,
		Cars: CarStats{
			Total:          len(cars),
			ByAvailability: map[Availability]int{},
		},
		Bookings: BookingStats{
			Total:    len(bookings),
			ByStatus: map[BookingStatus]int{},
		},
		Revenue: decimal.Zero,
		Monthly: make([]MonthlyBucket, 12),
	}
	for i := range dashboard.Monthly {
		dashboard.Monthly[i] = MonthlyBucket{Month: i + 1, Revenue: decimal.Zero}
	}

	for _, availability := range []Availability{AvailabilityAvailable, AvailabilityReserved, AvailabilitySold} {
		dashboard.Cars.ByAvailability[availability] = 0
	}
	for _, car := range cars {
		dashboard.Cars.ByAvailability[car.Availability]++
	}

	for _, status := range BookingStatuses {
		dashboard.Bookings.ByStatus[status] = 0
	}
	for _, booking := range bookings {
		dashboard.Bookings.ByStatus[booking.Status]++

		created := booking.CreatedAt.In(loc)
		if created.Year() == year {
			dashboard.Monthly[created.Month()-1].Bookings++
		}
	}

	for _, payment := range payments {
		if !payment.Status.CountsAsRevenue() {
			continue
		}
		dashboard.Revenue = dashboard.Revenue.Add(payment.Amount)

		created := payment.CreatedAt.In(loc)
		if created.Year() == year {
			bucket := &dashboard.Monthly[created.Month()-1]
			bucket.Revenue = bucket.Revenue.Add(payment.Amount)
		}
	}

	return dashboard
}
