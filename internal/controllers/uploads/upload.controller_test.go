package uploadController

import (
	"context"
	"mime/multipart"
	"testing"
	"time"

	"showroom/config"
	"showroom/internal/database/dbtest"
	. "showroom/internal/models"
	"showroom/internal/repositories"
	"showroom/internal/services"
	"showroom/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	folders []string
}

func (s *memoryStore) SaveImage(ctx context.Context, folder string, file *multipart.FileHeader) (string, error) {
	s.folders = append(s.folders, folder)
	return "https://cdn.test/uploads/" + folder + "/" + file.Filename, nil
}

type fixture struct {
	controller *UploadController
	repos      repositories.Repository
	store      *memoryStore
	superadmin *User
	adminA     *User
	adminB     *User
	member     *User
	room       *Room
	payment    *Payment
}

func setup(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	db := dbtest.New(t)
	repos := repositories.New(db)

	f := fixture{
		repos:      repos,
		store:      &memoryStore{},
		superadmin: &User{Name: "Root", Email: "root@example.com", Role: RoleSuperadmin},
		adminA:     &User{Name: "A", Email: "a@example.com", Role: RoleAdmin},
		adminB:     &User{Name: "B", Email: "b@example.com", Role: RoleAdmin},
		member:     &User{Name: "U", Email: "u@example.com", Role: RoleUser},
	}
	for _, user := range []*User{f.superadmin, f.adminA, f.adminB, f.member} {
		require.NoError(t, repos.User.Create(ctx, db.SQL, user))
	}

	f.room = &Room{Name: "North", AdminID: &f.adminA.ID}
	require.NoError(t, repos.Room.Create(ctx, db.SQL, f.room))
	car := &Car{RoomID: f.room.ID, AdminID: f.room.AdminID, Brand: "Tata", Model: "Punch", Price: decimal.NewFromInt(700000)}
	require.NoError(t, repos.Car.Create(ctx, db.SQL, car))
	booking := &Booking{
		UserID:     f.member.ID,
		CarID:      car.ID,
		StartDate:  time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		TotalPrice: car.Price,
	}
	require.NoError(t, repos.Booking.Create(ctx, db.SQL, booking))
	f.payment = &Payment{BookingID: booking.ID, UserID: f.member.ID, Amount: decimal.NewFromInt(1000)}
	require.NoError(t, repos.Payment.Create(ctx, db.SQL, f.payment))

	f.controller = &UploadController{
		roomRepo: repos.Room,
		owners:   services.NewOwnershipService(db.SQL, repos.Room, repos.Car, repos.Booking, repos.Payment),
		store:    f.store,
		db:       db.SQL,
		config:   config.Config{},
		log:      logger.New("uploadController"),
	}
	return f
}

func image(name string) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name}
}

func TestUploadController_ScannerGeneralRecordsRoomImage(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	result, err := f.controller.Scanner(ctx, f.adminA, "", image("qr.png"))
	require.NoError(t, err)
	assert.Equal(t, SCANNER_TARGET_GENERAL, result.Target)
	require.NotNil(t, result.RoomID)
	assert.Equal(t, f.room.ID, *result.RoomID)

	room, err := f.repos.Room.GetByID(ctx, f.controller.db, f.room.ID)
	require.NoError(t, err)
	require.NotNil(t, room.ScannerImageURL)
	assert.Equal(t, result.URL, *room.ScannerImageURL)

	result, err = f.controller.Scanner(ctx, f.adminB, "general", image("qr.png"))
	require.NoError(t, err)
	assert.Nil(t, result.RoomID)
}

func TestUploadController_ScannerPaymentTarget(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.controller.Scanner(ctx, f.adminB, f.payment.ID.String(), image("qr.png"))
	assert.ErrorIs(t, err, types.ErrForbidden)
	assert.Empty(t, f.store.folders, "nothing stored before authorization")

	_, err = f.controller.Scanner(ctx, f.member, f.payment.ID.String(), image("qr.png"))
	assert.ErrorIs(t, err, types.ErrForbidden)

	_, err = f.controller.Scanner(ctx, f.adminA, "not-a-uuid", image("qr.png"))
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = f.controller.Scanner(ctx, f.adminA, uuid.NewString(), image("qr.png"))
	assert.ErrorIs(t, err, types.ErrNotFound)

	for _, actor := range []*User{f.adminA, f.superadmin} {
		result, err := f.controller.Scanner(ctx, actor, f.payment.ID.String(), image("qr.png"))
		require.NoError(t, err)
		require.NotNil(t, result.PaymentID)
		assert.Equal(t, f.payment.ID, *result.PaymentID)
	}

	stored, err := f.repos.Payment.GetByID(ctx, f.controller.db, f.payment.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ScannerImageURL)
}

func TestUploadController_UploadAndCarImages(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	url, err := f.controller.Upload(ctx, f.member, image("receipt.jpg"))
	require.NoError(t, err)
	assert.Contains(t, url, "/receipts/receipt.jpg")

	_, err = f.controller.Upload(ctx, nil, image("receipt.jpg"))
	assert.ErrorIs(t, err, types.ErrUnauthorized)

	_, err = f.controller.UploadCarImages(ctx, f.member, []*multipart.FileHeader{image("a.jpg")})
	assert.ErrorIs(t, err, types.ErrForbidden)

	_, err = f.controller.UploadCarImages(ctx, f.adminA, nil)
	assert.ErrorIs(t, err, types.ErrValidation)

	urls, err := f.controller.UploadCarImages(ctx, f.adminA, []*multipart.FileHeader{image("a.jpg"), image("b.jpg")})
	require.NoError(t, err)
	assert.Len(t, urls, 2)
}
