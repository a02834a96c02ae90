package carController

import (
	"context"
	"testing"

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

type fixture struct {
	controller *CarController
	superadmin *User
	adminA     *User
	adminB     *User
	member     *User
	roomA      *Room
	roomB      *Room
}

func setup(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	db := dbtest.New(t)
	repos := repositories.New(db)

	f := fixture{
		superadmin: &User{Name: "Root", Email: "root@example.com", Role: RoleSuperadmin},
		adminA:     &User{Name: "A", Email: "a@example.com", Role: RoleAdmin},
		adminB:     &User{Name: "B", Email: "b@example.com", Role: RoleAdmin},
		member:     &User{Name: "U", Email: "u@example.com", Role: RoleUser},
	}
	for _, user := range []*User{f.superadmin, f.adminA, f.adminB, f.member} {
		require.NoError(t, repos.User.Create(ctx, db.SQL, user))
	}

	f.roomA = &Room{Name: "North", AdminID: &f.adminA.ID}
	f.roomB = &Room{Name: "South", AdminID: &f.adminB.ID}
	require.NoError(t, repos.Room.Create(ctx, db.SQL, f.roomA))
	require.NoError(t, repos.Room.Create(ctx, db.SQL, f.roomB))

	f.controller = &CarController{
		carRepo:  repos.Car,
		roomRepo: repos.Room,
		owners:   services.NewOwnershipService(db.SQL, repos.Room, repos.Car, repos.Booking, repos.Payment),
		db:       db.SQL,
		config:   config.Config{},
		log:      logger.New("carController"),
	}
	return f
}

func ptr[T any](v T) *T {
	return &v
}

func validRequest() CarRequest {
	return CarRequest{
		Brand:        ptr("Maruti"),
		Model:        ptr("Swift"),
		Year:         ptr(2022),
		Price:        ptr(decimal.NewFromInt(650000)),
		FuelType:     ptr(FuelPetrol),
		Transmission: ptr(TransmissionManual),
		Images:       &[]string{"https://cdn.test/a.jpg"},
		Specification: map[string]any{
			"seats": 5,
		},
	}
}

func TestCarController_CreateForcesAdminRoom(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	req := validRequest()
	req.RoomID = &f.roomB.ID

	car, err := f.controller.Create(ctx, f.adminA, req)
	require.NoError(t, err)
	assert.Equal(t, f.roomA.ID, car.RoomID)
	require.NotNil(t, car.AdminID)
	assert.Equal(t, f.adminA.ID, *car.AdminID)
	assert.Equal(t, AvailabilityAvailable, car.Availability)
	assert.JSONEq(t, `["https://cdn.test/a.jpg"]`, string(car.Images))

	_, err = f.controller.Create(ctx, f.member, req)
	assert.ErrorIs(t, err, types.ErrForbidden)

	req.RoomID = nil
	_, err = f.controller.Create(ctx, f.superadmin, req)
	assert.ErrorIs(t, err, types.ErrValidation)

	req.RoomID = &f.roomB.ID
	placed, err := f.controller.Create(ctx, f.superadmin, req)
	require.NoError(t, err)
	assert.Equal(t, f.roomB.ID, placed.RoomID)
	assert.Equal(t, f.adminB.ID, *placed.AdminID)

	req.RoomID = ptr(uuid.New())
	_, err = f.controller.Create(ctx, f.superadmin, req)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestCarController_CreateValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*CarRequest)
	}{
		{"missing brand", func(r *CarRequest) { r.Brand = nil }},
		{"blank model", func(r *CarRequest) { r.Model = ptr(" ") }},
		{"missing price", func(r *CarRequest) { r.Price = nil }},
		{"zero price", func(r *CarRequest) { r.Price = ptr(decimal.Zero) }},
		{"bad fuel", func(r *CarRequest) { r.FuelType = ptr(FuelType("Steam")) }},
		{"bad transmission", func(r *CarRequest) { r.Transmission = ptr(Transmission("CVT")) }},
		{"bad availability", func(r *CarRequest) { r.Availability = ptr(Availability("Leased")) }},
		{"negative mileage", func(r *CarRequest) { r.Mileage = ptr(-1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			_, err := f.controller.Create(ctx, f.adminA, req)
			assert.ErrorIs(t, err, types.ErrValidation)
		})
	}
}

func TestCarController_AdminWithoutRoom(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	loner := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}, Role: RoleAdmin}
	_, err := f.controller.Create(ctx, loner, validRequest())
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestCarController_UpdateAndDeleteAuthorization(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	car, err := f.controller.Create(ctx, f.adminA, validRequest())
	require.NoError(t, err)

	_, err = f.controller.Update(ctx, f.member, car.ID, CarRequest{Color: ptr("Red")})
	assert.ErrorIs(t, err, types.ErrForbidden)
	_, err = f.controller.Update(ctx, f.adminB, car.ID, CarRequest{Color: ptr("Red")})
	assert.ErrorIs(t, err, types.ErrForbidden)

	updated, err := f.controller.Update(ctx, f.adminA, car.ID, CarRequest{
		Price:        ptr(decimal.NewFromInt(600000)),
		Availability: ptr(AvailabilityReserved),
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(600000).Equal(updated.Price))
	assert.Equal(t, AvailabilityReserved, updated.Availability)
	assert.Equal(t, "Swift", updated.Model)

	_, err = f.controller.Update(ctx, f.adminA, car.ID, CarRequest{Price: ptr(decimal.NewFromInt(-5))})
	assert.ErrorIs(t, err, types.ErrValidation)

	assert.ErrorIs(t, f.controller.Delete(ctx, f.adminB, car.ID), types.ErrForbidden)
	assert.ErrorIs(t, f.controller.Delete(ctx, f.member, car.ID), types.ErrForbidden)
	require.NoError(t, f.controller.Delete(ctx, f.superadmin, car.ID))

	_, err = f.controller.Get(ctx, car.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestCarController_ListFilters(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.controller.Create(ctx, f.adminA, validRequest())
	require.NoError(t, err)

	electric := validRequest()
	electric.Brand = ptr("Tata")
	electric.Model = ptr("Nexon EV")
	electric.FuelType = ptr(FuelElectric)
	_, err = f.controller.Create(ctx, f.adminB, electric)
	require.NoError(t, err)

	cars, total, err := f.controller.List(ctx, repositories.CarFilter{FuelType: FuelElectric}, repositories.Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, cars, 1)
	assert.Equal(t, "Tata", cars[0].Brand)

	_, total, err = f.controller.List(ctx, repositories.CarFilter{RoomID: &f.roomA.ID}, repositories.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
