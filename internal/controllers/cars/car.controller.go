package carController

import (
	"context"
	"encoding/json"
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
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CarRequest is shared by create and partial update. Nil fields are left unchanged.
type CarRequest struct {
	RoomID        *uuid.UUID       `json:"roomId"`
	Brand         *string          `json:"brand"`
	Model         *string          `json:"model"`
	Year          *int             `json:"year"`
	Price         *decimal.Decimal `json:"price"`
	Mileage       *int             `json:"mileage"`
	FuelType      *FuelType        `json:"fuelType"`
	Transmission  *Transmission    `json:"transmission"`
	Availability  *Availability    `json:"availability"`
	Color         *string          `json:"color"`
	Description   *string          `json:"description"`
	Images        *[]string        `json:"images"`
	Specification map[string]any   `json:"specification"`
}

type OwnerResolver interface {
	ResolveRoomOwner(ctx context.Context, roomID uuid.UUID) (uuid.UUID, error)
}

type CarControllerInterface interface {
	List(ctx context.Context, filter repositories.CarFilter, page repositories.Page) ([]*Car, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*Car, error)
	Create(ctx context.Context, actor *User, req CarRequest) (*Car, error)
	Update(ctx context.Context, actor *User, id uuid.UUID, req CarRequest) (*Car, error)
	Delete(ctx context.Context, actor *User, id uuid.UUID) error
}

type CarController struct {
	carRepo  repositories.CarRepository
	roomRepo repositories.RoomRepository
	owners   OwnerResolver
	db       *gorm.DB
	config   config.Config
	log      logger.Logger
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) CarControllerInterface {
	return &CarController{
		carRepo:  repos.Car,
		roomRepo: repos.Room,
		owners:   services.Ownership,
		db:       db.SQL,
		config:   config,
		log:      logger.New("carController"),
	}
}

func (cc *CarController) List(
	ctx context.Context,
	filter repositories.CarFilter,
	page repositories.Page,
) ([]*Car, int64, error) {
	return cc.carRepo.List(ctx, cc.db, filter, page)
}

func (cc *CarController) Get(ctx context.Context, id uuid.UUID) (*Car, error) {
	return cc.carRepo.GetByID(ctx, cc.db, id)
}

// Create places an admin's car in the admin's own room regardless of the requested room.
func (cc *CarController) Create(ctx context.Context, actor *User, req CarRequest) (*Car, error) {
	log := cc.log.TraceFromContext(ctx).Function("Create")

	if !policy.IsStaff(actor) {
		return nil, types.Forbidden("only admins can list cars")
	}

	room, err := cc.targetRoom(ctx, actor, req.RoomID)
	if err != nil {
		return nil, err
	}

	if req.Brand == nil || strings.TrimSpace(*req.Brand) == "" {
		return nil, types.Validation("brand is required")
	}
	if req.Model == nil || strings.TrimSpace(*req.Model) == "" {
		return nil, types.Validation("model is required")
	}
	if req.Price == nil {
		return nil, types.Validation("price is required")
	}

	car := &Car{
		RoomID:       room.ID,
		AdminID:      room.AdminID,
		Availability: AvailabilityAvailable,
	}
	if _, err := applyCarRequest(car, req); err != nil {
		return nil, err
	}

	if err := cc.carRepo.Create(ctx, cc.db, car); err != nil {
		return nil, err
	}

	log.Info("Car created", "carID", car.ID, "roomID", room.ID)
	return car, nil
}

func (cc *CarController) Update(
	ctx context.Context,
	actor *User,
	id uuid.UUID,
	req CarRequest,
) (*Car, error) {
	car, err := cc.managedCar(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	changes, err := applyCarRequest(car, req)
	if err != nil {
		return nil, err
	}

	if err := cc.carRepo.Update(ctx, cc.db, id, changes); err != nil {
		return nil, err
	}
	return cc.carRepo.GetByID(ctx, cc.db, id)
}

func (cc *CarController) Delete(ctx context.Context, actor *User, id uuid.UUID) error {
	log := cc.log.TraceFromContext(ctx).Function("Delete")

	if _, err := cc.managedCar(ctx, actor, id); err != nil {
		return err
	}
	if err := cc.carRepo.Delete(ctx, cc.db, id); err != nil {
		return err
	}

	log.Info("Car deleted", "carID", id, "by", actor.ID)
	return nil
}

func (cc *CarController) targetRoom(ctx context.Context, actor *User, roomID *uuid.UUID) (*Room, error) {
	if actor.Role == RoleAdmin {
		room, err := cc.roomRepo.GetByAdminID(ctx, cc.db, actor.ID)
		if errors.Is(err, types.ErrNotFound) {
			return nil, types.Validation("create a room before listing cars")
		}
		return room, err
	}

	if roomID == nil {
		return nil, types.Validation("roomId is required")
	}
	return cc.roomRepo.GetByID(ctx, cc.db, *roomID)
}

func (cc *CarController) managedCar(ctx context.Context, actor *User, id uuid.UUID) (*Car, error) {
	if !policy.IsStaff(actor) {
		return nil, types.Forbidden("only admins can manage cars")
	}

	car, err := cc.carRepo.GetByID(ctx, cc.db, id)
	if err != nil {
		return nil, err
	}

	ownerID, err := cc.owners.ResolveRoomOwner(ctx, car.RoomID)
	if err != nil {
		return nil, err
	}
	if !policy.CanManage(actor, ownerID) {
		return nil, types.Forbidden("car belongs to another room")
	}
	return car, nil
}

// applyCarRequest validates req onto car and returns the column changes it made.
func applyCarRequest(car *Car, req CarRequest) (map[string]any, error) {
	changes := map[string]any{}

	if req.Brand != nil {
		brand := strings.TrimSpace(*req.Brand)
		if brand == "" {
			return nil, types.Validation("brand cannot be empty")
		}
		car.Brand = brand
		changes["brand"] = brand
	}
	if req.Model != nil {
		model := strings.TrimSpace(*req.Model)
		if model == "" {
			return nil, types.Validation("model cannot be empty")
		}
		car.Model = model
		changes["model"] = model
	}
	if req.Year != nil {
		if *req.Year < 1886 || *req.Year > 2100 {
			return nil, types.Validation("year %d is out of range", *req.Year)
		}
		car.Year = *req.Year
		changes["year"] = *req.Year
	}
	if req.Price != nil {
		if !req.Price.IsPositive() {
			return nil, types.Validation("price must be positive")
		}
		car.Price = *req.Price
		changes["price"] = *req.Price
	}
	if req.Mileage != nil {
		if *req.Mileage < 0 {
			return nil, types.Validation("mileage cannot be negative")
		}
		car.Mileage = *req.Mileage
		changes["mileage"] = *req.Mileage
	}
	if req.FuelType != nil {
		if !req.FuelType.Valid() {
			return nil, types.Validation("unknown fuel type %q", *req.FuelType)
		}
		car.FuelType = *req.FuelType
		changes["fuel_type"] = *req.FuelType
	}
	if req.Transmission != nil {
		if !req.Transmission.Valid() {
			return nil, types.Validation("unknown transmission %q", *req.Transmission)
		}
		car.Transmission = *req.Transmission
		changes["transmission"] = *req.Transmission
	}
	if req.Availability != nil {
		if !req.Availability.Valid() {
			return nil, types.Validation("unknown availability %q", *req.Availability)
		}
		car.Availability = *req.Availability
		changes["availability"] = *req.Availability
	}
	if req.Color != nil {
		car.Color = *req.Color
		changes["color"] = *req.Color
	}
	if req.Description != nil {
		car.Description = *req.Description
		changes["description"] = *req.Description
	}
	if req.Images != nil {
		images, err := json.Marshal(*req.Images)
		if err != nil {
			return nil, types.Validation("images must be a list of urls")
		}
		car.Images = datatypes.JSON(images)
		changes["images"] = car.Images
	}
	if req.Specification != nil {
		specification, err := json.Marshal(req.Specification)
		if err != nil {
			return nil, types.Validation("specification must be a JSON object")
		}
		car.Specification = datatypes.JSON(specification)
		changes["specification"] = car.Specification
	}

	return changes, nil
}
