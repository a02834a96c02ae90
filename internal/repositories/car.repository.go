package repositories

import (
	"context"
	"strings"

	. "showroom/internal/models"
	"showroom/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CarFilter holds the public catalog filters. Zero values are ignored.
type CarFilter struct {
	RoomID       *uuid.UUID
	Brand        string
	FuelType     FuelType
	Transmission Transmission
	Availability Availability
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	MinYear      int
	MaxYear      int
	Search       string
}

type CarRepository interface {
	Create(ctx context.Context, tx *gorm.DB, car *Car) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Car, error)
	List(ctx context.Context, tx *gorm.DB, filter CarFilter, page Page) ([]*Car, int64, error)
	ListScoped(ctx context.Context, tx *gorm.DB, scope Scope) ([]*Car, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, changes map[string]any) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	DeleteByRoom(ctx context.Context, tx *gorm.DB, roomID uuid.UUID) (int64, error)
}

type carRepository struct {
	log logger.Logger
}

func NewCarRepository() CarRepository {
	return &carRepository{log: logger.New("carRepository")}
}

func (r *carRepository) Create(ctx context.Context, tx *gorm.DB, car *Car) error {
	log := r.log.TraceFromContext(ctx).Function("Create")

	if car.Availability == "" {
		car.Availability = AvailabilityAvailable
	}
	if err := tx.WithContext(ctx).Create(car).Error; err != nil {
		return dbError(log, "failed to create car", err, "roomID", car.RoomID)
	}
	return nil
}

func (r *carRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Car, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByID")

	car, err := gorm.G[Car](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		return nil, dbError(log, "failed to get car", err, "carID", id)
	}
	return &car, nil
}

func (r *carRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	filter CarFilter,
	page Page,
) ([]*Car, int64, error) {
	log := r.log.TraceFromContext(ctx).Function("List")

	query := applyCarFilter(tx.WithContext(ctx).Model(&Car{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, dbError(log, "failed to count cars", err)
	}

	var cars []*Car
	if err := page.apply(query.Order("created_at DESC")).Find(&cars).Error; err != nil {
		return nil, 0, dbError(log, "failed to list cars", err)
	}
	return cars, total, nil
}

func applyCarFilter(query *gorm.DB, filter CarFilter) *gorm.DB {
	if filter.RoomID != nil {
		query = query.Where("room_id = ?", *filter.RoomID)
	}
	if filter.Brand != "" {
		query = query.Where("LOWER(brand) = ?", strings.ToLower(filter.Brand))
	}
	if filter.FuelType != "" {
		query = query.Where("fuel_type = ?", filter.FuelType)
	}
	if filter.Transmission != "" {
		query = query.Where("transmission = ?", filter.Transmission)
	}
	if filter.Availability != "" {
		query = query.Where("availability = ?", filter.Availability)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.MinYear > 0 {
		query = query.Where("year >= ?", filter.MinYear)
	}
	if filter.MaxYear > 0 {
		query = query.Where("year <= ?", filter.MaxYear)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(brand) LIKE ? OR LOWER(model) LIKE ?", pattern, pattern)
	}
	return query
}

// ListScoped returns every car in scope. RoomAdminID follows the room's owner, not car.admin_id.
func (r *carRepository) ListScoped(ctx context.Context, tx *gorm.DB, scope Scope) ([]*Car, error) {
	log := r.log.TraceFromContext(ctx).Function("ListScoped")

	query := tx.WithContext(ctx).Model(&Car{})
	if scope.RoomAdminID != nil {
		query = query.Where("id IN ("+carsInAdminRooms+")", *scope.RoomAdminID)
	}

	var cars []*Car
	if err := query.Find(&cars).Error; err != nil {
		return nil, dbError(log, "failed to list scoped cars", err)
	}
	return cars, nil
}

func (r *carRepository) Update(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	changes map[string]any,
) error {
	log := r.log.TraceFromContext(ctx).Function("Update")

	if len(changes) == 0 {
		return nil
	}

	result := tx.WithContext(ctx).Model(&Car{}).Where("id = ?", id).Updates(changes)
	if result.Error != nil {
		return dbError(log, "failed to update car", result.Error, "carID", id)
	}
	if result.RowsAffected == 0 {
		return types.ErrNotFound
	}
	return nil
}

func (r *carRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := r.log.TraceFromContext(ctx).Function("Delete")

	result := tx.WithContext(ctx).Where("id = ?", id).Delete(&Car{})
	if result.Error != nil {
		return dbError(log, "failed to delete car", result.Error, "carID", id)
	}
	if result.RowsAffected == 0 {
		return types.ErrNotFound
	}
	return nil
}

func (r *carRepository) DeleteByRoom(ctx context.Context, tx *gorm.DB, roomID uuid.UUID) (int64, error) {
	log := r.log.TraceFromContext(ctx).Function("DeleteByRoom")

	result := tx.WithContext(ctx).Where("room_id = ?", roomID).Delete(&Car{})
	if result.Error != nil {
		return 0, dbError(log, "failed to delete room cars", result.Error, "roomID", roomID)
	}
	return result.RowsAffected, nil
}
