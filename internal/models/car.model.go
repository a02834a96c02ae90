package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type FuelType string

const (
	FuelPetrol   FuelType = "Petrol"
	FuelDiesel   FuelType = "Diesel"
	FuelElectric FuelType = "Electric"
	FuelHybrid   FuelType = "Hybrid"
	FuelCNG      FuelType = "CNG"
)

func (f FuelType) Valid() bool {
	switch f {
	case FuelPetrol, FuelDiesel, FuelElectric, FuelHybrid, FuelCNG:
		return true
	}
	return false
}

type Transmission string

const (
	TransmissionManual    Transmission = "Manual"
	TransmissionAutomatic Transmission = "Automatic"
)

func (t Transmission) Valid() bool {
	return t == TransmissionManual || t == TransmissionAutomatic
}

type Availability string

const (
	AvailabilityAvailable Availability = "Available"
	AvailabilityReserved  Availability = "Reserved"
	AvailabilitySold      Availability = "Sold"
)

func (a Availability) Valid() bool {
	switch a {
	case AvailabilityAvailable, AvailabilityReserved, AvailabilitySold:
		return true
	}
	return false
}

type Car struct {
	BaseUUIDModel
	RoomID uuid.UUID `gorm:"type:uuid;not null;index" json:"roomId"`
	// AdminID is copied from the room at creation and never re-validated.
	AdminID       *uuid.UUID      `gorm:"type:uuid;index"                              json:"adminId,omitempty"`
	Brand         string          `gorm:"type:text;not null;index"                     json:"brand"`
	Model         string          `gorm:"type:text;not null"                           json:"model"`
	Year          int             `gorm:"type:int"                                     json:"year"`
	Price         decimal.Decimal `gorm:"type:decimal(14,2);not null"                  json:"price"`
	Mileage       int             `gorm:"type:int;default:0"                           json:"mileage"`
	FuelType      FuelType        `gorm:"type:text"                                    json:"fuelType"`
	Transmission  Transmission    `gorm:"type:text"                                    json:"transmission"`
	Availability  Availability    `gorm:"type:text;not null;default:Available;index"   json:"availability"`
	Color         string          `gorm:"type:text"                                    json:"color"`
	Description   string          `gorm:"type:text"                                    json:"description"`
	Images        datatypes.JSON  `gorm:"type:jsonb"                                   json:"images"`
	Specification datatypes.JSON  `gorm:"type:jsonb"                                   json:"specification"`
}

// CarSummary is embedded in payment and booking views.
type CarSummary struct {
	ID     uuid.UUID       `json:"id"`
	RoomID uuid.UUID       `json:"roomId"`
	Brand  string          `json:"brand"`
	Model  string          `json:"model"`
	Year   int             `json:"year"`
	Price  decimal.Decimal `json:"price"`
}

func (c *Car) ToSummary() CarSummary {
	return CarSummary{
		ID:     c.ID,
		RoomID: c.RoomID,
		Brand:  c.Brand,
		Model:  c.Model,
		Year:   c.Year,
		Price:  c.Price,
	}
}
