package seed

import (
	"encoding/json"

	"showroom/config"
	. "showroom/internal/models"
	"showroom/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const seedPassword = "password123"

type seedCar struct {
	Brand        string
	Model        string
	Year         int
	Price        string
	Mileage      int
	FuelType     FuelType
	Transmission Transmission
	Color        string
}

var seedCars = []seedCar{
	{"Maruti Suzuki", "Swift", 2021, "585000", 32000, FuelPetrol, TransmissionManual, "Red"},
	{"Hyundai", "Creta", 2022, "1425000", 18500, FuelDiesel, TransmissionAutomatic, "White"},
	{"Tata", "Nexon EV", 2023, "1650000", 9000, FuelElectric, TransmissionAutomatic, "Blue"},
	{"Toyota", "Innova Hycross", 2024, "2550000", 4000, FuelHybrid, TransmissionAutomatic, "Silver"},
}

// Seed loads development accounts and a demo showroom. Every account uses seedPassword.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	hash, err := utils.HashPassword(seedPassword)
	if err != nil {
		return log.Err("failed to hash seed password", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		admin := User{Name: "Demo Dealer", Email: "dealer@example.com", PasswordHash: hash, Role: RoleAdmin, IsActive: true}
		buyer := User{Name: "Demo Buyer", Email: "buyer@example.com", PasswordHash: hash, Role: RoleUser, IsActive: true}
		for _, user := range []*User{&admin, &buyer} {
			if err := tx.Create(user).Error; err != nil {
				return log.Err("failed to create user", err, "email", user.Email)
			}
			log.Info("Seeded user", "email", user.Email, "role", user.Role)
		}

		room := Room{
			Name:        "Demo Motors",
			Description: "Pre-owned and new cars",
			Location:    "Pune",
			AdminID:     &admin.ID,
			IsActive:    true,
		}
		if err := tx.Create(&room).Error; err != nil {
			return log.Err("failed to create room", err)
		}

		images, err := json.Marshal([]string{})
		if err != nil {
			return log.Err("failed to encode images", err)
		}

		for _, seeded := range seedCars {
			car := Car{
				RoomID:       room.ID,
				AdminID:      &admin.ID,
				Brand:        seeded.Brand,
				Model:        seeded.Model,
				Year:         seeded.Year,
				Price:        decimal.RequireFromString(seeded.Price),
				Mileage:      seeded.Mileage,
				FuelType:     seeded.FuelType,
				Transmission: seeded.Transmission,
				Availability: AvailabilityAvailable,
				Color:        seeded.Color,
				Images:       datatypes.JSON(images),
			}
			if err := tx.Create(&car).Error; err != nil {
				return log.Err("failed to create car", err, "brand", car.Brand, "model", car.Model)
			}
		}

		log.Info("Seeded demo room", "roomID", room.ID, "cars", len(seedCars))
		return nil
	})
}
