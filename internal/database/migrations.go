package database

import (
	"showroom/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// Models lists every table owned by this service, in creation order.
func Models() []any {
	return []any{
		&models.User{},
		&models.Room{},
		&models.Car{},
		&models.Booking{},
		&models.Payment{},
		&models.Notification{},
		&models.Message{},
		&models.PasswordResetToken{},
	}
}

// MigrateModels runs GORM AutoMigrate for every model.
func MigrateModels(db *gorm.DB) error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	for _, model := range Models() {
		if err := db.AutoMigrate(model); err != nil {
			return log.Err("failed to migrate model", err, "model", model)
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}
