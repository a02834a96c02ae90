package initialize

import (
	"errors"

	"showroom/config"
	. "showroom/internal/models"
	"showroom/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if err := initializeSuperadmin(db, config, log); err != nil {
		return log.Err("failed to initialize superadmin", err)
	}

	log.Info("Table initialization complete")
	return nil
}

// initializeSuperadmin provisions the platform owner from config. Superadmin cannot be granted over the API.
func initializeSuperadmin(db *gorm.DB, config config.Config, log logger.Logger) error {
	email := NormalizeEmail(config.SuperadminEmail)
	if email == "" {
		log.Warn("SUPERADMIN_EMAIL is not set, skipping superadmin bootstrap")
		return nil
	}

	var existing User
	err := db.First(&existing, "email = ?", email).Error
	switch {
	case err == nil:
		if existing.Role == RoleSuperadmin {
			log.Debug("Superadmin already exists", "email", email)
			return nil
		}
		log.Info("Promoting existing account to superadmin", "email", email)
		return db.Model(&existing).Update("role", RoleSuperadmin).Error
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return log.Err("failed to look up superadmin", err, "email", email)
	}

	if !utils.ValidPassword(config.SuperadminPassword) {
		return log.Error("SUPERADMIN_PASSWORD is missing or too short", "minLength", utils.MinPasswordLength)
	}

	hash, err := utils.HashPassword(config.SuperadminPassword)
	if err != nil {
		return log.Err("failed to hash superadmin password", err)
	}

	superadmin := User{
		Name:         "Superadmin",
		Email:        email,
		PasswordHash: hash,
		Role:         RoleSuperadmin,
		IsActive:     true,
	}
	if err := db.Create(&superadmin).Error; err != nil {
		return log.Err("failed to create superadmin", err, "email", email)
	}

	log.Info("Superadmin created", "email", email, "userID", superadmin.ID)
	return nil
}
