package models

import (
	"time"

	"github.com/google/uuid"
)

type PasswordResetToken struct {
	BaseUUIDModel
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index"        json:"userId"`
	TokenHash string     `gorm:"type:text;not null;uniqueIndex"  json:"-"`
	ExpiresAt time.Time  `gorm:"type:timestamp;not null;index"   json:"expiresAt"`
	UsedAt    *time.Time `gorm:"type:timestamp"                  json:"usedAt,omitempty"`
}

func (t *PasswordResetToken) Usable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
