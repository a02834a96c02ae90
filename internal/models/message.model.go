package models

import "github.com/google/uuid"

type Message struct {
	BaseUUIDModel
	SenderID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"senderId"`
	ReceiverID uuid.UUID  `gorm:"type:uuid;not null;index" json:"receiverId"`
	CarID      *uuid.UUID `gorm:"type:uuid"                json:"carId,omitempty"`
	Content    string     `gorm:"type:text;not null"       json:"content"`
	IsRead     bool       `gorm:"type:bool;default:false"  json:"isRead"`
}
