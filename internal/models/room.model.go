package models

import "github.com/google/uuid"

type Room struct {
	BaseUUIDModel
	AdminID          *uuid.UUID `gorm:"type:uuid;index"        json:"adminId,omitempty"`
	Name             string     `gorm:"type:text;not null"     json:"name"`
	Description      string     `gorm:"type:text"              json:"description"`
	Location         string     `gorm:"type:text"              json:"location"`
	IsActive         bool       `gorm:"type:bool;default:true" json:"isActive"`
	ScannerImageURL  *string    `gorm:"type:text"              json:"scannerImageUrl,omitempty"`
	YouTubeChannelID *string    `gorm:"column:youtube_channel_id;type:text" json:"youtubeChannelId,omitempty"`
}

// OwnerID returns the owning admin, or uuid.Nil for an unowned room.
func (r *Room) OwnerID() uuid.UUID {
	if r == nil || r.AdminID == nil {
		return uuid.Nil
	}
	return *r.AdminID
}
