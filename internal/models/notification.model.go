package models

import "github.com/google/uuid"

type NotificationType string

const (
	NotificationNewBooking       NotificationType = "new_booking"
	NotificationBookingSubmitted NotificationType = "booking_submitted"
	NotificationBookingStatus    NotificationType = "booking_status"
	NotificationNewPayment       NotificationType = "new_payment"
	NotificationPaymentApproved  NotificationType = "payment_approved"
	NotificationPaymentRejected  NotificationType = "payment_rejected"
	NotificationNewMessage       NotificationType = "new_message"
)

type Notification struct {
	BaseUUIDModel
	UserID    uuid.UUID        `gorm:"type:uuid;not null;index:idx_notifications_user_read" json:"userId"`
	Title     string           `gorm:"type:text;not null"                                    json:"title"`
	Message   string           `gorm:"type:text"                                             json:"message"`
	Type      NotificationType `gorm:"type:text;not null"                                    json:"type"`
	RelatedID *uuid.UUID       `gorm:"type:uuid"                                             json:"relatedId,omitempty"`
	IsRead    bool             `gorm:"type:bool;default:false;index:idx_notifications_user_read" json:"isRead"`
}
