package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentApproved  PaymentStatus = "approved"
	PaymentRejected  PaymentStatus = "rejected"
	PaymentCompleted PaymentStatus = "completed"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:  {PaymentApproved, PaymentCompleted, PaymentRejected},
	PaymentApproved: {PaymentCompleted},
}

func ParsePaymentStatus(value string) (PaymentStatus, bool) {
	switch PaymentStatus(value) {
	case PaymentPending, PaymentApproved, PaymentRejected, PaymentCompleted:
		return PaymentStatus(value), true
	}
	return "", false
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CountsAsRevenue reports whether the payment contributes to dashboard revenue.
func (s PaymentStatus) CountsAsRevenue() bool {
	return s == PaymentApproved || s == PaymentCompleted
}

type Payment struct {
	BaseUUIDModel
	BookingID            uuid.UUID       `gorm:"type:uuid;not null;index"           json:"bookingId"`
	UserID               uuid.UUID       `gorm:"type:uuid;not null;index"           json:"userId"`
	Amount               decimal.Decimal `gorm:"type:decimal(14,2);not null"        json:"amount"`
	ReceiptImageURL      string          `gorm:"type:text"                          json:"receiptImageUrl"`
	Method               string          `gorm:"type:text"                          json:"method"`
	Status               PaymentStatus   `gorm:"type:text;not null;default:pending;index" json:"status"`
	AdminNotes           *string         `gorm:"type:text"                          json:"adminNotes,omitempty"`
	ScannerImageURL      *string         `gorm:"type:text"                          json:"scannerImageUrl,omitempty"`
	ApprovedBy           *uuid.UUID      `gorm:"type:uuid"                          json:"approvedBy,omitempty"`
	ApprovedAt           *time.Time      `gorm:"type:timestamp"                     json:"approvedAt,omitempty"`
	ExpectedDeliveryDate *time.Time      `gorm:"type:timestamp"                     json:"expectedDeliveryDate,omitempty"`
}

// PaymentDetail is a payment with the entities a reviewer needs.
type PaymentDetail struct {
	Payment
	Booking *BookingSummary `json:"booking,omitempty"`
	Car     *CarSummary     `json:"car,omitempty"`
	User    *UserProfile    `json:"user,omitempty"`
}
