package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "Pending"
	BookingBooked    BookingStatus = "Booked"
	BookingConfirmed BookingStatus = "Confirmed"
	BookingCompleted BookingStatus = "Completed"
	BookingSold      BookingStatus = "Sold"
	BookingCancelled BookingStatus = "Cancelled"
)

var BookingStatuses = []BookingStatus{
	BookingPending,
	BookingBooked,
	BookingConfirmed,
	BookingCompleted,
	BookingSold,
	BookingCancelled,
}

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingBooked, BookingConfirmed, BookingCancelled},
	BookingBooked:    {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingSold, BookingCancelled},
}

func ParseBookingStatus(value string) (BookingStatus, bool) {
	for _, status := range BookingStatuses {
		if string(status) == value {
			return status, true
		}
	}
	return "", false
}

func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

// CanTransitionTo treats a write of the current status as allowed.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Booking struct {
	BaseUUIDModel
	UserID     uuid.UUID       `gorm:"type:uuid;not null;index"          json:"userId"`
	CarID      uuid.UUID       `gorm:"type:uuid;not null;index"          json:"carId"`
	RoomID     *uuid.UUID      `gorm:"type:uuid;index"                   json:"roomId,omitempty"`
	StartDate  time.Time       `gorm:"type:timestamp;not null"           json:"startDate"`
	EndDate    time.Time       `gorm:"type:timestamp;not null"           json:"endDate"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(14,2);not null"       json:"totalPrice"`
	Status     BookingStatus   `gorm:"type:text;not null;default:Pending;index" json:"status"`
	Notes      string          `gorm:"type:text"                         json:"notes"`
}

type BookingSummary struct {
	ID         uuid.UUID       `json:"id"`
	CarID      uuid.UUID       `json:"carId"`
	StartDate  time.Time       `json:"startDate"`
	EndDate    time.Time       `json:"endDate"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Status     BookingStatus   `json:"status"`
}

func (b *Booking) ToSummary() BookingSummary {
	return BookingSummary{
		ID:         b.ID,
		CarID:      b.CarID,
		StartDate:  b.StartDate,
		EndDate:    b.EndDate,
		TotalPrice: b.TotalPrice,
		Status:     b.Status,
	}
}
