package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     BookingStatus
		to       BookingStatus
		expected bool
	}{
		{BookingPending, BookingBooked, true},
		{BookingPending, BookingConfirmed, true},
		{BookingPending, BookingCancelled, true},
		{BookingPending, BookingCompleted, false},
		{BookingPending, BookingSold, false},
		{BookingBooked, BookingConfirmed, true},
		{BookingBooked, BookingCancelled, true},
		{BookingBooked, BookingPending, false},
		{BookingConfirmed, BookingCompleted, true},
		{BookingConfirmed, BookingSold, true},
		{BookingConfirmed, BookingCancelled, true},
		{BookingConfirmed, BookingBooked, false},
		{BookingCompleted, BookingPending, false},
		{BookingSold, BookingCancelled, false},
		{BookingCancelled, BookingPending, false},
		{BookingConfirmed, BookingConfirmed, true},
		{BookingCancelled, BookingCancelled, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestBookingStatus_IsTerminal(t *testing.T) {
	terminal := map[BookingStatus]bool{
		BookingPending:   false,
		BookingBooked:    false,
		BookingConfirmed: false,
		BookingCompleted: true,
		BookingSold:      true,
		BookingCancelled: true,
	}

	for status, expected := range terminal {
		assert.Equal(t, expected, status.IsTerminal(), status)
	}
}

func TestParseBookingStatus(t *testing.T) {
	status, ok := ParseBookingStatus("Confirmed")
	assert.True(t, ok)
	assert.Equal(t, BookingConfirmed, status)

	_, ok = ParseBookingStatus("confirmed")
	assert.False(t, ok)

	_, ok = ParseBookingStatus("Shipped")
	assert.False(t, ok)
}

func TestPaymentStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     PaymentStatus
		to       PaymentStatus
		expected bool
	}{
		{PaymentPending, PaymentApproved, true},
		{PaymentPending, PaymentCompleted, true},
		{PaymentPending, PaymentRejected, true},
		{PaymentApproved, PaymentCompleted, true},
		{PaymentApproved, PaymentRejected, false},
		{PaymentApproved, PaymentApproved, true},
		{PaymentRejected, PaymentApproved, false},
		{PaymentCompleted, PaymentRejected, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestPaymentStatus_CountsAsRevenue(t *testing.T) {
	assert.True(t, PaymentApproved.CountsAsRevenue())
	assert.True(t, PaymentCompleted.CountsAsRevenue())
	assert.False(t, PaymentPending.CountsAsRevenue())
	assert.False(t, PaymentRejected.CountsAsRevenue())
}

func TestCarEnums(t *testing.T) {
	assert.True(t, FuelCNG.Valid())
	assert.False(t, FuelType("Steam").Valid())
	assert.True(t, TransmissionAutomatic.Valid())
	assert.False(t, Transmission("CVT").Valid())
	assert.True(t, AvailabilityReserved.Valid())
	assert.False(t, Availability("Leased").Valid())
}
