package models

import "testing"

func TestCanTransitionBooking(t *testing.T) {
	allowed := []struct{ from, to string }{
		{BookingStatusDraft, BookingStatusPaymentPending},
		{BookingStatusDraft, BookingStatusCancelled},
		{BookingStatusPaymentPending, BookingStatusConfirmed},
		{BookingStatusPaymentPending, BookingStatusPaymentFailed},
		{BookingStatusPaymentPending, BookingStatusCancelled},
		{BookingStatusPaymentFailed, BookingStatusPaymentPending},
		{BookingStatusPaymentFailed, BookingStatusCancelled},
		{BookingStatusConfirmed, BookingStatusCompleted},
		{BookingStatusConfirmed, BookingStatusCancelled},
	}
	for _, tt := range allowed {
		if !CanTransitionBooking(tt.from, tt.to) {
			t.Errorf("expected %s -> %s to be allowed", tt.from, tt.to)
		}
	}

	denied := []struct{ from, to string }{
		{BookingStatusDraft, BookingStatusConfirmed},
		{BookingStatusDraft, BookingStatusCompleted},
		{BookingStatusConfirmed, BookingStatusDraft},
		{BookingStatusConfirmed, BookingStatusPaymentPending},
		{BookingStatusCancelled, BookingStatusDraft},
		{BookingStatusCancelled, BookingStatusPaymentPending},
		{BookingStatusCompleted, BookingStatusCancelled},
		{BookingStatusPaymentFailed, BookingStatusConfirmed},
		{"unknown", BookingStatusConfirmed},
	}
	for _, tt := range denied {
		if CanTransitionBooking(tt.from, tt.to) {
			t.Errorf("expected %s -> %s to be denied", tt.from, tt.to)
		}
	}
}

func TestIsTerminalBookingStatus(t *testing.T) {
	if !IsTerminalBookingStatus(BookingStatusCancelled) {
		t.Error("cancelled should be terminal")
	}
	if !IsTerminalBookingStatus(BookingStatusCompleted) {
		t.Error("completed should be terminal")
	}
	for _, status := range []string{BookingStatusDraft, BookingStatusPaymentPending, BookingStatusConfirmed, BookingStatusPaymentFailed} {
		if IsTerminalBookingStatus(status) {
			t.Errorf("%s should not be terminal", status)
		}
	}
}
