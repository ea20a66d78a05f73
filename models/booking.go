package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking status values. Transitions are one-directional except for
// explicit cancel/fail, see CanTransitionBooking.
const (
	BookingStatusDraft          = "draft"
	BookingStatusPaymentPending = "payment_pending"
	BookingStatusConfirmed      = "confirmed"
	BookingStatusPaymentFailed  = "payment_failed"
	BookingStatusCancelled      = "cancelled"
	BookingStatusCompleted      = "completed"
)

// Booking model
type Booking struct {
	ID         primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	UserID     primitive.ObjectID  `json:"userId" bson:"userId"`
	PropertyID primitive.ObjectID  `json:"propertyId" bson:"propertyId"`
	RoomID     primitive.ObjectID  `json:"roomId" bson:"roomId"`
	Guests     int                 `json:"guests" bson:"guests"`
	CheckIn    time.Time           `json:"checkIn" bson:"checkIn"`
	CheckOut   time.Time           `json:"checkOut" bson:"checkOut"`
	Amount     float64             `json:"amount" bson:"amount"`
	Status     string              `json:"status" bson:"status"`
	PaymentID  *primitive.ObjectID `json:"paymentId,omitempty" bson:"paymentId,omitempty"`
	CreatedAt  time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// BookingRequest model
type BookingRequest struct {
	PropertyID string    `json:"propertyId" validate:"required"`
	RoomID     string    `json:"roomId" validate:"required"`
	Guests     int       `json:"guests" validate:"required,min=1"`
	CheckIn    time.Time `json:"checkIn" validate:"required"`
	CheckOut   time.Time `json:"checkOut" validate:"required"`
}

// BookingResponse model
type BookingResponse struct {
	Status  int      `json:"status"`
	Message string   `json:"message"`
	Data    *Booking `json:"data,omitempty"`
}

// BookingsResponse model for multiple bookings
type BookingsResponse struct {
	Status  int       `json:"status"`
	Message string    `json:"message"`
	Data    []Booking `json:"data,omitempty"`
}

var bookingTransitions = map[string][]string{
	BookingStatusDraft:          {BookingStatusPaymentPending, BookingStatusCancelled},
	BookingStatusPaymentPending: {BookingStatusConfirmed, BookingStatusPaymentFailed, BookingStatusCancelled},
	BookingStatusPaymentFailed:  {BookingStatusPaymentPending, BookingStatusCancelled},
	BookingStatusConfirmed:      {BookingStatusCompleted, BookingStatusCancelled},
}

// CanTransitionBooking reports whether a booking may move from one status
// to another. Cancelled and completed are terminal.
func CanTransitionBooking(from, to string) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminalBookingStatus reports whether no further transitions are allowed.
func IsTerminalBookingStatus(status string) bool {
	return len(bookingTransitions[status]) == 0
}
