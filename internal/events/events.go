// Package events defines the event contracts this service publishes and
// consumes, and the consumers that react to them.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics.
const (
	TopicBookingEvents  = "booking.events"
	TopicDeliveryEvents = "delivery.events"
	TopicPaymentEvents  = "payment.events"
)

// Event type identifiers.
const (
	BookingRequested = "booking.requested"
	BookingConfirmed = "booking.confirmed"
	BookingCancelled = "booking.cancelled"
	BookingCompleted = "booking.completed"

	DeliveryRequested     = "delivery.requested"
	DeliveryAccepted      = "delivery.accepted"
	DeliveryStatusChanged = "delivery.status_changed"

	PaymentApproved = "payment.approved"
)

// BookingRequestedEvent is published when a customer creates a booking.
type BookingRequestedEvent struct {
	BookingID       uuid.UUID `json:"booking_id"`
	CustomerID      uuid.UUID `json:"customer_id"`
	PropertyID      uuid.UUID `json:"property_id"`
	HostID          uuid.UUID `json:"host_id"`
	CheckInDate     time.Time `json:"check_in_date"`
	CheckOutDate    time.Time `json:"check_out_date"`
	TotalPriceCents int64     `json:"total_price_cents"`
	Currency        string    `json:"currency"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// BookingConfirmedEvent is published when payment approval confirms a booking.
type BookingConfirmedEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	HostID     uuid.UUID `json:"host_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingCancelledEvent is published when a booking is cancelled.
type BookingCancelledEvent struct {
	BookingID   uuid.UUID `json:"booking_id"`
	CancelledBy uuid.UUID `json:"cancelled_by"`
	Reason      string    `json:"reason"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// BookingCompletedEvent is published when a stay is completed.
type BookingCompletedEvent struct {
	BookingID       uuid.UUID `json:"booking_id"`
	CustomerID      uuid.UUID `json:"customer_id"`
	HostID          uuid.UUID `json:"host_id"`
	TotalPriceCents int64     `json:"total_price_cents"`
	Currency        string    `json:"currency"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// DeliveryRequestedEvent is published when a customer creates a delivery order.
type DeliveryRequestedEvent struct {
	OrderID            uuid.UUID `json:"order_id"`
	CustomerID         uuid.UUID `json:"customer_id"`
	PickupLat          float64   `json:"pickup_lat"`
	PickupLng          float64   `json:"pickup_lng"`
	DropoffLat         float64   `json:"dropoff_lat"`
	DropoffLng         float64   `json:"dropoff_lng"`
	EstimatedFareCents int64     `json:"estimated_fare_cents"`
	Currency           string    `json:"currency"`
	OccurredAt         time.Time `json:"occurred_at"`
}

// DeliveryAcceptedEvent is published when a driver accepts an order.
type DeliveryAcceptedEvent struct {
	OrderID    uuid.UUID `json:"order_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	DriverID   uuid.UUID `json:"driver_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// DeliveryStatusChangedEvent is published on every order status transition.
type DeliveryStatusChangedEvent struct {
	OrderID    uuid.UUID  `json:"order_id"`
	CustomerID uuid.UUID  `json:"customer_id"`
	DriverID   *uuid.UUID `json:"driver_id,omitempty"`
	OldStatus  string     `json:"old_status"`
	NewStatus  string     `json:"new_status"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// PaymentApprovedEvent is consumed from the payment service when a booking
// payment clears.
type PaymentApprovedEvent struct {
	PaymentID   uuid.UUID `json:"payment_id"`
	BookingID   uuid.UUID `json:"booking_id"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	OccurredAt  time.Time `json:"occurred_at"`
}
