// Package booking holds the booking aggregate and its lifecycle rules.
package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/fast-lane/service-core/internal/domain"
)

// Booking is the aggregate root for a property reservation.
type Booking struct {
	id         uuid.UUID
	customerID uuid.UUID
	propertyID uuid.UUID
	hostID     uuid.UUID

	checkIn  time.Time
	checkOut time.Time

	totalPriceCents int64
	currency        string

	status        Status
	paymentStatus domain.PaymentStatus

	confirmedAt *time.Time
	completedAt *time.Time
	cancelledAt *time.Time
	cancelNote  string

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// New creates a pending booking for the given stay. checkIn and checkOut
// must be UTC midnight dates; today is the earliest allowed check-in.
func New(customerID, propertyID, hostID uuid.UUID, checkIn, checkOut time.Time, totalPriceCents int64) (*Booking, error) {
	if customerID == uuid.Nil {
		return nil, domain.NewValidationError("customer ID is required")
	}
	if propertyID == uuid.Nil {
		return nil, domain.NewValidationError("property ID is required")
	}
	if hostID == uuid.Nil {
		return nil, domain.NewValidationError("host ID is required")
	}
	if !checkOut.After(checkIn) {
		return nil, domain.NewValidationError("check-out date must be after check-in date")
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if checkIn.Before(today) {
		return nil, domain.NewValidationError("check-in date must not be in the past")
	}
	if totalPriceCents <= 0 {
		return nil, domain.NewValidationError("total price must be positive")
	}

	now := time.Now().UTC()
	return &Booking{
		id:              uuid.New(),
		customerID:      customerID,
		propertyID:      propertyID,
		hostID:          hostID,
		checkIn:         checkIn,
		checkOut:        checkOut,
		totalPriceCents: totalPriceCents,
		currency:        domain.CurrencyXAF,
		status:          StatusPending,
		paymentStatus:   domain.PaymentPending,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(
	id, customerID, propertyID, hostID uuid.UUID,
	checkIn, checkOut time.Time,
	totalPriceCents int64,
	currency string,
	status Status,
	paymentStatus domain.PaymentStatus,
	confirmedAt, completedAt, cancelledAt *time.Time,
	cancelNote string,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		customerID:      customerID,
		propertyID:      propertyID,
		hostID:          hostID,
		checkIn:         checkIn,
		checkOut:        checkOut,
		totalPriceCents: totalPriceCents,
		currency:        currency,
		status:          status,
		paymentStatus:   paymentStatus,
		confirmedAt:     confirmedAt,
		completedAt:     completedAt,
		cancelledAt:     cancelledAt,
		cancelNote:      cancelNote,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// CustomerID returns the booking customer's user ID.
func (b *Booking) CustomerID() uuid.UUID { return b.customerID }

// PropertyID returns the booked property's ID.
func (b *Booking) PropertyID() uuid.UUID { return b.propertyID }

// HostID returns the user ID of the property's host.
func (b *Booking) HostID() uuid.UUID { return b.hostID }

// CheckIn returns the check-in date.
func (b *Booking) CheckIn() time.Time { return b.checkIn }

// CheckOut returns the check-out date (exclusive).
func (b *Booking) CheckOut() time.Time { return b.checkOut }

// TotalPriceCents returns the stay price in minor units. Immutable after creation.
func (b *Booking) TotalPriceCents() int64 { return b.totalPriceCents }

// Currency returns the currency code.
func (b *Booking) Currency() string { return b.currency }

// Status returns the current booking status.
func (b *Booking) Status() Status { return b.status }

// PaymentStatus returns the current payment status.
func (b *Booking) PaymentStatus() domain.PaymentStatus { return b.paymentStatus }

// ConfirmedAt returns when the booking was confirmed, or nil.
func (b *Booking) ConfirmedAt() *time.Time { return b.confirmedAt }

// CompletedAt returns when the booking was completed, or nil.
func (b *Booking) CompletedAt() *time.Time { return b.completedAt }

// CancelledAt returns when the booking was cancelled, or nil.
func (b *Booking) CancelledAt() *time.Time { return b.cancelledAt }

// CancelNote returns the cancellation reason.
func (b *Booking) CancelNote() string { return b.cancelNote }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// Confirm transitions the booking to confirmed after payment approval.
func (b *Booking) Confirm() error {
	if !b.status.CanTransitionTo(StatusConfirmed) {
		return domain.NewInvalidStateError(string(b.status), string(StatusConfirmed))
	}
	now := time.Now().UTC()
	b.status = StatusConfirmed
	b.paymentStatus = domain.PaymentApproved
	b.confirmedAt = &now
	b.updatedAt = now
	return nil
}

// Complete transitions a confirmed booking to completed. The stay must be
// over: completion before the check-out date is rejected.
func (b *Booking) Complete(now time.Time) error {
	if !b.status.CanTransitionTo(StatusCompleted) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCompleted))
	}
	if now.Before(b.checkOut) {
		return &domain.Error{Kind: domain.KindInvalidState, Message: "booking cannot be completed before the check-out date"}
	}
	completedAt := now.UTC()
	b.status = StatusCompleted
	b.completedAt = &completedAt
	b.updatedAt = completedAt
	return nil
}

// Cancel transitions the booking to cancelled if it is not in a terminal state.
func (b *Booking) Cancel(reason string) error {
	if !b.status.CanTransitionTo(StatusCancelled) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	now := time.Now().UTC()
	b.status = StatusCancelled
	b.paymentStatus = domain.PaymentCancelled
	b.cancelNote = reason
	b.cancelledAt = &now
	b.updatedAt = now
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
