// Package delivery holds the delivery order aggregate and its lifecycle rules.
package delivery

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fast-lane/service-core/internal/domain"
)

// PaymentMethod is how the customer pays for a delivery.
type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "cash"
	PaymentCard        PaymentMethod = "card"
	PaymentMobileMoney PaymentMethod = "mobile_money"
)

// IsValid returns true if the payment method is recognized.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentMobileMoney:
		return true
	}
	return false
}

// Location is an address with coordinates.
type Location struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks the address and coordinate ranges.
func (l Location) Validate() error {
	if l.Address == "" {
		return domain.NewValidationError("address is required")
	}
	if l.Latitude < -90 || l.Latitude > 90 {
		return domain.NewValidationError("latitude must be between -90 and 90")
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return domain.NewValidationError("longitude must be between -180 and 180")
	}
	return nil
}

// Order is the aggregate root for a package delivery.
type Order struct {
	id         uuid.UUID
	customerID uuid.UUID
	driverID   *uuid.UUID

	pickup             Location
	dropoff            Location
	packageDescription string

	estimatedFareCents int64
	currency           string
	paymentMethod      PaymentMethod
	paymentStatus      domain.PaymentStatus

	status Status

	acceptedAt  *time.Time
	pickedUpAt  *time.Time
	deliveredAt *time.Time
	cancelledAt *time.Time

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// New creates a pending, unassigned delivery order.
func New(customerID uuid.UUID, pickup, dropoff Location, packageDescription string, paymentMethod PaymentMethod, estimatedFareCents int64) (*Order, error) {
	if customerID == uuid.Nil {
		return nil, domain.NewValidationError("customer ID is required")
	}
	if err := pickup.Validate(); err != nil {
		return nil, err
	}
	if err := dropoff.Validate(); err != nil {
		return nil, err
	}
	if packageDescription == "" {
		return nil, domain.NewValidationError("package description is required")
	}
	if len(packageDescription) > 500 {
		return nil, domain.NewValidationError("package description must be at most 500 characters")
	}
	if !paymentMethod.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid payment method: %s", paymentMethod))
	}
	if estimatedFareCents <= 0 {
		return nil, domain.NewValidationError("estimated fare must be positive")
	}

	now := time.Now().UTC()
	return &Order{
		id:                 uuid.New(),
		customerID:         customerID,
		pickup:             pickup,
		dropoff:            dropoff,
		packageDescription: packageDescription,
		estimatedFareCents: estimatedFareCents,
		currency:           domain.CurrencyXAF,
		paymentMethod:      paymentMethod,
		paymentStatus:      domain.PaymentPending,
		status:             StatusPending,
		version:            1,
		createdAt:          now,
		updatedAt:          now,
	}, nil
}

// Reconstruct rebuilds an Order from persistence data (no validation).
func Reconstruct(
	id, customerID uuid.UUID,
	driverID *uuid.UUID,
	pickup, dropoff Location,
	packageDescription string,
	estimatedFareCents int64,
	currency string,
	paymentMethod PaymentMethod,
	paymentStatus domain.PaymentStatus,
	status Status,
	acceptedAt, pickedUpAt, deliveredAt, cancelledAt *time.Time,
	version int64,
	createdAt, updatedAt time.Time,
) *Order {
	return &Order{
		id:                 id,
		customerID:         customerID,
		driverID:           driverID,
		pickup:             pickup,
		dropoff:            dropoff,
		packageDescription: packageDescription,
		estimatedFareCents: estimatedFareCents,
		currency:           currency,
		paymentMethod:      paymentMethod,
		paymentStatus:      paymentStatus,
		status:             status,
		acceptedAt:         acceptedAt,
		pickedUpAt:         pickedUpAt,
		deliveredAt:        deliveredAt,
		cancelledAt:        cancelledAt,
		version:            version,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

// ID returns the order's unique identifier.
func (o *Order) ID() uuid.UUID { return o.id }

// CustomerID returns the ordering customer's user ID.
func (o *Order) CustomerID() uuid.UUID { return o.customerID }

// DriverID returns the assigned driver's user ID, or nil if unassigned.
func (o *Order) DriverID() *uuid.UUID { return o.driverID }

// Pickup returns the pickup location.
func (o *Order) Pickup() Location { return o.pickup }

// Dropoff returns the dropoff location.
func (o *Order) Dropoff() Location { return o.dropoff }

// PackageDescription returns what is being delivered.
func (o *Order) PackageDescription() string { return o.packageDescription }

// EstimatedFareCents returns the estimated fare in minor units.
func (o *Order) EstimatedFareCents() int64 { return o.estimatedFareCents }

// Currency returns the currency code.
func (o *Order) Currency() string { return o.currency }

// PaymentMethod returns the chosen payment method.
func (o *Order) PaymentMethod() PaymentMethod { return o.paymentMethod }

// PaymentStatus returns the current payment status.
func (o *Order) PaymentStatus() domain.PaymentStatus { return o.paymentStatus }

// Status returns the current order status.
func (o *Order) Status() Status { return o.status }

// AcceptedAt returns when a driver accepted the order, or nil.
func (o *Order) AcceptedAt() *time.Time { return o.acceptedAt }

// PickedUpAt returns when the package was picked up, or nil.
func (o *Order) PickedUpAt() *time.Time { return o.pickedUpAt }

// DeliveredAt returns when the package was delivered, or nil.
func (o *Order) DeliveredAt() *time.Time { return o.deliveredAt }

// CancelledAt returns when the order was cancelled, or nil.
func (o *Order) CancelledAt() *time.Time { return o.cancelledAt }

// Version returns the entity version for optimistic locking.
func (o *Order) Version() int64 { return o.version }

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (o *Order) UpdatedAt() time.Time { return o.updatedAt }

// Accept assigns a driver to a pending order. The repository additionally
// guards the same rule with a conditional update so two drivers cannot both
// win the race.
func (o *Order) Accept(driverID uuid.UUID) error {
	if !o.status.CanTransitionTo(StatusAccepted) {
		return domain.NewInvalidStateError(string(o.status), string(StatusAccepted))
	}
	if o.driverID != nil {
		return domain.NewConflictError("order has already been accepted by another driver")
	}
	if driverID == uuid.Nil {
		return domain.NewValidationError("driver ID is required")
	}
	now := time.Now().UTC()
	o.driverID = &driverID
	o.status = StatusAccepted
	o.acceptedAt = &now
	o.updatedAt = now
	return nil
}

// StartTransit marks the package as picked up and in transit.
func (o *Order) StartTransit() error {
	if !o.status.CanTransitionTo(StatusInProgress) {
		return domain.NewInvalidStateError(string(o.status), string(StatusInProgress))
	}
	now := time.Now().UTC()
	o.status = StatusInProgress
	o.pickedUpAt = &now
	o.updatedAt = now
	return nil
}

// CompleteDelivery marks the package as delivered.
func (o *Order) CompleteDelivery() error {
	if !o.status.CanTransitionTo(StatusCompleted) {
		return domain.NewInvalidStateError(string(o.status), string(StatusCompleted))
	}
	now := time.Now().UTC()
	o.status = StatusCompleted
	o.deliveredAt = &now
	o.updatedAt = now
	return nil
}

// Cancel cancels a pending order.
func (o *Order) Cancel() error {
	if !o.status.CanTransitionTo(StatusCancelled) {
		return domain.NewInvalidStateError(string(o.status), string(StatusCancelled))
	}
	now := time.Now().UTC()
	o.status = StatusCancelled
	o.paymentStatus = domain.PaymentCancelled
	o.cancelledAt = &now
	o.updatedAt = now
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (o *Order) IncrementVersion() {
	o.version++
	o.updatedAt = time.Now().UTC()
}
