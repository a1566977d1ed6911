package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Availability is the result of an availability check for a date range.
type Availability struct {
	Available             bool        `json:"available"`
	ConflictingBookingIDs []uuid.UUID `json:"conflicting_booking_ids"`
}

// Repository defines the persistence contract for booking aggregates.
type Repository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindOverlapping returns the IDs of bookings on the property whose
	// [check-in, check-out) ranges intersect the given range and whose
	// status still blocks availability.
	FindOverlapping(ctx context.Context, propertyID uuid.UUID, checkIn, checkOut time.Time) ([]uuid.UUID, error)

	// CreateIfAvailable atomically re-checks availability and inserts the
	// booking, serialized per property. Returns a conflict error when a
	// blocking overlap exists at commit time.
	CreateIfAvailable(ctx context.Context, b *Booking) error

	// FindByCustomerID retrieves bookings created by a customer, newest first.
	FindByCustomerID(ctx context.Context, customerID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// FindByHostID retrieves bookings on any property owned by the host, newest first.
	FindByHostID(ctx context.Context, hostID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// ListAll retrieves all bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, b *Booking) error
}
