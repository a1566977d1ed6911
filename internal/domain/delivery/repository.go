package delivery

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for delivery order aggregates.
type Repository interface {
	// FindByID retrieves an order by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// Save persists a new order.
	Save(ctx context.Context, o *Order) error

	// AcceptPending assigns the driver with a conditional update that only
	// succeeds while the order is still pending and unassigned. Returns a
	// conflict error when another driver won the race, and the refreshed
	// order on success.
	AcceptPending(ctx context.Context, orderID, driverID uuid.UUID) (*Order, error)

	// FindByCustomerID retrieves orders created by a customer, newest first.
	FindByCustomerID(ctx context.Context, customerID uuid.UUID, page, limit int) ([]*Order, int64, error)

	// FindByDriverID retrieves orders assigned to a driver, newest first.
	FindByDriverID(ctx context.Context, driverID uuid.UUID, page, limit int) ([]*Order, int64, error)

	// ListAll retrieves all orders with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Order, int64, error)

	// CountByStatus returns order counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Update persists changes to an existing order with optimistic locking.
	Update(ctx context.Context, o *Order) error
}
