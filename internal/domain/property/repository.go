package property

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for property aggregates.
type Repository interface {
	// FindByID retrieves a property by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Property, error)

	// FindVerified retrieves verified properties, optionally filtered by a
	// quarter substring, newest first.
	FindVerified(ctx context.Context, quarter string, page, limit int) ([]*Property, int64, error)

	// FindByHostID retrieves all of a host's properties, including
	// unverified ones.
	FindByHostID(ctx context.Context, hostID uuid.UUID, page, limit int) ([]*Property, int64, error)

	// Save persists a new property.
	Save(ctx context.Context, p *Property) error

	// Update persists changes to an existing property.
	Update(ctx context.Context, p *Property) error

	// Delete removes a property.
	Delete(ctx context.Context, id uuid.UUID) error
}
