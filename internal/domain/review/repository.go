package review

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for reviews.
type Repository interface {
	// Save persists a new review. A duplicate (reviewer, target) pair
	// returns a conflict error.
	Save(ctx context.Context, r *Review) error

	// FindByTarget retrieves reviews for a target, newest first.
	FindByTarget(ctx context.Context, target Target, page, limit int) ([]*Review, int64, error)

	// UserKnown reports whether a user ID has ever appeared as a
	// participant on this platform. Users live in the identity service, so
	// this is the closest existence check available for user targets.
	UserKnown(ctx context.Context, userID uuid.UUID) (bool, error)
}
