// Package review holds the review entity and the rules guarding submission.
package review

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fast-lane/service-core/internal/domain"
)

// TargetKind distinguishes what a review is about.
type TargetKind string

const (
	TargetProperty TargetKind = "property"
	TargetUser     TargetKind = "user"
)

// IsValid returns true if the target kind is recognized.
func (k TargetKind) IsValid() bool {
	return k == TargetProperty || k == TargetUser
}

// Target is the reviewed entity: a typed kind plus its ID, instead of the
// stringly-typed polymorphic reference this replaces.
type Target struct {
	Kind TargetKind `json:"kind"`
	ID   uuid.UUID  `json:"id"`
}

// Validate checks the target's kind and ID.
func (t Target) Validate() error {
	if !t.Kind.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid target kind: %s", t.Kind))
	}
	if t.ID == uuid.Nil {
		return domain.NewValidationError("target ID is required")
	}
	return nil
}

// Review is a single reviewer's rating of a target. At most one review per
// (reviewer, target) pair exists.
type Review struct {
	id         uuid.UUID
	reviewerID uuid.UUID
	target     Target
	rating     int
	comment    string
	createdAt  time.Time
}

// New creates a review after validating the rating and comment.
func New(reviewerID uuid.UUID, target Target, rating int, comment string) (*Review, error) {
	if reviewerID == uuid.Nil {
		return nil, domain.NewValidationError("reviewer ID is required")
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if rating < 1 || rating > 5 {
		return nil, domain.NewValidationError("rating must be an integer between 1 and 5")
	}
	if len(comment) > 1000 {
		return nil, domain.NewValidationError("comment must be at most 1000 characters")
	}

	return &Review{
		id:         uuid.New(),
		reviewerID: reviewerID,
		target:     target,
		rating:     rating,
		comment:    comment,
		createdAt:  time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds a Review from persistence data (no validation).
func Reconstruct(id, reviewerID uuid.UUID, target Target, rating int, comment string, createdAt time.Time) *Review {
	return &Review{
		id:         id,
		reviewerID: reviewerID,
		target:     target,
		rating:     rating,
		comment:    comment,
		createdAt:  createdAt,
	}
}

// ID returns the review's unique identifier.
func (r *Review) ID() uuid.UUID { return r.id }

// ReviewerID returns the reviewer's user ID.
func (r *Review) ReviewerID() uuid.UUID { return r.reviewerID }

// Target returns what the review is about.
func (r *Review) Target() Target { return r.target }

// Rating returns the 1-5 rating.
func (r *Review) Rating() int { return r.rating }

// Comment returns the optional free-text comment.
func (r *Review) Comment() string { return r.comment }

// CreatedAt returns the creation timestamp.
func (r *Review) CreatedAt() time.Time { return r.createdAt }
