package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fast-lane/service-core/internal/auth"
	"github.com/fast-lane/service-core/internal/domain"
	"github.com/fast-lane/service-core/internal/domain/property"
	"github.com/fast-lane/service-core/internal/domain/review"
)

// SubmitReviewRequest holds the data needed to submit a review.
type SubmitReviewRequest struct {
	TargetType string    `json:"target_type" binding:"required"`
	TargetID   uuid.UUID `json:"target_id" binding:"required"`
	Rating     int       `json:"rating" binding:"required"`
	Comment    string    `json:"comment"`
}

// ReviewDTO is the response representation of a review.
type ReviewDTO struct {
	ID         uuid.UUID `json:"id"`
	ReviewerID uuid.UUID `json:"reviewer_id"`
	TargetType string    `json:"target_type"`
	TargetID   uuid.UUID `json:"target_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ReviewService guards review submission and serves the read path.
type ReviewService struct {
	reviews    review.Repository
	properties property.Repository
	logger     *zap.Logger
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviews review.Repository, properties property.Repository, logger *zap.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, properties: properties, logger: logger}
}

// SubmitReview validates the target and persists a review. A second review
// by the same reviewer for the same target fails with a conflict error.
func (s *ReviewService) SubmitReview(ctx context.Context, actor auth.Actor, req SubmitReviewRequest) (*ReviewDTO, error) {
	if !auth.CanPerform(actor, auth.ActionSubmitReview, auth.Ownership{OwnerID: actor.ID}) {
		return nil, domain.NewForbiddenError("you are not allowed to submit reviews")
	}

	target := review.Target{Kind: review.TargetKind(req.TargetType), ID: req.TargetID}
	if err := s.ensureTargetExists(ctx, target); err != nil {
		return nil, err
	}

	rev, err := review.New(actor.ID, target, req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}

	if err := s.reviews.Save(ctx, rev); err != nil {
		return nil, err
	}

	result := toReviewDTO(rev)
	return &result, nil
}

// ListReviews returns reviews for a target, newest first.
func (s *ReviewService) ListReviews(ctx context.Context, targetType string, targetID uuid.UUID, page, limit int) (*domain.PaginatedResult[ReviewDTO], error) {
	target := review.Target{Kind: review.TargetKind(targetType), ID: targetID}
	if err := s.ensureTargetExists(ctx, target); err != nil {
		return nil, err
	}

	items, total, err := s.reviews.FindByTarget(ctx, target, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]ReviewDTO, len(items))
	for i, r := range items {
		dtos[i] = toReviewDTO(r)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// ensureTargetExists checks that the reviewed entity is real. Properties are
// looked up directly; users live in the identity service, so the check is
// whether the ID has ever participated in a transaction here.
func (s *ReviewService) ensureTargetExists(ctx context.Context, target review.Target) error {
	if err := target.Validate(); err != nil {
		return err
	}

	switch target.Kind {
	case review.TargetProperty:
		if _, err := s.properties.FindByID(ctx, target.ID); err != nil {
			return err
		}
	case review.TargetUser:
		known, err := s.reviews.UserKnown(ctx, target.ID)
		if err != nil {
			return err
		}
		if !known {
			return domain.NewNotFoundError("user", target.ID.String())
		}
	}
	return nil
}

func toReviewDTO(r *review.Review) ReviewDTO {
	return ReviewDTO{
		ID:         r.ID(),
		ReviewerID: r.ReviewerID(),
		TargetType: string(r.Target().Kind),
		TargetID:   r.Target().ID,
		Rating:     r.Rating(),
		Comment:    r.Comment(),
		CreatedAt:  r.CreatedAt(),
	}
}
