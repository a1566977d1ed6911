package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fast-lane/service-core/internal/domain"
	reviewDomain "github.com/fast-lane/service-core/internal/domain/review"
)

// ReviewModel is the GORM model for the reviews table. The composite unique
// index enforces at most one review per (reviewer, target) pair.
type ReviewModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ReviewerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_reviewer_target"`
	TargetKind string    `gorm:"not null;size:20;uniqueIndex:idx_reviews_reviewer_target"`
	TargetID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_reviewer_target;index:idx_reviews_target"`
	Rating     int       `gorm:"not null"`
	Comment    string    `gorm:"size:1000"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ReviewModel) TableName() string {
	return "reviews"
}

// GormReviewRepository is the GORM-based implementation of review.Repository.
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository.
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// Save persists a new review. The unique index is the authority on
// duplicates; a violation surfaces as a conflict error.
func (r *GormReviewRepository) Save(ctx context.Context, rev *reviewDomain.Review) error {
	if err := r.db.WithContext(ctx).Create(toReviewModel(rev)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError("you have already reviewed this target")
		}
		return fmt.Errorf("failed to save review: %w", err)
	}
	return nil
}

// FindByTarget retrieves reviews for a target, newest first.
func (r *GormReviewRepository) FindByTarget(ctx context.Context, target reviewDomain.Target, page, limit int) ([]*reviewDomain.Review, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&ReviewModel{}).
		Where("target_kind = ? AND target_id = ?", string(target.Kind), target.ID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	var models []ReviewModel
	offset := (page - 1) * limit
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find reviews: %w", err)
	}

	reviews := make([]*reviewDomain.Review, len(models))
	for i, m := range models {
		reviews[i] = toDomainReview(&m)
	}
	return reviews, total, nil
}

// UserKnown reports whether the user ID has appeared as a host, a customer,
// or a driver on any record in this service.
func (r *GormReviewRepository) UserKnown(ctx context.Context, userID uuid.UUID) (bool, error) {
	var known bool
	err := r.db.WithContext(ctx).Raw(`
		SELECT EXISTS (SELECT 1 FROM properties WHERE host_id = @id)
		    OR EXISTS (SELECT 1 FROM bookings WHERE customer_id = @id OR host_id = @id)
		    OR EXISTS (SELECT 1 FROM delivery_orders WHERE customer_id = @id OR driver_id = @id)`,
		map[string]interface{}{"id": userID},
	).Scan(&known).Error
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return known, nil
}

// --- Conversion helpers ---

func toReviewModel(rev *reviewDomain.Review) *ReviewModel {
	return &ReviewModel{
		ID:         rev.ID(),
		ReviewerID: rev.ReviewerID(),
		TargetKind: string(rev.Target().Kind),
		TargetID:   rev.Target().ID,
		Rating:     rev.Rating(),
		Comment:    rev.Comment(),
		CreatedAt:  rev.CreatedAt(),
	}
}

func toDomainReview(m *ReviewModel) *reviewDomain.Review {
	return reviewDomain.Reconstruct(
		m.ID,
		m.ReviewerID,
		reviewDomain.Target{Kind: reviewDomain.TargetKind(m.TargetKind), ID: m.TargetID},
		m.Rating,
		m.Comment,
		m.CreatedAt,
	)
}
