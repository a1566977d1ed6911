// Package repository provides the GORM-based persistence layer.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fast-lane/service-core/internal/domain"
	bookingDomain "github.com/fast-lane/service-core/internal/domain/booking"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID      uuid.UUID `gorm:"type:uuid;index;not null"`
	PropertyID      uuid.UUID `gorm:"type:uuid;index;not null"`
	HostID          uuid.UUID `gorm:"type:uuid;index;not null"`
	CheckInDate     time.Time `gorm:"type:date;not null"`
	CheckOutDate    time.Time `gorm:"type:date;not null"`
	TotalPriceCents int64     `gorm:"not null"`
	Currency        string    `gorm:"not null;size:3"`
	Status          string    `gorm:"not null;size:20;index"`
	PaymentStatus   string    `gorm:"not null;size:20"`
	ConfirmedAt     *time.Time
	CompletedAt     *time.Time
	CancelledAt     *time.Time
	CancelNote      string    `gorm:"size:500"`
	Version         int64     `gorm:"not null;default:1"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of booking.Repository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// blockingStatuses are the statuses that hold the dates on a property.
var blockingStatuses = []string{
	string(bookingDomain.StatusPending),
	string(bookingDomain.StatusConfirmed),
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model), nil
}

// FindOverlapping returns the IDs of blocking bookings whose half-open
// [check-in, check-out) range intersects the given range.
func (r *GormBookingRepository) FindOverlapping(ctx context.Context, propertyID uuid.UUID, checkIn, checkOut time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("property_id = ?", propertyID).
		Where("status IN ?", blockingStatuses).
		Where("check_in_date < ? AND check_out_date > ?", checkOut, checkIn).
		Order("check_in_date ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping bookings: %w", err)
	}
	return ids, nil
}

// CreateIfAvailable inserts the booking inside a transaction that first takes
// a row lock on the property, so concurrent requests for the same property
// serialize and re-check overlaps against committed state.
func (r *GormBookingRepository) CreateIfAvailable(ctx context.Context, b *bookingDomain.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prop PropertyModel
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", b.PropertyID()).
			First(&prop).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewNotFoundError("property", b.PropertyID().String())
			}
			return fmt.Errorf("failed to lock property row: %w", err)
		}

		var overlaps int64
		if err := tx.
			Model(&BookingModel{}).
			Where("property_id = ?", b.PropertyID()).
			Where("status IN ?", blockingStatuses).
			Where("check_in_date < ? AND check_out_date > ?", b.CheckOut(), b.CheckIn()).
			Count(&overlaps).Error; err != nil {
			return fmt.Errorf("failed to count overlapping bookings: %w", err)
		}
		if overlaps > 0 {
			return domain.NewConflictError("property is not available for the requested dates")
		}

		if err := tx.Create(toBookingModel(b)).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		return nil
	})
}

// FindByCustomerID retrieves bookings created by a customer, newest first.
func (r *GormBookingRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	return r.findPage(ctx, r.db.WithContext(ctx).Model(&BookingModel{}).Where("customer_id = ?", customerID), page, limit)
}

// FindByHostID retrieves bookings on the host's properties, newest first.
func (r *GormBookingRepository) FindByHostID(ctx context.Context, hostID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	return r.findPage(ctx, r.db.WithContext(ctx).Model(&BookingModel{}).Where("host_id = ?", hostID), page, limit)
}

// ListAll retrieves all bookings with pagination.
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	return r.findPage(ctx, r.db.WithContext(ctx).Model(&BookingModel{}), page, limit)
}

// CountByStatus returns booking counts grouped by status.
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []statusCount
	if err := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count bookings by status: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// Update persists changes to a booking using optimistic locking: the update
// only applies if the stored version is one behind the aggregate's.
func (r *GormBookingRepository) Update(ctx context.Context, b *bookingDomain.Booking) error {
	model := toBookingModel(b)
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version-1).
		Updates(map[string]interface{}{
			"status":         model.Status,
			"payment_status": model.PaymentStatus,
			"confirmed_at":   model.ConfirmedAt,
			"completed_at":   model.CompletedAt,
			"cancelled_at":   model.CancelledAt,
			"cancel_note":    model.CancelNote,
			"version":        model.Version,
			"updated_at":     model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified concurrently, please retry")
	}
	return nil
}

func (r *GormBookingRepository) findPage(ctx context.Context, query *gorm.DB, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find bookings: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bookings[i] = toDomainBooking(&m)
	}
	return bookings, total, nil
}

type statusCount struct {
	Status string
	Count  int64
}

// --- Conversion helpers ---

func toBookingModel(b *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:              b.ID(),
		CustomerID:      b.CustomerID(),
		PropertyID:      b.PropertyID(),
		HostID:          b.HostID(),
		CheckInDate:     b.CheckIn(),
		CheckOutDate:    b.CheckOut(),
		TotalPriceCents: b.TotalPriceCents(),
		Currency:        b.Currency(),
		Status:          string(b.Status()),
		PaymentStatus:   string(b.PaymentStatus()),
		ConfirmedAt:     b.ConfirmedAt(),
		CompletedAt:     b.CompletedAt(),
		CancelledAt:     b.CancelledAt(),
		CancelNote:      b.CancelNote(),
		Version:         b.Version(),
		CreatedAt:       b.CreatedAt(),
		UpdatedAt:       b.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) *bookingDomain.Booking {
	return bookingDomain.Reconstruct(
		m.ID,
		m.CustomerID,
		m.PropertyID,
		m.HostID,
		m.CheckInDate.UTC(),
		m.CheckOutDate.UTC(),
		m.TotalPriceCents,
		m.Currency,
		bookingDomain.Status(m.Status),
		domain.PaymentStatus(m.PaymentStatus),
		m.ConfirmedAt,
		m.CompletedAt,
		m.CancelledAt,
		m.CancelNote,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
