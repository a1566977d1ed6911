package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fast-lane/service-core/internal/domain"
	deliveryDomain "github.com/fast-lane/service-core/internal/domain/delivery"
)

// DeliveryOrderModel is the GORM model for the delivery_orders table.
type DeliveryOrderModel struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID         uuid.UUID  `gorm:"type:uuid;index;not null"`
	DriverID           *uuid.UUID `gorm:"type:uuid;index"`
	PickupAddress      string     `gorm:"not null;size:255"`
	PickupLat          float64    `gorm:"not null"`
	PickupLng          float64    `gorm:"not null"`
	DropoffAddress     string     `gorm:"not null;size:255"`
	DropoffLat         float64    `gorm:"not null"`
	DropoffLng         float64    `gorm:"not null"`
	PackageDescription string     `gorm:"not null;size:500"`
	EstimatedFareCents int64      `gorm:"not null"`
	Currency           string     `gorm:"not null;size:3"`
	PaymentMethod      string     `gorm:"not null;size:20"`
	PaymentStatus      string     `gorm:"not null;size:20"`
	Status             string     `gorm:"not null;size:20;index"`
	AcceptedAt         *time.Time
	PickedUpAt         *time.Time
	DeliveredAt        *time.Time
	CancelledAt        *time.Time
	Version            int64     `gorm:"not null;default:1"`
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (DeliveryOrderModel) TableName() string {
	return "delivery_orders"
}

// GormDeliveryRepository is the GORM-based implementation of delivery.Repository.
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewGormDeliveryRepository creates a new GormDeliveryRepository.
func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// FindByID retrieves an order by its unique identifier.
func (r *GormDeliveryRepository) FindByID(ctx context.Context, id uuid.UUID) (*deliveryDomain.Order, error) {
	var model DeliveryOrderModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("order", id.String())
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}
	return toDomainOrder(&model), nil
}

// Save persists a new order.
func (r *GormDeliveryRepository) Save(ctx context.Context, o *deliveryDomain.Order) error {
	if err := r.db.WithContext(ctx).Create(toOrderModel(o)).Error; err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	return nil
}

// AcceptPending assigns the driver with a single conditional update. The
// WHERE clause requires the order to still be pending and unassigned, so of
// two concurrent drivers exactly one update matches a row.
func (r *GormDeliveryRepository) AcceptPending(ctx context.Context, orderID, driverID uuid.UUID) (*deliveryDomain.Order, error) {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&DeliveryOrderModel{}).
		Where("id = ? AND status = ? AND driver_id IS NULL", orderID, string(deliveryDomain.StatusPending)).
		Updates(map[string]interface{}{
			"driver_id":   driverID,
			"status":      string(deliveryDomain.StatusAccepted),
			"accepted_at": now,
			"version":     gorm.Expr("version + 1"),
			"updated_at":  now,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to accept order: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		// Lost the race or the order is not acceptable. Load it to report why.
		order, err := r.FindByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if order.DriverID() != nil {
			return nil, domain.NewConflictError("order has already been accepted by another driver")
		}
		return nil, domain.NewInvalidStateError(string(order.Status()), string(deliveryDomain.StatusAccepted))
	}

	return r.FindByID(ctx, orderID)
}

// FindByCustomerID retrieves orders created by a customer, newest first.
func (r *GormDeliveryRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID, page, limit int) ([]*deliveryDomain.Order, int64, error) {
	return r.findPage(ctx, r.db.WithContext(ctx).Model(&DeliveryOrderModel{}).Where("customer_id = ?", customerID), page, limit)
}

// FindByDriverID retrieves orders assigned to a driver, newest first.
func (r *GormDeliveryRepository) FindByDriverID(ctx context.Context, driverID uuid.UUID, page, limit int) ([]*deliveryDomain.Order, int64, error) {
	return r.findPage(ctx, r.db.WithContext(ctx).Model(&DeliveryOrderModel{}).Where("driver_id = ?", driverID), page, limit)
}

// ListAll retrieves all orders with pagination.
func (r *GormDeliveryRepository) ListAll(ctx context.Context, page, limit int) ([]*deliveryDomain.Order, int64, error) {
	return r.findPage(ctx, r.db.WithContext(ctx).Model(&DeliveryOrderModel{}), page, limit)
}

// CountByStatus returns order counts grouped by status.
func (r *GormDeliveryRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []statusCount
	if err := r.db.WithContext(ctx).
		Model(&DeliveryOrderModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders by status: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// Update persists changes to an order using optimistic locking.
func (r *GormDeliveryRepository) Update(ctx context.Context, o *deliveryDomain.Order) error {
	model := toOrderModel(o)
	result := r.db.WithContext(ctx).
		Model(&DeliveryOrderModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version-1).
		Updates(map[string]interface{}{
			"driver_id":      model.DriverID,
			"status":         model.Status,
			"payment_status": model.PaymentStatus,
			"accepted_at":    model.AcceptedAt,
			"picked_up_at":   model.PickedUpAt,
			"delivered_at":   model.DeliveredAt,
			"cancelled_at":   model.CancelledAt,
			"version":        model.Version,
			"updated_at":     model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("order was modified concurrently, please retry")
	}
	return nil
}

func (r *GormDeliveryRepository) findPage(ctx context.Context, query *gorm.DB, page, limit int) ([]*deliveryDomain.Order, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var models []DeliveryOrderModel
	offset := (page - 1) * limit
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find orders: %w", err)
	}

	orders := make([]*deliveryDomain.Order, len(models))
	for i, m := range models {
		orders[i] = toDomainOrder(&m)
	}
	return orders, total, nil
}

// --- Conversion helpers ---

func toOrderModel(o *deliveryDomain.Order) *DeliveryOrderModel {
	return &DeliveryOrderModel{
		ID:                 o.ID(),
		CustomerID:         o.CustomerID(),
		DriverID:           o.DriverID(),
		PickupAddress:      o.Pickup().Address,
		PickupLat:          o.Pickup().Latitude,
		PickupLng:          o.Pickup().Longitude,
		DropoffAddress:     o.Dropoff().Address,
		DropoffLat:         o.Dropoff().Latitude,
		DropoffLng:         o.Dropoff().Longitude,
		PackageDescription: o.PackageDescription(),
		EstimatedFareCents: o.EstimatedFareCents(),
		Currency:           o.Currency(),
		PaymentMethod:      string(o.PaymentMethod()),
		PaymentStatus:      string(o.PaymentStatus()),
		Status:             string(o.Status()),
		AcceptedAt:         o.AcceptedAt(),
		PickedUpAt:         o.PickedUpAt(),
		DeliveredAt:        o.DeliveredAt(),
		CancelledAt:        o.CancelledAt(),
		Version:            o.Version(),
		CreatedAt:          o.CreatedAt(),
		UpdatedAt:          o.UpdatedAt(),
	}
}

func toDomainOrder(m *DeliveryOrderModel) *deliveryDomain.Order {
	return deliveryDomain.Reconstruct(
		m.ID,
		m.CustomerID,
		m.DriverID,
		deliveryDomain.Location{Address: m.PickupAddress, Latitude: m.PickupLat, Longitude: m.PickupLng},
		deliveryDomain.Location{Address: m.DropoffAddress, Latitude: m.DropoffLat, Longitude: m.DropoffLng},
		m.PackageDescription,
		m.EstimatedFareCents,
		m.Currency,
		deliveryDomain.PaymentMethod(m.PaymentMethod),
		domain.PaymentStatus(m.PaymentStatus),
		deliveryDomain.Status(m.Status),
		m.AcceptedAt,
		m.PickedUpAt,
		m.DeliveredAt,
		m.CancelledAt,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
