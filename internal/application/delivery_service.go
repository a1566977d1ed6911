package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fast-lane/service-core/internal/auth"
	"github.com/fast-lane/service-core/internal/domain"
	"github.com/fast-lane/service-core/internal/domain/delivery"
	"github.com/fast-lane/service-core/internal/events"
	"github.com/fast-lane/service-core/internal/kafka"
)

// CreateOrderRequest holds the data needed to create a delivery order.
type CreateOrderRequest struct {
	Pickup             delivery.Location `json:"pickup" binding:"required"`
	Dropoff            delivery.Location `json:"dropoff" binding:"required"`
	PackageDescription string            `json:"package_description" binding:"required"`
	PaymentMethod      string            `json:"payment_method" binding:"required"`
}

// OrderDTO is the response representation of a delivery order.
type OrderDTO struct {
	ID                 uuid.UUID            `json:"id"`
	CustomerID         uuid.UUID            `json:"customer_id"`
	DriverID           *uuid.UUID           `json:"driver_id,omitempty"`
	Pickup             delivery.Location    `json:"pickup"`
	Dropoff            delivery.Location    `json:"dropoff"`
	PackageDescription string               `json:"package_description"`
	EstimatedFareCents int64                `json:"estimated_fare_cents"`
	Currency           string               `json:"currency"`
	PaymentMethod      string               `json:"payment_method"`
	PaymentStatus      domain.PaymentStatus `json:"payment_status"`
	Status             string               `json:"status"`
	AcceptedAt         *time.Time           `json:"accepted_at,omitempty"`
	PickedUpAt         *time.Time           `json:"picked_up_at,omitempty"`
	DeliveredAt        *time.Time           `json:"delivered_at,omitempty"`
	CancelledAt        *time.Time           `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

// DeliveryService orchestrates the delivery order lifecycle use cases.
type DeliveryService struct {
	orders   delivery.Repository
	fare     delivery.FareCalculator
	producer EventPublisher
	logger   *zap.Logger
}

// NewDeliveryService creates a new DeliveryService.
func NewDeliveryService(
	orders delivery.Repository,
	fare delivery.FareCalculator,
	producer EventPublisher,
	logger *zap.Logger,
) *DeliveryService {
	return &DeliveryService{
		orders:   orders,
		fare:     fare,
		producer: producer,
		logger:   logger,
	}
}

// CreateOrder validates the request, estimates the fare, and persists a
// pending, unassigned order.
func (s *DeliveryService) CreateOrder(ctx context.Context, actor auth.Actor, req CreateOrderRequest) (*OrderDTO, error) {
	if !auth.CanPerform(actor, auth.ActionCreateOrder, auth.Ownership{OwnerID: actor.ID}) {
		return nil, domain.NewForbiddenError("only customers can create delivery orders")
	}

	fareCents, err := s.fare.Estimate(req.Pickup, req.Dropoff)
	if err != nil {
		return nil, err
	}

	order, err := delivery.New(actor.ID, req.Pickup, req.Dropoff, req.PackageDescription, delivery.PaymentMethod(req.PaymentMethod), fareCents)
	if err != nil {
		return nil, err
	}

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	evt := events.DeliveryRequestedEvent{
		OrderID:            order.ID(),
		CustomerID:         order.CustomerID(),
		PickupLat:          order.Pickup().Latitude,
		PickupLng:          order.Pickup().Longitude,
		DropoffLat:         order.Dropoff().Latitude,
		DropoffLng:         order.Dropoff().Longitude,
		EstimatedFareCents: order.EstimatedFareCents(),
		Currency:           order.Currency(),
		OccurredAt:         time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicDeliveryEvents, events.DeliveryRequested, order.ID().String(), evt)

	result := toOrderDTO(order)
	return &result, nil
}

// AcceptOrder assigns the calling driver to a pending order. The repository
// performs the assignment as a conditional update, so of two drivers racing
// for the same order exactly one wins; the other gets a conflict error.
func (s *DeliveryService) AcceptOrder(ctx context.Context, actor auth.Actor, orderID uuid.UUID) (*OrderDTO, error) {
	if !auth.CanPerform(actor, auth.ActionAcceptOrder, auth.Ownership{}) {
		return nil, domain.NewForbiddenError("only drivers can accept delivery orders")
	}

	order, err := s.orders.AcceptPending(ctx, orderID, actor.ID)
	if err != nil {
		return nil, err
	}

	evt := events.DeliveryAcceptedEvent{
		OrderID:    order.ID(),
		CustomerID: order.CustomerID(),
		DriverID:   actor.ID,
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicDeliveryEvents, events.DeliveryAccepted, order.ID().String(), evt)

	result := toOrderDTO(order)
	return &result, nil
}

// UpdateStatus applies a lifecycle transition requested by the assigned
// driver (in_progress, completed) or the customer (cancelled while pending).
func (s *DeliveryService) UpdateStatus(ctx context.Context, actor auth.Actor, orderID uuid.UUID, newStatus string) (*OrderDTO, error) {
	target, err := delivery.ParseStatus(newStatus)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	oldStatus := order.Status()

	ownership := auth.Ownership{OwnerID: order.CustomerID(), CounterpartyID: order.DriverID()}

	switch target {
	case delivery.StatusCancelled:
		if !auth.CanPerform(actor, auth.ActionCancelOrder, ownership) {
			return nil, domain.NewForbiddenError("you are not allowed to cancel this order")
		}
		err = order.Cancel()
	case delivery.StatusInProgress, delivery.StatusCompleted:
		// An unassigned order has no driver to authorize, so impossible
		// transitions are reported before the driver check.
		if !oldStatus.CanTransitionTo(target) {
			return nil, domain.NewInvalidStateError(oldStatus.String(), target.String())
		}
		if !auth.CanPerform(actor, auth.ActionDriveOrder, ownership) {
			return nil, domain.NewForbiddenError("only the assigned driver can update this order")
		}
		if target == delivery.StatusInProgress {
			err = order.StartTransit()
		} else {
			err = order.CompleteDelivery()
		}
	case delivery.StatusAccepted:
		return nil, domain.NewValidationError("use the accept endpoint to accept an order")
	default:
		return nil, domain.NewInvalidStateError(oldStatus.String(), target.String())
	}
	if err != nil {
		return nil, err
	}

	order.IncrementVersion()
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}

	evt := events.DeliveryStatusChangedEvent{
		OrderID:    order.ID(),
		CustomerID: order.CustomerID(),
		DriverID:   order.DriverID(),
		OldStatus:  oldStatus.String(),
		NewStatus:  order.Status().String(),
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicDeliveryEvents, events.DeliveryStatusChanged, order.ID().String(), evt)

	result := toOrderDTO(order)
	return &result, nil
}

// GetOrder retrieves a single order visible to the actor.
func (s *DeliveryService) GetOrder(ctx context.Context, actor auth.Actor, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	ownership := auth.Ownership{OwnerID: order.CustomerID(), CounterpartyID: order.DriverID()}
	if !auth.CanPerform(actor, auth.ActionViewOrder, ownership) {
		return nil, domain.NewForbiddenError("you are not allowed to view this order")
	}

	result := toOrderDTO(order)
	return &result, nil
}

// ListOrders returns the orders visible to the actor: drivers see assigned
// orders, admins see everything, customers see their own.
func (s *DeliveryService) ListOrders(ctx context.Context, actor auth.Actor, page, limit int) (*domain.PaginatedResult[OrderDTO], error) {
	var (
		items []*delivery.Order
		total int64
		err   error
	)

	switch actor.Role {
	case auth.RoleDriver:
		items, total, err = s.orders.FindByDriverID(ctx, actor.ID, page, limit)
	case auth.RoleAdmin:
		items, total, err = s.orders.ListAll(ctx, page, limit)
	default:
		items, total, err = s.orders.FindByCustomerID(ctx, actor.ID, page, limit)
	}
	if err != nil {
		return nil, err
	}

	dtos := make([]OrderDTO, len(items))
	for i, o := range items {
		dtos[i] = toOrderDTO(o)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// OrderStatsDTO holds delivery order statistics for the admin dashboard.
type OrderStatsDTO struct {
	TotalOrders int64            `json:"total_orders"`
	ByStatus    map[string]int64 `json:"by_status"`
}

// GetOrderStats returns aggregate delivery order statistics (admin).
func (s *DeliveryService) GetOrderStats(ctx context.Context) (*OrderStatsDTO, error) {
	counts, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get order stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &OrderStatsDTO{
		TotalOrders: total,
		ByStatus:    counts,
	}, nil
}

// --- Helpers ---

func toOrderDTO(o *delivery.Order) OrderDTO {
	return OrderDTO{
		ID:                 o.ID(),
		CustomerID:         o.CustomerID(),
		DriverID:           o.DriverID(),
		Pickup:             o.Pickup(),
		Dropoff:            o.Dropoff(),
		PackageDescription: o.PackageDescription(),
		EstimatedFareCents: o.EstimatedFareCents(),
		Currency:           o.Currency(),
		PaymentMethod:      string(o.PaymentMethod()),
		PaymentStatus:      o.PaymentStatus(),
		Status:             o.Status().String(),
		AcceptedAt:         o.AcceptedAt(),
		PickedUpAt:         o.PickedUpAt(),
		DeliveredAt:        o.DeliveredAt(),
		CancelledAt:        o.CancelledAt(),
		CreatedAt:          o.CreatedAt(),
		UpdatedAt:          o.UpdatedAt(),
	}
}

func (s *DeliveryService) publishEvent(ctx context.Context, topic, eventType, key string, data interface{}) {
	cloudEvent, err := kafka.NewCloudEvent("service-core", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEvent(ctx, topic, key, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
