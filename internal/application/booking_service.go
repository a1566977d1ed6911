package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fast-lane/service-core/internal/auth"
	"github.com/fast-lane/service-core/internal/domain"
	"github.com/fast-lane/service-core/internal/domain/booking"
	"github.com/fast-lane/service-core/internal/domain/property"
	"github.com/fast-lane/service-core/internal/events"
	"github.com/fast-lane/service-core/internal/kafka"
)

const dateLayout = "2006-01-02"

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	PropertyID   uuid.UUID `json:"property_id" binding:"required"`
	CheckInDate  string    `json:"check_in_date" binding:"required"`
	CheckOutDate string    `json:"check_out_date" binding:"required"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID              uuid.UUID            `json:"id"`
	CustomerID      uuid.UUID            `json:"customer_id"`
	PropertyID      uuid.UUID            `json:"property_id"`
	HostID          uuid.UUID            `json:"host_id"`
	CheckInDate     string               `json:"check_in_date"`
	CheckOutDate    string               `json:"check_out_date"`
	TotalPriceCents int64                `json:"total_price_cents"`
	Currency        string               `json:"currency"`
	Status          string               `json:"status"`
	PaymentStatus   domain.PaymentStatus `json:"payment_status"`
	ConfirmedAt     *time.Time           `json:"confirmed_at,omitempty"`
	CompletedAt     *time.Time           `json:"completed_at,omitempty"`
	CancelledAt     *time.Time           `json:"cancelled_at,omitempty"`
	CancelNote      string               `json:"cancel_note,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// BookingService orchestrates the booking lifecycle use cases.
type BookingService struct {
	bookings   booking.Repository
	properties property.Repository
	producer   EventPublisher
	logger     *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings booking.Repository,
	properties property.Repository,
	producer EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings:   bookings,
		properties: properties,
		producer:   producer,
		logger:     logger,
	}
}

// CreateBooking validates dates and availability, prices the stay, and
// persists a pending booking. The availability re-check and the insert run
// atomically in the repository, so a concurrent overlapping request loses
// with a conflict error.
func (s *BookingService) CreateBooking(ctx context.Context, actor auth.Actor, req CreateBookingRequest) (*BookingDTO, error) {
	if !auth.CanPerform(actor, auth.ActionCreateBooking, auth.Ownership{OwnerID: actor.ID}) {
		return nil, domain.NewForbiddenError("only customers can create bookings")
	}

	checkIn, checkOut, err := parseStayDates(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return nil, err
	}

	prop, err := s.properties.FindByID(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if !prop.IsVerified() {
		return nil, domain.NewValidationError("property is not available for booking")
	}

	totalPrice, err := booking.TotalPriceCents(prop.PricePerNightCents(), checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	bk, err := booking.New(actor.ID, prop.ID(), prop.HostID(), checkIn, checkOut, totalPrice)
	if err != nil {
		return nil, err
	}

	if err := s.bookings.CreateIfAvailable(ctx, bk); err != nil {
		return nil, err
	}

	evt := events.BookingRequestedEvent{
		BookingID:       bk.ID(),
		CustomerID:      bk.CustomerID(),
		PropertyID:      bk.PropertyID(),
		HostID:          bk.HostID(),
		CheckInDate:     bk.CheckIn(),
		CheckOutDate:    bk.CheckOut(),
		TotalPriceCents: bk.TotalPriceCents(),
		Currency:        bk.Currency(),
		OccurredAt:      time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingRequested, bk.ID().String(), evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// CheckAvailability reports whether a date range on a property is free and,
// when it is not, which bookings it collides with. Read-only.
func (s *BookingService) CheckAvailability(ctx context.Context, propertyID uuid.UUID, checkInDate, checkOutDate string) (*booking.Availability, error) {
	checkIn, checkOut, err := parseStayDates(checkInDate, checkOutDate)
	if err != nil {
		return nil, err
	}

	if _, err := s.properties.FindByID(ctx, propertyID); err != nil {
		return nil, err
	}

	conflicts, err := s.bookings.FindOverlapping(ctx, propertyID, checkIn, checkOut)
	if err != nil {
		return nil, fmt.Errorf("failed to check availability: %w", err)
	}

	return &booking.Availability{
		Available:             len(conflicts) == 0,
		ConflictingBookingIDs: conflicts,
	}, nil
}

// ConfirmBookingPayment confirms a pending booking after its payment has
// been approved. Replayed approvals for bookings that already left pending
// are ignored so the consumer does not spin on them.
func (s *BookingService) ConfirmBookingPayment(ctx context.Context, bookingID uuid.UUID) error {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}

	if bk.Status() != booking.StatusPending {
		s.logger.Warn("ignoring payment approval for non-pending booking",
			zap.String("booking_id", bookingID.String()),
			zap.String("status", bk.Status().String()),
		)
		return nil
	}

	if err := bk.Confirm(); err != nil {
		return err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return err
	}

	evt := events.BookingConfirmedEvent{
		BookingID:  bk.ID(),
		CustomerID: bk.CustomerID(),
		HostID:     bk.HostID(),
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingConfirmed, bk.ID().String(), evt)
	return nil
}

// CancelBooking cancels a pending or confirmed booking on behalf of the
// customer or the property's host.
func (s *BookingService) CancelBooking(ctx context.Context, actor auth.Actor, bookingID uuid.UUID, reason string) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	hostID := bk.HostID()
	target := auth.Ownership{OwnerID: bk.CustomerID(), CounterpartyID: &hostID}
	if !auth.CanPerform(actor, auth.ActionCancelBooking, target) {
		return nil, domain.NewForbiddenError("you are not allowed to cancel this booking")
	}

	if err := bk.Cancel(reason); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	evt := events.BookingCancelledEvent{
		BookingID:   bk.ID(),
		CancelledBy: actor.ID,
		Reason:      reason,
		OccurredAt:  time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingCancelled, bk.ID().String(), evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// CompleteBooking completes a confirmed booking once the stay is over.
// Only the property's host or an admin may do this.
func (s *BookingService) CompleteBooking(ctx context.Context, actor auth.Actor, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	hostID := bk.HostID()
	target := auth.Ownership{OwnerID: bk.CustomerID(), CounterpartyID: &hostID}
	if !auth.CanPerform(actor, auth.ActionCompleteBooking, target) {
		return nil, domain.NewForbiddenError("you are not allowed to complete this booking")
	}

	if err := bk.Complete(time.Now().UTC()); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	evt := events.BookingCompletedEvent{
		BookingID:       bk.ID(),
		CustomerID:      bk.CustomerID(),
		HostID:          bk.HostID(),
		TotalPriceCents: bk.TotalPriceCents(),
		Currency:        bk.Currency(),
		OccurredAt:      time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingCompleted, bk.ID().String(), evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking retrieves a single booking visible to the actor.
func (s *BookingService) GetBooking(ctx context.Context, actor auth.Actor, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	hostID := bk.HostID()
	target := auth.Ownership{OwnerID: bk.CustomerID(), CounterpartyID: &hostID}
	if !auth.CanPerform(actor, auth.ActionViewBooking, target) {
		return nil, domain.NewForbiddenError("you are not allowed to view this booking")
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// ListBookings returns the bookings visible to the actor: hosts see bookings
// on their properties, admins see everything, customers see their own.
func (s *BookingService) ListBookings(ctx context.Context, actor auth.Actor, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	var (
		items []*booking.Booking
		total int64
		err   error
	)

	switch actor.Role {
	case auth.RoleHost:
		items, total, err = s.bookings.FindByHostID(ctx, actor.ID, page, limit)
	case auth.RoleAdmin:
		items, total, err = s.bookings.ListAll(ctx, page, limit)
	default:
		items, total, err = s.bookings.FindByCustomerID(ctx, actor.ID, page, limit)
	}
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingDTO, len(items))
	for i, bk := range items {
		dtos[i] = toBookingDTO(bk)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// --- Admin methods ---

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	items, total, err := s.bookings.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	dtos := make([]BookingDTO, len(items))
	for i, bk := range items {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos, total, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
	}, nil
}

// --- Helpers ---

// parseStayDates parses a pair of YYYY-MM-DD dates and validates the range:
// check-out strictly after check-in, check-in today or later.
func parseStayDates(checkInDate, checkOutDate string) (time.Time, time.Time, error) {
	checkIn, err := time.ParseInLocation(dateLayout, checkInDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, domain.NewValidationError("check_in_date must be a YYYY-MM-DD date")
	}
	checkOut, err := time.ParseInLocation(dateLayout, checkOutDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, domain.NewValidationError("check_out_date must be a YYYY-MM-DD date")
	}
	if !checkOut.After(checkIn) {
		return time.Time{}, time.Time{}, domain.NewValidationError("check-out date must be after check-in date")
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if checkIn.Before(today) {
		return time.Time{}, time.Time{}, domain.NewValidationError("check-in date must not be in the past")
	}
	return checkIn, checkOut, nil
}

func toBookingDTO(bk *booking.Booking) BookingDTO {
	return BookingDTO{
		ID:              bk.ID(),
		CustomerID:      bk.CustomerID(),
		PropertyID:      bk.PropertyID(),
		HostID:          bk.HostID(),
		CheckInDate:     bk.CheckIn().Format(dateLayout),
		CheckOutDate:    bk.CheckOut().Format(dateLayout),
		TotalPriceCents: bk.TotalPriceCents(),
		Currency:        bk.Currency(),
		Status:          bk.Status().String(),
		PaymentStatus:   bk.PaymentStatus(),
		ConfirmedAt:     bk.ConfirmedAt(),
		CompletedAt:     bk.CompletedAt(),
		CancelledAt:     bk.CancelledAt(),
		CancelNote:      bk.CancelNote(),
		CreatedAt:       bk.CreatedAt(),
		UpdatedAt:       bk.UpdatedAt(),
	}
}

func (s *BookingService) publishEvent(ctx context.Context, topic, eventType, key string, data interface{}) {
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
