package application

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fast-lane/service-core/internal/domain"
	"github.com/fast-lane/service-core/internal/domain/booking"
	"github.com/fast-lane/service-core/internal/domain/delivery"
	"github.com/fast-lane/service-core/internal/domain/property"
	"github.com/fast-lane/service-core/internal/domain/review"
	"github.com/fast-lane/service-core/internal/kafka"
)

// fakePublisher records published events instead of talking to Kafka.
type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	Topic string
	Type  string
	Key   string
}

func (p *fakePublisher) PublishEvent(_ context.Context, topic, key string, event kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Topic: topic, Type: event.Type, Key: key})
	return nil
}

func (p *fakePublisher) published() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

// fakePropertyRepo is an in-memory property.Repository.
type fakePropertyRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*property.Property
}

func newFakePropertyRepo() *fakePropertyRepo {
	return &fakePropertyRepo{items: make(map[uuid.UUID]*property.Property)}
}

func (r *fakePropertyRepo) FindByID(_ context.Context, id uuid.UUID) (*property.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return nil, domain.NewNotFoundError("property", id.String())
	}
	return p, nil
}

func (r *fakePropertyRepo) FindVerified(_ context.Context, quarter string, page, limit int) ([]*property.Property, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*property.Property
	for _, p := range r.items {
		if p.IsVerified() {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakePropertyRepo) FindByHostID(_ context.Context, hostID uuid.UUID, page, limit int) ([]*property.Property, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*property.Property
	for _, p := range r.items {
		if p.HostID() == hostID {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakePropertyRepo) Save(_ context.Context, p *property.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[p.ID()] = p
	return nil
}

func (r *fakePropertyRepo) Update(_ context.Context, p *property.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[p.ID()]; !ok {
		return domain.NewNotFoundError("property", p.ID().String())
	}
	r.items[p.ID()] = p
	return nil
}

func (r *fakePropertyRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.NewNotFoundError("property", id.String())
	}
	delete(r.items, id)
	return nil
}

// fakeBookingRepo is an in-memory booking.Repository with the same overlap
// semantics as the real one.
type fakeBookingRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*booking.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{items: make(map[uuid.UUID]*booking.Booking)}
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domain.NewNotFoundError("booking", id.String())
	}
	return b, nil
}

func (r *fakeBookingRepo) FindOverlapping(_ context.Context, propertyID uuid.UUID, checkIn, checkOut time.Time) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.overlappingLocked(propertyID, checkIn, checkOut), nil
}

func (r *fakeBookingRepo) overlappingLocked(propertyID uuid.UUID, checkIn, checkOut time.Time) []uuid.UUID {
	var ids []uuid.UUID
	for _, b := range r.items {
		if b.PropertyID() == propertyID &&
			b.Status().BlocksAvailability() &&
			booking.Overlaps(b.CheckIn(), b.CheckOut(), checkIn, checkOut) {
			ids = append(ids, b.ID())
		}
	}
	return ids
}

func (r *fakeBookingRepo) CreateIfAvailable(_ context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.overlappingLocked(b.PropertyID(), b.CheckIn(), b.CheckOut())) > 0 {
		return domain.NewConflictError("property is not available for the requested dates")
	}
	r.items[b.ID()] = b
	return nil
}

func (r *fakeBookingRepo) FindByCustomerID(_ context.Context, customerID uuid.UUID, page, limit int) ([]*booking.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*booking.Booking
	for _, b := range r.items {
		if b.CustomerID() == customerID {
			out = append(out, b)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) FindByHostID(_ context.Context, hostID uuid.UUID, page, limit int) ([]*booking.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*booking.Booking
	for _, b := range r.items {
		if b.HostID() == hostID {
			out = append(out, b)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) ListAll(_ context.Context, page, limit int) ([]*booking.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*booking.Booking
	for _, b := range r.items {
		out = append(out, b)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, b := range r.items {
		counts[b.Status().String()]++
	}
	return counts, nil
}

func (r *fakeBookingRepo) Update(_ context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[b.ID()]; !ok {
		return domain.NewNotFoundError("booking", b.ID().String())
	}
	r.items[b.ID()] = b
	return nil
}

// fakeDeliveryRepo is an in-memory delivery.Repository.
type fakeDeliveryRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*delivery.Order
}

func newFakeDeliveryRepo() *fakeDeliveryRepo {
	return &fakeDeliveryRepo{items: make(map[uuid.UUID]*delivery.Order)}
}

func (r *fakeDeliveryRepo) FindByID(_ context.Context, id uuid.UUID) (*delivery.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.items[id]
	if !ok {
		return nil, domain.NewNotFoundError("order", id.String())
	}
	return o, nil
}

func (r *fakeDeliveryRepo) Save(_ context.Context, o *delivery.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[o.ID()] = o
	return nil
}

func (r *fakeDeliveryRepo) AcceptPending(_ context.Context, orderID, driverID uuid.UUID) (*delivery.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.items[orderID]
	if !ok {
		return nil, domain.NewNotFoundError("order", orderID.String())
	}
	if o.DriverID() != nil {
		return nil, domain.NewConflictError("order has already been accepted by another driver")
	}
	if err := o.Accept(driverID); err != nil {
		return nil, err
	}
	o.IncrementVersion()
	return o, nil
}

func (r *fakeDeliveryRepo) FindByCustomerID(_ context.Context, customerID uuid.UUID, page, limit int) ([]*delivery.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*delivery.Order
	for _, o := range r.items {
		if o.CustomerID() == customerID {
			out = append(out, o)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeDeliveryRepo) FindByDriverID(_ context.Context, driverID uuid.UUID, page, limit int) ([]*delivery.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*delivery.Order
	for _, o := range r.items {
		if o.DriverID() != nil && *o.DriverID() == driverID {
			out = append(out, o)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeDeliveryRepo) ListAll(_ context.Context, page, limit int) ([]*delivery.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*delivery.Order
	for _, o := range r.items {
		out = append(out, o)
	}
	return out, int64(len(out)), nil
}

func (r *fakeDeliveryRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, o := range r.items {
		counts[o.Status().String()]++
	}
	return counts, nil
}

func (r *fakeDeliveryRepo) Update(_ context.Context, o *delivery.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[o.ID()]; !ok {
		return domain.NewNotFoundError("order", o.ID().String())
	}
	r.items[o.ID()] = o
	return nil
}

// fakeReviewRepo is an in-memory review.Repository with the same uniqueness
// rule as the real one.
type fakeReviewRepo struct {
	mu         sync.Mutex
	items      []*review.Review
	knownUsers map[uuid.UUID]bool
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{knownUsers: make(map[uuid.UUID]bool)}
}

func (r *fakeReviewRepo) Save(_ context.Context, rev *review.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.ReviewerID() == rev.ReviewerID() && existing.Target() == rev.Target() {
			return domain.NewConflictError("you have already reviewed this target")
		}
	}
	r.items = append(r.items, rev)
	return nil
}

func (r *fakeReviewRepo) FindByTarget(_ context.Context, target review.Target, page, limit int) ([]*review.Review, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*review.Review
	for _, rev := range r.items {
		if rev.Target() == target {
			out = append(out, rev)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeReviewRepo) UserKnown(_ context.Context, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.knownUsers[userID], nil
}
