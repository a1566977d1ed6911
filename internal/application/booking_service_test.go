package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fast-lane/service-core/internal/auth"
	"github.com/fast-lane/service-core/internal/domain"
	"github.com/fast-lane/service-core/internal/domain/booking"
	"github.com/fast-lane/service-core/internal/domain/property"
	"github.com/fast-lane/service-core/internal/events"
)

type bookingFixture struct {
	svc        *BookingService
	bookings   *fakeBookingRepo
	properties *fakePropertyRepo
	publisher  *fakePublisher
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	bookings := newFakeBookingRepo()
	properties := newFakePropertyRepo()
	publisher := &fakePublisher{}
	svc := NewBookingService(bookings, properties, publisher, zap.NewNop())
	return &bookingFixture{svc: svc, bookings: bookings, properties: properties, publisher: publisher}
}

func (f *bookingFixture) seedVerifiedProperty(t *testing.T, hostID uuid.UUID, nightlyRate int64) *property.Property {
	t.Helper()
	p, err := property.New(hostID, property.TypeGuesthouse, "Villa Rosa", "", "Rue 1.234", "Bastos", 3.88, 11.52, nightlyRate)
	require.NoError(t, err)
	p.Verify()
	require.NoError(t, f.properties.Save(context.Background(), p))
	return p
}

func futureStay(checkInDays, checkOutDays int) (string, string) {
	base := time.Now().UTC().Truncate(24 * time.Hour)
	return base.AddDate(0, 0, checkInDays).Format("2006-01-02"),
		base.AddDate(0, 0, checkOutDays).Format("2006-01-02")
}

func TestCreateBookingPricesTheStay(t *testing.T) {
	f := newBookingFixture(t)
	hostID := uuid.New()
	prop := f.seedVerifiedProperty(t, hostID, 50000)
	customer := auth.Actor{ID: uuid.New(), Role: auth.RoleCustomer}

	checkIn, checkOut := futureStay(10, 15)
	dto, err := f.svc.CreateBooking(context.Background(), customer, CreateBookingRequest{
		PropertyID:   prop.ID(),
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(250000), dto.TotalPriceCents, "5 nights at 50000")
	assert.Equal(t, domain.CurrencyXAF, dto.Currency)
	assert.Equal(t, booking.StatusPending.String(), dto.Status)
	assert.Equal(t, hostID, dto.HostID)

	published := f.publisher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.TopicBookingEvents, published[0].Topic)
	assert.Equal(t, events.BookingRequested, published[0].Type)
	assert.Equal(t, dto.ID.String(), published[0].Key)
}

func TestCreateBookingRejectsNonCustomers(t *testing.T) {
	f := newBookingFixture(t)
	prop := f.seedVerifiedProperty(t, uuid.New(), 50000)
	checkIn, checkOut := futureStay(10, 12)

	for _, role := range []auth.Role{auth.RoleHost, auth.RoleDriver, auth.RoleAdmin} {
		_, err := f.svc.CreateBooking(context.Background(), auth.Actor{ID: uuid.New(), Role: role}, CreateBookingRequest{
			PropertyID: prop.ID(), CheckInDate: checkIn, CheckOutDate: checkOut,
		})
		var domainErr *domain.Error
		require.ErrorAs(t, err, &domainErr, "role %s", role)
		assert.Equal(t, domain.KindForbidden, domainErr.Kind)
	}
}

func TestCreateBookingRejectsUnverifiedProperty(t *testing.T) {
	f := newBookingFixture(t)
	p, err := property.New(uuid.New(), property.TypeApartment, "Hidden Flat", "", "addr", "Melen", 3.86, 11.5, 30000)
	require.NoError(t, err)
	require.NoError(t, f.properties.Save(context.Background(), p))

	checkIn, checkOut := futureStay(10, 12)
	_, err = f.svc.CreateBooking(context.Background(), auth.Actor{ID: uuid.New(), Role: auth.RoleCustomer}, CreateBookingRequest{
		PropertyID: p.ID(), CheckInDate: checkIn, CheckOutDate: checkOut,
	})
	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.KindValidation, domainErr.Kind)
}

func TestCreateBookingRejectsBadDates(t *testing.T) {
	f := newBookingFixture(t)
	prop := f.seedVerifiedProperty(t, uuid.New(), 50000)
	customer := auth.Actor{ID: uuid.New(), Role: auth.RoleCustomer}

	tests := []struct {
		name     string
		checkIn  string
		checkOut string
	}{
		{"malformed check-in", "20-12-2025", "2025-12-25"},
		{"check-out before check-in", "2027-12-25", "2027-12-20"},
		{"same day", "2027-12-20", "2027-12-20"},
		{"past check-in", "2020-01-01", "2020-01-05"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateBooking(context.Background(), customer, CreateBookingRequest{
				PropertyID: prop.ID(), CheckInDate: tt.checkIn, CheckOutDate: tt.checkOut,
			})
			var domainErr *domain.Error
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, domain.KindValidation, domainErr.Kind)
		})
	}
}

func TestCreateBookingConflictsOnOverlap(t *testing.T) {
	f := newBookingFixture(t)
	prop := f.seedVerifiedProperty(t, uuid.New(), 50000)
	ctx := context.Background()

	checkIn, checkOut := futureStay(10, 15)
	_, err := f.svc.CreateBooking(ctx, auth.Actor{ID: uuid.New(), Role: auth.RoleCustomer}, CreateBookingRequest{
		PropertyID: prop.ID(), CheckInDate: checkIn, CheckOutDate: checkOut,
	})
	require.NoError(t, err)

	// Overlapping stay on the same property loses.
	in2, out2 := futureStay(13, 18)
	_, err = f.svc.CreateBooking(ctx, auth.Actor{ID: uuid.New(), Role: auth.RoleCustomer}, CreateBookingRequest{
		PropertyID: prop.ID(), CheckInDate: in2, CheckOutDate: out2,
	})
	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.KindConflict, domainErr.Kind)

	// Back-to-back stay starting on the check-out day is fine.
	in3, out3 := futureStay(15, 18)
	_, err = f.svc.CreateBooking(ctx, auth.Actor{ID: uuid.New(), Role: auth.RoleCustomer}, CreateBookingRequest{
		PropertyID: prop.ID(), CheckInDate: in3, CheckOutDate: out3,
	})
	assert.NoError(t, err)
}

func TestCheckAvailability(t *testing.T) {
	f := newBookingFixture(t)
	prop := f.seedVerifiedProperty(t, uuid.New(), 50000)
	ctx := context.Background()

	checkIn, checkOut := futureStay(10, 15)
	dto, err := f.svc.CreateBooking(ctx, auth.Actor{ID: uuid.New(), Role: auth.RoleCustomer}, CreateBookingRequest{
		PropertyID: prop.ID(), CheckInDate: checkIn, CheckOutDate: checkOut,
	})
	require.NoError(t, err)

	in2, out2 := futureStay(12, 14)
	availability, err := f.svc.CheckAvailability(ctx, prop.ID(), in2, out2)
	require.NoError(t, err)
	assert.False(t, availability.Available)
	assert.Equal(t, []uuid.UUID{dto.ID}, availability.ConflictingBookingIDs)

	in3, out3 := futureStay(20, 25)
	availability, err = f.svc.CheckAvailability(ctx, prop.ID(), in3, out3)
	require.NoError(t, err)
	assert.True(t, availability.Available)
	assert.Empty(t, availability.ConflictingBookingIDs)
}

func TestConfirmBookingPayment(t *testing.T) {
	f := newBookingFixture(t)
	prop := f.seedVerifiedProperty(t, uuid.New(), 50000)
	ctx := context.Background()

	checkIn, checkOut := futureStay(10, 12)
	dto, err := f.svc.CreateBooking(ctx, auth.Actor{ID: uuid.New(), Role: auth.RoleCustomer}, CreateBookingRequest{
		PropertyID: prop.ID(), CheckInDate: checkIn, CheckOutDate: checkOut,
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.ConfirmBookingPayment(ctx, dto.ID))

	stored, err := f.bookings.FindByID(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusConfirmed, stored.Status())
	assert.Equal(t, domain.PaymentApproved, stored.PaymentStatus())

	// A replayed approval is a no-op, not an error.
	require.NoError(t, f.svc.ConfirmBookingPayment(ctx, dto.ID))
	assert.Equal(t, booking.StatusConfirmed, stored.Status())

	// Exactly one requested + one confirmed event.
	types := []string{}
	for _, e := range f.publisher.published() {
		types = append(types, e.Type)
	}
	assert.Equal(t, []string{events.BookingRequested, events.BookingConfirmed}, types)
}

func TestCancelBookingAuthorization(t *testing.T) {
	f := newBookingFixture(t)
	hostID := uuid.New()
	prop := f.seedVerifiedProperty(t, hostID, 50000)
	customer := auth.Actor{ID: uuid.New(), Role: auth.RoleCustomer}
	ctx := context.Background()

	checkIn, checkOut := futureStay(10, 12)
	dto, err := f.svc.CreateBooking(ctx, customer, CreateBookingRequest{
		PropertyID: prop.ID(), CheckInDate: checkIn, CheckOutDate: checkOut,
	})
	require.NoError(t, err)

	// A stranger cannot cancel.
	_, err = f.svc.CancelBooking(ctx, auth.Actor{ID: uuid.New(), Role: auth.RoleCustomer}, dto.ID, "nope")
	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.KindForbidden, domainErr.Kind)

	// The host can.
	cancelled, err := f.svc.CancelBooking(ctx, auth.Actor{ID: hostID, Role: auth.RoleHost}, dto.ID, "double booked")
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCancelled.String(), cancelled.Status)
	assert.Equal(t, "double booked", cancelled.CancelNote)

	// Cancelling a cancelled booking is an invalid transition.
	_, err = f.svc.CancelBooking(ctx, customer, dto.ID, "again")
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.KindInvalidState, domainErr.Kind)
}

func TestCompleteBookingBeforeCheckoutRejected(t *testing.T) {
	f := newBookingFixture(t)
	hostID := uuid.New()
	prop := f.seedVerifiedProperty(t, hostID, 50000)
	ctx := context.Background()

	checkIn, checkOut := futureStay(10, 12)
	dto, err := f.svc.CreateBooking(ctx, auth.Actor{ID: uuid.New(), Role: auth.RoleCustomer}, CreateBookingRequest{
		PropertyID: prop.ID(), CheckInDate: checkIn, CheckOutDate: checkOut,
	})
	require.NoError(t, err)
	require.NoError(t, f.svc.ConfirmBookingPayment(ctx, dto.ID))

	_, err = f.svc.CompleteBooking(ctx, auth.Actor{ID: hostID, Role: auth.RoleHost}, dto.ID)
	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.KindInvalidState, domainErr.Kind)
}

func TestCompleteBookingAfterStay(t *testing.T) {
	f := newBookingFixture(t)
	hostID, customerID := uuid.New(), uuid.New()
	ctx := context.Background()

	// Seed a confirmed booking whose stay already ended.
	confirmedAt := time.Now().UTC().AddDate(0, 0, -10)
	bk := booking.Reconstruct(
		uuid.New(), customerID, uuid.New(), hostID,
		time.Now().UTC().AddDate(0, 0, -7).Truncate(24*time.Hour),
		time.Now().UTC().AddDate(0, 0, -2).Truncate(24*time.Hour),
		250000, domain.CurrencyXAF,
		booking.StatusConfirmed, domain.PaymentApproved,
		&confirmedAt, nil, nil, "",
		2, confirmedAt, confirmedAt,
	)
	require.NoError(t, f.bookings.CreateIfAvailable(ctx, bk))

	// The customer may not complete.
	_, err := f.svc.CompleteBooking(ctx, auth.Actor{ID: customerID, Role: auth.RoleCustomer}, bk.ID())
	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.KindForbidden, domainErr.Kind)

	// The host may.
	dto, err := f.svc.CompleteBooking(ctx, auth.Actor{ID: hostID, Role: auth.RoleHost}, bk.ID())
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCompleted.String(), dto.Status)

	published := f.publisher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.BookingCompleted, published[0].Type)
}

func TestListBookingsByRole(t *testing.T) {
	f := newBookingFixture(t)
	hostID := uuid.New()
	prop := f.seedVerifiedProperty(t, hostID, 50000)
	customer := auth.Actor{ID: uuid.New(), Role: auth.RoleCustomer}
	ctx := context.Background()

	checkIn, checkOut := futureStay(10, 12)
	_, err := f.svc.CreateBooking(ctx, customer, CreateBookingRequest{
		PropertyID: prop.ID(), CheckInDate: checkIn, CheckOutDate: checkOut,
	})
	require.NoError(t, err)

	own, err := f.svc.ListBookings(ctx, customer, 1, 20)
	require.NoError(t, err)
	assert.Len(t, own.Items, 1)

	hosted, err := f.svc.ListBookings(ctx, auth.Actor{ID: hostID, Role: auth.RoleHost}, 1, 20)
	require.NoError(t, err)
	assert.Len(t, hosted.Items, 1)

	other, err := f.svc.ListBookings(ctx, auth.Actor{ID: uuid.New(), Role: auth.RoleCustomer}, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, other.Items)

	all, err := f.svc.ListBookings(ctx, auth.Actor{ID: uuid.New(), Role: auth.RoleAdmin}, 1, 20)
	require.NoError(t, err)
	assert.Len(t, all.Items, 1)
}

func TestGetBookingStats(t *testing.T) {
	f := newBookingFixture(t)
	prop := f.seedVerifiedProperty(t, uuid.New(), 50000)
	ctx := context.Background()

	in1, out1 := futureStay(10, 12)
	dto, err := f.svc.CreateBooking(ctx, auth.Actor{ID: uuid.New(), Role: auth.RoleCustomer}, CreateBookingRequest{
		PropertyID: prop.ID(), CheckInDate: in1, CheckOutDate: out1,
	})
	require.NoError(t, err)
	require.NoError(t, f.svc.ConfirmBookingPayment(ctx, dto.ID))

	in2, out2 := futureStay(20, 22)
	_, err = f.svc.CreateBooking(ctx, auth.Actor{ID: uuid.New(), Role: auth.RoleCustomer}, CreateBookingRequest{
		PropertyID: prop.ID(), CheckInDate: in2, CheckOutDate: out2,
	})
	require.NoError(t, err)

	stats, err := f.svc.GetBookingStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalBookings)
	assert.Equal(t, int64(1), stats.ByStatus[booking.StatusConfirmed.String()])
	assert.Equal(t, int64(1), stats.ByStatus[booking.StatusPending.String()])
}
