package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fast-lane/service-core/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func futureDate(daysAhead int) time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, daysAhead)
}

func newPendingBooking(t *testing.T) *Booking {
	t.Helper()
	b, err := New(uuid.New(), uuid.New(), uuid.New(), futureDate(10), futureDate(15), 250000)
	require.NoError(t, err)
	return b
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
}

func TestStatusBlocksAvailability(t *testing.T) {
	assert.True(t, StatusPending.BlocksAvailability())
	assert.True(t, StatusConfirmed.BlocksAvailability())
	assert.False(t, StatusCompleted.BlocksAvailability())
	assert.False(t, StatusCancelled.BlocksAvailability())
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("confirmed")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, s)

	_, err = ParseStatus("delivered")
	assert.Error(t, err)
}

func TestTotalPriceCents(t *testing.T) {
	// Five nights at 50000/night.
	total, err := TotalPriceCents(50000, date(2025, 12, 20), date(2025, 12, 25))
	require.NoError(t, err)
	assert.Equal(t, int64(250000), total)

	// One night is the minimum stay.
	total, err = TotalPriceCents(50000, date(2025, 12, 20), date(2025, 12, 21))
	require.NoError(t, err)
	assert.Equal(t, int64(50000), total)

	// Zero nights is invalid.
	_, err = TotalPriceCents(50000, date(2025, 12, 20), date(2025, 12, 20))
	assert.Error(t, err)
}

func TestTotalPriceCentsIsAdditiveOverSplits(t *testing.T) {
	d1 := date(2026, 1, 10)
	d2 := date(2026, 1, 13)
	d3 := date(2026, 1, 20)

	whole, err := TotalPriceCents(75000, d1, d3)
	require.NoError(t, err)
	first, err := TotalPriceCents(75000, d1, d2)
	require.NoError(t, err)
	second, err := TotalPriceCents(75000, d2, d3)
	require.NoError(t, err)

	assert.Equal(t, whole, first+second)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                   string
		aIn, aOut, bIn, bOut   time.Time
		want                   bool
	}{
		{"identical ranges", date(2026, 1, 10), date(2026, 1, 15), date(2026, 1, 10), date(2026, 1, 15), true},
		{"partial overlap", date(2026, 1, 10), date(2026, 1, 15), date(2026, 1, 13), date(2026, 1, 18), true},
		{"contained range", date(2026, 1, 10), date(2026, 1, 20), date(2026, 1, 12), date(2026, 1, 14), true},
		{"back to back, checkout on checkin day", date(2026, 1, 10), date(2026, 1, 15), date(2026, 1, 15), date(2026, 1, 18), false},
		{"disjoint", date(2026, 1, 10), date(2026, 1, 12), date(2026, 1, 20), date(2026, 1, 22), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aIn, tt.aOut, tt.bIn, tt.bOut))
			// Overlap is symmetric.
			assert.Equal(t, tt.want, Overlaps(tt.bIn, tt.bOut, tt.aIn, tt.aOut))
		})
	}
}

func TestNewBookingValidation(t *testing.T) {
	customerID, propertyID, hostID := uuid.New(), uuid.New(), uuid.New()

	_, err := New(uuid.Nil, propertyID, hostID, futureDate(1), futureDate(3), 100000)
	assert.Error(t, err)

	_, err = New(customerID, propertyID, hostID, futureDate(3), futureDate(1), 100000)
	assert.Error(t, err)

	_, err = New(customerID, propertyID, hostID, futureDate(-2), futureDate(3), 100000)
	assert.Error(t, err)

	_, err = New(customerID, propertyID, hostID, futureDate(1), futureDate(3), 0)
	assert.Error(t, err)

	b, err := New(customerID, propertyID, hostID, futureDate(1), futureDate(3), 100000)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, b.Status())
	assert.Equal(t, domain.PaymentPending, b.PaymentStatus())
	assert.Equal(t, domain.CurrencyXAF, b.Currency())
	assert.Equal(t, int64(1), b.Version())
}

func TestBookingConfirm(t *testing.T) {
	b := newPendingBooking(t)

	require.NoError(t, b.Confirm())
	assert.Equal(t, StatusConfirmed, b.Status())
	assert.Equal(t, domain.PaymentApproved, b.PaymentStatus())
	assert.NotNil(t, b.ConfirmedAt())

	// Confirming twice is an invalid transition.
	err := b.Confirm()
	require.Error(t, err)
	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.KindInvalidState, domainErr.Kind)
}

func TestBookingCompleteRequiresStayOver(t *testing.T) {
	b := newPendingBooking(t)
	require.NoError(t, b.Confirm())

	// Before check-out the booking cannot complete.
	err := b.Complete(time.Now().UTC())
	require.Error(t, err)
	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.KindInvalidState, domainErr.Kind)

	// After check-out it can.
	require.NoError(t, b.Complete(b.CheckOut().Add(time.Hour)))
	assert.Equal(t, StatusCompleted, b.Status())
	assert.NotNil(t, b.CompletedAt())
}

func TestBookingCompleteRequiresConfirmed(t *testing.T) {
	b := newPendingBooking(t)

	err := b.Complete(b.CheckOut().Add(time.Hour))
	require.Error(t, err)
	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.KindInvalidState, domainErr.Kind)
}

func TestBookingCancel(t *testing.T) {
	b := newPendingBooking(t)

	require.NoError(t, b.Cancel("plans changed"))
	assert.Equal(t, StatusCancelled, b.Status())
	assert.Equal(t, domain.PaymentCancelled, b.PaymentStatus())
	assert.Equal(t, "plans changed", b.CancelNote())
	assert.NotNil(t, b.CancelledAt())

	// Cancelled is terminal.
	assert.Error(t, b.Cancel("again"))
	assert.Error(t, b.Confirm())
}

func TestBookingCancelAfterConfirm(t *testing.T) {
	b := newPendingBooking(t)
	require.NoError(t, b.Confirm())
	require.NoError(t, b.Cancel("host unavailable"))
	assert.Equal(t, StatusCancelled, b.Status())
}

func TestIncrementVersion(t *testing.T) {
	b := newPendingBooking(t)
	require.Equal(t, int64(1), b.Version())
	b.IncrementVersion()
	assert.Equal(t, int64(2), b.Version())
}
