package booking

import (
	"time"

	"github.com/fast-lane/service-core/internal/domain"
)

// Nights returns the number of whole nights in the half-open range
// [checkIn, checkOut). Dates are expected at UTC midnight.
func Nights(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn) / (24 * time.Hour))
}

// TotalPriceCents computes the stay price: nights x nightly rate, in minor
// units. A range shorter than one whole night is invalid. Pure function.
func TotalPriceCents(rateCents int64, checkIn, checkOut time.Time) (int64, error) {
	nights := Nights(checkIn, checkOut)
	if nights < 1 {
		return 0, domain.NewValidationError("stay must be at least one night")
	}
	return int64(nights) * rateCents, nil
}

// Overlaps reports whether the half-open ranges [aIn, aOut) and [bIn, bOut)
// intersect. A checkout on another booking's check-in day is not a conflict.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && aOut.After(bIn)
}
