package delivery

import (
	"math"

	"github.com/fast-lane/service-core/internal/domain"
)

// FareCalculator estimates the fare for a delivery between two points.
type FareCalculator interface {
	// Estimate returns the fare in minor units.
	Estimate(pickup, dropoff Location) (int64, error)
}

// StandardFareCalculator prices a delivery as base fare plus a per-kilometer
// rate over the straight-line distance. Rates come from configuration.
type StandardFareCalculator struct {
	BaseCents  int64
	PerKmCents int64
}

// NewStandardFareCalculator creates a StandardFareCalculator with the given rates.
func NewStandardFareCalculator(baseCents, perKmCents int64) *StandardFareCalculator {
	return &StandardFareCalculator{BaseCents: baseCents, PerKmCents: perKmCents}
}

// Estimate computes base + perKm x haversine(pickup, dropoff).
func (c *StandardFareCalculator) Estimate(pickup, dropoff Location) (int64, error) {
	if err := pickup.Validate(); err != nil {
		return 0, err
	}
	if err := dropoff.Validate(); err != nil {
		return 0, err
	}

	distanceKm := HaversineKm(pickup.Latitude, pickup.Longitude, dropoff.Latitude, dropoff.Longitude)
	fare := c.BaseCents + int64(math.Round(distanceKm*float64(c.PerKmCents)))
	if fare <= 0 {
		return 0, domain.NewValidationError("estimated fare must be positive")
	}
	return fare, nil
}

// HaversineKm returns the great-circle distance between two coordinates in
// kilometers.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371.0

	dLat := degreesToRadians(lat2 - lat1)
	dLng := degreesToRadians(lng2 - lng1)

	lat1Rad := degreesToRadians(lat1)
	lat2Rad := degreesToRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
