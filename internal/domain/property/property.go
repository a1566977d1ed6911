// Package property holds the property aggregate: the catalog entries that
// bookings are made against.
package property

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fast-lane/service-core/internal/domain"
)

// Type classifies a listed property.
type Type string

const (
	TypeGuesthouse Type = "guesthouse"
	TypeEventHall  Type = "event_hall"
	TypeApartment  Type = "apartment"
	TypeRestaurant Type = "restaurant"
)

// IsValid returns true if the property type is recognized.
func (t Type) IsValid() bool {
	switch t {
	case TypeGuesthouse, TypeEventHall, TypeApartment, TypeRestaurant:
		return true
	}
	return false
}

// Property is the aggregate root for a host's listing. Only verified
// properties are browsable and bookable.
type Property struct {
	id          uuid.UUID
	hostID      uuid.UUID
	propType    Type
	name        string
	description string
	address     string
	quarter     string
	latitude    float64
	longitude   float64

	pricePerNightCents int64
	isVerified         bool

	createdAt time.Time
	updatedAt time.Time
}

// New creates an unverified property listing for the given host.
func New(hostID uuid.UUID, propType Type, name, description, address, quarter string, latitude, longitude float64, pricePerNightCents int64) (*Property, error) {
	if hostID == uuid.Nil {
		return nil, domain.NewValidationError("host ID is required")
	}
	if !propType.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid property type: %s", propType))
	}
	if name == "" {
		return nil, domain.NewValidationError("name is required")
	}
	if address == "" {
		return nil, domain.NewValidationError("address is required")
	}
	if quarter == "" {
		return nil, domain.NewValidationError("quarter is required")
	}
	if latitude < -90 || latitude > 90 {
		return nil, domain.NewValidationError("latitude must be between -90 and 90")
	}
	if longitude < -180 || longitude > 180 {
		return nil, domain.NewValidationError("longitude must be between -180 and 180")
	}
	if pricePerNightCents <= 0 {
		return nil, domain.NewValidationError("price per night must be positive")
	}

	now := time.Now().UTC()
	return &Property{
		id:                 uuid.New(),
		hostID:             hostID,
		propType:           propType,
		name:               name,
		description:        description,
		address:            address,
		quarter:            quarter,
		latitude:           latitude,
		longitude:          longitude,
		pricePerNightCents: pricePerNightCents,
		isVerified:         false,
		createdAt:          now,
		updatedAt:          now,
	}, nil
}

// Reconstruct rebuilds a Property from persistence data (no validation).
func Reconstruct(
	id, hostID uuid.UUID,
	propType Type,
	name, description, address, quarter string,
	latitude, longitude float64,
	pricePerNightCents int64,
	isVerified bool,
	createdAt, updatedAt time.Time,
) *Property {
	return &Property{
		id:                 id,
		hostID:             hostID,
		propType:           propType,
		name:               name,
		description:        description,
		address:            address,
		quarter:            quarter,
		latitude:           latitude,
		longitude:          longitude,
		pricePerNightCents: pricePerNightCents,
		isVerified:         isVerified,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

// ID returns the property's unique identifier.
func (p *Property) ID() uuid.UUID { return p.id }

// HostID returns the owning host's user ID.
func (p *Property) HostID() uuid.UUID { return p.hostID }

// PropType returns the property type.
func (p *Property) PropType() Type { return p.propType }

// Name returns the listing name.
func (p *Property) Name() string { return p.name }

// Description returns the listing description.
func (p *Property) Description() string { return p.description }

// Address returns the street address.
func (p *Property) Address() string { return p.address }

// Quarter returns the neighborhood used as a coarse location filter.
func (p *Property) Quarter() string { return p.quarter }

// Latitude returns the property latitude.
func (p *Property) Latitude() float64 { return p.latitude }

// Longitude returns the property longitude.
func (p *Property) Longitude() float64 { return p.longitude }

// PricePerNightCents returns the nightly rate in minor units.
func (p *Property) PricePerNightCents() int64 { return p.pricePerNightCents }

// IsVerified returns true once an admin has verified the listing.
func (p *Property) IsVerified() bool { return p.isVerified }

// CreatedAt returns the creation timestamp.
func (p *Property) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (p *Property) UpdatedAt() time.Time { return p.updatedAt }

// Update applies host-editable fields. Nil pointers leave fields unchanged.
func (p *Property) Update(propType *Type, name, description, address, quarter *string, latitude, longitude *float64, pricePerNightCents *int64) error {
	if propType != nil {
		if !propType.IsValid() {
			return domain.NewValidationError(fmt.Sprintf("invalid property type: %s", *propType))
		}
		p.propType = *propType
	}
	if name != nil {
		if *name == "" {
			return domain.NewValidationError("name must not be empty")
		}
		p.name = *name
	}
	if description != nil {
		p.description = *description
	}
	if address != nil {
		if *address == "" {
			return domain.NewValidationError("address must not be empty")
		}
		p.address = *address
	}
	if quarter != nil {
		if *quarter == "" {
			return domain.NewValidationError("quarter must not be empty")
		}
		p.quarter = *quarter
	}
	if latitude != nil {
		if *latitude < -90 || *latitude > 90 {
			return domain.NewValidationError("latitude must be between -90 and 90")
		}
		p.latitude = *latitude
	}
	if longitude != nil {
		if *longitude < -180 || *longitude > 180 {
			return domain.NewValidationError("longitude must be between -180 and 180")
		}
		p.longitude = *longitude
	}
	if pricePerNightCents != nil {
		if *pricePerNightCents <= 0 {
			return domain.NewValidationError("price per night must be positive")
		}
		p.pricePerNightCents = *pricePerNightCents
	}
	p.updatedAt = time.Now().UTC()
	return nil
}

// Verify marks the listing as verified, making it browsable and bookable.
func (p *Property) Verify() {
	p.isVerified = true
	p.updatedAt = time.Now().UTC()
}
