package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fast-lane/service-core/internal/auth"
	"github.com/fast-lane/service-core/internal/domain"
	"github.com/fast-lane/service-core/internal/domain/property"
)

// CreatePropertyRequest holds the data needed to list a new property.
type CreatePropertyRequest struct {
	Type               string  `json:"type" binding:"required"`
	Name               string  `json:"name" binding:"required"`
	Description        string  `json:"description"`
	Address            string  `json:"address" binding:"required"`
	Quarter            string  `json:"quarter" binding:"required"`
	Latitude           float64 `json:"latitude" binding:"required"`
	Longitude          float64 `json:"longitude" binding:"required"`
	PricePerNightCents int64   `json:"price_per_night_cents" binding:"required"`
}

// UpdatePropertyRequest holds partial updates; nil fields are unchanged.
type UpdatePropertyRequest struct {
	Type               *string  `json:"type"`
	Name               *string  `json:"name"`
	Description        *string  `json:"description"`
	Address            *string  `json:"address"`
	Quarter            *string  `json:"quarter"`
	Latitude           *float64 `json:"latitude"`
	Longitude          *float64 `json:"longitude"`
	PricePerNightCents *int64   `json:"price_per_night_cents"`
}

// PropertyDTO is the response representation of a property.
type PropertyDTO struct {
	ID                 uuid.UUID `json:"id"`
	HostID             uuid.UUID `json:"host_id"`
	Type               string    `json:"type"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	Address            string    `json:"address"`
	Quarter            string    `json:"quarter"`
	Latitude           float64   `json:"latitude"`
	Longitude          float64   `json:"longitude"`
	PricePerNightCents int64     `json:"price_per_night_cents"`
	IsVerified         bool      `json:"is_verified"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// PropertyService orchestrates the property catalog use cases.
type PropertyService struct {
	properties property.Repository
	logger     *zap.Logger
}

// NewPropertyService creates a new PropertyService.
func NewPropertyService(properties property.Repository, logger *zap.Logger) *PropertyService {
	return &PropertyService{properties: properties, logger: logger}
}

// CreateProperty lists a new, unverified property for the calling host.
func (s *PropertyService) CreateProperty(ctx context.Context, actor auth.Actor, req CreatePropertyRequest) (*PropertyDTO, error) {
	if !auth.CanPerform(actor, auth.ActionCreateProperty, auth.Ownership{OwnerID: actor.ID}) {
		return nil, domain.NewForbiddenError("only hosts can create properties")
	}

	prop, err := property.New(actor.ID, property.Type(req.Type), req.Name, req.Description, req.Address, req.Quarter, req.Latitude, req.Longitude, req.PricePerNightCents)
	if err != nil {
		return nil, err
	}

	if err := s.properties.Save(ctx, prop); err != nil {
		return nil, fmt.Errorf("failed to save property: %w", err)
	}

	result := toPropertyDTO(prop)
	return &result, nil
}

// ListProperties returns verified properties for public browsing, optionally
// filtered by quarter.
func (s *PropertyService) ListProperties(ctx context.Context, quarter string, page, limit int) (*domain.PaginatedResult[PropertyDTO], error) {
	items, total, err := s.properties.FindVerified(ctx, quarter, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]PropertyDTO, len(items))
	for i, p := range items {
		dtos[i] = toPropertyDTO(p)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// ListHostProperties returns all of the calling host's properties, including
// unverified ones.
func (s *PropertyService) ListHostProperties(ctx context.Context, actor auth.Actor, page, limit int) (*domain.PaginatedResult[PropertyDTO], error) {
	items, total, err := s.properties.FindByHostID(ctx, actor.ID, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]PropertyDTO, len(items))
	for i, p := range items {
		dtos[i] = toPropertyDTO(p)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// GetProperty retrieves a single property.
func (s *PropertyService) GetProperty(ctx context.Context, propertyID uuid.UUID) (*PropertyDTO, error) {
	prop, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	result := toPropertyDTO(prop)
	return &result, nil
}

// UpdateProperty applies host edits to an owned property.
func (s *PropertyService) UpdateProperty(ctx context.Context, actor auth.Actor, propertyID uuid.UUID, req UpdatePropertyRequest) (*PropertyDTO, error) {
	prop, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	if !auth.CanPerform(actor, auth.ActionUpdateProperty, auth.Ownership{OwnerID: prop.HostID()}) {
		return nil, domain.NewForbiddenError("you are not allowed to update this property")
	}

	var propType *property.Type
	if req.Type != nil {
		t := property.Type(*req.Type)
		propType = &t
	}
	if err := prop.Update(propType, req.Name, req.Description, req.Address, req.Quarter, req.Latitude, req.Longitude, req.PricePerNightCents); err != nil {
		return nil, err
	}

	if err := s.properties.Update(ctx, prop); err != nil {
		return nil, err
	}

	result := toPropertyDTO(prop)
	return &result, nil
}

// DeleteProperty removes a property owned by the calling host (or any, for
// an admin).
func (s *PropertyService) DeleteProperty(ctx context.Context, actor auth.Actor, propertyID uuid.UUID) error {
	prop, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		return err
	}

	if !auth.CanPerform(actor, auth.ActionDeleteProperty, auth.Ownership{OwnerID: prop.HostID()}) {
		return domain.NewForbiddenError("you are not allowed to delete this property")
	}

	return s.properties.Delete(ctx, propertyID)
}

// VerifyProperty marks a listing as verified (admin).
func (s *PropertyService) VerifyProperty(ctx context.Context, actor auth.Actor, propertyID uuid.UUID) (*PropertyDTO, error) {
	prop, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	if !auth.CanPerform(actor, auth.ActionVerifyProperty, auth.Ownership{OwnerID: prop.HostID()}) {
		return nil, domain.NewForbiddenError("only admins can verify properties")
	}

	prop.Verify()
	if err := s.properties.Update(ctx, prop); err != nil {
		return nil, err
	}

	s.logger.Info("property verified",
		zap.String("property_id", prop.ID().String()),
		zap.String("verified_by", actor.ID.String()),
	)

	result := toPropertyDTO(prop)
	return &result, nil
}

func toPropertyDTO(p *property.Property) PropertyDTO {
	return PropertyDTO{
		ID:                 p.ID(),
		HostID:             p.HostID(),
		Type:               string(p.PropType()),
		Name:               p.Name(),
		Description:        p.Description(),
		Address:            p.Address(),
		Quarter:            p.Quarter(),
		Latitude:           p.Latitude(),
		Longitude:          p.Longitude(),
		PricePerNightCents: p.PricePerNightCents(),
		IsVerified:         p.IsVerified(),
		CreatedAt:          p.CreatedAt(),
		UpdatedAt:          p.UpdatedAt(),
	}
}
