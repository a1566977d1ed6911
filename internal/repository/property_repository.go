package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fast-lane/service-core/internal/domain"
	propertyDomain "github.com/fast-lane/service-core/internal/domain/property"
)

// PropertyModel is the GORM model for the properties table.
type PropertyModel struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	HostID             uuid.UUID `gorm:"type:uuid;index;not null"`
	Type               string    `gorm:"not null;size:30"`
	Name               string    `gorm:"not null;size:255"`
	Description        string    `gorm:"type:text"`
	Address            string    `gorm:"not null;size:255"`
	Quarter            string    `gorm:"not null;size:100;index"`
	Latitude           float64   `gorm:"not null"`
	Longitude          float64   `gorm:"not null"`
	PricePerNightCents int64     `gorm:"not null"`
	IsVerified         bool      `gorm:"not null;default:false;index"`
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (PropertyModel) TableName() string {
	return "properties"
}

// GormPropertyRepository is the GORM-based implementation of property.Repository.
type GormPropertyRepository struct {
	db *gorm.DB
}

// NewGormPropertyRepository creates a new GormPropertyRepository.
func NewGormPropertyRepository(db *gorm.DB) *GormPropertyRepository {
	return &GormPropertyRepository{db: db}
}

// FindByID retrieves a property by its unique identifier.
func (r *GormPropertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*propertyDomain.Property, error) {
	var model PropertyModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("property", id.String())
		}
		return nil, fmt.Errorf("failed to find property by ID: %w", err)
	}
	return toDomainProperty(&model), nil
}

// FindVerified retrieves verified properties, optionally filtered by quarter.
func (r *GormPropertyRepository) FindVerified(ctx context.Context, quarter string, page, limit int) ([]*propertyDomain.Property, int64, error) {
	query := r.db.WithContext(ctx).Model(&PropertyModel{}).Where("is_verified = ?", true)
	if quarter != "" {
		query = query.Where("quarter ILIKE ?", "%"+quarter+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count properties: %w", err)
	}

	var models []PropertyModel
	offset := (page - 1) * limit
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find properties: %w", err)
	}

	return toDomainProperties(models), total, nil
}

// FindByHostID retrieves all of a host's properties, verified or not.
func (r *GormPropertyRepository) FindByHostID(ctx context.Context, hostID uuid.UUID, page, limit int) ([]*propertyDomain.Property, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&PropertyModel{}).Where("host_id = ?", hostID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count host properties: %w", err)
	}

	var models []PropertyModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where("host_id = ?", hostID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find host properties: %w", err)
	}

	return toDomainProperties(models), total, nil
}

// Save persists a new property.
func (r *GormPropertyRepository) Save(ctx context.Context, p *propertyDomain.Property) error {
	if err := r.db.WithContext(ctx).Create(toPropertyModel(p)).Error; err != nil {
		return fmt.Errorf("failed to save property: %w", err)
	}
	return nil
}

// Update persists changes to an existing property.
func (r *GormPropertyRepository) Update(ctx context.Context, p *propertyDomain.Property) error {
	model := toPropertyModel(p)
	result := r.db.WithContext(ctx).
		Model(&PropertyModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"type":                  model.Type,
			"name":                  model.Name,
			"description":           model.Description,
			"address":               model.Address,
			"quarter":               model.Quarter,
			"latitude":              model.Latitude,
			"longitude":             model.Longitude,
			"price_per_night_cents": model.PricePerNightCents,
			"is_verified":           model.IsVerified,
			"updated_at":            model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update property: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("property", model.ID.String())
	}
	return nil
}

// Delete removes a property.
func (r *GormPropertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&PropertyModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete property: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("property", id.String())
	}
	return nil
}

// --- Conversion helpers ---

func toPropertyModel(p *propertyDomain.Property) *PropertyModel {
	return &PropertyModel{
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

func toDomainProperty(m *PropertyModel) *propertyDomain.Property {
	return propertyDomain.Reconstruct(
		m.ID,
		m.HostID,
		propertyDomain.Type(m.Type),
		m.Name,
		m.Description,
		m.Address,
		m.Quarter,
		m.Latitude,
		m.Longitude,
		m.PricePerNightCents,
		m.IsVerified,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

func toDomainProperties(models []PropertyModel) []*propertyDomain.Property {
	properties := make([]*propertyDomain.Property, len(models))
	for i, m := range models {
		properties[i] = toDomainProperty(&m)
	}
	return properties
}
