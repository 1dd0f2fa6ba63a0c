package venues

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateTemplate(ctx context.Context, template *VenueTemplate) error
	GetTemplateByID(ctx context.Context, id uuid.UUID) (*VenueTemplate, error)
	ListTemplates(ctx context.Context) ([]VenueTemplate, error)
	DeleteTemplate(ctx context.Context, id uuid.UUID) error

	CreateSection(ctx context.Context, section *VenueSection) error
	GetSectionByID(ctx context.Context, id uuid.UUID) (*VenueSection, error)
	GetSectionsByEventID(ctx context.Context, eventID uuid.UUID) ([]VenueSection, error)
	UpdateSection(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	DeleteSection(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateTemplate(ctx context.Context, template *VenueTemplate) error {
	return r.db.WithContext(ctx).Create(template).Error
}

func (r *repository) GetTemplateByID(ctx context.Context, id uuid.UUID) (*VenueTemplate, error) {
	var template VenueTemplate
	if err := r.db.WithContext(ctx).First(&template, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *repository) ListTemplates(ctx context.Context) ([]VenueTemplate, error) {
	var templates []VenueTemplate
	err := r.db.WithContext(ctx).Order("name ASC").Find(&templates).Error
	return templates, err
}

func (r *repository) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&VenueTemplate{}, "id = ?", id).Error
}

func (r *repository) CreateSection(ctx context.Context, section *VenueSection) error {
	return r.db.WithContext(ctx).Create(section).Error
}

func (r *repository) GetSectionByID(ctx context.Context, id uuid.UUID) (*VenueSection, error) {
	var section VenueSection
	if err := r.db.WithContext(ctx).First(&section, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &section, nil
}

func (r *repository) GetSectionsByEventID(ctx context.Context, eventID uuid.UUID) ([]VenueSection, error) {
	var sections []VenueSection
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&sections).Error
	return sections, err
}

func (r *repository) UpdateSection(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&VenueSection{}).Where("id = ?", id).Updates(updates).Error
}

func (r *repository) DeleteSection(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&VenueSection{}, "id = ?", id).Error
}
