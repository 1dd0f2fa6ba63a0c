package seats

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateBatch(ctx context.Context, seats []Seat) error
	GetByID(ctx context.Context, id uuid.UUID) (*Seat, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Seat, error)
	GetByEventID(ctx context.Context, eventID uuid.UUID) ([]Seat, error)
	GetBySectionID(ctx context.Context, sectionID uuid.UUID) ([]Seat, error)
	GetStatusesByEventID(ctx context.Context, eventID uuid.UUID) (map[uuid.UUID]string, error)
	UpdateStatus(ctx context.Context, ids []uuid.UUID, status string) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	DeleteBySectionID(ctx context.Context, sectionID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBatch(ctx context.Context, seats []Seat) error {
	if len(seats) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(seats, 500).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Seat, error) {
	var seat Seat
	if err := r.db.WithContext(ctx).First(&seat, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &seat, nil
}

func (r *repository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&seats).Error
	return seats, err
}

func (r *repository) GetByEventID(ctx context.Context, eventID uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("row ASC, position ASC").
		Find(&seats).Error
	return seats, err
}

func (r *repository) GetBySectionID(ctx context.Context, sectionID uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := r.db.WithContext(ctx).
		Where("section_id = ?", sectionID).
		Order("row ASC, position ASC").
		Find(&seats).Error
	return seats, err
}

// GetStatusesByEventID fetches only id/status pairs, used when merging live
// status over a cached layout.
func (r *repository) GetStatusesByEventID(ctx context.Context, eventID uuid.UUID) (map[uuid.UUID]string, error) {
	var rows []struct {
		ID     uuid.UUID
		Status string
	}
	if err := r.db.WithContext(ctx).
		Model(&Seat{}).
		Select("id", "status").
		Where("event_id = ?", eventID).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	statuses := make(map[uuid.UUID]string, len(rows))
	for _, row := range rows {
		statuses[row.ID] = row.Status
	}
	return statuses, nil
}

func (r *repository) UpdateStatus(ctx context.Context, ids []uuid.UUID, status string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&Seat{}).
		Where("id IN ?", ids).
		Update("status", status).Error
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&Seat{}).Where("id = ?", id).Updates(updates).Error
}

func (r *repository) DeleteBySectionID(ctx context.Context, sectionID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Seat{}, "section_id = ?", sectionID).Error
}
