package tickettypes

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, ticketType *TicketType) error
	GetByID(ctx context.Context, id uuid.UUID) (*TicketType, error)
	GetByEventID(ctx context.Context, eventID uuid.UUID) ([]TicketType, error)
	GetActiveByEventID(ctx context.Context, eventID uuid.UUID) ([]TicketType, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	IncrementSold(ctx context.Context, id uuid.UUID, quantity int) error
	DecrementSold(ctx context.Context, id uuid.UUID, quantity int) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, ticketType *TicketType) error {
	return r.db.WithContext(ctx).Create(ticketType).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*TicketType, error) {
	var ticketType TicketType
	if err := r.db.WithContext(ctx).First(&ticketType, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ticketType, nil
}

func (r *repository) GetByEventID(ctx context.Context, eventID uuid.UUID) ([]TicketType, error) {
	var ticketTypes []TicketType
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("price ASC").
		Find(&ticketTypes).Error
	return ticketTypes, err
}

func (r *repository) GetActiveByEventID(ctx context.Context, eventID uuid.UUID) ([]TicketType, error) {
	var ticketTypes []TicketType
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND is_active = ?", eventID, true).
		Order("price ASC").
		Find(&ticketTypes).Error
	return ticketTypes, err
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&TicketType{}).Where("id = ?", id).Updates(updates).Error
}

// IncrementSold bumps the sold counter guarded against overselling; the
// WHERE clause makes the check atomic at the database.
func (r *repository) IncrementSold(ctx context.Context, id uuid.UUID, quantity int) error {
	result := r.db.WithContext(ctx).
		Model(&TicketType{}).
		Where("id = ? AND quantity_sold + ? <= quantity_total", id, quantity).
		Update("quantity_sold", gorm.Expr("quantity_sold + ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientCapacity
	}
	return nil
}

// DecrementSold lowers the sold counter; the WHERE guard keeps it from ever
// going negative if the compensation races another write.
func (r *repository) DecrementSold(ctx context.Context, id uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&TicketType{}).
		Where("id = ? AND quantity_sold >= ?", id, quantity).
		Update("quantity_sold", gorm.Expr("quantity_sold - ?", quantity)).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&TicketType{}, "id = ?", id).Error
}
