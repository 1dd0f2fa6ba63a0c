package tickettypes

import (
	"time"

	"github.com/google/uuid"
)

// TicketType is a general-admission tier: a name, a price and a capacity.
// Sold counts move only at checkout; in-flight selections never decrement
// capacity.
type TicketType struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EventID       uuid.UUID `gorm:"type:uuid;index;not null" json:"event_id"`
	Name          string    `gorm:"not null" json:"name"`
	Description   string    `json:"description"`
	Price         float64   `gorm:"not null;default:0" json:"price"`
	QuantityTotal int       `gorm:"not null" json:"quantity_total"`
	QuantitySold  int       `gorm:"not null;default:0" json:"quantity_sold"`
	IsActive      bool      `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName sets the table name for TicketType
func (TicketType) TableName() string {
	return "ticket_types"
}

// Available returns how many tickets of this type can still be sold.
func (t *TicketType) Available() int {
	remaining := t.QuantityTotal - t.QuantitySold
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CustomerTicketType is the public shape: no sold counters, just whether and
// how many the caller can still buy.
type CustomerTicketType struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Available   int     `json:"available"`
	SoldOut     bool    `json:"sold_out"`
}

// CreateTicketTypeRequest creates one GA tier for an event.
type CreateTicketTypeRequest struct {
	Name          string  `json:"name" binding:"required,min=1,max=100"`
	Description   string  `json:"description"`
	Price         float64 `json:"price" binding:"required,gt=0"`
	QuantityTotal int     `json:"quantity_total" binding:"required,gt=0"`
}

// UpdateTicketTypeRequest carries optional fields for partial update.
type UpdateTicketTypeRequest struct {
	Name          *string  `json:"name,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Price         *float64 `json:"price,omitempty" binding:"omitempty,gt=0"`
	QuantityTotal *int     `json:"quantity_total,omitempty" binding:"omitempty,gt=0"`
	IsActive      *bool    `json:"is_active,omitempty"`
}
