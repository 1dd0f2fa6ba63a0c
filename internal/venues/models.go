package venues

import (
	"time"

	"github.com/google/uuid"
)

// VenueTemplate is a reusable hall shape organizers clone per event.
type VenueTemplate struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name               string    `gorm:"uniqueIndex;not null" json:"name"`
	Description        string    `json:"description"`
	DefaultRows        int       `json:"default_rows"`
	DefaultSeatsPerRow int       `json:"default_seats_per_row"`
	LayoutType         string    `gorm:"not null" json:"layout_type"` // THEATER, CINEMA, TABLES
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TableName sets the table name for VenueTemplate
func (VenueTemplate) TableName() string {
	return "venue_templates"
}

// VenueSection is one priced block of an event's hall.
type VenueSection struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EventID         uuid.UUID `gorm:"type:uuid;not null;index" json:"event_id"`
	TemplateID      *uuid.UUID `gorm:"type:uuid" json:"template_id,omitempty"`
	Name            string    `gorm:"not null" json:"name"`
	PriceMultiplier float64   `gorm:"default:1.0" json:"price_multiplier"`
	RowStart        string    `json:"row_start"`
	RowEnd          string    `json:"row_end"`
	SeatsPerRow     int       `json:"seats_per_row"`
	TotalSeats      int       `json:"total_seats"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName sets the table name for VenueSection
func (VenueSection) TableName() string {
	return "venue_sections"
}
