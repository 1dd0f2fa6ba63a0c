package events

import (
	"time"

	"github.com/google/uuid"
)

// SeatingMode distinguishes assigned-seat events from general admission.
type SeatingMode string

const (
	ModeEventHall        SeatingMode = "EVENT_HALL"
	ModeGeneralAdmission SeatingMode = "GENERAL_ADMISSION"
)

// Event lifecycle statuses.
const (
	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
	StatusCancelled = "CANCELLED"
	StatusCompleted = "COMPLETED"
)

// Event is the root aggregate layouts, ticket types and pricing hang off.
type Event struct {
	ID          uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrganizerID uuid.UUID   `gorm:"type:uuid;index;not null" json:"organizer_id"`
	Name        string      `gorm:"not null" json:"name"`
	Description string      `json:"description"`
	VenueName   string      `json:"venue_name"`
	SeatingMode SeatingMode `gorm:"type:varchar(20);default:'EVENT_HALL'" json:"seating_mode"`
	BasePrice   float64     `gorm:"not null;default:0" json:"base_price"`
	StartTime   time.Time   `gorm:"index" json:"start_time"`
	EndTime     time.Time   `json:"end_time"`
	Status      string      `gorm:"type:varchar(20);check:status IN ('DRAFT', 'PUBLISHED', 'CANCELLED', 'COMPLETED');default:'DRAFT'" json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// TableName sets the table name for Event
func (Event) TableName() string {
	return "events"
}

// CreateEventRequest is the organizer-facing creation payload
type CreateEventRequest struct {
	Name        string  `json:"name" binding:"required,min=3,max=200"`
	Description string  `json:"description"`
	VenueName   string  `json:"venue_name" binding:"required"`
	SeatingMode string  `json:"seating_mode" binding:"omitempty,oneof=EVENT_HALL GENERAL_ADMISSION"`
	BasePrice   float64 `json:"base_price" binding:"required,gt=0"`
	StartTime   string  `json:"start_time" binding:"required"`
	EndTime     string  `json:"end_time" binding:"required"`
}

// UpdateEventRequest carries optional fields for partial update
type UpdateEventRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	VenueName   *string  `json:"venue_name,omitempty"`
	BasePrice   *float64 `json:"base_price,omitempty"`
	Status      *string  `json:"status,omitempty"`
}
