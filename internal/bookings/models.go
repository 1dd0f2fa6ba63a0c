package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Booking statuses.
const (
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
)

// Booking is the durable record written at checkout, after every held seat
// was verified and flipped to BOOKED. It is keyed by the selection session
// that produced it.
type Booking struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EventID        uuid.UUID `gorm:"type:uuid;index;not null" json:"event_id"`
	SessionID      string    `gorm:"index;not null" json:"session_id"`
	Status         string    `gorm:"type:varchar(20);default:'CONFIRMED'" json:"status"`
	TotalPrice     float64   `gorm:"not null" json:"total_price"`
	SeatCount      int       `gorm:"not null;default:0" json:"seat_count"`
	GeneralTickets int       `gorm:"not null;default:0" json:"general_tickets"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Seats []BookingSeat `gorm:"foreignKey:BookingID" json:"seats,omitempty"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// BookingSeat snapshots one booked seat: label and price as sold, so later
// layout edits never rewrite history.
type BookingSeat struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID  uuid.UUID `gorm:"type:uuid;index;not null" json:"booking_id"`
	SeatID     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"seat_id"`
	Row        string    `json:"row"`
	SeatNumber string    `json:"seat_number"`
	Price      float64   `gorm:"not null" json:"price"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName sets the table name for BookingSeat
func (BookingSeat) TableName() string {
	return "booking_seats"
}
