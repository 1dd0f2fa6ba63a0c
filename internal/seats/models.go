package seats

import (
	"time"

	"github.com/google/uuid"
)

// Seat statuses. RESERVED is never persisted; it is derived from a live hold
// in Redis when a layout or status snapshot is assembled. The database only
// knows AVAILABLE, BOOKED and UNAVAILABLE.
const (
	StatusAvailable   = "AVAILABLE"
	StatusReserved    = "RESERVED"
	StatusBooked      = "BOOKED"
	StatusUnavailable = "UNAVAILABLE"
)

// Seat is the single seat representation used across the service: identity,
// human label (row + number), render geometry, price and status, plus
// capability flags instead of parallel per-variant record shapes.
type Seat struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EventID    uuid.UUID `gorm:"type:uuid;index;not null" json:"event_id"`
	SectionID  uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_section_seat" json:"section_id"`
	Row        string    `gorm:"not null" json:"row"`
	SeatNumber string    `gorm:"not null;uniqueIndex:idx_section_seat" json:"seat_number"`
	Position   int       `gorm:"not null" json:"position"`

	// Render geometry for the client layout view.
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Price      float64 `gorm:"not null;default:0" json:"price"`
	Status     string  `gorm:"type:varchar(20);check:status IN ('AVAILABLE', 'BOOKED', 'UNAVAILABLE');default:'AVAILABLE'" json:"status"`
	VIP        bool    `gorm:"default:false" json:"vip"`
	Accessible bool    `gorm:"default:false" json:"accessible"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name for Seat
func (Seat) TableName() string {
	return "seats"
}

// SeatView is a seat as presented in a layout response, with the effective
// status after merging live holds.
type SeatView struct {
	ID         string  `json:"id"`
	SectionID  string  `json:"section_id"`
	Row        string  `json:"row"`
	SeatNumber string  `json:"seat_number"`
	Position   int     `json:"position"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Price      float64 `json:"price"`
	Status     string  `json:"status"`
	VIP        bool    `json:"vip,omitempty"`
	Accessible bool    `json:"accessible,omitempty"`
}

// StageGeometry positions the stage marker in the layout view.
type StageGeometry struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Label  string  `json:"label"`
}

// SectionView is the section summary embedded in a layout response.
type SectionView struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	PriceMultiplier float64 `json:"price_multiplier"`
	TotalSeats      int     `json:"total_seats"`
}

// LayoutResponse is the full seat map for one event. The geometry portion is
// served from a long-lived cache; statuses are always merged in live.
type LayoutResponse struct {
	EventID  string        `json:"event_id"`
	Mode     string        `json:"mode"`
	Stage    StageGeometry `json:"stage"`
	Sections []SectionView `json:"sections"`
	Seats    []SeatView    `json:"seats"`
}

// ReserveRequest asks for a hold on one seat, scoped by the caller's
// selection session.
type ReserveRequest struct {
	SeatID    string `json:"seat_id" binding:"required,uuid"`
	SessionID string `json:"session_id" binding:"required"`
}

// ReserveResponse confirms a hold and carries the server-granted expiry.
type ReserveResponse struct {
	SeatID        string    `json:"seat_id"`
	SeatNumber    string    `json:"seat_number"`
	Row           string    `json:"row"`
	Price         float64   `json:"price"`
	SessionID     string    `json:"session_id"`
	ReservedUntil time.Time `json:"reserved_until"`
}

// ReleaseRequest drops a hold owned by the caller's session.
type ReleaseRequest struct {
	SeatID    string `json:"seat_id" binding:"required,uuid"`
	SessionID string `json:"session_id" binding:"required"`
}

// SeatReservationStatus is the per-seat entry of a status snapshot.
type SeatReservationStatus struct {
	SeatID   string `json:"seat_id"`
	Status   string `json:"status"`
	Held     bool   `json:"held"`
	HeldByMe bool   `json:"held_by_me,omitempty"`
}

// ReservationStatusResponse is the live per-seat reserved/held snapshot for
// one event.
type ReservationStatusResponse struct {
	EventID string                  `json:"event_id"`
	Seats   []SeatReservationStatus `json:"seats"`
}
