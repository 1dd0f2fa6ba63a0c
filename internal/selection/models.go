package selection

import (
	"time"
)

// Per-seat selection states. A seat is PENDING from the moment the user asks
// for it until the hold is confirmed; PENDING blocks a second request for
// the same seat and is never billed.
const (
	SeatPending = "PENDING"
	SeatHeld    = "HELD"
)

// SelectedSeat is one seat inside a session's selection. RequestedAt is set
// while the seat is PENDING so reconciliation can tell an in-flight request
// from a marker orphaned by a crash.
type SelectedSeat struct {
	SeatID        string     `json:"seat_id"`
	Row           string     `json:"row"`
	SeatNumber    string     `json:"seat_number"`
	Price         float64    `json:"price"`
	Status        string     `json:"status"`
	ReservedUntil *time.Time `json:"reserved_until,omitempty"`
	RequestedAt   *time.Time `json:"requested_at,omitempty"`
}

// SelectedTable exists for wire compatibility with older clients; table
// booking was retired and the list is always empty.
type SelectedTable struct {
	TableID string   `json:"table_id"`
	SeatIDs []string `json:"seat_ids"`
	Price   float64  `json:"price"`
}

// GeneralTicketLine is one GA tier line in the selection.
type GeneralTicketLine struct {
	TicketTypeID string  `json:"ticket_type_id"`
	Name         string  `json:"name"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
}

// State is the full selection container for one session. TotalPrice is
// always recomputed from the lines below, never patched incrementally.
type State struct {
	SessionID      string              `json:"session_id"`
	EventID        string              `json:"event_id"`
	Mode           string              `json:"mode"`
	SelectedSeats  []SelectedSeat      `json:"selected_seats"`
	SelectedTables []SelectedTable     `json:"selected_tables"`
	GeneralTickets []GeneralTicketLine `json:"general_tickets"`
	TotalPrice     float64             `json:"total_price"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// Recompute rebuilds TotalPrice from scratch. Pending seats are not billed;
// only confirmed holds and GA lines count.
func (s *State) Recompute() {
	total := 0.0
	for _, seat := range s.SelectedSeats {
		if seat.Status == SeatHeld {
			total += seat.Price
		}
	}
	for _, line := range s.GeneralTickets {
		total += float64(line.Quantity) * line.UnitPrice
	}
	s.TotalPrice = total
}

// IsEmpty reports whether there is anything to check out.
func (s *State) IsEmpty() bool {
	if len(s.GeneralTickets) > 0 {
		return false
	}
	for _, seat := range s.SelectedSeats {
		if seat.Status == SeatHeld {
			return false
		}
	}
	return true
}

func (s *State) findSeat(seatID string) (int, bool) {
	for i, seat := range s.SelectedSeats {
		if seat.SeatID == seatID {
			return i, true
		}
	}
	return -1, false
}

func (s *State) removeSeat(seatID string) bool {
	i, ok := s.findSeat(seatID)
	if !ok {
		return false
	}
	s.SelectedSeats = append(s.SelectedSeats[:i], s.SelectedSeats[i+1:]...)
	return true
}

// StartRequest opens a selection session for one event.
type StartRequest struct {
	EventID string `json:"event_id" binding:"required,uuid"`
}

// SelectSeatRequest asks to add one seat to the selection.
type SelectSeatRequest struct {
	SeatID string `json:"seat_id" binding:"required,uuid"`
}

// GeneralTicketItem is one requested GA line.
type GeneralTicketItem struct {
	TicketTypeID string `json:"ticket_type_id" binding:"required,uuid"`
	Quantity     int    `json:"quantity" binding:"gte=0,lte=10"`
}

// SetGeneralTicketsRequest replaces the GA portion of the selection
// wholesale; quantity zero drops a line.
type SetGeneralTicketsRequest struct {
	Tickets []GeneralTicketItem `json:"tickets" binding:"dive"`
}

// CountdownResponse is the urgency readout for a session: the tightest
// remaining hold time, never negative.
type CountdownResponse struct {
	RemainingSeconds int64  `json:"remaining_seconds"`
	Level            string `json:"level"`
	HasHolds         bool   `json:"has_holds"`
}

// CheckoutResponse summarizes the booking produced from a selection.
type CheckoutResponse struct {
	BookingID      string  `json:"booking_id"`
	EventID        string  `json:"event_id"`
	TotalPrice     float64 `json:"total_price"`
	SeatCount      int     `json:"seat_count"`
	GeneralTickets int     `json:"general_tickets"`
}
