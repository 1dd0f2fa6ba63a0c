package notifications

import (
	"encoding/json"
	"time"
)

// HoldEventType enumerates the lifecycle moments published to Kafka.
type HoldEventType string

const (
	HoldEventPlaced   HoldEventType = "HOLD_PLACED"
	HoldEventReleased HoldEventType = "HOLD_RELEASED"
	HoldEventExpired  HoldEventType = "HOLD_EXPIRED"
	HoldEventCheckout HoldEventType = "CHECKOUT_COMPLETED"
)

// HoldEvent is one hold lifecycle record. Events are partitioned by session
// id so one session's history stays ordered.
type HoldEvent struct {
	ID            string        `json:"id"`
	Type          HoldEventType `json:"type"`
	EventID       string        `json:"event_id"`
	SeatID        string        `json:"seat_id,omitempty"`
	SessionID     string        `json:"session_id"`
	ReservedUntil *time.Time    `json:"reserved_until,omitempty"`
	TotalPrice    float64       `json:"total_price,omitempty"`
	OccurredAt    time.Time     `json:"occurred_at"`
}

// ToJSON serializes the event for the wire.
func (e *HoldEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// PartitionKey keeps a session's events on one partition.
func (e *HoldEvent) PartitionKey() string {
	return e.SessionID
}
