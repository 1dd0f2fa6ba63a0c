package events

import (
	"context"

	"github.com/google/uuid"
)

// SeatingModeAdapter exposes just the seating mode lookup the seat layout
// assembly needs, without handing it the whole events service.
type SeatingModeAdapter struct {
	svc Service
}

func NewSeatingModeAdapter(svc Service) *SeatingModeAdapter {
	return &SeatingModeAdapter{svc: svc}
}

func (a *SeatingModeAdapter) SeatingModeForEvent(ctx context.Context, eventID uuid.UUID) (string, error) {
	event, err := a.svc.GetEvent(ctx, eventID.String())
	if err != nil {
		return "", err
	}
	return string(event.SeatingMode), nil
}
