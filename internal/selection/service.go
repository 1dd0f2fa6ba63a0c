package selection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"stagepass/internal/bookings"
	"stagepass/internal/events"
	"stagepass/internal/expiry"
	"stagepass/internal/notifications"
	"stagepass/internal/seats"
	"stagepass/internal/shared/config"
	"stagepass/internal/tickettypes"
	"stagepass/pkg/logger"
)

// pendingGracePeriod is how long a PENDING marker may sit in state without a
// matching hold before reconciliation scrubs it. Long enough to cover a hold
// request in flight, short enough that a crashed select does not wedge the
// seat for the session.
const pendingGracePeriod = 30 * time.Second

var (
	ErrSessionNotFound  = errors.New("selection session not found")
	ErrEventNotOnSale   = errors.New("event is not open for sale")
	ErrSeatPending      = errors.New("seat request already in progress")
	ErrNothingToBook    = errors.New("selection is empty")
	ErrHoldLapsed       = errors.New("a held seat expired before checkout")
	ErrSeatNotInSession = errors.New("seat does not belong to this session")
)

type Service interface {
	// Session lifecycle
	Start(ctx context.Context, req StartRequest) (*State, error)
	Get(ctx context.Context, sessionID string) (*State, error)

	// Selection mutations
	SelectSeat(ctx context.Context, sessionID, seatID string) (*State, error)
	DeselectSeat(ctx context.Context, sessionID, seatID string) (*State, error)
	SetGeneralTickets(ctx context.Context, sessionID string, req SetGeneralTicketsRequest) (*State, error)

	// Countdown and checkout
	Countdown(ctx context.Context, sessionID string) (*CountdownResponse, error)
	Checkout(ctx context.Context, sessionID string) (*CheckoutResponse, error)

	// HandleExpiry is the expiry monitor callback: it scrubs the lapsed
	// seat out of the session's state.
	HandleExpiry(hold expiry.Hold)
}

type service struct {
	store      Store
	seatsSvc   seats.Service
	holds      seats.HoldStore
	eventsSvc  events.Service
	ticketsSvc tickettypes.Service
	bookingSvc bookings.Service
	monitor    *expiry.Monitor
	producer   notifications.Producer
	cfg        *config.Config
	log        *logger.Logger
}

func NewService(
	store Store,
	seatsSvc seats.Service,
	holds seats.HoldStore,
	eventsSvc events.Service,
	ticketsSvc tickettypes.Service,
	bookingSvc bookings.Service,
	monitor *expiry.Monitor,
	cfg *config.Config,
) *service {
	return &service{
		store:      store,
		seatsSvc:   seatsSvc,
		holds:      holds,
		eventsSvc:  eventsSvc,
		ticketsSvc: ticketsSvc,
		bookingSvc: bookingSvc,
		monitor:    monitor,
		cfg:        cfg,
		log:        logger.GetDefault(),
	}
}

// SetProducer wires the optional Kafka producer; without it lifecycle events
// are simply not published.
func (s *service) SetProducer(producer notifications.Producer) {
	s.producer = producer
}

// Start opens a fresh selection session against a published event. The
// session id is the only credential the selection flow ever needs.
func (s *service) Start(ctx context.Context, req StartRequest) (*State, error) {
	event, err := s.eventsSvc.GetEvent(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	if event.Status != events.StatusPublished {
		return nil, ErrEventNotOnSale
	}

	state := &State{
		SessionID:      uuid.NewString(),
		EventID:        event.ID.String(),
		Mode:           string(event.SeatingMode),
		SelectedSeats:  []SelectedSeat{},
		SelectedTables: []SelectedTable{},
		GeneralTickets: []GeneralTicketLine{},
	}
	if err := s.store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	s.log.Info("selection session started", "session_id", state.SessionID, "event_id", state.EventID)
	return state, nil
}

// Get returns the session state reconciled against the live holds in Redis.
// After a client reload this is what rebuilds the selection: seats whose
// holds died are dropped, surviving holds get fresh expiry times, and holds
// recorded in Redis but missing from state are re-adopted.
func (s *service) Get(ctx context.Context, sessionID string) (*State, error) {
	state, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.reconcile(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *service) reconcile(ctx context.Context, state *State) error {
	eventID, err := uuid.Parse(state.EventID)
	if err != nil {
		return fmt.Errorf("corrupt session state: %w", err)
	}

	liveIDs, err := s.holds.SessionSeatIDs(ctx, state.SessionID)
	if err != nil {
		return fmt.Errorf("failed to read session holds: %w", err)
	}
	live := make(map[string]bool, len(liveIDs))
	for _, id := range liveIDs {
		live[id] = true
	}

	changed := false
	kept := state.SelectedSeats[:0]
	for _, seat := range state.SelectedSeats {
		switch {
		case seat.Status == SeatHeld && !live[seat.SeatID]:
			// Hold died while the client was away.
			s.monitorUntrack(state.SessionID, seat.SeatID)
			changed = true
			continue
		case seat.Status == SeatHeld:
			if until, ok := s.refreshExpiry(ctx, eventID, state.SessionID, seat.SeatID); ok {
				seat.ReservedUntil = &until
			}
			delete(live, seat.SeatID)
		case seat.Status == SeatPending && live[seat.SeatID]:
			// The hold landed but the confirming write was lost. Promote
			// the existing entry in place so the seat never appears twice.
			if full, err := s.seatsSvc.GetSeat(ctx, seat.SeatID); err == nil {
				seat.Row = full.Row
				seat.SeatNumber = full.SeatNumber
				seat.Price = full.Price
			}
			seat.Status = SeatHeld
			seat.RequestedAt = nil
			if until, ok := s.refreshExpiry(ctx, eventID, state.SessionID, seat.SeatID); ok {
				seat.ReservedUntil = &until
			}
			delete(live, seat.SeatID)
			changed = true
		case seat.Status == SeatPending:
			// No hold behind the marker. A fresh one belongs to a select
			// still in flight; a stale one is debris from a crashed select
			// and would block the seat for the session forever.
			if seat.RequestedAt == nil || time.Since(*seat.RequestedAt) > pendingGracePeriod {
				changed = true
				continue
			}
		}
		kept = append(kept, seat)
	}
	state.SelectedSeats = kept

	// Holds present in Redis but absent from state: a write was lost
	// mid-flight, re-adopt them.
	for seatID := range live {
		seat, err := s.seatsSvc.GetSeat(ctx, seatID)
		if err != nil {
			continue
		}
		selected := SelectedSeat{
			SeatID:     seatID,
			Row:        seat.Row,
			SeatNumber: seat.SeatNumber,
			Price:      seat.Price,
			Status:     SeatHeld,
		}
		if until, ok := s.refreshExpiry(ctx, eventID, state.SessionID, seatID); ok {
			selected.ReservedUntil = &until
		}
		state.SelectedSeats = append(state.SelectedSeats, selected)
		changed = true
	}

	state.Recompute()
	if changed {
		return s.store.Save(ctx, state)
	}
	return nil
}

func (s *service) refreshExpiry(ctx context.Context, eventID uuid.UUID, sessionID, seatID string) (time.Time, bool) {
	id, err := uuid.Parse(seatID)
	if err != nil {
		return time.Time{}, false
	}
	ttl, err := s.holds.RemainingTTL(ctx, eventID, id)
	if err != nil || ttl <= 0 {
		return time.Time{}, false
	}
	until := time.Now().Add(ttl)
	s.monitor.Track(expiry.Hold{SessionID: sessionID, SeatID: id, EventID: eventID, ExpiresAt: until})
	return until, true
}

// SelectSeat runs the two-phase request->confirm flow: the seat is recorded
// as PENDING before the hold is attempted, so a double click cannot fire two
// hold requests, and it only becomes HELD once the hold is confirmed.
func (s *service) SelectSeat(ctx context.Context, sessionID, seatID string) (*State, error) {
	state, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if i, ok := state.findSeat(seatID); ok {
		if state.SelectedSeats[i].Status == SeatPending {
			return nil, ErrSeatPending
		}
		// Already held by this session: selecting again is a no-op.
		return state, nil
	}

	requestedAt := time.Now().UTC()
	state.SelectedSeats = append(state.SelectedSeats, SelectedSeat{
		SeatID:      seatID,
		Status:      SeatPending,
		RequestedAt: &requestedAt,
	})
	if err := s.store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to persist pending selection: %w", err)
	}

	result, err := s.seatsSvc.Reserve(ctx, seats.ReserveRequest{
		SeatID:    seatID,
		SessionID: sessionID,
	})
	if err != nil {
		// Roll the pending marker back before surfacing the failure.
		state.removeSeat(seatID)
		state.Recompute()
		if saveErr := s.store.Save(ctx, state); saveErr != nil {
			s.log.Error("failed to roll back pending seat", "session_id", sessionID, "seat_id", seatID, "error", saveErr.Error())
		}
		return nil, err
	}

	i, _ := state.findSeat(seatID)
	state.SelectedSeats[i] = SelectedSeat{
		SeatID:        seatID,
		Row:           result.Row,
		SeatNumber:    result.SeatNumber,
		Price:         result.Price,
		Status:        SeatHeld,
		ReservedUntil: &result.ReservedUntil,
	}
	state.Recompute()
	if err := s.store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to persist selection: %w", err)
	}

	if seatUUID, err := uuid.Parse(seatID); err == nil {
		eventUUID, _ := uuid.Parse(state.EventID)
		s.monitor.Track(expiry.Hold{
			SessionID: sessionID,
			SeatID:    seatUUID,
			EventID:   eventUUID,
			ExpiresAt: result.ReservedUntil,
		})
	}
	return state, nil
}

// DeselectSeat removes a seat from the selection and releases its hold.
// Deselecting a seat that was never selected is a no-op and must not fire a
// release request.
func (s *service) DeselectSeat(ctx context.Context, sessionID, seatID string) (*State, error) {
	state, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	i, ok := state.findSeat(seatID)
	if !ok {
		return state, nil
	}
	wasHeld := state.SelectedSeats[i].Status == SeatHeld

	state.removeSeat(seatID)
	state.Recompute()
	if err := s.store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to persist selection: %w", err)
	}

	if wasHeld {
		if err := s.seatsSvc.Release(ctx, seats.ReleaseRequest{
			SeatID:    seatID,
			SessionID: sessionID,
		}); err != nil && !errors.Is(err, seats.ErrHoldNotFound) {
			s.log.Error("failed to release deselected seat", "session_id", sessionID, "seat_id", seatID, "error", err.Error())
		}
		s.monitorUntrack(sessionID, seatID)
	}
	return state, nil
}

// SetGeneralTickets replaces the GA portion of the selection wholesale. Each
// line is validated against remaining capacity; capacity only moves at
// checkout.
func (s *service) SetGeneralTickets(ctx context.Context, sessionID string, req SetGeneralTicketsRequest) (*State, error) {
	state, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	lines := make([]GeneralTicketLine, 0, len(req.Tickets))
	for _, item := range req.Tickets {
		if item.Quantity == 0 {
			continue
		}
		ticketTypeID, err := uuid.Parse(item.TicketTypeID)
		if err != nil {
			return nil, fmt.Errorf("invalid ticket type ID: %w", err)
		}
		ticketType, err := s.ticketsSvc.ValidateQuantity(ctx, ticketTypeID, item.Quantity)
		if err != nil {
			return nil, err
		}
		lines = append(lines, GeneralTicketLine{
			TicketTypeID: ticketType.ID.String(),
			Name:         ticketType.Name,
			Quantity:     item.Quantity,
			UnitPrice:    ticketType.Price,
		})
	}

	state.GeneralTickets = lines
	state.Recompute()
	if err := s.store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to persist selection: %w", err)
	}
	return state, nil
}

// Countdown reports the tightest remaining hold time for the session. State
// is reconciled first so the readout stays honest even when the monitor was
// emptied by a restart: reconciliation re-tracks every surviving hold.
func (s *service) Countdown(ctx context.Context, sessionID string) (*CountdownResponse, error) {
	state, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.reconcile(ctx, state); err != nil {
		return nil, err
	}

	remaining, ok := s.monitor.MinRemaining(sessionID)
	if !ok {
		return &CountdownResponse{Level: expiry.LevelOK}, nil
	}
	return &CountdownResponse{
		RemainingSeconds: int64(remaining.Seconds()),
		Level:            s.monitor.Level(remaining),
		HasHolds:         true,
	}, nil
}

// Checkout commits the selection: every held seat is verified against its
// live hold, GA capacity is committed, seats flip to BOOKED and a booking
// row is written. The selection is cleared afterwards.
func (s *service) Checkout(ctx context.Context, sessionID string) (*CheckoutResponse, error) {
	state, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.reconcile(ctx, state); err != nil {
		return nil, err
	}
	if state.IsEmpty() {
		return nil, ErrNothingToBook
	}

	eventID, err := uuid.Parse(state.EventID)
	if err != nil {
		return nil, fmt.Errorf("corrupt session state: %w", err)
	}

	// Verify every hold is still alive before committing anything.
	heldSeats := make([]SelectedSeat, 0, len(state.SelectedSeats))
	seatIDs := make([]uuid.UUID, 0, len(state.SelectedSeats))
	for _, seat := range state.SelectedSeats {
		if seat.Status != SeatHeld {
			continue
		}
		seatUUID, err := uuid.Parse(seat.SeatID)
		if err != nil {
			return nil, fmt.Errorf("corrupt seat ID in session: %w", err)
		}
		ttl, err := s.holds.RemainingTTL(ctx, eventID, seatUUID)
		if err != nil || ttl <= 0 {
			return nil, ErrHoldLapsed
		}
		heldSeats = append(heldSeats, seat)
		seatIDs = append(seatIDs, seatUUID)
	}

	// GA capacity moves first; the database guards against overselling.
	// Every step from here on compensates the ones before it on failure,
	// so an aborted checkout leaves counters and seats as they were and
	// the session free to retry.
	generalCount := 0
	committed := make([]GeneralTicketLine, 0, len(state.GeneralTickets))
	for _, line := range state.GeneralTickets {
		ticketTypeID, err := uuid.Parse(line.TicketTypeID)
		if err != nil {
			s.rollbackCommit(ctx, committed, nil)
			return nil, fmt.Errorf("corrupt ticket type ID in session: %w", err)
		}
		if err := s.ticketsSvc.CommitSale(ctx, ticketTypeID, line.Quantity); err != nil {
			s.rollbackCommit(ctx, committed, nil)
			return nil, err
		}
		committed = append(committed, line)
		generalCount += line.Quantity
	}

	if len(seatIDs) > 0 {
		if err := s.seatsSvc.MarkBooked(ctx, seatIDs); err != nil {
			s.rollbackCommit(ctx, committed, nil)
			return nil, fmt.Errorf("failed to mark seats booked: %w", err)
		}
	}

	booking := &bookings.Booking{
		EventID:        eventID,
		SessionID:      sessionID,
		Status:         bookings.StatusConfirmed,
		TotalPrice:     state.TotalPrice,
		SeatCount:      len(heldSeats),
		GeneralTickets: generalCount,
	}
	for _, seat := range heldSeats {
		seatUUID, _ := uuid.Parse(seat.SeatID)
		booking.Seats = append(booking.Seats, bookings.BookingSeat{
			SeatID:     seatUUID,
			Row:        seat.Row,
			SeatNumber: seat.SeatNumber,
			Price:      seat.Price,
		})
	}
	if err := s.bookingSvc.Create(ctx, booking); err != nil {
		s.rollbackCommit(ctx, committed, seatIDs)
		return nil, err
	}

	// Holds are spent; drop them without waiting for the TTL.
	for _, seat := range heldSeats {
		seatUUID, _ := uuid.Parse(seat.SeatID)
		if err := s.holds.Release(ctx, eventID, seatUUID, sessionID); err != nil &&
			!errors.Is(err, seats.ErrHoldNotFound) {
			s.log.Error("failed to release booked seat hold", "session_id", sessionID, "seat_id", seat.SeatID, "error", err.Error())
		}
	}
	s.monitor.UntrackSession(sessionID)
	s.seatsSvc.InvalidateLayoutCache(ctx, eventID)

	totalPrice := state.TotalPrice
	cleared := &State{
		SessionID:      state.SessionID,
		EventID:        state.EventID,
		Mode:           state.Mode,
		SelectedSeats:  []SelectedSeat{},
		SelectedTables: []SelectedTable{},
		GeneralTickets: []GeneralTicketLine{},
	}
	if err := s.store.Save(ctx, cleared); err != nil {
		s.log.Error("failed to clear selection after checkout", "session_id", sessionID, "error", err.Error())
	}

	s.publishCheckout(ctx, booking.ID.String(), state.EventID, sessionID, totalPrice)
	s.log.LogCheckoutCompleted(ctx, booking.ID.String(), state.EventID, sessionID, totalPrice)

	return &CheckoutResponse{
		BookingID:      booking.ID.String(),
		EventID:        state.EventID,
		TotalPrice:     totalPrice,
		SeatCount:      len(heldSeats),
		GeneralTickets: generalCount,
	}, nil
}

// HandleExpiry scrubs a lapsed hold out of the owning session's state. The
// Redis key is already gone; this keeps the stored selection honest.
func (s *service) HandleExpiry(hold expiry.Hold) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	state, err := s.store.Load(ctx, hold.SessionID)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			s.log.Error("failed to load session for expiry", "session_id", hold.SessionID, "error", err.Error())
		}
		return
	}

	if !state.removeSeat(hold.SeatID.String()) {
		return
	}
	state.Recompute()
	if err := s.store.Save(ctx, state); err != nil {
		s.log.Error("failed to persist expiry cleanup", "session_id", hold.SessionID, "error", err.Error())
		return
	}

	s.publishExpired(ctx, hold)
}

// rollbackCommit undoes the partial side effects of a failed checkout: sold
// GA counters come back down and booked seats go back on sale. The holds
// themselves still belong to the session, so a retry can succeed cleanly.
func (s *service) rollbackCommit(ctx context.Context, committed []GeneralTicketLine, bookedSeatIDs []uuid.UUID) {
	for _, line := range committed {
		ticketTypeID, err := uuid.Parse(line.TicketTypeID)
		if err != nil {
			continue
		}
		if err := s.ticketsSvc.ReleaseSale(ctx, ticketTypeID, line.Quantity); err != nil {
			s.log.Error("failed to roll back GA sale", "ticket_type_id", line.TicketTypeID, "quantity", line.Quantity, "error", err.Error())
		}
	}
	if len(bookedSeatIDs) > 0 {
		if err := s.seatsSvc.MarkAvailable(ctx, bookedSeatIDs); err != nil {
			s.log.Error("failed to roll back booked seats", "error", err.Error())
		}
	}
}

func (s *service) monitorUntrack(sessionID, seatID string) {
	if id, err := uuid.Parse(seatID); err == nil {
		s.monitor.Untrack(sessionID, id)
	}
}

func (s *service) publishCheckout(ctx context.Context, bookingID, eventID, sessionID string, totalPrice float64) {
	if s.producer == nil {
		return
	}
	event := &notifications.HoldEvent{
		ID:         bookingID,
		Type:       notifications.HoldEventCheckout,
		EventID:    eventID,
		SessionID:  sessionID,
		TotalPrice: totalPrice,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.producer.PublishHoldEvent(ctx, event); err != nil {
		s.log.Error("failed to publish checkout event", "session_id", sessionID, "error", err.Error())
	}
}

func (s *service) publishExpired(ctx context.Context, hold expiry.Hold) {
	if s.producer == nil {
		return
	}
	event := &notifications.HoldEvent{
		ID:         uuid.NewString(),
		Type:       notifications.HoldEventExpired,
		EventID:    hold.EventID.String(),
		SeatID:     hold.SeatID.String(),
		SessionID:  hold.SessionID,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.producer.PublishHoldEvent(ctx, event); err != nil {
		s.log.Error("failed to publish expiry event", "session_id", hold.SessionID, "error", err.Error())
	}
}
