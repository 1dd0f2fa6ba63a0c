package selection

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"stagepass/internal/bookings"
	"stagepass/internal/events"
	"stagepass/internal/expiry"
	"stagepass/internal/seats"
	"stagepass/internal/shared/config"
	"stagepass/internal/tickettypes"
)

// memStore round-trips state through JSON so tests see the same copy
// semantics as the Redis store.
type memStore struct {
	states map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{states: make(map[string][]byte)}
}

func (m *memStore) Save(_ context.Context, state *State) error {
	state.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	m.states[state.SessionID] = data
	return nil
}

func (m *memStore) Load(_ context.Context, sessionID string) (*State, error) {
	data, ok := m.states[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (m *memStore) Delete(_ context.Context, sessionID string) error {
	delete(m.states, sessionID)
	return nil
}

type mockSeatsService struct {
	mock.Mock
}

func (m *mockSeatsService) Reserve(ctx context.Context, req seats.ReserveRequest) (*seats.ReserveResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seats.ReserveResponse), args.Error(1)
}

func (m *mockSeatsService) Release(ctx context.Context, req seats.ReleaseRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockSeatsService) EventLayout(ctx context.Context, eventID string) (*seats.LayoutResponse, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seats.LayoutResponse), args.Error(1)
}

func (m *mockSeatsService) ReservationStatus(ctx context.Context, eventID, sessionID string) (*seats.ReservationStatusResponse, error) {
	args := m.Called(ctx, eventID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seats.ReservationStatusResponse), args.Error(1)
}

func (m *mockSeatsService) GetSeat(ctx context.Context, id string) (*seats.Seat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seats.Seat), args.Error(1)
}

func (m *mockSeatsService) GetSeatsBySection(ctx context.Context, sectionID string) ([]seats.Seat, error) {
	args := m.Called(ctx, sectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]seats.Seat), args.Error(1)
}

func (m *mockSeatsService) BlockSeat(ctx context.Context, id string) (*seats.Seat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seats.Seat), args.Error(1)
}

func (m *mockSeatsService) MarkBooked(ctx context.Context, seatIDs []uuid.UUID) error {
	return m.Called(ctx, seatIDs).Error(0)
}

func (m *mockSeatsService) MarkAvailable(ctx context.Context, seatIDs []uuid.UUID) error {
	return m.Called(ctx, seatIDs).Error(0)
}

func (m *mockSeatsService) InvalidateLayoutCache(ctx context.Context, eventID uuid.UUID) {
	m.Called(ctx, eventID)
}

type mockHoldStore struct {
	mock.Mock
}

func (m *mockHoldStore) Hold(ctx context.Context, eventID, seatID uuid.UUID, sessionID string, ttl time.Duration) (time.Time, error) {
	args := m.Called(ctx, eventID, seatID, sessionID, ttl)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *mockHoldStore) Release(ctx context.Context, eventID, seatID uuid.UUID, sessionID string) error {
	return m.Called(ctx, eventID, seatID, sessionID).Error(0)
}

func (m *mockHoldStore) HeldSeats(ctx context.Context, eventID uuid.UUID, seatIDs []uuid.UUID) (map[string]string, error) {
	args := m.Called(ctx, eventID, seatIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *mockHoldStore) SessionSeatIDs(ctx context.Context, sessionID string) ([]string, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockHoldStore) RemainingTTL(ctx context.Context, eventID, seatID uuid.UUID) (time.Duration, error) {
	args := m.Called(ctx, eventID, seatID)
	return args.Get(0).(time.Duration), args.Error(1)
}

func (m *mockHoldStore) PreloadScripts(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockEventsService struct {
	mock.Mock
}

func (m *mockEventsService) CreateEvent(ctx context.Context, organizerID string, req events.CreateEventRequest) (*events.Event, error) {
	args := m.Called(ctx, organizerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*events.Event), args.Error(1)
}

func (m *mockEventsService) GetEvent(ctx context.Context, id string) (*events.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*events.Event), args.Error(1)
}

func (m *mockEventsService) GetOrganizerEvents(ctx context.Context, organizerID string) ([]events.Event, error) {
	args := m.Called(ctx, organizerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]events.Event), args.Error(1)
}

func (m *mockEventsService) ListPublished(ctx context.Context, limit, offset int) ([]events.Event, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]events.Event), args.Error(1)
}

func (m *mockEventsService) UpdateEvent(ctx context.Context, id string, req events.UpdateEventRequest) (*events.Event, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*events.Event), args.Error(1)
}

func (m *mockEventsService) DeleteEvent(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockTicketsService struct {
	mock.Mock
}

func (m *mockTicketsService) Create(ctx context.Context, eventID string, req tickettypes.CreateTicketTypeRequest) (*tickettypes.TicketType, error) {
	args := m.Called(ctx, eventID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tickettypes.TicketType), args.Error(1)
}

func (m *mockTicketsService) GetByEvent(ctx context.Context, eventID string) ([]tickettypes.TicketType, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tickettypes.TicketType), args.Error(1)
}

func (m *mockTicketsService) GetCustomerView(ctx context.Context, eventID string) ([]tickettypes.CustomerTicketType, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tickettypes.CustomerTicketType), args.Error(1)
}

func (m *mockTicketsService) Update(ctx context.Context, id string, req tickettypes.UpdateTicketTypeRequest) (*tickettypes.TicketType, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tickettypes.TicketType), args.Error(1)
}

func (m *mockTicketsService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockTicketsService) ValidateQuantity(ctx context.Context, ticketTypeID uuid.UUID, quantity int) (*tickettypes.TicketType, error) {
	args := m.Called(ctx, ticketTypeID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tickettypes.TicketType), args.Error(1)
}

func (m *mockTicketsService) CommitSale(ctx context.Context, ticketTypeID uuid.UUID, quantity int) error {
	return m.Called(ctx, ticketTypeID, quantity).Error(0)
}

func (m *mockTicketsService) ReleaseSale(ctx context.Context, ticketTypeID uuid.UUID, quantity int) error {
	return m.Called(ctx, ticketTypeID, quantity).Error(0)
}

type mockBookingService struct {
	mock.Mock
}

func (m *mockBookingService) Create(ctx context.Context, booking *bookings.Booking) error {
	return m.Called(ctx, booking).Error(0)
}

func (m *mockBookingService) GetBooking(ctx context.Context, id string) (*bookings.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookings.Booking), args.Error(1)
}

func (m *mockBookingService) GetSessionBookings(ctx context.Context, sessionID string) ([]bookings.Booking, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]bookings.Booking), args.Error(1)
}

type fixture struct {
	svc      *service
	store    *memStore
	seats    *mockSeatsService
	holds    *mockHoldStore
	events   *mockEventsService
	tickets  *mockTicketsService
	bookings *mockBookingService
	monitor  *expiry.Monitor
	eventID  uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:    newMemStore(),
		seats:    new(mockSeatsService),
		holds:    new(mockHoldStore),
		events:   new(mockEventsService),
		tickets:  new(mockTicketsService),
		bookings: new(mockBookingService),
		monitor: expiry.NewMonitor(expiry.Options{
			WarningThreshold:  2 * time.Minute,
			CriticalThreshold: time.Minute,
		}, nil),
		eventID: uuid.New(),
	}
	f.svc = NewService(f.store, f.seats, f.holds, f.events, f.tickets, f.bookings, f.monitor, &config.Config{})
	return f
}

// startedSession seeds a session directly in the store, bypassing Start.
func (f *fixture) startedSession(t *testing.T) *State {
	t.Helper()
	state := &State{
		SessionID:      uuid.NewString(),
		EventID:        f.eventID.String(),
		Mode:           string(events.ModeEventHall),
		SelectedSeats:  []SelectedSeat{},
		SelectedTables: []SelectedTable{},
		GeneralTickets: []GeneralTicketLine{},
	}
	require.NoError(t, f.store.Save(context.Background(), state))
	return state
}

func (f *fixture) noLiveHolds(sessionID string) {
	f.holds.On("SessionSeatIDs", mock.Anything, sessionID).Return([]string{}, nil)
}

func TestStart(t *testing.T) {
	t.Run("creates a session for a published event", func(t *testing.T) {
		f := newFixture(t)
		f.events.On("GetEvent", mock.Anything, f.eventID.String()).Return(&events.Event{
			ID:          f.eventID,
			SeatingMode: events.ModeEventHall,
			Status:      events.StatusPublished,
		}, nil)

		state, err := f.svc.Start(context.Background(), StartRequest{EventID: f.eventID.String()})
		require.NoError(t, err)
		assert.NotEmpty(t, state.SessionID)
		assert.Equal(t, f.eventID.String(), state.EventID)
		assert.Equal(t, "EVENT_HALL", state.Mode)
		assert.Empty(t, state.SelectedSeats)
		assert.Empty(t, state.SelectedTables)
		assert.Zero(t, state.TotalPrice)

		// The session is durable.
		stored, err := f.store.Load(context.Background(), state.SessionID)
		require.NoError(t, err)
		assert.Equal(t, state.SessionID, stored.SessionID)
	})

	t.Run("rejects a draft event", func(t *testing.T) {
		f := newFixture(t)
		f.events.On("GetEvent", mock.Anything, f.eventID.String()).Return(&events.Event{
			ID:     f.eventID,
			Status: events.StatusDraft,
		}, nil)

		_, err := f.svc.Start(context.Background(), StartRequest{EventID: f.eventID.String()})
		assert.ErrorIs(t, err, ErrEventNotOnSale)
	})
}

func TestSelectSeat(t *testing.T) {
	t.Run("confirmed hold lands as HELD and is billed", func(t *testing.T) {
		f := newFixture(t)
		state := f.startedSession(t)
		seatID := uuid.New()
		until := time.Now().Add(10 * time.Minute)

		f.seats.On("Reserve", mock.Anything, seats.ReserveRequest{
			SeatID:    seatID.String(),
			SessionID: state.SessionID,
		}).Return(&seats.ReserveResponse{
			SeatID:        seatID.String(),
			SeatNumber:    "A1",
			Row:           "A",
			Price:         75,
			SessionID:     state.SessionID,
			ReservedUntil: until,
		}, nil)

		updated, err := f.svc.SelectSeat(context.Background(), state.SessionID, seatID.String())
		require.NoError(t, err)
		require.Len(t, updated.SelectedSeats, 1)
		assert.Equal(t, SeatHeld, updated.SelectedSeats[0].Status)
		assert.Equal(t, "A1", updated.SelectedSeats[0].SeatNumber)
		require.NotNil(t, updated.SelectedSeats[0].ReservedUntil)
		assert.Equal(t, 75.0, updated.TotalPrice)

		// The hold is tracked for expiry.
		_, tracked := f.monitor.Remaining(state.SessionID, seatID)
		assert.True(t, tracked)
	})

	t.Run("failed hold rolls the pending seat back", func(t *testing.T) {
		f := newFixture(t)
		state := f.startedSession(t)
		seatID := uuid.New()

		f.seats.On("Reserve", mock.Anything, mock.Anything).Return(nil, seats.ErrSeatHeld)

		_, err := f.svc.SelectSeat(context.Background(), state.SessionID, seatID.String())
		assert.ErrorIs(t, err, seats.ErrSeatHeld)

		stored, err := f.store.Load(context.Background(), state.SessionID)
		require.NoError(t, err)
		assert.Empty(t, stored.SelectedSeats, "pending marker must not survive a failed hold")
		assert.Zero(t, stored.TotalPrice)
	})

	t.Run("second request while pending is rejected", func(t *testing.T) {
		f := newFixture(t)
		state := f.startedSession(t)
		seatID := uuid.New()

		state.SelectedSeats = append(state.SelectedSeats, SelectedSeat{
			SeatID: seatID.String(),
			Status: SeatPending,
		})
		require.NoError(t, f.store.Save(context.Background(), state))

		_, err := f.svc.SelectSeat(context.Background(), state.SessionID, seatID.String())
		assert.ErrorIs(t, err, ErrSeatPending)
		f.seats.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything)
	})

	t.Run("re-selecting a held seat is a no-op", func(t *testing.T) {
		f := newFixture(t)
		state := f.startedSession(t)
		seatID := uuid.New()
		until := time.Now().Add(5 * time.Minute)

		state.SelectedSeats = append(state.SelectedSeats, SelectedSeat{
			SeatID:        seatID.String(),
			Price:         50,
			Status:        SeatHeld,
			ReservedUntil: &until,
		})
		state.Recompute()
		require.NoError(t, f.store.Save(context.Background(), state))

		updated, err := f.svc.SelectSeat(context.Background(), state.SessionID, seatID.String())
		require.NoError(t, err)
		assert.Len(t, updated.SelectedSeats, 1)
		f.seats.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything)
	})
}

func TestDeselectSeat(t *testing.T) {
	t.Run("releases the hold and recomputes the total", func(t *testing.T) {
		f := newFixture(t)
		state := f.startedSession(t)
		seatID := uuid.New()
		keep := uuid.New()
		until := time.Now().Add(5 * time.Minute)

		state.SelectedSeats = []SelectedSeat{
			{SeatID: seatID.String(), Price: 50, Status: SeatHeld, ReservedUntil: &until},
			{SeatID: keep.String(), Price: 30, Status: SeatHeld, ReservedUntil: &until},
		}
		state.Recompute()
		require.NoError(t, f.store.Save(context.Background(), state))
		require.Equal(t, 80.0, state.TotalPrice)

		f.seats.On("Release", mock.Anything, seats.ReleaseRequest{
			SeatID:    seatID.String(),
			SessionID: state.SessionID,
		}).Return(nil)

		updated, err := f.svc.DeselectSeat(context.Background(), state.SessionID, seatID.String())
		require.NoError(t, err)
		require.Len(t, updated.SelectedSeats, 1)
		assert.Equal(t, keep.String(), updated.SelectedSeats[0].SeatID)
		assert.Equal(t, 30.0, updated.TotalPrice)
		f.seats.AssertExpectations(t)
	})

	t.Run("deselecting an unselected seat is a silent no-op", func(t *testing.T) {
		f := newFixture(t)
		state := f.startedSession(t)

		updated, err := f.svc.DeselectSeat(context.Background(), state.SessionID, uuid.NewString())
		require.NoError(t, err)
		assert.Empty(t, updated.SelectedSeats)
		f.seats.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
	})
}

func TestSetGeneralTickets(t *testing.T) {
	t.Run("replaces lines wholesale and recomputes", func(t *testing.T) {
		f := newFixture(t)
		state := f.startedSession(t)
		ttID := uuid.New()

		state.GeneralTickets = []GeneralTicketLine{
			{TicketTypeID: uuid.NewString(), Name: "Old", Quantity: 3, UnitPrice: 10},
		}
		state.Recompute()
		require.NoError(t, f.store.Save(context.Background(), state))

		f.tickets.On("ValidateQuantity", mock.Anything, ttID, 2).Return(&tickettypes.TicketType{
			ID:    ttID,
			Name:  "Standing",
			Price: 25,
		}, nil)

		updated, err := f.svc.SetGeneralTickets(context.Background(), state.SessionID, SetGeneralTicketsRequest{
			Tickets: []GeneralTicketItem{{TicketTypeID: ttID.String(), Quantity: 2}},
		})
		require.NoError(t, err)
		require.Len(t, updated.GeneralTickets, 1)
		assert.Equal(t, "Standing", updated.GeneralTickets[0].Name)
		assert.Equal(t, 50.0, updated.TotalPrice)
	})

	t.Run("zero quantity clears the line", func(t *testing.T) {
		f := newFixture(t)
		state := f.startedSession(t)

		state.GeneralTickets = []GeneralTicketLine{
			{TicketTypeID: uuid.NewString(), Quantity: 2, UnitPrice: 25},
		}
		state.Recompute()
		require.NoError(t, f.store.Save(context.Background(), state))

		updated, err := f.svc.SetGeneralTickets(context.Background(), state.SessionID, SetGeneralTicketsRequest{
			Tickets: []GeneralTicketItem{{TicketTypeID: uuid.NewString(), Quantity: 0}},
		})
		require.NoError(t, err)
		assert.Empty(t, updated.GeneralTickets)
		assert.Zero(t, updated.TotalPrice)
	})

	t.Run("insufficient capacity leaves the selection untouched", func(t *testing.T) {
		f := newFixture(t)
		state := f.startedSession(t)
		ttID := uuid.New()

		f.tickets.On("ValidateQuantity", mock.Anything, ttID, 5).
			Return(nil, tickettypes.ErrInsufficientCapacity)

		_, err := f.svc.SetGeneralTickets(context.Background(), state.SessionID, SetGeneralTicketsRequest{
			Tickets: []GeneralTicketItem{{TicketTypeID: ttID.String(), Quantity: 5}},
		})
		assert.ErrorIs(t, err, tickettypes.ErrInsufficientCapacity)

		stored, _ := f.store.Load(context.Background(), state.SessionID)
		assert.Empty(t, stored.GeneralTickets)
	})
}

func TestGetReconcilesAgainstLiveHolds(t *testing.T) {
	t.Run("drops seats whose holds died", func(t *testing.T) {
		f := newFixture(t)
		state := f.startedSession(t)
		dead := uuid.New()
		alive := uuid.New()
		until := time.Now().Add(5 * time.Minute)

		state.SelectedSeats = []SelectedSeat{
			{SeatID: dead.String(), Price: 40, Status: SeatHeld, ReservedUntil: &until},
			{SeatID: alive.String(), Price: 60, Status: SeatHeld, ReservedUntil: &until},
		}
		state.Recompute()
		require.NoError(t, f.store.Save(context.Background(), state))

		f.holds.On("SessionSeatIDs", mock.Anything, state.SessionID).Return([]string{alive.String()}, nil)
		f.holds.On("RemainingTTL", mock.Anything, f.eventID, alive).Return(4*time.Minute, nil)

		got, err := f.svc.Get(context.Background(), state.SessionID)
		require.NoError(t, err)
		require.Len(t, got.SelectedSeats, 1)
		assert.Equal(t, alive.String(), got.SelectedSeats[0].SeatID)
		assert.Equal(t, 60.0, got.TotalPrice)
	})

	t.Run("re-adopts holds missing from state", func(t *testing.T) {
		f := newFixture(t)
		state := f.startedSession(t)
		orphan := uuid.New()

		f.holds.On("SessionSeatIDs", mock.Anything, state.SessionID).Return([]string{orphan.String()}, nil)
		f.holds.On("RemainingTTL", mock.Anything, f.eventID, orphan).Return(3*time.Minute, nil)
		f.seats.On("GetSeat", mock.Anything, orphan.String()).Return(&seats.Seat{
			ID:         orphan,
			Row:        "B",
			SeatNumber: "B7",
			Price:      45,
		}, nil)

		got, err := f.svc.Get(context.Background(), state.SessionID)
		require.NoError(t, err)
		require.Len(t, got.SelectedSeats, 1)
		assert.Equal(t, SeatHeld, got.SelectedSeats[0].Status)
		assert.Equal(t, "B7", got.SelectedSeats[0].SeatNumber)
		assert.Equal(t, 45.0, got.TotalPrice)
	})

	t.Run("unknown session", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Get(context.Background(), uuid.NewString())
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("promotes a pending seat whose hold landed", func(t *testing.T) {
		f := newFixture(t)
		state := f.startedSession(t)
		seatID := uuid.New()
		requestedAt := time.Now().UTC()

		// The hold went through but the confirming write never made it.
		state.SelectedSeats = []SelectedSeat{
			{SeatID: seatID.String(), Status: SeatPending, RequestedAt: &requestedAt},
		}
		require.NoError(t, f.store.Save(context.Background(), state))

		f.holds.On("SessionSeatIDs", mock.Anything, state.SessionID).Return([]string{seatID.String()}, nil)
		f.holds.On("RemainingTTL", mock.Anything, f.eventID, seatID).Return(4*time.Minute, nil)
		f.seats.On("GetSeat", mock.Anything, seatID.String()).Return(&seats.Seat{
			ID:         seatID,
			Row:        "C",
			SeatNumber: "C3",
			Price:      55,
		}, nil)

		got, err := f.svc.Get(context.Background(), state.SessionID)
		require.NoError(t, err)
		require.Len(t, got.SelectedSeats, 1, "the seat must never appear twice")
		assert.Equal(t, SeatHeld, got.SelectedSeats[0].Status)
		assert.Equal(t, "C3", got.SelectedSeats[0].SeatNumber)
		require.NotNil(t, got.SelectedSeats[0].ReservedUntil)
		assert.Nil(t, got.SelectedSeats[0].RequestedAt)
		assert.Equal(t, 55.0, got.TotalPrice)
	})

	t.Run("scrubs stale pending markers but keeps fresh ones", func(t *testing.T) {
		f := newFixture(t)
		state := f.startedSession(t)
		stale := time.Now().Add(-time.Minute).UTC()
		fresh := time.Now().UTC()

		state.SelectedSeats = []SelectedSeat{
			{SeatID: uuid.NewString(), Status: SeatPending, RequestedAt: &stale},
			{SeatID: uuid.NewString(), Status: SeatPending, RequestedAt: &fresh},
		}
		require.NoError(t, f.store.Save(context.Background(), state))
		f.noLiveHolds(state.SessionID)

		got, err := f.svc.Get(context.Background(), state.SessionID)
		require.NoError(t, err)
		require.Len(t, got.SelectedSeats, 1)
		assert.Equal(t, state.SelectedSeats[1].SeatID, got.SelectedSeats[0].SeatID)
		assert.Equal(t, SeatPending, got.SelectedSeats[0].Status)
	})
}

func TestCountdown(t *testing.T) {
	t.Run("rebuilds the monitor view from live holds", func(t *testing.T) {
		f := newFixture(t)
		state := f.startedSession(t)
		seatID := uuid.New()
		until := time.Now().Add(5 * time.Minute)

		// The hold is alive in Redis but unknown to the monitor, as after
		// a process restart.
		state.SelectedSeats = []SelectedSeat{
			{SeatID: seatID.String(), Price: 50, Status: SeatHeld, ReservedUntil: &until},
		}
		state.Recompute()
		require.NoError(t, f.store.Save(context.Background(), state))

		f.holds.On("SessionSeatIDs", mock.Anything, state.SessionID).Return([]string{seatID.String()}, nil)
		f.holds.On("RemainingTTL", mock.Anything, f.eventID, seatID).Return(90*time.Second, nil)

		countdown, err := f.svc.Countdown(context.Background(), state.SessionID)
		require.NoError(t, err)
		assert.True(t, countdown.HasHolds)
		assert.InDelta(t, 90, countdown.RemainingSeconds, 2)
		assert.Equal(t, expiry.LevelWarning, countdown.Level)
	})

	t.Run("no holds reads as ok", func(t *testing.T) {
		f := newFixture(t)
		state := f.startedSession(t)
		f.noLiveHolds(state.SessionID)

		countdown, err := f.svc.Countdown(context.Background(), state.SessionID)
		require.NoError(t, err)
		assert.False(t, countdown.HasHolds)
		assert.Equal(t, expiry.LevelOK, countdown.Level)
	})
}

func TestCheckout(t *testing.T) {
	t.Run("empty selection cannot check out", func(t *testing.T) {
		f := newFixture(t)
		state := f.startedSession(t)
		f.noLiveHolds(state.SessionID)

		_, err := f.svc.Checkout(context.Background(), state.SessionID)
		assert.ErrorIs(t, err, ErrNothingToBook)
	})

	t.Run("lapsed hold aborts checkout", func(t *testing.T) {
		f := newFixture(t)
		state := f.startedSession(t)
		seatID := uuid.New()
		until := time.Now().Add(time.Minute)

		state.SelectedSeats = []SelectedSeat{
			{SeatID: seatID.String(), Price: 50, Status: SeatHeld, ReservedUntil: &until},
		}
		state.Recompute()
		require.NoError(t, f.store.Save(context.Background(), state))

		f.holds.On("SessionSeatIDs", mock.Anything, state.SessionID).Return([]string{seatID.String()}, nil)
		// Alive during reconcile, gone by the commit check.
		f.holds.On("RemainingTTL", mock.Anything, f.eventID, seatID).Return(30*time.Second, nil).Once()
		f.holds.On("RemainingTTL", mock.Anything, f.eventID, seatID).Return(time.Duration(0), nil)

		_, err := f.svc.Checkout(context.Background(), state.SessionID)
		assert.ErrorIs(t, err, ErrHoldLapsed)
		f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("books seats and GA lines and clears the selection", func(t *testing.T) {
		f := newFixture(t)
		state := f.startedSession(t)
		seatID := uuid.New()
		ttID := uuid.New()
		until := time.Now().Add(5 * time.Minute)

		state.SelectedSeats = []SelectedSeat{
			{SeatID: seatID.String(), Row: "A", SeatNumber: "A1", Price: 50, Status: SeatHeld, ReservedUntil: &until},
		}
		state.GeneralTickets = []GeneralTicketLine{
			{TicketTypeID: ttID.String(), Name: "Standing", Quantity: 2, UnitPrice: 25},
		}
		state.Recompute()
		require.NoError(t, f.store.Save(context.Background(), state))
		require.Equal(t, 100.0, state.TotalPrice)

		f.holds.On("SessionSeatIDs", mock.Anything, state.SessionID).Return([]string{seatID.String()}, nil)
		f.holds.On("RemainingTTL", mock.Anything, f.eventID, seatID).Return(4*time.Minute, nil)
		f.tickets.On("CommitSale", mock.Anything, ttID, 2).Return(nil)
		f.seats.On("MarkBooked", mock.Anything, []uuid.UUID{seatID}).Return(nil)
		f.bookings.On("Create", mock.Anything, mock.MatchedBy(func(b *bookings.Booking) bool {
			return b.SessionID == state.SessionID &&
				b.TotalPrice == 100.0 &&
				b.SeatCount == 1 &&
				b.GeneralTickets == 2 &&
				len(b.Seats) == 1 &&
				b.Seats[0].SeatNumber == "A1"
		})).Return(nil)
		f.holds.On("Release", mock.Anything, f.eventID, seatID, state.SessionID).Return(nil)
		f.seats.On("InvalidateLayoutCache", mock.Anything, f.eventID).Return()

		result, err := f.svc.Checkout(context.Background(), state.SessionID)
		require.NoError(t, err)
		assert.Equal(t, 100.0, result.TotalPrice)
		assert.Equal(t, 1, result.SeatCount)
		assert.Equal(t, 2, result.GeneralTickets)

		f.seats.AssertExpectations(t)
		f.bookings.AssertExpectations(t)
		f.holds.AssertExpectations(t)

		stored, err := f.store.Load(context.Background(), state.SessionID)
		require.NoError(t, err)
		assert.Empty(t, stored.SelectedSeats)
		assert.Empty(t, stored.GeneralTickets)
		assert.Zero(t, stored.TotalPrice)
	})

	t.Run("aborted booking rolls the commit back", func(t *testing.T) {
		f := newFixture(t)
		state := f.startedSession(t)
		seatID := uuid.New()
		ttID := uuid.New()
		until := time.Now().Add(5 * time.Minute)

		state.SelectedSeats = []SelectedSeat{
			{SeatID: seatID.String(), Row: "A", SeatNumber: "A1", Price: 50, Status: SeatHeld, ReservedUntil: &until},
		}
		state.GeneralTickets = []GeneralTicketLine{
			{TicketTypeID: ttID.String(), Name: "Standing", Quantity: 2, UnitPrice: 25},
		}
		state.Recompute()
		require.NoError(t, f.store.Save(context.Background(), state))

		f.holds.On("SessionSeatIDs", mock.Anything, state.SessionID).Return([]string{seatID.String()}, nil)
		f.holds.On("RemainingTTL", mock.Anything, f.eventID, seatID).Return(4*time.Minute, nil)
		f.tickets.On("CommitSale", mock.Anything, ttID, 2).Return(nil)
		f.seats.On("MarkBooked", mock.Anything, []uuid.UUID{seatID}).Return(nil)
		f.bookings.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))
		f.tickets.On("ReleaseSale", mock.Anything, ttID, 2).Return(nil)
		f.seats.On("MarkAvailable", mock.Anything, []uuid.UUID{seatID}).Return(nil)

		_, err := f.svc.Checkout(context.Background(), state.SessionID)
		require.Error(t, err)

		// Sold counters come back down and the seats go back on sale.
		f.tickets.AssertCalled(t, "ReleaseSale", mock.Anything, ttID, 2)
		f.seats.AssertCalled(t, "MarkAvailable", mock.Anything, []uuid.UUID{seatID})
		f.holds.AssertNotCalled(t, "Release", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

		// The selection survives for a retry.
		stored, err := f.store.Load(context.Background(), state.SessionID)
		require.NoError(t, err)
		require.Len(t, stored.SelectedSeats, 1)
		require.Len(t, stored.GeneralTickets, 1)
	})

	t.Run("failed GA line releases the lines committed before it", func(t *testing.T) {
		f := newFixture(t)
		state := f.startedSession(t)
		first := uuid.New()
		second := uuid.New()

		state.GeneralTickets = []GeneralTicketLine{
			{TicketTypeID: first.String(), Name: "Standing", Quantity: 2, UnitPrice: 25},
			{TicketTypeID: second.String(), Name: "Balcony", Quantity: 1, UnitPrice: 60},
		}
		state.Recompute()
		require.NoError(t, f.store.Save(context.Background(), state))
		f.noLiveHolds(state.SessionID)

		f.tickets.On("CommitSale", mock.Anything, first, 2).Return(nil)
		f.tickets.On("CommitSale", mock.Anything, second, 1).Return(tickettypes.ErrInsufficientCapacity)
		f.tickets.On("ReleaseSale", mock.Anything, first, 2).Return(nil)

		_, err := f.svc.Checkout(context.Background(), state.SessionID)
		assert.ErrorIs(t, err, tickettypes.ErrInsufficientCapacity)

		f.tickets.AssertCalled(t, "ReleaseSale", mock.Anything, first, 2)
		f.tickets.AssertNotCalled(t, "ReleaseSale", mock.Anything, second, 1)
		f.seats.AssertNotCalled(t, "MarkBooked", mock.Anything, mock.Anything)
		f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestHandleExpiry(t *testing.T) {
	f := newFixture(t)
	state := f.startedSession(t)
	seatID := uuid.New()
	until := time.Now().Add(-time.Second)

	state.SelectedSeats = []SelectedSeat{
		{SeatID: seatID.String(), Price: 50, Status: SeatHeld, ReservedUntil: &until},
	}
	state.Recompute()
	require.NoError(t, f.store.Save(context.Background(), state))

	f.svc.HandleExpiry(expiry.Hold{
		SessionID: state.SessionID,
		SeatID:    seatID,
		EventID:   f.eventID,
		ExpiresAt: until,
	})

	stored, err := f.store.Load(context.Background(), state.SessionID)
	require.NoError(t, err)
	assert.Empty(t, stored.SelectedSeats)
	assert.Zero(t, stored.TotalPrice)

	// A second delivery for the same hold changes nothing.
	f.svc.HandleExpiry(expiry.Hold{SessionID: state.SessionID, SeatID: seatID})
}

func TestRecompute(t *testing.T) {
	until := time.Now().Add(time.Minute)
	state := &State{
		SelectedSeats: []SelectedSeat{
			{SeatID: uuid.NewString(), Price: 50, Status: SeatHeld, ReservedUntil: &until},
			{SeatID: uuid.NewString(), Price: 999, Status: SeatPending},
		},
		GeneralTickets: []GeneralTicketLine{
			{Quantity: 3, UnitPrice: 20},
		},
	}

	state.Recompute()
	assert.Equal(t, 110.0, state.TotalPrice, "pending seats are never billed")

	state.SelectedSeats = nil
	state.GeneralTickets = nil
	state.Recompute()
	assert.Zero(t, state.TotalPrice)
}
