package seats

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"stagepass/internal/shared/config"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) CreateBatch(ctx context.Context, seats []Seat) error {
	return m.Called(ctx, seats).Error(0)
}

func (m *mockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Seat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Seat), args.Error(1)
}

func (m *mockRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Seat, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Seat), args.Error(1)
}

func (m *mockRepository) GetByEventID(ctx context.Context, eventID uuid.UUID) ([]Seat, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Seat), args.Error(1)
}

func (m *mockRepository) GetBySectionID(ctx context.Context, sectionID uuid.UUID) ([]Seat, error) {
	args := m.Called(ctx, sectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Seat), args.Error(1)
}

func (m *mockRepository) GetStatusesByEventID(ctx context.Context, eventID uuid.UUID) (map[uuid.UUID]string, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]string), args.Error(1)
}

func (m *mockRepository) UpdateStatus(ctx context.Context, ids []uuid.UUID, status string) error {
	return m.Called(ctx, ids, status).Error(0)
}

func (m *mockRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return m.Called(ctx, id, updates).Error(0)
}

func (m *mockRepository) DeleteBySectionID(ctx context.Context, sectionID uuid.UUID) error {
	return m.Called(ctx, sectionID).Error(0)
}

type stubHoldStore struct {
	mock.Mock
}

func (m *stubHoldStore) Hold(ctx context.Context, eventID, seatID uuid.UUID, sessionID string, ttl time.Duration) (time.Time, error) {
	args := m.Called(ctx, eventID, seatID, sessionID, ttl)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *stubHoldStore) Release(ctx context.Context, eventID, seatID uuid.UUID, sessionID string) error {
	return m.Called(ctx, eventID, seatID, sessionID).Error(0)
}

func (m *stubHoldStore) HeldSeats(ctx context.Context, eventID uuid.UUID, seatIDs []uuid.UUID) (map[string]string, error) {
	args := m.Called(ctx, eventID, seatIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *stubHoldStore) SessionSeatIDs(ctx context.Context, sessionID string) ([]string, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *stubHoldStore) RemainingTTL(ctx context.Context, eventID, seatID uuid.UUID) (time.Duration, error) {
	args := m.Called(ctx, eventID, seatID)
	return args.Get(0).(time.Duration), args.Error(1)
}

func (m *stubHoldStore) PreloadScripts(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Redis.SeatHoldTTL = 10 * time.Minute
	return cfg
}

func TestReserve(t *testing.T) {
	sessionID := uuid.NewString()

	t.Run("places a hold on an available seat", func(t *testing.T) {
		repo := new(mockRepository)
		holds := new(stubHoldStore)
		svc := NewService(repo, holds, testConfig())

		seat := &Seat{
			ID:         uuid.New(),
			EventID:    uuid.New(),
			Row:        "A",
			SeatNumber: "A3",
			Price:      80,
			Status:     StatusAvailable,
		}
		until := time.Now().Add(10 * time.Minute)

		repo.On("GetByID", mock.Anything, seat.ID).Return(seat, nil)
		holds.On("Hold", mock.Anything, seat.EventID, seat.ID, sessionID, 10*time.Minute).Return(until, nil)

		result, err := svc.Reserve(context.Background(), ReserveRequest{
			SeatID:    seat.ID.String(),
			SessionID: sessionID,
		})
		require.NoError(t, err)
		assert.Equal(t, "A3", result.SeatNumber)
		assert.Equal(t, 80.0, result.Price)
		assert.Equal(t, until, result.ReservedUntil)
		holds.AssertExpectations(t)
	})

	t.Run("unknown seat", func(t *testing.T) {
		repo := new(mockRepository)
		holds := new(stubHoldStore)
		svc := NewService(repo, holds, testConfig())

		seatID := uuid.New()
		repo.On("GetByID", mock.Anything, seatID).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Reserve(context.Background(), ReserveRequest{
			SeatID:    seatID.String(),
			SessionID: sessionID,
		})
		assert.ErrorIs(t, err, ErrSeatNotFound)
	})

	t.Run("booked seat never reaches the hold store", func(t *testing.T) {
		repo := new(mockRepository)
		holds := new(stubHoldStore)
		svc := NewService(repo, holds, testConfig())

		seat := &Seat{ID: uuid.New(), EventID: uuid.New(), Status: StatusBooked}
		repo.On("GetByID", mock.Anything, seat.ID).Return(seat, nil)

		_, err := svc.Reserve(context.Background(), ReserveRequest{
			SeatID:    seat.ID.String(),
			SessionID: sessionID,
		})
		assert.ErrorIs(t, err, ErrSeatNotAvailable)
		holds.AssertNotCalled(t, "Hold", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("contended seat surfaces the conflict", func(t *testing.T) {
		repo := new(mockRepository)
		holds := new(stubHoldStore)
		svc := NewService(repo, holds, testConfig())

		seat := &Seat{ID: uuid.New(), EventID: uuid.New(), Status: StatusAvailable}
		repo.On("GetByID", mock.Anything, seat.ID).Return(seat, nil)
		holds.On("Hold", mock.Anything, seat.EventID, seat.ID, sessionID, mock.Anything).
			Return(time.Time{}, ErrSeatHeld)

		_, err := svc.Reserve(context.Background(), ReserveRequest{
			SeatID:    seat.ID.String(),
			SessionID: sessionID,
		})
		assert.ErrorIs(t, err, ErrSeatHeld)
	})
}

func TestEventLayoutStatusMerge(t *testing.T) {
	repo := new(mockRepository)
	holds := new(stubHoldStore)
	svc := NewService(repo, holds, testConfig())

	eventID := uuid.New()
	available := Seat{ID: uuid.New(), EventID: eventID, SectionID: uuid.New(), Row: "A", SeatNumber: "A1", Status: StatusAvailable}
	heldSeat := Seat{ID: uuid.New(), EventID: eventID, SectionID: available.SectionID, Row: "A", SeatNumber: "A2", Status: StatusAvailable}
	booked := Seat{ID: uuid.New(), EventID: eventID, SectionID: available.SectionID, Row: "A", SeatNumber: "A3", Status: StatusBooked}

	repo.On("GetByEventID", mock.Anything, eventID).Return([]Seat{available, heldSeat, booked}, nil)
	repo.On("GetStatusesByEventID", mock.Anything, eventID).Return(map[uuid.UUID]string{
		available.ID: StatusAvailable,
		heldSeat.ID:  StatusAvailable,
		booked.ID:    StatusBooked,
	}, nil)
	// The hold store reports an owner for the held seat only. Live holds
	// override AVAILABLE, never BOOKED.
	holds.On("HeldSeats", mock.Anything, eventID, mock.Anything).Return(map[string]string{
		heldSeat.ID.String(): "some-session",
		booked.ID.String():   "stale-owner",
	}, nil)

	layout, err := svc.EventLayout(context.Background(), eventID.String())
	require.NoError(t, err)
	require.Len(t, layout.Seats, 3)

	byID := make(map[string]SeatView, 3)
	for _, sv := range layout.Seats {
		byID[sv.ID] = sv
	}
	assert.Equal(t, StatusAvailable, byID[available.ID.String()].Status)
	assert.Equal(t, StatusReserved, byID[heldSeat.ID.String()].Status)
	assert.Equal(t, StatusBooked, byID[booked.ID.String()].Status)
}

func TestReservationStatus(t *testing.T) {
	repo := new(mockRepository)
	holds := new(stubHoldStore)
	svc := NewService(repo, holds, testConfig())

	eventID := uuid.New()
	mine := uuid.New()
	theirs := uuid.New()
	free := uuid.New()
	mySession := uuid.NewString()

	repo.On("GetStatusesByEventID", mock.Anything, eventID).Return(map[uuid.UUID]string{
		mine:   StatusAvailable,
		theirs: StatusAvailable,
		free:   StatusAvailable,
	}, nil)
	holds.On("HeldSeats", mock.Anything, eventID, mock.Anything).Return(map[string]string{
		mine.String():   mySession,
		theirs.String(): "other-session",
	}, nil)

	status, err := svc.ReservationStatus(context.Background(), eventID.String(), mySession)
	require.NoError(t, err)
	require.Len(t, status.Seats, 3)

	byID := make(map[string]SeatReservationStatus, 3)
	for _, entry := range status.Seats {
		byID[entry.SeatID] = entry
	}

	assert.True(t, byID[mine.String()].Held)
	assert.True(t, byID[mine.String()].HeldByMe)
	assert.Equal(t, StatusReserved, byID[mine.String()].Status)

	assert.True(t, byID[theirs.String()].Held)
	assert.False(t, byID[theirs.String()].HeldByMe)

	assert.False(t, byID[free.String()].Held)
	assert.Equal(t, StatusAvailable, byID[free.String()].Status)
}

func TestMarkBooked(t *testing.T) {
	repo := new(mockRepository)
	holds := new(stubHoldStore)
	svc := NewService(repo, holds, testConfig())

	ids := []uuid.UUID{uuid.New(), uuid.New()}
	repo.On("UpdateStatus", mock.Anything, ids, StatusBooked).Return(nil)

	require.NoError(t, svc.MarkBooked(context.Background(), ids))
	repo.AssertExpectations(t)
}
