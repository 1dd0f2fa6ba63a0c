package events

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, event *Event) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Event), args.Error(1)
}

func (m *mockRepository) GetByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]Event, error) {
	args := m.Called(ctx, organizerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Event), args.Error(1)
}

func (m *mockRepository) ListPublished(ctx context.Context, limit, offset int) ([]Event, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Event), args.Error(1)
}

func (m *mockRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return m.Called(ctx, id, updates).Error(0)
}

func (m *mockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func TestCreateEvent(t *testing.T) {
	organizerID := uuid.NewString()

	validReq := CreateEventRequest{
		Name:      "Spring Concert",
		VenueName: "Main Hall",
		BasePrice: 50,
		StartTime: "2026-06-01T19:00:00Z",
		EndTime:   "2026-06-01T22:00:00Z",
	}

	t.Run("creates a draft with default seating mode", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)

		event, err := svc.CreateEvent(context.Background(), organizerID, validReq)
		require.NoError(t, err)
		assert.Equal(t, StatusDraft, event.Status)
		assert.Equal(t, ModeEventHall, event.SeatingMode)
		assert.Equal(t, organizerID, event.OrganizerID.String())
	})

	t.Run("rejects malformed start time", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo)

		req := validReq
		req.StartTime = "tomorrow evening"
		_, err := svc.CreateEvent(context.Background(), organizerID, req)
		assert.Error(t, err)
	})

	t.Run("rejects end before start", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo)

		req := validReq
		req.StartTime = "2026-06-01T22:00:00Z"
		req.EndTime = "2026-06-01T19:00:00Z"
		_, err := svc.CreateEvent(context.Background(), organizerID, req)
		assert.Error(t, err)
	})
}

func TestGetEvent(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo)
	id := uuid.New()

	repo.On("GetByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.GetEvent(context.Background(), id.String())
	assert.ErrorIs(t, err, ErrEventNotFound)

	_, err = svc.GetEvent(context.Background(), "not-a-uuid")
	assert.Error(t, err)
}

func TestUpdateEventStatusValidation(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo)
	id := uuid.New()

	bad := "SOLD_OUT"
	_, err := svc.UpdateEvent(context.Background(), id.String(), UpdateEventRequest{Status: &bad})
	assert.Error(t, err)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}
