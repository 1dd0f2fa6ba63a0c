package tickettypes

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

func (m *mockRepository) Create(ctx context.Context, ticketType *TicketType) error {
	return m.Called(ctx, ticketType).Error(0)
}

func (m *mockRepository) GetByID(ctx context.Context, id uuid.UUID) (*TicketType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TicketType), args.Error(1)
}

func (m *mockRepository) GetByEventID(ctx context.Context, eventID uuid.UUID) ([]TicketType, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]TicketType), args.Error(1)
}

func (m *mockRepository) GetActiveByEventID(ctx context.Context, eventID uuid.UUID) ([]TicketType, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]TicketType), args.Error(1)
}

func (m *mockRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return m.Called(ctx, id, updates).Error(0)
}

func (m *mockRepository) IncrementSold(ctx context.Context, id uuid.UUID, quantity int) error {
	return m.Called(ctx, id, quantity).Error(0)
}

func (m *mockRepository) DecrementSold(ctx context.Context, id uuid.UUID, quantity int) error {
	return m.Called(ctx, id, quantity).Error(0)
}

func (m *mockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func TestAvailable(t *testing.T) {
	assert.Equal(t, 60, (&TicketType{QuantityTotal: 100, QuantitySold: 40}).Available())
	assert.Equal(t, 0, (&TicketType{QuantityTotal: 100, QuantitySold: 100}).Available())
	// Never negative even if data drifted.
	assert.Equal(t, 0, (&TicketType{QuantityTotal: 100, QuantitySold: 120}).Available())
}

func TestValidateQuantity(t *testing.T) {
	t.Run("within remaining capacity", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo)
		id := uuid.New()

		repo.On("GetByID", mock.Anything, id).Return(&TicketType{
			ID:            id,
			QuantityTotal: 100,
			QuantitySold:  95,
			IsActive:      true,
		}, nil)

		ticketType, err := svc.ValidateQuantity(context.Background(), id, 5)
		require.NoError(t, err)
		assert.Equal(t, id, ticketType.ID)
	})

	t.Run("over capacity", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo)
		id := uuid.New()

		repo.On("GetByID", mock.Anything, id).Return(&TicketType{
			ID:            id,
			QuantityTotal: 100,
			QuantitySold:  98,
			IsActive:      true,
		}, nil)

		_, err := svc.ValidateQuantity(context.Background(), id, 3)
		assert.ErrorIs(t, err, ErrInsufficientCapacity)
	})

	t.Run("inactive tier is invisible", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo)
		id := uuid.New()

		repo.On("GetByID", mock.Anything, id).Return(&TicketType{
			ID:            id,
			QuantityTotal: 100,
			IsActive:      false,
		}, nil)

		_, err := svc.ValidateQuantity(context.Background(), id, 1)
		assert.ErrorIs(t, err, ErrTicketTypeNotFound)
	})

	t.Run("unknown tier", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo)
		id := uuid.New()

		repo.On("GetByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.ValidateQuantity(context.Background(), id, 1)
		assert.ErrorIs(t, err, ErrTicketTypeNotFound)
	})
}

func TestUpdateGuardsSoldCapacity(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo)
	id := uuid.New()

	repo.On("GetByID", mock.Anything, id).Return(&TicketType{
		ID:            id,
		EventID:       uuid.New(),
		QuantityTotal: 100,
		QuantitySold:  50,
	}, nil)

	smaller := 40
	_, err := svc.Update(context.Background(), id.String(), UpdateTicketTypeRequest{
		QuantityTotal: &smaller,
	})
	assert.Error(t, err)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestReleaseSale(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo)
	id := uuid.New()

	repo.On("DecrementSold", mock.Anything, id, 2).Return(nil)
	repo.On("GetByID", mock.Anything, id).Return(&TicketType{ID: id, EventID: uuid.New()}, nil)

	require.NoError(t, svc.ReleaseSale(context.Background(), id, 2))

	// Zero quantity never touches the counter.
	require.NoError(t, svc.ReleaseSale(context.Background(), id, 0))
	repo.AssertNumberOfCalls(t, "DecrementSold", 1)
}

func TestGetCustomerView(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo)
	eventID := uuid.New()

	repo.On("GetActiveByEventID", mock.Anything, eventID).Return([]TicketType{
		{ID: uuid.New(), Name: "Standing", Price: 25, QuantityTotal: 100, QuantitySold: 40},
		{ID: uuid.New(), Name: "Balcony", Price: 60, QuantityTotal: 20, QuantitySold: 20},
	}, nil)

	view, err := svc.GetCustomerView(context.Background(), eventID.String())
	require.NoError(t, err)
	require.Len(t, view, 2)

	assert.Equal(t, 60, view[0].Available)
	assert.False(t, view[0].SoldOut)
	assert.Equal(t, 0, view[1].Available)
	assert.True(t, view[1].SoldOut)
}
