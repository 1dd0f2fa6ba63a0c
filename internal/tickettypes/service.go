package tickettypes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stagepass/internal/shared/constants"
	"stagepass/pkg/cache"
)

var (
	ErrTicketTypeNotFound   = errors.New("ticket type not found")
	ErrInsufficientCapacity = errors.New("requested quantity exceeds remaining capacity")
)

const customerCacheTTL = 1 * time.Minute

type Service interface {
	Create(ctx context.Context, eventID string, req CreateTicketTypeRequest) (*TicketType, error)
	GetByEvent(ctx context.Context, eventID string) ([]TicketType, error)
	GetCustomerView(ctx context.Context, eventID string) ([]CustomerTicketType, error)
	Update(ctx context.Context, id string, req UpdateTicketTypeRequest) (*TicketType, error)
	Delete(ctx context.Context, id string) error

	// ValidateQuantity checks a requested GA quantity against remaining
	// capacity without reserving anything.
	ValidateQuantity(ctx context.Context, ticketTypeID uuid.UUID, quantity int) (*TicketType, error)

	// CommitSale moves capacity at checkout.
	CommitSale(ctx context.Context, ticketTypeID uuid.UUID, quantity int) error

	// ReleaseSale returns committed capacity when a checkout aborts after
	// some of its sales already went through.
	ReleaseSale(ctx context.Context, ticketTypeID uuid.UUID, quantity int) error
}

type service struct {
	repo         Repository
	cacheService cache.Service
}

func NewService(repo Repository) *service {
	return &service{repo: repo}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) Create(ctx context.Context, eventID string, req CreateTicketTypeRequest) (*TicketType, error) {
	id, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}

	ticketType := &TicketType{
		EventID:       id,
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		QuantityTotal: req.QuantityTotal,
		IsActive:      true,
	}
	if err := s.repo.Create(ctx, ticketType); err != nil {
		return nil, fmt.Errorf("failed to create ticket type: %w", err)
	}

	s.invalidateCustomerCache(ctx, id)
	return ticketType, nil
}

func (s *service) GetByEvent(ctx context.Context, eventID string) ([]TicketType, error) {
	id, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}
	return s.repo.GetByEventID(ctx, id)
}

// GetCustomerView returns active tiers with remaining availability. The
// result is cached briefly; sold counters only move at checkout, so short
// staleness is acceptable.
func (s *service) GetCustomerView(ctx context.Context, eventID string) ([]CustomerTicketType, error) {
	id, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}

	cacheKey := constants.BuildTicketTypesKey(id.String())
	if s.cacheService != nil {
		var cached []CustomerTicketType
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	ticketTypes, err := s.repo.GetActiveByEventID(ctx, id)
	if err != nil {
		return nil, err
	}

	view := make([]CustomerTicketType, 0, len(ticketTypes))
	for _, tt := range ticketTypes {
		available := tt.Available()
		view = append(view, CustomerTicketType{
			ID:          tt.ID.String(),
			Name:        tt.Name,
			Description: tt.Description,
			Price:       tt.Price,
			Available:   available,
			SoldOut:     available == 0,
		})
	}

	if s.cacheService != nil {
		_ = s.cacheService.Set(ctx, cacheKey, view, customerCacheTTL)
	}
	return view, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateTicketTypeRequest) (*TicketType, error) {
	ticketTypeID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid ticket type ID: %w", err)
	}
	existing, err := s.repo.GetByID(ctx, ticketTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketTypeNotFound
		}
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.QuantityTotal != nil {
		if *req.QuantityTotal < existing.QuantitySold {
			return nil, fmt.Errorf("capacity %d is below %d already sold", *req.QuantityTotal, existing.QuantitySold)
		}
		updates["quantity_total"] = *req.QuantityTotal
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return existing, nil
	}

	if err := s.repo.Update(ctx, ticketTypeID, updates); err != nil {
		return nil, fmt.Errorf("failed to update ticket type: %w", err)
	}

	s.invalidateCustomerCache(ctx, existing.EventID)
	return s.repo.GetByID(ctx, ticketTypeID)
}

func (s *service) Delete(ctx context.Context, id string) error {
	ticketTypeID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid ticket type ID: %w", err)
	}
	existing, err := s.repo.GetByID(ctx, ticketTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTicketTypeNotFound
		}
		return err
	}
	if existing.QuantitySold > 0 {
		return fmt.Errorf("cannot delete ticket type with %d tickets sold", existing.QuantitySold)
	}

	if err := s.repo.Delete(ctx, ticketTypeID); err != nil {
		return err
	}
	s.invalidateCustomerCache(ctx, existing.EventID)
	return nil
}

func (s *service) ValidateQuantity(ctx context.Context, ticketTypeID uuid.UUID, quantity int) (*TicketType, error) {
	ticketType, err := s.repo.GetByID(ctx, ticketTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketTypeNotFound
		}
		return nil, err
	}
	if !ticketType.IsActive {
		return nil, ErrTicketTypeNotFound
	}
	if quantity > ticketType.Available() {
		return nil, ErrInsufficientCapacity
	}
	return ticketType, nil
}

func (s *service) CommitSale(ctx context.Context, ticketTypeID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return nil
	}
	if err := s.repo.IncrementSold(ctx, ticketTypeID, quantity); err != nil {
		return err
	}

	ticketType, err := s.repo.GetByID(ctx, ticketTypeID)
	if err == nil {
		s.invalidateCustomerCache(ctx, ticketType.EventID)
	}
	return nil
}

func (s *service) ReleaseSale(ctx context.Context, ticketTypeID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return nil
	}
	if err := s.repo.DecrementSold(ctx, ticketTypeID, quantity); err != nil {
		return err
	}

	ticketType, err := s.repo.GetByID(ctx, ticketTypeID)
	if err == nil {
		s.invalidateCustomerCache(ctx, ticketType.EventID)
	}
	return nil
}

func (s *service) invalidateCustomerCache(ctx context.Context, eventID uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	_ = s.cacheService.Delete(ctx, constants.BuildTicketTypesKey(eventID.String()))
}
