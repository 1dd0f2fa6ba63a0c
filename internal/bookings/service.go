package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrBookingNotFound = errors.New("booking not found")

type Service interface {
	Create(ctx context.Context, booking *Booking) error
	GetBooking(ctx context.Context, id string) (*Booking, error)
	GetSessionBookings(ctx context.Context, sessionID string) ([]Booking, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, booking *Booking) error {
	if err := s.repo.Create(ctx, booking); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (s *service) GetBooking(ctx context.Context, id string) (*Booking, error) {
	bookingID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID: %w", err)
	}
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (s *service) GetSessionBookings(ctx context.Context, sessionID string) ([]Booking, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}
	return s.repo.GetBySessionID(ctx, sessionID)
}
