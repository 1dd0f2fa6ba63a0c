package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"stagepass/internal/events"
	"stagepass/internal/shared/constants"
	"stagepass/pkg/cache"
)

var ErrNotEventOwner = errors.New("event belongs to another organizer")

const trendWindow = 30 * 24 * time.Hour

type Service interface {
	OrganizerDashboard(ctx context.Context, organizerID string) (*OrganizerDashboard, error)
	EventDashboard(ctx context.Context, organizerID, eventID string) (*EventDashboard, error)
}

type service struct {
	repo         Repository
	eventsSvc    events.Service
	cacheService cache.Service
}

func NewService(repo Repository, eventsSvc events.Service) *service {
	return &service{repo: repo, eventsSvc: eventsSvc}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

// OrganizerDashboard rolls up sales across all the organizer's events.
// Cached briefly; dashboards tolerate minutes of staleness.
func (s *service) OrganizerDashboard(ctx context.Context, organizerID string) (*OrganizerDashboard, error) {
	id, err := uuid.Parse(organizerID)
	if err != nil {
		return nil, fmt.Errorf("invalid organizer ID: %w", err)
	}

	cacheKey := constants.BuildOrganizerSalesKey(organizerID)
	if s.cacheService != nil {
		var cached OrganizerDashboard
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	total, published, err := s.repo.CountEventsByOrganizer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}
	agg, err := s.repo.OrganizerBookingAggregates(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate bookings: %w", err)
	}
	daily, err := s.repo.OrganizerDailyRevenue(ctx, id, time.Now().Add(-trendWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to build revenue trend: %w", err)
	}

	dashboard := &OrganizerDashboard{
		OrganizerID:     organizerID,
		TotalEvents:     total,
		PublishedEvents: published,
		TotalBookings:   agg.Bookings,
		TotalRevenue:    agg.Revenue,
		SeatsSold:       agg.SeatsSold,
		GeneralSold:     agg.GeneralSold,
		DailyRevenue:    daily,
	}

	if s.cacheService != nil {
		_ = s.cacheService.Set(ctx, cacheKey, dashboard, constants.TTL_ANALYTICS_SALES)
	}
	return dashboard, nil
}

// EventDashboard is the per-event drill-down. Only the owning organizer may
// read it.
func (s *service) EventDashboard(ctx context.Context, organizerID, eventID string) (*EventDashboard, error) {
	event, err := s.eventsSvc.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID.String() != organizerID {
		return nil, ErrNotEventOwner
	}

	cacheKey := constants.BuildEventSalesKey(eventID)
	if s.cacheService != nil {
		var cached EventDashboard
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	agg, err := s.repo.EventBookingAggregates(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate bookings: %w", err)
	}
	capacity, booked, err := s.repo.EventSeatCounts(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count seats: %w", err)
	}
	daily, err := s.repo.EventDailyRevenue(ctx, event.ID, time.Now().Add(-trendWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to build revenue trend: %w", err)
	}

	dashboard := &EventDashboard{
		EventID:         eventID,
		Bookings:        agg.Bookings,
		Revenue:         agg.Revenue,
		SeatsSold:       booked,
		SeatCapacity:    capacity,
		SeatUtilization: utilization(booked, capacity),
		GeneralSold:     agg.GeneralSold,
		DailyRevenue:    daily,
	}

	if s.cacheService != nil {
		_ = s.cacheService.Set(ctx, cacheKey, dashboard, constants.TTL_ANALYTICS_SALES)
	}
	return dashboard, nil
}

func utilization(booked, capacity int64) float64 {
	if capacity == 0 {
		return 0
	}
	return float64(booked) / float64(capacity)
}
