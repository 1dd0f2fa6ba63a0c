package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrEventNotFound = errors.New("event not found")

type Service interface {
	CreateEvent(ctx context.Context, organizerID string, req CreateEventRequest) (*Event, error)
	GetEvent(ctx context.Context, id string) (*Event, error)
	GetOrganizerEvents(ctx context.Context, organizerID string) ([]Event, error)
	ListPublished(ctx context.Context, limit, offset int) ([]Event, error)
	UpdateEvent(ctx context.Context, id string, req UpdateEventRequest) (*Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateEvent(ctx context.Context, organizerID string, req CreateEventRequest) (*Event, error) {
	orgUUID, err := uuid.Parse(organizerID)
	if err != nil {
		return nil, fmt.Errorf("invalid organizer ID: %w", err)
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid start_time: %w", err)
	}
	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("invalid end_time: %w", err)
	}
	if !endTime.After(startTime) {
		return nil, fmt.Errorf("end_time must be after start_time")
	}

	mode := SeatingMode(req.SeatingMode)
	if mode == "" {
		mode = ModeEventHall
	}

	event := &Event{
		OrganizerID: orgUUID,
		Name:        req.Name,
		Description: req.Description,
		VenueName:   req.VenueName,
		SeatingMode: mode,
		BasePrice:   req.BasePrice,
		StartTime:   startTime,
		EndTime:     endTime,
		Status:      "DRAFT",
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return event, nil
}

func (s *service) GetEvent(ctx context.Context, id string) (*Event, error) {
	eventID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}

	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return event, nil
}

func (s *service) GetOrganizerEvents(ctx context.Context, organizerID string) ([]Event, error) {
	orgUUID, err := uuid.Parse(organizerID)
	if err != nil {
		return nil, fmt.Errorf("invalid organizer ID: %w", err)
	}
	return s.repo.GetByOrganizer(ctx, orgUUID)
}

func (s *service) ListPublished(ctx context.Context, limit, offset int) ([]Event, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListPublished(ctx, limit, offset)
}

func (s *service) UpdateEvent(ctx context.Context, id string, req UpdateEventRequest) (*Event, error) {
	eventID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.VenueName != nil {
		updates["venue_name"] = *req.VenueName
	}
	if req.BasePrice != nil {
		if *req.BasePrice <= 0 {
			return nil, fmt.Errorf("base_price must be positive")
		}
		updates["base_price"] = *req.BasePrice
	}
	if req.Status != nil {
		validStatuses := map[string]bool{"DRAFT": true, "PUBLISHED": true, "CANCELLED": true, "COMPLETED": true}
		if !validStatuses[*req.Status] {
			return nil, fmt.Errorf("invalid event status: %s", *req.Status)
		}
		updates["status"] = *req.Status
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, eventID, updates); err != nil {
			return nil, fmt.Errorf("failed to update event: %w", err)
		}
	}

	return s.GetEvent(ctx, id)
}

func (s *service) DeleteEvent(ctx context.Context, id string) error {
	eventID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid event ID: %w", err)
	}

	if _, err := s.repo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to get event: %w", err)
	}

	return s.repo.Delete(ctx, eventID)
}
