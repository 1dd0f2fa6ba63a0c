package seats

import (
	"context"
	"errors"
	"fmt"

	"stagepass/internal/shared/config"
	"stagepass/internal/shared/constants"
	"stagepass/internal/notifications"
	"stagepass/pkg/cache"
	"stagepass/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSeatNotFound     = errors.New("seat not found")
	ErrSeatNotAvailable = errors.New("seat is not available")
)

// SectionProvider supplies section summaries for layout assembly. Implemented
// by the venues service; declared here to keep the dependency one-directional.
type SectionProvider interface {
	SectionViewsForEvent(ctx context.Context, eventID uuid.UUID) ([]SectionView, error)
}

// EventInfoProvider supplies the seating mode for layout responses.
type EventInfoProvider interface {
	SeatingModeForEvent(ctx context.Context, eventID uuid.UUID) (string, error)
}

type Service interface {
	// Hold flow
	Reserve(ctx context.Context, req ReserveRequest) (*ReserveResponse, error)
	Release(ctx context.Context, req ReleaseRequest) error

	// Layout and status
	EventLayout(ctx context.Context, eventID string) (*LayoutResponse, error)
	ReservationStatus(ctx context.Context, eventID, sessionID string) (*ReservationStatusResponse, error)

	// Seat management
	GetSeat(ctx context.Context, id string) (*Seat, error)
	GetSeatsBySection(ctx context.Context, sectionID string) ([]Seat, error)
	BlockSeat(ctx context.Context, id string) (*Seat, error)
	MarkBooked(ctx context.Context, seatIDs []uuid.UUID) error
	MarkAvailable(ctx context.Context, seatIDs []uuid.UUID) error

	// InvalidateLayoutCache drops the cached geometry after reconfiguration.
	InvalidateLayoutCache(ctx context.Context, eventID uuid.UUID)
}

type service struct {
	repo         Repository
	holds        HoldStore
	config       *config.Config
	cacheService cache.Service
	sections     SectionProvider
	eventInfo    EventInfoProvider
	producer     notifications.Producer
}

func NewService(repo Repository, holds HoldStore, cfg *config.Config) *service {
	return &service{
		repo:   repo,
		holds:  holds,
		config: cfg,
	}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) SetSectionProvider(sections SectionProvider) {
	s.sections = sections
}

func (s *service) SetEventInfoProvider(eventInfo EventInfoProvider) {
	s.eventInfo = eventInfo
}

func (s *service) SetProducer(producer notifications.Producer) {
	s.producer = producer
}

//  HOLD FLOW

// Reserve places a session-scoped hold on one seat. Availability is checked
// in Postgres before any lock is taken, then the Redis script enforces the
// at-most-one-holder guarantee atomically.
func (s *service) Reserve(ctx context.Context, req ReserveRequest) (*ReserveResponse, error) {
	seatID, err := uuid.Parse(req.SeatID)
	if err != nil {
		return nil, fmt.Errorf("invalid seat ID: %w", err)
	}

	seat, err := s.repo.GetByID(ctx, seatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSeatNotFound
		}
		return nil, fmt.Errorf("failed to get seat: %w", err)
	}

	if seat.Status != StatusAvailable {
		return nil, ErrSeatNotAvailable
	}

	ttl := s.config.Redis.SeatHoldTTL
	reservedUntil, err := s.holds.Hold(ctx, seat.EventID, seat.ID, req.SessionID, ttl)
	if err != nil {
		return nil, err
	}

	logger.GetDefault().LogHoldPlaced(ctx, seat.EventID.String(), seat.ID.String(), req.SessionID, reservedUntil)
	s.publish(ctx, &notifications.HoldEvent{
		Type:          notifications.HoldEventPlaced,
		EventID:       seat.EventID.String(),
		SeatID:        seat.ID.String(),
		SessionID:     req.SessionID,
		ReservedUntil: &reservedUntil,
	})

	return &ReserveResponse{
		SeatID:        seat.ID.String(),
		SeatNumber:    seat.SeatNumber,
		Row:           seat.Row,
		Price:         seat.Price,
		SessionID:     req.SessionID,
		ReservedUntil: reservedUntil,
	}, nil
}

// Release drops a hold owned by the calling session. Foreign or missing
// holds fail without side effects.
func (s *service) Release(ctx context.Context, req ReleaseRequest) error {
	seatID, err := uuid.Parse(req.SeatID)
	if err != nil {
		return fmt.Errorf("invalid seat ID: %w", err)
	}

	seat, err := s.repo.GetByID(ctx, seatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSeatNotFound
		}
		return fmt.Errorf("failed to get seat: %w", err)
	}

	if err := s.holds.Release(ctx, seat.EventID, seat.ID, req.SessionID); err != nil {
		return err
	}

	logger.GetDefault().LogHoldReleased(ctx, seat.EventID.String(), seat.ID.String(), req.SessionID)
	s.publish(ctx, &notifications.HoldEvent{
		Type:      notifications.HoldEventReleased,
		EventID:   seat.EventID.String(),
		SeatID:    seat.ID.String(),
		SessionID: req.SessionID,
	})

	return nil
}

//  LAYOUT AND STATUS

// cachedLayout is the geometry-only portion of a layout response. Seat
// statuses in the cached copy are placeholders and always overwritten from
// live data before the response leaves the service.
type cachedLayout struct {
	Mode     string        `json:"mode"`
	Stage    StageGeometry `json:"stage"`
	Sections []SectionView `json:"sections"`
	Seats    []SeatView    `json:"seats"`
}

func (s *service) EventLayout(ctx context.Context, eventID string) (*LayoutResponse, error) {
	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}

	geometry, err := s.layoutGeometry(ctx, eventUUID)
	if err != nil {
		return nil, err
	}

	// Status merge happens on every request: persisted status first, then
	// live holds override AVAILABLE with RESERVED.
	statuses, err := s.repo.GetStatusesByEventID(ctx, eventUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to get seat statuses: %w", err)
	}

	seatUUIDs := make([]uuid.UUID, 0, len(geometry.Seats))
	for _, sv := range geometry.Seats {
		if id, err := uuid.Parse(sv.ID); err == nil {
			seatUUIDs = append(seatUUIDs, id)
		}
	}

	holds, err := s.holds.HeldSeats(ctx, eventUUID, seatUUIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to check holds: %w", err)
	}

	seatViews := make([]SeatView, len(geometry.Seats))
	for i, sv := range geometry.Seats {
		if id, err := uuid.Parse(sv.ID); err == nil {
			if status, ok := statuses[id]; ok {
				sv.Status = status
			}
		}
		if sv.Status == StatusAvailable && holds[sv.ID] != "" {
			sv.Status = StatusReserved
		}
		seatViews[i] = sv
	}

	return &LayoutResponse{
		EventID:  eventID,
		Mode:     geometry.Mode,
		Stage:    geometry.Stage,
		Sections: geometry.Sections,
		Seats:    seatViews,
	}, nil
}

// layoutGeometry assembles (or serves from cache) the stable portion of the
// layout: stage, sections and per-seat geometry.
func (s *service) layoutGeometry(ctx context.Context, eventID uuid.UUID) (*cachedLayout, error) {
	cacheKey := constants.BuildLayoutKey(eventID.String())

	if s.cacheService != nil {
		var cached cachedLayout
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	layout, err := s.buildLayoutGeometry(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, layout, constants.TTL_LAYOUT_GEOMETRY); err != nil {
			logger.GetDefault().Debug("failed to cache layout geometry", "error", err)
		}
	}

	return layout, nil
}

func (s *service) buildLayoutGeometry(ctx context.Context, eventID uuid.UUID) (*cachedLayout, error) {
	seats, err := s.repo.GetByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get seats: %w", err)
	}

	seatViews := make([]SeatView, 0, len(seats))
	maxX := 0.0
	for _, seat := range seats {
		seatViews = append(seatViews, SeatView{
			ID:         seat.ID.String(),
			SectionID:  seat.SectionID.String(),
			Row:        seat.Row,
			SeatNumber: seat.SeatNumber,
			Position:   seat.Position,
			X:          seat.X,
			Y:          seat.Y,
			Width:      seat.Width,
			Height:     seat.Height,
			Price:      seat.Price,
			Status:     seat.Status,
			VIP:        seat.VIP,
			Accessible: seat.Accessible,
		})
		if right := seat.X + seat.Width; right > maxX {
			maxX = right
		}
	}

	var sections []SectionView
	if s.sections != nil {
		sections, err = s.sections.SectionViewsForEvent(ctx, eventID)
		if err != nil {
			return nil, fmt.Errorf("failed to get sections: %w", err)
		}
	}

	mode := "EVENT_HALL"
	if s.eventInfo != nil {
		if m, err := s.eventInfo.SeatingModeForEvent(ctx, eventID); err == nil && m != "" {
			mode = m
		}
	}

	return &cachedLayout{
		Mode: mode,
		// The stage spans the seat map and sits above the first row.
		Stage: StageGeometry{
			X:      0,
			Y:      0,
			Width:  maxX,
			Height: 40,
			Label:  "STAGE",
		},
		Sections: sections,
		Seats:    seatViews,
	}, nil
}

func (s *service) ReservationStatus(ctx context.Context, eventID, sessionID string) (*ReservationStatusResponse, error) {
	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}

	statuses, err := s.repo.GetStatusesByEventID(ctx, eventUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to get seat statuses: %w", err)
	}

	seatUUIDs := make([]uuid.UUID, 0, len(statuses))
	for id := range statuses {
		seatUUIDs = append(seatUUIDs, id)
	}

	holds, err := s.holds.HeldSeats(ctx, eventUUID, seatUUIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to check holds: %w", err)
	}

	result := make([]SeatReservationStatus, 0, len(statuses))
	for id, status := range statuses {
		owner := holds[id.String()]
		held := owner != ""
		if status == StatusAvailable && held {
			status = StatusReserved
		}
		result = append(result, SeatReservationStatus{
			SeatID:   id.String(),
			Status:   status,
			Held:     held,
			HeldByMe: sessionID != "" && owner == sessionID,
		})
	}

	return &ReservationStatusResponse{
		EventID: eventID,
		Seats:   result,
	}, nil
}

//  SEAT MANAGEMENT

func (s *service) GetSeat(ctx context.Context, id string) (*Seat, error) {
	seatID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid seat ID: %w", err)
	}

	seat, err := s.repo.GetByID(ctx, seatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSeatNotFound
		}
		return nil, fmt.Errorf("failed to get seat: %w", err)
	}

	return seat, nil
}

func (s *service) GetSeatsBySection(ctx context.Context, sectionID string) ([]Seat, error) {
	sectionUUID, err := uuid.Parse(sectionID)
	if err != nil {
		return nil, fmt.Errorf("invalid section ID: %w", err)
	}
	return s.repo.GetBySectionID(ctx, sectionUUID)
}

// BlockSeat takes a seat off sale.
func (s *service) BlockSeat(ctx context.Context, id string) (*Seat, error) {
	seatID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid seat ID: %w", err)
	}

	if err := s.repo.Update(ctx, seatID, map[string]interface{}{"status": StatusUnavailable}); err != nil {
		return nil, fmt.Errorf("failed to block seat: %w", err)
	}

	return s.repo.GetByID(ctx, seatID)
}

func (s *service) MarkBooked(ctx context.Context, seatIDs []uuid.UUID) error {
	return s.repo.UpdateStatus(ctx, seatIDs, StatusBooked)
}

// MarkAvailable puts seats back on sale after a checkout that booked them
// failed partway through.
func (s *service) MarkAvailable(ctx context.Context, seatIDs []uuid.UUID) error {
	return s.repo.UpdateStatus(ctx, seatIDs, StatusAvailable)
}

func (s *service) InvalidateLayoutCache(ctx context.Context, eventID uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Delete(ctx, constants.BuildLayoutKey(eventID.String())); err != nil {
		logger.GetDefault().Debug("failed to invalidate layout cache", "error", err)
	}
}

func (s *service) publish(ctx context.Context, event *notifications.HoldEvent) {
	if s.producer == nil {
		return
	}
	if err := s.producer.PublishHoldEvent(ctx, event); err != nil {
		// Publishing is best-effort; the hold flow must not fail on it.
		logger.GetDefault().ErrorWithContext(ctx, "failed to publish hold event", err, nil)
	}
}
