package venues

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stagepass/internal/events"
	"stagepass/internal/seats"
	"stagepass/pkg/logger"
)

var (
	ErrTemplateNotFound = errors.New("venue template not found")
	ErrSectionNotFound  = errors.New("venue section not found")
	ErrEventNotSeated   = errors.New("event does not use hall seating")
)

// VIP pricing starts at this multiplier.
const vipMultiplierThreshold = 1.5

type Service interface {
	CreateTemplate(ctx context.Context, req CreateTemplateRequest) (*VenueTemplate, error)
	ListTemplates(ctx context.Context) ([]VenueTemplate, error)
	DeleteTemplate(ctx context.Context, id string) error

	CreateSection(ctx context.Context, eventID string, req CreateSectionRequest) (*VenueSection, error)
	GetSectionsByEvent(ctx context.Context, eventID string) ([]VenueSection, error)
	UpdateSection(ctx context.Context, id string, req UpdateSectionRequest) (*VenueSection, error)
	DeleteSection(ctx context.Context, id string) error

	// SectionViewsForEvent feeds section summaries into layout assembly.
	SectionViewsForEvent(ctx context.Context, eventID uuid.UUID) ([]seats.SectionView, error)
}

type service struct {
	repo      Repository
	seatsRepo seats.Repository
	seatsSvc  seats.Service
	eventsSvc events.Service
	log       *logger.Logger
}

func NewService(repo Repository, seatsRepo seats.Repository, seatsSvc seats.Service, eventsSvc events.Service) Service {
	return &service{
		repo:      repo,
		seatsRepo: seatsRepo,
		seatsSvc:  seatsSvc,
		eventsSvc: eventsSvc,
		log:       logger.GetDefault(),
	}
}

func (s *service) CreateTemplate(ctx context.Context, req CreateTemplateRequest) (*VenueTemplate, error) {
	template := &VenueTemplate{
		Name:               req.Name,
		Description:        req.Description,
		DefaultRows:        req.DefaultRows,
		DefaultSeatsPerRow: req.DefaultSeatsPerRow,
		LayoutType:         req.LayoutType,
	}
	if err := s.repo.CreateTemplate(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to create venue template: %w", err)
	}
	return template, nil
}

func (s *service) ListTemplates(ctx context.Context) ([]VenueTemplate, error) {
	return s.repo.ListTemplates(ctx)
}

func (s *service) DeleteTemplate(ctx context.Context, id string) error {
	templateID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid template ID: %w", err)
	}
	if _, err := s.repo.GetTemplateByID(ctx, templateID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTemplateNotFound
		}
		return err
	}
	return s.repo.DeleteTemplate(ctx, templateID)
}

// CreateSection persists the section and generates its seat grid in one go.
// Seats in later sections stack below earlier ones on the layout canvas.
func (s *service) CreateSection(ctx context.Context, eventID string, req CreateSectionRequest) (*VenueSection, error) {
	event, err := s.eventsSvc.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.SeatingMode != events.ModeEventHall {
		return nil, ErrEventNotSeated
	}

	multiplier := req.PriceMultiplier
	if multiplier == 0 {
		multiplier = 1.0
	}

	existing, err := s.repo.GetSectionsByEventID(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing sections: %w", err)
	}
	originY := 0.0
	for _, sec := range existing {
		prior := GridSpec{RowStart: rowByte(sec.RowStart), RowEnd: rowByte(sec.RowEnd), SeatsPerRow: sec.SeatsPerRow}
		originY += prior.Height() + seatGapY
	}

	spec := GridSpec{
		RowStart:    rowByte(req.RowStart),
		RowEnd:      rowByte(req.RowEnd),
		SeatsPerRow: req.SeatsPerRow,
		AisleAfter:  req.AisleAfter,
		OriginY:     originY,
		Price:       event.BasePrice * multiplier,
		VIP:         multiplier >= vipMultiplierThreshold,
	}
	rows, err := spec.RowCount()
	if err != nil {
		return nil, err
	}

	section := &VenueSection{
		EventID:         event.ID,
		Name:            req.Name,
		PriceMultiplier: multiplier,
		RowStart:        req.RowStart,
		RowEnd:          req.RowEnd,
		SeatsPerRow:     req.SeatsPerRow,
		TotalSeats:      rows * req.SeatsPerRow,
	}
	if req.TemplateID != "" {
		templateID, err := uuid.Parse(req.TemplateID)
		if err != nil {
			return nil, fmt.Errorf("invalid template ID: %w", err)
		}
		if _, err := s.repo.GetTemplateByID(ctx, templateID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTemplateNotFound
			}
			return nil, err
		}
		section.TemplateID = &templateID
	}

	if err := s.repo.CreateSection(ctx, section); err != nil {
		return nil, fmt.Errorf("failed to create section: %w", err)
	}

	generated, err := GenerateSeats(event.ID, section.ID, spec)
	if err != nil {
		return nil, err
	}
	if err := s.seatsRepo.CreateBatch(ctx, generated); err != nil {
		return nil, fmt.Errorf("failed to generate seats: %w", err)
	}

	s.seatsSvc.InvalidateLayoutCache(ctx, event.ID)
	s.log.Info("section created",
		"event_id", event.ID.String(),
		"section_id", section.ID.String(),
		"seats", len(generated),
	)
	return section, nil
}

func (s *service) GetSectionsByEvent(ctx context.Context, eventID string) ([]VenueSection, error) {
	id, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}
	return s.repo.GetSectionsByEventID(ctx, id)
}

func (s *service) UpdateSection(ctx context.Context, id string, req UpdateSectionRequest) (*VenueSection, error) {
	sectionID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid section ID: %w", err)
	}
	section, err := s.repo.GetSectionByID(ctx, sectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.PriceMultiplier != nil {
		updates["price_multiplier"] = *req.PriceMultiplier
	}
	if len(updates) == 0 {
		return section, nil
	}
	if err := s.repo.UpdateSection(ctx, sectionID, updates); err != nil {
		return nil, fmt.Errorf("failed to update section: %w", err)
	}

	// Repricing does not touch generated seats; a price change applies to the
	// section summary only until seats are regenerated.
	s.seatsSvc.InvalidateLayoutCache(ctx, section.EventID)
	return s.repo.GetSectionByID(ctx, sectionID)
}

// DeleteSection removes the section together with its generated seats.
func (s *service) DeleteSection(ctx context.Context, id string) error {
	sectionID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid section ID: %w", err)
	}
	section, err := s.repo.GetSectionByID(ctx, sectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSectionNotFound
		}
		return err
	}

	if err := s.seatsRepo.DeleteBySectionID(ctx, sectionID); err != nil {
		return fmt.Errorf("failed to delete section seats: %w", err)
	}
	if err := s.repo.DeleteSection(ctx, sectionID); err != nil {
		return fmt.Errorf("failed to delete section: %w", err)
	}

	s.seatsSvc.InvalidateLayoutCache(ctx, section.EventID)
	return nil
}

func (s *service) SectionViewsForEvent(ctx context.Context, eventID uuid.UUID) ([]seats.SectionView, error) {
	sections, err := s.repo.GetSectionsByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	views := make([]seats.SectionView, 0, len(sections))
	for _, sec := range sections {
		views = append(views, seats.SectionView{
			ID:              sec.ID.String(),
			Name:            sec.Name,
			PriceMultiplier: sec.PriceMultiplier,
			TotalSeats:      sec.TotalSeats,
		})
	}
	return views, nil
}

func rowByte(label string) byte {
	if label == "" {
		return 0
	}
	return label[0]
}
