package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"stagepass/internal/auth"
	"stagepass/internal/events"
	"stagepass/internal/shared/config"
	"stagepass/internal/shared/database"
	"stagepass/internal/tickettypes"
	"stagepass/internal/venues"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting StagePass Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"booking_seats",
		"bookings",
		"seats",
		"venue_sections",
		"venue_templates",
		"ticket_types",
		"events",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	if err := tx.Exec("SET CONSTRAINTS ALL IMMEDIATE").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore constraints: %w", err)
	}

	return tx.Commit().Error
}

// SeedAll seeds organizer accounts, a seated event with sections and seats,
// and a general-admission event with ticket tiers.
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	organizerID, err := s.SeedOrganizer()
	if err != nil {
		return fmt.Errorf("failed to seed organizer: %w", err)
	}

	if err := s.SeedVenueTemplates(); err != nil {
		return fmt.Errorf("failed to seed venue templates: %w", err)
	}

	if err := s.SeedSeatedEvent(organizerID); err != nil {
		return fmt.Errorf("failed to seed seated event: %w", err)
	}

	if err := s.SeedGeneralAdmissionEvent(organizerID); err != nil {
		return fmt.Errorf("failed to seed general admission event: %w", err)
	}

	// Stale layout caches and holds would shadow the fresh rows.
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to clear Redis cache: %v", err)
	}

	return nil
}

// SeedOrganizer creates one organizer account (password "qwerty123").
func (s *Seeder) SeedOrganizer() (uuid.UUID, error) {
	fmt.Println("  👤 Seeding organizer...")

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty123"), bcrypt.DefaultCost)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to hash password: %w", err)
	}

	organizer := auth.User{
		ID:           uuid.New(),
		Email:        "organizer@stagepass.dev",
		PasswordHash: string(hashedPassword),
		Name:         "Demo Organizer",
		Role:         "ORGANIZER",
	}

	if err := s.db.PostgreSQL.Create(&organizer).Error; err != nil {
		return uuid.Nil, fmt.Errorf("failed to create organizer: %w", err)
	}

	fmt.Printf("    ✅ Created organizer: %s\n", organizer.Email)
	return organizer.ID, nil
}

// SeedVenueTemplates creates reusable hall shapes.
func (s *Seeder) SeedVenueTemplates() error {
	fmt.Println("  🏟️ Seeding venue templates...")

	templates := []venues.VenueTemplate{
		{
			ID:                 uuid.New(),
			Name:               "Small Theater",
			Description:        "Intimate theater with premium and standard rows",
			DefaultRows:        6,
			DefaultSeatsPerRow: 12,
			LayoutType:         "THEATER",
		},
		{
			ID:                 uuid.New(),
			Name:               "Cinema Hall",
			Description:        "Cinema layout with a center aisle",
			DefaultRows:        8,
			DefaultSeatsPerRow: 16,
			LayoutType:         "CINEMA",
		},
	}

	for i := range templates {
		if err := s.db.PostgreSQL.Create(&templates[i]).Error; err != nil {
			return fmt.Errorf("failed to create venue template %s: %w", templates[i].Name, err)
		}
		fmt.Printf("    ✅ Created venue template: %s\n", templates[i].Name)
	}

	return nil
}

// SeedSeatedEvent creates a published EVENT_HALL event with two sections and
// a full seat grid.
func (s *Seeder) SeedSeatedEvent(organizerID uuid.UUID) error {
	fmt.Println("  🎪 Seeding seated event...")

	event := events.Event{
		ID:          uuid.New(),
		OrganizerID: organizerID,
		Name:        "Classical Music Evening",
		Description: "An evening of classical music performed by renowned musicians.",
		VenueName:   "Grand Opera House",
		SeatingMode: events.ModeEventHall,
		BasePrice:   800.0,
		StartTime:   time.Now().AddDate(0, 0, 30),
		EndTime:     time.Now().AddDate(0, 0, 30).Add(3 * time.Hour),
		Status:      events.StatusPublished,
	}

	if err := s.db.PostgreSQL.Create(&event).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	fmt.Printf("    ✅ Created event: %s\n", event.Name)

	sections := []struct {
		name       string
		multiplier float64
		spec       venues.GridSpec
	}{
		{
			name:       "Premium",
			multiplier: 1.8,
			spec: venues.GridSpec{
				RowStart:    'A',
				RowEnd:      'B',
				SeatsPerRow: 12,
				AisleAfter:  []int{6},
				Price:       event.BasePrice * 1.8,
				VIP:         true,
			},
		},
		{
			name:       "Standard",
			multiplier: 1.0,
			spec: venues.GridSpec{
				RowStart:    'C',
				RowEnd:      'F',
				SeatsPerRow: 12,
				AisleAfter:  []int{6},
				Price:       event.BasePrice,
			},
		},
	}

	originY := 0.0
	for _, sectionData := range sections {
		spec := sectionData.spec
		spec.OriginY = originY

		rows, err := spec.RowCount()
		if err != nil {
			return err
		}

		section := venues.VenueSection{
			ID:              uuid.New(),
			EventID:         event.ID,
			Name:            sectionData.name,
			PriceMultiplier: sectionData.multiplier,
			RowStart:        string(spec.RowStart),
			RowEnd:          string(spec.RowEnd),
			SeatsPerRow:     spec.SeatsPerRow,
			TotalSeats:      rows * spec.SeatsPerRow,
		}

		if err := s.db.PostgreSQL.Create(&section).Error; err != nil {
			return fmt.Errorf("failed to create section %s: %w", section.Name, err)
		}

		generated, err := venues.GenerateSeats(event.ID, section.ID, spec)
		if err != nil {
			return fmt.Errorf("failed to generate seats for %s: %w", section.Name, err)
		}
		if err := s.db.PostgreSQL.CreateInBatches(generated, 200).Error; err != nil {
			return fmt.Errorf("failed to insert seats for %s: %w", section.Name, err)
		}

		fmt.Printf("      ✅ Created section: %s (%d seats)\n", section.Name, section.TotalSeats)
		originY += spec.Height()
	}

	return nil
}

// SeedGeneralAdmissionEvent creates a published GENERAL_ADMISSION event with
// ticket tiers instead of seats.
func (s *Seeder) SeedGeneralAdmissionEvent(organizerID uuid.UUID) error {
	fmt.Println("  🎫 Seeding general admission event...")

	event := events.Event{
		ID:          uuid.New(),
		OrganizerID: organizerID,
		Name:        "Summer Open Air Festival",
		Description: "Outdoor festival with standing areas and lawn access.",
		VenueName:   "Riverside Park",
		SeatingMode: events.ModeGeneralAdmission,
		BasePrice:   400.0,
		StartTime:   time.Now().AddDate(0, 0, 45),
		EndTime:     time.Now().AddDate(0, 0, 45).Add(8 * time.Hour),
		Status:      events.StatusPublished,
	}

	if err := s.db.PostgreSQL.Create(&event).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	fmt.Printf("    ✅ Created event: %s\n", event.Name)

	tiers := []tickettypes.TicketType{
		{
			ID:            uuid.New(),
			EventID:       event.ID,
			Name:          "General",
			Description:   "Standing area access",
			Price:         400.0,
			QuantityTotal: 500,
			IsActive:      true,
		},
		{
			ID:            uuid.New(),
			EventID:       event.ID,
			Name:          "VIP Lawn",
			Description:   "Reserved lawn area with lounge access",
			Price:         900.0,
			QuantityTotal: 80,
			IsActive:      true,
		},
	}

	for i := range tiers {
		if err := s.db.PostgreSQL.Create(&tiers[i]).Error; err != nil {
			return fmt.Errorf("failed to create ticket type %s: %w", tiers[i].Name, err)
		}
		fmt.Printf("      ✅ Created ticket type: %s (%d available)\n", tiers[i].Name, tiers[i].QuantityTotal)
	}

	return nil
}
