package database

import (
	"stagepass/internal/auth"
	"stagepass/internal/bookings"
	"stagepass/internal/events"
	"stagepass/internal/seats"
	"stagepass/internal/tickettypes"
	"stagepass/internal/venues"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	// uuid_generate_v4() defaults need the extension in place first.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}

	return db.AutoMigrate(
		&auth.User{},
		&events.Event{},
		&venues.VenueTemplate{},
		&venues.VenueSection{},
		&seats.Seat{},
		&tickettypes.TicketType{},
		&bookings.Booking{},
		&bookings.BookingSeat{},
	)
}
