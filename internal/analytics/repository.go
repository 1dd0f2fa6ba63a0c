package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stagepass/internal/bookings"
	"stagepass/internal/events"
	"stagepass/internal/seats"
)

// bookingAggregates is the shared rollup shape for confirmed bookings.
type bookingAggregates struct {
	Bookings    int64
	Revenue     float64
	SeatsSold   int64
	GeneralSold int64
}

type Repository interface {
	CountEventsByOrganizer(ctx context.Context, organizerID uuid.UUID) (total, published int64, err error)
	OrganizerBookingAggregates(ctx context.Context, organizerID uuid.UUID) (*bookingAggregates, error)
	OrganizerDailyRevenue(ctx context.Context, organizerID uuid.UUID, since time.Time) ([]DailyPoint, error)

	EventBookingAggregates(ctx context.Context, eventID uuid.UUID) (*bookingAggregates, error)
	EventDailyRevenue(ctx context.Context, eventID uuid.UUID, since time.Time) ([]DailyPoint, error)
	EventSeatCounts(ctx context.Context, eventID uuid.UUID) (capacity, booked int64, err error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CountEventsByOrganizer(ctx context.Context, organizerID uuid.UUID) (int64, int64, error) {
	var total, published int64
	if err := r.db.WithContext(ctx).
		Model(&events.Event{}).
		Where("organizer_id = ?", organizerID).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).
		Model(&events.Event{}).
		Where("organizer_id = ? AND status = ?", organizerID, events.StatusPublished).
		Count(&published).Error; err != nil {
		return 0, 0, err
	}
	return total, published, nil
}

func (r *repository) OrganizerBookingAggregates(ctx context.Context, organizerID uuid.UUID) (*bookingAggregates, error) {
	var agg bookingAggregates
	err := r.db.WithContext(ctx).
		Model(&bookings.Booking{}).
		Select(`COUNT(*) AS bookings,
			COALESCE(SUM(bookings.total_price), 0) AS revenue,
			COALESCE(SUM(bookings.seat_count), 0) AS seats_sold,
			COALESCE(SUM(bookings.general_tickets), 0) AS general_sold`).
		Joins("JOIN events ON events.id = bookings.event_id").
		Where("events.organizer_id = ? AND bookings.status = ?", organizerID, bookings.StatusConfirmed).
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}
	return &agg, nil
}

func (r *repository) OrganizerDailyRevenue(ctx context.Context, organizerID uuid.UUID, since time.Time) ([]DailyPoint, error) {
	var points []DailyPoint
	err := r.db.WithContext(ctx).
		Model(&bookings.Booking{}).
		Select(`TO_CHAR(DATE(bookings.created_at), 'YYYY-MM-DD') AS date,
			COUNT(*) AS bookings,
			COALESCE(SUM(bookings.total_price), 0) AS revenue`).
		Joins("JOIN events ON events.id = bookings.event_id").
		Where("events.organizer_id = ? AND bookings.status = ? AND bookings.created_at >= ?",
			organizerID, bookings.StatusConfirmed, since).
		Group("DATE(bookings.created_at)").
		Order("date ASC").
		Scan(&points).Error
	return points, err
}

func (r *repository) EventBookingAggregates(ctx context.Context, eventID uuid.UUID) (*bookingAggregates, error) {
	var agg bookingAggregates
	err := r.db.WithContext(ctx).
		Model(&bookings.Booking{}).
		Select(`COUNT(*) AS bookings,
			COALESCE(SUM(total_price), 0) AS revenue,
			COALESCE(SUM(seat_count), 0) AS seats_sold,
			COALESCE(SUM(general_tickets), 0) AS general_sold`).
		Where("event_id = ? AND status = ?", eventID, bookings.StatusConfirmed).
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}
	return &agg, nil
}

func (r *repository) EventDailyRevenue(ctx context.Context, eventID uuid.UUID, since time.Time) ([]DailyPoint, error) {
	var points []DailyPoint
	err := r.db.WithContext(ctx).
		Model(&bookings.Booking{}).
		Select(`TO_CHAR(DATE(created_at), 'YYYY-MM-DD') AS date,
			COUNT(*) AS bookings,
			COALESCE(SUM(total_price), 0) AS revenue`).
		Where("event_id = ? AND status = ? AND created_at >= ?", eventID, bookings.StatusConfirmed, since).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&points).Error
	return points, err
}

func (r *repository) EventSeatCounts(ctx context.Context, eventID uuid.UUID) (int64, int64, error) {
	var capacity, booked int64
	if err := r.db.WithContext(ctx).
		Model(&seats.Seat{}).
		Where("event_id = ?", eventID).
		Count(&capacity).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).
		Model(&seats.Seat{}).
		Where("event_id = ? AND status = ?", eventID, seats.StatusBooked).
		Count(&booked).Error; err != nil {
		return 0, 0, err
	}
	return capacity, booked, nil
}
