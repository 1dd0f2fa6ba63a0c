package analytics

// DailyPoint is one day of sales in a trend series.
type DailyPoint struct {
	Date     string  `json:"date"`
	Bookings int     `json:"bookings"`
	Revenue  float64 `json:"revenue"`
}

// OrganizerDashboard aggregates sales across all of one organizer's events.
type OrganizerDashboard struct {
	OrganizerID     string       `json:"organizer_id"`
	TotalEvents     int64        `json:"total_events"`
	PublishedEvents int64        `json:"published_events"`
	TotalBookings   int64        `json:"total_bookings"`
	TotalRevenue    float64      `json:"total_revenue"`
	SeatsSold       int64        `json:"seats_sold"`
	GeneralSold     int64        `json:"general_sold"`
	DailyRevenue    []DailyPoint `json:"daily_revenue"`
}

// EventDashboard is the per-event sales view, including hall utilization.
type EventDashboard struct {
	EventID         string       `json:"event_id"`
	Bookings        int64        `json:"bookings"`
	Revenue         float64      `json:"revenue"`
	SeatsSold       int64        `json:"seats_sold"`
	SeatCapacity    int64        `json:"seat_capacity"`
	SeatUtilization float64      `json:"seat_utilization"`
	GeneralSold     int64        `json:"general_sold"`
	DailyRevenue    []DailyPoint `json:"daily_revenue"`
}
