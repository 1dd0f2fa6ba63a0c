package constants

import (
	"fmt"
	"time"
)

// Redis key and TTL conventions for the stagepass service.
// Pattern: stagepass:{module}:{operation}:{identifier}

const (
	CACHE_PREFIX = "stagepass"
)

// ================== CACHE TTL DURATIONS ==================

const (
	// Venue layout geometry is effectively immutable once an event is on
	// sale; the cache is only ever a render-time optimisation and is never
	// consulted for seat status.
	TTL_LAYOUT_GEOMETRY = 7 * 24 * time.Hour

	TTL_EVENT_DETAIL       = 2 * time.Hour
	TTL_TICKET_TYPES       = 15 * time.Minute
	TTL_ANALYTICS_SALES    = 10 * time.Minute
	TTL_SEATS_AVAILABLE    = 30 * time.Second
	TTL_RESERVATION_STATUS = 5 * time.Second
)

// ================== SEAT HOLD KEYS ==================

const (
	// Per-seat hold lock, value is the owning session id.
	KEY_SEAT_HOLD = CACHE_PREFIX + ":hold:seat:" // + eventID:seatID

	// Set of seat ids held by one session, used for reload reconciliation.
	KEY_SESSION_HOLDS = CACHE_PREFIX + ":hold:session:" // + sessionID

	// Session registry entry.
	KEY_SESSION = CACHE_PREFIX + ":session:" // + sessionID

	// Selection state container for one session.
	KEY_SELECTION = CACHE_PREFIX + ":selection:" // + sessionID
)

// ================== CACHE KEYS ==================

const (
	CACHE_KEY_LAYOUT          = CACHE_PREFIX + ":layout:event:"       // + eventID
	CACHE_KEY_EVENT_DETAIL    = CACHE_PREFIX + ":events:detail:"      // + eventID
	CACHE_KEY_TICKET_TYPES    = CACHE_PREFIX + ":tickettypes:event:"  // + eventID
	CACHE_KEY_ANALYTICS_SALES = CACHE_PREFIX + ":analytics:sales:"    // + organizerID
	CACHE_KEY_ANALYTICS_EVENT = CACHE_PREFIX + ":analytics:event:"    // + eventID
	CACHE_KEY_SEAT_STATUS     = CACHE_PREFIX + ":seats:status:event:" // + eventID
)

// ================== KEY BUILDERS ==================

func BuildSeatHoldKey(eventID, seatID string) string {
	return fmt.Sprintf("%s%s:%s", KEY_SEAT_HOLD, eventID, seatID)
}

func BuildSessionHoldsKey(sessionID string) string {
	return KEY_SESSION_HOLDS + sessionID
}

func BuildSessionKey(sessionID string) string {
	return KEY_SESSION + sessionID
}

func BuildSelectionKey(sessionID string) string {
	return KEY_SELECTION + sessionID
}

func BuildOrganizerSalesKey(organizerID string) string {
	return CACHE_KEY_ANALYTICS_SALES + organizerID
}

func BuildLayoutKey(eventID string) string {
	return CACHE_KEY_LAYOUT + eventID
}

func BuildTicketTypesKey(eventID string) string {
	return CACHE_KEY_TICKET_TYPES + eventID
}

func BuildEventSalesKey(eventID string) string {
	return CACHE_KEY_ANALYTICS_EVENT + eventID
}
