package seats

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"stagepass/internal/shared/constants"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrSeatHeld means another session owns the hold.
	ErrSeatHeld = errors.New("seat already held by another session")
	// ErrHoldNotFound means no live hold exists for the seat.
	ErrHoldNotFound = errors.New("hold not found or expired")
	// ErrHoldNotOwner means the hold exists but belongs to a different session.
	ErrHoldNotOwner = errors.New("hold owned by another session")
)

// HoldStore enforces at-most-one holder per seat. All mutations go through
// Lua scripts so check-and-set is atomic under concurrent reserve calls.
type HoldStore interface {
	// Hold claims (eventID, seatID) for sessionID and returns the expiry.
	// Re-holding by the owning session refreshes the TTL.
	Hold(ctx context.Context, eventID, seatID uuid.UUID, sessionID string, ttl time.Duration) (time.Time, error)
	// Release drops the hold. Fails with ErrHoldNotFound / ErrHoldNotOwner
	// without side effects when the hold is absent or foreign.
	Release(ctx context.Context, eventID, seatID uuid.UUID, sessionID string) error
	// HeldSeats reports the owning session (or "") for each given seat.
	HeldSeats(ctx context.Context, eventID uuid.UUID, seatIDs []uuid.UUID) (map[string]string, error)
	// SessionSeatIDs lists seat ids currently recorded against a session,
	// used to rebuild a selection after a client reload.
	SessionSeatIDs(ctx context.Context, sessionID string) ([]string, error)
	// RemainingTTL reports how long the hold on a seat has left.
	RemainingTTL(ctx context.Context, eventID, seatID uuid.UUID) (time.Duration, error)

	PreloadScripts(ctx context.Context) error
}

type holdStore struct {
	redis *redis.Client
}

func NewHoldStore(client *redis.Client) HoldStore {
	return &holdStore{redis: client}
}

// Claims the seat key unless a different session already owns it, and tracks
// the seat under the session's hold set for reload reconciliation.
const luaSeatHold = `
-- KEYS[1] = seat hold key
-- KEYS[2] = session holds set key
-- ARGV[1] = session_id
-- ARGV[2] = seat_id
-- ARGV[3] = ttl_seconds
-- ARGV[4] = session_set_ttl_seconds

local owner = redis.call("GET", KEYS[1])
if owner and owner ~= ARGV[1] then
    return {0, "held"}
end

redis.call("SETEX", KEYS[1], tonumber(ARGV[3]), ARGV[1])
redis.call("SADD", KEYS[2], ARGV[2])
redis.call("EXPIRE", KEYS[2], tonumber(ARGV[4]))

return {1, "ok"}
`

// Drops the seat key only when the calling session owns it.
const luaSeatRelease = `
-- KEYS[1] = seat hold key
-- KEYS[2] = session holds set key
-- ARGV[1] = session_id
-- ARGV[2] = seat_id

local owner = redis.call("GET", KEYS[1])
if not owner then
    return {0, "not_found"}
end
if owner ~= ARGV[1] then
    return {0, "not_owner"}
end

redis.call("DEL", KEYS[1])
redis.call("SREM", KEYS[2], ARGV[2])

return {1, "ok"}
`

// redis.Script runs EvalSha and falls back to Eval when the script is not
// cached yet.
var (
	seatHoldScript    = redis.NewScript(luaSeatHold)
	seatReleaseScript = redis.NewScript(luaSeatRelease)
)

func (h *holdStore) Hold(ctx context.Context, eventID, seatID uuid.UUID, sessionID string, ttl time.Duration) (time.Time, error) {
	if h.redis == nil {
		return time.Time{}, fmt.Errorf("redis client not available")
	}

	keys := []string{
		constants.BuildSeatHoldKey(eventID.String(), seatID.String()),
		constants.BuildSessionHoldsKey(sessionID),
	}
	args := []interface{}{
		sessionID,
		seatID.String(),
		strconv.Itoa(int(ttl.Seconds())),
		// The session set outlives individual holds so a reloaded client can
		// still discover which seats it had; stale members are filtered on
		// reconciliation against the live seat keys.
		strconv.Itoa(int((ttl * 2).Seconds())),
	}

	result, err := seatHoldScript.Run(ctx, h.redis, keys, args...).Result()
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to execute seat hold: %w", err)
	}

	if err := parseScriptResult(result); err != nil {
		return time.Time{}, err
	}

	return time.Now().Add(ttl), nil
}

func (h *holdStore) Release(ctx context.Context, eventID, seatID uuid.UUID, sessionID string) error {
	if h.redis == nil {
		return fmt.Errorf("redis client not available")
	}

	keys := []string{
		constants.BuildSeatHoldKey(eventID.String(), seatID.String()),
		constants.BuildSessionHoldsKey(sessionID),
	}
	args := []interface{}{sessionID, seatID.String()}

	result, err := seatReleaseScript.Run(ctx, h.redis, keys, args...).Result()
	if err != nil {
		return fmt.Errorf("failed to execute seat release: %w", err)
	}

	return parseScriptResult(result)
}

func (h *holdStore) HeldSeats(ctx context.Context, eventID uuid.UUID, seatIDs []uuid.UUID) (map[string]string, error) {
	if h.redis == nil {
		return nil, fmt.Errorf("redis client not available")
	}
	if len(seatIDs) == 0 {
		return map[string]string{}, nil
	}

	keys := make([]string, len(seatIDs))
	for i, id := range seatIDs {
		keys[i] = constants.BuildSeatHoldKey(eventID.String(), id.String())
	}

	values, err := h.redis.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to check seat holds: %w", err)
	}

	holds := make(map[string]string, len(seatIDs))
	for i, val := range values {
		owner := ""
		if s, ok := val.(string); ok {
			owner = s
		}
		holds[seatIDs[i].String()] = owner
	}

	return holds, nil
}

func (h *holdStore) SessionSeatIDs(ctx context.Context, sessionID string) ([]string, error) {
	if h.redis == nil {
		return nil, fmt.Errorf("redis client not available")
	}
	return h.redis.SMembers(ctx, constants.BuildSessionHoldsKey(sessionID)).Result()
}

func (h *holdStore) RemainingTTL(ctx context.Context, eventID, seatID uuid.UUID) (time.Duration, error) {
	if h.redis == nil {
		return 0, fmt.Errorf("redis client not available")
	}

	ttl, err := h.redis.TTL(ctx, constants.BuildSeatHoldKey(eventID.String(), seatID.String())).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read hold TTL: %w", err)
	}
	if ttl < 0 {
		return 0, ErrHoldNotFound
	}
	return ttl, nil
}

// PreloadScripts loads the Lua scripts into Redis so EvalSha hits on the
// first reserve call.
func (h *holdStore) PreloadScripts(ctx context.Context) error {
	if h.redis == nil {
		return fmt.Errorf("redis client not available")
	}

	if err := seatHoldScript.Load(ctx, h.redis).Err(); err != nil {
		return fmt.Errorf("failed to load seat hold script: %w", err)
	}
	if err := seatReleaseScript.Load(ctx, h.redis).Err(); err != nil {
		return fmt.Errorf("failed to load seat release script: %w", err)
	}

	return nil
}

// parseScriptResult maps the {flag, reason} pair returned by the Lua scripts
// onto sentinel errors.
func parseScriptResult(result interface{}) error {
	resultArray, ok := result.([]interface{})
	if !ok || len(resultArray) != 2 {
		return fmt.Errorf("unexpected result format from Lua script")
	}

	success, ok := resultArray[0].(int64)
	if !ok {
		return fmt.Errorf("invalid success flag in Lua script result")
	}
	if success == 1 {
		return nil
	}

	reason, _ := resultArray[1].(string)
	switch reason {
	case "held":
		return ErrSeatHeld
	case "not_found":
		return ErrHoldNotFound
	case "not_owner":
		return ErrHoldNotOwner
	default:
		return fmt.Errorf("seat hold operation failed: %s", reason)
	}
}
