package expiry

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"stagepass/pkg/logger"
)

// Urgency levels for a remaining-time readout.
const (
	LevelOK       = "ok"
	LevelWarning  = "warning"
	LevelCritical = "critical"
)

// Callback receives each hold exactly once, after its expiry time has
// passed and it has already been dropped from tracking.
type Callback func(hold Hold)

// Options tunes the sweep cadence and urgency thresholds.
type Options struct {
	TickInterval      time.Duration
	WarningThreshold  time.Duration
	CriticalThreshold time.Duration

	// Now is the time source; tests inject a fake. Defaults to time.Now.
	Now func() time.Time
}

// Monitor tracks hold expiries in a min-heap and fires a callback for each
// lapsed hold. Redis is the authority on whether a hold still exists; the
// monitor only drives timely cleanup and countdown readouts, so a hold that
// slips past a sweep still dies with its Redis TTL.
type Monitor struct {
	mu     sync.Mutex
	items  holdHeap
	byKey  map[string]*item
	expire Callback

	opts Options
	now  func() time.Time
	log  *logger.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

func NewMonitor(opts Options, onExpire Callback) *Monitor {
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Monitor{
		byKey:  make(map[string]*item),
		expire: onExpire,
		opts:   opts,
		now:    now,
		log:    logger.GetDefault(),
	}
}

// Start launches the sweep loop. Stop with Stop or by cancelling ctx.
func (m *Monitor) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})

	go func() {
		defer close(m.done)
		ticker := time.NewTicker(m.opts.TickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.sweep()
			}
		}
	}()
	m.log.Info("expiry monitor started", "tick_interval", m.opts.TickInterval.String())
}

// Stop halts the sweep loop and waits for it to exit.
func (m *Monitor) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	<-m.done
	m.log.Info("expiry monitor stopped")
}

// Track registers a hold. Re-tracking the same session/seat pair replaces
// the previous expiry.
func (m *Monitor) Track(hold Hold) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := hold.key()
	if existing, ok := m.byKey[key]; ok {
		existing.hold = hold
		heap.Fix(&m.items, existing.index)
		return
	}

	it := &item{hold: hold}
	heap.Push(&m.items, it)
	m.byKey[key] = it
}

// Untrack removes a hold without firing the callback, used when a seat is
// deselected or checked out before its timer lapses.
func (m *Monitor) Untrack(sessionID string, seatID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := Hold{SessionID: sessionID, SeatID: seatID}.key()
	it, ok := m.byKey[key]
	if !ok {
		return
	}
	heap.Remove(&m.items, it.index)
	delete(m.byKey, key)
}

// UntrackSession drops every hold of one session, used when the whole
// selection is cleared.
func (m *Monitor) UntrackSession(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, it := range m.byKey {
		if it.hold.SessionID == sessionID {
			heap.Remove(&m.items, it.index)
			delete(m.byKey, key)
		}
	}
}

// Remaining reports the time left on one hold, clamped to zero.
func (m *Monitor) Remaining(sessionID string, seatID uuid.UUID) (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.byKey[Hold{SessionID: sessionID, SeatID: seatID}.key()]
	if !ok {
		return 0, false
	}
	return clamp(it.hold.ExpiresAt.Sub(m.now())), true
}

// MinRemaining reports the tightest countdown across a session's holds: the
// one figure a countdown display shows. Clamped to zero.
func (m *Monitor) MinRemaining(sessionID string) (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	found := false
	var min time.Duration
	for _, it := range m.byKey {
		if it.hold.SessionID != sessionID {
			continue
		}
		remaining := it.hold.ExpiresAt.Sub(m.now())
		if !found || remaining < min {
			min = remaining
			found = true
		}
	}
	return clamp(min), found
}

// Level maps a remaining duration onto an urgency level.
func (m *Monitor) Level(remaining time.Duration) string {
	switch {
	case remaining <= m.opts.CriticalThreshold:
		return LevelCritical
	case remaining <= m.opts.WarningThreshold:
		return LevelWarning
	default:
		return LevelOK
	}
}

// TrackedCount reports how many holds are currently tracked.
func (m *Monitor) TrackedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// sweep pops every lapsed hold and fires the callback for each. The callback
// runs outside the lock so it may call back into the monitor.
func (m *Monitor) sweep() {
	now := m.now()

	m.mu.Lock()
	var lapsed []Hold
	for m.items.Len() > 0 && !m.items[0].hold.ExpiresAt.After(now) {
		it := heap.Pop(&m.items).(*item)
		delete(m.byKey, it.hold.key())
		lapsed = append(lapsed, it.hold)
	}
	m.mu.Unlock()

	for _, hold := range lapsed {
		m.log.LogHoldExpired(context.Background(), hold.SeatID.String(), hold.SessionID)
		if m.expire != nil {
			m.expire(hold)
		}
	}
}

func clamp(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
