package expiry

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestMonitor(clock *fakeClock, onExpire Callback) *Monitor {
	return NewMonitor(Options{
		TickInterval:      time.Second,
		WarningThreshold:  2 * time.Minute,
		CriticalThreshold: time.Minute,
		Now:               clock.Now,
	}, onExpire)
}

func holdExpiringIn(clock *fakeClock, sessionID string, d time.Duration) Hold {
	return Hold{
		SessionID: sessionID,
		SeatID:    uuid.New(),
		EventID:   uuid.New(),
		ExpiresAt: clock.Now().Add(d),
	}
}

func TestMonitorExpiresLapsedHolds(t *testing.T) {
	clock := newFakeClock()
	var expired []Hold
	m := newTestMonitor(clock, func(h Hold) { expired = append(expired, h) })

	early := holdExpiringIn(clock, "session-1", 5*time.Second)
	late := holdExpiringIn(clock, "session-1", 10*time.Minute)
	m.Track(early)
	m.Track(late)

	m.sweep()
	assert.Empty(t, expired, "nothing should expire before its time")

	clock.Advance(5 * time.Second)
	m.sweep()
	require.Len(t, expired, 1)
	assert.Equal(t, early.SeatID, expired[0].SeatID)
	assert.Equal(t, 1, m.TrackedCount())

	// A hold expires exactly once; repeated sweeps stay quiet.
	m.sweep()
	m.sweep()
	assert.Len(t, expired, 1)
}

func TestMonitorExpiresInOrder(t *testing.T) {
	clock := newFakeClock()
	var expired []Hold
	m := newTestMonitor(clock, func(h Hold) { expired = append(expired, h) })

	third := holdExpiringIn(clock, "s", 3*time.Second)
	first := holdExpiringIn(clock, "s", 1*time.Second)
	second := holdExpiringIn(clock, "s", 2*time.Second)
	m.Track(third)
	m.Track(first)
	m.Track(second)

	clock.Advance(time.Hour)
	m.sweep()

	require.Len(t, expired, 3)
	assert.Equal(t, first.SeatID, expired[0].SeatID)
	assert.Equal(t, second.SeatID, expired[1].SeatID)
	assert.Equal(t, third.SeatID, expired[2].SeatID)
	assert.Zero(t, m.TrackedCount())
}

func TestMonitorUntrack(t *testing.T) {
	clock := newFakeClock()
	var expired []Hold
	m := newTestMonitor(clock, func(h Hold) { expired = append(expired, h) })

	hold := holdExpiringIn(clock, "session-1", time.Second)
	m.Track(hold)
	m.Untrack(hold.SessionID, hold.SeatID)

	clock.Advance(time.Minute)
	m.sweep()
	assert.Empty(t, expired, "untracked hold must not fire the callback")

	// Untracking something unknown is a no-op.
	m.Untrack("nope", uuid.New())
}

func TestMonitorUntrackSession(t *testing.T) {
	clock := newFakeClock()
	var expired []Hold
	m := newTestMonitor(clock, func(h Hold) { expired = append(expired, h) })

	m.Track(holdExpiringIn(clock, "mine", time.Second))
	m.Track(holdExpiringIn(clock, "mine", 2*time.Second))
	other := holdExpiringIn(clock, "other", 3*time.Second)
	m.Track(other)

	m.UntrackSession("mine")
	assert.Equal(t, 1, m.TrackedCount())

	clock.Advance(time.Minute)
	m.sweep()
	require.Len(t, expired, 1)
	assert.Equal(t, other.SeatID, expired[0].SeatID)
}

func TestMonitorRetrackReplacesExpiry(t *testing.T) {
	clock := newFakeClock()
	var expired []Hold
	m := newTestMonitor(clock, func(h Hold) { expired = append(expired, h) })

	hold := holdExpiringIn(clock, "session-1", time.Second)
	m.Track(hold)

	// Re-reserving the same seat pushes the deadline out.
	hold.ExpiresAt = clock.Now().Add(10 * time.Minute)
	m.Track(hold)
	assert.Equal(t, 1, m.TrackedCount())

	clock.Advance(time.Minute)
	m.sweep()
	assert.Empty(t, expired)

	remaining, ok := m.Remaining(hold.SessionID, hold.SeatID)
	require.True(t, ok)
	assert.Equal(t, 9*time.Minute, remaining)
}

func TestMonitorRemainingClampsToZero(t *testing.T) {
	clock := newFakeClock()
	m := newTestMonitor(clock, nil)

	hold := holdExpiringIn(clock, "session-1", time.Second)
	m.Track(hold)

	// Past deadline but not yet swept: never report negative time.
	clock.Advance(time.Minute)
	remaining, ok := m.Remaining(hold.SessionID, hold.SeatID)
	require.True(t, ok)
	assert.Equal(t, time.Duration(0), remaining)

	_, ok = m.Remaining("unknown", uuid.New())
	assert.False(t, ok)
}

func TestMonitorMinRemaining(t *testing.T) {
	clock := newFakeClock()
	m := newTestMonitor(clock, nil)

	m.Track(holdExpiringIn(clock, "session-1", 5*time.Minute))
	m.Track(holdExpiringIn(clock, "session-1", 3*time.Minute))
	m.Track(holdExpiringIn(clock, "session-2", time.Minute))

	min, ok := m.MinRemaining("session-1")
	require.True(t, ok)
	assert.Equal(t, 3*time.Minute, min)

	_, ok = m.MinRemaining("session-3")
	assert.False(t, ok)
}

func TestMonitorLevel(t *testing.T) {
	m := newTestMonitor(newFakeClock(), nil)

	assert.Equal(t, LevelOK, m.Level(5*time.Minute))
	assert.Equal(t, LevelWarning, m.Level(2*time.Minute))
	assert.Equal(t, LevelWarning, m.Level(90*time.Second))
	assert.Equal(t, LevelCritical, m.Level(time.Minute))
	assert.Equal(t, LevelCritical, m.Level(0))
}

func TestMonitorCallbackMayReenter(t *testing.T) {
	clock := newFakeClock()
	var m *Monitor
	var expired int
	m = newTestMonitor(clock, func(h Hold) {
		expired++
		// Callbacks clean up session state, which calls back in.
		m.UntrackSession(h.SessionID)
	})

	m.Track(holdExpiringIn(clock, "session-1", time.Second))
	m.Track(holdExpiringIn(clock, "session-1", 10*time.Minute))

	clock.Advance(2 * time.Second)
	m.sweep()

	assert.Equal(t, 1, expired)
	assert.Zero(t, m.TrackedCount())
}

func TestMonitorStartStop(t *testing.T) {
	clock := newFakeClock()
	m := NewMonitor(Options{
		TickInterval: time.Millisecond,
		Now:          clock.Now,
	}, nil)

	m.Start(context.Background())
	m.Stop()

	// Stop without Start is safe.
	NewMonitor(Options{}, nil).Stop()
}
