package expiry

import (
	"time"

	"github.com/google/uuid"
)

// Hold is one tracked seat hold.
type Hold struct {
	SessionID string
	SeatID    uuid.UUID
	EventID   uuid.UUID
	ExpiresAt time.Time
}

func (h Hold) key() string {
	return h.SessionID + "/" + h.SeatID.String()
}

type item struct {
	hold  Hold
	index int
}

// holdHeap is a min-heap ordered by expiry time, so each sweep inspects only
// the holds that can actually have lapsed instead of scanning everything.
type holdHeap []*item

func (h holdHeap) Len() int { return len(h) }

func (h holdHeap) Less(i, j int) bool {
	return h[i].hold.ExpiresAt.Before(h[j].hold.ExpiresAt)
}

func (h holdHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *holdHeap) Push(x any) {
	it := x.(*item)
	it.index = len(*h)
	*h = append(*h, it)
}

func (h *holdHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	it.index = -1
	*h = old[:n-1]
	return it
}
