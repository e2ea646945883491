// Package notify fans newly stored notifications out to live subscribers,
// keyed by the recipient's user id.
//
// Publishing never blocks: a subscriber whose buffer is full misses the event
// and is expected to resync through the notifications list endpoint. The
// database remains the source of truth.
package notify

import (
	"sync"

	"github.com/tbourn/go-doubts-backend/internal/domain"
)

// DefaultBuffer is the per-subscriber channel capacity.
const DefaultBuffer = 16

// Publisher is the write side of the hub used by the service layer.
type Publisher interface {
	Publish(n domain.Notification)
}

// Hub is an in-process, per-user pub/sub. The zero value is not usable; call
// NewHub.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[chan domain.Notification]struct{}
	buffer int
	closed bool
}

// NewHub returns an empty hub. buffer <= 0 selects DefaultBuffer.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{
		subs:   make(map[string]map[chan domain.Notification]struct{}),
		buffer: buffer,
	}
}

// Subscribe registers a listener for userID. The returned cancel func
// unregisters it and closes the channel; it is safe to call more than once.
// After Close the channel is returned already closed.
func (h *Hub) Subscribe(userID string) (<-chan domain.Notification, func()) {
	ch := make(chan domain.Notification, h.buffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[chan domain.Notification]struct{})
	}
	h.subs[userID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		set, ok := h.subs[userID]
		if !ok {
			return
		}
		if _, live := set[ch]; !live {
			return
		}
		delete(set, ch)
		if len(set) == 0 {
			delete(h.subs, userID)
		}
		close(ch)
	}
	return ch, cancel
}

// Close ends every subscription. Streams reading from the hub see their
// channel close and hang up.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for _, set := range h.subs {
		for ch := range set {
			close(ch)
		}
	}
	h.subs = make(map[string]map[chan domain.Notification]struct{})
}

// Publish delivers n to every subscriber of n.UserID without blocking.
func (h *Hub) Publish(n domain.Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[n.UserID] {
		select {
		case ch <- n:
		default:
		}
	}
}

// Subscribers returns the number of live subscriptions for userID.
func (h *Hub) Subscribers(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}
