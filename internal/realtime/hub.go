package realtime

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Hub fans events out to in-process subscribers, keyed by barber.
//
// Each subscriber has a buffer of one. Publish never blocks: when a
// subscriber already has an event pending, the new one is dropped, since
// the pending one triggers the same re-fetch.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint]map[uuid.UUID]chan Event
	closed bool
}

var _ Notifier = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{subs: make(map[uint]map[uuid.UUID]chan Event)}
}

func (h *Hub) Publish(_ context.Context, ev Event) error {
	h.deliver(ev)
	return nil
}

func (h *Hub) deliver(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subs[ev.BarberID] {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (h *Hub) Subscribe(barberID uint) (<-chan Event, func()) {
	ch := make(chan Event, 1)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := uuid.New()
	if h.subs[barberID] == nil {
		h.subs[barberID] = make(map[uuid.UUID]chan Event)
	}
	h.subs[barberID][id] = ch
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()

			subs, ok := h.subs[barberID]
			if !ok {
				return
			}
			if _, ok := subs[id]; !ok {
				return
			}
			delete(subs, id)
			if len(subs) == 0 {
				delete(h.subs, barberID)
			}
			close(ch)
		})
	}
}

// Subscribers returns the number of live subscriptions for barberID.
func (h *Hub) Subscribers(barberID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[barberID])
}

// Close releases every subscriber. Later subscriptions get a closed
// channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for barberID, subs := range h.subs {
		for _, ch := range subs {
			close(ch)
		}
		delete(h.subs, barberID)
	}
}
