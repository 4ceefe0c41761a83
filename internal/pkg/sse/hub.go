package sse

import (
	"sync"
	"sync/atomic"
)

// Event is one server-sent event
type Event struct {
	ID    uint64
	Event string
	Data  interface{}
}

// Hub fans events out to every connected subscriber
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
	lastID      atomic.Uint64
	bufferSize  int
}

func NewHub(bufferSize int) *Hub {
	if bufferSize < 1 {
		bufferSize = 10
	}
	return &Hub{
		subscribers: make(map[chan Event]struct{}),
		bufferSize:  bufferSize,
	}
}

// Subscribe registers a subscriber and returns its channel and a cleanup function
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, h.bufferSize)
	h.subscribers[ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers, ch)
			close(ch)
		})
	}

	return ch, cleanup
}

// Publish sends an event to all subscribers and returns how many received it.
// Subscribers whose buffer is full miss the event.
func (h *Hub) Publish(event string, data interface{}) int {
	ev := Event{ID: h.lastID.Add(1), Event: event, Data: data}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for ch := range h.subscribers {
		select {
		case ch <- ev:
			delivered++
		default:
		}
	}
	return delivered
}

// SubscriberCount returns the number of active subscribers
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
