// Package sse fans process-local events out to server-sent event streams.
package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

const (
	TopicContent = "content"

	EventContentRefreshed = "content.refreshed"
	EventCountdown        = "countdown"
)

// Event is one server-sent event. Type is written as the "event:" name and
// Data as a JSON "data:" line.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Hub keeps subscribers grouped by topic. It is process-local.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[string]map[chan Event]struct{})}
}

// Subscribe registers a subscriber of topic. The returned function must be
// called on disconnect; it closes the channel.
func (h *Hub) Subscribe(topic string) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	h.mu.Lock()
	set, ok := h.subscribers[topic]
	if !ok {
		set = make(map[chan Event]struct{})
		h.subscribers[topic] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subscribers, topic)
			}
			h.mu.Unlock()
			close(ch)
		})
	}

	return ch, unsubscribe
}

// Publish sends ev to every subscriber of topic. Slow subscribers miss the
// event instead of blocking the publisher.
func (h *Hub) Publish(topic string, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[topic] {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribers reports how many streams listen on topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[topic])
}

// Write encodes ev in the event stream format.
func Write(w io.Writer, ev Event) error {
	data, err := json.Marshal(ev.Data)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data); err != nil {
		return err
	}
	return nil
}
