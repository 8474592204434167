package store

import (
	"strings"
	"sync"
)

type subscription struct {
	prefix string
	fn     func(Change)
}

// Hub fans committed changes out to subscribers. Adapters embed one and call
// Publish after a write commits, outside their own locks.
type Hub struct {
	mu   sync.RWMutex
	next int
	subs map[int]subscription
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]subscription)}
}

func (h *Hub) Subscribe(prefix string, fn func(Change)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	h.subs[id] = subscription{prefix: strings.Trim(prefix, "/"), fn: fn}

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}

// Publish delivers c synchronously to every subscriber whose prefix overlaps
// c.Path.
func (h *Hub) Publish(c Change) {
	h.mu.RLock()
	targets := make([]func(Change), 0, len(h.subs))
	for _, s := range h.subs {
		if overlaps(s.prefix, c.Path) {
			targets = append(targets, s.fn)
		}
	}
	h.mu.RUnlock()

	for _, fn := range targets {
		fn(c)
	}
}

// overlaps reports whether one path is an ancestor of, equal to, or a
// descendant of the other. The empty path is the root.
func overlaps(a, b string) bool {
	a, b = strings.Trim(a, "/"), strings.Trim(b, "/")
	if a == "" || b == "" || a == b {
		return true
	}
	if len(a) > len(b) {
		a, b = b, a
	}
	return strings.HasPrefix(b, a+"/")
}
