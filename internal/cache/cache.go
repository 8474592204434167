// Package cache memoizes derived ledger views. Keys carry the store revision
// they were computed at, so a write never serves stale figures; expiry only
// bounds memory.
package cache

import (
	"sync"
	"time"

	"gagyebu/internal/log"
)

type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
	Size() int
}

// Cleaner is a cache that can drop its expired entries.
type Cleaner interface {
	CleanExpired() int
}

// Manager runs periodic cleanup over the registered caches.
type Manager struct {
	mu     sync.Mutex
	caches []Cleaner
	logger *log.Logger
	stop   chan struct{}
	done   chan struct{}
}

func NewManager(logger *log.Logger) *Manager {
	return &Manager{logger: logger}
}

func (m *Manager) Register(c Cleaner) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.caches = append(m.caches, c)
}

// CleanAll sweeps every registered cache once.
func (m *Manager) CleanAll() int {
	m.mu.Lock()
	caches := append([]Cleaner(nil), m.caches...)
	m.mu.Unlock()

	total := 0
	for _, c := range caches {
		total += c.CleanExpired()
	}
	return total
}

// Start sweeps every interval until Stop. Calling Start twice is a no-op.
func (m *Manager) Start(interval time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stop != nil || interval <= 0 {
		return
	}
	m.stop = make(chan struct{})
	m.done = make(chan struct{})
	go m.run(interval, m.stop, m.done)
}

func (m *Manager) run(interval time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := m.CleanAll(); n > 0 && m.logger != nil {
				m.logger.Debug("Expired cache entries removed", "count", n)
			}
		case <-stop:
			return
		}
	}
}

func (m *Manager) Stop() {
	m.mu.Lock()
	stop, done := m.stop, m.done
	m.stop, m.done = nil, nil
	m.mu.Unlock()
	if stop != nil {
		close(stop)
		<-done
	}
}
