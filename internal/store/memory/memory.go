package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"gagyebu/internal/store"
)

// Store keeps the whole ledger tree in memory.
type Store struct {
	mu   sync.RWMutex
	root any
	rev  int64
	hub  *store.Hub
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{hub: store.NewHub()}
}

// NewFromFile seeds a store from a JSON or YAML export. The seed does not
// count as a write: the revision stays at 0.
func NewFromFile(path string) (*Store, error) {
	raw, err := store.ReadExport(path)
	if err != nil {
		return nil, err
	}
	root, err := store.DecodeValue(raw)
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", path, err)
	}
	s := New()
	s.root = root
	return s, nil
}

func (s *Store) Get(_ context.Context, path string) (json.RawMessage, error) {
	segs, err := store.Split(path)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return store.EncodeValue(store.Lookup(s.root, segs))
}

func (s *Store) Set(ctx context.Context, path string, value json.RawMessage) error {
	return s.Update(ctx, path, func(json.RawMessage) (json.RawMessage, error) {
		return value, nil
	})
}

// Update runs fn under the write lock so concurrent list edits serialize.
func (s *Store) Update(_ context.Context, path string, fn func(json.RawMessage) (json.RawMessage, error)) error {
	segs, err := store.Split(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	current, err := store.EncodeValue(store.Lookup(s.root, segs))
	if err != nil {
		s.mu.Unlock()
		return err
	}
	next, err := fn(current)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	v, err := store.DecodeValue(next)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	root, err := store.Assign(s.root, segs, v)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.root = root
	s.rev++
	change := store.Change{Path: strings.Join(segs, "/"), Revision: s.rev, Deleted: v == nil}
	s.mu.Unlock()

	s.hub.Publish(change)
	return nil
}

func (s *Store) Revision(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rev, nil
}

func (s *Store) Subscribe(prefix string, fn func(store.Change)) func() {
	return s.hub.Subscribe(prefix, fn)
}

func (s *Store) Close() error { return nil }
