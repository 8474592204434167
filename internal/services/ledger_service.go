package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"gagyebu/internal/log"
	"gagyebu/internal/store"
)

// ChangePublisher forwards committed writes to other processes.
type ChangePublisher interface {
	PublishLedgerChanged(ctx context.Context, c store.Change) error
}

const publishTimeout = 5 * time.Second

// LedgerService is the write side of the ledger: validated puts and list
// edits on the store, with every committed change forwarded to publisher.
type LedgerService struct {
	store       store.Store
	publisher   ChangePublisher
	logger      *log.Logger
	unsubscribe func()
}

// NewLedgerService wires s and publisher. publisher may be nil.
func NewLedgerService(s store.Store, publisher ChangePublisher, logger *log.Logger) *LedgerService {
	if logger == nil {
		logger = log.Discard()
	}
	svc := &LedgerService{
		store:     s,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentLedger),
	}
	if publisher != nil {
		svc.unsubscribe = s.Subscribe("", svc.publish)
	}
	return svc
}

// publish runs on the store's notification path, after the write committed.
// Failures are logged; the write itself already succeeded.
func (s *LedgerService) publish(c store.Change) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := s.publisher.PublishLedgerChanged(ctx, c); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish ledger change",
			log.FieldLedgerPath, c.Path,
			log.FieldRevision, c.Revision,
			log.FieldError, err)
	}
}

func (s *LedgerService) Get(ctx context.Context, path string) (json.RawMessage, error) {
	if _, err := store.Split(path); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, path)
}

// Put replaces the list or document at path.
func (s *LedgerService) Put(ctx context.Context, path string, value json.RawMessage) error {
	if err := store.Put(ctx, s.store, path, value); err != nil {
		return fmt.Errorf("put %s: %w", path, err)
	}
	s.logWrite(ctx, log.OpPut, path)
	return nil
}

// Add appends item to the list at path and re-sorts it by month.
func (s *LedgerService) Add(ctx context.Context, path string, item json.RawMessage) error {
	if err := store.AddItem(ctx, s.store, path, item); err != nil {
		return fmt.Errorf("add to %s: %w", path, err)
	}
	s.logWrite(ctx, log.OpAdd, path)
	return nil
}

func (s *LedgerService) Update(ctx context.Context, path string, index int, item json.RawMessage) error {
	if err := store.UpdateItem(ctx, s.store, path, index, item); err != nil {
		return fmt.Errorf("update %s[%d]: %w", path, index, err)
	}
	s.logWrite(ctx, log.OpUpdate, path)
	return nil
}

func (s *LedgerService) Remove(ctx context.Context, path string, index int) error {
	if err := store.RemoveItem(ctx, s.store, path, index); err != nil {
		return fmt.Errorf("remove %s[%d]: %w", path, index, err)
	}
	s.logWrite(ctx, log.OpRemove, path)
	return nil
}

// Reorder stores items in the given order.
func (s *LedgerService) Reorder(ctx context.Context, path string, items json.RawMessage) error {
	if err := store.ReorderItems(ctx, s.store, path, items); err != nil {
		return fmt.Errorf("reorder %s: %w", path, err)
	}
	s.logWrite(ctx, log.OpReorder, path)
	return nil
}

// Import writes every top-level key of a full export.
func (s *LedgerService) Import(ctx context.Context, export json.RawMessage) ([]string, error) {
	keys, err := store.Import(ctx, s.store, export)
	if err != nil {
		return keys, err
	}
	for _, k := range keys {
		s.logWrite(ctx, log.OpPut, k)
	}
	return keys, nil
}

func (s *LedgerService) Revision(ctx context.Context) (int64, error) {
	return s.store.Revision(ctx)
}

func (s *LedgerService) logWrite(ctx context.Context, op, path string) {
	rev, err := s.store.Revision(ctx)
	if err != nil {
		rev = -1
	}
	log.LogLedgerWrite(log.NewContext(ctx, log.FromContextOr(ctx, s.logger)), op, path, rev)
}

// Close stops forwarding changes and closes the store and the publisher.
func (s *LedgerService) Close() error {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}

	var errs []error
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %w", errors.Join(errs...))
	}
	return nil
}
