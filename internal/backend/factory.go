package backend

import (
	"context"
	"fmt"

	"gagyebu/internal/log"
	"gagyebu/internal/store"
	"gagyebu/internal/store/memory"
	"gagyebu/internal/store/sqlite"
)

// DefaultFactory implements the Factory interface.
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory.
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

// CreateBackend implements Factory.CreateBackend.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var result *BackendResult
	switch config.Type {
	case SQLiteBackend:
		s, err := sqlite.Open(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		result = &BackendResult{Store: s, Cleanup: s.Close}
	case MemoryBackend:
		s := memory.New()
		f.logger.Info("Initialized memory backend")
		result = &BackendResult{Store: s, Cleanup: s.Close}
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	if config.SeedFile != "" {
		seeded, err := f.seed(ctx, result.Store, config.SeedFile)
		if err != nil {
			_ = result.Cleanup()
			return nil, err
		}
		result.Seeded = seeded
	}
	return result, nil
}

// seed imports file into s unless s already holds writes.
func (f *DefaultFactory) seed(ctx context.Context, s store.Store, file string) (bool, error) {
	rev, err := s.Revision(ctx)
	if err != nil {
		return false, fmt.Errorf("read revision: %w", err)
	}
	if rev > 0 {
		f.logger.Info("Store already has data, skipping seed", "seed_file", file, log.FieldRevision, rev)
		return false, nil
	}
	export, err := store.ReadExport(file)
	if err != nil {
		return false, err
	}
	keys, err := store.Import(ctx, s, export)
	if err != nil {
		return false, fmt.Errorf("seed from %s: %w", file, err)
	}
	f.logger.Info("Seeded store", "seed_file", file, "keys", keys)
	return true, nil
}
