// Package backend opens the ledger store selected by DATA_BACKEND.
package backend

import (
	"context"
	"slices"

	"gagyebu/internal/store"
)

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// BackendResult contains the store and its cleanup function.
type BackendResult struct {
	Store   store.Store
	Cleanup CleanupFunc
	// Seeded reports whether the store was filled from Config.SeedFile.
	Seeded bool
}

// Pinger is implemented by stores backed by something that can go away.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Factory creates stores based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation.
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// SeedFile is imported when the opened store has never been written.
	SeedFile string
}

// BackendType represents the type of backend.
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid.
func (bt BackendType) IsValid() bool {
	return slices.Contains(GetBackendTypes(), bt)
}
