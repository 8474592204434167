// Package store is the document store behind the ledger: a JSON tree
// addressed by slash separated paths, with list helpers, change
// notification and typed snapshot loaders.
package store

import (
	"context"
	"encoding/json"
)

// Change describes one committed write.
type Change struct {
	Path     string `json:"path"`
	Revision int64  `json:"revision"`
	Deleted  bool   `json:"deleted"`
}

// Ports implemented by the adapters.
type (
	Reader interface {
		// Get returns the JSON value at path, or nil when nothing is stored there.
		Get(ctx context.Context, path string) (json.RawMessage, error)
	}

	Writer interface {
		// Set replaces the value at path. A nil value, null, or an empty
		// array or object deletes it.
		Set(ctx context.Context, path string, value json.RawMessage) error
	}

	// Updater applies a read-modify-write to one path atomically.
	Updater interface {
		Update(ctx context.Context, path string, fn func(current json.RawMessage) (json.RawMessage, error)) error
	}

	Subscriber interface {
		// Subscribe calls fn after every write at, above or below prefix.
		Subscribe(prefix string, fn func(Change)) (unsubscribe func())
	}

	Store interface {
		Reader
		Writer
		Updater
		Subscriber
		// Revision increases by one with every committed write.
		Revision(ctx context.Context) (int64, error)
		Close() error
	}
)
