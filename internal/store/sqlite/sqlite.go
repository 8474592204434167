// Package sqlite persists the ledger tree in SQLite, one JSON document per
// top-level key (personal, family, balances, budget).
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gagyebu/internal/store"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
	// writeMu serializes read-modify-write transactions within the process.
	writeMu sync.Mutex
	hub     *store.Hub
}

var _ store.Store = (*Store)(nil)

// Open creates the database file if needed and migrates it.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		return nil, err
	}

	dsn := dbPath + "?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db, hub: store.NewHub()}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) Get(ctx context.Context, path string) (json.RawMessage, error) {
	segs, err := store.Split(path)
	if err != nil {
		return nil, err
	}
	node, err := readNode(ctx, s.db, segs)
	if err != nil {
		return nil, err
	}
	return store.EncodeValue(store.Lookup(node, tail(segs)))
}

func (s *Store) Set(ctx context.Context, path string, value json.RawMessage) error {
	return s.Update(ctx, path, func(json.RawMessage) (json.RawMessage, error) {
		return value, nil
	})
}

func (s *Store) Update(ctx context.Context, path string, fn func(json.RawMessage) (json.RawMessage, error)) error {
	segs, err := store.Split(path)
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	change, err := s.update(ctx, segs, fn)
	s.writeMu.Unlock()
	if err != nil {
		return err
	}
	s.hub.Publish(change)
	return nil
}

func (s *Store) update(ctx context.Context, segs []string, fn func(json.RawMessage) (json.RawMessage, error)) (store.Change, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.Change{}, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	node, err := readNode(ctx, tx, segs)
	if err != nil {
		return store.Change{}, err
	}
	current, err := store.EncodeValue(store.Lookup(node, tail(segs)))
	if err != nil {
		return store.Change{}, err
	}
	next, err := fn(current)
	if err != nil {
		return store.Change{}, err
	}
	v, err := store.DecodeValue(next)
	if err != nil {
		return store.Change{}, err
	}
	updated, err := store.Assign(node, tail(segs), v)
	if err != nil {
		return store.Change{}, err
	}

	if len(segs) == 0 {
		err = replaceAll(ctx, tx, updated)
	} else {
		err = writeDoc(ctx, tx, segs[0], updated)
	}
	if err != nil {
		return store.Change{}, err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE revisions SET revision = revision + 1 WHERE id = 1`); err != nil {
		return store.Change{}, fmt.Errorf("bump revision: %w", err)
	}
	var rev int64
	if err := tx.QueryRowContext(ctx, `SELECT revision FROM revisions WHERE id = 1`).Scan(&rev); err != nil {
		return store.Change{}, fmt.Errorf("read revision: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return store.Change{}, fmt.Errorf("commit: %w", err)
	}
	return store.Change{Path: strings.Join(segs, "/"), Revision: rev, Deleted: v == nil}, nil
}

func (s *Store) Revision(ctx context.Context) (int64, error) {
	var rev int64
	if err := s.db.QueryRowContext(ctx, `SELECT revision FROM revisions WHERE id = 1`).Scan(&rev); err != nil {
		return 0, fmt.Errorf("read revision: %w", err)
	}
	return rev, nil
}

func (s *Store) Subscribe(prefix string, fn func(store.Change)) func() {
	return s.hub.Subscribe(prefix, fn)
}

// readNode loads the document a path lives in. The root path loads every
// document into one object.
func readNode(ctx context.Context, q querier, segs []string) (any, error) {
	if len(segs) > 0 {
		return readDoc(ctx, q, segs[0])
	}
	rows, err := q.QueryContext(ctx, `SELECT key, body FROM documents ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	root := map[string]any{}
	for rows.Next() {
		var key, body string
		if err := rows.Scan(&key, &body); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		v, err := store.DecodeValue(json.RawMessage(body))
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", key, err)
		}
		root[key] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(root) == 0 {
		return nil, nil
	}
	return root, nil
}

func readDoc(ctx context.Context, q querier, key string) (any, error) {
	var body string
	err := q.QueryRowContext(ctx, `SELECT body FROM documents WHERE key = ?`, key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", key, err)
	}
	return store.DecodeValue(json.RawMessage(body))
}

func writeDoc(ctx context.Context, tx *sql.Tx, key string, v any) error {
	if v == nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE key = ?`, key); err != nil {
			return fmt.Errorf("delete document %s: %w", key, err)
		}
		return nil
	}
	body, err := store.EncodeValue(v)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (key, body, updated_at)
		VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		ON CONFLICT(key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		key, string(body))
	if err != nil {
		return fmt.Errorf("write document %s: %w", key, err)
	}
	return nil
}

func replaceAll(ctx context.Context, tx *sql.Tx, root any) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("clear documents: %w", err)
	}
	if root == nil {
		return nil
	}
	m, ok := root.(map[string]any)
	if !ok {
		return fmt.Errorf("root must be an object: %w", store.ErrInvalidPath)
	}
	for k, v := range m {
		if err := writeDoc(ctx, tx, k, v); err != nil {
			return err
		}
	}
	return nil
}

func tail(segs []string) []string {
	if len(segs) == 0 {
		return nil
	}
	return segs[1:]
}
