package sqlite

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"gagyebu/internal/core"
	"gagyebu/internal/store"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "ledger.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestSetGetAcrossDocuments(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)

	if err := s.Set(ctx, "personal/2025/incomes/items", json.RawMessage(`[{"month":1,"amount":10}]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ctx, "balances/accounts", json.RawMessage(`[{"name":"bank","balance":5}]`)); err != nil {
		t.Fatalf("Set balances: %v", err)
	}

	raw, err := s.Get(ctx, "personal/2025/incomes/items/0/amount")
	if err != nil || string(raw) != "10" {
		t.Fatalf("Get leaf = %s, %v", raw, err)
	}
	root, err := s.Get(ctx, "")
	if err != nil {
		t.Fatalf("Get root: %v", err)
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(root, &top); err != nil || len(top) != 2 {
		t.Fatalf("root = %s, %v", root, err)
	}
	if rev, _ := s.Revision(ctx); rev != 2 {
		t.Fatalf("revision = %d, want 2", rev)
	}
}

func TestDeletePrunesDocument(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)
	_ = s.Set(ctx, "family/2024/expenses/items", json.RawMessage(`[{"amount":1}]`))
	if err := s.Set(ctx, "family/2024/expenses/items", nil); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM documents WHERE key = 'family'`).Scan(&n); err != nil || n != 0 {
		t.Fatalf("family rows = %d, %v", n, err)
	}
}

func TestListOpsAndReopen(t *testing.T) {
	ctx := context.Background()
	s, path := openTemp(t)
	items := store.SourcePath(core.SourcePersonal, 2025, store.SectionExpenses, store.SubItems)

	for _, it := range []string{`{"month":3,"name":"b","amount":2}`, `{"month":1,"name":"a","amount":1}`} {
		if err := store.AddItem(ctx, s, items, json.RawMessage(it)); err != nil {
			t.Fatalf("AddItem: %v", err)
		}
	}
	_ = s.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	y, err := store.LoadYear(ctx, reopened, core.SourcePersonal, 2025)
	if err != nil {
		t.Fatalf("LoadYear: %v", err)
	}
	got := y.ExpenseItems()
	if len(got) != 2 || got[0].Name != "a" || got[1].Name != "b" {
		t.Fatalf("items = %+v", got)
	}
	if rev, _ := reopened.Revision(ctx); rev != 2 {
		t.Fatalf("revision after reopen = %d, want 2", rev)
	}
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)
	var changes []store.Change
	s.Subscribe("budget", func(c store.Change) { changes = append(changes, c) })

	if err := store.Put(ctx, s, "budget", json.RawMessage(`{"monthly":[{"category":"a","items":[{"name":"x","amount":1}]}]}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if len(changes) != 1 || changes[0].Revision != 1 || changes[0].Path != "budget" {
		t.Fatalf("changes = %+v", changes)
	}
}
