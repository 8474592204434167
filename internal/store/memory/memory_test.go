package memory

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"gagyebu/internal/store"
)

func TestSetGetAndRevision(t *testing.T) {
	ctx := context.Background()
	s := New()

	if raw, err := s.Get(ctx, "budget"); err != nil || raw != nil {
		t.Fatalf("empty Get = %s, %v", raw, err)
	}
	if err := s.Set(ctx, "balances/accounts", json.RawMessage(`[{"name":"bank","balance":5}]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	raw, err := s.Get(ctx, "balances")
	if err != nil || string(raw) != `{"accounts":[{"balance":5,"name":"bank"}]}` {
		t.Fatalf("Get(balances) = %s, %v", raw, err)
	}
	if rev, _ := s.Revision(ctx); rev != 1 {
		t.Fatalf("revision = %d, want 1", rev)
	}

	if err := s.Set(ctx, "balances/accounts", json.RawMessage(`[]`)); err != nil {
		t.Fatalf("Set empty: %v", err)
	}
	if raw, _ := s.Get(ctx, "balances"); raw != nil {
		t.Fatalf("empty array should delete, got %s", raw)
	}
	if rev, _ := s.Revision(ctx); rev != 2 {
		t.Fatalf("revision = %d, want 2", rev)
	}
}

func TestSubscribeReceivesChanges(t *testing.T) {
	ctx := context.Background()
	s := New()
	var got []store.Change
	unsub := s.Subscribe("personal/2025", func(c store.Change) { got = append(got, c) })
	defer unsub()

	_ = s.Set(ctx, "/personal/2025/incomes/items/", json.RawMessage(`[{"amount":1}]`))
	_ = s.Set(ctx, "family/2025/incomes/items", json.RawMessage(`[{"amount":1}]`))
	_ = s.Set(ctx, "personal/2025/incomes/items", nil)

	if len(got) != 2 {
		t.Fatalf("changes = %+v, want 2", got)
	}
	if got[0].Path != "personal/2025/incomes/items" || got[0].Revision != 1 || got[0].Deleted {
		t.Fatalf("first change = %+v", got[0])
	}
	if got[1].Revision != 3 || !got[1].Deleted {
		t.Fatalf("second change = %+v", got[1])
	}
}

func TestUpdateErrorLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.Set(ctx, "budget/monthly", json.RawMessage(`[{"category":"a"}]`))
	err := s.Update(ctx, "budget/monthly/0/name", func(json.RawMessage) (json.RawMessage, error) {
		return json.RawMessage(`"x"`), nil
	})
	if err == nil {
		t.Fatalf("expected error writing inside a list")
	}
	if rev, _ := s.Revision(ctx); rev != 1 {
		t.Fatalf("revision = %d, want 1", rev)
	}
}

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	if err := os.WriteFile(path, []byte(`{"budget":{"monthly":[{"category":"a","items":[{"name":"x","amount":1}]}]}}`), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	s, err := NewFromFile(path)
	if err != nil {
		t.Fatalf("NewFromFile: %v", err)
	}
	raw, _ := s.Get(context.Background(), "budget/monthly/0/category")
	if string(raw) != `"a"` {
		t.Fatalf("seeded value = %s", raw)
	}
	if rev, _ := s.Revision(context.Background()); rev != 0 {
		t.Fatalf("seed revision = %d, want 0", rev)
	}

	if _, err := NewFromFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing seed")
	}
}
