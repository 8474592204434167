package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"gagyebu/internal/store"
	"gagyebu/internal/store/memory"
)

const fixture = `{
  "personal": {
    "2025": {
      "incomes": {
        "items": [{"month": 1, "category": "급여", "name": "월급", "amount": 3000}],
        "recurring": [{"name": "이자", "monthly": {"1": 100, "2": 100}}]
      },
      "expenses": {
        "items": [{"month": 2, "category": "식비", "name": "점심", "amount": 500}]
      }
    }
  },
  "family": {
    "2024": {
      "expenses": {
        "items": [
          {"month": 5, "category": "의료", "name": "병원", "amount": 50},
          {"month": 11, "category": "식비", "name": "장보기", "amount": 80}
        ]
      }
    },
    "2025": {
      "expenses": {
        "items": [{"month": 3, "category": "여행", "name": "여행", "items": [{"name": "항공", "amount": 700}, {"name": "숙박", "amount": 300}]}],
        "recurring": [{"category": "주거", "name": "관리비", "monthly": {"1": 200}}]
      }
    }
  },
  "balances": {
    "accounts": [{"name": "통장", "balance": 5000}],
    "deposits": [{"name": "보증금", "balance": 1000}]
  },
  "budget": {
    "monthly": [{"category": "생활", "items": [{"name": "관리비", "amount": 100}]}],
    "annual": [{"category": "여가", "items": [{"name": "여행", "amount": 2000}]}]
  }
}`

func seededStore(t *testing.T) *memory.Store {
	t.Helper()
	s := memory.New()
	if _, err := store.Import(context.Background(), s, json.RawMessage(fixture)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return s
}

func fixedNow(year int) func() time.Time {
	return func() time.Time { return time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC) }
}

type recordingPublisher struct {
	mu      sync.Mutex
	changes []store.Change
	err     error
}

func (p *recordingPublisher) PublishLedgerChanged(_ context.Context, c store.Change) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changes = append(p.changes, c)
	return p.err
}

func (p *recordingPublisher) published() []store.Change {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]store.Change(nil), p.changes...)
}

var errBroker = errors.New("broker down")
