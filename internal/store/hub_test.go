package store

import "testing"

func TestOverlaps(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"", "personal/2025", true},
		{"personal", "personal/2025/incomes/items", true},
		{"personal/2025/incomes/items", "personal", true},
		{"personal/2025", "personal/2025", true},
		{"personal/2025", "personal/20251", false},
		{"personal", "family/2025", false},
		{"balances/accounts", "balances/deposits", false},
	}
	for _, tt := range tests {
		if got := overlaps(tt.a, tt.b); got != tt.want {
			t.Fatalf("overlaps(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestHubPublish(t *testing.T) {
	h := NewHub()
	var personal, balances []Change
	unsub := h.Subscribe("personal/2025", func(c Change) { personal = append(personal, c) })
	h.Subscribe("/balances/", func(c Change) { balances = append(balances, c) })

	h.Publish(Change{Path: "personal/2025/expenses/items", Revision: 1})
	h.Publish(Change{Path: "family/2025/expenses/items", Revision: 2})
	h.Publish(Change{Path: "balances/accounts", Revision: 3})

	if len(personal) != 1 || personal[0].Revision != 1 {
		t.Fatalf("personal got %v", personal)
	}
	if len(balances) != 1 || balances[0].Revision != 3 {
		t.Fatalf("balances got %v", balances)
	}

	unsub()
	unsub()
	h.Publish(Change{Path: "personal", Revision: 4})
	if len(personal) != 1 {
		t.Fatalf("unsubscribed handler still called: %v", personal)
	}
}
