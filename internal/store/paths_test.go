package store

import (
	"errors"
	"testing"

	"gagyebu/internal/core"
)

func TestPathBuilders(t *testing.T) {
	if got := SourcePath(core.SourceFamily, 2025, SectionExpenses, SubRecurring); got != "family/2025/expenses/recurring" {
		t.Fatalf("SourcePath = %q", got)
	}
	if got := BalancesPath(BalanceDeposits); got != "balances/deposits" {
		t.Fatalf("BalancesPath = %q", got)
	}
	if got := RootPath(core.SourcePersonal); got != "personal" {
		t.Fatalf("RootPath = %q", got)
	}
	if BudgetPath() != "budget" {
		t.Fatalf("BudgetPath = %q", BudgetPath())
	}
}

func TestSplit(t *testing.T) {
	segs, err := Split("/personal/2025/")
	if err != nil || len(segs) != 2 || segs[1] != "2025" {
		t.Fatalf("Split = %v, %v", segs, err)
	}
	if segs, err := Split(""); err != nil || segs != nil {
		t.Fatalf("Split(root) = %v, %v", segs, err)
	}
	for _, p := range []string{"a//b", "a/../b", "./a"} {
		if _, err := Split(p); !errors.Is(err, ErrInvalidPath) {
			t.Fatalf("Split(%q) err = %v, want ErrInvalidPath", p, err)
		}
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		path string
		want Target
		err  bool
	}{
		{"personal/2025/incomes/items", Target{Kind: core.RecordIncome, List: true}, false},
		{"family/2024/expenses/items", Target{Kind: core.RecordExpense, List: true}, false},
		{"family/2024/incomes/recurring", Target{Kind: core.RecordRecurring, List: true}, false},
		{"personal/2024/expenses/recurring", Target{Kind: core.RecordRecurring, List: true}, false},
		{"balances/receivables", Target{Kind: core.RecordBalance, List: true}, false},
		{"budget", Target{Kind: core.RecordBudget}, false},
		{"budget/annual", Target{Kind: core.RecordBudgetGroup, List: true}, false},
		{"friends/2025/incomes/items", Target{}, true},
		{"personal/this-year/incomes/items", Target{}, true},
		{"personal/02026/incomes/items", Target{}, true},
		{"personal/+2026/incomes/items", Target{}, true},
		{"family/-0/expenses/items", Target{}, true},
		{"personal/2025/savings/items", Target{}, true},
		{"personal/2025/incomes", Target{}, true},
		{"balances/cash", Target{}, true},
		{"budget/weekly", Target{}, true},
		{"", Target{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := Resolve(tt.path)
			if tt.err {
				if !errors.Is(err, ErrInvalidPath) {
					t.Fatalf("Resolve(%q) err = %v, want ErrInvalidPath", tt.path, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) unexpected error: %v", tt.path, err)
			}
			if got != tt.want {
				t.Fatalf("Resolve(%q) = %+v, want %+v", tt.path, got, tt.want)
			}
		})
	}
}
