package search

import (
	"testing"

	"gagyebu/internal/core"
)

func yearWith(incomes []core.TransactionItem, expenses []core.ExpenseItem) core.YearData {
	return core.YearData{
		Incomes: &core.IncomeSection{
			Items:     incomes,
			Recurring: []core.Recurring{{Name: "월급", Monthly: core.Monthly{"1": 100}}},
		},
		Expenses: &core.ExpenseSection{
			Items:     expenses,
			Recurring: []core.Recurring{{Name: "Netflix 구독", Monthly: core.Monthly{"1": 17}}},
		},
	}
}

func TestBuildSearchIndexFlattensProjects(t *testing.T) {
	trip := core.NewProjectExpense(core.ProjectExpense{
		Month:    7,
		Category: "여행",
		Name:     "여행",
		Items: []core.ProjectItem{
			{Name: "항공권", Amount: 500},
			{Name: "호텔", Amount: 300},
		},
	})
	personal := map[string]core.YearData{"2025": yearWith(nil, []core.ExpenseItem{trip})}

	idx := BuildSearchIndex(personal, nil)
	if len(idx) != 2 {
		t.Fatalf("len(index) = %d, want 2", len(idx))
	}
	for i, want := range []struct {
		name   string
		amount int64
	}{{"항공권", 500}, {"호텔", 300}} {
		r := idx[i]
		if r.ProjectName != "여행" || r.Name != want.name || r.Amount != want.amount {
			t.Fatalf("index[%d] = %+v", i, r)
		}
		if r.Source != core.SourcePersonal || r.Year != 2025 || r.Month != 7 || r.Category != "여행" {
			t.Fatalf("index[%d] lost parent fields: %+v", i, r)
		}
	}
}

func TestBuildSearchIndexOrder(t *testing.T) {
	personal := map[string]core.YearData{
		"2024": yearWith([]core.TransactionItem{{Name: "p2024"}}, nil),
		"2025": yearWith(
			[]core.TransactionItem{{Name: "p2025-in"}},
			[]core.ExpenseItem{core.NewTransactionExpense(core.TransactionItem{Name: "p2025-out"})},
		),
		"notes": yearWith([]core.TransactionItem{{Name: "skipped"}}, nil),
	}
	family := map[string]core.YearData{
		"2025": yearWith([]core.TransactionItem{{Name: "f2025"}}, nil),
		"2023": {},
	}

	idx := BuildSearchIndex(personal, family)
	var names []string
	for _, r := range idx {
		names = append(names, r.Name)
	}
	want := []string{"p2025-in", "p2025-out", "f2025", "p2024"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}
}

func TestBuildSearchIndexNilSources(t *testing.T) {
	if idx := BuildSearchIndex(nil, nil); len(idx) != 0 {
		t.Fatalf("index = %v, want empty", idx)
	}
}

func TestSearchItems(t *testing.T) {
	index := []core.SearchResult{
		{Source: core.SourcePersonal, Year: 2025, Name: "Netflix", Amount: 17},
		{Source: core.SourcePersonal, Year: 2025, Name: "점심", Memo: "회사 근처 NETFLIX 카페"},
		{Source: core.SourceFamily, Year: 2024, Name: "호텔", ProjectName: "제주 여행"},
		{Source: core.SourceFamily, Year: 2024, Name: "주유", Category: "netflix"},
	}

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"empty", "", 0},
		{"blank", "  ", 0},
		{"case insensitive name", "NETFLIX", 2},
		{"trimmed", "  netflix ", 2},
		{"project name", "여행", 1},
		{"category not searched", "주유소", 0},
		{"no match", "zzz", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SearchItems(tt.query, index)
			if got == nil {
				t.Fatalf("SearchItems returned nil, want empty slice")
			}
			if len(got) != tt.want {
				t.Fatalf("SearchItems(%q) len = %d, want %d", tt.query, len(got), tt.want)
			}
		})
	}

	single := []core.SearchResult{{Name: "Netflix"}}
	if got := SearchItems("NETFLIX", single); len(got) != 1 {
		t.Fatalf("SearchItems(NETFLIX) len = %d, want 1", len(got))
	}
}
