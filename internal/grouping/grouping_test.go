package grouping

import (
	"errors"
	"reflect"
	"testing"

	"gagyebu/internal/core"
)

func item(month int, category string, amount int64) core.TransactionItem {
	return core.TransactionItem{Month: month, Category: category, Amount: amount}
}

func amountOf(t core.TransactionItem) int64 { return t.Amount }

func TestExtractMonths(t *testing.T) {
	tests := []struct {
		name  string
		items []core.TransactionItem
		want  []int
	}{
		{"empty", nil, []int{}},
		{"dedup ascending unassigned first", []core.TransactionItem{item(3, "", 0), item(1, "", 0), item(3, "", 0), item(0, "", 0)}, []int{0, 1, 3}},
		{"no unassigned", []core.TransactionItem{item(12, "", 0), item(2, "", 0)}, []int{2, 12}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractMonths(tt.items); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ExtractMonths = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractCategories(t *testing.T) {
	items := []core.TransactionItem{
		item(0, "교통", 100),
		item(0, "식비", 500),
		item(0, "교통", 200),
		item(0, "의류", 400),
	}
	want := []string{"식비", "의류", "교통"}
	if got := ExtractCategories(items, amountOf); !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtractCategories = %v, want %v", got, want)
	}

	withUnassigned := append(items, item(0, "", 100))
	want = []string{"", "식비", "의류", "교통"}
	if got := ExtractCategories(withUnassigned, amountOf); !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtractCategories with unassigned = %v, want %v", got, want)
	}
}

func TestExtractCategoriesTieKeepsFirstSeen(t *testing.T) {
	items := []core.TransactionItem{item(0, "b", 100), item(0, "a", 100), item(0, "c", 300)}
	want := []string{"c", "b", "a"}
	if got := ExtractCategories(items, amountOf); !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtractCategories = %v, want %v", got, want)
	}
}

func TestExtractCategoriesProjectTotals(t *testing.T) {
	items := []core.ExpenseItem{
		core.NewTransactionExpense(item(1, "식비", 300)),
		core.NewProjectExpense(core.ProjectExpense{Category: "여행", Items: []core.ProjectItem{{Amount: 200}, {Amount: 200}}}),
	}
	want := []string{"여행", "식비"}
	if got := ExtractCategories(items, core.ExpenseItem.Total); !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtractCategories = %v, want %v", got, want)
	}
}

func TestCollectCategoriesFromItems(t *testing.T) {
	items := []core.TransactionItem{
		item(1, "식비", 1), item(2, "교통", 1), item(3, "식비", 1), item(4, "", 1),
	}
	recurring := []core.Recurring{{Category: "교통"}, {Category: "통신"}, {Category: "교통"}}
	want := []string{"교통", "식비", "통신"}
	if got := CollectCategoriesFromItems(items, recurring); !reflect.DeepEqual(got, want) {
		t.Fatalf("CollectCategoriesFromItems = %v, want %v", got, want)
	}
	if got := CollectCategoriesFromItems[core.TransactionItem](nil, nil); len(got) != 0 {
		t.Fatalf("empty input = %v", got)
	}
}

func TestCollectRecentCategories(t *testing.T) {
	current := []core.TransactionItem{item(2, "식비", 1), item(5, "교통", 1), item(0, "의류", 1)}
	previous := []core.TransactionItem{item(2, "병원", 1), item(11, "식비", 1), item(0, "의류", 1)}
	// currentMonth 3: current Feb + unassigned, previous Nov + unassigned.
	want := []string{"식비", "의류"}
	if got := CollectRecentCategories(current, previous, 3); !reflect.DeepEqual(got, want) {
		t.Fatalf("CollectRecentCategories = %v, want %v", got, want)
	}

	want = []string{"의류", "식비", "교통"}
	if got := CollectRecentCategories(current, previous, 12); !reflect.DeepEqual(got, want) {
		t.Fatalf("CollectRecentCategories(12) = %v, want %v", got, want)
	}
}

func TestSortByMonth(t *testing.T) {
	in := []core.TransactionItem{
		{Month: 3, Name: "a"}, {Name: "b"}, {Month: 1, Name: "c"}, {Month: 3, Name: "d"}, {Name: "e"},
	}
	got := SortByMonth(in)
	var names []string
	for _, it := range got {
		names = append(names, it.Name)
	}
	want := []string{"b", "e", "c", "a", "d"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("SortByMonth order = %v, want %v", names, want)
	}
	if in[0].Name != "a" {
		t.Fatalf("input was reordered")
	}
}

func TestAvailableYears(t *testing.T) {
	got := AvailableYears([]string{"2025", "2023", "memo", "2024"})
	want := []int{2023, 2024, 2025}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("AvailableYears = %v, want %v", got, want)
	}
}

func TestFilters(t *testing.T) {
	items := []core.TransactionItem{item(1, "a", 1), item(2, "b", 2), item(1, "b", 3)}
	if got := FilterByMonth(items, 1); len(got) != 2 {
		t.Fatalf("FilterByMonth(1) len = %d, want 2", len(got))
	}
	if got := FilterByCategory(items, "b"); len(got) != 2 || got[0].Amount != 2 {
		t.Fatalf("FilterByCategory(b) = %v", got)
	}
	if got := FilterByMonth(items, 7); got != nil {
		t.Fatalf("FilterByMonth(7) = %v, want nil", got)
	}
}

func TestTabulate(t *testing.T) {
	items := []core.TransactionItem{item(2, "식비", 100), item(0, "교통", 50), item(2, "교통", 25)}

	monthly := Tabulate(items, ViewMonthly, amountOf)
	want := []Tab{{Month: 0, Count: 1, Total: 50}, {Month: 2, Count: 2, Total: 125}}
	if !reflect.DeepEqual(monthly, want) {
		t.Fatalf("monthly tabs = %+v, want %+v", monthly, want)
	}

	byCategory := Tabulate(items, ViewCategory, amountOf)
	want = []Tab{{Category: "식비", Count: 1, Total: 100}, {Category: "교통", Count: 2, Total: 75}}
	if !reflect.DeepEqual(byCategory, want) {
		t.Fatalf("category tabs = %+v, want %+v", byCategory, want)
	}
}

func TestParseView(t *testing.T) {
	if v, err := ParseView(""); err != nil || v != ViewMonthly {
		t.Fatalf("ParseView(\"\") = %q, %v", v, err)
	}
	if v, err := ParseView("category"); err != nil || v != ViewCategory {
		t.Fatalf("ParseView(category) = %q, %v", v, err)
	}
	if _, err := ParseView("weekly"); !errors.Is(err, ErrUnknownView) {
		t.Fatalf("ParseView(weekly) err = %v", err)
	}
}
