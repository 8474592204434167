package services

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"

	"gagyebu/internal/budget"
	"gagyebu/internal/cache"
	"gagyebu/internal/core"
	"gagyebu/internal/grouping"
	"gagyebu/internal/store"
)

func newSummary(t *testing.T, year int) (*SummaryService, *LedgerService) {
	t.Helper()
	s := seededStore(t)
	svc := NewSummaryService(s, DefaultSummaryConfig(), nil, nil)
	svc.now = fixedNow(year)
	return svc, NewLedgerService(s, nil, nil)
}

func TestSummaryCurrentYear(t *testing.T) {
	svc, _ := newSummary(t, 2025)
	got, err := svc.Summary(context.Background(), 2025)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	want := core.Summary{
		Year:            2025,
		PersonalBalance: 2700,
		FamilyBalance:   -1200,
		NetAssets:       4000,
		Discrepancy:     2500,
		IsCurrentYear:   true,
	}
	if got != want {
		t.Fatalf("Summary = %+v, want %+v", got, want)
	}
}

func TestSummaryOtherYearHasNoDiscrepancy(t *testing.T) {
	svc, _ := newSummary(t, 2026)
	got, err := svc.Summary(context.Background(), 2025)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if got.Discrepancy != 0 || got.IsCurrentYear {
		t.Fatalf("Summary = %+v, want zero discrepancy", got)
	}
	if got.NetAssets != 4000 {
		t.Fatalf("NetAssets = %d", got.NetAssets)
	}
}

func TestSummaryFollowsWrites(t *testing.T) {
	ctx := context.Background()
	svc, ledger := newSummary(t, 2025)

	before, _ := svc.Summary(ctx, 2025)
	if err := ledger.Add(ctx, "personal/2025/incomes/items", json.RawMessage(`{"month":2,"amount":2500}`)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	after, err := svc.Summary(ctx, 2025)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if before.Discrepancy != 2500 || after.Discrepancy != 0 {
		t.Fatalf("discrepancy %d -> %d, want 2500 -> 0", before.Discrepancy, after.Discrepancy)
	}
	if _, misses := svc.summaries.Stats(); misses != 2 {
		t.Fatalf("misses = %d, want 2 (one per revision)", misses)
	}
	_, _ = svc.Summary(ctx, 2025)
	if hits, _ := svc.summaries.Stats(); hits != 1 {
		t.Fatalf("hits = %d, want 1", hits)
	}
}

func TestBudgetReport(t *testing.T) {
	svc, _ := newSummary(t, 2025)
	r, err := svc.Budget(context.Background(), 2025)
	if err != nil {
		t.Fatalf("Budget: %v", err)
	}
	if r.Total.Budget != 2100 || r.Total.Annualized != 3200 || r.Total.Spent != 1200 {
		t.Fatalf("Total = %+v", r.Total)
	}
	line := r.Annual.Groups[0].Lines[0]
	if line.Name != "여행" || line.Spent != 1000 || line.Status != budget.StatusSafe {
		t.Fatalf("annual line = %+v", line)
	}
	if r.Monthly.Groups[0].Lines[0].Annualized != 1200 {
		t.Fatalf("monthly line = %+v", r.Monthly.Groups[0].Lines[0])
	}
}

func TestSearchAndIndex(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSummary(t, 2025)

	index, err := svc.Index(ctx)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	var names []string
	for _, r := range index {
		names = append(names, r.Name)
	}
	want := []string{"월급", "점심", "항공", "숙박", "병원", "장보기"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("index names = %v, want %v", names, want)
	}

	got, err := svc.Search(ctx, "여행")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 || got[0].ProjectName != "여행" || got[0].Source != core.SourceFamily {
		t.Fatalf("Search(여행) = %+v", got)
	}
	if got, _ := svc.Search(ctx, "   "); len(got) != 0 {
		t.Fatalf("blank query = %+v", got)
	}

	y2024, err := svc.YearIndex(ctx, 2024)
	if err != nil || len(y2024) != 2 {
		t.Fatalf("YearIndex(2024) = %+v, %v", y2024, err)
	}
}

func TestYearsAndTabs(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSummary(t, 2025)

	years, err := svc.Years(ctx, core.SourceFamily)
	if err != nil || !reflect.DeepEqual(years, []int{2024, 2025}) {
		t.Fatalf("Years = %v, %v", years, err)
	}

	tabs, err := svc.Tabs(ctx, core.SourceFamily, 2024, store.SectionExpenses, grouping.ViewMonthly)
	if err != nil {
		t.Fatalf("Tabs: %v", err)
	}
	wantTabs := []grouping.Tab{{Month: 5, Count: 1, Total: 50}, {Month: 11, Count: 1, Total: 80}}
	if !reflect.DeepEqual(tabs, wantTabs) {
		t.Fatalf("Tabs = %+v, want %+v", tabs, wantTabs)
	}

	tabs, _ = svc.Tabs(ctx, core.SourceFamily, 2025, store.SectionExpenses, grouping.ViewCategory)
	if len(tabs) != 1 || tabs[0].Category != "여행" || tabs[0].Total != 1000 {
		t.Fatalf("category tabs = %+v", tabs)
	}
}

func TestCategories(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSummary(t, 2025)

	tests := []struct {
		name    string
		section store.Section
		sub     store.Sub
		month   int
		want    []string
	}{
		{"previous year items", store.SectionExpenses, store.SubItems, 0, []string{"의료", "식비"}},
		{"trailing twelve months", store.SectionExpenses, store.SubItems, 6, []string{"여행", "식비"}},
		{"no previous recurring", store.SectionExpenses, store.SubRecurring, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Categories(ctx, core.SourceFamily, 2025, tt.section, tt.sub, tt.month)
			if err != nil {
				t.Fatalf("Categories: %v", err)
			}
			if len(got) != len(tt.want) || (len(got) > 0 && !reflect.DeepEqual(got, tt.want)) {
				t.Fatalf("Categories = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSummaryCachesRegisterWithManager(t *testing.T) {
	m := cache.NewManager(nil)
	svc := NewSummaryService(seededStore(t), SummaryConfig{CacheSize: 2}, m, nil)
	_, _ = svc.Index(context.Background())
	if svc.indexes.Size() != 1 {
		t.Fatalf("index cache size = %d", svc.indexes.Size())
	}
	if n := m.CleanAll(); n != 0 {
		t.Fatalf("CleanAll without TTL removed %d", n)
	}
}
