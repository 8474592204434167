package services

import (
	"context"
	"slices"
	"strconv"

	"gagyebu/internal/calc"
	"gagyebu/internal/core"
	"gagyebu/internal/grouping"
	"gagyebu/internal/store"
)

// ProjectEntry is one project expense together with where it is stored.
// Path and Index address it for update and remove.
type ProjectEntry struct {
	Year     int                `json:"year"`
	Path     string             `json:"path"`
	Index    int                `json:"index"`
	Month    int                `json:"month"`
	Category string             `json:"category,omitempty"`
	Name     string             `json:"name,omitempty"`
	Memo     string             `json:"memo,omitempty"`
	Items    []core.ProjectItem `json:"items"`
	Total    int64              `json:"total"`
}

type ProjectYear struct {
	Year     int            `json:"year"`
	Total    int64          `json:"total"`
	Projects []ProjectEntry `json:"projects"`
}

// Projects lists every project of one source across all years.
type Projects struct {
	Source     core.Source   `json:"source"`
	Total      int64         `json:"total"`
	Years      []ProjectYear `json:"years"`
	Categories []string      `json:"categories"`
}

// Projects collects the project expenses of source, newest year first.
// Years without projects are left out.
func (s *SummaryService) Projects(ctx context.Context, source core.Source) (Projects, error) {
	tree, err := store.LoadTree(ctx, s.store, source)
	if err != nil {
		return Projects{}, err
	}
	keys := make([]string, 0, len(tree))
	for k := range tree {
		keys = append(keys, k)
	}
	years := grouping.AvailableYears(keys)
	slices.Reverse(years)

	out := Projects{Source: source, Years: []ProjectYear{}, Categories: []string{}}
	for _, year := range years {
		path := store.SourcePath(source, year, store.SectionExpenses, store.SubItems)
		group := ProjectYear{Year: year}
		for i, item := range tree[strconv.Itoa(year)].ExpenseItems() {
			if !item.IsProject() {
				continue
			}
			entry := ProjectEntry{
				Year:     year,
				Path:     path,
				Index:    i,
				Month:    item.Month,
				Category: item.Category,
				Name:     item.Name,
				Memo:     item.Memo,
				Items:    item.Items,
				Total:    item.Total(),
			}
			if entry.Items == nil {
				entry.Items = []core.ProjectItem{}
			}
			group.Projects = append(group.Projects, entry)
			group.Total += entry.Total
			if entry.Category != "" && !slices.Contains(out.Categories, entry.Category) {
				out.Categories = append(out.Categories, entry.Category)
			}
		}
		if len(group.Projects) == 0 {
			continue
		}
		out.Years = append(out.Years, group)
		out.Total += group.Total
	}
	slices.Sort(out.Categories)
	return out, nil
}

// RecurringGrid is a section's recurring entries with their column totals.
type RecurringGrid struct {
	Items []core.Recurring `json:"items"`
	// Months holds the total of each month, January first.
	Months []int64 `json:"months"`
	Total  int64   `json:"total"`
}

// Recurring returns the recurring grid of one section with per-month sums.
func (s *SummaryService) Recurring(ctx context.Context, source core.Source, year int, section store.Section) (RecurringGrid, error) {
	data, err := store.LoadYear(ctx, s.store, source, year)
	if err != nil {
		return RecurringGrid{}, err
	}
	items := data.ExpenseRecurring()
	if section == store.SectionIncomes {
		items = data.IncomeRecurring()
	}
	if items == nil {
		items = []core.Recurring{}
	}
	grid := RecurringGrid{Items: items, Months: make([]int64, 12)}
	for m := 1; m <= 12; m++ {
		grid.Months[m-1] = calc.SumRecurringByMonth(items, m)
	}
	grid.Total = calc.SumRecurring(items)
	return grid, nil
}
