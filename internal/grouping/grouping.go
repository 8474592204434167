// Package grouping builds the month and category tabs of a ledger section and
// the category ranking used for autocomplete.
package grouping

import (
	"cmp"
	"slices"
	"strconv"

	"gagyebu/internal/core"
)

// Unassigned is the month value of items without a month. It always sorts
// first.
const Unassigned = 0

// ExtractMonths returns the distinct months present, ascending. Unassigned
// items show up as a leading 0.
func ExtractMonths[T core.Monthed](items []T) []int {
	seen := make(map[int]struct{}, 12)
	months := make([]int, 0, 12)
	for _, it := range items {
		m := it.ItemMonth()
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		months = append(months, m)
	}
	slices.Sort(months)
	return months
}

// ExtractCategories groups items by category and orders the groups by summed
// amount, largest first. Equal totals keep first-seen order. The unassigned
// group ("") leads whatever its total.
func ExtractCategories[T core.Categorized](items []T, amount func(T) int64) []string {
	totals := newTally()
	for _, it := range items {
		totals.add(it.ItemCategory(), amount(it))
	}
	return totals.ranked(true)
}

// CollectCategoriesFromItems ranks the non-empty categories of items and
// recurring entries by how often they occur, most frequent first.
func CollectCategoriesFromItems[T core.Categorized](items []T, recurring []core.Recurring) []string {
	counts := newTally()
	for _, it := range items {
		counts.add(it.ItemCategory(), 1)
	}
	for _, r := range recurring {
		counts.add(r.Category, 1)
	}
	return counts.ranked(false)
}

// CollectRecentCategories ranks categories used over the trailing twelve
// months: current-year items up to currentMonth and previous-year items after
// it. Unassigned months count on both sides. Passing currentMonth 12 counts
// every current-year item and no dated previous-year item.
func CollectRecentCategories[T core.Tabulated](current, previous []T, currentMonth int) []string {
	counts := newTally()
	for _, it := range current {
		if m := it.ItemMonth(); m == Unassigned || m <= currentMonth {
			counts.add(it.ItemCategory(), 1)
		}
	}
	for _, it := range previous {
		if m := it.ItemMonth(); m == Unassigned || m > currentMonth {
			counts.add(it.ItemCategory(), 1)
		}
	}
	return counts.ranked(false)
}

// SortByMonth returns a copy of items ordered by month, unassigned first.
// Items sharing a month keep their relative order.
func SortByMonth[T core.Monthed](items []T) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		return cmp.Compare(a.ItemMonth(), b.ItemMonth())
	})
	return out
}

// AvailableYears parses year keys and returns them ascending. Keys that are
// not integers are ignored.
func AvailableYears(keys []string) []int {
	years := make([]int, 0, len(keys))
	for _, k := range keys {
		y, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		years = append(years, y)
	}
	slices.Sort(years)
	return slices.Compact(years)
}

func FilterByMonth[T core.Monthed](items []T, month int) []T {
	var out []T
	for _, it := range items {
		if it.ItemMonth() == month {
			out = append(out, it)
		}
	}
	return out
}

func FilterByCategory[T core.Categorized](items []T, category string) []T {
	var out []T
	for _, it := range items {
		if it.ItemCategory() == category {
			out = append(out, it)
		}
	}
	return out
}

// tally sums values per key and remembers the order keys first appeared in.
type tally struct {
	order []string
	sums  map[string]int64
}

func newTally() *tally {
	return &tally{sums: make(map[string]int64)}
}

func (t *tally) add(key string, v int64) {
	if _, ok := t.sums[key]; !ok {
		t.order = append(t.order, key)
	}
	t.sums[key] += v
}

// ranked orders keys by descending sum, stable on ties. With keepEmpty the
// "" key is moved to the front; otherwise it is dropped.
func (t *tally) ranked(keepEmpty bool) []string {
	keys := make([]string, 0, len(t.order))
	hasEmpty := false
	for _, k := range t.order {
		if k == "" {
			hasEmpty = true
			continue
		}
		keys = append(keys, k)
	}
	slices.SortStableFunc(keys, func(a, b string) int {
		return cmp.Compare(t.sums[b], t.sums[a])
	})
	if keepEmpty && hasEmpty {
		keys = append([]string{""}, keys...)
	}
	return keys
}
