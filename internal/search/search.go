// Package search flattens yearly ledgers into a searchable list of dated
// entries and filters it by a free-text query.
package search

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"gagyebu/internal/core"
)

// BuildSearchIndex flattens the income and expense items of every year of both
// sources. Project expenses contribute one entry per sub-item, carrying the
// project's name. Recurring entries are not indexed.
//
// The result is ordered by year, newest first. Within a year, personal entries
// precede family ones and items keep their stored order. Year keys that are
// not integers are skipped.
func BuildSearchIndex(personal, family map[string]core.YearData) []core.SearchResult {
	var results []core.SearchResult
	results = appendSource(results, core.SourcePersonal, personal)
	results = appendSource(results, core.SourceFamily, family)
	slices.SortStableFunc(results, func(a, b core.SearchResult) int {
		return cmp.Compare(b.Year, a.Year)
	})
	return results
}

func appendSource(results []core.SearchResult, source core.Source, tree map[string]core.YearData) []core.SearchResult {
	for _, year := range sortedYears(tree) {
		data := tree[strconv.Itoa(year)]
		for _, it := range data.IncomeItems() {
			results = append(results, fromTransaction(source, year, it))
		}
		for _, it := range data.ExpenseItems() {
			if !it.IsProject() {
				results = append(results, fromTransaction(source, year, it.Transaction()))
				continue
			}
			for _, sub := range it.Items {
				results = append(results, core.SearchResult{
					Source:      source,
					Year:        year,
					Month:       it.Month,
					Name:        sub.Name,
					Amount:      sub.Amount,
					Category:    it.Category,
					ProjectName: it.Name,
				})
			}
		}
	}
	return results
}

func sortedYears(tree map[string]core.YearData) []int {
	years := make([]int, 0, len(tree))
	for k := range tree {
		y, err := strconv.Atoi(k)
		if err != nil || strconv.Itoa(y) != k {
			continue
		}
		years = append(years, y)
	}
	slices.Sort(years)
	return years
}

func fromTransaction(source core.Source, year int, t core.TransactionItem) core.SearchResult {
	return core.SearchResult{
		Source:   source,
		Year:     year,
		Month:    t.Month,
		Name:     t.Name,
		Memo:     t.Memo,
		Amount:   t.Amount,
		Category: t.Category,
	}
}

// SearchItems returns the entries whose name, memo or project name contains
// query, ignoring case. A blank query matches nothing.
func SearchItems(query string, index []core.SearchResult) []core.SearchResult {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []core.SearchResult{}
	}
	out := []core.SearchResult{}
	for _, r := range index {
		if matches(r, q) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r core.SearchResult, q string) bool {
	return strings.Contains(strings.ToLower(r.Name), q) ||
		strings.Contains(strings.ToLower(r.Memo), q) ||
		strings.Contains(strings.ToLower(r.ProjectName), q)
}
