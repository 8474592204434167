// Package sheets exports a year of the ledger to a spreadsheet: one row per
// ledger line followed by the year summary and the budget burn figures.
package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"gagyebu/internal/budget"
	"gagyebu/internal/core"
)

// YearExport is everything written for one year.
type YearExport struct {
	Year    int
	Rows    []core.SearchResult
	Summary core.Summary
	Budget  budget.Report
}

// Exporter writes a year export, replacing whatever was there before.
type Exporter interface {
	ExportYear(ctx context.Context, e YearExport) error
}

// Header is the first row of every ledger sheet.
var Header = []any{"Source", "Month", "Category", "Name", "Project", "Memo", "Amount"}

// SheetName returns the tab written for year, e.g. "2025 Ledger".
func SheetName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		base = "Ledger"
	}
	return fmt.Sprintf("%d %s", year, base)
}

// BuildRows lays out e as spreadsheet values. Unassigned months are left blank.
func BuildRows(e YearExport) [][]any {
	rows := make([][]any, 0, len(e.Rows)+16)
	rows = append(rows, Header)
	for _, r := range e.Rows {
		var month any = ""
		if r.Month != 0 {
			month = r.Month
		}
		rows = append(rows, []any{string(r.Source), month, r.Category, r.Name, r.ProjectName, r.Memo, r.Amount})
	}

	rows = append(rows, []any{},
		[]any{"Summary"},
		[]any{"Personal balance", e.Summary.PersonalBalance},
		[]any{"Family balance", e.Summary.FamilyBalance},
		[]any{"Net assets", e.Summary.NetAssets},
	)
	if e.Summary.IsCurrentYear {
		rows = append(rows, []any{"Discrepancy", e.Summary.Discrepancy})
	}

	if !e.Budget.Total.HasRate {
		return rows
	}
	rows = append(rows, []any{},
		[]any{"Budget", "Annualized", "Spent", "Remaining", "Burn rate", "Status"},
	)
	for _, sec := range []budget.Section{e.Budget.Monthly, e.Budget.Annual} {
		for _, g := range sec.Groups {
			for _, l := range g.Lines {
				rows = append(rows, figureRow(g.Category+" / "+l.Name, l.Figures))
			}
		}
	}
	rows = append(rows, figureRow("Total", e.Budget.Total))
	return rows
}

func figureRow(label string, f budget.Figures) []any {
	rate := ""
	if f.HasRate {
		rate = decimal.NewFromFloat(f.BurnRate).Shift(2).Round(1).String() + "%"
	}
	return []any{label, f.Annualized, f.Spent, f.Remaining, rate, string(f.Status)}
}
