// Package budget attributes actual spend to budget lines and bands the
// resulting burn rates.
package budget

import (
	"math"

	"gagyebu/internal/calc"
	"gagyebu/internal/core"
)

// Status bands a burn rate. The zero value means the rate is not applicable.
type Status string

const (
	StatusSafe    Status = "safe"
	StatusWarning Status = "warning"
	StatusOver    Status = "over"
)

// Thresholds in whole percent.
const (
	WarningPercent = 80
	OverPercent    = 100
)

// Annualization factors.
const (
	MonthlyFactor = 12
	AnnualFactor  = 1
)

// StatusOf rounds rate to a whole percent and bands it: above OverPercent is
// over, from WarningPercent up is warning.
func StatusOf(rate float64, ok bool) Status {
	if !ok {
		return ""
	}
	pct := int64(math.Floor(rate*100 + 0.5))
	switch {
	case pct > OverPercent:
		return StatusOver
	case pct >= WarningPercent:
		return StatusWarning
	default:
		return StatusSafe
	}
}

// Share is v as a whole percentage of total, 0 when total is not positive.
func Share(v, total int64) int64 {
	if total <= 0 {
		return 0
	}
	return int64(math.Floor(float64(v)/float64(total)*100 + 0.5))
}

// Figures are the numbers shown for a line, a section or the whole budget.
type Figures struct {
	Budget     int64   `json:"budget"`
	Annualized int64   `json:"annualized"`
	Spent      int64   `json:"spent"`
	Remaining  int64   `json:"remaining"`
	BurnRate   float64 `json:"burnRate"`
	HasRate    bool    `json:"hasRate"`
	Status     Status  `json:"status,omitempty"`
}

func newFigures(budget, annualized, spent int64) Figures {
	rate, ok := calc.CalculateBurnRate(spent, annualized)
	return Figures{
		Budget:     budget,
		Annualized: annualized,
		Spent:      spent,
		Remaining:  annualized - spent,
		BurnRate:   rate,
		HasRate:    ok,
		Status:     StatusOf(rate, ok),
	}
}

type Line struct {
	Name string `json:"name"`
	Memo string `json:"memo,omitempty"`
	Figures
	Share int64 `json:"share"`
}

type Group struct {
	Category   string `json:"category"`
	Annualized int64  `json:"annualized"`
	Share      int64  `json:"share"`
	Lines      []Line `json:"lines"`
}

type Section struct {
	Factor int64   `json:"factor"`
	Groups []Group `json:"groups"`
	Totals Figures `json:"totals"`
}

// Report is the full burn analysis of one budget against one year of spend.
type Report struct {
	Monthly Section `json:"monthly"`
	Annual  Section `json:"annual"`
	Total   Figures `json:"total"`
}

// Analyze maps every budget line to the spend recorded under its name.
// Monthly lines are annualized ×12. The overall spend counts every expense,
// including categories with no budget line.
func Analyze(b core.Budget, expenseItems []core.ExpenseItem, recurringExpenses []core.Recurring) Report {
	spending := calc.BuildSpendingMap(expenseItems, recurringExpenses)

	monthlySum := calc.SumBudgetGroups(b.Monthly)
	annualSum := calc.SumBudgetGroups(b.Annual)
	totalBudget := monthlySum*MonthlyFactor + annualSum*AnnualFactor
	totalSpent := calc.SumExpenseItems(expenseItems) + calc.SumRecurring(recurringExpenses)

	return Report{
		Monthly: analyzeSection(b.Monthly, MonthlyFactor, totalBudget, spending),
		Annual:  analyzeSection(b.Annual, AnnualFactor, totalBudget, spending),
		Total:   newFigures(monthlySum+annualSum, totalBudget, totalSpent),
	}
}

func analyzeSection(groups []core.BudgetGroup, factor, totalBudget int64, spending map[string]int64) Section {
	sec := Section{Factor: factor, Groups: make([]Group, 0, len(groups))}
	var budget, annualized, spent int64
	for _, g := range groups {
		grp := Group{Category: g.Category, Lines: make([]Line, 0, len(g.Items))}
		for _, it := range g.Items {
			line := Line{
				Name:    it.Name,
				Memo:    it.Memo,
				Figures: newFigures(it.Amount, it.Amount*factor, spending[it.Name]),
			}
			line.Share = Share(line.Annualized, totalBudget)
			grp.Annualized += line.Annualized
			grp.Lines = append(grp.Lines, line)

			budget += line.Budget
			annualized += line.Annualized
			spent += line.Spent
		}
		grp.Share = Share(grp.Annualized, totalBudget)
		sec.Groups = append(sec.Groups, grp)
	}
	sec.Totals = newFigures(budget, annualized, spent)
	return sec
}
