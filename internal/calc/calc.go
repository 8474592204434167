// Package calc holds the ledger arithmetic: totals over transactions,
// recurring grids and mixed expense lists, plus the balance, net asset,
// discrepancy and burn rate figures derived from them.
//
// Every function is pure. Inputs are never modified and nil slices are
// treated as empty.
package calc

import (
	"gagyebu/internal/core"
)

// SumBy adds up amount(item) over items.
func SumBy[T any](items []T, amount func(T) int64) int64 {
	var sum int64
	for _, it := range items {
		sum += amount(it)
	}
	return sum
}

// SumAmounts sums the amount field of plain transactions.
func SumAmounts(items []core.TransactionItem) int64 {
	return SumBy(items, func(t core.TransactionItem) int64 { return t.Amount })
}

// SumExpenseItems sums expenses, counting a project as the sum of its sub-items.
func SumExpenseItems(items []core.ExpenseItem) int64 {
	return SumBy(items, core.ExpenseItem.Total)
}

// SumRecurring sums every month of every recurring item.
func SumRecurring(items []core.Recurring) int64 {
	return SumBy(items, func(r core.Recurring) int64 { return r.Monthly.Total() })
}

// SumRecurringByMonth sums one month column of a recurring grid.
func SumRecurringByMonth(items []core.Recurring, month int) int64 {
	return SumBy(items, func(r core.Recurring) int64 { return r.Monthly.Get(month) })
}

func SumBalanceItems(items []core.BalanceItem) int64 {
	return SumBy(items, func(b core.BalanceItem) int64 { return b.Balance })
}

// CalculateBalance is income minus expense for one source and one year,
// recurring entries included.
func CalculateBalance(
	incomeItems []core.TransactionItem,
	expenseItems []core.ExpenseItem,
	recurringIncomes []core.Recurring,
	recurringExpenses []core.Recurring,
) int64 {
	return SumAmounts(incomeItems) +
		SumRecurring(recurringIncomes) -
		SumExpenseItems(expenseItems) -
		SumRecurring(recurringExpenses)
}

// YearBalance is CalculateBalance over a decoded year.
func YearBalance(y core.YearData) int64 {
	return CalculateBalance(y.IncomeItems(), y.ExpenseItems(), y.IncomeRecurring(), y.ExpenseRecurring())
}

// CalculateNetAssets is accounts + receivables - deposits.
func CalculateNetAssets(accounts, receivables, deposits []core.BalanceItem) int64 {
	return SumBalanceItems(accounts) + SumBalanceItems(receivables) - SumBalanceItems(deposits)
}

// CalculateDiscrepancy is the part of net assets the ledgers do not explain.
// Zero means the recorded income and expense fully account for the balances.
func CalculateDiscrepancy(netAssets, personalBalance, familyBalance int64) int64 {
	return netAssets - personalBalance - familyBalance
}

// DiscrepancyForYear only reconciles the current calendar year; balances are
// live figures, so any other year reports 0.
func DiscrepancyForYear(year, currentYear int, netAssets, personalBalance, familyBalance int64) int64 {
	if year != currentYear {
		return 0
	}
	return CalculateDiscrepancy(netAssets, personalBalance, familyBalance)
}

// SumBudgetGroups sums every item of every group.
func SumBudgetGroups(groups []core.BudgetGroup) int64 {
	return SumBy(groups, func(g core.BudgetGroup) int64 {
		return SumBy(g.Items, func(it core.BudgetItem) int64 { return it.Amount })
	})
}

// GetItemSpending is the actual spend attributed to one budget line: expenses
// whose category equals name plus recurring expenses whose name equals name.
func GetItemSpending(name string, expenseItems []core.ExpenseItem, recurringExpenses []core.Recurring) int64 {
	var sum int64
	for _, e := range expenseItems {
		if e.Category == name {
			sum += e.Total()
		}
	}
	for _, r := range recurringExpenses {
		if r.Name == name {
			sum += r.Monthly.Total()
		}
	}
	return sum
}

// BuildSpendingMap computes GetItemSpending for every key in one pass. Keys are
// expense categories and recurring names; entries without one are skipped.
func BuildSpendingMap(expenseItems []core.ExpenseItem, recurringExpenses []core.Recurring) map[string]int64 {
	m := make(map[string]int64)
	for _, e := range expenseItems {
		if e.Category == "" {
			continue
		}
		m[e.Category] += e.Total()
	}
	for _, r := range recurringExpenses {
		if r.Name == "" {
			continue
		}
		m[r.Name] += r.Monthly.Total()
	}
	return m
}

// CalculateBurnRate returns spent/budget. ok is false when budget <= 0, where a
// rate has no meaning. The ratio is not clamped: above 1 means overspend.
func CalculateBurnRate(spent, budget int64) (rate float64, ok bool) {
	if budget <= 0 {
		return 0, false
	}
	return float64(spent) / float64(budget), true
}
