package core

import (
	"errors"
	"strconv"
	"strings"
)

const (
	SourcePersonal Source = "personal"
	SourceFamily   Source = "family"
)

type (
	// Source identifies which ledger a record belongs to.
	Source string

	// TransactionItem is one dated income or simple expense entry.
	// Month 0 means the item has no month assigned.
	TransactionItem struct {
		Month    int    `json:"month,omitempty"`
		Category string `json:"category,omitempty"`
		Name     string `json:"name,omitempty"`
		Memo     string `json:"memo,omitempty"`
		Amount   int64  `json:"amount"`
	}

	// ProjectItem is a sub-line of a multi-part expense.
	ProjectItem struct {
		Name   string `json:"name,omitempty"`
		Amount int64  `json:"amount"`
	}

	// ProjectExpense is an expense whose amount is the sum of its items.
	ProjectExpense struct {
		Month    int           `json:"month,omitempty"`
		Category string        `json:"category,omitempty"`
		Name     string        `json:"name,omitempty"`
		Memo     string        `json:"memo,omitempty"`
		Items    []ProjectItem `json:"items"`
	}

	// Recurring is a monthly repeating income or expense.
	Recurring struct {
		Category string  `json:"category,omitempty"`
		Name     string  `json:"name,omitempty"`
		Monthly  Monthly `json:"monthly,omitempty"`
	}

	// BalanceItem is one account, receivable or deposit line.
	BalanceItem struct {
		Category string `json:"category,omitempty"`
		Name     string `json:"name"`
		Balance  int64  `json:"balance"`
		Color    string `json:"color,omitempty"`
		Memo     string `json:"memo,omitempty"`
	}

	BudgetItem struct {
		Name   string `json:"name"`
		Amount int64  `json:"amount"`
		Memo   string `json:"memo,omitempty"`
	}

	BudgetGroup struct {
		Category string       `json:"category"`
		Items    []BudgetItem `json:"items"`
	}

	// Budget holds monthly (repeats every month) and annual (once a year) groups.
	Budget struct {
		Monthly []BudgetGroup `json:"monthly"`
		Annual  []BudgetGroup `json:"annual"`
	}

	IncomeSection struct {
		Items     []TransactionItem `json:"items,omitempty"`
		Recurring []Recurring       `json:"recurring,omitempty"`
	}

	ExpenseSection struct {
		Items     []ExpenseItem `json:"items,omitempty"`
		Recurring []Recurring   `json:"recurring,omitempty"`
	}

	// YearData is the per-year ledger stored under personal/{year} or family/{year}.
	YearData struct {
		Incomes  *IncomeSection  `json:"incomes,omitempty"`
		Expenses *ExpenseSection `json:"expenses,omitempty"`
		Memo     string          `json:"memo,omitempty"`
	}

	// Balances is the tree stored under balances/.
	Balances struct {
		Accounts    []BalanceItem `json:"accounts,omitempty"`
		Receivables []BalanceItem `json:"receivables,omitempty"`
		Deposits    []BalanceItem `json:"deposits,omitempty"`
	}
)

var (
	ErrInvalidMonth  = errors.New("invalid month")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyName     = errors.New("empty name")
	ErrInvalidRecord = errors.New("invalid record")
	ErrInvalidSource = errors.New("invalid source")
)

// ParseSource converts a string into a Source.
func ParseSource(s string) (Source, error) {
	src := Source(strings.TrimSpace(s))
	if !src.IsValid() {
		return "", ErrInvalidSource
	}
	return src, nil
}

func (s Source) IsValid() bool {
	return s == SourcePersonal || s == SourceFamily
}

func (s Source) String() string {
	return string(s)
}

// Sources lists both ledgers in traversal order.
func Sources() []Source {
	return []Source{SourcePersonal, SourceFamily}
}

// ValidMonth reports whether m is an assigned month (1..12).
func ValidMonth(m int) bool {
	return m >= 1 && m <= 12
}

func validateMonth(m int) error {
	if m != 0 && !ValidMonth(m) {
		return ErrInvalidMonth
	}
	return nil
}

func (t TransactionItem) ItemMonth() int       { return t.Month }
func (t TransactionItem) ItemCategory() string { return t.Category }
func (t TransactionItem) ItemAmount() int64    { return t.Amount }

func (t TransactionItem) Validate() error {
	return validateMonth(t.Month)
}

// Total returns the sum of the project's sub-items.
func (p ProjectExpense) Total() int64 {
	var sum int64
	for _, it := range p.Items {
		sum += it.Amount
	}
	return sum
}

func (p ProjectExpense) Validate() error {
	return validateMonth(p.Month)
}

func (r Recurring) ItemCategory() string { return r.Category }

func (r Recurring) Validate() error {
	for key := range r.Monthly {
		m, err := strconv.Atoi(key)
		if err != nil || !ValidMonth(m) {
			return ErrInvalidMonth
		}
	}
	return nil
}

func (b BalanceItem) ItemCategory() string { return b.Category }

func (b BalanceItem) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (b BudgetItem) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (g BudgetGroup) Validate() error {
	if strings.TrimSpace(g.Category) == "" {
		return errors.New("empty budget category")
	}
	for _, it := range g.Items {
		if err := it.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// IncomeItems returns the year's income items, empty when the section is absent.
func (y YearData) IncomeItems() []TransactionItem {
	if y.Incomes == nil {
		return nil
	}
	return y.Incomes.Items
}

func (y YearData) IncomeRecurring() []Recurring {
	if y.Incomes == nil {
		return nil
	}
	return y.Incomes.Recurring
}

func (y YearData) ExpenseItems() []ExpenseItem {
	if y.Expenses == nil {
		return nil
	}
	return y.Expenses.Items
}

func (y YearData) ExpenseRecurring() []Recurring {
	if y.Expenses == nil {
		return nil
	}
	return y.Expenses.Recurring
}

// Monthed is any record carrying a month, 0 when unassigned.
type Monthed interface {
	ItemMonth() int
}

// Categorized is any record carrying a category, "" when unassigned.
type Categorized interface {
	ItemCategory() string
}

// Tabulated records can be split into month tabs and category tabs.
type Tabulated interface {
	Monthed
	Categorized
}
