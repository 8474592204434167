package store

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gagyebu/internal/core"
)

// Section of a ledger year.
type Section string

const (
	SectionIncomes  Section = "incomes"
	SectionExpenses Section = "expenses"
)

// Sub selects dated items or the recurring grid within a section.
type Sub string

const (
	SubItems     Sub = "items"
	SubRecurring Sub = "recurring"
)

// BalanceKind is one of the three balance lists.
type BalanceKind string

const (
	BalanceAccounts    BalanceKind = "accounts"
	BalanceReceivables BalanceKind = "receivables"
	BalanceDeposits    BalanceKind = "deposits"
)

const (
	RootBalances = "balances"
	RootBudget   = "budget"
)

var ErrInvalidPath = errors.New("invalid path")

func ParseSection(s string) (Section, error) {
	switch Section(s) {
	case SectionIncomes, SectionExpenses:
		return Section(s), nil
	}
	return "", fmt.Errorf("section %q: %w", s, ErrInvalidPath)
}

func ParseSub(s string) (Sub, error) {
	switch Sub(s) {
	case SubItems, SubRecurring:
		return Sub(s), nil
	}
	return "", fmt.Errorf("sub %q: %w", s, ErrInvalidPath)
}

// RootPath is the tree holding every year of a source.
func RootPath(source core.Source) string { return string(source) }

func YearPath(source core.Source, year int) string {
	return string(source) + "/" + strconv.Itoa(year)
}

// SourcePath is the list at source/year/section/sub.
func SourcePath(source core.Source, year int, section Section, sub Sub) string {
	return YearPath(source, year) + "/" + string(section) + "/" + string(sub)
}

func BalancesPath(kind BalanceKind) string { return RootBalances + "/" + string(kind) }

func BudgetPath() string { return RootBudget }

// Split cleans a slash separated path into its segments. The empty path is
// the root and yields no segments.
func Split(path string) ([]string, error) {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil, nil
	}
	segs := strings.Split(path, "/")
	for _, s := range segs {
		if s == "" || s == "." || s == ".." {
			return nil, fmt.Errorf("%q: %w", path, ErrInvalidPath)
		}
	}
	return segs, nil
}

// Target is what a writable path holds.
type Target struct {
	Kind core.RecordKind
	// List is true for array paths; false for a single document.
	List bool
}

// Resolve maps a writable path to the record kind stored there. Paths outside
// the ledger layout are rejected with ErrInvalidPath.
func Resolve(path string) (Target, error) {
	segs, err := Split(path)
	if err != nil {
		return Target{}, err
	}
	bad := fmt.Errorf("%q is not a writable path: %w", path, ErrInvalidPath)
	switch {
	case len(segs) == 4:
		if _, err := core.ParseSource(segs[0]); err != nil {
			return Target{}, bad
		}
		// Years are read back by their canonical key, so 02026 or +2026
		// would be stored where nothing looks.
		if y, err := strconv.Atoi(segs[1]); err != nil || strconv.Itoa(y) != segs[1] {
			return Target{}, bad
		}
		section, err := ParseSection(segs[2])
		if err != nil {
			return Target{}, bad
		}
		sub, err := ParseSub(segs[3])
		if err != nil {
			return Target{}, bad
		}
		switch {
		case sub == SubRecurring:
			return Target{Kind: core.RecordRecurring, List: true}, nil
		case section == SectionIncomes:
			return Target{Kind: core.RecordIncome, List: true}, nil
		default:
			return Target{Kind: core.RecordExpense, List: true}, nil
		}
	case len(segs) == 2 && segs[0] == RootBalances:
		switch BalanceKind(segs[1]) {
		case BalanceAccounts, BalanceReceivables, BalanceDeposits:
			return Target{Kind: core.RecordBalance, List: true}, nil
		}
	case len(segs) == 2 && segs[0] == RootBudget:
		if segs[1] == "monthly" || segs[1] == "annual" {
			return Target{Kind: core.RecordBudgetGroup, List: true}, nil
		}
	case len(segs) == 1 && segs[0] == RootBudget:
		return Target{Kind: core.RecordBudget}, nil
	}
	return Target{}, bad
}
