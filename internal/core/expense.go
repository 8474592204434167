package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	KindTransaction ExpenseKind = iota
	KindProject
)

// ExpenseKind discriminates the two expense shapes.
type ExpenseKind uint8

func (k ExpenseKind) String() string {
	switch k {
	case KindTransaction:
		return "transaction"
	case KindProject:
		return "project"
	default:
		return fmt.Sprintf("ExpenseKind(%d)", uint8(k))
	}
}

// ExpenseItem is either a plain transaction or a project expense. The kind is
// fixed when the value is constructed or decoded; consumers switch on it
// instead of looking at which fields are set.
type ExpenseItem struct {
	Kind     ExpenseKind
	Month    int
	Category string
	Name     string
	Memo     string
	Amount   int64         // KindTransaction only
	Items    []ProjectItem // KindProject only
}

// NewTransactionExpense wraps a plain transaction as an expense.
func NewTransactionExpense(t TransactionItem) ExpenseItem {
	return ExpenseItem{
		Kind:     KindTransaction,
		Month:    t.Month,
		Category: t.Category,
		Name:     t.Name,
		Memo:     t.Memo,
		Amount:   t.Amount,
	}
}

// NewProjectExpense wraps a project as an expense.
func NewProjectExpense(p ProjectExpense) ExpenseItem {
	return ExpenseItem{
		Kind:     KindProject,
		Month:    p.Month,
		Category: p.Category,
		Name:     p.Name,
		Memo:     p.Memo,
		Items:    p.Items,
	}
}

func (e ExpenseItem) IsProject() bool { return e.Kind == KindProject }

func (e ExpenseItem) ItemMonth() int       { return e.Month }
func (e ExpenseItem) ItemCategory() string { return e.Category }

// Total is the effective amount: the item amount, or the sum of sub-items for a project.
func (e ExpenseItem) Total() int64 {
	if e.IsProject() {
		return e.Project().Total()
	}
	return e.Amount
}

// ItemAmount is Total, named to satisfy the amount accessor used by grouping.
func (e ExpenseItem) ItemAmount() int64 { return e.Total() }

func (e ExpenseItem) Transaction() TransactionItem {
	return TransactionItem{Month: e.Month, Category: e.Category, Name: e.Name, Memo: e.Memo, Amount: e.Amount}
}

func (e ExpenseItem) Project() ProjectExpense {
	return ProjectExpense{Month: e.Month, Category: e.Category, Name: e.Name, Memo: e.Memo, Items: e.Items}
}

func (e ExpenseItem) Validate() error {
	return validateMonth(e.Month)
}

// MarshalJSON writes the stored shape: projects carry items, transactions carry amount.
func (e ExpenseItem) MarshalJSON() ([]byte, error) {
	if e.IsProject() {
		p := e.Project()
		if p.Items == nil {
			p.Items = []ProjectItem{}
		}
		return json.Marshal(p)
	}
	return json.Marshal(e.Transaction())
}

type rawExpense struct {
	Month    int             `json:"month"`
	Category string          `json:"category"`
	Name     string          `json:"name"`
	Memo     string          `json:"memo"`
	Amount   *int64          `json:"amount"`
	Items    json.RawMessage `json:"items"`
}

// UnmarshalJSON resolves the kind once. A record is a project when it carries
// an items array, or when it carries neither items nor amount: the store does
// not persist empty arrays, so a project whose items were all deleted comes
// back with no items field at all.
func (e *ExpenseItem) UnmarshalJSON(data []byte) error {
	var raw rawExpense
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = ExpenseItem{
		Month:    raw.Month,
		Category: raw.Category,
		Name:     raw.Name,
		Memo:     raw.Memo,
	}

	hasItems := len(raw.Items) > 0 && !bytes.Equal(bytes.TrimSpace(raw.Items), []byte("null"))
	switch {
	case hasItems:
		e.Kind = KindProject
		if err := json.Unmarshal(raw.Items, &e.Items); err != nil {
			return fmt.Errorf("project items: %w", err)
		}
	case raw.Amount == nil:
		e.Kind = KindProject
	default:
		e.Kind = KindTransaction
		e.Amount = *raw.Amount
	}
	return nil
}
