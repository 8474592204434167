package core

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// RecordKind names the shape expected at a store path.
type RecordKind int

const (
	RecordIncome RecordKind = iota + 1
	RecordExpense
	RecordRecurring
	RecordBalance
	RecordBudgetGroup
	RecordBudget
)

func (k RecordKind) String() string {
	switch k {
	case RecordIncome:
		return "income"
	case RecordExpense:
		return "expense"
	case RecordRecurring:
		return "recurring"
	case RecordBalance:
		return "balance"
	case RecordBudgetGroup:
		return "budget group"
	case RecordBudget:
		return "budget"
	default:
		return fmt.Sprintf("RecordKind(%d)", int(k))
	}
}

var (
	maxInt64 = decimal.NewFromInt(1<<63 - 1)
	minInt64 = decimal.NewFromInt(-1 << 63)
)

type validator interface {
	Validate() error
}

// PrepareRecord validates one raw record and returns its normalized encoding.
// Every number must be a whole value that fits in int64; recurring monthly
// maps lose their zero entries.
func PrepareRecord(kind RecordKind, raw json.RawMessage) (json.RawMessage, error) {
	if err := checkIntegers(raw); err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%s must be an object: %w", kind, ErrInvalidRecord)
	}

	var v any
	var err error
	switch kind {
	case RecordIncome:
		v, err = decodeValid[TransactionItem](trimmed)
	case RecordExpense:
		v, err = decodeValid[ExpenseItem](trimmed)
	case RecordRecurring:
		var r Recurring
		r, err = decodeValid[Recurring](trimmed)
		r.Monthly = r.Monthly.Normalize()
		v = r
	case RecordBalance:
		v, err = decodeValid[BalanceItem](trimmed)
	case RecordBudgetGroup:
		v, err = decodeValid[BudgetGroup](trimmed)
	case RecordBudget:
		var b Budget
		if err = json.Unmarshal(trimmed, &b); err == nil {
			err = b.Validate()
		}
		v = b.normalized()
	default:
		return nil, fmt.Errorf("unknown record kind %d: %w", int(kind), ErrInvalidRecord)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	return json.Marshal(v)
}

// PrepareList validates a whole array for a list path. A null or empty array
// yields nil, which callers store as null: the store never keeps empty arrays.
func PrepareList(kind RecordKind, raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, fmt.Errorf("%s list: %w", kind, ErrInvalidRecord)
	}
	if len(elems) == 0 {
		return nil, nil
	}
	out := make([]json.RawMessage, len(elems))
	for i, e := range elems {
		p, err := PrepareRecord(kind, e)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out[i] = p
	}
	return json.Marshal(out)
}

func decodeValid[T validator](raw []byte) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if err := v.Validate(); err != nil {
		return v, err
	}
	return v, nil
}

// checkIntegers walks the raw JSON and rejects any number with a fractional
// part or outside the int64 range.
func checkIntegers(raw []byte) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return walkNumbers(v, "")
}

func walkNumbers(v any, field string) error {
	switch t := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		if err != nil {
			return fmt.Errorf("%s %q: %w", field, t, ErrInvalidAmount)
		}
		if !d.IsInteger() || d.GreaterThan(maxInt64) || d.LessThan(minInt64) {
			return fmt.Errorf("%s %s is not a whole amount: %w", field, t, ErrInvalidAmount)
		}
	case map[string]any:
		for k, child := range t {
			if err := walkNumbers(child, k); err != nil {
				return err
			}
		}
	case []any:
		for _, child := range t {
			if err := walkNumbers(child, field); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b Budget) Validate() error {
	for _, g := range b.Monthly {
		if err := g.Validate(); err != nil {
			return err
		}
	}
	for _, g := range b.Annual {
		if err := g.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// normalized fills absent sections with empty slices so the document always
// carries both keys.
func (b Budget) normalized() Budget {
	if b.Monthly == nil {
		b.Monthly = []BudgetGroup{}
	}
	if b.Annual == nil {
		b.Annual = []BudgetGroup{}
	}
	return b
}
