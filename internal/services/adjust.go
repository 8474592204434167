package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"gagyebu/internal/calc"
	"gagyebu/internal/core"
	"gagyebu/internal/store"
)

// ErrNotAdjustable is returned for records whose amount is derived, such as
// project expenses, for paths that hold no amounts, and for ledger years
// other than the one being reconciled.
var ErrNotAdjustable = errors.New("record cannot be auto-adjusted")

func adjustTarget(path string, currentYear int) (calc.AdjustTarget, error) {
	segs, err := store.Split(path)
	if err != nil {
		return 0, err
	}
	if _, err := store.Resolve(path); err != nil {
		return 0, err
	}
	// Only the current year feeds the discrepancy.
	if len(segs) == 4 && segs[1] != strconv.Itoa(currentYear) {
		return 0, fmt.Errorf("%s is not in %d: %w", path, currentYear, ErrNotAdjustable)
	}
	switch {
	case len(segs) == 4 && store.Section(segs[2]) == store.SectionIncomes:
		return calc.TargetIncome, nil
	case len(segs) == 4:
		return calc.TargetExpense, nil
	case len(segs) == 2 && segs[0] == store.RootBalances:
		switch store.BalanceKind(segs[1]) {
		case store.BalanceAccounts:
			return calc.TargetAccount, nil
		case store.BalanceReceivables:
			return calc.TargetReceivable, nil
		case store.BalanceDeposits:
			return calc.TargetDeposit, nil
		}
	}
	return 0, fmt.Errorf("%s: %w", path, ErrNotAdjustable)
}

// AutoAdjust folds currentYear's discrepancy into the item at index so the
// year reconciles. Ledger paths of other years are rejected. Recurring items
// take it in month; every other record in its amount or balance. A zero
// discrepancy is a no-op.
func (s *LedgerService) AutoAdjust(ctx context.Context, path string, index, month, currentYear int, discrepancy int64) error {
	target, err := adjustTarget(path, currentYear)
	if err != nil {
		return err
	}
	if discrepancy == 0 {
		return nil
	}
	resolved, err := store.Resolve(path)
	if err != nil {
		return err
	}

	raw, err := s.store.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	var items []json.RawMessage
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &items); err != nil {
			return fmt.Errorf("decode %s: %w", path, core.ErrInvalidRecord)
		}
	}
	if index < 0 || index >= len(items) {
		return fmt.Errorf("%s[%d]: %w", path, index, store.ErrIndexOutOfRange)
	}

	adjusted, err := adjustItem(resolved.Kind, target, items[index], month, discrepancy)
	if err != nil {
		return fmt.Errorf("%s[%d]: %w", path, index, err)
	}
	return s.Update(ctx, path, index, adjusted)
}

func adjustItem(kind core.RecordKind, target calc.AdjustTarget, raw json.RawMessage, month int, discrepancy int64) (json.RawMessage, error) {
	switch kind {
	case core.RecordRecurring:
		if !core.ValidMonth(month) {
			return nil, core.ErrInvalidMonth
		}
		var r core.Recurring
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, core.ErrInvalidRecord
		}
		r.Monthly = r.Monthly.With(month, calc.AutoAdjust(target, r.Monthly.Get(month), discrepancy))
		return json.Marshal(r)
	case core.RecordIncome:
		var t core.TransactionItem
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, core.ErrInvalidRecord
		}
		t.Amount = calc.AutoAdjust(target, t.Amount, discrepancy)
		return json.Marshal(t)
	case core.RecordExpense:
		var e core.ExpenseItem
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, core.ErrInvalidRecord
		}
		if e.IsProject() {
			return nil, ErrNotAdjustable
		}
		e.Amount = calc.AutoAdjust(target, e.Amount, discrepancy)
		return json.Marshal(e)
	case core.RecordBalance:
		var b core.BalanceItem
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, core.ErrInvalidRecord
		}
		b.Balance = calc.AutoAdjust(target, b.Balance, discrepancy)
		return json.Marshal(b)
	default:
		return nil, ErrNotAdjustable
	}
}
