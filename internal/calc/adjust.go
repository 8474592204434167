package calc

import (
	"strconv"
	"strings"
)

// AdjustTarget is the kind of record an auto-adjust correction is applied to.
type AdjustTarget int

const (
	TargetIncome AdjustTarget = iota + 1
	TargetExpense
	TargetAccount
	TargetReceivable
	TargetDeposit
)

// AdjustmentSign is +1 for records that absorb +discrepancy (income, deposits)
// and -1 for those that absorb -discrepancy (expenses, accounts, receivables).
func AdjustmentSign(target AdjustTarget) int64 {
	switch target {
	case TargetIncome, TargetDeposit:
		return 1
	case TargetExpense, TargetAccount, TargetReceivable:
		return -1
	default:
		return 0
	}
}

// AutoAdjust returns value nudged so that, once stored, the discrepancy becomes 0.
func AutoAdjust(target AdjustTarget, value, discrepancy int64) int64 {
	return value + AdjustmentSign(target)*discrepancy
}

// ParseOperatorInput reads a number cell edit. "+100" and "-50" are applied
// to current; a bare number replaces it. Blank or unparsable input returns
// ok=false.
func ParseOperatorInput(input string, current int64) (value int64, ok bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return current + n, true
	}
	return n, true
}
