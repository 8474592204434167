package core

import "strconv"

// Monthly maps a month number ("1".."12") to an amount. Zero amounts are never
// stored: With drops them, and readers treat a missing month as zero.
type Monthly map[string]int64

func monthKey(month int) string {
	return strconv.Itoa(month)
}

// Get returns the amount for month, 0 when absent.
func (m Monthly) Get(month int) int64 {
	return m[monthKey(month)]
}

// Total sums every month.
func (m Monthly) Total() int64 {
	var sum int64
	for _, v := range m {
		sum += v
	}
	return sum
}

// With returns a copy of m with month set to amount, or removed when amount is 0.
func (m Monthly) With(month int, amount int64) Monthly {
	out := make(Monthly, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	if amount == 0 {
		delete(out, monthKey(month))
	} else {
		out[monthKey(month)] = amount
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Normalize returns a copy without zero-valued entries; nil when nothing is left.
func (m Monthly) Normalize() Monthly {
	var out Monthly
	for k, v := range m {
		if v == 0 {
			continue
		}
		if out == nil {
			out = make(Monthly, len(m))
		}
		out[k] = v
	}
	return out
}
