package grouping

import (
	"errors"
	"fmt"

	"gagyebu/internal/core"
)

// View selects how a section's items are split into tabs.
type View string

const (
	ViewMonthly  View = "monthly"
	ViewCategory View = "category"
)

var ErrUnknownView = errors.New("unknown view")

func ParseView(s string) (View, error) {
	switch View(s) {
	case ViewMonthly, ViewCategory:
		return View(s), nil
	case "":
		return ViewMonthly, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnknownView)
	}
}

// Tab is one entry of a tab bar together with the items it selects.
type Tab struct {
	Month    int    `json:"month,omitempty"`
	Category string `json:"category,omitempty"`
	Count    int    `json:"count"`
	Total    int64  `json:"total"`
}

// Tabulate returns the tabs of items for view, in display order.
func Tabulate[T core.Tabulated](items []T, view View, amount func(T) int64) []Tab {
	var tabs []Tab
	switch view {
	case ViewCategory:
		for _, c := range ExtractCategories(items, amount) {
			tabs = append(tabs, tabFor(FilterByCategory(items, c), amount, Tab{Category: c}))
		}
	default:
		for _, m := range ExtractMonths(items) {
			tabs = append(tabs, tabFor(FilterByMonth(items, m), amount, Tab{Month: m}))
		}
	}
	return tabs
}

func tabFor[T any](selected []T, amount func(T) int64, tab Tab) Tab {
	tab.Count = len(selected)
	for _, it := range selected {
		tab.Total += amount(it)
	}
	return tab
}
