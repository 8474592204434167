package store

import (
	"context"
	"encoding/json"
	"fmt"

	"gagyebu/internal/core"
	"gagyebu/internal/grouping"
)

func load[T any](ctx context.Context, r Reader, path string) (T, error) {
	var v T
	raw, err := r.Get(ctx, path)
	if err != nil {
		return v, fmt.Errorf("get %s: %w", path, err)
	}
	if len(raw) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decode %s: %w: %v", path, core.ErrInvalidRecord, err)
	}
	return v, nil
}

// LoadTree returns every year of source keyed by year, empty when absent.
func LoadTree(ctx context.Context, r Reader, source core.Source) (map[string]core.YearData, error) {
	tree, err := load[map[string]core.YearData](ctx, r, RootPath(source))
	if err != nil {
		return nil, err
	}
	if tree == nil {
		tree = map[string]core.YearData{}
	}
	return tree, nil
}

func LoadYear(ctx context.Context, r Reader, source core.Source, year int) (core.YearData, error) {
	return load[core.YearData](ctx, r, YearPath(source, year))
}

func LoadBalances(ctx context.Context, r Reader) (core.Balances, error) {
	return load[core.Balances](ctx, r, RootBalances)
}

func LoadBudget(ctx context.Context, r Reader) (core.Budget, error) {
	return load[core.Budget](ctx, r, BudgetPath())
}

// Years lists the years recorded for source, oldest first.
func Years(ctx context.Context, r Reader, source core.Source) ([]int, error) {
	keys, err := load[map[string]json.RawMessage](ctx, r, RootPath(source))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(keys))
	for k := range keys {
		names = append(names, k)
	}
	return grouping.AvailableYears(names), nil
}
