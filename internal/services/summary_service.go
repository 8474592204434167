package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"gagyebu/internal/budget"
	"gagyebu/internal/cache"
	"gagyebu/internal/calc"
	"gagyebu/internal/core"
	"gagyebu/internal/grouping"
	"gagyebu/internal/log"
	"gagyebu/internal/search"
	"gagyebu/internal/store"
)

// Snapshotter is the read side of the store.
type Snapshotter interface {
	store.Reader
	Revision(ctx context.Context) (int64, error)
}

type SummaryConfig struct {
	// CacheSize bounds each derived-value cache (default 64).
	CacheSize int
	// CacheTTL expires cached values; 0 keeps them until evicted.
	CacheTTL time.Duration
	// Now overrides the clock that picks the current year.
	Now func() time.Time
}

func DefaultSummaryConfig() SummaryConfig {
	return SummaryConfig{CacheSize: 64, CacheTTL: 10 * time.Minute}
}

// SummaryService derives summaries, budget reports, search results, tabs
// and category suggestions from store snapshots. Derived values are cached
// per store revision, so any write makes them stale.
type SummaryService struct {
	store  Snapshotter
	now    func() time.Time
	logger *log.Logger

	summaries *cache.LRU[core.Summary]
	reports   *cache.LRU[budget.Report]
	indexes   *cache.LRU[[]core.SearchResult]
}

// NewSummaryService registers its caches with manager when it is not nil.
func NewSummaryService(s Snapshotter, cfg SummaryConfig, manager *cache.Manager, logger *log.Logger) *SummaryService {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultSummaryConfig().CacheSize
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if logger == nil {
		logger = log.Discard()
	}
	svc := &SummaryService{
		store:     s,
		now:       cfg.Now,
		logger:    logger.WithComponent(log.ComponentSummary),
		summaries: cache.NewLRU[core.Summary](cfg.CacheSize, cfg.CacheTTL),
		reports:   cache.NewLRU[budget.Report](cfg.CacheSize, cfg.CacheTTL),
		indexes:   cache.NewLRU[[]core.SearchResult](cfg.CacheSize, cfg.CacheTTL),
	}
	if manager != nil {
		manager.Register(svc.summaries)
		manager.Register(svc.reports)
		manager.Register(svc.indexes)
	}
	return svc
}

func (s *SummaryService) revisionKey(ctx context.Context, name string, year int) (string, error) {
	rev, err := s.store.Revision(ctx)
	if err != nil {
		return "", fmt.Errorf("read revision: %w", err)
	}
	return fmt.Sprintf("%d/%s/%d", rev, name, year), nil
}

// CurrentYear is the calendar year the discrepancy is reported for.
func (s *SummaryService) CurrentYear() int {
	return s.now().Year()
}

// Summary reconciles year: both source balances against net assets. The
// discrepancy is only reported for the current calendar year.
func (s *SummaryService) Summary(ctx context.Context, year int) (core.Summary, error) {
	key, err := s.revisionKey(ctx, "summary", year)
	if err != nil {
		return core.Summary{}, err
	}
	return s.summaries.GetOrLoad(key, func() (core.Summary, error) {
		return s.loadSummary(ctx, year)
	})
}

func (s *SummaryService) loadSummary(ctx context.Context, year int) (core.Summary, error) {
	var personal, family, netAssets int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		y, err := store.LoadYear(gctx, s.store, core.SourcePersonal, year)
		personal = calc.YearBalance(y)
		return err
	})
	g.Go(func() error {
		y, err := store.LoadYear(gctx, s.store, core.SourceFamily, year)
		family = calc.YearBalance(y)
		return err
	})
	g.Go(func() error {
		b, err := store.LoadBalances(gctx, s.store)
		netAssets = calc.CalculateNetAssets(b.Accounts, b.Receivables, b.Deposits)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.Summary{}, fmt.Errorf("load summary %d: %w", year, err)
	}

	current := s.CurrentYear()
	return core.Summary{
		Year:            year,
		PersonalBalance: personal,
		FamilyBalance:   family,
		NetAssets:       netAssets,
		Discrepancy:     calc.DiscrepancyForYear(year, current, netAssets, personal, family),
		IsCurrentYear:   year == current,
	}, nil
}

// Budget analyzes the budget against the family ledger's expenses for year.
func (s *SummaryService) Budget(ctx context.Context, year int) (budget.Report, error) {
	key, err := s.revisionKey(ctx, "budget", year)
	if err != nil {
		return budget.Report{}, err
	}
	return s.reports.GetOrLoad(key, func() (budget.Report, error) {
		var (
			b    core.Budget
			data core.YearData
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			b, err = store.LoadBudget(gctx, s.store)
			return err
		})
		g.Go(func() (err error) {
			data, err = store.LoadYear(gctx, s.store, core.SourceFamily, year)
			return err
		})
		if err := g.Wait(); err != nil {
			return budget.Report{}, fmt.Errorf("load budget %d: %w", year, err)
		}
		return budget.Analyze(b, data.ExpenseItems(), data.ExpenseRecurring()), nil
	})
}

// Index returns the full search index for the current revision. The slice
// is shared with the cache and must not be modified.
func (s *SummaryService) Index(ctx context.Context) ([]core.SearchResult, error) {
	key, err := s.revisionKey(ctx, "index", 0)
	if err != nil {
		return nil, err
	}
	return s.indexes.GetOrLoad(key, func() ([]core.SearchResult, error) {
		var personal, family map[string]core.YearData
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			personal, err = store.LoadTree(gctx, s.store, core.SourcePersonal)
			return err
		})
		g.Go(func() (err error) {
			family, err = store.LoadTree(gctx, s.store, core.SourceFamily)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("load search index: %w", err)
		}
		index := search.BuildSearchIndex(personal, family)
		s.logger.DebugContext(ctx, "Built search index", log.FieldRows, len(index))
		return index, nil
	})
}

func (s *SummaryService) Search(ctx context.Context, query string) ([]core.SearchResult, error) {
	index, err := s.Index(ctx)
	if err != nil {
		return nil, err
	}
	return search.SearchItems(query, index), nil
}

// YearIndex returns the index entries for one year, in index order.
func (s *SummaryService) YearIndex(ctx context.Context, year int) ([]core.SearchResult, error) {
	index, err := s.Index(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]core.SearchResult, 0)
	for _, r := range index {
		if r.Year == year {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *SummaryService) Years(ctx context.Context, source core.Source) ([]int, error) {
	return store.Years(ctx, s.store, source)
}

// Tabs lists the month or category tabs of a section's items.
func (s *SummaryService) Tabs(ctx context.Context, source core.Source, year int, section store.Section, view grouping.View) ([]grouping.Tab, error) {
	data, err := store.LoadYear(ctx, s.store, source, year)
	if err != nil {
		return nil, err
	}
	if section == store.SectionIncomes {
		return grouping.Tabulate(data.IncomeItems(), view, core.TransactionItem.ItemAmount), nil
	}
	return grouping.Tabulate(data.ExpenseItems(), view, core.ExpenseItem.ItemAmount), nil
}

// Categories suggests categories for a new entry in year, ranked by how
// often they were used the year before. With month set, item suggestions
// blend this year up to month with last year after it.
func (s *SummaryService) Categories(ctx context.Context, source core.Source, year int, section store.Section, sub store.Sub, month int) ([]string, error) {
	var current, previous core.YearData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		current, err = store.LoadYear(gctx, s.store, source, year)
		return err
	})
	g.Go(func() (err error) {
		previous, err = store.LoadYear(gctx, s.store, source, year-1)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	switch {
	case sub == store.SubRecurring && section == store.SectionIncomes:
		return grouping.CollectCategoriesFromItems([]core.TransactionItem(nil), previous.IncomeRecurring()), nil
	case sub == store.SubRecurring:
		return grouping.CollectCategoriesFromItems([]core.ExpenseItem(nil), previous.ExpenseRecurring()), nil
	case section == store.SectionIncomes && core.ValidMonth(month):
		return grouping.CollectRecentCategories(current.IncomeItems(), previous.IncomeItems(), month), nil
	case section == store.SectionIncomes:
		return grouping.CollectCategoriesFromItems(previous.IncomeItems(), nil), nil
	case core.ValidMonth(month):
		return grouping.CollectRecentCategories(current.ExpenseItems(), previous.ExpenseItems(), month), nil
	default:
		return grouping.CollectCategoriesFromItems(previous.ExpenseItems(), nil), nil
	}
}
