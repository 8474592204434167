package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"gagyebu/internal/core"
	"gagyebu/internal/export/sheets"
	"gagyebu/internal/log"
	"gagyebu/internal/store"
)

type ExportProcessorConfig struct {
	// Interval is how often pending years are exported (default: 30s).
	Interval time.Duration

	// MaxRetries is how many failed exports of a year are retried before it
	// is dropped until the next change (default: 3).
	MaxRetries int
}

func DefaultExportProcessorConfig() ExportProcessorConfig {
	return ExportProcessorConfig{
		Interval:   30 * time.Second,
		MaxRetries: 3,
	}
}

// ExportProcessor collects ledger changes and periodically re-exports the
// years they touched. Changes outside a single year (balances, budget,
// whole-source writes) mark every year.
type ExportProcessor struct {
	summary  *SummaryService
	exporter sheets.Exporter
	config   ExportProcessorConfig
	logger   *log.Logger

	mu       sync.Mutex
	pending  map[int]int // year -> failed attempts
	allYears bool
	running  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewExportProcessor(summary *SummaryService, exporter sheets.Exporter, config ExportProcessorConfig, logger *log.Logger) *ExportProcessor {
	if config.Interval <= 0 {
		config.Interval = DefaultExportProcessorConfig().Interval
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = DefaultExportProcessorConfig().MaxRetries
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &ExportProcessor{
		summary:  summary,
		exporter: exporter,
		config:   config,
		logger:   logger.WithComponent(log.ComponentExport),
		pending:  make(map[int]int),
	}
}

// Enqueue marks the years affected by c for the next export.
func (p *ExportProcessor) Enqueue(c store.Change) {
	year, ok := changedYear(c.Path)
	p.mu.Lock()
	defer p.mu.Unlock()
	if !ok {
		p.allYears = true
		return
	}
	p.pending[year] = 0
}

// changedYear returns the year of a {source}/{year}/... path.
func changedYear(path string) (int, bool) {
	segs, err := store.Split(path)
	if err != nil || len(segs) < 2 {
		return 0, false
	}
	if _, err := core.ParseSource(segs[0]); err != nil {
		return 0, false
	}
	year, err := strconv.Atoi(segs[1])
	if err != nil {
		return 0, false
	}
	return year, true
}

// Pending lists the years waiting for export, oldest first.
func (p *ExportProcessor) Pending() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	years := make([]int, 0, len(p.pending))
	for y := range p.pending {
		years = append(years, y)
	}
	slices.Sort(years)
	return years
}

// Start begins the export loop. Returns an error if already running.
func (p *ExportProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("export processor is already running")
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	stop, done := p.stopCh, p.doneCh
	p.mu.Unlock()

	go p.runLoop(ctx, stop, done)

	p.logger.InfoContext(ctx, "Export processor started", "interval", p.config.Interval)
	return nil
}

// Stop signals the loop, waits for it, then runs a final flush.
func (p *ExportProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	// A nil stopCh means another Stop already owns the shutdown.
	if !p.running || p.stopCh == nil {
		p.mu.Unlock()
		return nil
	}
	stop, done := p.stopCh, p.doneCh
	p.stopCh = nil
	p.mu.Unlock()

	close(stop)

	select {
	case <-done:
	case <-ctx.Done():
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
		p.logger.WarnContext(ctx, "Export processor stop timed out")
		return ctx.Err()
	}

	p.mu.Lock()
	p.running = false
	p.mu.Unlock()

	p.Flush(ctx)
	p.logger.InfoContext(ctx, "Export processor stopped")
	return nil
}

func (p *ExportProcessor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *ExportProcessor) runLoop(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Flush(ctx)
		}
	}
}

// Flush exports every pending year and returns how many succeeded. Failed
// years stay pending until MaxRetries is reached.
func (p *ExportProcessor) Flush(ctx context.Context) int {
	years, err := p.take(ctx)
	if err != nil {
		p.logger.ErrorContext(ctx, "Failed to list years for export", log.FieldError, err)
		return 0
	}

	exported := 0
	for _, job := range years {
		if ctx.Err() != nil {
			p.requeue(job.year, job.attempts)
			continue
		}
		if err := p.ExportYear(ctx, job.year); err != nil {
			p.handleFailure(ctx, job, err)
			continue
		}
		exported++
	}
	return exported
}

type exportJob struct {
	year     int
	attempts int
}

func (p *ExportProcessor) take(ctx context.Context) ([]exportJob, error) {
	p.mu.Lock()
	all := p.allYears
	jobs := make([]exportJob, 0, len(p.pending))
	for y, n := range p.pending {
		jobs = append(jobs, exportJob{year: y, attempts: n})
	}
	p.pending = make(map[int]int)
	p.allYears = false
	p.mu.Unlock()

	if all {
		known, err := p.knownYears(ctx)
		if err != nil {
			p.mu.Lock()
			p.allYears = true
			for _, j := range jobs {
				p.pending[j.year] = j.attempts
			}
			p.mu.Unlock()
			return nil, err
		}
		for _, y := range known {
			if !slices.ContainsFunc(jobs, func(j exportJob) bool { return j.year == y }) {
				jobs = append(jobs, exportJob{year: y})
			}
		}
	}
	slices.SortFunc(jobs, func(a, b exportJob) int { return a.year - b.year })
	return jobs, nil
}

func (p *ExportProcessor) knownYears(ctx context.Context) ([]int, error) {
	var years []int
	for _, src := range core.Sources() {
		ys, err := p.summary.Years(ctx, src)
		if err != nil {
			return nil, err
		}
		years = append(years, ys...)
	}
	slices.Sort(years)
	return slices.Compact(years), nil
}

func (p *ExportProcessor) requeue(year, attempts int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.pending[year]; !ok {
		p.pending[year] = attempts
	}
}

func (p *ExportProcessor) handleFailure(ctx context.Context, job exportJob, err error) {
	attempt := job.attempts + 1
	p.logger.WarnContext(ctx, "Export failed",
		log.FieldYear, job.year,
		"attempt", attempt,
		log.FieldError, err)

	if attempt >= p.config.MaxRetries {
		p.logger.ErrorContext(ctx, "Export dropped after max retries",
			log.FieldYear, job.year,
			"attempts", attempt)
		return
	}
	p.requeue(job.year, attempt)
}

// ExportYear writes one year now, bypassing the queue.
func (p *ExportProcessor) ExportYear(ctx context.Context, year int) error {
	if p.exporter == nil {
		return errors.New("no exporter configured")
	}
	summary, err := p.summary.Summary(ctx, year)
	if err != nil {
		return err
	}
	report, err := p.summary.Budget(ctx, year)
	if err != nil {
		return err
	}
	rows, err := p.summary.YearIndex(ctx, year)
	if err != nil {
		return err
	}
	if err := p.exporter.ExportYear(ctx, sheets.YearExport{Year: year, Rows: rows, Summary: summary, Budget: report}); err != nil {
		return fmt.Errorf("export %d: %w", year, err)
	}
	p.logger.InfoContext(ctx, "Exported year", log.FieldYear, year, log.FieldRows, len(rows))
	return nil
}
