// Package memory keeps exports in process, for development without Google
// credentials and for tests.
package memory

import (
	"context"
	"sync"

	"gagyebu/internal/export/sheets"
)

type Exporter struct {
	mu      sync.Mutex
	sheets  map[int][][]any
	exports int
}

var _ sheets.Exporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{sheets: make(map[int][][]any)}
}

func (e *Exporter) ExportYear(_ context.Context, x sheets.YearExport) error {
	rows := sheets.BuildRows(x)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sheets[x.Year] = rows
	e.exports++
	return nil
}

// Rows returns the last rows written for year.
func (e *Exporter) Rows(year int) ([][]any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	rows, ok := e.sheets[year]
	return rows, ok
}

// Exports counts ExportYear calls.
func (e *Exporter) Exports() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exports
}
