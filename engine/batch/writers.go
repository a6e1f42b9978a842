package batch

import (
	"context"
	"encoding/csv"
	"os"
	"sync"

	"github.com/notecraft/notecraft/engine/core"
)

// -----------------------------------------------------------------------------
// Memory Writer
// -----------------------------------------------------------------------------

// MemoryWriter collects results in memory, keyed by group. It backs previews
// and tests; concurrent group writes are last-writer-wins per group.
type MemoryWriter struct {
	mu     sync.Mutex
	groups map[string][]Result
	order  []string
}

func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{groups: make(map[string][]Result)}
}

func (w *MemoryWriter) WriteGroup(_ context.Context, group string, results []Result) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, seen := w.groups[group]; !seen {
		w.order = append(w.order, group)
	}
	stored := make([]Result, len(results))
	copy(stored, results)
	w.groups[group] = stored
	return nil
}

// Group returns the last write for a group, or nil when it was never written.
func (w *MemoryWriter) Group(name string) []Result {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.groups[name]
}

// Groups lists written group names in first-write order.
func (w *MemoryWriter) Groups() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.order))
	copy(out, w.order)
	return out
}

// -----------------------------------------------------------------------------
// CSV Writer
// -----------------------------------------------------------------------------

// CSVWriter streams results to a CSV file with group, rid and note columns.
// Cleared annotations write an empty note column. Close flushes the file.
type CSVWriter struct {
	mu   sync.Mutex
	file *os.File
	csv  *csv.Writer
}

func NewCSVWriter(path string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, core.NewError(err, core.ErrCodeWriteFailed, map[string]any{"path": path})
	}
	w := &CSVWriter{file: f, csv: csv.NewWriter(f)}
	if err := w.csv.Write([]string{"group", "rid", "note"}); err != nil {
		f.Close()
		return nil, core.NewError(err, core.ErrCodeWriteFailed, map[string]any{"path": path})
	}
	return w, nil
}

func (w *CSVWriter) WriteGroup(_ context.Context, group string, results []Result) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, r := range results {
		note := ""
		if r.Note != nil {
			note = *r.Note
		}
		if err := w.csv.Write([]string{group, r.RID, note}); err != nil {
			return core.NewError(err, core.ErrCodeWriteFailed, map[string]any{"group": group})
		}
	}
	w.csv.Flush()
	return w.csv.Error()
}

func (w *CSVWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}
