// Package batch drives the note engine across many target groups, merging the
// two loaded sources per record, injecting derived fields and handing rendered
// notes to a writer. It owns every pacing, retry and summary concern so the
// engine underneath stays pure.
package batch

import (
	"context"
	"fmt"
	"time"

	"dario.cat/mergo"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/notecraft/notecraft/engine/core"
	"github.com/notecraft/notecraft/engine/rule"
	"github.com/notecraft/notecraft/engine/table"
	"github.com/notecraft/notecraft/pkg/logger"
)

// Group is one ordered slice of the target collection, typically the accounts
// of a single owner. Writes are last-writer-wins at this granularity.
type Group struct {
	Name string
	RIDs []string
}

// Result is the outcome for one record. A nil Note clears any existing
// annotation; a missing record produces no Result at all.
type Result struct {
	RID  string
	Note *string
}

// NoteWriter persists one group's rendered notes. Implementations are the
// external collaborator boundary; the orchestrator retries transient
// failures.
type NoteWriter interface {
	WriteGroup(ctx context.Context, group string, results []Result) error
}

// Options is the immutable per-run configuration, constructed once by the
// caller and threaded through explicitly.
type Options struct {
	// ParentAccountKey is the normalized field holding the grouping key for
	// the derived active group count.
	ParentAccountKey string
	// GroupPause yields between groups so large batches stay inside host
	// execution quotas.
	GroupPause time.Duration
	// RetryAttempts caps write retries per group.
	RetryAttempts uint64
	// RetryBase seeds the exponential backoff between write attempts.
	RetryBase time.Duration
	// Rule configures note rendering (reference timezone, separator text).
	Rule rule.Options
}

// DefaultOptions returns the options used when the caller passes nil.
func DefaultOptions() *Options {
	return &Options{
		ParentAccountKey: "parentaccount",
		RetryAttempts:    2,
		RetryBase:        200 * time.Millisecond,
	}
}

// Merge overlays non-zero fields of other onto o.
func (o *Options) Merge(other *Options) error {
	if other == nil {
		return nil
	}
	return mergo.Merge(o, other, mergo.WithOverride)
}

// Summary is the user-visible outcome of a run: counts plus explicit warnings
// for anything that degraded along the way.
type Summary struct {
	RunID          string   `json:"run_id"`
	Groups         int      `json:"groups"`
	RecordsScanned int      `json:"records_scanned"`
	RecordsUpdated int      `json:"records_updated"`
	Warnings       []string `json:"warnings,omitempty"`
}

// Orchestrator binds the loaded sources, rule table and writer for one run.
// All state is read-only after construction.
type Orchestrator struct {
	primary   *table.Table
	secondary *table.Table
	counts    map[string]int
	rules     []rule.Rule
	writer    NoteWriter
	opts      Options
}

// New wires an orchestrator. counts comes from table.CountByColumn over the
// parent-account column; secondary may be nil when only one source exists.
func New(
	primary *table.Table,
	secondary *table.Table,
	counts map[string]int,
	rules []rule.Rule,
	writer NoteWriter,
	opts *Options,
) *Orchestrator {
	resolved := DefaultOptions()
	if opts != nil {
		// Merge failures cannot happen for plain option structs; fall back to
		// defaults if they ever do.
		if err := resolved.Merge(opts); err != nil {
			resolved = DefaultOptions()
		}
	}
	return &Orchestrator{
		primary:   primary,
		secondary: secondary,
		counts:    counts,
		rules:     rules,
		writer:    writer,
		opts:      *resolved,
	}
}

// Run processes every group in stable input order. Records absent from both
// sources are skipped without touching their annotation. Per-record failures
// degrade to warnings; only writer exhaustion aborts the run.
func (o *Orchestrator) Run(ctx context.Context, groups []Group) (*Summary, error) {
	log := logger.FromContext(ctx)
	summary := &Summary{RunID: uuid.NewString()}
	if len(groups) == 0 {
		summary.Warnings = append(summary.Warnings, "no target groups to process")
		log.Warn("Batch run is a no-op", "run_id", summary.RunID, "reason", "empty target set")
		return summary, nil
	}
	for i, group := range groups {
		results := o.buildGroup(group, summary)
		if err := o.writeGroup(ctx, group.Name, results); err != nil {
			return summary, core.NewError(err, core.ErrCodeWriteFailed, map[string]any{
				"group":  group.Name,
				"run_id": summary.RunID,
			})
		}
		summary.Groups++
		log.Info("Group processed",
			"run_id", summary.RunID,
			"group", group.Name,
			"records", len(group.RIDs),
			"written", len(results),
		)
		if o.opts.GroupPause > 0 && i < len(groups)-1 {
			if err := pause(ctx, o.opts.GroupPause); err != nil {
				return summary, err
			}
		}
	}
	return summary, nil
}

// PreviewRecord runs the exact per-record path of Run for a single RID and
// reports whether the record exists in either source. Preview and batch share
// noteFor so the two can never diverge.
func (o *Orchestrator) PreviewRecord(rid string) (*string, bool) {
	return o.noteFor(rid)
}

func (o *Orchestrator) buildGroup(group Group, summary *Summary) []Result {
	results := make([]Result, 0, len(group.RIDs))
	for _, rid := range group.RIDs {
		summary.RecordsScanned++
		note, found := o.noteFor(rid)
		if !found {
			summary.Warnings = append(summary.Warnings,
				fmt.Sprintf("group %s: RID %s not present in any source", group.Name, rid))
			continue
		}
		if note != nil {
			summary.RecordsUpdated++
		}
		results = append(results, Result{RID: rid, Note: note})
	}
	return results
}

// noteFor merges the two sources for one RID (secondary overrides primary),
// injects the derived group count and renders the note. A nil note with
// found=true means "clear the annotation".
func (o *Orchestrator) noteFor(rid string) (*string, bool) {
	prim := o.primary.Get(rid)
	sec := o.secondary.Get(rid)
	if prim == nil && sec == nil {
		return nil, false
	}
	rec := core.MergeRecords(prim, sec)
	rec[core.FieldActiveGroupCount] = core.Number(float64(o.activeGroupCount(rec)))
	note := rule.BuildNote(rec, o.rules, &o.opts.Rule)
	if note == "" {
		return nil, true
	}
	return &note, true
}

// activeGroupCount reads the record's parent account and returns how many
// records share it. A record with no parent, or a parent seen zero times,
// still covers itself and counts as 1.
func (o *Orchestrator) activeGroupCount(rec core.Record) int {
	parent := rec.Get(o.opts.ParentAccountKey)
	if parent.IsEmpty() {
		return 1
	}
	if c := o.counts[parent.String()]; c > 0 {
		return c
	}
	return 1
}

func (o *Orchestrator) writeGroup(ctx context.Context, group string, results []Result) error {
	if o.opts.RetryAttempts == 0 {
		return o.writer.WriteGroup(ctx, group, results)
	}
	backoff := retry.WithMaxRetries(o.opts.RetryAttempts, retry.NewExponential(o.opts.RetryBase))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := o.writer.WriteGroup(ctx, group, results); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

// pause is the cooperative yield point between groups.
func pause(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
