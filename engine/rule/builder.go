package rule

import (
	"errors"
	"strings"
	"time"

	"github.com/notecraft/notecraft/engine/core"
	"github.com/notecraft/notecraft/engine/expr"
	"github.com/notecraft/notecraft/pkg/keynorm"
)

// valuePlaceholder is the single substitution point a rule template may carry.
const valuePlaceholder = "{{val}}"

// DefaultSeparator is the dashed line emitted by separator rules with a blank
// template.
const DefaultSeparator = "----------"

// Options carries the immutable per-run configuration of the note builder.
// The zero value renders dates in UTC with the default separator.
type Options struct {
	// Location anchors date formatting (MM/DD/YY is timezone-sensitive).
	Location *time.Location
	// Separator overrides DefaultSeparator for blank separator templates.
	Separator string
}

func (o *Options) location() *time.Location {
	if o == nil || o.Location == nil {
		return time.UTC
	}
	return o.Location
}

func (o *Options) separator() string {
	if o == nil || strings.TrimSpace(o.Separator) == "" {
		return DefaultSeparator
	}
	return o.Separator
}

// BuildNote interprets the rule table, in order, against one record and
// returns the rendered note: completed lines joined by newlines. An empty
// result means "no annotation" and callers clear any existing one.
//
// The builder keeps one mutable line buffer. Non-breaking rules accumulate
// onto it; separator rules and BreakAfter flush it. A rule whose value is
// blank contributes nothing, except that an explicit BreakAfter still closes
// out prior content.
func BuildNote(rec core.Record, rules []Rule, opts *Options) string {
	var lines []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
	}

	for _, r := range rules {
		if r.Format == FormatSeparator {
			flush()
			sep := r.Template
			if strings.TrimSpace(sep) == "" {
				sep = opts.separator()
			}
			lines = append(lines, sep)
			continue
		}

		cell := resolveValue(r.Expression, rec)
		if cell.IsEmpty() {
			if r.BreakAfter {
				flush()
			}
			continue
		}

		segment := formatValue(cell, r.Format, opts.location())
		if r.Template != "" {
			segment = strings.Replace(r.Template, valuePlaceholder, segment, 1)
		}
		current.WriteString(segment)
		if r.BreakAfter {
			flush()
		}
	}
	flush()
	return strings.Join(lines, "\n")
}

// resolveValue turns a rule expression into a cell: formulas go through the
// arithmetic evaluator, anything else is a direct normalized-key lookup. Any
// failure, including a panic out of a malformed rule, reads as blank so one
// bad rule never aborts the note.
func resolveValue(expression string, rec core.Record) (cell core.CellValue) {
	defer func() {
		if recover() != nil {
			cell = core.Empty()
		}
	}()
	if expr.HasPlaceholder(expression) {
		v, err := expr.Evaluate(expression, rec)
		if err != nil {
			return core.Empty()
		}
		return core.Number(v)
	}
	return rec.Get(keynorm.Normalize(expression))
}

// lintExpression dry-runs a formula against an empty record so Lint can
// surface parse errors. Non-finite results are fine here; only syntax counts.
func lintExpression(expression string) string {
	if !expr.HasPlaceholder(expression) {
		return ""
	}
	_, err := expr.Evaluate(expression, core.Record{})
	if err != nil && !errors.Is(err, expr.ErrNonFinite) {
		return "expression does not parse: " + err.Error()
	}
	return ""
}
