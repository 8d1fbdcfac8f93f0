// Package pipeline ties the core stages together for one document run: parse
// and validate every row, build the definition table from every contributing
// source, expand references, strip declarations and pair onset/offset
// markers.
//
// Definition collection is a two-phase barrier: every declaration from the
// document and its sidecar strings is gathered before any expansion runs, so
// expansion never depends on input order. Rows are independent of each other
// once the table is built.
package pipeline

import (
	hed "github.com/hedstd/hed"
	"github.com/hedstd/hed/defs"
	"github.com/hedstd/hed/i18n"
	"github.com/hedstd/hed/schema"
	"github.com/hedstd/hed/temporal"
	"github.com/hedstd/hed/validate"
)

// Options configures one run.
type Options struct {
	// CheckForWarnings enables the warning tier in validation.
	CheckForWarnings bool
	// SkipTemporal disables onset/offset pairing for callers that only
	// need validated, definition-resolved rows.
	SkipTemporal bool
	// Localize renders every issue message through the i18n translator
	// before the result is returned.
	Localize bool
}

// RowResult is the outcome for one input row.
type RowResult struct {
	Row    int
	Tree   *hed.ParsedString // nil when the row failed to parse
	Issues hed.Issues
}

// Result is the outcome of one document run.
type Result struct {
	Rows      []RowResult
	Intervals []temporal.Interval
	// Defs is the table built from every contributing source.
	Defs *defs.Table
	// Global carries issues not attached to a single row: definition
	// extraction findings, sidecar findings and end-of-sequence dangling
	// onsets.
	Global hed.Issues
}

// HasErrors reports whether any tier anywhere in the run produced an
// error-tier issue.
func (r Result) HasErrors() bool {
	if r.Global.HasErrors() {
		return true
	}
	for _, row := range r.Rows {
		if row.Issues.HasErrors() {
			return true
		}
	}
	return false
}

// Run processes one document. rows are the assembled per-row annotation
// strings; sidecar carries the extra strings (categorical values and
// templates) that contribute definitions and may use placeholders.
func Run(sc *schema.Schema, rows []string, sidecar []string, opt Options) Result {
	rowValidator := validate.New(sc, validate.Options{CheckForWarnings: opt.CheckForWarnings})
	sidecarValidator := validate.New(sc, validate.Options{
		CheckForWarnings:  opt.CheckForWarnings,
		AllowPlaceholders: true,
	})

	res := Result{}

	// Phase one: parse everything and collect every declaration.
	var contributing []*hed.ParsedString
	for _, raw := range sidecar {
		ps, iss := sidecarValidator.ValidateString(raw)
		res.Global = hed.AppendIssues(res.Global, iss...)
		if ps != nil {
			contributing = append(contributing, ps)
		}
	}
	for i, raw := range rows {
		ps, iss := rowValidator.ValidateString(raw)
		res.Rows = append(res.Rows, RowResult{Row: i, Tree: ps, Issues: iss})
		if ps != nil {
			contributing = append(contributing, ps)
		}
	}
	table, defIss := defs.Extract(sc, contributing...)
	res.Defs = table
	res.Global = hed.AppendIssues(res.Global, defIss...)

	// Phase two: expand references row by row, then strip declarations so
	// the interval pass never sees them.
	for i := range res.Rows {
		if res.Rows[i].Tree == nil {
			continue
		}
		expIss := defs.Expand(res.Rows[i].Tree, table)
		res.Rows[i].Issues = hed.AppendIssues(res.Rows[i].Issues, expIss...)
	}
	for i := range res.Rows {
		if res.Rows[i].Tree == nil {
			continue
		}
		_, remIss := defs.RemoveDeclarations(res.Rows[i].Tree)
		res.Rows[i].Issues = hed.AppendIssues(res.Rows[i].Issues, remIss...)
	}

	if !opt.SkipTemporal {
		tracker := temporal.NewTracker()
		for i := range res.Rows {
			if res.Rows[i].Tree == nil {
				continue
			}
			stepIss := tracker.Step(res.Rows[i].Row, res.Rows[i].Tree)
			res.Rows[i].Issues = hed.AppendIssues(res.Rows[i].Issues, stepIss...)
		}
		intervals, finIss := tracker.Finish()
		res.Intervals = intervals
		res.Global = hed.AppendIssues(res.Global, finIss...)
	}

	if opt.Localize {
		res.Global = i18n.Localize(res.Global)
		for i := range res.Rows {
			res.Rows[i].Issues = i18n.Localize(res.Rows[i].Issues)
		}
	}
	return res
}
