// Package temporal pairs Onset and Offset markers referencing the same named
// definition into start/end intervals over a sequence of annotated rows.
//
// Rows must have definition declarations removed (defs.RemoveDeclarations)
// before being fed to a Tracker; declarations are not events.
package temporal

import (
	"sort"
	"strings"

	hed "github.com/hedstd/hed"
	"github.com/hedstd/hed/internal/tagtext"
)

const (
	anchorOnset     = "Onset"
	anchorOffset    = "Offset"
	anchorDef       = "Def"
	anchorDefExpand = "Def-expand"
)

// Interval is one paired onset/offset record. Rows are half-open: the event
// is open from Start up to but not including End.
type Interval struct {
	Name     string
	Start    int
	End      int        // -1 while the interval is still open
	Contents *hed.Group // captured at onset time; nil when the onset had none
}

// Tracker is the shared state machine across one row sequence. One name has
// at most one open interval at a time.
type Tracker struct {
	open      map[string]*Interval
	completed []Interval
}

// NewTracker returns a Tracker with no open intervals.
func NewTracker() *Tracker {
	return &Tracker{open: map[string]*Interval{}}
}

// Step processes row's top-level Onset/Offset groups.
//
// An Offset with no open interval of the same name is an error attached to
// this row. An Onset for a name that is already open closes the prior
// interval at this row, opens a fresh one, and surfaces the condition as a
// warning so callers can see the re-trigger.
func (tr *Tracker) Step(row int, ps *hed.ParsedString) hed.Issues {
	var iss hed.Issues
	for _, g := range ps.Root().Groups() {
		marker, ok := temporalMarker(g)
		if !ok {
			continue
		}
		name, nameOK := defName(g)
		if !nameOK {
			iss = hed.AppendIssues(iss, hed.IssueAt(hed.CodeTemporalNoDef,
				"temporal group carries no definition reference", marker, g.Span()))
			continue
		}
		key := strings.ToLower(name)
		switch {
		case strings.EqualFold(marker, anchorOnset):
			if prev, isOpen := tr.open[key]; isOpen {
				prev.End = row
				tr.completed = append(tr.completed, *prev)
				it := hed.WarnAt(hed.CodeOnsetReopened,
					"onset re-triggered while the prior interval was still open", name, g.Span())
				it.Params = map[string]any{"prior_start": prev.Start, "row": row}
				iss = hed.AppendIssues(iss, it)
			}
			tr.open[key] = &Interval{Name: name, Start: row, End: -1, Contents: onsetContents(g)}
		default: // Offset
			prev, isOpen := tr.open[key]
			if !isOpen {
				it := hed.IssueAt(hed.CodeUnmatchedOffset,
					"offset with no matching open onset", name, g.Span())
				it.Params = map[string]any{"row": row}
				iss = hed.AppendIssues(iss, it)
				continue
			}
			prev.End = row
			tr.completed = append(tr.completed, *prev)
			delete(tr.open, key)
		}
	}
	return iss
}

// Finish reports the completed intervals in start order. Names still open at
// the end of the sequence are reported as dangling; whether that blocks
// acceptance is the caller's policy, so the issues are on the warning tier.
func (tr *Tracker) Finish() ([]Interval, hed.Issues) {
	var iss hed.Issues
	names := make([]string, 0, len(tr.open))
	for k := range tr.open {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		iv := tr.open[k]
		it := hed.WarnAt(hed.CodeUnmatchedOnset,
			"onset is never closed by an offset", iv.Name, hed.Span{})
		it.Params = map[string]any{"start": iv.Start}
		iss = hed.AppendIssues(iss, it)
	}
	out := append([]Interval(nil), tr.completed...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, iss
}

// Open returns the intervals still open, sorted by name, for callers that
// want the dangling contents.
func (tr *Tracker) Open() []Interval {
	out := make([]Interval, 0, len(tr.open))
	for _, iv := range tr.open {
		out = append(out, *iv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// temporalMarker returns "Onset" or "Offset" when the group directly contains
// that marker tag.
func temporalMarker(g *hed.Group) (string, bool) {
	for _, t := range g.Tags() {
		for _, anchor := range [...]string{anchorOnset, anchorOffset} {
			if rest, ok := tagtext.AnchorRest(t.Text(), anchor); ok && rest == "" {
				return anchor, true
			}
		}
	}
	return "", false
}

// defName extracts the linking name from the group's Def reference tag or its
// nested Def-expand group.
func defName(g *hed.Group) (string, bool) {
	for _, t := range g.Tags() {
		if rest, ok := tagtext.AnchorRest(t.Text(), anchorDef); ok {
			name, _ := tagtext.NameValue(rest)
			return name, name != ""
		}
	}
	for _, sg := range g.Groups() {
		for _, t := range sg.Tags() {
			if rest, ok := tagtext.AnchorRest(t.Text(), anchorDefExpand); ok {
				name, _ := tagtext.NameValue(rest)
				return name, name != ""
			}
		}
	}
	return "", false
}

// onsetContents captures the onset group's payload: everything except the
// marker tag and the definition reference, deep-copied so later mutation of
// the row tree never reaches the record.
func onsetContents(g *hed.Group) *hed.Group {
	var kept []hed.Node
	for _, c := range g.Children() {
		switch n := c.(type) {
		case *hed.Tag:
			if isMarkerOrDef(n) {
				continue
			}
			kept = append(kept, n.Copy())
		case *hed.Group:
			if hasDefExpand(n) {
				continue
			}
			kept = append(kept, n.Copy())
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return hed.NewGroup(kept...)
}

func isMarkerOrDef(t *hed.Tag) bool {
	for _, anchor := range [...]string{anchorOnset, anchorOffset, anchorDef} {
		if _, ok := tagtext.AnchorRest(t.Text(), anchor); ok {
			return true
		}
	}
	return false
}

func hasDefExpand(g *hed.Group) bool {
	for _, t := range g.Tags() {
		if _, ok := tagtext.AnchorRest(t.Text(), anchorDefExpand); ok {
			return true
		}
	}
	return false
}
