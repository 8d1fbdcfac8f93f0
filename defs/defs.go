// Package defs implements the definition subsystem: extraction of named,
// reusable tag groups from declaration strings, expansion and contraction of
// references to them, and removal of declarations before temporal
// processing.
//
// A declaration is a top-level group of the shape
//
//	(Definition/Name, (contents))
//	(Definition/Name/#, (contents with one #))
//
// and a reference is a Def/Name or Def/Name/value tag anywhere in a string.
// Expansion rewrites a reference into a (Def-expand/Name, (contents)) group
// with the placeholder substituted; contraction is the inverse.
package defs

import (
	"sort"
	"strings"

	hed "github.com/hedstd/hed"
	"github.com/hedstd/hed/internal/tagtext"
	"github.com/hedstd/hed/schema"
)

const (
	anchorDefinition = "Definition"
	anchorDef        = "Def"
	anchorDefExpand  = "Def-expand"
)

// Entry is one extracted definition.
type Entry struct {
	Name       string     // as declared
	TakesValue bool       // declared with a trailing /# slot
	Contents   *hed.Group // detached; nil for an empty definition
}

// Table maps case-insensitive definition names to entries. It is built once
// by Extract and read-only during expansion.
type Table struct {
	entries map[string]*Entry
}

// NewTable returns an empty table.
func NewTable() *Table { return &Table{entries: map[string]*Entry{}} }

// Get looks a name up case-insensitively.
func (tb *Table) Get(name string) *Entry {
	return tb.entries[strings.ToLower(name)]
}

// Names returns the declared names, sorted.
func (tb *Table) Names() []string {
	out := make([]string, 0, len(tb.entries))
	for _, e := range tb.entries {
		out = append(out, e.Name)
	}
	sort.Strings(out)
	return out
}

// Extract scans every tree's top-level groups for declarations and collects
// them into a table. All contributing sources (document and sidecar strings)
// must be passed to one Extract call before any expansion runs, or expansion
// becomes input-order-dependent. sc may be nil to skip the shadow check.
func Extract(sc *schema.Schema, trees ...*hed.ParsedString) (*Table, hed.Issues) {
	tb := NewTable()
	var iss hed.Issues
	for _, ps := range trees {
		for _, g := range ps.Root().Groups() {
			entry, gIss := parseDeclaration(g)
			iss = hed.AppendIssues(iss, gIss...)
			if entry == nil {
				continue
			}
			if sc != nil && sc.HasShort(entry.Name) {
				iss = hed.AppendIssues(iss, hed.IssueAt(hed.CodeDefinitionShadowsSchema,
					"definition name collides with a schema term", entry.Name, g.Span()))
				continue
			}
			if tb.Get(entry.Name) != nil {
				iss = hed.AppendIssues(iss, hed.IssueAt(hed.CodeDuplicateDefinition,
					"definition is declared more than once", entry.Name, g.Span()))
				continue
			}
			tb.entries[strings.ToLower(entry.Name)] = entry
		}
	}
	return tb, iss
}

// parseDeclaration returns the entry for a declaration group, nil plus issues
// for a malformed one, and nil with no issues for a group that is not a
// declaration at all.
func parseDeclaration(g *hed.Group) (*Entry, hed.Issues) {
	var defTags []*hed.Tag
	var strays []*hed.Tag
	for _, t := range g.Tags() {
		if _, ok := tagtext.AnchorRest(t.Text(), anchorDefinition); ok {
			defTags = append(defTags, t)
		} else {
			strays = append(strays, t)
		}
	}
	if len(defTags) == 0 {
		return nil, nil
	}
	malformed := func(msg string) (*Entry, hed.Issues) {
		return nil, hed.Issues{hed.IssueAt(hed.CodeMalformedDefinition, msg, defTags[0].Text(), g.Span())}
	}
	if len(defTags) > 1 {
		return malformed("more than one Definition tag in one declaration")
	}
	if len(strays) > 0 {
		return malformed("stray tag at the declaration level")
	}
	rest, _ := tagtext.AnchorRest(defTags[0].Text(), anchorDefinition)
	name, value := tagtext.NameValue(rest)
	if name == "" {
		return malformed("definition has no name")
	}
	if value != "" && value != "#" {
		return malformed("definition name may only be followed by a # slot")
	}
	takesValue := value == "#"

	groups := g.Groups()
	if len(groups) > 1 {
		return malformed("more than one contents group in one declaration")
	}
	var contents *hed.Group
	placeholders := 0
	if len(groups) == 1 {
		contents = groups[0].Copy()
		contents.Walk(func(t *hed.Tag) {
			placeholders += strings.Count(t.Text(), "#")
		})
	}
	if takesValue && placeholders != 1 {
		return malformed("definition declared with # must use the placeholder exactly once")
	}
	if !takesValue && placeholders != 0 {
		return malformed("definition without a # slot must not use the placeholder")
	}
	return &Entry{Name: name, TakesValue: takesValue, Contents: contents}, nil
}

// RemoveDeclarations strips declaration groups (never references) out of each
// tree in place and returns the groups actually removed. Row sequences must
// have declarations removed before onset/offset pairing. A tree whose
// declarations cannot be removed (frozen) is reported and left intact.
func RemoveDeclarations(trees ...*hed.ParsedString) ([]*hed.Group, hed.Issues) {
	var out []*hed.Group
	var iss hed.Issues
	for _, ps := range trees {
		var found []*hed.Group
		var doomed []hed.Node
		for _, g := range ps.Root().Groups() {
			for _, t := range g.Tags() {
				if _, ok := tagtext.AnchorRest(t.Text(), anchorDefinition); ok {
					found = append(found, g)
					doomed = append(doomed, g)
					break
				}
			}
		}
		if len(doomed) == 0 {
			continue
		}
		if err := ps.Remove(doomed...); err != nil {
			iss = hed.AppendIssues(iss, mutationIssue(err, "", found[0].Span()))
			continue
		}
		out = append(out, found...)
	}
	return out, iss
}
