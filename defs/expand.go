package defs

import (
	"strings"

	hed "github.com/hedstd/hed"
	"github.com/hedstd/hed/internal/tagtext"
)

// Expand rewrites every Def/Name reference in the tree into a
// (Def-expand/Name[/value], (contents)) group, substituting the placeholder
// with the reference's value. A reference is the Def tag alone, or the tag
// plus its attached group — a parenthesized group holding exactly the tag
// and one child group, the same shape a declaration has; the whole unit is
// removed and the expansion group spliced in its place. A reference that
// cannot be expanded (unknown name, placeholder mismatch) is reported and
// left untouched in place so the original text stays inspectable.
//
// Each expansion splices in a fresh deep copy of the table's contents, so
// expanding the same definition into two trees never aliases nodes between
// them.
func Expand(ps *hed.ParsedString, tb *Table) hed.Issues {
	var iss hed.Issues
	type rewrite struct {
		old     *hed.Tag
		sibling *hed.Group // attached group consumed with the reference
		new     *hed.Group
	}
	var rewrites []rewrite

	ps.Root().WalkGroups(func(g *hed.Group) {
		children := g.Children()
		for i, c := range children {
			t, isTag := c.(*hed.Tag)
			if !isTag {
				continue
			}
			rest, ok := tagtext.AnchorRest(t.Text(), anchorDef)
			if !ok {
				continue
			}
			name, value := tagtext.NameValue(rest)
			e := tb.Get(name)
			if e == nil {
				it := hed.IssueAt(hed.CodeUndefinedDef,
					"reference to a definition that was never declared", t.Text(), t.Span())
				it.Params = map[string]any{"name": name}
				iss = hed.AppendIssues(iss, it)
				continue
			}
			if e.TakesValue && value == "" {
				iss = hed.AppendIssues(iss, hed.IssueAt(hed.CodePlaceholderMissing,
					"definition takes a value but the reference supplies none", t.Text(), t.Span()))
				continue
			}
			if !e.TakesValue && value != "" {
				iss = hed.AppendIssues(iss, hed.IssueAt(hed.CodePlaceholderExtra,
					"definition takes no value but the reference supplies one", t.Text(), t.Span()))
				continue
			}
			rw := rewrite{old: t, new: expansionGroup(e, name, value)}
			if g.Parenthesized() && len(children) == 2 {
				other := children[1-i]
				if sg, isGroup := other.(*hed.Group); isGroup {
					rw.sibling = sg
				}
			}
			rewrites = append(rewrites, rw)
		}
	})

	for _, rw := range rewrites {
		if err := ps.Replace(rw.old, rw.new); err != nil {
			iss = hed.AppendIssues(iss, mutationIssue(err, rw.old.Text(), rw.old.Span()))
			continue
		}
		if rw.sibling != nil {
			if err := ps.Remove(rw.sibling); err != nil {
				iss = hed.AppendIssues(iss, mutationIssue(err, rw.old.Text(), rw.sibling.Span()))
			}
		}
	}
	return iss
}

// expansionGroup builds (Def-expand/name[/value], (contents)) with the
// placeholder substituted. The name keeps the reference's casing so that
// contraction reproduces the reference text.
func expansionGroup(e *Entry, name, value string) *hed.Group {
	text := anchorDefExpand + "/" + name
	if value != "" {
		text += "/" + value
	}
	children := []hed.Node{hed.NewTag(text)}
	if e.Contents != nil {
		contents := e.Contents.Copy()
		if value != "" {
			contents.Walk(func(t *hed.Tag) {
				if strings.Contains(t.Text(), "#") {
					_ = t.SetText(strings.Replace(t.Text(), "#", value, 1))
				}
			})
		}
		children = append(children, contents)
	}
	return hed.NewGroup(children...)
}

// Contract is the inverse of Expand: every (Def-expand/Name[/value], ...)
// group collapses back to the bare Def/Name[/value] reference tag.
// Contract(Expand(t)) == t for any tree of lone references with no
// pre-existing expansions.
func Contract(ps *hed.ParsedString) hed.Issues {
	var iss hed.Issues
	type rewrite struct {
		old *hed.Group
		new *hed.Tag
	}
	var rewrites []rewrite

	ps.Root().WalkGroups(func(g *hed.Group) {
		for _, sg := range g.Groups() {
			for _, t := range sg.Tags() {
				rest, ok := tagtext.AnchorRest(t.Text(), anchorDefExpand)
				if !ok {
					continue
				}
				name, value := tagtext.NameValue(rest)
				if name == "" {
					iss = hed.AppendIssues(iss, hed.IssueAt(hed.CodeMalformedDefinition,
						"expanded definition group has no name", t.Text(), sg.Span()))
					break
				}
				text := anchorDef + "/" + name
				if value != "" {
					text += "/" + value
				}
				rewrites = append(rewrites, rewrite{old: sg, new: hed.NewTag(text)})
				break
			}
		}
	})

	for _, rw := range rewrites {
		if err := ps.Replace(rw.old, rw.new); err != nil {
			iss = hed.AppendIssues(iss, mutationIssue(err, rw.new.Text(), rw.old.Span()))
		}
	}
	return iss
}

// mutationIssue surfaces a Replace/Remove sentinel failure as an error-tier
// issue; rewrites must never vanish silently.
func mutationIssue(err error, tag string, sp hed.Span) hed.Issue {
	return hed.IssueAt(hed.CodeMutationFailed, err.Error(), tag, sp)
}
