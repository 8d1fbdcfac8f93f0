package validate

import (
	"strings"

	hed "github.com/hedstd/hed"
	"github.com/hedstd/hed/schema"
)

// checkGroups runs the group- and string-level tier: placement restrictions,
// one top-level-restricted tag per group, uniqueness across the string and
// required tags.
func (v *Validator) checkGroups(ps *hed.ParsedString) hed.Issues {
	var iss hed.Issues
	var all []*hed.Tag

	var walk func(g *hed.Group, depth int)
	walk = func(g *hed.Group, depth int) {
		topLevelRestricted := 0
		for _, c := range g.Children() {
			switch n := c.(type) {
			case *hed.Tag:
				all = append(all, n)
				entry, ok := v.entryFor(n)
				if !ok {
					continue
				}
				if entry.TopLevelTagGroup {
					topLevelRestricted++
					if !g.Parenthesized() || depth != 1 {
						iss = hed.AppendIssues(iss, hed.IssueAt(hed.CodeTopLevelOnly,
							"tag must be in a group directly at the top level", n.Text(), n.Span()))
					}
				}
				if entry.TagGroup && !g.Parenthesized() {
					iss = hed.AppendIssues(iss, hed.IssueAt(hed.CodeGroupRequired,
						"tag must be inside a parenthesized group", n.Text(), n.Span()))
				}
			case *hed.Group:
				walk(n, depth+1)
			}
		}
		if topLevelRestricted > 1 {
			g2 := hed.IssueAt(hed.CodeMultipleTopLevel,
				"more than one top-level-restricted tag in one group", "", g.Span())
			g2.Params = map[string]any{"count": topLevelRestricted}
			iss = hed.AppendIssues(iss, g2)
		}
	}
	walk(ps.Root(), 0)

	iss = hed.AppendIssues(iss, v.checkUnique(all)...)
	if v.opt.CheckForWarnings {
		iss = hed.AppendIssues(iss, v.checkRequired(all)...)
	}
	return iss
}

func (v *Validator) entryFor(t *hed.Tag) (*schema.Entry, bool) {
	if _, _, ok := t.Canonical(); !ok {
		return nil, false
	}
	return v.sc.EntryByLong(t.Base())
}

// checkUnique emits exactly one issue per unique-attributed schema tag that
// occurs more than once in the string, matching by long-form prefix.
func (v *Validator) checkUnique(all []*hed.Tag) hed.Issues {
	var iss hed.Issues
	for _, u := range v.sc.UniqueTags() {
		var matches []*hed.Tag
		for _, t := range all {
			if hasPrefixPath(t.Long(), u.Long) {
				matches = append(matches, t)
			}
		}
		if len(matches) > 1 {
			it := hed.IssueAt(hed.CodeDuplicateUniqueTag,
				"unique tag appears more than once", matches[1].Text(), matches[1].Span())
			it.Params = map[string]any{"tag": u.Long, "count": len(matches)}
			iss = hed.AppendIssues(iss, it)
		}
	}
	return iss
}

// checkRequired warns for each required schema tag absent from the string.
func (v *Validator) checkRequired(all []*hed.Tag) hed.Issues {
	var iss hed.Issues
	for _, r := range v.sc.RequiredTags() {
		found := false
		for _, t := range all {
			if hasPrefixPath(t.Long(), r.Long) {
				found = true
				break
			}
		}
		if !found {
			it := hed.WarnAt(hed.CodeRequiredMissing,
				"required tag is missing from the string", r.Long, hed.Span{})
			iss = hed.AppendIssues(iss, it)
		}
	}
	return iss
}

// hasPrefixPath reports whether long starts with prefix on a segment
// boundary, case-insensitively.
func hasPrefixPath(long, prefix string) bool {
	l := strings.ToLower(long)
	p := strings.ToLower(prefix)
	return l == p || strings.HasPrefix(l, p+"/")
}
