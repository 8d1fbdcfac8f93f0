// Package convert resolves tags to their canonical long and short forms
// against a loaded schema.
//
// The long form is the fully qualified schema path plus any extension the
// annotator appended; the short form is the leaf name plus that extension.
// Resolution runs once per tag and is memoized on the node, so repeated
// conversion of the same tree is cheap and idempotent.
package convert

import (
	"strings"

	hed "github.com/hedstd/hed"
	"github.com/hedstd/hed/internal/tagtext"
	"github.com/hedstd/hed/schema"
)

// ToLong resolves the tag's fully qualified form. Segments are walked left to
// right; each schema-recognized segment must agree with the ancestry already
// matched, and the first unrecognized segment starts the extension/value
// portion. Failures are returned as hed.Issues and the tag is left
// unresolved.
func ToLong(t *hed.Tag, sc *schema.Schema) (string, error) {
	if long, _, ok := t.Canonical(); ok {
		return long, nil
	}
	c, err := resolveLeftToRight(t, sc)
	if err != nil {
		return "", err
	}
	t.SetCanonical(c.long, c.shortIdx, c.extIdx)
	return c.long, nil
}

// ToShort resolves the tag's short form: the leaf name plus extension.
// Segments are walked right to left; the first schema-recognized segment is
// the anchor, everything to its right the extension, and the segments to its
// left must agree with the anchor's schema ancestry.
func ToShort(t *hed.Tag, sc *schema.Schema) (string, error) {
	if long, shortIdx, ok := t.Canonical(); ok {
		return long[shortIdx:], nil
	}
	c, err := resolveRightToLeft(t, sc)
	if err != nil {
		return "", err
	}
	t.SetCanonical(c.long, c.shortIdx, c.extIdx)
	return c.long[c.shortIdx:], nil
}

type resolved struct {
	long     string
	shortIdx int
	extIdx   int
}

func resolveLeftToRight(t *hed.Tag, sc *schema.Schema) (resolved, error) {
	segs := tagtext.Segments(t.Text())
	var anchor *schema.Entry
	claimed := "" // chain of segments matched so far
	extStart := len(segs)
	for i, seg := range segs {
		e, ok := sc.ShortEntry(seg)
		if !ok {
			extStart = i
			break
		}
		if claimed == "" {
			claimed = seg
		} else {
			claimed += "/" + seg
		}
		if !tagtext.ChainMatches(e.Long, claimed) {
			return resolved{}, invalidParent(t, seg, e.Long)
		}
		anchor = e
	}
	return finish(t, sc, anchor, segs, extStart)
}

func resolveRightToLeft(t *hed.Tag, sc *schema.Schema) (resolved, error) {
	segs := tagtext.Segments(t.Text())
	var anchor *schema.Entry
	anchorIdx := -1
	for i := len(segs) - 1; i >= 0; i-- {
		if e, ok := sc.ShortEntry(segs[i]); ok {
			anchor, anchorIdx = e, i
			break
		}
	}
	if anchor == nil {
		return resolved{}, noValidTag(t)
	}
	claimed := strings.Join(segs[:anchorIdx+1], "/")
	if !tagtext.ChainMatches(anchor.Long, claimed) {
		return resolved{}, invalidParent(t, segs[anchorIdx], anchor.Long)
	}
	return finish(t, sc, anchor, segs, anchorIdx+1)
}

func finish(t *hed.Tag, sc *schema.Schema, anchor *schema.Entry, segs []string, extStart int) (resolved, error) {
	if anchor == nil {
		return resolved{}, noValidTag(t)
	}
	long := anchor.Long
	extIdx := len(long)
	if extStart < len(segs) {
		ext := strings.Join(segs[extStart:], "/")
		long += "/" + ext
		extIdx = len(anchor.Long) + 1
	}
	return resolved{
		long:     long,
		shortIdx: len(anchor.Long) - len(anchor.Short),
		extIdx:   extIdx,
	}, nil
}

func noValidTag(t *hed.Tag) error {
	return hed.Issues{hed.IssueAt(hed.CodeNoValidTag,
		"no segment of this tag is a schema term", t.Text(), t.Span())}
}

func invalidParent(t *hed.Tag, seg, actual string) error {
	iss := hed.IssueAt(hed.CodeInvalidParent,
		"tag claims a parent the schema disagrees with", t.Text(), t.Span())
	iss.Params = map[string]any{"segment": seg, "schema_path": actual}
	return hed.Issues{iss}
}

// LongString canonicalizes every tag of the parsed string to long form and
// returns the re-rendered text. Tags that fail to resolve keep their raw text
// and contribute their issues; the tree itself is not mutated.
func LongString(ps *hed.ParsedString, sc *schema.Schema) (string, hed.Issues) {
	return renderAs(ps, sc, func(t *hed.Tag) (string, error) { return ToLong(t, sc) })
}

// ShortString is LongString for the short form.
func ShortString(ps *hed.ParsedString, sc *schema.Schema) (string, hed.Issues) {
	return renderAs(ps, sc, func(t *hed.Tag) (string, error) { return ToShort(t, sc) })
}

func renderAs(ps *hed.ParsedString, sc *schema.Schema, form func(*hed.Tag) (string, error)) (string, hed.Issues) {
	var all hed.Issues
	var render func(g *hed.Group) string
	render = func(g *hed.Group) string {
		parts := make([]string, 0, len(g.Children()))
		for _, c := range g.Children() {
			switch n := c.(type) {
			case *hed.Tag:
				s, err := form(n)
				if err != nil {
					if iss, ok := hed.AsIssues(err); ok {
						all = hed.AppendIssues(all, iss...)
					}
					s = n.Text()
				}
				parts = append(parts, s)
			case *hed.Group:
				parts = append(parts, "("+render(n)+")")
			}
		}
		return strings.Join(parts, ", ")
	}
	out := render(ps.Root())
	return out, all
}
