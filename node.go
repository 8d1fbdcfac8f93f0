package hed

import "strings"

// Span is a half-open byte interval [Start, End) into the original annotation
// string. Offsets are counted in bytes from the start of the UTF-8 source.
// Synthetic nodes (produced by definition expansion) carry the zero Span.
type Span struct {
	Start int // inclusive
	End   int // exclusive
}

// IsZero reports whether the span carries no source position.
func (s Span) IsZero() bool { return s.Start == 0 && s.End == 0 }

// Node is either a *Tag or a *Group. Node identity (pointer identity) is what
// mutation operations match on; two tags with equal text are not
// interchangeable.
type Node interface {
	// Span returns the node's position in the original string. The span is
	// set once at parse time and never mutated; rewrites go through the
	// current-text override instead.
	Span() Span
	isNode()
}

// canonical is the memoized result of resolving a tag against a schema.
type canonical struct {
	long     string // fully qualified form, schema casing + extension as typed
	shortIdx int    // offset in long where the short form begins
	extIdx   int    // offset in long where the extension begins; len(long) if none
}

// Tag is one atomic term instance in one source string.
type Tag struct {
	src      *ParsedString
	span     Span
	override string // current text when rewritten; "" means use the source span
	hasOver  bool
	canon    *canonical
}

// NewTag constructs a synthetic tag with the given text and no source span.
func NewTag(text string) *Tag {
	return &Tag{override: text, hasOver: true}
}

func (t *Tag) isNode()    {}
func (t *Tag) Span() Span { return t.span }

// Text returns the tag's current text: the override when the tag has been
// rewritten, otherwise the trimmed source slice.
func (t *Tag) Text() string {
	if t.hasOver {
		return t.override
	}
	if t.src == nil {
		return ""
	}
	return t.src.raw[t.span.Start:t.span.End]
}

// SetText rewrites the tag in place. The original span is preserved for error
// reporting. Fails closed on a frozen tree.
func (t *Tag) SetText(text string) error {
	if t.src != nil && t.src.frozen {
		return ErrImmutableTree
	}
	t.override = text
	t.hasOver = true
	t.canon = nil
	if t.src != nil {
		t.src.dirty = true
	}
	return nil
}

// Canonical returns the memoized long form and the offset of the short form
// within it. ok is false until canonicalization has run on this tag.
func (t *Tag) Canonical() (long string, shortIdx int, ok bool) {
	if t.canon == nil {
		return "", 0, false
	}
	return t.canon.long, t.canon.shortIdx, true
}

// SetCanonical memoizes the resolved forms on the tag. extIdx is the offset in
// long where the extension/value portion begins; pass len(long) when the tag
// has no extension.
func (t *Tag) SetCanonical(long string, shortIdx, extIdx int) {
	t.canon = &canonical{long: long, shortIdx: shortIdx, extIdx: extIdx}
}

// Long returns the canonical long form, or the raw text when canonicalization
// has not run or failed.
func (t *Tag) Long() string {
	if t.canon != nil {
		return t.canon.long
	}
	return t.Text()
}

// Short returns the canonical short form (leaf name plus extension), or the
// raw text when canonicalization has not run.
func (t *Tag) Short() string {
	if t.canon != nil {
		return t.canon.long[t.canon.shortIdx:]
	}
	return t.Text()
}

// Base returns the schema-recognized portion of the canonical long form,
// without any trailing extension separator.
func (t *Tag) Base() string {
	if t.canon == nil {
		return t.Text()
	}
	b := t.canon.long[:t.canon.extIdx]
	return strings.TrimSuffix(b, "/")
}

// Extension returns the extension/value portion appended beyond the
// schema-recognized path, or "" when there is none (or canonicalization has
// not run).
func (t *Tag) Extension() string {
	if t.canon == nil || t.canon.extIdx >= len(t.canon.long) {
		return ""
	}
	return t.canon.long[t.canon.extIdx:]
}

// Copy returns a detached synthetic tag with the same current text and
// memoized forms. The copy carries no source span and belongs to no tree.
func (t *Tag) Copy() *Tag {
	nt := NewTag(t.Text())
	if t.canon != nil {
		c := *t.canon
		nt.canon = &c
	}
	return nt
}

// Group is an ordered sequence of tags and nested groups.
type Group struct {
	src      *ParsedString
	span     Span
	parens   bool // parenthesized in the source; the implicit top level is not
	children []Node
}

// NewGroup constructs a synthetic parenthesized group with the given children.
func NewGroup(children ...Node) *Group {
	return &Group{parens: true, children: children}
}

func (g *Group) isNode()    {}
func (g *Group) Span() Span { return g.span }

// Parenthesized reports whether the group was written with parentheses in the
// source (or constructed as such).
func (g *Group) Parenthesized() bool { return g.parens }

// Children returns the group's direct children in source order. The returned
// slice is the group's own; callers must not modify it directly — use the
// tree's Replace/Remove.
func (g *Group) Children() []Node { return g.children }

// Tags returns the direct child tags in source order.
func (g *Group) Tags() []*Tag {
	var out []*Tag
	for _, c := range g.children {
		if t, ok := c.(*Tag); ok {
			out = append(out, t)
		}
	}
	return out
}

// Groups returns the direct child groups in source order.
func (g *Group) Groups() []*Group {
	var out []*Group
	for _, c := range g.children {
		if sg, ok := c.(*Group); ok {
			out = append(out, sg)
		}
	}
	return out
}

// Copy returns a detached deep copy of the group. All nodes in the copy are
// synthetic (no source spans, no owning tree), so copies spliced into two
// different trees never alias.
func (g *Group) Copy() *Group {
	ng := &Group{parens: g.parens}
	for _, c := range g.children {
		switch n := c.(type) {
		case *Tag:
			ng.children = append(ng.children, n.Copy())
		case *Group:
			ng.children = append(ng.children, n.Copy())
		}
	}
	return ng
}

// Walk visits every tag in the subtree in source order.
func (g *Group) Walk(fn func(*Tag)) {
	for _, c := range g.children {
		switch n := c.(type) {
		case *Tag:
			fn(n)
		case *Group:
			n.Walk(fn)
		}
	}
}

// WalkGroups visits g and every descendant group in source order.
func (g *Group) WalkGroups(fn func(*Group)) {
	fn(g)
	for _, c := range g.children {
		if sg, ok := c.(*Group); ok {
			sg.WalkGroups(fn)
		}
	}
}
