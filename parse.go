package hed

import "strings"

// ParsedString is the tree produced by parsing one annotation string: the
// implicit top-level group plus the original source text for span-based
// extraction.
type ParsedString struct {
	raw    string // source with newlines normalized to spaces
	root   *Group
	frozen bool
	dirty  bool // set whenever the tree no longer mirrors the source text
}

// ParseString parses a raw annotation string into a tree of tag and group
// nodes. It performs a single left-to-right scan tracking a stack of open
// groups. Unmatched parentheses are fatal to the string and returned as
// Issues; no tree is produced.
//
// Newlines in the source are normalized to spaces before scanning, so byte
// offsets reported on issues are unchanged by the normalization.
func ParseString(raw string) (*ParsedString, error) {
	norm := normalizeNewlines(raw)
	ps := &ParsedString{raw: norm}
	root := &Group{src: ps, span: Span{0, len(norm)}}
	ps.root = root

	stack := []*Group{root}
	first, last := -1, -1 // trimmed extent of the tag run in progress

	flush := func() {
		if first < 0 {
			return
		}
		top := stack[len(stack)-1]
		top.children = append(top.children, &Tag{src: ps, span: Span{first, last + 1}})
		first, last = -1, -1
	}

	for i := 0; i < len(norm); i++ {
		switch c := norm[i]; c {
		case '(':
			flush()
			top := stack[len(stack)-1]
			g := &Group{src: ps, span: Span{i, len(norm)}, parens: true}
			top.children = append(top.children, g)
			stack = append(stack, g)
		case ')':
			flush()
			if len(stack) == 1 {
				return nil, Issues{IssueAt(CodeUnmatchedCloseParen,
					"closing parenthesis with no open group", ")", Span{i, i + 1})}
			}
			stack[len(stack)-1].span.End = i + 1
			stack = stack[:len(stack)-1]
		case ',':
			flush()
		case ' ', '\t':
			// whitespace never starts or extends a tag span
		default:
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	flush()
	if len(stack) > 1 {
		open := stack[len(stack)-1]
		return nil, Issues{IssueAt(CodeUnmatchedOpenParen,
			"group opened here is never closed", "(", Span{open.span.Start, open.span.Start + 1})}
	}
	return ps, nil
}

// normalizeNewlines maps CR and LF to single spaces so that byte offsets are
// preserved. CRLF becomes two spaces for the same reason.
func normalizeNewlines(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	b := []byte(s)
	for i, c := range b {
		if c == '\r' || c == '\n' {
			b[i] = ' '
		}
	}
	return string(b)
}

// Raw returns the (newline-normalized) source text the tree was parsed from.
func (ps *ParsedString) Raw() string { return ps.raw }

// Root returns the implicit top-level group.
func (ps *ParsedString) Root() *Group { return ps.root }

// Freeze marks the tree read-only. Subsequent mutations fail with
// ErrImmutableTree.
func (ps *ParsedString) Freeze() { ps.frozen = true }

// Frozen reports whether the tree has been frozen.
func (ps *ParsedString) Frozen() bool { return ps.frozen }

// Format renders the tree back to string form. For a tree that has not been
// mutated this is exactly the source text; after mutation the tree is
// re-rendered with canonical ", " delimiters.
func (ps *ParsedString) Format() string {
	if !ps.dirty {
		return ps.raw
	}
	return formatChildren(ps.root)
}

func formatChildren(g *Group) string {
	parts := make([]string, 0, len(g.children))
	for _, c := range g.children {
		switch n := c.(type) {
		case *Tag:
			parts = append(parts, n.Text())
		case *Group:
			parts = append(parts, "("+formatChildren(n)+")")
		}
	}
	return strings.Join(parts, ", ")
}

// Replace finds old by identity among the direct children of any group in the
// tree and splices repl in its place. It fails with ErrImmutableTree on a
// frozen tree and ErrNodeNotFound when old is not in the tree.
func (ps *ParsedString) Replace(old Node, repl ...Node) error {
	if ps.frozen {
		return ErrImmutableTree
	}
	parent, idx := ps.locate(old)
	if parent == nil {
		return ErrNodeNotFound
	}
	adopt(ps, repl)
	out := make([]Node, 0, len(parent.children)-1+len(repl))
	out = append(out, parent.children[:idx]...)
	out = append(out, repl...)
	out = append(out, parent.children[idx+1:]...)
	parent.children = out
	ps.dirty = true
	return nil
}

// Remove prunes each given node from its parent, matching by identity, and
// recursively removes any parenthesized group left with zero children. Nodes
// not found in the tree are reported with ErrNodeNotFound; found nodes are
// still removed.
func (ps *ParsedString) Remove(nodes ...Node) error {
	if ps.frozen {
		return ErrImmutableTree
	}
	doomed := make(map[Node]bool, len(nodes))
	for _, n := range nodes {
		doomed[n] = true
	}
	removed := 0
	var prune func(g *Group)
	prune = func(g *Group) {
		kept := g.children[:0]
		for _, c := range g.children {
			if doomed[c] {
				removed++
				continue
			}
			if sg, ok := c.(*Group); ok {
				prune(sg)
				if len(sg.children) == 0 {
					continue
				}
			}
			kept = append(kept, c)
		}
		g.children = kept
	}
	prune(ps.root)
	ps.dirty = true
	if removed != len(doomed) {
		return ErrNodeNotFound
	}
	return nil
}

// locate returns the group directly containing n and n's index within it.
func (ps *ParsedString) locate(n Node) (*Group, int) {
	var found *Group
	idx := -1
	ps.root.WalkGroups(func(g *Group) {
		if found != nil {
			return
		}
		for i, c := range g.children {
			if c == n {
				found, idx = g, i
				return
			}
		}
	})
	return found, idx
}

// adopt attaches synthetic nodes to this tree so later frozen checks and
// dirty tracking see them.
func adopt(ps *ParsedString, nodes []Node) {
	for _, c := range nodes {
		switch n := c.(type) {
		case *Tag:
			n.src = ps
		case *Group:
			n.src = ps
			adopt(ps, n.children)
		}
	}
}
