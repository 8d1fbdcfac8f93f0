// Package validate runs the syntactic and semantic rule sets over annotation
// strings and their parsed trees.
//
// Three independent tiers compose per call: string-level checks on the raw
// text (characters, parentheses, delimiters, slash formatting), tag-level
// checks on each canonicalized tag (schema existence, units, value classes,
// placeholders) and group-level checks across the whole string (placement,
// uniqueness, required tags). Every check accumulates issues; nothing stops
// at the first failure.
package validate

import (
	hed "github.com/hedstd/hed"
	"github.com/hedstd/hed/internal/tagtext"
	"github.com/hedstd/hed/schema"
)

// Options configures a Validator.
type Options struct {
	// CheckForWarnings enables the warning tier (capitalization style,
	// extension notices, missing required tags, default-unit fallbacks).
	CheckForWarnings bool
	// AllowPlaceholders permits the '#' token, which is only legal inside
	// definition declarations and sidecar templates.
	AllowPlaceholders bool
}

// Validator runs rule tiers against one loaded schema. It is stateless across
// calls and safe for concurrent use.
type Validator struct {
	sc  *schema.Schema
	opt Options
}

// New builds a Validator bound to a schema.
func New(sc *schema.Schema, opt Options) *Validator {
	return &Validator{sc: sc, opt: opt}
}

// ValidateString runs every tier over one raw annotation string. When the
// string cannot be parsed the returned tree is nil and the issues contain the
// parse error alongside any string-level findings; other strings in a batch
// are unaffected.
func (v *Validator) ValidateString(raw string) (*hed.ParsedString, hed.Issues) {
	iss := v.CheckRaw(raw)
	ps, err := hed.ParseString(raw)
	if err != nil {
		if parseIss, ok := hed.AsIssues(err); ok {
			iss = hed.AppendIssues(iss, parseIss...)
		}
		return nil, iss
	}
	iss = hed.AppendIssues(iss, v.CheckTree(ps)...)
	return ps, iss
}

// CheckTree runs the tag and group tiers over an already-parsed string.
// Tags inside a definition declaration group are checked with placeholders
// permitted regardless of the validator's own option; the '#' slot is legal
// there and nowhere else.
func (v *Validator) CheckTree(ps *hed.ParsedString) hed.Issues {
	var iss hed.Issues
	for _, c := range ps.Root().Children() {
		switch n := c.(type) {
		case *hed.Tag:
			iss = hed.AppendIssues(iss, v.checkTag(n, v.opt.AllowPlaceholders)...)
		case *hed.Group:
			allow := v.opt.AllowPlaceholders || isDeclaration(n)
			n.Walk(func(t *hed.Tag) {
				iss = hed.AppendIssues(iss, v.checkTag(t, allow)...)
			})
		}
	}
	iss = hed.AppendIssues(iss, v.checkGroups(ps)...)
	return iss
}

// isDeclaration reports whether the group directly contains a Definition tag.
func isDeclaration(g *hed.Group) bool {
	for _, t := range g.Tags() {
		if _, ok := tagtext.AnchorRest(t.Text(), "Definition"); ok {
			return true
		}
	}
	return false
}
