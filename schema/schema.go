// Package schema loads a HED schema description and builds the immutable
// lookup index the rest of the library resolves tags against: short↔long name
// maps, per-tag attributes, unit classes and unit modifiers.
//
// A Schema is built once at load time and is read-only thereafter; it is safe
// to share by reference across any number of concurrent validations.
package schema

import (
	"errors"
	"sort"
	"strings"
)

// ErrMalformed is wrapped by every load-time failure caused by the schema
// source itself (as opposed to I/O).
var ErrMalformed = errors.New("schema: malformed source")

// Attribute names a property the schema assigns to a tag node.
type Attribute string

const (
	AttrRequired         Attribute = "required"
	AttrUnique           Attribute = "unique"
	AttrTakesValue       Attribute = "takesValue"
	AttrRequireChild     Attribute = "requireChild"
	AttrTopLevelTagGroup Attribute = "topLevelTagGroup"
	AttrTagGroup         Attribute = "tagGroup"
	AttrExtensionAllowed Attribute = "extensionAllowed"
	AttrUnitClass        Attribute = "unitClass"
	AttrValueClass       Attribute = "valueClass"
)

// Entry is one tag node of the loaded hierarchy.
type Entry struct {
	Long  string // fully qualified path, schema casing
	Short string // final path segment

	TakesValue       bool
	RequireChild     bool
	Required         bool
	Unique           bool
	TopLevelTagGroup bool
	TagGroup         bool
	ExtensionAllowed bool // includes inheritance from ancestors

	UnitClasses  []string
	ValueClasses []string
	DefaultUnits string
}

// Attributes returns the entry's properties as a set, the shape external
// compliance reporting consumes.
func (e *Entry) Attributes() []Attribute {
	var out []Attribute
	if e.Required {
		out = append(out, AttrRequired)
	}
	if e.Unique {
		out = append(out, AttrUnique)
	}
	if e.TakesValue {
		out = append(out, AttrTakesValue)
	}
	if e.RequireChild {
		out = append(out, AttrRequireChild)
	}
	if e.TopLevelTagGroup {
		out = append(out, AttrTopLevelTagGroup)
	}
	if e.TagGroup {
		out = append(out, AttrTagGroup)
	}
	if e.ExtensionAllowed {
		out = append(out, AttrExtensionAllowed)
	}
	if len(e.UnitClasses) > 0 {
		out = append(out, AttrUnitClass)
	}
	if len(e.ValueClasses) > 0 {
		out = append(out, AttrValueClass)
	}
	return out
}

// Ambiguity reports one short name claimed by more than one long path.
type Ambiguity struct {
	Name  string
	Longs []string
}

// Schema is the loaded, immutable tag hierarchy index.
type Schema struct {
	version       string
	byLong        map[string]*Entry   // lower-cased long path → entry
	byShort       map[string][]*Entry // lower-cased short name → entries
	unitClasses   map[string]*UnitClass
	unitModifiers []UnitModifier
	hasDuplicates bool
	required      []*Entry
	unique        []*Entry
}

// Version returns the schema's declared version string.
func (s *Schema) Version() string { return s.version }

// HasDuplicates reports whether any short name maps to more than one long
// path. Short-form resolution for such names fails closed.
func (s *Schema) HasDuplicates() bool { return s.hasDuplicates }

// ResolveShort looks a short name up case-insensitively and returns its long
// path. ok is false both when the name is unknown and when it is ambiguous;
// ambiguity is reported through AmbiguousShortNames, never guessed here.
func (s *Schema) ResolveShort(name string) (long string, ok bool) {
	e, ok := s.ShortEntry(name)
	if !ok {
		return "", false
	}
	return e.Long, true
}

// ShortEntry is ResolveShort returning the full entry.
func (s *Schema) ShortEntry(name string) (*Entry, bool) {
	es := s.byShort[strings.ToLower(strings.TrimSpace(name))]
	if len(es) != 1 {
		return nil, false
	}
	return es[0], true
}

// HasShort reports whether any schema node, ambiguous or not, claims the
// short name.
func (s *Schema) HasShort(name string) bool {
	return len(s.byShort[strings.ToLower(strings.TrimSpace(name))]) > 0
}

// AmbiguousShortNames returns every short name mapped to more than one long
// path, sorted by name, for schema-compliance reporting.
func (s *Schema) AmbiguousShortNames() []Ambiguity {
	var out []Ambiguity
	for name, es := range s.byShort {
		if len(es) < 2 {
			continue
		}
		a := Ambiguity{Name: name}
		for _, e := range es {
			a.Longs = append(a.Longs, e.Long)
		}
		sort.Strings(a.Longs)
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// EntryByLong looks a long path up case-insensitively.
func (s *Schema) EntryByLong(long string) (*Entry, bool) {
	e, ok := s.byLong[strings.ToLower(long)]
	return e, ok
}

// TagAttributes returns every attribute the schema assigns to the node at
// long, including attributes inherited from ancestors (extensionAllowed
// propagates down the hierarchy). Returns nil for an unknown path.
func (s *Schema) TagAttributes(long string) []Attribute {
	e, ok := s.EntryByLong(long)
	if !ok {
		return nil
	}
	return e.Attributes()
}

// UnitClass returns the named unit class, or nil when unknown.
func (s *Schema) UnitClass(name string) *UnitClass {
	return s.unitClasses[strings.ToLower(name)]
}

// UnitModifiers returns the schema's SI prefix modifiers.
func (s *Schema) UnitModifiers() []UnitModifier { return s.unitModifiers }

// RequiredTags returns the entries carrying the required attribute.
func (s *Schema) RequiredTags() []*Entry { return s.required }

// UniqueTags returns the entries carrying the unique attribute.
func (s *Schema) UniqueTags() []*Entry { return s.unique }
