package schema

import (
	"fmt"
	"strings"
)

// schemaDoc is the wire-neutral intermediate every load path converges on.
// The JSON and YAML forms decode into it directly; the XML form is converted
// by load_xml.go.
type schemaDoc struct {
	Version       string            `json:"version" yaml:"version"`
	Tags          []tagDoc          `json:"tags" yaml:"tags"`
	UnitClasses   []unitClassDoc    `json:"unitClasses,omitempty" yaml:"unitClasses,omitempty"`
	UnitModifiers []unitModifierDoc `json:"unitModifiers,omitempty" yaml:"unitModifiers,omitempty"`
}

// tagDoc is one node of the declared hierarchy. Attribute values are strings:
// "" or "true" for boolean attributes, a comma-separated list for valued ones
// (unitClass, valueClass).
type tagDoc struct {
	Name       string            `json:"name" yaml:"name"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Children   []tagDoc          `json:"children,omitempty" yaml:"children,omitempty"`
}

type unitClassDoc struct {
	Name        string    `json:"name" yaml:"name"`
	DefaultUnit string    `json:"defaultUnit" yaml:"defaultUnit"`
	Units       []unitDoc `json:"units" yaml:"units"`
}

type unitDoc struct {
	Name       string `json:"name" yaml:"name"`
	SIUnit     bool   `json:"SIUnit,omitempty" yaml:"SIUnit,omitempty"`
	UnitSymbol bool   `json:"unitSymbol,omitempty" yaml:"unitSymbol,omitempty"`
}

type unitModifierDoc struct {
	Name           string `json:"name" yaml:"name"`
	SymbolModifier bool   `json:"symbolModifier,omitempty" yaml:"symbolModifier,omitempty"`
}

// build constructs the immutable index from the intermediate form.
func build(doc *schemaDoc) (*Schema, error) {
	s := &Schema{
		version:     doc.Version,
		byLong:      map[string]*Entry{},
		byShort:     map[string][]*Entry{},
		unitClasses: map[string]*UnitClass{},
	}
	for i := range doc.Tags {
		if err := s.addNode(&doc.Tags[i], "", false); err != nil {
			return nil, err
		}
	}
	for _, uc := range doc.UnitClasses {
		if uc.Name == "" {
			return nil, fmt.Errorf("%w: unit class with empty name", ErrMalformed)
		}
		c := &UnitClass{Name: uc.Name, DefaultUnit: uc.DefaultUnit}
		for _, u := range uc.Units {
			if u.Name == "" {
				return nil, fmt.Errorf("%w: unit class %q has a unit with empty name", ErrMalformed, uc.Name)
			}
			c.Units = append(c.Units, Unit{Name: u.Name, SIUnit: u.SIUnit, UnitSymbol: u.UnitSymbol})
		}
		s.unitClasses[strings.ToLower(uc.Name)] = c
	}
	for _, um := range doc.UnitModifiers {
		if um.Name == "" {
			return nil, fmt.Errorf("%w: unit modifier with empty name", ErrMalformed)
		}
		s.unitModifiers = append(s.unitModifiers, UnitModifier{Name: um.Name, SymbolModifier: um.SymbolModifier})
	}
	return s, nil
}

// addNode registers one hierarchy node and recurses into its children.
// A child named "#" is a value slot, not a node: it marks the parent as
// takes-value and contributes its unitClass/valueClass attributes to it.
func (s *Schema) addNode(n *tagDoc, parentLong string, inheritedExt bool) error {
	name := strings.TrimSpace(n.Name)
	if name == "" {
		return fmt.Errorf("%w: tag node with empty name under %q", ErrMalformed, parentLong)
	}
	if name == "#" {
		return fmt.Errorf("%w: value slot %q must be a child, not a root", ErrMalformed, parentLong+"/#")
	}
	if strings.Contains(name, "/") {
		return fmt.Errorf("%w: tag name %q contains a path separator", ErrMalformed, name)
	}

	long := name
	if parentLong != "" {
		long = parentLong + "/" + name
	}
	e := &Entry{Long: long, Short: name}
	applyAttributes(e, n.Attributes)
	e.ExtensionAllowed = e.ExtensionAllowed || inheritedExt

	for i := range n.Children {
		c := &n.Children[i]
		if strings.TrimSpace(c.Name) == "#" {
			e.TakesValue = true
			applyAttributes(e, c.Attributes)
			continue
		}
		if err := s.addNode(c, long, e.ExtensionAllowed); err != nil {
			return err
		}
	}

	lowLong := strings.ToLower(long)
	if _, dup := s.byLong[lowLong]; dup {
		return fmt.Errorf("%w: duplicate long path %q", ErrMalformed, long)
	}
	s.byLong[lowLong] = e

	lowShort := strings.ToLower(name)
	s.byShort[lowShort] = append(s.byShort[lowShort], e)
	if len(s.byShort[lowShort]) > 1 {
		s.hasDuplicates = true
	}
	if e.Required {
		s.required = append(s.required, e)
	}
	if e.Unique {
		s.unique = append(s.unique, e)
	}
	return nil
}

func applyAttributes(e *Entry, attrs map[string]string) {
	for k, v := range attrs {
		switch Attribute(k) {
		case AttrTakesValue:
			e.TakesValue = boolAttr(v)
		case AttrRequireChild:
			e.RequireChild = boolAttr(v)
		case AttrRequired:
			e.Required = boolAttr(v)
		case AttrUnique:
			e.Unique = boolAttr(v)
		case AttrTopLevelTagGroup:
			e.TopLevelTagGroup = boolAttr(v)
		case AttrTagGroup:
			e.TagGroup = boolAttr(v)
		case AttrExtensionAllowed:
			e.ExtensionAllowed = boolAttr(v)
		case AttrUnitClass:
			e.UnitClasses = append(e.UnitClasses, splitList(v)...)
		case AttrValueClass:
			e.ValueClasses = append(e.ValueClasses, splitList(v)...)
		case Attribute("defaultUnits"):
			e.DefaultUnits = strings.TrimSpace(v)
		}
		// Unknown attributes are ignored: schemas evolve faster than tools.
	}
}

func boolAttr(v string) bool {
	return v == "" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
