package schema

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// XML wire form, matching the layout HED schemas are published in upstream:
// a <schema> of nested <node> elements plus unit class and unit modifier
// definition sections.

type xmlRoot struct {
	XMLName       xml.Name          `xml:"HED"`
	Version       string            `xml:"version,attr"`
	Nodes         []xmlNode         `xml:"schema>node"`
	UnitClasses   []xmlUnitClass    `xml:"unitClassDefinitions>unitClassDefinition"`
	UnitModifiers []xmlUnitModifier `xml:"unitModifierDefinitions>unitModifierDefinition"`
}

type xmlNode struct {
	Name       string         `xml:"name"`
	Attributes []xmlAttribute `xml:"attribute"`
	Nodes      []xmlNode      `xml:"node"`
}

type xmlAttribute struct {
	Name   string   `xml:"name"`
	Values []string `xml:"value"`
}

type xmlUnitClass struct {
	Name       string         `xml:"name"`
	Units      []xmlUnit      `xml:"unit"`
	Attributes []xmlAttribute `xml:"attribute"`
}

type xmlUnit struct {
	Name       string         `xml:"name"`
	Attributes []xmlAttribute `xml:"attribute"`
}

type xmlUnitModifier struct {
	Name       string         `xml:"name"`
	Attributes []xmlAttribute `xml:"attribute"`
}

// LoadXML parses the XML wire form of a schema description and builds the
// index.
func LoadXML(data []byte) (*Schema, error) {
	var root xmlRoot
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	doc := schemaDoc{Version: root.Version}
	for _, n := range root.Nodes {
		doc.Tags = append(doc.Tags, xmlToTagDoc(n))
	}
	for _, uc := range root.UnitClasses {
		d := unitClassDoc{Name: uc.Name, DefaultUnit: attrValue(uc.Attributes, "defaultUnits")}
		for _, u := range uc.Units {
			d.Units = append(d.Units, unitDoc{
				Name:       u.Name,
				SIUnit:     hasAttr(u.Attributes, "SIUnit"),
				UnitSymbol: hasAttr(u.Attributes, "unitSymbol"),
			})
		}
		doc.UnitClasses = append(doc.UnitClasses, d)
	}
	for _, um := range root.UnitModifiers {
		doc.UnitModifiers = append(doc.UnitModifiers, unitModifierDoc{
			Name:           um.Name,
			SymbolModifier: hasAttr(um.Attributes, "SIUnitSymbolModifier"),
		})
	}
	return build(&doc)
}

func xmlToTagDoc(n xmlNode) tagDoc {
	d := tagDoc{Name: strings.TrimSpace(n.Name)}
	if len(n.Attributes) > 0 {
		d.Attributes = map[string]string{}
		for _, a := range n.Attributes {
			d.Attributes[a.Name] = strings.Join(a.Values, ",")
		}
	}
	for _, c := range n.Nodes {
		d.Children = append(d.Children, xmlToTagDoc(c))
	}
	return d
}

func hasAttr(attrs []xmlAttribute, name string) bool {
	for _, a := range attrs {
		if strings.EqualFold(a.Name, name) {
			return true
		}
	}
	return false
}

func attrValue(attrs []xmlAttribute, name string) string {
	for _, a := range attrs {
		if strings.EqualFold(a.Name, name) && len(a.Values) > 0 {
			return a.Values[0]
		}
	}
	return ""
}
