package schema

import "strings"

// Unit is one valid measurement unit of a unit class. Symbols (ms, Hz) match
// case-sensitively; spelled-out names (millisecond) match case-insensitively.
type Unit struct {
	Name       string
	SIUnit     bool // accepts SI prefix modifiers
	UnitSymbol bool
}

// UnitClass is an ordered set of valid units with a default.
type UnitClass struct {
	Name        string
	DefaultUnit string
	Units       []Unit
}

// UnitModifier is an SI prefix (milli / m, kilo / k, ...). Symbol modifiers
// apply to unit symbols, name modifiers to spelled-out unit names.
type UnitModifier struct {
	Name           string
	SymbolModifier bool
}

// MatchUnit reports whether unit is valid for the class, given the schema's
// modifiers. SI-flagged units also accept a matching prefix modifier.
func (c *UnitClass) MatchUnit(unit string, mods []UnitModifier) bool {
	if unit == "" {
		return false
	}
	for _, u := range c.Units {
		if matchOne(u, unit) {
			return true
		}
		if !u.SIUnit {
			continue
		}
		for _, m := range mods {
			if m.SymbolModifier != u.UnitSymbol {
				continue
			}
			if len(unit) <= len(m.Name) {
				continue
			}
			// Symbol prefixes are case-sensitive like the symbols they
			// attach to; spelled-out prefixes are not.
			prefix := unit[:len(m.Name)]
			if m.SymbolModifier {
				if prefix != m.Name {
					continue
				}
			} else if !strings.EqualFold(prefix, m.Name) {
				continue
			}
			if matchOne(u, unit[len(m.Name):]) {
				return true
			}
		}
	}
	return false
}

func matchOne(u Unit, s string) bool {
	if u.UnitSymbol {
		return u.Name == s
	}
	if strings.EqualFold(u.Name, s) {
		return true
	}
	// Spelled-out names accept a simple plural.
	return strings.EqualFold(u.Name+"s", s)
}

// SplitValue separates a "number unit" value into its parts: the longest
// trailing run of non-numeric tokens is the unit candidate, the rest the
// number candidate. A value with no trailing unit returns unit == "".
func SplitValue(value string) (number, unit string) {
	v := strings.TrimSpace(value)
	i := strings.IndexAny(v, " \t")
	if i < 0 {
		return v, ""
	}
	return strings.TrimSpace(v[:i]), strings.TrimSpace(v[i+1:])
}
