package validate

import (
	"strings"
	"unicode"

	hed "github.com/hedstd/hed"
	"github.com/hedstd/hed/convert"
	"github.com/hedstd/hed/internal/tagtext"
	"github.com/hedstd/hed/schema"
)

// CheckTag runs the tag-level tier on one tag: canonicalization, schema
// existence, unit and value classes, require-child leaves, placeholder
// placement and the capitalization style warning.
func (v *Validator) CheckTag(t *hed.Tag) hed.Issues {
	return v.checkTag(t, v.opt.AllowPlaceholders)
}

func (v *Validator) checkTag(t *hed.Tag, allowPlaceholders bool) hed.Issues {
	var iss hed.Issues
	text := t.Text()

	if strings.Contains(text, "#") && !allowPlaceholders {
		iss = hed.AppendIssues(iss, hed.IssueAt(hed.CodePlaceholderMisplaced,
			"placeholder is only allowed inside a definition", text, t.Span()))
	}

	if _, err := convert.ToLong(t, v.sc); err != nil {
		// Unresolved tags are reported and excused from semantic checks;
		// the rest of the string still gets validated.
		if cIss, ok := hed.AsIssues(err); ok {
			iss = hed.AppendIssues(iss, cIss...)
		}
		return iss
	}

	entry, ok := v.sc.EntryByLong(t.Base())
	if !ok {
		return iss
	}
	ext := t.Extension()

	switch {
	case ext == "":
		if entry.RequireChild || entry.TakesValue {
			iss = hed.AppendIssues(iss, hed.IssueAt(hed.CodeChildRequired,
				"tag requires a child or value and is used as a leaf", text, t.Span()))
		}
	case entry.TakesValue:
		iss = hed.AppendIssues(iss, v.checkValue(t, entry, ext, allowPlaceholders)...)
	case entry.ExtensionAllowed:
		if v.opt.CheckForWarnings {
			iss = hed.AppendIssues(iss, hed.WarnAt(hed.CodeTagExtended,
				"tag extends the schema hierarchy", text, t.Span()))
			iss = hed.AppendIssues(iss, checkCapitalization(t, ext)...)
		}
	default:
		iss = hed.AppendIssues(iss, hed.IssueAt(hed.CodeTagInvalid,
			"tag is not in the schema and may not be extended", text, t.Span()))
	}
	return iss
}

// checkValue validates the value portion of a takes-value tag against the
// entry's unit classes, or its value classes when it has no unit class.
func (v *Validator) checkValue(t *hed.Tag, entry *schema.Entry, value string, allowPlaceholders bool) hed.Issues {
	if value == "#" && allowPlaceholders {
		return nil
	}
	if len(entry.UnitClasses) > 0 {
		return v.checkUnits(t, entry, value)
	}
	if len(entry.ValueClasses) > 0 {
		for _, vc := range entry.ValueClasses {
			if matchValueClass(vc, value) {
				return nil
			}
		}
		iss := hed.IssueAt(hed.CodeValueInvalid,
			"value does not satisfy any value class of this tag", t.Text(), t.Span())
		iss.Params = map[string]any{"value": value, "value_classes": entry.ValueClasses}
		return hed.Issues{iss}
	}
	// Free text values are unconstrained beyond the character rules.
	return nil
}

func (v *Validator) checkUnits(t *hed.Tag, entry *schema.Entry, value string) hed.Issues {
	num, unit := schema.SplitValue(value)
	if unit == "" {
		if !isNumeric(num) {
			return hed.Issues{hed.IssueAt(hed.CodeValueInvalid,
				"value is not a number", t.Text(), t.Span())}
		}
		if !v.opt.CheckForWarnings {
			return nil
		}
		iss := hed.WarnAt(hed.CodeUnitsMissing,
			"bare number; the unit class default unit is assumed", t.Text(), t.Span())
		iss.Params = map[string]any{"default_units": v.defaultUnits(entry)}
		return hed.Issues{iss}
	}
	matched := false
	for _, name := range entry.UnitClasses {
		if uc := v.sc.UnitClass(name); uc != nil && uc.MatchUnit(unit, v.sc.UnitModifiers()) {
			matched = true
			break
		}
	}
	if !matched {
		iss := hed.IssueAt(hed.CodeUnitsInvalid,
			"unit is not valid for this tag's unit classes", t.Text(), t.Span())
		iss.Params = map[string]any{"unit": unit, "unit_classes": entry.UnitClasses}
		return hed.Issues{iss}
	}
	if !isNumeric(num) {
		return hed.Issues{hed.IssueAt(hed.CodeValueInvalid,
			"value is not a number", t.Text(), t.Span())}
	}
	return nil
}

func (v *Validator) defaultUnits(entry *schema.Entry) string {
	if entry.DefaultUnits != "" {
		return entry.DefaultUnits
	}
	for _, name := range entry.UnitClasses {
		if uc := v.sc.UnitClass(name); uc != nil && uc.DefaultUnit != "" {
			return uc.DefaultUnit
		}
	}
	return ""
}

// checkCapitalization warns when an extension segment does not start with an
// uppercase letter or digit. Style only, never an error.
func checkCapitalization(t *hed.Tag, ext string) hed.Issues {
	var iss hed.Issues
	for _, seg := range tagtext.Segments(ext) {
		if seg == "" {
			continue
		}
		r := []rune(seg)[0]
		if unicode.IsLetter(r) && !unicode.IsUpper(r) {
			iss = hed.AppendIssues(iss, hed.WarnAt(hed.CodeCapitalization,
				"extension segment should start with a capital letter", seg, t.Span()))
		}
	}
	return iss
}
