package validate_test

import (
	"testing"

	hed "github.com/hedstd/hed"
	"github.com/hedstd/hed/schema"
	"github.com/hedstd/hed/validate"
)

const testJSON = `{
  "version": "1.0.0",
  "tags": [
    {"name": "Event", "children": [
      {"name": "Category", "attributes": {"unique": "true", "required": "true"},
       "children": [
         {"name": "Sensory presentation"}
       ]},
      {"name": "Description", "attributes": {"requireChild": "true"},
       "children": [{"name": "#", "attributes": {"takesValue": "true"}}]},
      {"name": "Label",
       "children": [{"name": "#", "attributes": {"takesValue": "true"}}]}
    ]},
    {"name": "Item", "attributes": {"extensionAllowed": "true"}, "children": [
      {"name": "Object"}
    ]},
    {"name": "Attribute", "children": [
      {"name": "Duration",
       "children": [{"name": "#", "attributes": {"takesValue": "true", "unitClass": "timeUnits"}}]},
      {"name": "Recording-date",
       "children": [{"name": "#", "attributes": {"takesValue": "true", "valueClass": "dateTimeClass"}}]},
      {"name": "Onset", "attributes": {"topLevelTagGroup": "true"}},
      {"name": "Feature", "attributes": {"tagGroup": "true"}}
    ]}
  ],
  "unitClasses": [
    {"name": "timeUnits", "defaultUnit": "s", "units": [
      {"name": "s", "SIUnit": true, "unitSymbol": true},
      {"name": "second", "SIUnit": true}
    ]}
  ],
  "unitModifiers": [
    {"name": "milli"},
    {"name": "m", "symbolModifier": true}
  ]
}`

func newValidator(t *testing.T, opt validate.Options) *validate.Validator {
	t.Helper()
	sc, err := schema.LoadJSON([]byte(testJSON))
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	return validate.New(sc, opt)
}

func codes(iss hed.Issues) []string {
	out := make([]string, 0, len(iss))
	for _, it := range iss {
		out = append(out, it.Code)
	}
	return out
}

func hasCode(iss hed.Issues, code string) bool {
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

func TestCheckRaw_CharacterAndDelimiterRules(t *testing.T) {
	v := newValidator(t, validate.Options{})
	cases := []struct {
		raw  string
		code string
	}{
		{"Event, [Item]", hed.CodeInvalidCharacter},
		{`Event, "x"`, hed.CodeInvalidCharacter},
		{"a ~ b", hed.CodeTildeUnsupported},
		{"(a, b", hed.CodeParenMismatch},
		{"a,,b", hed.CodeEmptyTag},
		{"a,", hed.CodeEmptyTag},
		{",a", hed.CodeEmptyTag},
		{"(a,)", hed.CodeEmptyTag},
		{"a(b)", hed.CodeCommaMissing},
		{"(a)b", hed.CodeCommaMissing},
		{"(a)(b)", hed.CodeCommaMissing},
		{"a//b", hed.CodeExtraSlash},
		{"/a", hed.CodeExtraSlash},
		{"a/", hed.CodeExtraSlash},
	}
	for _, tc := range cases {
		iss := v.CheckRaw(tc.raw)
		if !hasCode(iss, tc.code) {
			t.Errorf("CheckRaw(%q) = %v, want %s", tc.raw, codes(iss), tc.code)
		}
	}
	if iss := v.CheckRaw("Event, (Item/Object, Event/Label/x)"); len(iss) != 0 {
		t.Errorf("clean string produced %v", codes(iss))
	}
}

func TestValidateString_AccumulatesAcrossTags(t *testing.T) {
	v := newValidator(t, validate.Options{})
	_, iss := v.ValidateString("Bogus one, Bogus two, Event")
	n := 0
	for _, it := range iss {
		if it.Code == hed.CodeNoValidTag {
			n++
		}
	}
	if n != 2 {
		t.Errorf("want 2 no_valid_tag issues, got %v", codes(iss))
	}
}

func TestCheckTag_UnitsAndValues(t *testing.T) {
	cases := []struct {
		raw      string
		warnings bool
		want     []string
	}{
		{"Attribute/Duration/3 ms", false, nil},
		{"Attribute/Duration/3 millisecond", false, nil},
		{"Attribute/Duration/3 parsecs", false, []string{hed.CodeUnitsInvalid}},
		{"Attribute/Duration/abc ms", false, []string{hed.CodeValueInvalid}},
		{"Attribute/Duration/3", true, []string{hed.CodeUnitsMissing}},
		{"Attribute/Duration/3", false, nil}, // default-unit fallback is warning tier
		{"Attribute/Recording-date/2024-01-02T10:30:00", false, nil},
		{"Attribute/Recording-date/yesterday", false, []string{hed.CodeValueInvalid}},
		{"Event/Label/anything goes", false, nil},
		{"Event/Description", false, []string{hed.CodeChildRequired}},
		{"Item/Object/Otherthing", false, nil},
		{"Event/Category/Sensory presentation/Extra", false, []string{hed.CodeTagInvalid}},
	}
	for _, tc := range cases {
		v := newValidator(t, validate.Options{CheckForWarnings: tc.warnings})
		ps, err := hed.ParseString(tc.raw)
		if err != nil {
			t.Fatalf("ParseString(%q): %v", tc.raw, err)
		}
		iss := v.CheckTag(ps.Root().Tags()[0])
		if len(iss) != len(tc.want) {
			t.Errorf("CheckTag(%q) = %v, want %v", tc.raw, codes(iss), tc.want)
			continue
		}
		for i, code := range tc.want {
			if iss[i].Code != code {
				t.Errorf("CheckTag(%q)[%d] = %s, want %s", tc.raw, i, iss[i].Code, code)
			}
		}
	}
}

func TestCheckTag_PlaceholderPlacement(t *testing.T) {
	ps, err := hed.ParseString("Event/Label/#")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	tag := ps.Root().Tags()[0]

	v := newValidator(t, validate.Options{})
	if iss := v.CheckTag(tag); !hasCode(iss, hed.CodePlaceholderMisplaced) {
		t.Errorf("placeholder outside a definition not flagged: %v", codes(iss))
	}

	ps2, _ := hed.ParseString("Event/Label/#")
	allowed := newValidator(t, validate.Options{AllowPlaceholders: true})
	if iss := allowed.CheckTag(ps2.Root().Tags()[0]); len(iss) != 0 {
		t.Errorf("allowed placeholder flagged: %v", codes(iss))
	}
}

func TestCheckTag_ExtensionWarningsAndStyle(t *testing.T) {
	v := newValidator(t, validate.Options{CheckForWarnings: true})
	ps, err := hed.ParseString("Item/Object/fast thing")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	iss := v.CheckTag(ps.Root().Tags()[0])
	if !hasCode(iss, hed.CodeTagExtended) || !hasCode(iss, hed.CodeCapitalization) {
		t.Errorf("want tag_extended and capitalization warnings, got %v", codes(iss))
	}
	if iss.HasErrors() {
		t.Errorf("style findings must stay on the warning tier: %v", iss)
	}
}

func TestCheckGroups_UniqueYieldsExactlyOneIssue(t *testing.T) {
	v := newValidator(t, validate.Options{})
	ps, err := hed.ParseString("Event/Category/Sensory presentation,Event/Category/Sensory presentation")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	iss := v.CheckTree(ps)
	n := 0
	for _, it := range iss {
		if it.Code == hed.CodeDuplicateUniqueTag {
			n++
		}
	}
	if n != 1 {
		t.Errorf("want exactly one duplicate_unique_tag, got %v", codes(iss))
	}
}

func TestCheckGroups_RequiredWarning(t *testing.T) {
	v := newValidator(t, validate.Options{CheckForWarnings: true})
	ps, err := hed.ParseString("Item/Object")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	iss := v.CheckTree(ps)
	if !hasCode(iss, hed.CodeRequiredMissing) {
		t.Errorf("missing required tag not warned: %v", codes(iss))
	}
	for _, it := range iss {
		if it.Code == hed.CodeRequiredMissing && it.Severity != hed.Warning {
			t.Errorf("required_missing must be warning tier")
		}
	}
}

func TestCheckGroups_Placement(t *testing.T) {
	v := newValidator(t, validate.Options{})

	// Onset at the bare top level: must be inside a top-level group.
	ps, _ := hed.ParseString("Attribute/Onset, Event")
	if iss := v.CheckTree(ps); !hasCode(iss, hed.CodeTopLevelOnly) {
		t.Errorf("bare top-level restricted tag not flagged: %v", codes(iss))
	}

	// Onset nested two levels down: also wrong.
	ps2, _ := hed.ParseString("((Attribute/Onset, Event))")
	if iss := v.CheckTree(ps2); !hasCode(iss, hed.CodeTopLevelOnly) {
		t.Errorf("nested restricted tag not flagged: %v", codes(iss))
	}

	// Correct placement.
	ps3, _ := hed.ParseString("(Attribute/Onset, Event)")
	if iss := v.CheckTree(ps3); hasCode(iss, hed.CodeTopLevelOnly) {
		t.Errorf("correct placement flagged: %v", codes(iss))
	}

	// tagGroup tag outside any group.
	ps4, _ := hed.ParseString("Attribute/Feature")
	if iss := v.CheckTree(ps4); !hasCode(iss, hed.CodeGroupRequired) {
		t.Errorf("ungrouped tagGroup tag not flagged: %v", codes(iss))
	}

	// Two top-level-restricted tags in one group.
	ps5, _ := hed.ParseString("(Attribute/Onset, Attribute/Onset)")
	if iss := v.CheckTree(ps5); !hasCode(iss, hed.CodeMultipleTopLevel) {
		t.Errorf("two restricted tags in one group not flagged: %v", codes(iss))
	}
}

func TestValidateString_ParseFailureStillReportsStringTier(t *testing.T) {
	v := newValidator(t, validate.Options{})
	ps, iss := v.ValidateString("(Event, [x]")
	if ps != nil {
		t.Fatalf("tree should be nil on parse failure")
	}
	if !hasCode(iss, hed.CodeUnmatchedOpenParen) || !hasCode(iss, hed.CodeInvalidCharacter) {
		t.Errorf("want parse error plus character issue, got %v", codes(iss))
	}
}
