package tagtext

import (
	"reflect"
	"testing"
)

func TestSegments(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"Event/Category", []string{"Event", "Category"}},
		{" a / b ", []string{"a", "b"}},
		{"a//b", []string{"a", "", "b"}},
		{"solo", []string{"solo"}},
	}
	for _, tc := range cases {
		if got := Segments(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Segments(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestAnchorRest(t *testing.T) {
	if rest, ok := AnchorRest("Def/Name/3", "Def"); !ok || rest != "Name/3" {
		t.Errorf("AnchorRest short form = %q, %v", rest, ok)
	}
	if rest, ok := AnchorRest("Property/Organizational/Def/Name", "def"); !ok || rest != "Name" {
		t.Errorf("AnchorRest long form = %q, %v", rest, ok)
	}
	if _, ok := AnchorRest("Def-expand/Name", "Def"); ok {
		t.Errorf("Def-expand must not match the Def anchor")
	}
}

func TestNameValue(t *testing.T) {
	if n, v := NameValue("Speed/30/60"); n != "Speed" || v != "30/60" {
		t.Errorf("NameValue = %q, %q", n, v)
	}
	if n, v := NameValue("Blink"); n != "Blink" || v != "" {
		t.Errorf("NameValue = %q, %q", n, v)
	}
}

func TestChainMatches(t *testing.T) {
	if !ChainMatches("Event/Category/Sensory presentation", "category/sensory presentation") {
		t.Errorf("suffix chain should match")
	}
	if ChainMatches("Event/Subcategory", "category") {
		t.Errorf("matches must respect segment boundaries")
	}
}
