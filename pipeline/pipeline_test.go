package pipeline_test

import (
	"testing"

	hed "github.com/hedstd/hed"
	"github.com/hedstd/hed/pipeline"
	"github.com/hedstd/hed/schema"
)

const testJSON = `{
  "version": "1.0.0",
  "tags": [
    {"name": "Event"},
    {"name": "Eye"},
    {"name": "Rate",
     "children": [{"name": "#", "attributes": {"takesValue": "true"}}]},
    {"name": "Definition", "attributes": {"topLevelTagGroup": "true"},
     "children": [{"name": "#", "attributes": {"takesValue": "true"}}]},
    {"name": "Def",
     "children": [{"name": "#", "attributes": {"takesValue": "true"}}]},
    {"name": "Def-expand",
     "children": [{"name": "#", "attributes": {"takesValue": "true"}}]},
    {"name": "Onset", "attributes": {"topLevelTagGroup": "true"}},
    {"name": "Offset", "attributes": {"topLevelTagGroup": "true"}}
  ]
}`

func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	sc, err := schema.LoadJSON([]byte(testJSON))
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	return sc
}

func TestRun_FullDocument(t *testing.T) {
	sc := testSchema(t)
	sidecar := []string{
		"(Definition/Blink, (Eye))",
		"(Definition/Speed/#, (Rate/# mph))",
	}
	rows := []string{
		"(Onset, Def/Blink), Event",
		"Def/Speed/30",
		"(Offset, Def/Blink)",
	}
	res := pipeline.Run(sc, rows, sidecar, pipeline.Options{})
	if res.HasErrors() {
		for _, row := range res.Rows {
			t.Logf("row %d: %v", row.Row, row.Issues)
		}
		t.Fatalf("unexpected errors; global: %v", res.Global)
	}
	if got := res.Defs.Names(); len(got) != 2 {
		t.Fatalf("definition table = %v", got)
	}
	if len(res.Intervals) != 1 {
		t.Fatalf("intervals = %+v, want one", res.Intervals)
	}
	iv := res.Intervals[0]
	if iv.Name != "Blink" || iv.Start != 0 || iv.End != 2 {
		t.Errorf("interval = %+v, want Blink [0,2)", iv)
	}
	if got := res.Rows[1].Tree.Format(); got != "(Def-expand/Speed/30, (Rate/30 mph))" {
		t.Errorf("row 1 after expansion = %q", got)
	}
}

func TestRun_RowIssuesStayOnTheirRow(t *testing.T) {
	sc := testSchema(t)
	rows := []string{
		"Def/Nowhere",
		"(Offset, Def/Ghost)",
		"Event",
	}
	res := pipeline.Run(sc, rows, nil, pipeline.Options{})
	if !res.HasErrors() {
		t.Fatalf("expected errors")
	}
	wantRowCode := map[int]string{
		0: hed.CodeUndefinedDef,
		1: hed.CodeUnmatchedOffset,
	}
	for row, code := range wantRowCode {
		found := false
		for _, it := range res.Rows[row].Issues {
			if it.Code == code {
				found = true
			}
		}
		if !found {
			t.Errorf("row %d: want %s, got %v", row, code, res.Rows[row].Issues)
		}
	}
	if len(res.Rows[2].Issues) != 0 {
		t.Errorf("clean row picked up issues: %v", res.Rows[2].Issues)
	}
}

func TestRun_DanglingOnsetReportedGlobally(t *testing.T) {
	sc := testSchema(t)
	res := pipeline.Run(sc, []string{"(Onset, Def/Blink)"}, []string{"(Definition/Blink, (Eye))"}, pipeline.Options{})
	found := false
	for _, it := range res.Global {
		if it.Code == hed.CodeUnmatchedOnset {
			found = true
		}
	}
	if !found {
		t.Errorf("dangling onset not in global issues: %v", res.Global)
	}
	if res.Global.HasErrors() {
		t.Errorf("dangling onset is advisory, got error tier: %v", res.Global)
	}
}

func TestRun_LocalizedMessages(t *testing.T) {
	sc := testSchema(t)
	res := pipeline.Run(sc, []string{"Def/Nope"}, nil, pipeline.Options{Localize: true, SkipTemporal: true})
	found := false
	for _, it := range res.Rows[0].Issues {
		if it.Code == hed.CodeUndefinedDef && it.Message == "reference to an undefined definition" {
			found = true
		}
	}
	if !found {
		t.Errorf("message not rendered by the translator: %v", res.Rows[0].Issues)
	}
}

func TestRun_ParseFailureDoesNotPoisonBatch(t *testing.T) {
	sc := testSchema(t)
	res := pipeline.Run(sc, []string{"(Event", "Event"}, nil, pipeline.Options{SkipTemporal: true})
	if res.Rows[0].Tree != nil || len(res.Rows[0].Issues) == 0 {
		t.Errorf("row 0 should fail to parse: %+v", res.Rows[0])
	}
	if res.Rows[1].Tree == nil || len(res.Rows[1].Issues) != 0 {
		t.Errorf("row 1 should be clean: %+v", res.Rows[1])
	}
}
