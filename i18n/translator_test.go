package i18n_test

import (
	"testing"

	hed "github.com/hedstd/hed"
	"github.com/hedstd/hed/i18n"
)

func TestMessage_KnownAndUnknownCodes(t *testing.T) {
	t.Cleanup(func() { i18n.SetLanguage("en") })

	if got := i18n.T("unmatched_offset", nil); got != "offset with no matching onset" {
		t.Errorf("en message = %q", got)
	}
	i18n.SetLanguage("ja")
	if got := i18n.T("unmatched_offset", nil); got == "offset with no matching onset" || got == "unmatched_offset" {
		t.Errorf("ja message not translated: %q", got)
	}
	// Unknown codes fall back to the code itself.
	if got := i18n.T("no_such_code", nil); got != "no_such_code" {
		t.Errorf("fallback = %q", got)
	}
}

func TestLocalize(t *testing.T) {
	iss := hed.Issues{
		hed.IssueAt(hed.CodeEmptyTag, "original message", "x", hed.Span{Start: 3, End: 4}),
	}
	got := i18n.Localize(iss)
	if got[0].Message != "empty tag between delimiters" {
		t.Errorf("Message = %q", got[0].Message)
	}
	if got[0].Code != hed.CodeEmptyTag || got[0].Span.Start != 3 {
		t.Errorf("code/span must carry over: %+v", got[0])
	}
	if iss[0].Message != "original message" {
		t.Errorf("input mutated: %q", iss[0].Message)
	}
	if out := i18n.Localize(nil); out != nil {
		t.Errorf("Localize(nil) = %v", out)
	}
}

type upperTranslator struct{}

func (upperTranslator) Message(code string, _ map[string]string) string { return "X:" + code }

func TestSetTranslator(t *testing.T) {
	t.Cleanup(func() { i18n.SetTranslator(nil) })
	i18n.SetTranslator(upperTranslator{})
	if got := i18n.T("empty_tag", nil); got != "X:empty_tag" {
		t.Errorf("custom translator not used: %q", got)
	}
}
