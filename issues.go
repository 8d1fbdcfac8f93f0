package hed

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	// Parse errors (fatal to the string they occur in).
	CodeUnmatchedOpenParen  = "unmatched_open_paren"
	CodeUnmatchedCloseParen = "unmatched_close_paren"

	// Tree mutation (frozen tree, node no longer in the tree).
	CodeMutationFailed = "mutation_failed"

	// String-level syntax.
	CodeInvalidCharacter = "invalid_character"
	CodeTildeUnsupported = "tilde_unsupported"
	CodeParenMismatch    = "paren_mismatch"
	CodeEmptyTag         = "empty_tag"
	CodeCommaMissing     = "comma_missing"
	CodeExtraSlash       = "extra_slash"

	// Canonicalization.
	CodeNoValidTag    = "no_valid_tag"
	CodeInvalidParent = "invalid_parent"

	// Tag-level semantics.
	CodeTagInvalid           = "tag_invalid"
	CodeTagExtended          = "tag_extended"
	CodeUnitsInvalid         = "units_invalid"
	CodeUnitsMissing         = "units_missing"
	CodeValueInvalid         = "value_invalid"
	CodeChildRequired        = "child_required"
	CodePlaceholderMisplaced = "placeholder_misplaced"
	CodeCapitalization       = "capitalization"

	// Group/string-level semantics.
	CodeTopLevelOnly       = "top_level_only"
	CodeGroupRequired      = "group_required"
	CodeMultipleTopLevel   = "multiple_top_level"
	CodeDuplicateUniqueTag = "duplicate_unique_tag"
	CodeRequiredMissing    = "required_missing"

	// Definitions.
	CodeDuplicateDefinition     = "duplicate_definition"
	CodeDefinitionShadowsSchema = "definition_shadows_schema"
	CodeMalformedDefinition     = "malformed_definition"
	CodeUndefinedDef            = "undefined_def"
	CodePlaceholderMissing      = "placeholder_missing"
	CodePlaceholderExtra        = "placeholder_extra"

	// Temporal intervals.
	CodeUnmatchedOffset = "unmatched_offset"
	CodeUnmatchedOnset  = "unmatched_onset"
	CodeOnsetReopened   = "onset_reopened"
	CodeTemporalNoDef   = "temporal_missing_def"
)

// Severity expresses the severity level for issues.
type Severity int

const (
	Warning Severity = iota // Advisory; callers decide whether it blocks acceptance.
	Error                   // Blocks acceptance.
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Issue represents a single reportable condition found in one string.
type Issue struct {
	Code     string   // One of the codes listed above.
	Severity Severity // Error or Warning tier.
	Message  string
	Tag      string // Offending tag or text fragment, verbatim.
	Span     Span   // Byte span into the original string; zero when unknown.
	// Params carries structured parameters (e.g., {"unit_class":"timeUnits"})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of reportable conditions that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. units_invalid at [12,20)
		fmt.Fprintf(b, "%s at [%d,%d)", it.Code, it.Span.Start, it.Span.End)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// HasErrors reports whether any issue is on the error tier.
func (iss Issues) HasErrors() bool {
	for _, it := range iss {
		if it.Severity == Error {
			return true
		}
	}
	return false
}

// Warnings returns only the warning-tier issues.
func (iss Issues) Warnings() Issues {
	var out Issues
	for _, it := range iss {
		if it.Severity == Warning {
			out = append(out, it)
		}
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// IssueAt creates an error-tier Issue covering the given span. This is a
// convenience helper to improve readability at call sites with many
// parameters.
func IssueAt(code, msg, tag string, sp Span) Issue {
	return Issue{Code: code, Severity: Error, Message: msg, Tag: tag, Span: sp}
}

// WarnAt is IssueAt on the warning tier.
func WarnAt(code, msg, tag string, sp Span) Issue {
	return Issue{Code: code, Severity: Warning, Message: msg, Tag: tag, Span: sp}
}

// Mutation sentinels. Tree mutation fails closed rather than guessing.
var (
	ErrImmutableTree = errors.New("hed: tree is frozen")
	ErrNodeNotFound  = errors.New("hed: node is not a child of this tree")
)
