package validate

import (
	"strings"

	hed "github.com/hedstd/hed"
)

// CheckRaw runs the string-level tier on the raw text. It needs no schema and
// no parse; it is the only tier that still applies when parsing fails.
func (v *Validator) CheckRaw(raw string) hed.Issues {
	var iss hed.Issues
	iss = hed.AppendIssues(iss, checkCharacters(raw)...)
	iss = hed.AppendIssues(iss, checkParenCounts(raw)...)
	iss = hed.AppendIssues(iss, checkDelimiters(raw)...)
	iss = hed.AppendIssues(iss, checkSlashes(raw)...)
	return iss
}

// checkCharacters flags the denylisted characters. The tilde was a group
// separator in a retired revision of the language and gets its own code so
// reports can suggest the replacement syntax.
func checkCharacters(raw string) hed.Issues {
	var iss hed.Issues
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '{', '}', '[', ']', '"':
			iss = hed.AppendIssues(iss, hed.IssueAt(hed.CodeInvalidCharacter,
				"character is not allowed in an annotation", string(raw[i]), hed.Span{Start: i, End: i + 1}))
		case '~':
			iss = hed.AppendIssues(iss, hed.IssueAt(hed.CodeTildeUnsupported,
				"tilde grouping is no longer supported; use parentheses", "~", hed.Span{Start: i, End: i + 1}))
		}
	}
	return iss
}

func checkParenCounts(raw string) hed.Issues {
	opens := strings.Count(raw, "(")
	closes := strings.Count(raw, ")")
	if opens == closes {
		return nil
	}
	iss := hed.IssueAt(hed.CodeParenMismatch, "unequal parenthesis counts", raw, hed.Span{Start: 0, End: len(raw)})
	iss.Params = map[string]any{"open": opens, "close": closes}
	return hed.Issues{iss}
}

// checkDelimiters flags empty tags between delimiters and commas missing
// around groups. It tracks only the last significant character class, so one
// pass suffices.
func checkDelimiters(raw string) hed.Issues {
	var iss hed.Issues
	const start, text = 0, 'T'
	last := byte(start)
	lastPos := 0
	empty := func(i int) {
		iss = hed.AppendIssues(iss, hed.IssueAt(hed.CodeEmptyTag,
			"empty tag between delimiters", raw[lastPos:i+1], hed.Span{Start: lastPos, End: i + 1}))
	}
	missing := func(i int) {
		iss = hed.AppendIssues(iss, hed.IssueAt(hed.CodeCommaMissing,
			"comma missing next to a group", string(raw[i]), hed.Span{Start: i, End: i + 1}))
	}
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch c {
		case ',':
			if last == start || last == ',' || last == '(' {
				empty(i)
			}
			last, lastPos = ',', i
		case '(':
			if last == text || last == ')' {
				missing(i)
			}
			last, lastPos = '(', i
		case ')':
			if last == ',' {
				empty(i)
			}
			last, lastPos = ')', i
		case ' ', '\t', '\n', '\r':
			// whitespace does not change the significant class
		default:
			if last == ')' {
				missing(i)
			}
			last, lastPos = text, i
		}
	}
	if last == ',' {
		empty(len(raw) - 1)
	}
	return iss
}

// checkSlashes applies the per-tag formatting rules to each tag run in the
// raw text: no doubled slashes, no leading or trailing slash.
func checkSlashes(raw string) hed.Issues {
	var iss hed.Issues
	flag := func(tag string, s, e int) {
		iss = hed.AppendIssues(iss, hed.IssueAt(hed.CodeExtraSlash,
			"tag has an empty path segment", tag, hed.Span{Start: s, End: e}))
	}
	first, last := -1, -1
	flush := func() {
		if first < 0 {
			return
		}
		tag := raw[first : last+1]
		if strings.HasPrefix(tag, "/") || strings.HasSuffix(tag, "/") || strings.Contains(tag, "//") {
			flag(tag, first, last+1)
		}
		first, last = -1, -1
	}
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case ',', '(', ')':
			flush()
		case ' ', '\t', '\n', '\r':
		default:
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	flush()
	return iss
}
