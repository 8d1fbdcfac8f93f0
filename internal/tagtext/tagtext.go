// Package tagtext holds the low-level slash-path helpers shared by the
// canonicalizer, the validator and the definition subsystem.
package tagtext

import "strings"

// Segments splits a tag's text into its /-separated segments, trimming
// surrounding whitespace from each. The input is not pre-cleaned: empty
// segments (from doubled or edge slashes) come back as empty strings so
// callers can flag them.
func Segments(text string) []string {
	parts := strings.Split(strings.TrimSpace(text), "/")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// AnchorRest searches text's segments for one equal to anchor
// (case-insensitive) and returns everything after it rejoined with "/".
// This locates terms like Definition, Def or Onset whether the tag is in
// short or long form.
func AnchorRest(text, anchor string) (rest string, ok bool) {
	segs := Segments(text)
	for i, s := range segs {
		if strings.EqualFold(s, anchor) {
			return strings.Join(segs[i+1:], "/"), true
		}
	}
	return "", false
}

// NameValue splits the remainder of an anchored tag into its name segment
// and any trailing value: "MyDef/3" → ("MyDef", "3").
func NameValue(rest string) (name, value string) {
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		return rest[:i], rest[i+1:]
	}
	return rest, ""
}

// ChainMatches reports whether the lower-cased long path ends with the
// claimed segment chain on a segment boundary.
func ChainMatches(longPath, claimed string) bool {
	l := strings.ToLower(longPath)
	c := strings.ToLower(claimed)
	return l == c || strings.HasSuffix(l, "/"+c)
}
