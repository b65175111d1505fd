// Package rawjson extracts a single balanced JSON value from a noisy text
// stream. Tool output frequently wraps a JSON document in ANSI escapes,
// banner lines, progress spinner remnants, and CRLF line endings; the
// extractor locates the document without requiring any cleanup first.
package rawjson

import "errors"

// ErrNoJSON indicates the input contains no balanced JSON value. Callers
// treat this as "no structured data available", not as a failure of the
// overall parse.
var ErrNoJSON = errors.New("no JSON value found in stream")

// Extract returns the substring of s spanning the first complete JSON value
// (object or array). Scanning starts at the first '{' or '[' and tracks a
// nesting counter; while inside a string literal, braces and brackets are
// inert and a backslash suppresses interpretation of the following
// character. Nested values are included naturally; when multiple
// independent top-level values appear, the first complete one wins. An
// opener that never rebalances (a stray '[' from an ANSI escape, say) is
// skipped and the scan resumes at the next opener.
func Extract(s string) (string, error) {
	for start := nextOpener(s, 0); start >= 0; start = nextOpener(s, start+1) {
		if span, ok := balancedFrom(s, start); ok {
			return span, nil
		}
	}

	return "", ErrNoJSON
}

func nextOpener(s string, from int) int {
	for i := from; i < len(s); i++ {
		if s[i] == '{' || s[i] == '[' {
			return i
		}
	}

	return -1
}

func balancedFrom(s string, start int) (string, bool) {
	var (
		depth    int
		inString bool
		escaped  bool
	)

	for i := start; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false

			continue
		}

		if inString {
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}

			continue
		}

		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--

			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}
