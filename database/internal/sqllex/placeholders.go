// Package sqllex provides minimal lexical scanning helpers for SQL statement
// text shared across the database packages.
package sqllex

import "strings"

// RewritePositional scans query left to right and replaces each occurrence of
// marker found outside quoted regions and comments with the token produced by
// format(n), where n is the 1-indexed ordinal of the marker. It returns the
// rewritten statement and the number of markers replaced.
//
// The scanner recognizes single-quoted literals (with doubled-quote escapes),
// double-quoted identifiers, line comments (-- ...) and block comments
// (/* ... */, nested). Dollar-quoted strings are not recognized; statements
// using them must not contain the marker inside the quoted body.
func RewritePositional(query string, marker byte, format func(n int) string) (string, int) {
	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	i := 0
	for i < len(query) {
		c := query[i]

		switch c {
		case marker:
			n++
			b.WriteString(format(n))
			i++
		case '\'':
			i = copyQuoted(&b, query, i, '\'')
		case '"':
			i = copyQuoted(&b, query, i, '"')
		case '-':
			if i+1 < len(query) && query[i+1] == '-' {
				i = copyLineComment(&b, query, i)
			} else {
				b.WriteByte(c)
				i++
			}
		case '/':
			if i+1 < len(query) && query[i+1] == '*' {
				i = copyBlockComment(&b, query, i)
			} else {
				b.WriteByte(c)
				i++
			}
		default:
			b.WriteByte(c)
			i++
		}
	}

	return b.String(), n
}

// copyQuoted copies a quoted region starting at the opening quote. Doubled
// quote characters inside the region are treated as escapes. Returns the
// index of the first byte after the closing quote, or len(s) if the region
// is unterminated.
func copyQuoted(b *strings.Builder, s string, start int, quote byte) int {
	b.WriteByte(s[start])
	i := start + 1
	for i < len(s) {
		b.WriteByte(s[i])
		if s[i] == quote {
			if i+1 < len(s) && s[i+1] == quote {
				b.WriteByte(s[i+1])
				i += 2
				continue
			}
			return i + 1
		}
		i++
	}
	return i
}

// copyLineComment copies from "--" through the end of line (inclusive).
func copyLineComment(b *strings.Builder, s string, start int) int {
	i := start
	for i < len(s) && s[i] != '\n' {
		b.WriteByte(s[i])
		i++
	}
	if i < len(s) {
		b.WriteByte('\n')
		i++
	}
	return i
}

// copyBlockComment copies a block comment, honoring nesting the way
// PostgreSQL does. Returns len(s) if the comment is unterminated.
func copyBlockComment(b *strings.Builder, s string, start int) int {
	depth := 0
	i := start
	for i < len(s) {
		if i+1 < len(s) && s[i] == '/' && s[i+1] == '*' {
			b.WriteString("/*")
			depth++
			i += 2
			continue
		}
		if i+1 < len(s) && s[i] == '*' && s[i+1] == '/' {
			b.WriteString("*/")
			depth--
			i += 2
			if depth == 0 {
				return i
			}
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return i
}
