// Package sanitize applies pre-lex defense-in-depth input cleanup to query
// text and field names before either ever reaches pkg/lucene. The lexer
// itself already rejects what it can't tokenize; this package exists for the
// class of input that would tokenize fine but should never be accepted from
// an untrusted HTTP caller (embedded NUL bytes, raw control characters,
// pathological whitespace).
package sanitize

import (
	"strings"
)

// Query removes NUL bytes and C0 control characters (other than tab,
// newline, carriage return) from raw query text, and trims surrounding
// whitespace.
func Query(query string) string {
	if query == "" {
		return ""
	}

	query = strings.ReplaceAll(query, "\x00", "")

	var b strings.Builder
	b.Grow(len(query))
	for _, r := range query {
		if r >= 32 || r == '\t' || r == '\n' || r == '\r' {
			b.WriteRune(r)
		}
	}

	return strings.TrimSpace(b.String())
}

// FieldName normalizes a field name by keeping only alphanumeric characters
// and the runes present in allowedSpecialChars, dropping everything else
// (including control characters).
func FieldName(name string, allowedSpecialChars string) string {
	if name == "" {
		return ""
	}

	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\x00", "")

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if isAlphanumeric(r) || strings.ContainsRune(allowedSpecialChars, r) {
			b.WriteRune(r)
		}
	}

	return b.String()
}

func isAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
