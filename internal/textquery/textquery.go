// Package textquery builds Postgres tsquery expressions from raw user input.
package textquery

import "strings"

// tsquery metacharacters. Angle brackets are stripped too so pasted markup
// cannot leak into the query grammar.
const reserved = "<>&|!()"

// Sanitize strips characters that are syntactically significant to the
// tsquery grammar and trims surrounding whitespace. It performs no semantic
// validation; rejecting input is the caller's concern.
func Sanitize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if strings.ContainsRune(reserved, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// BuildWeighted converts raw input into a weighted tsquery expression.
// The first term carries weight tier A, every following term tier B, joined
// with an explicit conjunction: "ruby 2ct" becomes "ruby:A & 2ct:B".
// An input that is empty after sanitization yields "", meaning no textual
// constraint (browse mode).
//
// The weighting is deliberately cheap and deterministic: no stemming, no
// synonym expansion. Identical input always produces the identical query.
func BuildWeighted(raw string) string {
	terms := strings.Fields(Sanitize(raw))
	if len(terms) == 0 {
		return ""
	}

	parts := make([]string, len(terms))
	for i, term := range terms {
		tier := "B"
		if i == 0 {
			tier = "A"
		}
		parts[i] = term + ":" + tier
	}
	return strings.Join(parts, " & ")
}
