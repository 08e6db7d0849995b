// Package textlist normalizes free-text token lists (skills, tech-stack keys)
// into the comma-separated form the profile tables store, and back.
package textlist

import "strings"

// Normalize trims each token, drops empties, deduplicates case-insensitively
// (first-seen casing wins) and joins with commas. The result never exceeds
// maxBytes: truncation is order-preserving, the list ends at the first token
// that would overflow the budget and tokens are never cut mid-way.
// maxBytes <= 0 means unbounded.
func Normalize(tokens []string, maxBytes int) string {
	var b strings.Builder
	seen := make(map[string]bool, len(tokens))

	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		key := strings.ToLower(tok)
		if seen[key] {
			continue
		}

		need := len(tok)
		if b.Len() > 0 {
			need++ // separator
		}
		if maxBytes > 0 && b.Len()+need > maxBytes {
			break
		}

		seen[key] = true
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(tok)
	}

	return b.String()
}

// Parse is the inverse of Normalize: split on comma, trim, drop empties,
// dedupe case-insensitively. Always returns a non-nil slice.
func Parse(csv string) []string {
	out := []string{}
	if csv == "" {
		return out
	}

	seen := make(map[string]bool)
	for _, tok := range strings.Split(csv, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		key := strings.ToLower(tok)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tok)
	}
	return out
}

// Limit returns at most max tokens, dropping the excess per-token without
// touching the ones already accepted.
func Limit(tokens []string, max int) []string {
	if max <= 0 || len(tokens) <= max {
		return tokens
	}
	return tokens[:max]
}
