// Package strings holds the small string helpers request DTOs normalize with.
package strings

import (
	"strings"
)

// DedupeAndTrim trims each id, drops blanks and repeats, and keeps the first
// occurrence order.
//
//	DedupeAndTrim([]string{" ATR_A ", "ATR_B", "ATR_A", ""})
//	// []string{"ATR_A", "ATR_B"}
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		id := strings.TrimSpace(v)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// TrimPtr trims the string behind p in place. Nil pointers are left alone.
func TrimPtr(p *string) {
	if p != nil {
		*p = strings.TrimSpace(*p)
	}
}

// EmptyToNil returns nil for a blank string and a pointer to the trimmed
// value otherwise. Optional text columns store NULL instead of "".
func EmptyToNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// FoldKey is the comparison key used for case-insensitive name uniqueness.
func FoldKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CompareNames orders names case-insensitively, then byte-wise, the same
// order the Postgres stores list them in.
func CompareNames(a, b string) int {
	if c := strings.Compare(FoldKey(a), FoldKey(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
