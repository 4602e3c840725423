// Package strings holds the small string helpers shared by configuration,
// request parsing and validation.
package strings

import "strings"

// DedupeAndTrim trims every value, then drops blanks and repeats. Order of
// first appearance is kept.
//
//	DedupeAndTrim([]string{"  alice ", "bob", "alice", "", "  "})
//	// []string{"alice", "bob"}
func DedupeAndTrim(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		out = append(out, value)
	}
	return out
}

// SplitList is DedupeAndTrim over a comma-separated list.
func SplitList(raw string) []string {
	return DedupeAndTrim(strings.Split(raw, ","))
}
