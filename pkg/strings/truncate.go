package strings

import (
	"strings"
)

// DefaultCellMaxLen is the default maximum width of free-text table cells
// such as notes, user data and capture descriptions.
const DefaultCellMaxLen = 60

// MinTruncateLen is the smallest maxLen that still leaves room for one
// character plus the "..." marker.
const MinTruncateLen = 4

// TruncateCell collapses s onto a single line and shortens it to at most maxLen
// runes, marking truncation with "...". maxLen is clamped to MinTruncateLen.
func TruncateCell(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}

// Listing joins non-empty items with sep, the way multi-valued cells
// (tags, datacenters, speeds) are rendered.
func Listing(items []string, sep string) string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return strings.Join(out, sep)
}

// SplitList splits a comma-separated flag value, trimming blanks and
// dropping empty entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
