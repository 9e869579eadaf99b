package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatPercent formats a percentage with one decimal place.
// Example: 34.5 → "34.5%".
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// FormatCount formats an integer with locale-style comma separators.
// Example: 12345678 → "12,345,678".
func FormatCount(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		// s starts with "-"; strip it, insert commas, restore sign.
		return "-" + insertCommas(s[1:])
	}
	return insertCommas(s)
}

// FormatAge renders how long ago something happened, coarsening with
// distance: "<1m", "45m", "3h", "12d". Future or zero durations read "<1m".
func FormatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "<1m"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

// Slug lowercases s and collapses every run of non-alphanumeric characters
// into a single hyphen, for use in filenames.
// Example: "show running-config" → "show-running-config".
func Slug(s string) string {
	var buf strings.Builder
	pending := false
	for _, r := range strings.ToLower(s) {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			pending = buf.Len() > 0
			continue
		}
		if pending {
			buf.WriteByte('-')
			pending = false
		}
		buf.WriteRune(r)
	}
	return buf.String()
}

// insertCommas inserts comma separators into a digit string every 3 digits from the right.
func insertCommas(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var buf strings.Builder
	lead := n % 3
	if lead > 0 {
		buf.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(s[i : i+3])
	}
	return buf.String()
}
