// Package dates normalizes the heterogeneous date strings found in persisted
// records and form input. Three formats are accepted: ISO (date or
// date-time), dd/mm/yyyy, and dd MMM yyyy. Parsing never panics; callers
// render failures as "Invalid date" or "Not specified".
package dates

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	// NotSpecified is rendered for absent values
	NotSpecified = "Not specified"
	// InvalidDate is rendered for values that fail to parse
	InvalidDate = "Invalid date"
)

var (
	dmySlashPattern = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)
	dmyAbbrPattern  = regexp.MustCompile(`^(\d{2}) ([A-Za-z]{3}) (\d{4})$`)
)

var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Parse attempts to interpret s as a calendar date. ISO formats are tried
// first, then dd/mm/yyyy, then dd MMM yyyy. The second return value is false
// when no format matches.
func Parse(s string) (time.Time, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return time.Time{}, false
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}

	if m := dmySlashPattern.FindStringSubmatch(trimmed); m != nil {
		// Reinterpret day-first as yyyy-mm-dd
		if t, err := time.Parse("2006-01-02", m[3]+"-"+m[2]+"-"+m[1]); err == nil {
			return t, true
		}
		return time.Time{}, false
	}

	if dmyAbbrPattern.MatchString(trimmed) {
		if t, err := time.Parse("02 Jan 2006", trimmed); err == nil {
			return t, true
		}
		return time.Time{}, false
	}

	return time.Time{}, false
}

// Format renders s as dd MMM yyyy (en-GB style). Absent input yields
// NotSpecified; unparseable input yields InvalidDate.
func Format(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotSpecified
	}
	t, ok := Parse(s)
	if !ok {
		return InvalidDate
	}
	return t.Format("02 Jan 2006")
}

// ToInputValue renders s as yyyy-mm-dd for a date-picker control, or ""
// when the value cannot be parsed.
func ToInputValue(s string) string {
	t, ok := Parse(s)
	if !ok {
		return ""
	}
	return t.Format("2006-01-02")
}

// RelativeTime buckets the distance between s and now into a human-readable
// "N <unit> ago" string. Returns "" when s cannot be parsed.
func RelativeTime(s string) string {
	return RelativeTimeAt(s, time.Now())
}

// RelativeTimeAt is RelativeTime with an explicit reference time.
func RelativeTimeAt(s string, now time.Time) string {
	t, ok := Parse(s)
	if !ok {
		return ""
	}

	days := int(now.Sub(t).Hours() / 24)
	if days < 0 {
		days = -days
	}

	switch {
	case days == 1:
		return "1 day ago"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return fmt.Sprintf("%d weeks ago", days/7)
	case days < 365:
		return fmt.Sprintf("%d months ago", days/30)
	default:
		return fmt.Sprintf("%d years ago", days/365)
	}
}
