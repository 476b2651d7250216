// Package isotime formats and parses the timestamp strings exchanged with
// API clients.
package isotime

import (
	"strings"
	"time"
)

// Layout is the ISO-8601 form used for every timestamp in responses:
// UTC with millisecond precision.
const Layout = "2006-01-02T15:04:05.000Z"

// DateLayout is the calendar-date form.
const DateLayout = "2006-01-02"

// Format renders t in Layout.
func Format(t time.Time) string {
	return t.UTC().Format(Layout)
}

// FormatPtr renders t in Layout, or nil when t is nil.
func FormatPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := Format(*t)
	return &s
}

// Date renders the calendar date of t in UTC.
func Date(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Parse accepts a calendar date (YYYY-MM-DD, taken as UTC midnight) or an
// RFC 3339 timestamp.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) == len(DateLayout) {
		return time.Parse(DateLayout, s)
	}
	return time.Parse(time.RFC3339Nano, s)
}
