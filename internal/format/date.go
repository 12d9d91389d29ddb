package format

import (
	"strings"
	"time"
)

// ISODate is the calendar date layout used for purchase and order dates.
const ISODate = "2006-01-02"

// DisplayDate is the short label shown next to dates.
const DisplayDate = "Jan 2, 2006"

var dateLayouts = []string{
	ISODate,
	time.RFC3339Nano,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"1/2/2006",
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDate normalizes a date or timestamp to an ISO calendar date.
// Unparseable input reports false.
func ParseDate(s string) (string, bool) {
	t, ok := parseTime(s)
	if !ok {
		return "", false
	}
	return t.Format(ISODate), true
}

// ParseDateTime parses the timestamp forms accepted by ParseDate.
func ParseDateTime(s string) (time.Time, bool) {
	return parseTime(s)
}

// FormatDate renders an ISO date or timestamp as "Mar 4, 2024".
// Empty or invalid input renders as the empty string.
func FormatDate(s string) string {
	t, ok := parseTime(s)
	if !ok {
		return ""
	}
	return t.Format(DisplayDate)
}

// FormatTime renders an optional timestamp with the FormatDate label.
func FormatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(DisplayDate)
}
