package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the canonical day-granularity format used across the app.
const DateLayout = "2006-01-02"

var (
	isoDatePattern      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	slashedIsoPattern   = regexp.MustCompile(`^\d{4}/\d{2}/\d{2}$`)
	europeanDatePattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
)

// fallback layouts tried once when the string matches none of the known shapes.
var fallbackLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "Jan 2, 2006", "January 2, 2006"}

// NormalizeDate coerces a date string into YYYY-MM-DD. Accepted inputs are
// ISO dates (hyphenated or slashed), European DD/MM/YYYY, and a short list
// of generic layouts as a last attempt. Anything else fails with an error
// naming the offending string.
func NormalizeDate(dateStr string) (string, error) {
	trimmed := strings.TrimSpace(dateStr)

	if isoDatePattern.MatchString(trimmed) || slashedIsoPattern.MatchString(trimmed) {
		return strings.ReplaceAll(trimmed, "/", "-"), nil
	}

	if europeanDatePattern.MatchString(trimmed) {
		parts := strings.Split(trimmed, "/")
		return fmt.Sprintf("%s-%s-%s", parts[2], parts[1], parts[0]), nil
	}

	for _, layout := range fallbackLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.Format(DateLayout), nil
		}
	}

	return "", fmt.Errorf("invalid date format: %q", dateStr)
}

// ParseDay parses a canonical YYYY-MM-DD string into a UTC midnight instant.
func ParseDay(day string) (time.Time, error) {
	t, err := time.Parse(DateLayout, day)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q: %w", day, err)
	}
	return t, nil
}

// Midnight strips the time-of-day component, keeping the location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
