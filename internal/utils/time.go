package utils

import (
	"fmt"
	"time"
)

// Layouts accepted for pickUpDate and recurrence startDate fields.
var acceptedTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseFlexibleTime parses a timestamp in any of the accepted wire layouts.
func ParseFlexibleTime(value string) (time.Time, error) {
	for _, layout := range acceptedTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable time value %q", value)
}

func FormatTimeISO(t time.Time) string {
	return t.Format(time.RFC3339)
}

func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
