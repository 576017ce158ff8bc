package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate accepts calendar dates and timestamps. Values without a zone are UTC.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

// Nights is the stay length in days, rounded up.
func Nights(start, end time.Time) int {
	return int(math.Ceil(float64(end.Sub(start)) / float64(24*time.Hour)))
}
