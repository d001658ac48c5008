package date

import (
	"fmt"
	"time"
)

// ParseOffset parses a fixed UTC offset written as ±HH:MM (or "Z").
func ParseOffset(s string) (*time.Location, error) {
	if s == "" || s == "Z" {
		return time.UTC, nil
	}
	t, err := time.Parse("-07:00", s)
	if err != nil {
		return nil, fmt.Errorf("invalid utc offset %q: expected ±HH:MM", s)
	}
	_, secs := t.Zone()
	return time.FixedZone(s, secs), nil
}

// FormatOffset renders loc's offset at t as ±HH:MM.
func FormatOffset(t time.Time) string {
	return t.Format("-07:00")
}
