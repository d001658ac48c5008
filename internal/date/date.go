// Package date provides config-friendly instants and UTC offsets.
//
// An Instant is written either as RFC 3339 or as a bare YYYY-MM-DD. A bare
// date carries no zone of its own and is resolved to midnight at the
// configured offset by In.
package date

import (
	"encoding/json"
	"fmt"
	"time"

	"go.yaml.in/yaml/v3"
)

const dateFormat = "2006-01-02"

// Instant is a point in time that may have been written date-only.
type Instant struct {
	time.Time
	dateOnly bool
}

// New creates a date-only Instant from year, month, day.
func New(year int, month time.Month, day int) Instant {
	return Instant{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), dateOnly: true}
}

// At wraps an exact instant.
func At(t time.Time) Instant {
	return Instant{Time: t}
}

// Parse parses an RFC 3339 timestamp or a YYYY-MM-DD date.
func Parse(s string) (Instant, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Instant{Time: t}, nil
	}
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return Instant{}, fmt.Errorf("invalid instant %q: expected RFC 3339 or YYYY-MM-DD", s)
	}
	return Instant{Time: t, dateOnly: true}, nil
}

// ParseIn parses s and resolves it against loc.
func ParseIn(s string, loc *time.Location) (time.Time, error) {
	in, err := Parse(s)
	if err != nil {
		return time.Time{}, err
	}
	return in.In(loc), nil
}

// DateOnly reports whether the instant was written without a time of day.
func (i Instant) DateOnly() bool { return i.dateOnly }

// In resolves the instant. Date-only values become midnight at loc; exact
// values are converted to loc without changing the instant.
func (i Instant) In(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	if i.dateOnly {
		return time.Date(i.Year(), i.Month(), i.Day(), 0, 0, 0, 0, loc)
	}
	return i.Time.In(loc)
}

// String returns YYYY-MM-DD for date-only values and RFC 3339 otherwise.
func (i Instant) String() string {
	if i.dateOnly {
		return i.Format(dateFormat)
	}
	return i.Format(time.RFC3339)
}

// MarshalYAML implements yaml.Marshaler.
func (i Instant) MarshalYAML() (interface{}, error) {
	return i.String(), nil
}

// UnmarshalYAML implements yaml.v3 Unmarshaler.
func (i *Instant) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := Parse(value.Value)
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (i Instant) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (i *Instant) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}
