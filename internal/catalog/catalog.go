// Package catalog holds the closed vocabularies shared by the booking funnel:
// appointment times, budget and timeline brackets, project types, consultation
// modalities, lead statuses and priorities. Every type rejects unknown values
// when decoded from JSON.
package catalog

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire and storage format of a calendar day.
const DateLayout = "2006-01-02"

// InvalidValueError reports a value outside of a closed vocabulary.
type InvalidValueError struct {
	Field string
	Value string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s: unrecognized value %q", e.Field, e.Value)
}

// ParseDate parses a YYYY-MM-DD calendar day. The result is midnight UTC.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, &InvalidValueError{Field: "date", Value: s}
	}
	return d, nil
}

// FormatDate renders the calendar day of t, ignoring its clock and zone.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// IsWeekend reports whether the calendar day falls on a Saturday or Sunday.
func IsWeekend(day time.Time) bool {
	wd := day.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func decode[T ~string](field string, data []byte, valid func(T) bool) (T, error) {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return "", &InvalidValueError{Field: field, Value: string(data)}
	}
	v := T(raw)
	if !valid(v) {
		return "", &InvalidValueError{Field: field, Value: raw}
	}
	return v, nil
}

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
