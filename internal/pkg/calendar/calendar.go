// Package calendar holds Date, a timestamp that also accepts the date-only form
// (2006-01-02) browser date inputs submit.
package calendar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

const dateOnly = "2006-01-02"

type Date struct {
	time.Time
}

// Of wraps t.
func Of(t time.Time) Date { return Date{Time: t} }

// Parse accepts RFC 3339 timestamps and plain dates. Plain dates are midnight UTC.
func Parse(s string) (Date, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.Parse(dateOnly, s)
	if err != nil {
		return Date{}, fmt.Errorf("calendar: %q is not a date", s)
	}
	return Date{Time: t}, nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("calendar: expected a date string: %w", err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Ptr returns nil for the zero Date, else a pointer to its time.
func (d *Date) Ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}
