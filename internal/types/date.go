package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the bare calendar date format sent by date pickers
const DateLayout = "2006-01-02"

// Date is a request timestamp that also accepts a bare calendar date.
// A bare date has no zone of its own; In places it at midnight of the given location.
type Date struct {
	time.Time
	DateOnly bool
}

// At wraps a full timestamp
func At(t time.Time) *Date {
	return &Date{Time: t}
}

// On is a bare calendar date
func On(year int, month time.Month, day int) *Date {
	return &Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), DateOnly: true}
}

// InvalidDateError reports a value that is neither YYYY-MM-DD nor RFC 3339
type InvalidDateError struct {
	Value string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q: use YYYY-MM-DD or an RFC 3339 timestamp", e.Value)
}

// ParseDate accepts YYYY-MM-DD or RFC 3339
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return Date{Time: t, DateOnly: true}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return Date{Time: t}, nil
	}
	return Date{}, &InvalidDateError{Value: s}
}

// In resolves the date to an instant. Bare dates become midnight in loc.
func (d Date) In(loc *time.Location) time.Time {
	if !d.DateOnly {
		return d.Time
	}
	if loc == nil {
		loc = time.UTC
	}
	y, m, day := d.Time.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, loc)
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return &InvalidDateError{Value: string(b)}
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.DateOnly {
		return json.Marshal(d.Time.Format(DateLayout))
	}
	return json.Marshal(d.Time.Format(time.RFC3339Nano))
}
