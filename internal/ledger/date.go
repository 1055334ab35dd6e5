package ledger

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Date is a calendar day in UTC, encoded as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate returns the calendar day y-m-d.
func NewDate(y int, m time.Month, d int) Date {
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day, keeping t's wall-clock date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate accepts YYYY-MM-DD or a full RFC 3339 timestamp.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)

	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return DateOf(t), nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("parsing date %q: expected YYYY-MM-DD", s)
	}

	return DateOf(t), nil
}

func (d Date) String() string {
	return d.Format(time.DateOnly)
}

// SameMonth reports whether d falls in the calendar month of t.
func (d Date) SameMonth(t time.Time) bool {
	return d.Year() == t.Year() && d.Month() == t.Month()
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}

	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	if s == "" {
		*d = Date{}
		return nil
	}

	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}
