// Package calendar defines the civil-day value type used across almanac and
// the work calendar that decides which days count as working days. All
// scheduler and analyzer date arithmetic goes through this package.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the textual form of a Date.
const DateLayout = "2006-01-02"

// ErrInvalidDate is returned when a string cannot be parsed as a Date.
var ErrInvalidDate = errors.New("invalid date")

// Date is a civil calendar day with no time of day and no zone. The zero
// value means "no date".
type Date struct {
	t time.Time // always midnight UTC, or the zero time
}

// NewDate returns the Date for the given year, month and day. Out-of-range
// values are normalized the way time.Date normalizes them.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses a YYYY-MM-DD string. An empty string yields the zero Date.
func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// MustParseDate is like ParseDate but panics on error. Intended for tests
// and literals.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d.t.IsZero() }

// Weekday returns the day of the week of d.
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }

// AddDays returns d shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	if d.IsZero() {
		return d
	}
	return Date{t: d.t.AddDate(0, 0, n)}
}

// DaysUntil returns the number of calendar days from d to other. It is
// negative when other is before d.
func (d Date) DaysUntil(other Date) int {
	return int((other.t.Unix() - d.t.Unix()) / 86400)
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool { return d.t.After(other.t) }

// Equal reports whether d and other are the same day.
func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

// StartOfDay returns 00:00:00 UTC on d.
func (d Date) StartOfDay() time.Time { return d.t }

// EndOfDay returns the last representable instant of d in UTC.
func (d Date) EndOfDay() time.Time {
	if d.IsZero() {
		return time.Time{}
	}
	return d.t.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// String formats d as YYYY-MM-DD, or "" for the zero Date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MaxDate returns the later of a and b, ignoring zero values.
func MaxDate(a, b Date) Date {
	switch {
	case a.IsZero():
		return b
	case b.IsZero():
		return a
	case b.After(a):
		return b
	default:
		return a
	}
}

// MinDate returns the earlier of a and b, ignoring zero values.
func MinDate(a, b Date) Date {
	switch {
	case a.IsZero():
		return b
	case b.IsZero():
		return a
	case b.Before(a):
		return b
	default:
		return a
	}
}
