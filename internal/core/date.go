package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format of a Date.
const DateLayout = "2006-01-02"

var (
	ErrInvalidDay   = errors.New("invalid day")
	ErrInvalidMonth = errors.New("invalid month")
	ErrInvalidDate  = errors.New("invalid date")
)

// Date is a calendar date with no time-of-day component.
// The embedded time is always midnight UTC, so two Dates for the same
// calendar day compare equal regardless of where they were built.
type Date struct {
	time.Time
}

// NewDate creates a new Date from year, month (1-12) and day.
// Out-of-range values normalise the same way time.Date does.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a date in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// DaysInMonth returns the number of days of month (1-12) in year.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampedDate builds (year, month, day) with day clamped to the month's last day.
// Month overflow is normalised first, so (2025, 13, 31) is 2026-01-31.
func ClampedDate(year, month, day int) Date {
	first := NewDate(year, month, 1)
	last := DaysInMonth(first.Year(), first.Month())
	if day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return NewDate(first.Year(), first.Month(), day)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// IsEmpty returns true if the date is zero
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after o.
func (d Date) Compare(o Date) int {
	return d.Time.Compare(o.Time)
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }
func (d Date) After(o Date) bool  { return d.Compare(o) > 0 }
func (d Date) Equal(o Date) bool  { return d.Compare(o) == 0 }

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time.AddDate(0, 0, n))
}

// AddMonths moves d by n months keeping the day of month when possible and
// clamping to the target month's last day otherwise (Jan 31 + 1 month = Feb 28/29).
func (d Date) AddMonths(n int) Date {
	return ClampedDate(d.Year(), d.Month()+n, d.Day())
}

// SameMonth reports whether d and o fall in the same calendar month.
func (d Date) SameMonth(o Date) bool {
	return d.Year() == o.Year() && d.Month() == o.Month()
}

// MonthBefore reports whether d's year/month is strictly earlier than o's.
func (d Date) MonthBefore(o Date) bool {
	if d.Year() != o.Year() {
		return d.Year() < o.Year()
	}
	return d.Month() < o.Month()
}

// DaysBetween returns the whole number of days from a to b (negative if b is before a).
func DaysBetween(a, b Date) int {
	return int(b.Time.Sub(a.Time) / (24 * time.Hour))
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

// UnmarshalJSON accepts "YYYY-MM-DD", a full RFC 3339 timestamp (truncated to
// its date), null or an empty string.
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, data)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	if len(s) > len(DateLayout) {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
		*d = DateOf(t)
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
