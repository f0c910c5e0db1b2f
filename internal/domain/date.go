package domain

import (
	"database/sql/driver" // Valuer for gorm
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date with no time-of-day semantics. It is stored as
// YYYY-MM-DD and always held at midnight UTC.
type Date struct {
	time.Time
}

// NewDate builds a Date from its parts; out-of-range parts normalize like time.Date
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO calendar date. Unpadded month/day ("2025-9-1") is accepted too.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{dateLayout, "2006-1-2"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t.Year(), t.Month(), t.Day()), nil
		}
	}
	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// ParseDates parses every element, keeping order and duplicates
func ParseDates(in []string) ([]Date, error) {
	out := make([]Date, len(in))
	for i, s := range in {
		d, err := ParseDate(s)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// DaysInMonth returns the number of days in d's month (28..31)
func (d Date) DaysInMonth() int {
	return time.Date(d.Year(), d.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthBounds returns the first and last day of d's month
func (d Date) MonthBounds() (Date, Date) {
	return NewDate(d.Year(), d.Month(), 1), NewDate(d.Year(), d.Month(), d.DaysInMonth())
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	return d.UnmarshalText([]byte(strings.Trim(string(b), `"`)))
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value stores the date as YYYY-MM-DD, comparable as text and as a SQL DATE
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan accepts what the supported drivers return for a DATE column
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = NewDate(v.Year(), v.Month(), v.Day())
		return nil
	case string:
		return d.scanText(v)
	case []byte:
		return d.scanText(string(v))
	case nil:
		*d = Date{}
		return nil
	}
	return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidDate, src)
}

func (d *Date) scanText(s string) error {
	if i := strings.IndexAny(s, " T"); i >= 0 {
		s = s[:i] // Drop any time part
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
