// Package calendar holds the civil-date type shared by the solver and planner,
// the timezone adapter that turns UTC instants into wall-clock readings, and a
// tabular Hijri conversion used for display labels only.
package calendar

import (
	"fmt"
	"time"
)

// dateLayout is the canonical text form of a Date.
const dateLayout = "2006-01-02"

// Date is a Gregorian calendar day with no time-of-day and no zone.
// The zero value is not a valid date.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the normalized date for the given fields, so
// NewDate(2024, 2, 30) is March 1st.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 12, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t as read in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return DateOf(d.noonUTC().AddDate(0, 0, n))
}

// Sub returns the number of days from e to d.
func (d Date) Sub(e Date) int {
	return int(d.noonUTC().Sub(e.noonUTC()).Hours() / 24)
}

// Before reports whether d is earlier than e.
func (d Date) Before(e Date) bool {
	return d.Sub(e) < 0
}

// After reports whether d is later than e.
func (d Date) After(e Date) bool {
	return d.Sub(e) > 0
}

// Weekday returns the day of the week of d.
func (d Date) Weekday() time.Weekday {
	return d.noonUTC().Weekday()
}

// In returns the instant at which d begins in zone. See StartOfDay for how
// days that start inside a DST gap are handled.
func (d Date) In(zone *time.Location) time.Time {
	t, _ := StartOfDay(d, zone)
	return t
}

// Format formats d with a Go time layout.
func (d Date) Format(layout string) string {
	return d.noonUTC().Format(layout)
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// noonUTC anchors arithmetic at midday so leap seconds and zone rules never
// push the result onto a neighbouring day.
func (d Date) noonUTC() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC)
}
