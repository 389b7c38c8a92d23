// Package calendar provides civil-date arithmetic for workout scheduling.
//
// A workout belongs to a calendar day, not a wall-clock instant. The day a
// timestamp falls on depends on the configured transition hour: a session
// logged at 2 AM usually belongs to the previous evening.
package calendar

import (
	"fmt"
	"time"
)

// Format is the canonical string form of a Date.
const Format = time.DateOnly

// Date is a calendar day without time-of-day or timezone.
// The zero value is treated as "no date".
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates t to its calendar day in t's location.
func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return Date{Year: year, Month: month, Day: day}
}

// Normalize converts a timestamp to the calendar day it belongs to.
// Hours strictly before transitionHour count as the previous day, so with
// transitionHour 3 a set logged at 02:30 lands on yesterday's workout.
// A transitionHour of 0 degenerates to plain truncation.
func Normalize(t time.Time, transitionHour int) Date {
	d := DateOf(t)
	if t.Hour() < transitionHour {
		return d.AddDays(-1)
	}
	return d
}

// Parse parses a date in the 2006-01-02 form.
func Parse(s string) (Date, error) {
	t, err := time.Parse(Format, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// MustParse is Parse for test fixtures and constants; it panics on bad input.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) String() string {
	return d.time().Format(Format)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// time converts d to midnight UTC. UTC avoids daylight saving jumps skewing
// the whole-day arithmetic below.
func (d Date) time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days after d. Negative n goes backwards.
func (d Date) AddDays(n int) Date {
	return DateOf(d.time().AddDate(0, 0, n))
}

// DaysSince returns the signed number of whole days from o to d.
func (d Date) DaysSince(o Date) int {
	return int(d.time().Sub(o.time()) / (24 * time.Hour))
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool {
	return d.time().Before(o.time())
}

// After reports whether d is strictly later than o.
func (d Date) After(o Date) bool {
	return d.time().After(o.time())
}

// ISOWeekday returns the weekday index with Monday as 0 and Sunday as 6.
func (d Date) ISOWeekday() int {
	return (int(d.time().Weekday()) + 6) % 7
}

// StartOfWeek returns the Monday of the week d falls in.
func (d Date) StartOfWeek() Date {
	return d.AddDays(-d.ISOWeekday())
}
