package dbase

import (
	"fmt"
	"strconv"
	"time"
)

// CalendarDate is a calendar date without time zone as stored in Date and DateTime columns.
type CalendarDate struct {
	Year  int
	Month int
	Day   int
}

// Time is a time of day with second precision.
type Time struct {
	Hours   int
	Minutes int
	Seconds int
}

// CalendarDateTime is the Visual FoxPro date time, stored as a julian day number and a time word.
type CalendarDateTime struct {
	Date CalendarDate
	Time Time
}

// ParseDate parses the YYYYMMDD representation of a Date column.
// Only the integer parts are checked, the date itself is not validated.
func ParseDate(s string) (CalendarDate, error) {
	if len(s) != 8 {
		return CalendarDate{}, newError("dbase-date-parse-1", fmt.Errorf("%w: %q", ErrInvalidDate, s))
	}
	year, err := strconv.Atoi(s[0:4])
	if err != nil {
		return CalendarDate{}, newError("dbase-date-parse-2", fmt.Errorf("%w: %q: %w", ErrInvalidDate, s, err))
	}
	month, err := strconv.Atoi(s[4:6])
	if err != nil {
		return CalendarDate{}, newError("dbase-date-parse-3", fmt.Errorf("%w: %q: %w", ErrInvalidDate, s, err))
	}
	day, err := strconv.Atoi(s[6:8])
	if err != nil {
		return CalendarDate{}, newError("dbase-date-parse-4", fmt.Errorf("%w: %q: %w", ErrInvalidDate, s, err))
	}
	return CalendarDate{Year: year, Month: month, Day: day}, nil
}

// String returns the date as YYYYMMDD.
func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d%02d%02d", d.Year, d.Month, d.Day)
}

// GoTime returns the date at midnight UTC.
func (d CalendarDate) GoTime() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// DateOfTime returns the calendar date of t in its own location.
func DateOfTime(t time.Time) CalendarDate {
	return CalendarDate{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hours, t.Minutes, t.Seconds)
}

// GoTime returns the date time in UTC.
func (dt CalendarDateTime) GoTime() time.Time {
	return time.Date(dt.Date.Year, time.Month(dt.Date.Month), dt.Date.Day, dt.Time.Hours, dt.Time.Minutes, dt.Time.Seconds, 0, time.UTC)
}

// DateTimeOf returns the date time of t in its own location, truncated to seconds.
func DateTimeOf(t time.Time) CalendarDateTime {
	return CalendarDateTime{
		Date: DateOfTime(t),
		Time: Time{Hours: t.Hour(), Minutes: t.Minute(), Seconds: t.Second()},
	}
}

func (dt CalendarDateTime) String() string {
	return dt.Date.String() + " " + dt.Time.String()
}
