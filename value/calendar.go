package value

import (
	"fmt"
	"log/slog"
	"math"
	"time"
)

// EpochYear is the first year representable as a serial date.
const EpochYear = 1900

// falseLeapSerial is the serial of 28 February 1900. Serials after it are
// shifted by one to account for the nonexistent 29 February 1900 that
// spreadsheets count.
const falseLeapSerial = 59

// maxSerial is the serial of 31 December 9999.
const maxSerial = 2958465

var daysPerMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DateComponents is a calendar date as captured from the input. Fields are
// raw until passed through [ResolveDate].
type DateComponents struct {
	Day   int
	Month int
	Year  int
}

func (d DateComponents) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// LogValue implements slog.LogValuer.
func (d DateComponents) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("year", d.Year),
		slog.Int("month", d.Month),
		slog.Int("day", d.Day),
	)
}

// IsLeapYear reports whether y is a Gregorian leap year.
func IsLeapYear(y int) bool {
	return (y%4 == 0 && y%100 != 0) || y%400 == 0
}

// DaysInMonth returns the number of days in month m of year y, or 0 if m
// is not in [1, 12].
func DaysInMonth(m, y int) int {
	if m < 1 || m > 12 {
		return 0
	}

	if m == 2 && IsLeapYear(y) {
		return 29
	}

	return daysPerMonth[m-1]
}

// ExpandYear maps a two-digit year onto a full year using the century
// cutoff C = now.Year() % 100. Years in (0, C) land in the current century,
// years in [C, 100) in the 1900s. Other values are returned unchanged.
func ExpandYear(raw int, now time.Time) int {
	y := now.Year()
	c := y % 100

	switch {
	case raw > 0 && raw < c:
		return raw + (y - c)
	case raw >= c && raw < 100:
		return raw + EpochYear
	default:
		return raw
	}
}

// leapsBefore counts leap years in [EpochYear, y).
func leapsBefore(y int) int {
	if y <= EpochYear {
		return 0
	}

	count := func(n int) int { return n/4 - n/100 + n/400 }

	return count(y-1) - count(EpochYear-1)
}

// ResolveDate expands and validates a captured date and returns it with its
// serial day number. Out-of-range fields are errors, never clamped.
func ResolveDate(day, month, year int, now time.Time) (DateComponents, float64, error) {
	d := DateComponents{Day: day, Month: month, Year: ExpandYear(year, now)}

	if d.Month < 1 || d.Month > 12 {
		return d, 0, ErrInvalidMonth.With(slog.Int("month", d.Month))
	}

	if d.Day < 0 || d.Day > DaysInMonth(d.Month, d.Year) {
		return d, 0, ErrInvalidDay.With(
			slog.Int("day", d.Day),
			slog.Int("days_in_month", DaysInMonth(d.Month, d.Year)),
		)
	}

	if d.Year < EpochYear {
		return d, 0, ErrInvalidYear.With(slog.Int("year", d.Year))
	}

	return d, float64(d.Serial()), nil
}

// Serial returns the spreadsheet serial day number of d, which must already
// be valid.
func (d DateComponents) Serial() int {
	n := (d.Year-EpochYear)*365 + leapsBefore(d.Year) + d.Day

	for m := 1; m < d.Month; m++ {
		n += DaysInMonth(m, d.Year)
	}

	if n > falseLeapSerial {
		n++
	}

	return n
}

// SerialTime converts a serial value back to a UTC calendar time. It
// reports false for negative or non-finite values, values past the year
// 9999, and serial 60, the nonexistent 29 February 1900.
func SerialTime(serial float64) (time.Time, bool) {
	if math.IsNaN(serial) || serial < 0 || serial >= maxSerial+1 {
		return time.Time{}, false
	}

	days := math.Floor(serial)
	if days == falseLeapSerial+1 {
		return time.Time{}, false
	}

	base := time.Date(EpochYear-1, time.December, 30, 0, 0, 0, 0, time.UTC)
	if days <= falseLeapSerial {
		base = base.AddDate(0, 0, 1)
	}

	ms := math.Round((serial - days) * SecondsPerDay * 1000)

	return base.AddDate(0, 0, int(days)).Add(time.Duration(ms) * time.Millisecond), true
}
