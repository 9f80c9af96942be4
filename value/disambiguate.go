package value

import "time"

// Thresholds used to decide which captured field is which. A field of at
// least fullYearMin can only be a year; a field above maxDay cannot be a day.
const (
	fullYearMin = EpochYear
	maxDay      = 31
)

// numericTriad orders three separated numbers. A leading full year selects
// year-month-day; anything else is read month-day-year.
func numericTriad(a, b, c int) DateComponents {
	if triadYearFirst(a) {
		return DateComponents{Year: a, Month: b, Day: c}
	}

	return DateComponents{Month: a, Day: b, Year: c}
}

// monthTriad orders a number-month-number capture. The first number is
// the year unless it fits a day and the last is a full year, in which case
// they trade places. Two-digit years are expanded afterwards, so "04-Mar-23"
// keeps the 04 as its year.
func monthTriad(a, month, c int) DateComponents {
	if triadSwapped(a, c) {
		return DateComponents{Day: a, Month: month, Year: c}
	}

	return DateComponents{Year: a, Month: month, Day: c}
}

// monthPair orders a month with a single number. A number that cannot be a
// day is the year of the first of that month; otherwise it is the day in
// the reference year.
func monthPair(n, month int, now time.Time) DateComponents {
	if pairIsYear(n) {
		return DateComponents{Year: n, Month: month, Day: 1}
	}

	return DateComponents{Year: now.Year(), Month: month, Day: n}
}

func triadYearFirst(a int) bool { return a >= fullYearMin }

// triadSwapped reports whether a number-month-number capture is
// day-month-year. The bound on a is strict, so a leading 31 stays a year.
func triadSwapped(a, c int) bool { return a < maxDay && c > fullYearMin }

func pairIsYear(n int) bool { return n > maxDay }
