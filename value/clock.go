package value

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
)

// SecondsPerDay is the divisor mapping a clock time onto a day fraction.
const SecondsPerDay = 24 * 60 * 60

// Period is the AM/PM marker of a 12-hour clock time.
type Period int

const (
	PeriodNone Period = iota
	PeriodAM
	PeriodPM
)

func (p Period) String() string {
	switch p {
	case PeriodAM:
		return "AM"
	case PeriodPM:
		return "PM"
	default:
		return ""
	}
}

func parsePeriod(text string) Period {
	switch strings.ToLower(text) {
	case "am":
		return PeriodAM
	case "pm":
		return PeriodPM
	default:
		return PeriodNone
	}
}

// TimeComponents is a clock time as captured from the input.
type TimeComponents struct {
	Hour   float64
	Minute float64
	Second float64
	Period Period
}

func (t TimeComponents) String() string {
	s := fmt.Sprintf("%g:%02g:%02g", t.Hour, t.Minute, t.Second)
	if t.Period != PeriodNone {
		s += " " + t.Period.String()
	}

	return s
}

// LogValue implements slog.LogValuer.
func (t TimeComponents) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("hour", t.Hour),
		slog.Float64("minute", t.Minute),
		slog.Float64("second", t.Second),
		slog.String("period", t.Period.String()),
	)
}

// Fraction returns the day fraction of t, ignoring its period.
func (t TimeComponents) Fraction() float64 {
	return (t.Hour*3600 + t.Minute*60 + t.Second) / SecondsPerDay
}

// NormalizeTime validates t and converts it to the 24-hour clock. The
// result has no period. Seconds are truncated to millisecond precision.
func NormalizeTime(t TimeComponents) (TimeComponents, error) {
	attr := slog.Any("time", t)

	if t.Hour < 0 || t.Minute < 0 || t.Second < 0 {
		return t, ErrNegativeTime.With(attr)
	}

	minOver, secOver := t.Minute > 59, t.Second > 59

	switch {
	case minOver && secOver:
		return t, ErrAmbiguousOverflow.With(attr)
	case t.Hour > 24 && (minOver || secOver):
		return t, ErrInvalidHour.With(attr)
	case t.Period != PeriodNone && (minOver || secOver) && t.Hour > 12:
		return t, ErrMinutePeriodConflict.With(attr)
	}

	n := t
	n.Period = PeriodNone
	n.Second = math.Trunc(t.Second*1000) / 1000

	switch t.Period {
	case PeriodPM:
		if t.Hour > 12 {
			return t, ErrPeriodHourConflict.With(attr)
		}

		if t.Hour < 12 {
			n.Hour += 12
		}
	case PeriodAM:
		if t.Hour > 12 {
			return t, ErrPeriodHourConflict.With(attr)
		}

		if t.Hour == 12 {
			n.Hour = 0
		}
	}

	return n, nil
}

// ResolveTime validates t and returns its day fraction. Without a period
// the fraction may exceed 1.
func ResolveTime(t TimeComponents) (float64, error) {
	n, err := NormalizeTime(t)
	if err != nil {
		return 0, err
	}

	return n.Fraction(), nil
}
