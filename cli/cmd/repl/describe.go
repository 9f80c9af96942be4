package repl

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/ardnew/sheetval/value"
)

// Layouts of the calendar reading of a serial value.
const (
	dayLayout  = "Mon 2006-01-02"
	timeLayout = "15:04:05.000"
)

// describe renders a successful outcome as its value followed by the
// calendar reading of that value.
func describe(o value.Outcome) string {
	num := strconv.FormatFloat(o.Value, 'g', -1, 64)

	if cal := calendar(o.Value); cal != "" {
		return num + " · " + cal
	}

	return num
}

// calendar returns the date and time a serial value denotes, or "" if it
// denotes none.
func calendar(serial float64) string {
	t, ok := value.SerialTime(serial)
	if !ok {
		return ""
	}

	clock := strings.TrimSuffix(t.Format(timeLayout), ".000")

	switch days, frac := math.Modf(serial); {
	case days == 0:
		return clock
	case frac == 0:
		return t.Format(dayLayout)
	default:
		return t.Format(dayLayout) + " " + clock
	}
}

func renderValue(o value.Outcome) string {
	num := strconv.FormatFloat(o.Value, 'g', -1, 64)

	if cal := calendar(o.Value); cal != "" {
		return resultStyle.Render(num) + hintStyle.Render(" · ") + dateStyle.Render(cal)
	}

	return resultStyle.Render(num)
}

// failure renders a failed outcome as its error, reason and any month
// suggestion.
func failure(o value.Outcome) string {
	var b strings.Builder

	b.WriteString(o.Err.Error())
	b.WriteString(" [")
	b.WriteString(o.Reason().String())
	b.WriteString("]")

	var e *value.Error
	if errors.As(o.Err, &e) {
		if s, ok := e.Attr("suggest"); ok {
			b.WriteString(" (did you mean ")
			b.WriteString(s.String())
			b.WriteString("?)")
		}
	}

	return b.String()
}

// caretLine returns a line pointing at the column where err occurred,
// indented past a prompt of the given width. It returns "" when err carries
// no position.
func caretLine(err error, indent int) string {
	var e *value.Error
	if !errors.As(err, &e) {
		return ""
	}

	pos, ok := e.Position()
	if !ok || pos.Column < 1 {
		return ""
	}

	return strings.Repeat(" ", indent+pos.Column-1) + "^"
}
