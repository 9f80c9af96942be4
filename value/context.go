package value

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/ardnew/sheetval/log"
)

// evalContext holds the state of a single parse. It is created per call and
// never shared between goroutines.
type evalContext struct {
	ctx     context.Context
	log     log.Logger
	tracing bool
	now     time.Time
	toks    []Token
	memo    map[memoKey]memoEntry
	best    failure

	// current collects the components resolved by the action being applied;
	// accepted holds those of the whole accepted parse.
	current  components
	accepted components
}

// components are the resolved date and time of a matched subtree.
type components struct {
	date        DateComponents
	clock       TimeComponents
	datePresent bool
	timePresent bool
}

// merge fills the components missing from c with those of o.
func (c components) merge(o components) components {
	if !c.datePresent && o.datePresent {
		c.date, c.datePresent = o.date, true
	}

	if !c.timePresent && o.timePresent {
		c.clock, c.timePresent = o.clock, true
	}

	return c
}

// attrs returns the present components as log attributes.
func (c components) attrs() []slog.Attr {
	var attrs []slog.Attr
	if c.datePresent {
		attrs = append(attrs, slog.Any("date", c.date))
	}

	if c.timePresent {
		attrs = append(attrs, slog.Any("clock", c.clock))
	}

	return attrs
}

// dateFields are the operands a date was read from. A field filled from
// the reference clock has no operand.
type dateFields struct {
	day, month, year operand
}

// locate returns the position of the field blamed by reason.
func (f dateFields) locate(reason Reason) (Position, bool) {
	var o operand

	switch reason {
	case ReasonInvalidDay:
		o = f.day
	case ReasonInvalidMonth:
		o = f.month
	case ReasonInvalidYear:
		o = f.year
	}

	return o.tok.Pos, o.present
}

func newEvalContext(ctx context.Context, logger log.Logger, now time.Time, toks []Token) *evalContext {
	return &evalContext{
		ctx:     ctx,
		log:     logger,
		tracing: logger.Enabled(ctx, log.LevelTrace),
		now:     now,
		toks:    toks,
		memo:    make(map[memoKey]memoEntry, 4*len(toks)),
	}
}

// operand is a captured symbol handed to an action: a token, a numeral, or
// the value of a nonterminal. Absent optional symbols have present false.
type operand struct {
	tok     Token
	num     Numeral
	val     float64
	parts   components
	present bool
}

// asInt returns the value of an integer-slot token. Slot matching guarantees
// a short digit run.
func (o operand) asInt() int {
	n, _ := strconv.Atoi(o.tok.Text)

	return n
}

func (o operand) asFloat() float64 {
	f, _ := strconv.ParseFloat(o.tok.Text, 64)

	return f
}

func (o operand) period() Period {
	if !o.present {
		return PeriodNone
	}

	return parsePeriod(o.tok.Text)
}

// apply runs the semantic routine of act over its operands.
func (ec *evalContext) apply(act action, ops []operand) (float64, error) {
	switch act {
	case actHourName:
		m, err := ec.month(ops[0])
		if err != nil {
			return 0, err
		}

		return ec.clock(TimeComponents{Hour: float64(m)})

	case actClockHMS:
		return ec.clock(TimeComponents{
			Hour:   ops[0].asFloat(),
			Minute: ops[1].asFloat(),
			Second: ops[2].asFloat(),
			Period: ops[3].period(),
		})

	case actClockH:
		return ec.clock(TimeComponents{Hour: ops[0].asFloat(), Period: ops[1].period()})

	case actClockHM:
		return ec.clock(TimeComponents{
			Hour:   ops[0].asFloat(),
			Minute: ops[1].asFloat(),
			Period: ops[2].period(),
		})

	case actMonthDayYear:
		m, err := ec.month(ops[0])
		if err != nil {
			return 0, err
		}

		return ec.calendar(
			DateComponents{Month: m, Day: ops[1].asInt(), Year: ops[2].asInt()},
			dateFields{month: ops[0], day: ops[1], year: ops[2]})

	case actMonthPair:
		m, err := ec.month(ops[0])
		if err != nil {
			return 0, err
		}

		return ec.calendar(monthPair(ops[1].asInt(), m, ec.now), pairFields(ops[1], ops[0]))

	case actNumericTriad:
		a, b, c := ops[0], ops[1], ops[2]

		f := dateFields{month: a, day: b, year: c}
		if triadYearFirst(a.asInt()) {
			f = dateFields{year: a, month: b, day: c}
		}

		return ec.calendar(numericTriad(a.asInt(), b.asInt(), c.asInt()), f)

	case actMonthTriad:
		m, err := ec.month(ops[1])
		if err != nil {
			return 0, err
		}

		a, c := ops[0], ops[2]

		f := dateFields{year: a, month: ops[1], day: c}
		if triadSwapped(a.asInt(), c.asInt()) {
			f = dateFields{day: a, month: ops[1], year: c}
		}

		return ec.calendar(monthTriad(a.asInt(), m, c.asInt()), f)

	case actMonthDay:
		return ec.calendar(
			DateComponents{Month: ops[0].asInt(), Day: ops[1].asInt(), Year: ec.now.Year()},
			dateFields{month: ops[0], day: ops[1]})

	case actDayMonthYear:
		m, err := ec.month(ops[1])
		if err != nil {
			return 0, err
		}

		return ec.calendar(
			DateComponents{Day: ops[0].asInt(), Month: m, Year: ops[2].asInt()},
			dateFields{day: ops[0], month: ops[1], year: ops[2]})

	case actDayMonth:
		m, err := ec.month(ops[1])
		if err != nil {
			return 0, err
		}

		return ec.calendar(monthPair(ops[0].asInt(), m, ec.now), pairFields(ops[0], ops[1]))

	case actDateTime:
		return ops[0].val + ops[1].val, nil

	case actTimeDate:
		return ops[1].val + ops[0].val, nil

	case actDate:
		return ops[0].val, nil

	case actTime:
		return ops[0].val, nil

	case actDateTimeValue:
		return ops[0].val, nil

	case actNumber:
		return ops[0].num.Float64(), nil

	case actNegate:
		return negate(ops[0].num)

	case actNegatePercent:
		v, err := negate(ops[0].num)

		return v / 100, err

	case actPercent:
		return ops[0].num.Float64() / 100, nil

	default:
		panic("value: unhandled action " + strconv.Itoa(int(act)))
	}
}

func (ec *evalContext) month(o operand) (int, error) {
	m, ok := LookupMonth(o.tok.Text)
	if ok {
		return m, nil
	}

	err := ErrInvalidMonth.WithPosition(o.tok.Pos).With(slog.String("word", o.tok.Text))
	if s, ok := SuggestMonth(o.tok.Text); ok {
		err = err.With(slog.String("suggest", s))
	}

	return 0, err
}

// pairFields locates a month paired with one number, which is either the
// day or the year.
func pairFields(n, month operand) dateFields {
	if pairIsYear(n.asInt()) {
		return dateFields{year: n, month: month}
	}

	return dateFields{day: n, month: month}
}

// calendar resolves d, positioning a failure at the field it blames.
func (ec *evalContext) calendar(d DateComponents, f dateFields) (float64, error) {
	resolved, serial, err := ResolveDate(d.Day, d.Month, d.Year, ec.now)
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			if pos, ok := f.locate(e.Reason()); ok {
				return 0, e.WithPosition(pos)
			}
		}

		return 0, err
	}

	ec.current.date, ec.current.datePresent = resolved, true

	return serial, nil
}

func (ec *evalContext) clock(t TimeComponents) (float64, error) {
	n, err := NormalizeTime(t)
	if err != nil {
		return 0, err
	}

	ec.current.clock, ec.current.timePresent = n, true

	return n.Fraction(), nil
}

func negate(n Numeral) (float64, error) {
	if n.Negative {
		return 0, ErrDoubleNegation.With(slog.String("numeral", n.String()))
	}

	return -n.Float64(), nil
}
