package value

import (
	"errors"
	"log/slog"
	"strings"
)

// Reason classifies why a parse failed.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonLexicalMismatch
	ReasonGrammarMismatch
	ReasonInvalidMonth
	ReasonInvalidDay
	ReasonInvalidYear
	ReasonInvalidHour
	ReasonMinutePeriodConflict
	ReasonAmbiguousOverflow
	ReasonPeriodHourConflict
	ReasonNegativeTime
	ReasonDoubleNegation
	ReasonOutOfRange
)

// String returns the reason's identifier as used in logs and CLI output.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonLexicalMismatch:
		return "lexical-mismatch"
	case ReasonGrammarMismatch:
		return "grammar-mismatch"
	case ReasonInvalidMonth:
		return "invalid-month"
	case ReasonInvalidDay:
		return "invalid-day"
	case ReasonInvalidYear:
		return "invalid-year"
	case ReasonInvalidHour:
		return "invalid-hour"
	case ReasonMinutePeriodConflict:
		return "minute-period-conflict"
	case ReasonAmbiguousOverflow:
		return "ambiguous-overflow"
	case ReasonPeriodHourConflict:
		return "period-hour-conflict"
	case ReasonNegativeTime:
		return "negative-time"
	case ReasonDoubleNegation:
		return "double-negation"
	case ReasonOutOfRange:
		return "out-of-range"
	default:
		return "unknown"
	}
}

// Semantic reports whether r was raised by a semantic action on a fully
// matched production, as opposed to a lexical or grammar mismatch.
func (r Reason) Semantic() bool {
	switch r {
	case ReasonNone, ReasonLexicalMismatch, ReasonGrammarMismatch:
		return false
	default:
		return true
	}
}

// Overflow reports whether r belongs to the time overflow class: minute or
// second fields that exceed 59 where that cannot be reconciled.
func (r Reason) Overflow() bool {
	return r == ReasonAmbiguousOverflow || r == ReasonMinutePeriodConflict
}

// Sentinel errors, one per [Reason].
var (
	ErrLexicalMismatch      = NewError(ReasonLexicalMismatch, "unrecognized input")
	ErrGrammarMismatch      = NewError(ReasonGrammarMismatch, "no production matches")
	ErrInvalidMonth         = NewError(ReasonInvalidMonth, "invalid month")
	ErrInvalidDay           = NewError(ReasonInvalidDay, "invalid day")
	ErrInvalidYear          = NewError(ReasonInvalidYear, "invalid year")
	ErrInvalidHour          = NewError(ReasonInvalidHour, "invalid hour")
	ErrMinutePeriodConflict = NewError(ReasonMinutePeriodConflict, "minute or second overflow with AM/PM")
	ErrAmbiguousOverflow    = NewError(ReasonAmbiguousOverflow, "minute and second both overflow")
	ErrPeriodHourConflict   = NewError(ReasonPeriodHourConflict, "hour conflicts with AM/PM")
	ErrNegativeTime         = NewError(ReasonNegativeTime, "negative time component")
	ErrDoubleNegation       = NewError(ReasonDoubleNegation, "parenthesized amount is already negative")
	ErrOutOfRange           = NewError(ReasonOutOfRange, "number out of range")
)

// Error is a parse failure carrying a [Reason], an optional source
// position, and attributes for structured logging.
// It implements both error and [slog.LogValuer].
type Error struct {
	reason Reason
	msg    string
	err    error
	pos    *Position
	attrs  []slog.Attr
}

// NewError creates a new Error with a reason and message.
func NewError(reason Reason, msg string) *Error {
	return &Error{reason: reason, msg: msg}
}

// Reason returns the failure classification.
func (e *Error) Reason() Reason { return e.reason }

// Position returns the source position of the failure, if known.
func (e *Error) Position() (Position, bool) {
	if e.pos == nil {
		return Position{}, false
	}

	return *e.pos, true
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 3)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.pos != nil {
		part = append(part, e.pos.String())
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an *Error with the same reason, so derived
// errors match their sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.reason == e.reason
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)
	attrs = append(attrs,
		slog.String("reason", e.reason.String()),
		slog.String("error", e.msg))

	if e.pos != nil {
		attrs = append(attrs, slog.Int("column", e.pos.Column))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e wrapping err.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err

	return &c
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := *e
	c.attrs = append(e.attrs[:len(e.attrs):len(e.attrs)], attrs...)

	return &c
}

// WithPosition returns a copy of e located at pos.
func (e *Error) WithPosition(pos Position) *Error {
	c := *e
	c.pos = &pos

	return &c
}

// Attr returns the value of the first attribute with the given key.
func (e *Error) Attr(key string) (slog.Value, bool) {
	for _, a := range e.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}

	return slog.Value{}, false
}

// ReasonOf returns the [Reason] of err, [ReasonNone] for nil, and
// [ReasonGrammarMismatch] for errors that did not originate here.
func ReasonOf(err error) Reason {
	if err == nil {
		return ReasonNone
	}

	var e *Error
	if errors.As(err, &e) {
		return e.reason
	}

	return ReasonGrammarMismatch
}
