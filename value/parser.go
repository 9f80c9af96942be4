package value

import (
	"context"
	"log/slog"
	"time"

	"github.com/ardnew/sheetval/log"
)

// Outcome is the result of evaluating one input: a value on success, or a
// non-nil Err describing why the input was rejected.
type Outcome struct {
	Value float64
	Err   error
}

// OK reports whether the input parsed.
func (o Outcome) OK() bool { return o.Err == nil }

// Reason returns the failure classification, [ReasonNone] on success.
func (o Outcome) Reason() Reason { return ReasonOf(o.Err) }

// LogValue implements slog.LogValuer.
func (o Outcome) LogValue() slog.Value {
	if o.Err != nil {
		return slog.GroupValue(slog.Bool("ok", false), slog.Any("error", o.Err))
	}

	return slog.GroupValue(slog.Bool("ok", true), slog.Float64("value", o.Value))
}

// Parser converts free text into spreadsheet values. A Parser is immutable
// after construction and safe for concurrent use.
type Parser struct {
	now    func() time.Time
	logger log.Logger
	cache  *Cache
}

// Option configures a [Parser].
type Option func(*Parser)

// WithNow sets the clock that supplies the reference year for two-digit
// year expansion and dates written without a year.
func WithNow(now func() time.Time) Option {
	return func(p *Parser) {
		if now != nil {
			p.now = now
		}
	}
}

// WithReferenceYear fixes the reference year, leaving the rest of the clock
// at January 1.
func WithReferenceYear(year int) Option {
	return WithNow(func() time.Time {
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	})
}

// WithLogger sets the logger used for evaluation traces.
func WithLogger(logger log.Logger) Option {
	return func(p *Parser) { p.logger = logger }
}

// WithCache memoizes outcomes in c.
func WithCache(c *Cache) Option {
	return func(p *Parser) { p.cache = c }
}

// New returns a Parser configured by opts. Without options it uses the
// system clock, the default logger, and no cache.
func New(opts ...Option) *Parser {
	p := &Parser{now: time.Now, logger: log.Default()}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Parse evaluates s and returns its value.
func (p *Parser) Parse(ctx context.Context, s string) (float64, error) {
	o := p.Evaluate(ctx, s)

	return o.Value, o.Err
}

// Evaluate evaluates s. Each call runs in its own evaluation context, so
// concurrent calls do not interfere.
func (p *Parser) Evaluate(ctx context.Context, s string) Outcome {
	now := p.now()

	if p.cache != nil {
		if o, ok := p.cache.load(s, now.Year()); ok {
			return o
		}
	}

	o := p.evaluate(ctx, s, now)

	if p.cache != nil {
		p.cache.store(s, now.Year(), o)
	}

	return o
}

func (p *Parser) evaluate(ctx context.Context, s string, now time.Time) Outcome {
	toks, err := Lex(s)
	if err != nil {
		p.logger.DebugContext(ctx, "lex", slog.String("input", s), slog.Any("error", err))

		return Outcome{Err: err}
	}

	ec := newEvalContext(ctx, p.logger, now, toks)

	v, err := ec.run()
	if err != nil {
		p.logger.DebugContext(ctx, "parse",
			slog.String("input", s),
			slog.Any("error", err))

		return Outcome{Err: err}
	}

	attrs := append([]slog.Attr{slog.String("input", s), slog.Float64("value", v)},
		ec.accepted.attrs()...)

	p.logger.DebugContext(ctx, "parse", attrs...)

	return Outcome{Value: v}
}

// Parse evaluates s with a Parser configured by opts.
func Parse(ctx context.Context, s string, opts ...Option) (float64, error) {
	return New(opts...).Parse(ctx, s)
}
