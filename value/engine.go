package value

import (
	"log/slog"
	"math"
	"slices"

	"github.com/ardnew/sheetval/log"
)

type memoKey struct {
	rule nonterminal
	pos  int
}

type memoEntry struct {
	val   float64
	end   int
	parts components
	ok    bool
}

// failure is the most informative error seen so far. extent is the number
// of tokens consumed before the error was detected.
type failure struct {
	extent int
	err    *Error
}

// run matches the whole token stream against the value rule.
func (ec *evalContext) run() (float64, error) {
	v, _, parts, ok := ec.match(ntValue, 0)
	if !ok {
		if ec.best.err != nil {
			return 0, ec.best.err
		}

		return 0, ErrGrammarMismatch
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrOutOfRange.With(slog.Float64("value", v))
	}

	ec.accepted = parts

	return v, nil
}

// match tries the alternatives of rule n at token index pos. Results are
// memoized per (rule, pos), which keeps the search linear in the input.
func (ec *evalContext) match(n nonterminal, pos int) (float64, int, components, bool) {
	key := memoKey{rule: n, pos: pos}
	if m, ok := ec.memo[key]; ok {
		return m.val, m.end, m.parts, m.ok
	}

	val, end, parts, ok := ec.alternatives(n, pos)
	ec.memo[key] = memoEntry{val: val, end: end, parts: parts, ok: ok}

	return val, end, parts, ok
}

// alternatives returns the first alternative of n that matches at pos,
// with the date and time components of that alternative and its children.
func (ec *evalContext) alternatives(n nonterminal, pos int) (float64, int, components, bool) {
	for i := range grammar[n] {
		p := &grammar[n][i]

		ops, end, ok := ec.shape(p, pos)
		if !ok {
			continue
		}

		ec.current = components{}

		v, err := ec.apply(p.act, ops)
		if err != nil {
			ec.reject(p, pos, end, err)

			continue
		}

		parts := ec.current
		for _, o := range ops {
			parts = parts.merge(o.parts)
		}

		if ec.tracing {
			ec.log.TraceContext(ec.ctx, "accept",
				slog.String("rule", p.String()),
				slog.Int("from", pos),
				slog.Int("to", end),
				slog.Float64("value", v))
		}

		return v, end, parts, true
	}

	return 0, pos, components{}, false
}

// shape matches the right-hand side of p structurally, collecting the
// operands of capturing symbols.
func (ec *evalContext) shape(p *production, pos int) ([]operand, int, bool) {
	if ec.tracing {
		ec.log.TraceContext(ec.ctx, "try",
			slog.String("rule", p.String()),
			slog.Int("at", pos))
	}

	ops := make([]operand, 0, len(p.rhs))

	for _, sym := range p.rhs {
		switch sym.kind {
		case symToken:
			t := ec.toks[pos]

			switch {
			case sym.accepts(t):
				if sym.capture {
					ops = append(ops, operand{tok: t, present: true})
				}

				pos++
			case sym.optional:
				ops = append(ops, operand{})
			default:
				ec.mismatch(pos, sym)

				return nil, pos, false
			}

		case symRule:
			v, end, parts, ok := ec.match(sym.rule, pos)
			if !ok {
				return nil, pos, false
			}

			ops = append(ops, operand{val: v, parts: parts, present: true})
			pos = end

		case symNumeral:
			n, end, ok := scanNumeral(ec.toks, pos)
			if !ok {
				ec.mismatch(pos, sym)

				return nil, pos, false
			}

			ops = append(ops, operand{num: n, present: true})
			pos = end

		case symEnd:
			if ec.toks[pos].Kind != KindEOF {
				ec.mismatch(pos, sym)

				return nil, pos, false
			}

		case symNotBefore:
			if slices.Contains(sym.reject, ec.toks[pos].Kind) {
				ec.mismatch(pos, sym)

				return nil, pos, false
			}
		}
	}

	return ops, pos, true
}

// outranks reports whether a failure at extent would replace the current
// best. Further wins; at equal extent a semantic error beats a mismatch.
func (ec *evalContext) outranks(extent int, semantic bool) bool {
	if ec.best.err == nil || extent > ec.best.extent {
		return true
	}

	return extent == ec.best.extent && semantic && !ec.best.err.Reason().Semantic()
}

func (ec *evalContext) mismatch(pos int, sym symbol) {
	if !ec.outranks(pos, false) {
		return
	}

	t := ec.toks[pos]
	ec.best = failure{
		extent: pos,
		err: ErrGrammarMismatch.WithPosition(t.Pos).With(
			slog.String("expected", sym.String()),
			slog.String("found", t.String()),
		),
	}
}

func (ec *evalContext) reject(p *production, start, end int, err error) {
	e, ok := err.(*Error)
	if !ok {
		e = ErrGrammarMismatch.Wrap(err)
	}

	if _, located := e.Position(); !located {
		e = e.WithPosition(ec.toks[start].Pos)
	}

	if ec.log.Enabled(ec.ctx, log.LevelDebug) {
		ec.log.DebugContext(ec.ctx, "reject",
			slog.String("rule", p.String()),
			slog.Any("error", e))
	}

	if ec.outranks(end, e.Reason().Semantic()) {
		ec.best = failure{extent: end, err: e}
	}
}
