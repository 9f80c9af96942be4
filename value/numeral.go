package value

import (
	"math"
	"strconv"
	"strings"
)

// Form identifies the written shape of a [Numeral].
type Form int

const (
	FormPlain Form = iota
	FormGrouped
	FormDecimal
	FormExponent
)

func (f Form) String() string {
	switch f {
	case FormPlain:
		return "plain"
	case FormGrouped:
		return "grouped"
	case FormDecimal:
		return "decimal"
	case FormExponent:
		return "exponent"
	default:
		return "unknown"
	}
}

// Numeral is a number as written: an optional sign, leading digits, comma
// separated three-digit groups, a fraction, and an exponent.
type Numeral struct {
	Form     Form
	Negative bool
	Integer  string
	Groups   []string
	Fraction string
	Exponent int
	// HasPoint records a decimal point even when Fraction is empty ("5.").
	HasPoint bool
}

// Float64 returns the numeric value of n. Magnitudes beyond float64 yield
// ±Inf.
func (n Numeral) Float64() float64 {
	var b strings.Builder

	if n.Negative {
		b.WriteByte('-')
	}

	if n.Integer == "" && len(n.Groups) == 0 {
		b.WriteByte('0')
	}

	b.WriteString(n.Integer)

	for _, g := range n.Groups {
		b.WriteString(g)
	}

	if n.Fraction != "" {
		b.WriteByte('.')
		b.WriteString(n.Fraction)
	}

	if n.Exponent != 0 {
		b.WriteByte('e')
		b.WriteString(strconv.Itoa(n.Exponent))
	}

	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil && !math.IsInf(f, 0) {
		return math.NaN()
	}

	return f
}

func (n Numeral) String() string {
	var b strings.Builder

	if n.Negative {
		b.WriteByte('-')
	}

	b.WriteString(n.Integer)

	for _, g := range n.Groups {
		b.WriteByte(',')
		b.WriteString(g)
	}

	if n.HasPoint {
		b.WriteByte('.')
		b.WriteString(n.Fraction)
	}

	if n.Form == FormExponent {
		b.WriteByte('e')
		b.WriteString(strconv.Itoa(n.Exponent))
	}

	return b.String()
}

// parts splits the text of a number token into its digit runs.
type parts struct {
	integer  string
	fraction string
	point    bool
	exponent int
	hasExp   bool
}

func splitNumber(text string) (parts, bool) {
	var p parts

	mant, exp, hasExp := cutExponent(text)
	if hasExp {
		e, err := strconv.Atoi(exp)
		if err != nil {
			return parts{}, false
		}

		p.exponent, p.hasExp = e, true
	}

	p.integer, p.fraction, p.point = strings.Cut(mant, ".")
	if !allDigits(p.integer) || !allDigits(p.fraction) {
		return parts{}, false
	}

	if p.integer == "" && p.fraction == "" {
		return parts{}, false
	}

	return p, true
}

func cutExponent(text string) (mant, exp string, ok bool) {
	if i := strings.IndexAny(text, "eE"); i >= 0 {
		return text[:i], strings.TrimPrefix(text[i+1:], "+"), true
	}

	return text, "", false
}

// integral reports whether p has neither fraction nor exponent.
func (p parts) integral() bool {
	return !p.point && !p.hasExp
}

func allDigits(s string) bool {
	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

// scanNumeral reads a numeral from toks starting at pos and returns it with
// the index of the first unconsumed token.
func scanNumeral(toks []Token, pos int) (Numeral, int, bool) {
	var n Numeral

	i := pos
	if i < len(toks) && toks[i].Kind == KindSeparator && toks[i].Text == "-" {
		n.Negative = true
		i++
	}

	if i >= len(toks) || toks[i].Kind != KindNumber {
		return Numeral{}, pos, false
	}

	head, ok := splitNumber(toks[i].Text)
	if !ok {
		return Numeral{}, pos, false
	}

	i++
	n.Integer = head.integer
	last := head

	if head.integral() && len(head.integer) >= 1 && len(head.integer) <= 3 {
		for i+1 < len(toks) && toks[i].Kind == KindComma && toks[i+1].Kind == KindNumber {
			g, ok := splitNumber(toks[i+1].Text)
			if !ok || len(g.integer) != 3 {
				break
			}

			n.Groups = append(n.Groups, g.integer)
			last = g
			i += 2

			if !g.integral() {
				break
			}
		}
	}

	n.Fraction, n.HasPoint = last.fraction, last.point
	if last.hasExp {
		n.Exponent = last.exponent
	}

	switch {
	case last.hasExp:
		n.Form = FormExponent
	case len(n.Groups) > 0:
		n.Form = FormGrouped
	case last.point:
		n.Form = FormDecimal
	default:
		n.Form = FormPlain
	}

	return n, i, true
}
