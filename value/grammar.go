package value

import (
	"strings"
)

// nonterminal identifies a rule of the grammar.
type nonterminal int

const (
	ntValue nonterminal = iota
	ntDateTime
	ntDate
	ntTime
	ntCount
)

func (n nonterminal) String() string {
	switch n {
	case ntValue:
		return "value"
	case ntDateTime:
		return "datetime"
	case ntDate:
		return "date"
	case ntTime:
		return "time"
	default:
		return "?"
	}
}

type symbolKind int

const (
	symToken symbolKind = iota
	symRule
	symNumeral
	symEnd
	symNotBefore
)

// maxIntegerDigits bounds the Number tokens accepted in integer slots.
const maxIntegerDigits = 9

// symbol is one element of a production's right-hand side.
type symbol struct {
	kind     symbolKind
	tok      Kind
	text     string // required token text, empty for any
	integer  bool   // Number token must be a plain digit run
	rule     nonterminal
	optional bool
	capture  bool   // passed to the action as an operand
	reject   []Kind // symNotBefore: kinds that must not come next
}

func (s symbol) String() string {
	var name string

	switch s.kind {
	case symRule:
		name = s.rule.String()
	case symNumeral:
		name = "numeral"
	case symEnd:
		name = KindEOF.String()
	case symNotBefore:
		part := make([]string, len(s.reject))
		for i, k := range s.reject {
			part[i] = k.String()
		}

		name = "!" + strings.Join(part, "|")
	default:
		switch {
		case s.text != "":
			name = s.text
		case s.integer:
			name = "integer"
		default:
			name = s.tok.String()
		}
	}

	if s.optional {
		name += "?"
	}

	return name
}

func (s symbol) accepts(t Token) bool {
	if t.Kind != s.tok || (s.text != "" && t.Text != s.text) {
		return false
	}

	if s.integer {
		return len(t.Text) <= maxIntegerDigits && allDigits(t.Text)
	}

	return true
}

var (
	sep      = symbol{kind: symToken, tok: KindSeparator}
	colon    = symbol{kind: symToken, tok: KindColon}
	comma    = symbol{kind: symToken, tok: KindComma}
	lparen   = symbol{kind: symToken, tok: KindParen, text: "("}
	rparen   = symbol{kind: symToken, tok: KindParen, text: ")"}
	percent  = symbol{kind: symToken, tok: KindPercent}
	currency = symbol{kind: symToken, tok: KindCurrency}
	end      = symbol{kind: symEnd}

	// A year is never directly followed by clock notation; without this
	// "Mar 4 3:00 PM" would read 3 as the year.
	yearEnd = symbol{kind: symNotBefore, reject: []Kind{KindColon, KindPeriod}}

	integer = symbol{kind: symToken, tok: KindNumber, integer: true, capture: true}
	number  = symbol{kind: symToken, tok: KindNumber, capture: true}
	month   = symbol{kind: symToken, tok: KindMonthWord, capture: true}
	period  = symbol{kind: symToken, tok: KindPeriod, capture: true}
	numeral = symbol{kind: symNumeral, capture: true}

	date     = rule(ntDate)
	clock    = rule(ntTime)
	datetime = rule(ntDateTime)
)

func rule(n nonterminal) symbol {
	return symbol{kind: symRule, rule: n, capture: true}
}

func optional(s symbol) symbol {
	s.optional = true

	return s
}

// action selects the semantic routine run when a production's shape
// matches. Every action is handled by evalContext.apply.
type action int

const (
	actHourName action = iota
	actClockHMS
	actClockH
	actClockHM
	actMonthDayYear
	actMonthPair
	actNumericTriad
	actMonthTriad
	actMonthDay
	actDayMonthYear
	actDayMonth
	actDateTime
	actTimeDate
	actDate
	actTime
	actDateTimeValue
	actNumber
	actNegate
	actNegatePercent
	actPercent
)

type production struct {
	lhs nonterminal
	rhs []symbol
	act action
}

func (p production) String() string {
	var b strings.Builder

	b.WriteString(p.lhs.String())
	b.WriteString(" ←")

	for _, s := range p.rhs {
		b.WriteByte(' ')
		b.WriteString(s.String())
	}

	return b.String()
}

func prod(lhs nonterminal, act action, rhs ...symbol) production {
	return production{lhs: lhs, rhs: rhs, act: act}
}

// grammar lists the alternatives of each nonterminal in the order they are
// tried. The first alternative whose shape matches and whose action
// succeeds wins.
var grammar = [ntCount][]production{
	ntTime: {
		prod(ntTime, actHourName, month),
		prod(ntTime, actClockHMS, number, colon, number, colon, number, optional(period)),
		prod(ntTime, actClockH, number, period),
		prod(ntTime, actClockHM, number, colon, number, optional(period)),
	},
	ntDate: {
		prod(ntDate, actMonthDayYear, month, integer, comma, integer, yearEnd),
		prod(ntDate, actMonthDayYear, month, integer, integer, yearEnd),
		prod(ntDate, actMonthPair, month, integer),
		prod(ntDate, actNumericTriad, integer, sep, integer, sep, integer),
		prod(ntDate, actMonthTriad, integer, sep, month, sep, integer),
		prod(ntDate, actMonthDay, integer, sep, integer),
		prod(ntDate, actDayMonthYear, integer, month, comma, integer, yearEnd),
		prod(ntDate, actDayMonthYear, integer, month, integer, yearEnd),
		prod(ntDate, actDayMonth, integer, month),
		prod(ntDate, actDayMonth, integer, sep, month),
	},
	ntDateTime: {
		prod(ntDateTime, actDateTime, date, clock),
		prod(ntDateTime, actTimeDate, clock, date),
		prod(ntDateTime, actDateTime, date, comma, clock),
		prod(ntDateTime, actTimeDate, clock, comma, date),
		prod(ntDateTime, actDate, date),
		prod(ntDateTime, actTime, clock),
	},
	ntValue: {
		prod(ntValue, actDateTimeValue, datetime, end),
		prod(ntValue, actNumber, currency, numeral, end),
		prod(ntValue, actNegate, lparen, currency, numeral, rparen, end),
		prod(ntValue, actNegatePercent, lparen, currency, numeral, rparen, percent, end),
		prod(ntValue, actNegatePercent, lparen, numeral, rparen, percent, end),
		prod(ntValue, actNegatePercent, lparen, numeral, percent, rparen, end),
		prod(ntValue, actNegate, lparen, numeral, rparen, end),
		prod(ntValue, actPercent, numeral, percent, end),
		prod(ntValue, actNumber, numeral, end),
	},
}
