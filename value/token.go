package value

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/alecthomas/participle/v2/lexer"
)

// Kind classifies a lexical token.
type Kind int

const (
	KindEOF Kind = iota
	KindNumber
	KindSeparator
	KindColon
	KindComma
	KindParen
	KindPercent
	KindCurrency
	KindPeriod
	KindMonthWord
)

func (k Kind) String() string {
	switch k {
	case KindEOF:
		return "end of input"
	case KindNumber:
		return "number"
	case KindSeparator:
		return "separator"
	case KindColon:
		return "colon"
	case KindComma:
		return "comma"
	case KindParen:
		return "parenthesis"
	case KindPercent:
		return "percent"
	case KindCurrency:
		return "currency"
	case KindPeriod:
		return "period"
	case KindMonthWord:
		return "month"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Position locates a token in the input. Offset is zero-based, Line and
// Column are one-based.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("column %d", p.Column)
}

// Token is a classified substring of the input.
type Token struct {
	Kind Kind
	Text string
	Pos  Position
}

func (t Token) String() string {
	if t.Kind == KindEOF {
		return t.Kind.String()
	}

	return fmt.Sprintf("%s %q", t.Kind, t.Text)
}

// LogValue implements slog.LogValuer.
func (t Token) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", t.Kind.String()),
		slog.String("text", t.Text),
		slog.Int("column", t.Pos.Column),
	)
}

// Rules are tried in order; the first match wins. Whitespace is dropped by
// Lex. Period must precede MonthWord so "am"/"pm" are not read as months.
var definition = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "Number", Pattern: `(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?`},
	{Name: "Period", Pattern: `(?i:am|pm)\b`},
	{Name: "MonthWord", Pattern: `[A-Za-z]+`},
	{Name: "Separator", Pattern: `[/-]`},
	{Name: "Colon", Pattern: `:`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Paren", Pattern: `[()]`},
	{Name: "Percent", Pattern: `%`},
	{Name: "Currency", Pattern: `\$`},
})

var kinds = func() map[lexer.TokenType]Kind {
	byName := map[string]Kind{
		"Number":    KindNumber,
		"Period":    KindPeriod,
		"MonthWord": KindMonthWord,
		"Separator": KindSeparator,
		"Colon":     KindColon,
		"Comma":     KindComma,
		"Paren":     KindParen,
		"Percent":   KindPercent,
		"Currency":  KindCurrency,
	}

	m := make(map[lexer.TokenType]Kind, len(byName))
	for name, typ := range definition.Symbols() {
		if k, ok := byName[name]; ok {
			m[typ] = k
		}
	}

	return m
}()

// Lex splits s into tokens. The returned slice always ends with a single
// KindEOF token positioned just past the input.
func Lex(s string) ([]Token, error) {
	lex, err := definition.LexString("", s)
	if err != nil {
		return nil, lexicalError(err, s)
	}

	var toks []Token

	for {
		t, err := lex.Next()
		if err != nil {
			return nil, lexicalError(err, s)
		}

		if t.EOF() {
			toks = append(toks, Token{Kind: KindEOF, Pos: convertPos(t.Pos)})

			return toks, nil
		}

		k, ok := kinds[t.Type]
		if !ok {
			continue // whitespace
		}

		toks = append(toks, Token{Kind: k, Text: t.Value, Pos: convertPos(t.Pos)})
	}
}

func convertPos(p lexer.Position) Position {
	return Position{Offset: p.Offset, Line: p.Line, Column: p.Column}
}

func lexicalError(err error, s string) *Error {
	e := ErrLexicalMismatch.Wrap(err)

	var located interface{ Position() lexer.Position }
	if errors.As(err, &located) {
		pos := convertPos(located.Position())
		e = e.WithPosition(pos)

		if pos.Offset >= 0 && pos.Offset < len(s) {
			e = e.With(slog.String("char", s[pos.Offset:pos.Offset+1]))
		}
	}

	return e
}
