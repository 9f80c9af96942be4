package value

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ardnew/sheetval/log"
)

// reference is the clock used by tests: two-digit years below 26 land in
// the 2000s and year-less dates fall in 2026.
var reference = time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)

func testParser(opts ...Option) *Parser {
	base := []Option{
		WithNow(func() time.Time { return reference }),
		WithLogger(log.Logger{}),
	}

	return New(append(base, opts...)...)
}

func frac(h, m, s float64) float64 {
	return (h*3600 + m*60 + s) / SecondsPerDay
}

// Number Tests
// ============================================================================

func TestParse_Numbers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"integer", "42", 42},
		{"padded", "  7  ", 7},
		{"grouped", "1,234,567", 1234567},
		{"grouped decimal", "1,234.5", 1234.5},
		{"decimal", "3.25", 3.25},
		{"leading dot", ".5", 0.5},
		{"trailing dot", "5.", 5},
		{"exponent", "3.5e2", 350},
		{"negative exponent", "25E-1", 2.5},
		{"negative", "-5", -5},
		{"currency", "$1,234.56", 1234.56},
		{"currency negative", "$-5", -5},
		{"percent", "50%", 0.5},
		{"parenthesized", "(100)", -100},
		{"parenthesized percent", "(100)%", -1},
		{"percent in parentheses", "(50%)", -0.5},
		{"parenthesized currency", "($5)", -5},
		{"parenthesized currency percent", "($5)%", -0.05},
	}

	p := testParser()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}

			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// Date Tests
// ============================================================================

func TestParse_Dates(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"numeric month-day-year", "3/4/2023", 44989},
		{"numeric year-month-day", "2023-03-04", 44989},
		{"month day comma year", "Mar 4, 2023", 44989},
		{"full month name", "March 4 2023", 44989},
		{"day month comma year", "4 Mar, 2023", 44989},
		{"day month year", "4 march 2023", 44989},
		{"year month word day", "2023/Mar/04", 44989},
		{"day month word year", "4-Mar-2023", 44989},
		{"two-digit year first", "04-Mar-23", 38069},
		// Policy, not intent: month-day-year, with the two-digit year
		// expanded by the reference-year cutoff (03 -> 2003).
		{"two-digit numeric triad", "01-02-03", 37623},
		{"sept abbreviation", "Sept 4, 2023", 45173},
		{"leap day", "Feb 29, 2024", 45351},
		{"month and year", "Mar 2023", 44986},
		{"year and month", "2023 Mar", 44986},
		{"month day reference year", "Mar 4", 46085},
		{"numeric pair reference year", "3/4", 46085},
		{"day month reference year", "4 Mar", 46085},
		{"day separator month", "4-Mar", 46085},
		{"epoch", "1/1/1900", 1},
		{"last day before false leap day", "2/28/1900", 59},
		{"first day after false leap day", "3/1/1900", 61},
		{"day zero", "1/0/1900", 0},
	}

	p := testParser()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}

			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// TestParse_MonthTriadDayBoundary pins the day/year swap of a
// number-month-number date: only a leading field below 31 trades places
// with a trailing full year.
func TestParse_MonthTriadDayBoundary(t *testing.T) {
	p := testParser()
	ctx := context.Background()

	got, err := p.Parse(ctx, "30-Mar-2023")
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", "30-Mar-2023", err)
	}

	if got != 45015 {
		t.Errorf("Parse(%q) = %v, want 45015", "30-Mar-2023", got)
	}

	// Read as year 31, day 2023.
	o := p.Evaluate(ctx, "31-Mar-2023")
	if o.Reason() != ReasonInvalidDay {
		t.Errorf("Evaluate(%q) = %v, %v, want %v", "31-Mar-2023", o.Value, o.Err, ReasonInvalidDay)
	}

	// The space-separated form has its own day-month-year rule.
	got, err = p.Parse(ctx, "31 Mar 2023")
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", "31 Mar 2023", err)
	}

	if got != 45016 {
		t.Errorf("Parse(%q) = %v, want 45016", "31 Mar 2023", got)
	}
}

// TestParse_SerialMatchesCalendar checks consecutive days map to
// consecutive serials that agree with day arithmetic from 30 Dec 1899.
func TestParse_SerialMatchesCalendar(t *testing.T) {
	p := testParser()
	base := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
	prev := 0.0

	for d := time.Date(1900, time.March, 1, 0, 0, 0, 0, time.UTC); d.Year() < 2101; d = d.AddDate(0, 0, 17) {
		input := d.Format("1/2/2006")

		got, err := p.Parse(context.Background(), input)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", input, err)
		}

		want := math.Round(d.Sub(base).Hours() / 24)
		if got != want {
			t.Fatalf("Parse(%q) = %v, want %v", input, got, want)
		}

		if got <= prev {
			t.Fatalf("Parse(%q) = %v, not after previous %v", input, got, prev)
		}

		prev = got
	}
}

func TestParse_EquivalentDates(t *testing.T) {
	p := testParser()
	ctx := context.Background()

	want, err := p.Parse(ctx, "3/4/2023")
	if err != nil {
		t.Fatal(err)
	}

	for _, input := range []string{"4 Mar, 2023", "Mar 4, 2023", "2023-3-4", "4-mar-2023"} {
		got, err := p.Parse(ctx, input)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", input, err)

			continue
		}

		if got != want {
			t.Errorf("Parse(%q) = %v, want %v", input, got, want)
		}
	}
}

// Time Tests
// ============================================================================

func TestParse_Times(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"hour pm", "3 PM", 0.625},
		{"hour minute pm", "3:00 pm", 0.625},
		{"twenty-four hour", "15:00", 0.625},
		{"midnight", "12:00 AM", 0},
		{"noon", "12:00 PM", 0.5},
		{"seconds", "10:30:15", frac(10, 30, 15)},
		{"fractional seconds", "10:30:15.25", frac(10, 30, 15.25)},
		{"seconds pm", "1:02:03 PM", frac(13, 2, 3)},
		{"past midnight", "25:30:00", 1.0625},
		{"minute overflow", "10:75", frac(10, 75, 0)},
		{"minute overflow pm", "1:70 PM", frac(13, 70, 0)},
		{"minute overflow am", "1:60 AM", frac(1, 60, 0)},
		{"second overflow am", "11:00:75 AM", frac(11, 0, 75)},
		{"month word as hour", "May", frac(5, 0, 0)},
	}

	p := testParser()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}

			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse_DateTimes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"date then time", "3/4/2023 3:00 PM", 44989.625},
		{"time then date", "3:00 PM 3/4/2023", 44989.625},
		{"date comma time", "Mar 4, 2023, 15:00", 44989.625},
		{"time comma date", "15:00, 2023-03-04", 44989.625},
		{"month day then time", "Mar 4 3:00 PM", 46085.625},
		{"day month comma time", "4 Mar, 3 PM", 46085.625},
		{"iso-like", "2023-03-04 06:00:00", 44989.25},
	}

	p := testParser()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}

			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// Failure Tests
// ============================================================================

func TestParse_Failures(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		reason Reason
	}{
		{"empty", "", ReasonGrammarMismatch},
		{"blank", "   ", ReasonGrammarMismatch},
		{"stray character", "12#", ReasonLexicalMismatch},
		{"non-ascii", "12€", ReasonLexicalMismatch},
		{"two numbers", "1 2", ReasonGrammarMismatch},
		{"dangling separator", "3/", ReasonGrammarMismatch},
		{"month out of range", "13/45/2023", ReasonInvalidMonth},
		{"unknown month word", "Foo 4, 2023", ReasonInvalidMonth},
		{"short month word", "Ma 4, 2023", ReasonInvalidMonth},
		{"day past month end", "Feb 29, 2023", ReasonInvalidDay},
		{"day past month end numeric", "4/31/2023", ReasonInvalidDay},
		{"year before epoch", "1/1/1899", ReasonInvalidYear},
		{"year zero", "1/1/00", ReasonInvalidYear},
		{"hour with period", "13 PM", ReasonPeriodHourConflict},
		{"hour minute with period", "13:00 AM", ReasonPeriodHourConflict},
		{"minute overflow with period", "13:70:00 PM", ReasonMinutePeriodConflict},
		{"minute and second overflow", "10:70:80", ReasonAmbiguousOverflow},
		{"hour overflow", "25:70", ReasonInvalidHour},
		{"double negation", "(-5)", ReasonDoubleNegation},
		{"double negation percent", "(-5)%", ReasonDoubleNegation},
		{"overflowing number", "1e400", ReasonOutOfRange},
	}

	p := testParser()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := p.Evaluate(context.Background(), tt.input)
			if o.OK() {
				t.Fatalf("Evaluate(%q) = %v, want failure", tt.input, o.Value)
			}

			if got := o.Reason(); got != tt.reason {
				t.Errorf("Evaluate(%q) reason = %v, want %v (%v)", tt.input, got, tt.reason, o.Err)
			}

			var e *Error
			if !errors.As(o.Err, &e) {
				t.Errorf("Evaluate(%q) error %T is not *Error", tt.input, o.Err)
			}
		})
	}
}

func TestParse_OverflowClass(t *testing.T) {
	_, err := testParser().Parse(context.Background(), "13:70:00 PM")
	if err == nil {
		t.Fatal("expected failure")
	}

	if !ReasonOf(err).Overflow() {
		t.Errorf("reason %v is not an overflow", ReasonOf(err))
	}

	if !ReasonOf(err).Semantic() {
		t.Errorf("reason %v is not semantic", ReasonOf(err))
	}
}

func TestParse_SemanticFailureIsReported(t *testing.T) {
	tests := []struct {
		input  string
		err    error
		column int
	}{
		{"13/45/2023", ErrInvalidMonth, 1},
		{"4/31/2023", ErrInvalidDay, 3},
		{"1/1/1899", ErrInvalidYear, 5},
		{"2023-13-04", ErrInvalidMonth, 6},
		{"Feb 29, 2023", ErrInvalidDay, 5},
		{"Foo 4, 2023", ErrInvalidMonth, 1},
		{"31-Mar-2023", ErrInvalidDay, 8},
	}

	p := testParser()

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := p.Parse(context.Background(), tt.input)
			if !errors.Is(err, tt.err) {
				t.Fatalf("error = %v, want %v", err, tt.err)
			}

			var e *Error
			if !errors.As(err, &e) {
				t.Fatal("not an *Error")
			}

			if pos, ok := e.Position(); !ok || pos.Column != tt.column {
				t.Errorf("position = %v, %v, want column %d", pos, ok, tt.column)
			}
		})
	}
}

func TestParse_LexicalPosition(t *testing.T) {
	_, err := testParser().Parse(context.Background(), "12 #")

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("error = %v, want *Error", err)
	}

	pos, ok := e.Position()
	if !ok {
		t.Fatal("no position")
	}

	if pos.Offset != 3 {
		t.Errorf("offset = %d, want 3", pos.Offset)
	}
}

func TestParse_MonthSuggestion(t *testing.T) {
	_, err := testParser().Parse(context.Background(), "Agust 4, 2023")

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("error = %v, want *Error", err)
	}

	v, ok := e.Attr("suggest")
	if !ok {
		t.Fatal("no suggestion")
	}

	if v.String() != "August" {
		t.Errorf("suggest = %q, want %q", v.String(), "August")
	}
}

func TestParse_FurthestGrammarMismatch(t *testing.T) {
	_, err := testParser().Parse(context.Background(), "3/4/2023 x:")

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("error = %v, want *Error", err)
	}

	// The date consumed five tokens; "x" as an hour name is a month
	// error at the sixth, which outranks mismatches at earlier tokens.
	if e.Reason() != ReasonInvalidMonth {
		t.Errorf("reason = %v, want %v", e.Reason(), ReasonInvalidMonth)
	}
}

// Configuration Tests
// ============================================================================

func TestWithReferenceYear(t *testing.T) {
	tests := []struct {
		year  int
		input string
		want  float64
	}{
		{2026, "Mar 4", 46085},
		{2023, "Mar 4", 44989},
		{2023, "3/4/22", 44624},
		{2023, "3/4/23", 8464},
	}

	for _, tt := range tests {
		p := New(WithReferenceYear(tt.year), WithLogger(log.Logger{}))

		got, err := p.Parse(context.Background(), tt.input)
		if err != nil {
			t.Errorf("year %d: Parse(%q) error: %v", tt.year, tt.input, err)

			continue
		}

		if got != tt.want {
			t.Errorf("year %d: Parse(%q) = %v, want %v", tt.year, tt.input, got, tt.want)
		}
	}
}

func TestPackageParse(t *testing.T) {
	got, err := Parse(context.Background(), "50%", WithLogger(log.Logger{}))
	if err != nil {
		t.Fatal(err)
	}

	if got != 0.5 {
		t.Errorf("Parse = %v, want 0.5", got)
	}
}

func TestParser_Concurrent(t *testing.T) {
	inputs := map[string]float64{
		"3/4/2023":         44989,
		"3:00 PM":          0.625,
		"(100)%":           -1,
		"Mar 4, 2023 6 AM": 44989.25,
		"1,234":            1234,
	}

	p := testParser(WithCache(NewCache(0)))

	var wg sync.WaitGroup

	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for range 50 {
				for input, want := range inputs {
					got, err := p.Parse(context.Background(), input)
					if err != nil || got != want {
						t.Errorf("Parse(%q) = %v, %v, want %v", input, got, err, want)

						return
					}
				}
			}
		}()
	}

	wg.Wait()
}

func TestParser_Logging(t *testing.T) {
	var buf bytes.Buffer

	p := testParser(WithLogger(log.Make(&buf,
		log.WithLevel(log.LevelTrace),
		log.WithFormat(log.FormatJSON),
		log.WithPretty(false),
	)))

	if _, err := p.Parse(context.Background(), "3 PM"); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{`"msg":"try"`, `"msg":"accept"`, `"msg":"parse"`, `"value":0.625`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s:\n%s", want, out)
		}
	}
}

func TestParser_LogsAcceptedComponents(t *testing.T) {
	tests := []struct {
		input   string
		want    []string
		without []string
	}{
		{
			"Mar 4, 2023 3:00 PM",
			[]string{`"date":{"year":2023,"month":3,"day":4}`, `"clock":{"hour":15,`},
			nil,
		},
		{"6:00 PM", []string{`"clock":{"hour":18,`}, []string{`"date"`}},
		{"2023-03-04", []string{`"date":{"year":2023,"month":3,"day":4}`}, []string{`"clock"`}},
		{"$5", nil, []string{`"date"`, `"clock"`}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var buf bytes.Buffer

			p := testParser(WithLogger(log.Make(&buf,
				log.WithLevel(log.LevelDebug),
				log.WithFormat(log.FormatJSON),
				log.WithPretty(false),
			)))

			if _, err := p.Parse(context.Background(), tt.input); err != nil {
				t.Fatal(err)
			}

			var line string
			for l := range strings.Lines(buf.String()) {
				if strings.Contains(l, `"msg":"parse"`) {
					line = l
				}
			}

			for _, want := range tt.want {
				if !strings.Contains(line, want) {
					t.Errorf("parse record missing %s: %s", want, line)
				}
			}

			for _, unwanted := range tt.without {
				if strings.Contains(line, unwanted) {
					t.Errorf("parse record has %s: %s", unwanted, line)
				}
			}
		})
	}
}
