// Package value parses free-text spreadsheet input into numeric values.
//
// A single [Parser] recognizes plain and grouped numbers, percentages,
// currency amounts, parenthesized negatives, calendar dates written in
// several field orders, 12- and 24-hour clock times, and date-time
// combinations. Every accepted input reduces to one float64 using the
// spreadsheet serial date convention: the integer part counts days from
// the 1900 epoch (including the nonexistent 29 February 1900) and the
// fraction is the time of day.
//
//	p := value.New()
//	v, err := p.Parse(ctx, "Mar 4, 2023 3:00 PM") // 44989.625
//
// Parsing is three steps. [Lex] classifies the input into tokens. An
// ordered grammar is then matched against the tokens: at each rule the
// first alternative whose shape matches and whose semantic action accepts
// the captured fields wins. Semantic actions validate dates with
// [ResolveDate] and times with [ResolveTime].
//
// Ambiguous field orders are settled by fixed rules. Three numbers are
// month-day-year unless the first is a full year. A number, month word,
// and number are year-month-day unless the first fits a day and the last is
// a full year. Two-digit years are expanded around the reference year with
// [ExpandYear].
//
// Failures are [*Error] values carrying a [Reason]. When no alternative
// accepts the input, the error reported is the one that got furthest.
package value
