package cmd

import (
	"github.com/ardnew/sheetval/log"
	"github.com/ardnew/sheetval/value"
)

// Options are the evaluation flags shared by every command.
type Options struct {
	Year      int    `default:"0"    help:"Reference year for two-digit years and dates without a year (0 = current)." short:"y"`
	Precision int    `default:"-1"   help:"Significant digits of values in text and table output (-1 = as many as needed)."`
	Format    string `default:"text" enum:"text,json,yaml,table" help:"Output format (${enum})." short:"o"`
	Expr      string `help:"Expression computing the printed result; sees value, text, ok, days, fraction, reason." short:"e"`
	Reason    bool   `help:"Append the failure reason in text output."`
	Workers   int    `default:"0"    help:"Concurrent evaluators for non-interactive input (0 = one per line)." short:"j"`
	Cache     int    `default:"4096" help:"Number of outcomes to memoize (0 disables)."`
}

// Parser returns a value parser configured from o.
func (o *Options) Parser(logger log.Logger) *value.Parser {
	opts := []value.Option{value.WithLogger(logger)}

	if o.Year != 0 {
		opts = append(opts, value.WithReferenceYear(o.Year))
	}

	if o.Cache > 0 {
		opts = append(opts, value.WithCache(value.NewCache(o.Cache)))
	}

	return value.New(opts...)
}
