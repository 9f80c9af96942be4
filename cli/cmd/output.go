package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/goccy/go-yaml"
	"github.com/olekukonko/tablewriter"

	"github.com/ardnew/sheetval/value"
)

// Record is one evaluated input as written by the json, yaml, and table
// formats.
type Record struct {
	Input  string  `json:"input"            yaml:"input"`
	OK     bool    `json:"ok"               yaml:"ok"`
	Value  float64 `json:"value"            yaml:"value"`
	Reason string  `json:"reason,omitempty" yaml:"reason,omitempty"`
	Error  string  `json:"error,omitempty"  yaml:"error,omitempty"`
	Result any     `json:"result,omitempty" yaml:"result,omitempty"`
}

// exprEnv is the environment visible to --expr programs.
type exprEnv struct {
	Value    float64 `expr:"value"`
	Text     string  `expr:"text"`
	OK       bool    `expr:"ok"`
	Days     float64 `expr:"days"`
	Fraction float64 `expr:"fraction"`
	Reason   string  `expr:"reason"`
}

// transform post-processes outcomes with an optional expr program.
type transform struct {
	program *vm.Program
}

func compileTransform(src string) (transform, error) {
	if src == "" {
		return transform{}, nil
	}

	program, err := expr.Compile(src, expr.Env(exprEnv{}))
	if err != nil {
		return transform{}, ErrCompileExpr.
			With(slog.String("expr", src)).
			Wrap(err)
	}

	return transform{program: program}, nil
}

// record builds the output record for one outcome.
func (t transform) record(input string, o value.Outcome) (Record, error) {
	r := Record{Input: input, OK: o.OK(), Value: o.Value}
	if !o.OK() {
		r.Reason = o.Reason().String()
		r.Error = o.Err.Error()
	}

	if t.program == nil {
		return r, nil
	}

	days := math.Floor(o.Value)
	env := exprEnv{
		Value:    o.Value,
		Text:     input,
		OK:       o.OK(),
		Days:     days,
		Fraction: o.Value - days,
		Reason:   r.Reason,
	}

	out, err := expr.Run(t.program, env)
	if err != nil {
		return r, ErrRunExpr.
			With(slog.String("input", input)).
			Wrap(err)
	}

	r.Result = out

	return r, nil
}

// writer renders records in one output format.
type writer interface {
	write(Record) error
	flush() error
}

func newWriter(w io.Writer, opts *Options) writer {
	switch opts.Format {
	case "json":
		return jsonWriter{enc: json.NewEncoder(w)}
	case "yaml":
		return yamlWriter{w: w}
	case "table":
		return &tableWriter{w: w, precision: opts.Precision}
	default:
		return textWriter{w: w, precision: opts.Precision, reason: opts.Reason}
	}
}

// textWriter prints one line per record, matching the classic
// "Successful parse" / "Unsuccessful parse" output.
type textWriter struct {
	w         io.Writer
	precision int
	reason    bool
}

func formatValue(v float64, precision int) string {
	return strconv.FormatFloat(v, 'g', precision, 64)
}

func (t textWriter) write(r Record) error {
	var err error

	switch {
	case r.OK && r.Result != nil:
		_, err = fmt.Fprintf(t.w, "Successful parse: %v\n", r.Result)
	case r.OK:
		_, err = fmt.Fprintf(t.w, "Successful parse: %s\n", formatValue(r.Value, t.precision))
	case t.reason:
		_, err = fmt.Fprintf(t.w, "Unsuccessful parse: %s\n", r.Reason)
	default:
		_, err = fmt.Fprintln(t.w, "Unsuccessful parse")
	}

	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

func (textWriter) flush() error { return nil }

type jsonWriter struct{ enc *json.Encoder }

func (j jsonWriter) write(r Record) error {
	if err := j.enc.Encode(r); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

func (jsonWriter) flush() error { return nil }

// yamlWriter emits each record as an item of one top-level sequence.
type yamlWriter struct{ w io.Writer }

func (y yamlWriter) write(r Record) error {
	b, err := yaml.Marshal([]Record{r})
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	if _, err := y.w.Write(b); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

func (yamlWriter) flush() error { return nil }

// tableWriter buffers rows and renders them on flush.
type tableWriter struct {
	w         io.Writer
	precision int
	rows      [][]string
}

func (t *tableWriter) write(r Record) error {
	row := []string{r.Input, "", r.Reason}

	switch {
	case r.OK && r.Result != nil:
		row[1] = fmt.Sprint(r.Result)
	case r.OK:
		row[1] = formatValue(r.Value, t.precision)
	}

	t.rows = append(t.rows, row)

	return nil
}

func (t *tableWriter) flush() error {
	if len(t.rows) == 0 {
		return nil
	}

	table := tablewriter.NewWriter(t.w)
	table.SetHeader([]string{"Input", "Value", "Reason"})
	table.SetAutoWrapText(false)
	table.AppendBulk(t.rows)
	table.Render()

	t.rows = t.rows[:0]

	return nil
}
