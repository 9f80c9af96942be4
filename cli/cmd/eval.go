package cmd

import (
	"context"
	"io"
	"iter"
	"log/slog"

	"github.com/ardnew/sheetval/log"
	"github.com/ardnew/sheetval/value"
)

// batchSize is the number of lines evaluated together on non-interactive
// input.
const batchSize = 1024

// session evaluates inputs and writes their records.
type session struct {
	parser *value.Parser
	xform  transform
	out    writer
	opts   *Options
	logger log.Logger
}

func newSession(opts *Options, w io.Writer) (*session, error) {
	xform, err := compileTransform(opts.Expr)
	if err != nil {
		return nil, err
	}

	logger := log.Default()

	return &session{
		parser: opts.Parser(logger),
		xform:  xform,
		out:    newWriter(w, opts),
		opts:   opts,
		logger: logger,
	}, nil
}

func (s *session) emit(input string, o value.Outcome) error {
	r, err := s.xform.record(input, o)
	if err != nil {
		return err
	}

	return s.out.write(r)
}

// streaming evaluates each line as soon as it is read.
func (s *session) streaming(ctx context.Context, lines iter.Seq2[string, error]) error {
	for line, err := range lines {
		if err != nil {
			return ErrReadInput.Wrap(err)
		}

		if err := s.emit(line, s.parser.Evaluate(ctx, line)); err != nil {
			return err
		}

		if err := ctx.Err(); err != nil {
			return err
		}
	}

	return s.out.flush()
}

// batched evaluates lines concurrently in fixed-size batches, writing
// results in input order.
func (s *session) batched(ctx context.Context, lines iter.Seq2[string, error]) error {
	batch := make([]string, 0, batchSize)

	drain := func() error {
		if len(batch) == 0 {
			return nil
		}

		outcomes, err := s.parser.EvaluateAll(ctx, batch, s.opts.Workers)
		if err != nil {
			return err
		}

		s.logger.DebugContext(ctx, "batch",
			slog.Int("lines", len(batch)),
			slog.Int("workers", s.opts.Workers))

		for i, o := range outcomes {
			if err := s.emit(batch[i], o); err != nil {
				return err
			}
		}

		batch = batch[:0]

		return nil
	}

	for line, err := range lines {
		if err != nil {
			return ErrReadInput.Wrap(err)
		}

		batch = append(batch, line)
		if len(batch) == batchSize {
			if err := drain(); err != nil {
				return err
			}
		}
	}

	if err := drain(); err != nil {
		return err
	}

	return s.out.flush()
}

// all evaluates a fixed list of inputs.
func (s *session) all(ctx context.Context, inputs []string) error {
	outcomes, err := s.parser.EvaluateAll(ctx, inputs, s.opts.Workers)
	if err != nil {
		return err
	}

	for i, o := range outcomes {
		if err := s.emit(inputs[i], o); err != nil {
			return err
		}
	}

	return s.out.flush()
}
