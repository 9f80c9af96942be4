package value

import (
	"bufio"
	"context"
	"io"
	"iter"

	"github.com/klauspost/readahead"
	"golang.org/x/sync/errgroup"
)

// Lines returns an iterator over the lines of r without their line
// endings. A read error is yielded once, with an empty line, and ends the
// sequence.
func Lines(r io.Reader) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			if !yield(sc.Text(), nil) {
				return
			}
		}

		if err := sc.Err(); err != nil {
			yield("", err)
		}
	}
}

// ReadAheadLines is [Lines] over a reader that prefetches r concurrently.
// Use it for files and pipes; interactive input blocks until each buffer
// fills.
func ReadAheadLines(r io.Reader) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		ra := readahead.NewReader(r)
		defer ra.Close()

		for line, err := range Lines(ra) {
			if !yield(line, err) {
				return
			}
		}
	}
}

// EvaluateAll evaluates lines on up to workers goroutines and returns the
// outcomes in input order. workers < 1 means one per line. Only context
// cancellation produces an error; parse failures are reported per outcome.
func (p *Parser) EvaluateAll(ctx context.Context, lines []string, workers int) ([]Outcome, error) {
	out := make([]Outcome, len(lines))

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, line := range lines {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			out[i] = p.Evaluate(gctx, line)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return out, err
	}

	return out, ctx.Err()
}
