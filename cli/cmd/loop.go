package cmd

import (
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/ardnew/sheetval/value"
)

// Loop parses one value per input line until end of input.
type Loop struct{}

// Run executes the loop command.
func (l *Loop) Run(ctx context.Context, opts *Options) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, err := newSession(opts, stdout(ctx))
	if err != nil {
		return err
	}

	var (
		r           io.Reader = os.Stdin
		interactive           = isatty.IsTerminal(os.Stdin.Fd())
	)

	if src := sourceFilesFrom(ctx); src != nil {
		defer src.Close()

		r, interactive = src, interactive && src.Stdin()
	}

	if interactive {
		return s.streaming(ctx, value.Lines(r))
	}

	return s.batched(ctx, value.ReadAheadLines(r))
}
