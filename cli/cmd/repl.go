package cmd

import (
	"context"

	"github.com/ardnew/sheetval/cli/cmd/repl"
	"github.com/ardnew/sheetval/log"
	"github.com/ardnew/sheetval/value"
)

// Repl starts an interactive session.
type Repl struct{}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context, opts *Options) error {
	cfg := repl.Config{
		Year:     opts.Year,
		CacheDir: modelVar(ctx, CacheIdentifier),
		Logger:   log.Default(),
	}

	if opts.Cache > 0 {
		cfg.Cache = value.NewCache(opts.Cache)
	}

	return repl.Run(ctx, cfg)
}
