package cmd

import "context"

// Parse evaluates each argument as a separate input.
type Parse struct {
	Text []string `arg:"" help:"Values to parse." name:"text"`
}

// Run executes the parse command.
func (p *Parse) Run(ctx context.Context, opts *Options) error {
	s, err := newSession(opts, stdout(ctx))
	if err != nil {
		return err
	}

	return s.all(ctx, p.Text)
}
