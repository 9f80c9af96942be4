//go:build pprof

package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/sheetval/log"
	"github.com/ardnew/sheetval/profile"
)

type pprofConfig struct {
	Mode string `default:""            enum:",${pprofModeEnum}" help:"Enable profiling" placeholder:"${enum}" short:"p"`
	Dir  string `default:"${pprofDir}" help:"Profile output directory" type:"path"`
}

func (pprofConfig) vars() kong.Vars {
	return kong.Vars{
		"pprofModeEnum": strings.Join(profile.Modes(), ","),
		"pprofDir":      filepath.Join(cacheDir(), profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	return kong.Group{Key: "pprof", Title: "Profiling (pprof)"}
}

// start starts profiling if configured.
func (f pprofConfig) start(ctx context.Context) profile.Stopper {
	p := profile.Profiler{Mode: f.Mode, Path: f.Dir, Quiet: true}
	if p.Mode == "" {
		return p.Start()
	}

	attrs := []slog.Attr{slog.String("mode", f.Mode), slog.String("dir", f.Dir)}

	log.DebugContext(ctx, "pprof start", attrs...)

	return loggedStop{ctx: ctx, attrs: attrs, Stopper: p.Start()}
}

type loggedStop struct {
	profile.Stopper

	ctx   context.Context
	attrs []slog.Attr
}

func (s loggedStop) Stop() {
	log.DebugContext(s.ctx, "pprof stop", s.attrs...)
	s.Stopper.Stop()
}
