// Package profile provides optional runtime profiling through
// [github.com/pkg/profile].
//
// Profiling support is compiled in only with the pprof build tag:
//
//	go build -tags pprof .
//
// Without the tag [Profiler.Start] always returns a no-op and [Modes] is
// empty, so callers never need their own build constraints.
//
//	stop := profile.Profiler{Mode: "cpu", Path: dir, Quiet: true}.Start()
//	defer stop.Stop()
//
// The supported modes are allocs, block, clock, cpu, goroutine, heap, mem,
// mutex, thread, and trace. Inspect the output with go tool pprof, or go
// tool trace for the trace mode.
package profile
