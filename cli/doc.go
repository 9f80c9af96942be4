// Package cli contains the command line interface for sheetval.
//
// # Usage
//
// Without a subcommand, sheetval reads one value per line from the
// --source files or stdin and reports each result:
//
//	$ printf '3/4/2023\nMar 4, 2023 3:00 PM\n50%%\n' | sheetval
//	Successful parse: 44989
//	Successful parse: 44989.625
//	Successful parse: 0.5
//
// The parse subcommand evaluates its arguments instead, and repl starts an
// interactive session with month-name completion and history.
//
// # Configuration
//
// Flags may be stored in a YAML file in the user configuration directory
// (see [loadYAML]). The init subcommand writes the current flags there.
// Command-line flags override the file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/sheetval/pprof)
package cli
