// Package cmd implements the sheetval subcommands.
//
// Every command evaluates text with a [value.Parser] built from the shared
// [Options] and writes one record per input in the selected output format.
//
//   - [Loop] reads one value per line from the source files or stdin.
//   - [Parse] evaluates its arguments.
//   - [Repl] starts an interactive session.
//   - [Init] writes the current flags to the configuration file.
//   - [Version] prints the program version.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
