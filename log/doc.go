// Package log provides a concurrency-safe structured logger built on
// [log/slog].
//
// A [Logger] is configured once at creation with functional options and is
// immutable afterward; [Logger.Wrap] and [Logger.With] derive new loggers.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithPretty(false))
//	logger.Info("parsed", slog.Float64("value", 44989))
//
// The package also keeps a default logger used by the package-level
// functions ([Info], [Debug], ...). [Config] reconfigures it; the CLI does
// so while parsing its --log-* flags.
//
// # Levels
//
// [LevelTrace] sits below [LevelDebug] and is used by the value engine to
// report every grammar production it attempts.
//
// # Output
//
// Two formats are supported, [FormatJSON] (default) and [FormatText]. With
// pretty printing enabled (the default) records are rendered with
// lipgloss styles instead of the plain slog handlers.
package log
