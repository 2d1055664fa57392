// Package logger is a thin wrapper around log/slog for shellgate's
// diagnostics. Everything goes to stderr: stdout belongs to the hook
// protocol, and a stray log line there would corrupt the decision JSON
// Claude Code reads back.
//
// The package-level functions are nil-safe, so code paths that run
// before Init (config loading, early failures) may log freely and the
// output is simply dropped.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	log     *slog.Logger
	once    sync.Once
	verbose bool
)

// Options configures the logger.
type Options struct {
	// Verbose lowers the level from error to debug.
	Verbose bool
	// Output overrides the destination; nil means os.Stderr.
	Output io.Writer
	// JSON selects the slog JSON handler over the text handler.
	JSON bool
}

// Init installs the global logger. Only the first call takes effect;
// later calls are ignored so library code cannot reconfigure logging
// out from under the command that set it up.
func Init(opts Options) {
	once.Do(func() {
		verbose = opts.Verbose
		log = slog.New(newHandler(opts))
	})
}

func newHandler(opts Options) slog.Handler {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	level := slog.LevelError
	if opts.Verbose {
		level = slog.LevelDebug
	}
	hopts := &slog.HandlerOptions{Level: level}
	if opts.JSON {
		return slog.NewJSONHandler(out, hopts)
	}
	return slog.NewTextHandler(out, hopts)
}

// Reset clears the global logger so tests can re-Init with different
// options.
func Reset() {
	once = sync.Once{}
	log = nil
	verbose = false
}

// IsVerbose reports whether debug logging is enabled. Callers use it to
// skip building expensive trace output that would be discarded anyway.
func IsVerbose() bool {
	return verbose
}

// Debug logs at debug level.
func Debug(msg string, args ...any) {
	if log != nil {
		log.Debug(msg, args...)
	}
}

// Info logs at info level.
func Info(msg string, args ...any) {
	if log != nil {
		log.Info(msg, args...)
	}
}

// Warn logs at warn level.
func Warn(msg string, args ...any) {
	if log != nil {
		log.Warn(msg, args...)
	}
}

// Error logs at error level.
func Error(msg string, args ...any) {
	if log != nil {
		log.Error(msg, args...)
	}
}

// With returns a logger carrying additional context attributes.
func With(args ...any) *slog.Logger {
	if log == nil {
		return slog.Default()
	}
	return log.With(args...)
}
