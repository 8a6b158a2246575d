// Package cli implements the vivify command-line interface.
//
// The commands build nested mappings from key-path listings, JSON or TOML,
// count delimited records into bounded mappings, and print or browse the
// result. The CLI is built using cobra and logs via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - build: Read a key-path listing, JSON or TOML document into a mapping
//   - count: Count delimited records into a bounded mapping of counters
//   - browse: Explore a mapping in an interactive terminal browser
//   - config: Show the configuration file in use and its effective values
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging; the
// log_level config key sets the default level. Loggers are passed through
// context.Context to allow timed progress messages.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vivify/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Counted 1200 records (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if none
// is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHooks reports codec events at debug level to the logger carried by
// the event's context.
type logHooks struct {
	observability.NoopCodecHooks
}

func (logHooks) OnReadComplete(ctx context.Context, format string, leaves int, d time.Duration, err error) {
	l := loggerFromContext(ctx)
	if err != nil {
		l.Debug("decode failed", "format", format, "took", d.Round(time.Microsecond), "err", err)
		return
	}
	l.Debug("decoded", "format", format, "leaves", leaves, "took", d.Round(time.Microsecond))
}

func (logHooks) OnWriteComplete(ctx context.Context, format string, d time.Duration, err error) {
	l := loggerFromContext(ctx)
	if err != nil {
		l.Debug("encode failed", "format", format, "took", d.Round(time.Microsecond), "err", err)
		return
	}
	l.Debug("encoded", "format", format, "took", d.Round(time.Microsecond))
}
