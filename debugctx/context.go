// Package debugctx carries the process logger through contexts.
//
// Verbosity follows logr: V(0) records warnings, V(1) informational lines and
// V(2) debug traces such as HTTP exchanges. Errors are always recorded.
package debugctx

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"

	"github.com/crmarques/soldo/faults"
)

const (
	VerbosityWarning = 0
	VerbosityInfo    = 1
	VerbosityDebug   = 2
)

func WithLogger(ctx context.Context, logger logr.Logger) context.Context {
	return logr.NewContext(ctx, logger)
}

// Logger returns the context logger or a discarding one.
func Logger(ctx context.Context) logr.Logger {
	if ctx == nil {
		return logr.Discard()
	}
	return logr.FromContextOrDiscard(ctx)
}

func Enabled(ctx context.Context) bool {
	return Logger(ctx).V(VerbosityDebug).Enabled()
}

func Printf(ctx context.Context, format string, args ...any) {
	logger := Logger(ctx).V(VerbosityDebug)
	if !logger.Enabled() {
		return
	}

	message := strings.TrimSpace(fmt.Sprintf(format, args...))
	if message == "" {
		return
	}
	logger.Info(message)
}

func Infof(ctx context.Context, format string, args ...any) {
	Logger(ctx).V(VerbosityInfo).Info(fmt.Sprintf(format, args...))
}

func Warnf(ctx context.Context, format string, args ...any) {
	Logger(ctx).V(VerbosityWarning).Info(fmt.Sprintf(format, args...), "severity", "warning")
}

// NewLogger writes key=value lines to writer. level is one of error, warning,
// info or debug; unknown levels behave like info.
func NewLogger(writer io.Writer, level string) logr.Logger {
	if writer == nil {
		return logr.Discard()
	}

	verbosity := VerbosityInfo
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		verbosity = -1
	case "warning":
		verbosity = VerbosityWarning
	case "debug":
		verbosity = VerbosityDebug
	}

	sink := funcr.New(func(prefix string, args string) {
		if prefix != "" {
			_, _ = fmt.Fprintf(writer, "%s: %s\n", prefix, args)
			return
		}
		_, _ = fmt.Fprintln(writer, args)
	}, funcr.Options{
		LogTimestamp: true,
		Verbosity:    max(verbosity, 0),
	}).GetSink()

	if verbosity < 0 {
		sink = errorsOnlySink{LogSink: sink}
	}
	return logr.New(sink)
}

// Open builds the logger described by a log section. A disabled section
// yields a discarding logger; an empty file logs to fallback.
func Open(enabled bool, level string, file string, fallback io.Writer) (logr.Logger, io.Closer, error) {
	if !enabled {
		return logr.Discard(), io.NopCloser(nil), nil
	}

	path := strings.TrimSpace(file)
	if path == "" {
		return NewLogger(fallback, level), io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return logr.Discard(), nil, faults.NewTypedError(faults.InternalError, "failed to create log directory", err)
	}
	handle, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return logr.Discard(), nil, faults.NewTypedError(faults.InternalError, fmt.Sprintf("failed to open log file %q", path), err)
	}
	return NewLogger(handle, level), handle, nil
}

type errorsOnlySink struct {
	logr.LogSink
}

func (errorsOnlySink) Enabled(int) bool {
	return false
}

func (s errorsOnlySink) WithValues(keysAndValues ...any) logr.LogSink {
	return errorsOnlySink{LogSink: s.LogSink.WithValues(keysAndValues...)}
}

func (s errorsOnlySink) WithName(name string) logr.LogSink {
	return errorsOnlySink{LogSink: s.LogSink.WithName(name)}
}
