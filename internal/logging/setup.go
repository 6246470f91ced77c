// Package logging builds the slog handlers used by the server and the CLI.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// levelSettings maps a level name onto slog's levels. "trace" is debug plus caller info.
func levelSettings(logLevel string) (level slog.Level, reportCaller bool) {
	switch strings.ToLower(logLevel) {
	case "trace":
		return slog.LevelDebug, true
	case "debug":
		return slog.LevelDebug, false
	case "warn", "warning":
		return slog.LevelWarn, false
	case "error":
		return slog.LevelError, false
	default:
		return slog.LevelInfo, false
	}
}

// SetupHandlerText configures a charmbracelet text handler with the provided writer and log level
func SetupHandlerText(logLevel string, writer io.Writer) slog.Handler {
	if writer == nil {
		writer = os.Stderr
	}

	level, reportCaller := levelSettings(logLevel)
	return log.NewWithOptions(writer, log.Options{
		ReportTimestamp: level <= slog.LevelDebug,
		ReportCaller:    reportCaller,
		Level:           log.Level(level),
	})
}

// SetupHandlerJSON configures a JSON slog handler with the provided writer and log level
func SetupHandlerJSON(logLevel string, writer io.Writer) slog.Handler {
	if writer == nil {
		writer = os.Stdout
	}

	level, reportCaller := levelSettings(logLevel)
	return slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level:     level,
		AddSource: reportCaller,
	})
}

// NewHandler picks the handler for format ("json" or anything else for text).
func NewHandler(format, logLevel string, writer io.Writer) slog.Handler {
	if strings.EqualFold(format, "json") {
		return SetupHandlerJSON(logLevel, writer)
	}
	return SetupHandlerText(logLevel, writer)
}

// SetupLogger opens output, installs a handler for it as the slog default, and returns the
// handler together with the writer to close on shutdown.
func SetupLogger(format, logLevel, output string) (slog.Handler, io.Closer, error) {
	w, err := OpenOutput(output)
	if err != nil {
		return nil, nil, err
	}
	handler := NewHandler(format, logLevel, w)
	slog.SetDefault(slog.New(handler))
	return handler, w, nil
}
