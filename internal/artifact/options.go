package artifact

import (
	"io/fs"
	"log/slog"
)

// Option configures a Writer.
type Option func(*Writer)

// WithLogger sets a custom logger for the Writer.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Writer) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithLogHandler sets a custom slog handler for the Writer.
func WithLogHandler(handler slog.Handler) Option {
	return func(w *Writer) {
		if handler != nil {
			w.logger = slog.New(handler).WithGroup("artifact.Writer")
		}
	}
}

// WithBaseDir resolves relative artifact paths against dir instead of the working directory.
func WithBaseDir(dir string) Option {
	return func(w *Writer) {
		w.baseDir = dir
	}
}

// WithConfinement restricts artifact paths to the base directory, or to the working directory
// when no base directory is set. Absolute paths and paths containing ".." that leave it are
// rejected.
func WithConfinement(confine bool) Option {
	return func(w *Writer) {
		w.confine = confine
	}
}

// WithFileMode sets the permissions used for written artifacts.
func WithFileMode(mode fs.FileMode) Option {
	return func(w *Writer) {
		w.fileMode = mode
	}
}

// WithDirMode sets the permissions used for created directories.
func WithDirMode(mode fs.FileMode) Option {
	return func(w *Writer) {
		w.dirMode = mode
	}
}
