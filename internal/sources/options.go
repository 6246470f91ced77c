package sources

import (
	"log/slog"
)

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets a custom logger for the Resolver.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithLogHandler sets a custom slog handler for the Resolver.
func WithLogHandler(handler slog.Handler) Option {
	return func(r *Resolver) {
		if handler != nil {
			r.logger = slog.New(handler).WithGroup("sources.Resolver")
		}
	}
}
