package mcpbridge

import (
	"log/slog"
	"time"
)

// Option configures a Runner.
type Option func(*Runner)

// WithLogHandler sets a custom slog handler for the Runner instance.
func WithLogHandler(handler slog.Handler) Option {
	return func(r *Runner) {
		if handler != nil {
			r.logger = slog.New(handler).WithGroup("mcpbridge.Runner")
		}
	}
}

// WithLogger sets a logger for the Runner instance.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithAddress sets the bus address tool calls are forwarded to.
func WithAddress(address string) Option {
	return func(r *Runner) {
		if address != "" {
			r.address = address
		}
	}
}

// WithPath sets the HTTP path the MCP endpoint is served on.
func WithPath(path string) Option {
	return func(r *Runner) {
		if path != "" {
			r.path = path
		}
	}
}

// WithVersion sets the server version reported to MCP clients.
func WithVersion(version string) Option {
	return func(r *Runner) {
		if version != "" {
			r.version = version
		}
	}
}

// WithDrainTimeout bounds how long shutdown waits for open MCP sessions.
func WithDrainTimeout(timeout time.Duration) Option {
	return func(r *Runner) {
		r.drainTimeout = timeout
	}
}
