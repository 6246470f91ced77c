package rpcbridge

import (
	"log/slog"
)

// Option represents a functional option for configuring Runner.
type Option func(*Runner)

// WithLogHandler sets a custom slog handler for the Runner instance.
func WithLogHandler(handler slog.Handler) Option {
	return func(r *Runner) {
		if handler != nil {
			r.logger = slog.New(handler).WithGroup("rpcbridge.Runner")
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

// WithAddress sets the bus address requests are forwarded to.
func WithAddress(address string) Option {
	return func(r *Runner) {
		if address != "" {
			r.address = address
		}
	}
}

// WithGRPCServer replaces the gRPC server the Runner starts, for tests.
func WithGRPCServer(server GRPCServer) Option {
	return func(r *Runner) {
		if server != nil {
			r.grpcServer = server
		}
	}
}
