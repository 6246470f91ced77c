package orchestrator

import (
	"log/slog"

	"github.com/atlanticdynamic/jscompiler/internal/compiler"
)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogHandler sets the handler that request logs are written to.
func WithLogHandler(handler slog.Handler) Option {
	return func(o *Orchestrator) {
		o.handler = handler
	}
}

// WithAddress sets the bus address reported in InvalidRequest messages.
func WithAddress(address string) Option {
	return func(o *Orchestrator) {
		if address != "" {
			o.address = address
		}
	}
}

// WithExterns sets extern identifiers, resolved through the source resolver on every request.
func WithExterns(identifiers []string) Option {
	return func(o *Orchestrator) {
		o.externs = identifiers
	}
}

// WithOptimizationLevel overrides the compiler profile.
func WithOptimizationLevel(level compiler.OptimizationLevel) Option {
	return func(o *Orchestrator) {
		o.level = level
	}
}
