package workerpool

import (
	"log/slog"
)

// Option configures a Pool.
type Option func(*Pool)

// WithLogger sets a custom logger for the Pool.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pool) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithLogHandler sets a custom slog handler for the Pool.
func WithLogHandler(handler slog.Handler) Option {
	return func(p *Pool) {
		if handler != nil {
			p.logger = slog.New(handler).WithGroup("workerpool.Pool")
		}
	}
}

// WithWorkers sets the number of concurrent workers. Values below one are ignored.
func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithQueueSize sets how many tasks may wait for a free worker before Do blocks.
func WithQueueSize(n int) Option {
	return func(p *Pool) {
		if n >= 0 {
			p.queueSize = n
		}
	}
}
