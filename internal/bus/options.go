package bus

import (
	"context"
	"log/slog"
	"time"
)

// Option configures an EventBus.
type Option func(*EventBus)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *EventBus) {
		b.logger = logger
	}
}

// WithLogHandler sets the log handler, grouped under "bus.EventBus".
func WithLogHandler(handler slog.Handler) Option {
	return func(b *EventBus) {
		b.logger = slog.New(handler).WithGroup("bus.EventBus")
	}
}

// WithContext sets the parent context handed to handlers. Canceling it closes the bus.
func WithContext(ctx context.Context) Option {
	return func(b *EventBus) {
		b.parentCtx = ctx
	}
}

// WithReplyTimeout sets the default time a Request waits for a reply when the caller's context
// has no earlier deadline.
func WithReplyTimeout(timeout time.Duration) Option {
	return func(b *EventBus) {
		if timeout > 0 {
			b.replyTimeout = timeout
		}
	}
}
