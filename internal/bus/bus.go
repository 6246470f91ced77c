// Package bus is an in-process, addressable request/reply message bus. Handlers register on a
// string address; Request delivers a body to one handler (round robin when several are
// registered) and waits for its reply or failure.
package bus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
)

// DefaultReplyTimeout bounds Request when neither the caller nor WithReplyTimeout sets one.
const DefaultReplyTimeout = 30 * time.Second

// Handler processes a message. It runs on its own goroutine and should answer with
// msg.Reply or msg.Fail.
type Handler func(ctx context.Context, msg *Message)

type registration struct {
	id      string
	handler Handler
}

type addressEntry struct {
	registrations []registration
	next          int
}

// EventBus routes requests to registered handlers.
type EventBus struct {
	logger       *slog.Logger
	parentCtx    context.Context
	replyTimeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	addresses map[string]*addressEntry
	closed    bool

	inFlight sync.WaitGroup
}

// New creates an EventBus.
func New(opts ...Option) *EventBus {
	b := &EventBus{
		logger:       slog.Default().WithGroup("bus.EventBus"),
		parentCtx:    context.Background(),
		replyTimeout: DefaultReplyTimeout,
		addresses:    make(map[string]*addressEntry),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.ctx, b.cancel = context.WithCancel(b.parentCtx)
	return b
}

// RegisterHandler adds a handler at address and returns its registration ID.
func (b *EventBus) RegisterHandler(address string, handler Handler) (string, error) {
	if address == "" {
		return "", ErrEmptyAddress
	}
	if handler == nil {
		return "", ErrNilHandler
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || b.ctx.Err() != nil {
		return "", ErrClosed
	}

	entry, ok := b.addresses[address]
	if !ok {
		entry = &addressEntry{}
		b.addresses[address] = entry
	}
	id := uuid.Must(uuid.NewV6()).String()
	entry.registrations = append(entry.registrations, registration{id: id, handler: handler})

	b.logger.Debug("Handler registered", "address", address, "registrationID", id)
	return id, nil
}

// Unregister removes the handler with the given registration ID from address.
func (b *EventBus) Unregister(address, registrationID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.addresses[address]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotRegistered, address)
	}
	for i, reg := range entry.registrations {
		if reg.id != registrationID {
			continue
		}
		entry.registrations = append(entry.registrations[:i], entry.registrations[i+1:]...)
		if len(entry.registrations) == 0 {
			delete(b.addresses, address)
		}
		b.logger.Debug("Handler unregistered", "address", address, "registrationID", registrationID)
		return nil
	}
	return fmt.Errorf("%w: %s at %s", ErrNotRegistered, registrationID, address)
}

// HasHandlers reports whether anything is registered at address.
func (b *EventBus) HasHandlers(address string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	entry, ok := b.addresses[address]
	return ok && len(entry.registrations) > 0
}

func (b *EventBus) pick(address string) (Handler, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrClosed
	}
	entry, ok := b.addresses[address]
	if !ok || len(entry.registrations) == 0 {
		return nil, &ReplyError{
			Kind:    FailureNoHandlers,
			Code:    -1,
			Message: fmt.Sprintf("no handlers for address %s", address),
		}
	}
	reg := entry.registrations[entry.next%len(entry.registrations)]
	entry.next++
	b.inFlight.Add(1)
	return reg.handler, nil
}

// Request delivers body to a handler at address and waits for the answer. A failed exchange
// returns a *ReplyError. When the wait times out the handler keeps running and its eventual
// reply is discarded.
func (b *EventBus) Request(ctx context.Context, address string, body []byte) ([]byte, error) {
	if address == "" {
		return nil, ErrEmptyAddress
	}
	handler, err := b.pick(address)
	if err != nil {
		return nil, err
	}

	msg := newMessage(uuid.Must(uuid.NewV6()).String(), address, body)
	logger := b.logger.With("address", address, "messageID", msg.ID)

	go b.deliver(logger, handler, msg)

	waitCtx, cancel := context.WithTimeout(ctx, b.replyTimeout)
	defer cancel()

	select {
	case r := <-msg.replyCh:
		if r.err != nil {
			return nil, r.err
		}
		return r.body, nil
	case <-waitCtx.Done():
		logger.Warn("Request timed out", "error", waitCtx.Err())
		return nil, &ReplyError{
			Kind:    FailureTimeout,
			Code:    -1,
			Message: fmt.Sprintf("timed out waiting for reply from %s: %v", address, waitCtx.Err()),
		}
	case <-b.ctx.Done():
		return nil, ErrClosed
	}
}

func (b *EventBus) deliver(logger *slog.Logger, handler Handler, msg *Message) {
	defer b.inFlight.Done()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Handler panicked", "panic", r)
			if err := msg.Fail(-1, fmt.Sprintf("handler panic: %v", r)); err != nil {
				logger.Debug("Handler replied before panicking", "error", err)
			}
		}
	}()
	handler(b.ctx, msg)
}

// Close stops accepting requests, cancels the handler context and waits for in-flight
// handlers to return.
func (b *EventBus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.addresses = make(map[string]*addressEntry)
	b.mu.Unlock()

	b.cancel()
	b.inFlight.Wait()
	b.logger.Debug("Bus closed")
}
