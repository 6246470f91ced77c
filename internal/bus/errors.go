package bus

import (
	"errors"
	"fmt"
)

var (
	ErrClosed          = errors.New("bus is closed")
	ErrEmptyAddress    = errors.New("address cannot be empty")
	ErrNilHandler      = errors.New("handler cannot be nil")
	ErrNotRegistered   = errors.New("handler is not registered")
	ErrAlreadyReplied  = errors.New("message already replied to")
	ErrReplyTimeout    = errors.New("timed out waiting for reply")
	ErrNoHandlers      = errors.New("no handlers for address")
	ErrRecipientFailed = errors.New("recipient failed")
)

// FailureKind classifies a ReplyError.
type FailureKind int

const (
	// FailureRecipient means the handler answered with Fail.
	FailureRecipient FailureKind = iota
	// FailureTimeout means no reply arrived before the deadline.
	FailureTimeout
	// FailureNoHandlers means nothing was registered at the address.
	FailureNoHandlers
)

func (k FailureKind) String() string {
	switch k {
	case FailureRecipient:
		return "RECIPIENT_FAILURE"
	case FailureTimeout:
		return "TIMEOUT"
	case FailureNoHandlers:
		return "NO_HANDLERS"
	default:
		return fmt.Sprintf("FailureKind(%d)", int(k))
	}
}

// ReplyError is returned by Request when the exchange did not end in a successful reply.
type ReplyError struct {
	Kind    FailureKind
	Code    int
	Message string
}

func (e *ReplyError) Error() string {
	if e.Kind == FailureRecipient {
		return fmt.Sprintf("%s (code %d): %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches the package sentinel for the failure kind.
func (e *ReplyError) Is(target error) bool {
	switch target {
	case ErrRecipientFailed:
		return e.Kind == FailureRecipient
	case ErrReplyTimeout:
		return e.Kind == FailureTimeout
	case ErrNoHandlers:
		return e.Kind == FailureNoHandlers
	}
	return false
}
