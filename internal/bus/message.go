package bus

import "sync/atomic"

// Message is a single delivery to a handler. It must be answered at most once, with Reply or
// Fail.
type Message struct {
	ID      string
	Address string
	Body    []byte

	replied atomic.Bool
	replyCh chan reply
}

type reply struct {
	body []byte
	err  *ReplyError
}

func newMessage(id, address string, body []byte) *Message {
	return &Message{
		ID:      id,
		Address: address,
		Body:    body,
		replyCh: make(chan reply, 1),
	}
}

// Reply answers the message successfully.
func (m *Message) Reply(body []byte) error {
	return m.send(reply{body: body})
}

// Fail answers the message with an application failure code and message.
func (m *Message) Fail(code int, message string) error {
	return m.send(reply{err: &ReplyError{Kind: FailureRecipient, Code: code, Message: message}})
}

// Replied reports whether Reply or Fail has been called.
func (m *Message) Replied() bool {
	return m.replied.Load()
}

func (m *Message) send(r reply) error {
	if !m.replied.CompareAndSwap(false, true) {
		return ErrAlreadyReplied
	}
	// buffered, and only one send ever happens, so this never blocks even after the
	// requester gave up
	m.replyCh <- r
	return nil
}
