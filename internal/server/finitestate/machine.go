// Package finitestate provides the lifecycle state machine shared by every runnable in the
// server: the worker pool, the compile service and the bridges.
package finitestate

import (
	"context"
	"log/slog"
	"time"

	"github.com/robbyt/go-fsm"
)

const (
	StatusNew       = fsm.StatusNew
	StatusBooting   = fsm.StatusBooting
	StatusRunning   = fsm.StatusRunning
	StatusReloading = fsm.StatusReloading
	StatusStopping  = fsm.StatusStopping
	StatusStopped   = fsm.StatusStopped
	StatusError     = fsm.StatusError
	StatusUnknown   = fsm.StatusUnknown
)

// TypicalTransitions is the standard New → Booting → Running → Stopping → Stopped lifecycle,
// with Error reachable from every state.
var TypicalTransitions = fsm.TypicalTransitions

// SubscriberOption configures a state channel.
type SubscriberOption = fsm.SubscriberOption

// WithSyncTimeout makes state broadcasts block up to the given timeout per subscriber.
var WithSyncTimeout = fsm.WithSyncTimeout

// stateBroadcastTimeout bounds how long a transition waits on a slow subscriber.
const stateBroadcastTimeout = 5 * time.Second

// Machine is the subset of the fsm API used by the runnables.
type Machine interface {
	// Transition moves to state, failing if the move is not allowed from the current state.
	Transition(state string) error

	// TransitionBool is Transition reporting success as a bool.
	TransitionBool(state string) bool

	// TransitionIfCurrentState transitions only when the machine is in currentState.
	TransitionIfCurrentState(currentState, newState string) error

	// SetState forces the state without checking transitions.
	SetState(state string) error

	// GetState returns the current state.
	GetState() string

	// GetStateChan emits every state change until ctx is canceled.
	GetStateChan(ctx context.Context) <-chan string

	// GetStateChanWithOptions is GetStateChan with subscriber options.
	GetStateChanWithOptions(ctx context.Context, opts ...SubscriberOption) <-chan string
}

// LifecycleFSM embeds fsm.Machine and makes state channels synchronous, so subscribers waiting
// for Running or Error during startup never miss the transition.
type LifecycleFSM struct {
	*fsm.Machine
}

// GetStateChan returns a synchronously broadcasting state channel.
func (m *LifecycleFSM) GetStateChan(ctx context.Context) <-chan string {
	return m.GetStateChanWithOptions(ctx, WithSyncTimeout(stateBroadcastTimeout))
}

// New creates a Machine in StatusNew using TypicalTransitions.
func New(handler slog.Handler) (Machine, error) {
	machine, err := fsm.New(handler, StatusNew, TypicalTransitions)
	if err != nil {
		return nil, err
	}
	return &LifecycleFSM{Machine: machine}, nil
}

// WaitForState blocks until the machine reports one of the wanted states, returning the state
// that was seen, or ctx.Err() if ctx ends first.
func WaitForState(ctx context.Context, m Machine, wanted ...string) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	matches := func(state string) bool {
		for _, w := range wanted {
			if state == w {
				return true
			}
		}
		return false
	}

	if current := m.GetState(); matches(current) {
		return current, nil
	}

	ch := m.GetStateChan(ctx)
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case state, ok := <-ch:
			if !ok {
				return "", ctx.Err()
			}
			if matches(state) {
				return state, nil
			}
		}
	}
}
