package workerpool

import (
	"context"

	"github.com/atlanticdynamic/jscompiler/internal/server/finitestate"
)

// GetState implements supervisor.Stateable.
func (p *Pool) GetState() string {
	return p.fsm.GetState()
}

// GetStateChan implements supervisor.Stateable.
func (p *Pool) GetStateChan(ctx context.Context) <-chan string {
	return p.fsm.GetStateChan(ctx)
}

// IsRunning reports whether the workers are started.
func (p *Pool) IsRunning() bool {
	return p.fsm.GetState() == finitestate.StatusRunning
}

// IsReady implements supervisor.Readiness.
func (p *Pool) IsReady() bool {
	return p.IsRunning()
}
