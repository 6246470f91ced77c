package compilesvc

import (
	"context"

	"github.com/atlanticdynamic/jscompiler/internal/server/finitestate"
)

func (r *Runner) GetState() string {
	return r.fsm.GetState()
}

func (r *Runner) GetStateChan(ctx context.Context) <-chan string {
	return r.fsm.GetStateChan(ctx)
}

func (r *Runner) IsRunning() bool {
	return r.fsm.GetState() == finitestate.StatusRunning
}

// IsReady reports true once the handler is registered and any startup compile succeeded.
func (r *Runner) IsReady() bool {
	return r.IsRunning()
}
