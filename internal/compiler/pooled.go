package compiler

import (
	"context"
	"errors"
)

var _ Engine = (*PooledEngine)(nil)

// TaskRunner executes a task on an isolated worker and waits for it to finish.
type TaskRunner interface {
	Do(ctx context.Context, task func(ctx context.Context)) error
}

// PooledEngine runs every compilation on a TaskRunner, keeping CPU bound work off the
// goroutines that handle requests and I/O.
type PooledEngine struct {
	next   Engine
	runner TaskRunner
}

// NewPooledEngine wraps next so that compilations run on runner.
func NewPooledEngine(next Engine, runner TaskRunner) (*PooledEngine, error) {
	if next == nil {
		return nil, errors.New("pooled engine requires a backing engine")
	}
	if runner == nil {
		return nil, errors.New("pooled engine requires a task runner")
	}
	return &PooledEngine{next: next, runner: runner}, nil
}

// Compile implements Engine.
func (p *PooledEngine) Compile(ctx context.Context, req Request) (*Outcome, error) {
	type result struct {
		out *Outcome
		err error
	}
	resCh := make(chan result, 1)

	if err := p.runner.Do(ctx, func(workerCtx context.Context) {
		out, err := p.next.Compile(workerCtx, req)
		resCh <- result{out: out, err: err}
	}); err != nil {
		return nil, err
	}

	select {
	case res := <-resCh:
		return res.out, res.err
	default:
		return nil, errors.New("pooled compile task finished without a result")
	}
}
