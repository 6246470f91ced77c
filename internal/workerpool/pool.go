// Package workerpool runs CPU bound tasks on a fixed set of goroutines so that long running
// work cannot starve the goroutines handling requests and I/O.
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/atlanticdynamic/jscompiler/internal/server/finitestate"
	"github.com/robbyt/go-supervisor/supervisor"
)

var (
	_ supervisor.Runnable  = (*Pool)(nil)
	_ supervisor.Stateable = (*Pool)(nil)
	_ supervisor.Readiness = (*Pool)(nil)
)

var (
	// ErrPoolStopped is returned for tasks submitted to, or still queued in, a stopped pool.
	ErrPoolStopped = errors.New("worker pool stopped")
	// ErrTaskPanicked is returned by Do when the task panicked on its worker.
	ErrTaskPanicked = errors.New("task panicked")
)

type task struct {
	fn   func(ctx context.Context)
	done chan struct{}
	// err is set before done is closed
	err error
}

// Pool is a bounded set of workers fed from a queue. Tasks may be submitted before Run; they
// wait in the queue until the workers start.
type Pool struct {
	logger    *slog.Logger
	fsm       finitestate.Machine
	workers   int
	queueSize int

	queue   chan *task
	stopped chan struct{}
	stopOne sync.Once

	runCtx    context.Context
	runCancel context.CancelFunc
	mu        sync.Mutex
}

// New creates a Pool sized to the number of CPUs unless WithWorkers says otherwise.
func New(opts ...Option) (*Pool, error) {
	p := &Pool{
		logger:    slog.Default().WithGroup("workerpool.Pool"),
		workers:   runtime.NumCPU(),
		queueSize: 64,
		stopped:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.queue = make(chan *task, p.queueSize)

	fsm, err := finitestate.New(p.logger.WithGroup("fsm").Handler())
	if err != nil {
		return nil, fmt.Errorf("failed to create state machine: %w", err)
	}
	p.fsm = fsm
	return p, nil
}

// String implements supervisor.Runnable.
func (p *Pool) String() string {
	return "workerpool.Pool"
}

// Workers returns the number of workers.
func (p *Pool) Workers() int {
	return p.workers
}

// Run starts the workers and blocks until ctx is canceled or Stop is called. Tasks still in
// the queue at shutdown are abandoned and their callers receive ErrPoolStopped.
func (p *Pool) Run(ctx context.Context) error {
	if err := p.fsm.Transition(finitestate.StatusBooting); err != nil {
		return fmt.Errorf("failed to transition to booting state: %w", err)
	}

	p.mu.Lock()
	p.runCtx, p.runCancel = context.WithCancel(ctx)
	runCtx := p.runCtx
	p.mu.Unlock()

	var wg sync.WaitGroup
	for i := range p.workers {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p.work(runCtx, id)
		}(i)
	}
	p.logger.Debug("Workers started", "workers", p.workers, "queueSize", p.queueSize)

	if err := p.fsm.Transition(finitestate.StatusRunning); err != nil {
		p.runCancel()
		wg.Wait()
		return fmt.Errorf("failed to transition to running state: %w", err)
	}

	<-runCtx.Done()

	if p.fsm.GetState() != finitestate.StatusStopping {
		if err := p.fsm.Transition(finitestate.StatusStopping); err != nil {
			p.logger.Error("Failed to transition to stopping state", "error", err)
		}
	}

	p.stopOne.Do(func() { close(p.stopped) })
	wg.Wait()

	if err := p.fsm.Transition(finitestate.StatusStopped); err != nil {
		return fmt.Errorf("failed to transition to stopped state: %w", err)
	}
	p.logger.Debug("Workers stopped")
	return nil
}

func (p *Pool) work(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-p.queue:
			p.execute(ctx, id, t)
		}
	}
}

func (p *Pool) execute(ctx context.Context, id int, t *task) {
	defer close(t.done)
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Task panicked", "worker", id, "panic", r)
			t.err = fmt.Errorf("%w: %v", ErrTaskPanicked, r)
		}
	}()
	t.fn(ctx)
}

// Stop implements supervisor.Runnable.
func (p *Pool) Stop() {
	p.logger.Debug("Stopping worker pool")
	if err := p.fsm.Transition(finitestate.StatusStopping); err != nil {
		p.logger.Error("Failed to transition to stopping state", "error", err)
	}
	p.mu.Lock()
	cancel := p.runCancel
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Do queues fn and waits for it to finish. It returns early with ctx.Err() if ctx ends first,
// or ErrPoolStopped if the pool shuts down before fn completes. A panic in fn is recovered on
// the worker and returned as ErrTaskPanicked. fn receives the pool's run
// context, so a task already running is not interrupted by the caller giving up.
func (p *Pool) Do(ctx context.Context, fn func(ctx context.Context)) error {
	if fn == nil {
		return errors.New("task is nil")
	}
	t := &task{fn: fn, done: make(chan struct{})}

	select {
	case <-p.stopped:
		return ErrPoolStopped
	default:
	}

	select {
	case p.queue <- t:
	case <-ctx.Done():
		return ctx.Err()
	case <-p.stopped:
		return ErrPoolStopped
	}

	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	case <-p.stopped:
		// the task may have finished in the same instant the pool stopped
		select {
		case <-t.done:
			return t.err
		default:
			return ErrPoolStopped
		}
	}
}
