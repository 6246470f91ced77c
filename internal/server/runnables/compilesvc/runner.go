// Package compilesvc registers the compile handler on the bus and optionally compiles the
// configured sources before the service reports itself ready. The supervisor waits on IsReady
// before starting the runnables listed after it, so callers reaching the bus through a bridge
// never arrive before registration or the startup compile.
package compilesvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robbyt/go-supervisor/supervisor"

	"github.com/atlanticdynamic/jscompiler/internal/bus"
	"github.com/atlanticdynamic/jscompiler/internal/orchestrator"
	"github.com/atlanticdynamic/jscompiler/internal/server/finitestate"
)

var (
	_ supervisor.Runnable  = (*Runner)(nil)
	_ supervisor.Stateable = (*Runner)(nil)
	_ supervisor.Readiness = (*Runner)(nil)
)

var (
	ErrNilBus         = errors.New("bus cannot be nil")
	ErrNilHandler     = errors.New("compile handler cannot be nil")
	ErrAlreadyStarted = errors.New("runner was already started")
	ErrStartupCompile = errors.New("startup compile failed")
)

// Bus is the part of the message bus the Runner needs.
type Bus interface {
	RegisterHandler(address string, handler bus.Handler) (string, error)
	Unregister(address, registrationID string) error
	Request(ctx context.Context, address string, body []byte) ([]byte, error)
}

// CompileHandler answers compile requests arriving on the bus.
type CompileHandler interface {
	Address() string
	HandleMessage(ctx context.Context, msg *bus.Message)
}

// StartupConfig is read once when the process starts.
type StartupConfig struct {
	SourceFiles    []string
	CompiledFile   string
	CompileOnStart bool
}

// Runner owns the compile endpoint's registration and the compile-on-start sequence.
type Runner struct {
	bus     Bus
	handler CompileHandler
	startup StartupConfig

	logger *slog.Logger
	fsm    finitestate.Machine

	parentCtx context.Context
	runCtx    context.Context
	runCancel context.CancelFunc
	mu        sync.Mutex
	started   bool

	registrationID string
}

// NewRunner creates a Runner serving handler on the bus.
func NewRunner(b Bus, handler CompileHandler, opts ...Option) (*Runner, error) {
	if b == nil {
		return nil, ErrNilBus
	}
	if handler == nil {
		return nil, ErrNilHandler
	}

	r := &Runner{
		bus:       b,
		handler:   handler,
		logger:    slog.Default().WithGroup("compilesvc.Runner"),
		parentCtx: context.Background(),
	}
	for _, opt := range opts {
		opt(r)
	}

	fsm, err := finitestate.New(r.logger.WithGroup("fsm").Handler())
	if err != nil {
		return nil, fmt.Errorf("failed to create state machine: %w", err)
	}
	r.fsm = fsm

	return r, nil
}

// String implements the supervisor.Runnable interface
func (r *Runner) String() string {
	return "compilesvc.Runner"
}

// Run registers the handler, runs the startup compile when enabled, and blocks until ctx is
// canceled or Stop is called. A failed startup compile returns an error wrapping
// ErrStartupCompile with the compile failure message.
func (r *Runner) Run(ctx context.Context) error {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return ErrAlreadyStarted
	}
	r.started = true
	r.runCtx, r.runCancel = context.WithCancel(ctx)
	r.mu.Unlock()
	defer r.runCancel()

	r.logger.Debug("Starting Runner")
	if err := r.fsm.Transition(finitestate.StatusBooting); err != nil {
		return fmt.Errorf("failed to transition to booting state: %w", err)
	}

	if err := r.boot(r.runCtx); err != nil {
		r.unregister()
		if stateErr := r.fsm.Transition(finitestate.StatusError); stateErr != nil {
			r.logger.Error("Failed to transition to error state", "error", stateErr)
		}
		return err
	}

	if err := r.fsm.Transition(finitestate.StatusRunning); err != nil {
		r.unregister()
		return fmt.Errorf("failed to transition to running state: %w", err)
	}
	r.logger.Info("Compile service ready", "address", r.handler.Address())

	select {
	case <-r.parentCtx.Done():
		r.logger.Debug("Parent context canceled")
	case <-r.runCtx.Done():
		r.logger.Debug("Run context canceled")
	}

	r.logger.Debug("Runner shutting down")
	if r.fsm.GetState() != finitestate.StatusStopping {
		if err := r.fsm.Transition(finitestate.StatusStopping); err != nil {
			r.logger.Error("Failed to transition to stopping state", "error", err)
		}
	}
	r.unregister()

	if err := r.fsm.Transition(finitestate.StatusStopped); err != nil {
		return fmt.Errorf("failed to transition to stopped state: %w", err)
	}
	return nil
}

// boot registers the endpoint and then, if configured, sends the startup request through the
// same bus address that external callers use.
func (r *Runner) boot(ctx context.Context) error {
	id, err := r.bus.RegisterHandler(r.handler.Address(), r.handler.HandleMessage)
	if err != nil {
		return fmt.Errorf("failed to register compile handler at %s: %w", r.handler.Address(), err)
	}
	r.mu.Lock()
	r.registrationID = id
	r.mu.Unlock()

	if !r.startup.CompileOnStart {
		return nil
	}
	if r.startup.CompiledFile == "" && len(r.startup.SourceFiles) == 0 {
		r.logger.Warn("compileOnStart is set but no sources are configured, skipping startup compile")
		return nil
	}

	req := orchestrator.Request{
		SourceFiles:  r.startup.SourceFiles,
		CompiledFile: r.startup.CompiledFile,
	}
	body, err := req.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode startup request: %w", err)
	}

	r.logger.Info("Compiling on start",
		"sources", req.SourceFiles,
		"compiledFile", req.CompiledFile)
	resp := orchestrator.ResponseFromReply(r.bus.Request(ctx, r.handler.Address(), body))
	if !resp.IsOK() {
		r.logger.Error("Startup compile failed", "code", resp.Code, "message", resp.Message)
		return fmt.Errorf("%w: %s", ErrStartupCompile, resp.Message)
	}
	r.logger.Info("Startup compile succeeded", "message", resp.Message)
	return nil
}

func (r *Runner) unregister() {
	r.mu.Lock()
	id := r.registrationID
	r.registrationID = ""
	r.mu.Unlock()
	if id == "" {
		return
	}
	if err := r.bus.Unregister(r.handler.Address(), id); err != nil {
		r.logger.Warn("Failed to unregister compile handler", "error", err)
	}
}

// Stop implements the supervisor.Runnable interface
func (r *Runner) Stop() {
	r.logger.Debug("Stopping Runner")
	if err := r.fsm.Transition(finitestate.StatusStopping); err != nil {
		r.logger.Debug("Failed to transition to stopping state", "error", err)
	}

	r.mu.Lock()
	cancel := r.runCancel
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
