// Package rpcbridge exposes the compile bus address to other processes over gRPC. Each call is
// forwarded to the bus as a request and the reply, successful or not, is returned in-band as a
// response Struct. Only transport faults become gRPC status errors.
package rpcbridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robbyt/go-supervisor/supervisor"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/atlanticdynamic/jscompiler/internal/bus"
	"github.com/atlanticdynamic/jscompiler/internal/orchestrator"
	"github.com/atlanticdynamic/jscompiler/internal/rpcapi"
	"github.com/atlanticdynamic/jscompiler/internal/server/finitestate"
	"github.com/atlanticdynamic/jscompiler/internal/server/runnables/rpcbridge/server"
)

var (
	_ supervisor.Runnable          = (*Runner)(nil)
	_ supervisor.Stateable         = (*Runner)(nil)
	_ supervisor.Readiness         = (*Runner)(nil)
	_ rpcapi.CompilerServiceServer = (*Runner)(nil)
)

var (
	ErrEmptyListenAddr = errors.New("listen address cannot be empty")
	ErrNilRequester    = errors.New("bus requester cannot be nil")
	errServerRunning   = errors.New("gRPC server is already running")
)

type Runner struct {
	logger *slog.Logger

	listenAddr string
	address    string
	bus        Requester

	grpcServer GRPCServer
	grpcLock   sync.Mutex
	started    bool

	fsm finitestate.Machine

	localCtx    context.Context
	localCancel context.CancelFunc
	cancelLock  sync.Mutex
}

// NewRunner creates a Runner that will listen on listenAddr and forward calls to the bus.
func NewRunner(listenAddr string, requester Requester, opts ...Option) (*Runner, error) {
	if listenAddr == "" {
		return nil, ErrEmptyListenAddr
	}
	if requester == nil {
		return nil, ErrNilRequester
	}

	r := &Runner{
		logger:     slog.Default().WithGroup("rpcbridge.Runner"),
		listenAddr: listenAddr,
		address:    orchestrator.DefaultAddress,
		bus:        requester,
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

func (r *Runner) String() string {
	return "rpcbridge.Runner"
}

// Run starts the gRPC server and blocks until the context is canceled or Stop is called.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Debug("Starting Runner")

	if err := r.fsm.Transition(finitestate.StatusBooting); err != nil {
		return fmt.Errorf("failed to transition to booting state: %w", err)
	}

	r.cancelLock.Lock()
	r.localCtx, r.localCancel = context.WithCancel(ctx)
	r.cancelLock.Unlock()
	defer r.localCancel()

	if err := r.startServer(ctx); err != nil {
		if stateErr := r.fsm.Transition(finitestate.StatusError); stateErr != nil {
			r.logger.Error("Failed to transition to error state", "error", stateErr)
		}
		return err
	}

	if err := r.fsm.Transition(finitestate.StatusRunning); err != nil {
		return fmt.Errorf("failed to transition to running state: %w", err)
	}

	<-r.localCtx.Done()

	if r.fsm.GetState() != finitestate.StatusStopping {
		if err := r.fsm.Transition(finitestate.StatusStopping); err != nil {
			r.logger.Error("Failed to transition to stopping state", "error", err)
		}
	}

	r.grpcLock.Lock()
	if r.grpcServer != nil && r.started {
		r.grpcServer.GracefulStop()
		r.started = false
		r.logger.Info("gRPC server stopped", "listenAddr", r.listenAddr)
	}
	r.grpcLock.Unlock()

	if err := r.fsm.Transition(finitestate.StatusStopped); err != nil {
		r.logger.Error("Failed to transition to stopped state", "error", err)
	}
	r.logger.Debug("Runner stopped")
	return nil
}

func (r *Runner) startServer(ctx context.Context) error {
	r.grpcLock.Lock()
	defer r.grpcLock.Unlock()

	if r.started {
		return errServerRunning
	}
	if r.grpcServer == nil {
		mgr, err := server.NewGRPCManager(r.logger, r.listenAddr, r)
		if err != nil {
			return err
		}
		r.grpcServer = mgr
	}
	if err := r.grpcServer.Start(ctx); err != nil {
		return err
	}
	r.started = true
	return nil
}

// Stop cancels Run, which then stops the gRPC server.
func (r *Runner) Stop() {
	r.logger.Debug("Stopping Runner")
	if err := r.fsm.Transition(finitestate.StatusStopping); err != nil {
		r.logger.Debug("Failed to transition to stopping state", "error", err)
	}
	r.cancelLock.Lock()
	defer r.cancelLock.Unlock()
	if r.localCancel != nil {
		r.localCancel()
	}
}

// GetListenAddress returns the bound gRPC address, or "" before the server started.
func (r *Runner) GetListenAddress() string {
	r.grpcLock.Lock()
	defer r.grpcLock.Unlock()
	if r.grpcServer == nil {
		return ""
	}
	return r.grpcServer.GetListenAddress()
}

// Compile implements rpcapi.CompilerServiceServer.
func (r *Runner) Compile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	logger := r.logger.With("requestID", server.ExtractRequestID(ctx))

	body, err := rpcapi.StructToJSON(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	reply, err := r.bus.Request(ctx, r.address, body)
	if err != nil {
		var replyErr *bus.ReplyError
		if !errors.As(err, &replyErr) {
			logger.Error("Bus request failed", "error", err)
			if errors.Is(err, bus.ErrClosed) {
				return nil, status.Error(codes.Unavailable, err.Error())
			}
			return nil, status.Error(codes.Internal, err.Error())
		}
		switch replyErr.Kind {
		case bus.FailureTimeout:
			return nil, status.Error(codes.DeadlineExceeded, replyErr.Message)
		case bus.FailureNoHandlers:
			return nil, status.Error(codes.Unavailable, replyErr.Message)
		}
		logger.Debug("Compile request failed", "code", replyErr.Code, "message", replyErr.Message)
	}

	resp, err := rpcapi.ResponseToStruct(orchestrator.ResponseFromReply(reply, err))
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return resp, nil
}
