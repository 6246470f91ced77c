// Package server manages the gRPC listener for the compile bridge.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"google.golang.org/grpc"

	"github.com/atlanticdynamic/jscompiler/internal/rpcapi"
)

// startupWindow is how long Start waits for Serve to fail before reporting success.
const startupWindow = 500 * time.Millisecond

var ErrAlreadyStarted = errors.New("gRPC server already started")

// ManagerOption configures a GRPCManager.
type ManagerOption func(*GRPCManager)

// WithListener serves on an existing listener instead of opening one, for example a bufconn
// listener in tests.
func WithListener(lis net.Listener) ManagerOption {
	return func(m *GRPCManager) {
		m.listener = lis
	}
}

// WithServerOptions adds grpc.ServerOptions.
func WithServerOptions(opts ...grpc.ServerOption) ManagerOption {
	return func(m *GRPCManager) {
		m.serverOpts = append(m.serverOpts, opts...)
	}
}

// GRPCManager owns a grpc.Server serving the compile service.
type GRPCManager struct {
	logger     *slog.Logger
	network    string
	address    string
	serverOpts []grpc.ServerOption

	mu       sync.Mutex
	server   *grpc.Server
	listener net.Listener
	started  bool
}

// NewGRPCManager validates listenAddr and prepares a server for svc. Nothing listens until
// Start is called.
func NewGRPCManager(
	logger *slog.Logger,
	listenAddr string,
	svc rpcapi.CompilerServiceServer,
	opts ...ManagerOption,
) (*GRPCManager, error) {
	if svc == nil {
		return nil, errors.New("compile service cannot be nil")
	}

	m := &GRPCManager{logger: logger}
	for _, opt := range opts {
		opt(m)
	}

	if m.listener == nil {
		network, address, err := parseListenAddr(listenAddr)
		if err != nil {
			return nil, err
		}
		m.network, m.address = network, address
	}

	m.serverOpts = append(m.serverOpts, grpc.ChainUnaryInterceptor(m.logRequests))
	m.server = grpc.NewServer(m.serverOpts...)
	rpcapi.RegisterCompilerServiceServer(m.server, svc)
	return m, nil
}

// Start opens the listener and serves in the background. It returns an error if the listener
// cannot be opened or Serve fails within the startup window.
func (m *GRPCManager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return ErrAlreadyStarted
	}

	if m.listener == nil {
		if m.network == "unix" {
			if err := cleanupUnixSocket(m.address, m.logger); err != nil {
				return err
			}
		}
		var lc net.ListenConfig
		lis, err := lc.Listen(ctx, m.network, m.address)
		if err != nil {
			return fmt.Errorf("failed to listen on %s %s: %w", m.network, m.address, err)
		}
		m.listener = lis
	}

	errCh := make(chan error, 1)
	go func() {
		if err := m.server.Serve(m.listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("gRPC server failed to start: %w", err)
	case <-ctx.Done():
		m.server.Stop()
		return ctx.Err()
	case <-time.After(startupWindow):
	}

	m.started = true
	m.logger.Info("gRPC server listening", "address", m.listener.Addr().String())
	return nil
}

// GracefulStop drains in-flight calls and stops the server.
func (m *GRPCManager) GracefulStop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.server.GracefulStop()
	m.started = false
}

// GetListenAddress returns the bound address, which differs from the configured one when the
// configured port was 0.
func (m *GRPCManager) GetListenAddress() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listener == nil {
		return ""
	}
	return m.listener.Addr().String()
}

func (m *GRPCManager) logRequests(
	ctx context.Context,
	req any,
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (any, error) {
	requestID := ExtractRequestID(ctx)
	start := time.Now()
	resp, err := handler(ctx, req)
	logger := m.logger.With("method", info.FullMethod, "requestID", requestID, "duration", time.Since(start))
	if err != nil {
		logger.Warn("gRPC call failed", "error", err)
	} else {
		logger.Debug("gRPC call completed")
	}
	return resp, err
}
