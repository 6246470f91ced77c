// Package mcpbridge serves the compile bus address as an MCP tool over streamable HTTP.
package mcpbridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/robbyt/go-supervisor/runnables/httpserver"
	"github.com/robbyt/go-supervisor/supervisor"

	"github.com/atlanticdynamic/jscompiler/internal/orchestrator"
)

var (
	_ supervisor.Runnable  = (*Runner)(nil)
	_ supervisor.Stateable = (*Runner)(nil)
	_ supervisor.Readiness = (*Runner)(nil)
)

var (
	ErrEmptyListenAddr = errors.New("listen address cannot be empty")
	ErrNilRequester    = errors.New("bus requester cannot be nil")
)

// DefaultPath is where the MCP endpoint is mounted.
const DefaultPath = "/mcp"

// Requester sends a request on the bus and waits for the reply.
type Requester interface {
	Request(ctx context.Context, address string, body []byte) ([]byte, error)
}

// serverImplementation abstracts the go-supervisor HTTP runner.
type serverImplementation interface {
	Run(ctx context.Context) error
	Stop()
	GetState() string
	IsReady() bool
	GetStateChan(ctx context.Context) <-chan string
}

// Runner wraps go-supervisor's httpserver.Runner with a single MCP route.
type Runner struct {
	listenAddr   string
	path         string
	address      string
	version      string
	drainTimeout time.Duration

	bus    Requester
	logger *slog.Logger
	server serverImplementation
}

// NewRunner creates a Runner listening on listenAddr.
func NewRunner(listenAddr string, requester Requester, opts ...Option) (*Runner, error) {
	if listenAddr == "" {
		return nil, ErrEmptyListenAddr
	}
	if requester == nil {
		return nil, ErrNilRequester
	}

	r := &Runner{
		listenAddr:   listenAddr,
		path:         DefaultPath,
		address:      orchestrator.DefaultAddress,
		version:      "dev",
		drainTimeout: 5 * time.Second,
		bus:          requester,
		logger:       slog.Default().WithGroup("mcpbridge.Runner"),
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.initializeRunner(); err != nil {
		return nil, fmt.Errorf("failed to initialize MCP HTTP server: %w", err)
	}
	return r, nil
}

// Handler returns the MCP streamable HTTP handler.
func (r *Runner) Handler() http.Handler {
	mcpServer := NewServer(r.bus, r.address, r.version, r.logger)
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return mcpServer
	}, nil)
}

func (r *Runner) initializeRunner() error {
	handler := r.Handler()

	configCallback := func() (*httpserver.Config, error) {
		route, err := httpserver.NewRouteFromHandlerFunc("mcp", r.path, handler.ServeHTTP, accessLog(r.logger))
		if err != nil {
			return nil, fmt.Errorf("failed to create MCP route: %w", err)
		}

		options := []httpserver.ConfigOption{}
		if r.drainTimeout > 0 {
			options = append(options, httpserver.WithDrainTimeout(r.drainTimeout))
		}

		config, err := httpserver.NewConfig(r.listenAddr, []httpserver.Route{*route}, options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP server config: %w", err)
		}
		return config, nil
	}

	runner, err := httpserver.NewRunner(
		httpserver.WithConfigCallback(configCallback),
	)
	if err != nil {
		return fmt.Errorf("failed to create HTTP server runner: %w", err)
	}
	r.server = runner
	return nil
}

func (r *Runner) String() string {
	return "mcpbridge.Runner"
}

// Run serves the MCP endpoint until ctx is canceled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("Starting MCP server", "address", r.listenAddr, "path", r.path)
	return r.server.Run(ctx)
}

func (r *Runner) Stop() {
	r.logger.Info("Stopping MCP server", "address", r.listenAddr)
	r.server.Stop()
}

func (r *Runner) GetState() string {
	return r.server.GetState()
}

// IsReady reports true once the HTTP listener is serving.
func (r *Runner) IsReady() bool {
	return r.server.IsReady()
}

func (r *Runner) GetStateChan(ctx context.Context) <-chan string {
	return r.server.GetStateChan(ctx)
}
