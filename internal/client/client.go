// Package client calls a running compile server over gRPC.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strings"

	"github.com/gofrs/uuid/v5"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/atlanticdynamic/jscompiler/internal/orchestrator"
	"github.com/atlanticdynamic/jscompiler/internal/rpcapi"
)

// Dialer opens a connection to the server, replacing the network dial.
type Dialer func(ctx context.Context, addr string) (net.Conn, error)

// Client sends compile requests to a jscompiler server.
type Client struct {
	logger     *slog.Logger
	serverAddr string
	dialer     Dialer
}

// Config holds configuration options for creating a Client
type Config struct {
	Logger     *slog.Logger
	ServerAddr string
	// Dialer, when set, is used instead of dialing ServerAddr.
	Dialer Dialer
}

// New creates a new client instance
func New(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	return &Client{
		logger:     logger,
		serverAddr: cfg.ServerAddr,
		dialer:     cfg.Dialer,
	}
}

// Compile asks the server to compile req. Compile failures come back as a non-OK Response;
// the returned error is reserved for transport and protocol faults.
func (c *Client) Compile(ctx context.Context, req orchestrator.Request) (orchestrator.Response, error) {
	in, err := rpcapi.RequestToStruct(req)
	if err != nil {
		return orchestrator.Response{}, fmt.Errorf("failed to encode request: %w", err)
	}

	conn, err := c.connect()
	if err != nil {
		return orchestrator.Response{}, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			c.logger.Error("Failed to close connection", "error", err)
		}
	}()

	requestID := uuid.Must(uuid.NewV6()).String()
	ctx = metadata.AppendToOutgoingContext(ctx, "request-id", requestID)
	c.logger.Debug("Sending compile request",
		"server", c.serverAddr,
		"requestID", requestID,
		"sources", req.SourceFiles,
		"compiledFile", req.CompiledFile)

	out, err := rpcapi.NewCompilerServiceClient(conn).Compile(ctx, in)
	if err != nil {
		return orchestrator.Response{}, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	resp, err := rpcapi.StructToResponse(out)
	if err != nil {
		return orchestrator.Response{}, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return resp, nil
}

// connect creates a client connection. Dialing happens lazily on the first call.
func (c *Client) connect() (*grpc.ClientConn, error) {
	if c.dialer != nil {
		return grpc.NewClient(
			"passthrough:///"+c.serverAddr,
			grpc.WithTransportCredentials(insecure.NewCredentials()),
			grpc.WithContextDialer(c.dialer),
		)
	}

	addr := c.serverAddr
	if !strings.Contains(addr, "://") && !strings.HasPrefix(addr, "unix:") {
		addr = "tcp://" + addr
	}
	if rest, ok := strings.CutPrefix(addr, "unix:"); ok && !strings.HasPrefix(rest, "//") {
		addr = "unix://" + rest
	}

	network, address, ok := strings.Cut(addr, "://")
	if !ok || address == "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAddressFormat, c.serverAddr)
	}

	switch network {
	case "tcp":
		if _, _, err := net.SplitHostPort(address); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidTCPFormat, c.serverAddr)
		}
		c.logger.Debug("Connecting to server via TCP", "address", address)
		return grpc.NewClient(
			address,
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		)

	case "unix":
		c.logger.Debug("Connecting to server via Unix socket", "path", address)
		return grpc.NewClient(
			"unix:"+address,
			grpc.WithTransportCredentials(insecure.NewCredentials()),
			grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, "unix", address)
			}),
		)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedNetwork, network)
	}
}
