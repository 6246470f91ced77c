// Package mcp calls the compile_js tool of a jscompiler server over MCP streamable HTTP.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/atlanticdynamic/jscompiler/internal/orchestrator"
)

// ToolName is the compile tool the server registers.
const ToolName = "compile_js"

// Client connects to an MCP endpoint per call.
type Client struct {
	logger     *slog.Logger
	endpoint   string
	httpClient *http.Client
	version    string
	transport  func() mcpsdk.Transport
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used by the streamable transport.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithVersion sets the client version reported to the server.
func WithVersion(version string) Option {
	return func(c *Client) {
		c.version = version
	}
}

// withTransport replaces the streamable HTTP transport, for in-memory tests.
func withTransport(fn func() mcpsdk.Transport) Option {
	return func(c *Client) {
		c.transport = fn
	}
}

// New creates a Client for endpoint, e.g. "http://127.0.0.1:8766/mcp".
func New(endpoint string, opts ...Option) (*Client, error) {
	if endpoint == "" {
		return nil, ErrEmptyEndpoint
	}
	c := &Client{
		logger:   slog.Default().WithGroup("mcp.Client"),
		endpoint: endpoint,
		version:  "dev",
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = func() mcpsdk.Transport {
			return &mcpsdk.StreamableClientTransport{
				Endpoint:   c.endpoint,
				HTTPClient: c.httpClient,
			}
		}
	}
	return c, nil
}

// Compile calls the compile tool. Compile failures are returned as a non-OK Response.
func (c *Client) Compile(ctx context.Context, req orchestrator.Request) (orchestrator.Response, error) {
	sdkClient := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "jscompiler-cli", Version: c.version}, nil)
	session, err := sdkClient.Connect(ctx, c.transport(), nil)
	if err != nil {
		return orchestrator.Response{}, fmt.Errorf("failed to connect to %s: %w", c.endpoint, err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			c.logger.Debug("Failed to close MCP session", "error", err)
		}
	}()

	c.logger.Debug("Calling compile tool", "endpoint", c.endpoint, "compiledFile", req.CompiledFile)
	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name: ToolName,
		Arguments: map[string]any{
			"jsSourceFiles":  req.SourceFiles,
			"jsCompiledFile": req.CompiledFile,
		},
	})
	if err != nil {
		return orchestrator.Response{}, fmt.Errorf("compile tool call failed: %w", err)
	}
	return decodeResult(result)
}

// decodeResult prefers the structured result and falls back to the text content.
func decodeResult(result *mcpsdk.CallToolResult) (orchestrator.Response, error) {
	if result.StructuredContent != nil {
		data, err := json.Marshal(result.StructuredContent)
		if err != nil {
			return orchestrator.Response{}, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
		}
		var resp orchestrator.Response
		if err := json.Unmarshal(data, &resp); err != nil {
			return orchestrator.Response{}, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
		}
		if resp.Status != "" {
			return resp, nil
		}
	}

	for _, content := range result.Content {
		if text, ok := content.(*mcpsdk.TextContent); ok {
			if result.IsError {
				return orchestrator.Failure(orchestrator.CodeUnexpected, text.Text), nil
			}
			return orchestrator.OK(text.Text), nil
		}
	}
	return orchestrator.Response{}, ErrInvalidResponse
}
