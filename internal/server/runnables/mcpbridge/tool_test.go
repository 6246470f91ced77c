package mcpbridge

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlanticdynamic/jscompiler/internal/bus"
	"github.com/atlanticdynamic/jscompiler/internal/orchestrator"
)

const testAddress = "test/compile"

func connect(t *testing.T, b *bus.EventBus) *mcp.ClientSession {
	t.Helper()
	ctx := t.Context()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	server := NewServer(b, testAddress, "test", logger)
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestCompileTool(t *testing.T) {
	t.Parallel()

	t.Run("tool is listed", func(t *testing.T) {
		b := bus.New()
		defer b.Close()
		session := connect(t, b)

		result, err := session.ListTools(t.Context(), &mcp.ListToolsParams{})
		require.NoError(t, err)
		require.Len(t, result.Tools, 1)
		assert.Equal(t, ToolName, result.Tools[0].Name)
	})

	t.Run("success", func(t *testing.T) {
		b := bus.New()
		defer b.Close()
		_, err := b.RegisterHandler(testAddress, func(_ context.Context, msg *bus.Message) {
			_ = msg.Reply([]byte(`{"status":"ok","message":"successfully compiled 2 javascript files"}`))
		})
		require.NoError(t, err)
		session := connect(t, b)

		result, err := session.CallTool(t.Context(), &mcp.CallToolParams{
			Name: ToolName,
			Arguments: map[string]any{
				"jsSourceFiles":  []string{"js/a.js", "js/b.js"},
				"jsCompiledFile": "out.js",
			},
		})
		require.NoError(t, err)
		assert.False(t, result.IsError)
		assert.Equal(t, "successfully compiled 2 javascript files", textOf(t, result))
	})

	t.Run("compile failure is a tool error", func(t *testing.T) {
		b := bus.New()
		defer b.Close()
		_, err := b.RegisterHandler(testAddress, func(_ context.Context, msg *bus.Message) {
			_ = msg.Fail(int(orchestrator.CodeCompileFailed), "failed to compile js: [a.js:1:1: bad]")
		})
		require.NoError(t, err)
		session := connect(t, b)

		result, err := session.CallTool(t.Context(), &mcp.CallToolParams{
			Name: ToolName,
			Arguments: map[string]any{
				"jsSourceFiles":  []string{"js/a.js"},
				"jsCompiledFile": "out.js",
			},
		})
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Equal(t, "CompileFailed: failed to compile js: [a.js:1:1: bad]", textOf(t, result))
	})

	t.Run("no handler is a tool error", func(t *testing.T) {
		b := bus.New()
		defer b.Close()
		session := connect(t, b)

		result, err := session.CallTool(t.Context(), &mcp.CallToolParams{
			Name: ToolName,
			Arguments: map[string]any{
				"jsSourceFiles":  []string{"js/a.js"},
				"jsCompiledFile": "out.js",
			},
		})
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, textOf(t, result), "no handlers for address "+testAddress)
	})
}
