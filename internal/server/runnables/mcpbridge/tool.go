package mcpbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/atlanticdynamic/jscompiler/internal/orchestrator"
)

// ToolName is the name the compile tool is registered under.
const ToolName = "compile_js"

// CompileInput is the tool's argument object, matching the bus request body.
type CompileInput struct {
	SourceFiles  []string `json:"jsSourceFiles" jsonschema:"source identifiers to compile, resolved against the configured source roots"`
	CompiledFile string   `json:"jsCompiledFile" jsonschema:"path of the minified output file"`
}

// CompileOutput is the tool's structured result.
type CompileOutput struct {
	Status  string `json:"status"`
	Code    int    `json:"code,omitempty"`
	Message string `json:"message"`
}

// NewServer creates an MCP server whose compile_js tool forwards to the bus address.
func NewServer(requester Requester, address, version string, logger *slog.Logger) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "jscompiler",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolName,
		Description: "Compile and minify JavaScript source files into a single output file",
	}, compileTool(requester, address, logger))

	return server
}

func compileTool(
	requester Requester,
	address string,
	logger *slog.Logger,
) mcp.ToolHandlerFor[CompileInput, CompileOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in CompileInput) (*mcp.CallToolResult, CompileOutput, error) {
		body, err := json.Marshal(orchestrator.Request{
			SourceFiles:  in.SourceFiles,
			CompiledFile: in.CompiledFile,
		})
		if err != nil {
			return nil, CompileOutput{}, fmt.Errorf("failed to encode request: %w", err)
		}

		resp := orchestrator.ResponseFromReply(requester.Request(ctx, address, body))
		out := CompileOutput{Status: resp.Status, Code: int(resp.Code), Message: resp.Message}
		if !resp.IsOK() {
			logger.Debug("Tool call failed", "code", resp.Code, "message", resp.Message)
		}

		return &mcp.CallToolResult{
			IsError:           !resp.IsOK(),
			Content:           []mcp.Content{&mcp.TextContent{Text: resp.String()}},
			StructuredContent: out,
		}, out, nil
	}
}
