package mcp

import "errors"

var (
	ErrEmptyEndpoint   = errors.New("MCP endpoint cannot be empty")
	ErrInvalidResponse = errors.New("invalid compile tool response")
)
