package rpcapi

import (
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/atlanticdynamic/jscompiler/internal/orchestrator"
)

var ErrNilStruct = errors.New("struct is nil")

// StructToJSON renders a Struct as the JSON object it mirrors.
func StructToJSON(s *structpb.Struct) ([]byte, error) {
	if s == nil {
		return nil, ErrNilStruct
	}
	return json.Marshal(s.AsMap())
}

// JSONToStruct parses a JSON object into a Struct.
func JSONToStruct(data []byte) (*structpb.Struct, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode JSON object: %w", err)
	}
	return structpb.NewStruct(m)
}

// RequestToStruct converts a compile request for the wire.
func RequestToStruct(req orchestrator.Request) (*structpb.Struct, error) {
	files := make([]any, 0, len(req.SourceFiles))
	for _, f := range req.SourceFiles {
		files = append(files, f)
	}
	return structpb.NewStruct(map[string]any{
		"jsSourceFiles":  files,
		"jsCompiledFile": req.CompiledFile,
	})
}

// ResponseToStruct converts a compile response for the wire.
func ResponseToStruct(resp orchestrator.Response) (*structpb.Struct, error) {
	m := map[string]any{
		"status":  resp.Status,
		"message": resp.Message,
	}
	if !resp.IsOK() {
		m["code"] = int(resp.Code)
	}
	return structpb.NewStruct(m)
}

// StructToResponse converts a wire response back into a Response.
func StructToResponse(s *structpb.Struct) (orchestrator.Response, error) {
	data, err := StructToJSON(s)
	if err != nil {
		return orchestrator.Response{}, err
	}
	var resp orchestrator.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return orchestrator.Response{}, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp, nil
}
