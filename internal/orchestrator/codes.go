package orchestrator

import "fmt"

// ErrorCode classifies a failed compile request on the wire.
type ErrorCode int

const (
	CodeInvalidRequest ErrorCode = iota + 1
	CodeCompileFailed
	CodeWriteFailed
	CodeUnexpected
)

func (c ErrorCode) String() string {
	switch c {
	case CodeInvalidRequest:
		return "InvalidRequest"
	case CodeCompileFailed:
		return "CompileFailed"
	case CodeWriteFailed:
		return "WriteFailed"
	case CodeUnexpected:
		return "Unexpected"
	default:
		return fmt.Sprintf("ErrorCode(%d)", int(c))
	}
}
