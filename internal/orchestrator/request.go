package orchestrator

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/atlanticdynamic/jscompiler/internal/bus"
)

var (
	ErrMissingCompiledFile = errors.New("jsCompiledFile is required")
	ErrMissingSourceFiles  = errors.New("jsSourceFiles must contain at least one entry")
)

// Request asks for SourceFiles to be compiled into CompiledFile.
type Request struct {
	SourceFiles  []string `json:"jsSourceFiles"`
	CompiledFile string   `json:"jsCompiledFile"`
}

// Validate checks the request before any I/O happens.
func (r Request) Validate() error {
	var errs []error
	if r.CompiledFile == "" {
		errs = append(errs, ErrMissingCompiledFile)
	}
	if len(r.SourceFiles) == 0 {
		errs = append(errs, ErrMissingSourceFiles)
	}
	return errors.Join(errs...)
}

// Encode marshals the request into a bus body.
func (r Request) Encode() ([]byte, error) {
	return json.Marshal(r)
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Response is the single terminal result of a request.
type Response struct {
	Status  string    `json:"status"`
	Code    ErrorCode `json:"code,omitempty"`
	Message string    `json:"message"`
}

// OK builds a success response.
func OK(message string) Response {
	return Response{Status: StatusOK, Message: message}
}

// Failure builds an error response.
func Failure(code ErrorCode, message string) Response {
	return Response{Status: StatusError, Code: code, Message: message}
}

// IsOK reports whether the request succeeded.
func (r Response) IsOK() bool {
	return r.Status == StatusOK
}

func (r Response) String() string {
	if r.IsOK() {
		return r.Message
	}
	return fmt.Sprintf("%s: %s", r.Code, r.Message)
}

// ResponseFromReply converts the outcome of a bus.Request for the compile address back into a
// Response. Failures that did not come from the orchestrator, such as a reply timeout, are
// reported as Unexpected.
func ResponseFromReply(body []byte, err error) Response {
	if err != nil {
		var replyErr *bus.ReplyError
		if errors.As(err, &replyErr) && replyErr.Kind == bus.FailureRecipient {
			return Failure(ErrorCode(replyErr.Code), replyErr.Message)
		}
		return Failure(CodeUnexpected, err.Error())
	}

	var resp Response
	if jsonErr := json.Unmarshal(body, &resp); jsonErr != nil {
		return Failure(CodeUnexpected, fmt.Sprintf("malformed reply %q: %v", body, jsonErr))
	}
	return resp
}
