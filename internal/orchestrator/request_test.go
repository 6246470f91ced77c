package orchestrator

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlanticdynamic/jscompiler/internal/bus"
)

func TestRequest_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Request{SourceFiles: []string{"a.js"}, CompiledFile: "out.js"}.Validate())

	err := Request{}.Validate()
	assert.ErrorIs(t, err, ErrMissingCompiledFile)
	assert.ErrorIs(t, err, ErrMissingSourceFiles)
}

func TestRequest_WireNames(t *testing.T) {
	t.Parallel()

	var req Request
	require.NoError(t, json.Unmarshal([]byte(`{"jsSourceFiles":["a.js","b.js"],"jsCompiledFile":"out.js"}`), &req))
	assert.Equal(t, []string{"a.js", "b.js"}, req.SourceFiles)
	assert.Equal(t, "out.js", req.CompiledFile)
}

func TestResponse(t *testing.T) {
	t.Parallel()

	ok := OK("done")
	assert.True(t, ok.IsOK())
	data, err := json.Marshal(ok)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","message":"done"}`, string(data))

	fail := Failure(CodeWriteFailed, "nope")
	assert.False(t, fail.IsOK())
	assert.Equal(t, "WriteFailed: nope", fail.String())
	data, err = json.Marshal(fail)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"error","code":3,"message":"nope"}`, string(data))
}

func TestErrorCode_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "InvalidRequest", CodeInvalidRequest.String())
	assert.Equal(t, "CompileFailed", CodeCompileFailed.String())
	assert.Equal(t, "WriteFailed", CodeWriteFailed.String())
	assert.Equal(t, "Unexpected", CodeUnexpected.String())
	assert.Equal(t, "ErrorCode(9)", ErrorCode(9).String())
}

func TestResponseFromReply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body []byte
		err  error
		want Response
	}{
		{
			name: "ok body",
			body: []byte(`{"status":"ok","message":"successfully compiled 1 javascript files"}`),
			want: OK("successfully compiled 1 javascript files"),
		},
		{
			name: "recipient failure",
			err:  &bus.ReplyError{Kind: bus.FailureRecipient, Code: 2, Message: "failed to compile js: [x]"},
			want: Failure(CodeCompileFailed, "failed to compile js: [x]"),
		},
		{
			name: "timeout",
			err:  &bus.ReplyError{Kind: bus.FailureTimeout, Code: -1, Message: "late"},
			want: Failure(CodeUnexpected, "TIMEOUT: late"),
		},
		{
			name: "other error",
			err:  errors.New("bus is closed"),
			want: Failure(CodeUnexpected, "bus is closed"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResponseFromReply(tt.body, tt.err))
		})
	}

	malformed := ResponseFromReply([]byte("{"), nil)
	assert.Equal(t, CodeUnexpected, malformed.Code)
}
