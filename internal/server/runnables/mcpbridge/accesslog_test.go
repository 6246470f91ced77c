package mcpbridge

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/robbyt/go-supervisor/runnables/httpserver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlanticdynamic/jscompiler/internal/testutil"
)

func TestAccessLog(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  string
	}{
		{"ok", http.StatusOK, "level=DEBUG"},
		{"client error", http.StatusNotFound, "level=WARN"},
		{"server error", http.StatusBadGateway, "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf testutil.ThreadSafeBuffer
			logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

			route, err := httpserver.NewRouteFromHandlerFunc("mcp", "/mcp",
				func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.status)
					_, err := w.Write([]byte("body"))
					assert.NoError(t, err)
				}, accessLog(logger))
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
			req.Header.Set("Mcp-Session-Id", "abc123")
			rec := httptest.NewRecorder()
			route.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			out := buf.String()
			assert.Contains(t, out, tt.level)
			assert.Contains(t, out, "method=POST")
			assert.Contains(t, out, "path=/mcp")
			assert.Contains(t, out, "session=abc123")
			assert.Contains(t, out, "size=4")
		})
	}
}
