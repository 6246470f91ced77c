package mcpbridge

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/robbyt/go-supervisor/runnables/httpserver"
)

// accessLog logs one line per HTTP request on the MCP route, at Warn for 4xx and Error for 5xx.
func accessLog(logger *slog.Logger) httpserver.HandlerFunc {
	return func(rp *httpserver.RequestProcessor) {
		r := rp.Request()
		start := time.Now()

		rp.Next()

		rw := rp.Writer()
		status := rw.Status()
		if status == 0 {
			status = http.StatusOK
		}

		level := slog.LevelDebug
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}

		logger.LogAttrs(r.Context(), level, "HTTP request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("session", r.Header.Get("Mcp-Session-Id")),
			slog.Int("status", status),
			slog.Int("size", rw.Size()),
			slog.Duration("duration", time.Since(start)),
		)
	}
}
