package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strings"

	"github.com/gofrs/uuid/v5"
	"google.golang.org/grpc/metadata"
)

var (
	ErrInvalidURLFormat       = errors.New("invalid URL format")
	ErrTCPSchemeRequiresHost  = errors.New("tcp scheme requires host:port after tcp://")
	ErrUnixSchemeRequiresPath = errors.New("unix scheme requires path after unix://")
	ErrUnixColonRequiresPath  = errors.New("unix scheme requires path after unix:")
	ErrUnsupportedURLScheme   = errors.New("unsupported URL scheme")
	ErrInvalidTCPAddress      = errors.New("invalid tcp address")
)

// parseListenAddr splits a listen string into network and address. Accepted forms:
//   - "tcp://localhost:8080" → "tcp", "localhost:8080"
//   - "unix:///tmp/jsc.sock" → "unix", "/tmp/jsc.sock"
//   - "unix:/tmp/jsc.sock" → "unix", "/tmp/jsc.sock"
//   - "localhost:8080" → "tcp", "localhost:8080"
//
// TCP addresses must carry a port.
func parseListenAddr(listenAddr string) (network string, address string, err error) {
	if strings.Contains(listenAddr, "://") {
		u, err := url.Parse(listenAddr)
		if err != nil {
			return "", "", fmt.Errorf("%w: %w", ErrInvalidURLFormat, err)
		}

		switch u.Scheme {
		case "tcp":
			if u.Host == "" {
				return "", "", ErrTCPSchemeRequiresHost
			}
			return "tcp", u.Host, nil
		case "unix":
			if u.Path == "" {
				return "", "", ErrUnixSchemeRequiresPath
			}
			return "unix", u.Path, nil
		default:
			return "", "", fmt.Errorf("%w: %s (supported: tcp, unix)", ErrUnsupportedURLScheme, u.Scheme)
		}
	}

	if address, ok := strings.CutPrefix(listenAddr, "unix:"); ok {
		if address == "" {
			return "", "", ErrUnixColonRequiresPath
		}
		return "unix", address, nil
	}

	if _, _, err := net.SplitHostPort(listenAddr); err != nil {
		return "", "", fmt.Errorf("%w %q: %w", ErrInvalidTCPAddress, listenAddr, err)
	}
	return "tcp", listenAddr, nil
}

// cleanupUnixSocket removes a stale socket file left behind by a previous process.
func cleanupUnixSocket(socketPath string, logger *slog.Logger) error {
	info, err := os.Lstat(socketPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat potential unix socket %q: %w", socketPath, err)
	}
	if info.IsDir() {
		return fmt.Errorf("unix socket path %q is a directory", socketPath)
	}

	logger.Warn("Removing existing unix socket", "path", socketPath)
	if err := os.Remove(socketPath); err != nil {
		return fmt.Errorf("failed to remove existing unix socket %q: %w", socketPath, err)
	}
	return nil
}

// ExtractRequestID returns the caller's request ID from gRPC metadata, or a new UUID when the
// caller sent none.
func ExtractRequestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		for _, key := range []string{"request-id", "x-request-id", "requestid"} {
			if values := md.Get(key); len(values) > 0 && values[0] != "" {
				return values[0]
			}
		}
	}
	return uuid.Must(uuid.NewV6()).String()
}
