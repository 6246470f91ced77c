package config

import (
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"strings"

	"github.com/atlanticdynamic/jscompiler/internal/compiler"
	"github.com/atlanticdynamic/jscompiler/internal/config/errz"
)

// Validate checks the whole configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Address) == "" {
		errs = append(errs, fmt.Errorf("%w: address", errz.ErrMissingRequiredField))
	}
	if len(c.SourceRoots) == 0 {
		errs = append(errs, fmt.Errorf("%w: sourceRoots", errz.ErrMissingRequiredField))
	}
	for i, root := range c.SourceRoots {
		if strings.TrimSpace(root) == "" {
			errs = append(errs, fmt.Errorf("%w: sourceRoots[%d] is empty", errz.ErrInvalidValue, i))
		}
	}
	if c.ConfineOutput && c.CompiledFile != "" && !filepath.IsLocal(filepath.FromSlash(c.CompiledFile)) {
		errs = append(errs, fmt.Errorf("%w: jsCompiledFile %q leaves outputDir while confineOutput is on",
			errz.ErrInvalidValue, c.CompiledFile))
	}
	if c.ReplyTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: replyTimeout must be positive, got %s", errz.ErrInvalidValue, c.ReplyTimeout))
	}

	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}
	if err := c.Compiler.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("compiler: %w", err))
	}

	if c.RPC.Listen != "" {
		if err := validateListen(c.RPC.Listen, true); err != nil {
			errs = append(errs, fmt.Errorf("rpc: %w", err))
		}
	}
	if c.MCP.Listen != "" {
		if err := validateListen(c.MCP.Listen, false); err != nil {
			errs = append(errs, fmt.Errorf("mcp: %w", err))
		}
		if !strings.HasPrefix(c.MCP.Path, "/") {
			errs = append(errs, fmt.Errorf("mcp: %w: path must start with '/', got %q", errz.ErrInvalidValue, c.MCP.Path))
		}
	}
	if c.RPC.Listen != "" && c.RPC.Listen == c.MCP.Listen {
		errs = append(errs, fmt.Errorf("%w: %s", errz.ErrDuplicateListen, c.RPC.Listen))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", errz.ErrFailedToValidateConfig, errors.Join(errs...))
	}
	return nil
}

// Validate checks the compiler section.
func (cc *CompilerConfig) Validate() error {
	var errs []error
	if cc.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: workers must not be negative", errz.ErrInvalidValue))
	}
	if cc.QueueSize < 0 {
		errs = append(errs, fmt.Errorf("%w: queueSize must not be negative", errz.ErrInvalidValue))
	}
	if cc.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("%w: cacheSize must not be negative", errz.ErrInvalidValue))
	}
	if _, err := compiler.ParseOptimizationLevel(cc.Level); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", errz.ErrInvalidValue, err))
	}
	return errors.Join(errs...)
}

// validateListen accepts host:port, and unix socket paths when allowUnix is set.
func validateListen(addr string, allowUnix bool) error {
	if strings.HasPrefix(addr, "unix:") {
		if !allowUnix {
			return fmt.Errorf("%w: unix sockets are not supported here: %s", errz.ErrInvalidListenAddress, addr)
		}
		if strings.TrimPrefix(strings.TrimPrefix(addr, "unix://"), "unix:") == "" {
			return fmt.Errorf("%w: empty socket path", errz.ErrInvalidListenAddress)
		}
		return nil
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("%w: %w", errz.ErrInvalidListenAddress, err)
	}
	return nil
}
