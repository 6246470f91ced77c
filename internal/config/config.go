// Package config loads and validates the jscompiler server configuration.
package config

import (
	"time"

	"github.com/atlanticdynamic/jscompiler/internal/bus"
	"github.com/atlanticdynamic/jscompiler/internal/config/logs"
	"github.com/atlanticdynamic/jscompiler/internal/orchestrator"
)

const (
	DefaultQueueSize = 64
	DefaultCacheSize = 128
	DefaultMCPPath   = "/mcp"
)

// Config is the root of the server configuration. String fields marked for interpolation
// accept ${VAR} and ${VAR:default} references.
type Config struct {
	// Address is the bus address the compile handler is registered on.
	Address string `toml:"address"`

	// SourceFiles, CompiledFile and CompileOnStart describe the compile run at startup.
	SourceFiles    []string `toml:"jsSourceFiles"  env_interpolation:"yes"`
	CompiledFile   string   `toml:"jsCompiledFile" env_interpolation:"yes"`
	CompileOnStart bool     `toml:"compileOnStart"`

	// SourceRoots are searched in order for source and extern identifiers.
	SourceRoots []string `toml:"sourceRoots" env_interpolation:"yes"`
	// OutputDir is prepended to relative compiled file paths. Empty means the working directory.
	OutputDir string `toml:"outputDir" env_interpolation:"yes"`
	// ConfineOutput rejects compiled file paths that are absolute or climb out of OutputDir.
	// Bridge callers choose jsCompiledFile, so this stays on unless every caller is trusted.
	ConfineOutput bool     `toml:"confineOutput"`
	Externs       []string `toml:"externs" env_interpolation:"yes"`

	ReplyTimeout Duration `toml:"replyTimeout"`

	Log      logs.Config    `toml:"log"`
	Compiler CompilerConfig `toml:"compiler"`
	RPC      RPCConfig      `toml:"rpc"`
	MCP      MCPConfig      `toml:"mcp"`
}

// CompilerConfig sizes the compiler worker pool and result cache.
type CompilerConfig struct {
	// Workers of zero means one per CPU.
	Workers   int `toml:"workers"`
	QueueSize int `toml:"queueSize"`
	// CacheSize of zero disables the result cache.
	CacheSize int    `toml:"cacheSize"`
	Level     string `toml:"level"`
}

// RPCConfig enables the gRPC bridge when Listen is set.
type RPCConfig struct {
	Listen string `toml:"listen" env_interpolation:"yes"`
}

// MCPConfig enables the MCP bridge when Listen is set.
type MCPConfig struct {
	Listen string `toml:"listen" env_interpolation:"yes"`
	Path   string `toml:"path"`
}

// NewDefault returns a Config with every default applied and no listeners enabled.
func NewDefault() *Config {
	return &Config{
		Address:        orchestrator.DefaultAddress,
		CompileOnStart: true,
		SourceRoots:    []string{"."},
		ConfineOutput:  true,
		ReplyTimeout:   FromDuration(bus.DefaultReplyTimeout),
		Compiler: CompilerConfig{
			QueueSize: DefaultQueueSize,
			CacheSize: DefaultCacheSize,
			Level:     "simple",
		},
		MCP: MCPConfig{Path: DefaultMCPPath},
	}
}

// StartupCompileEnabled reports whether a compile should run before the server is ready.
// Nothing runs when neither a compiled file nor any source is configured.
func (c *Config) StartupCompileEnabled() bool {
	return c.CompileOnStart && (c.CompiledFile != "" || len(c.SourceFiles) > 0)
}

// Timeout returns ReplyTimeout as a time.Duration.
func (c *Config) Timeout() time.Duration {
	return c.ReplyTimeout.AsDuration()
}
