package config

import (
	"fmt"

	"github.com/atlanticdynamic/jscompiler/internal/fancy"
)

// String returns a pretty-printed tree representation of the config
func (c *Config) String() string {
	return ConfigTree(c)
}

// ConfigTree converts a Config struct into a rendered tree string
func ConfigTree(cfg *Config) string {
	t := fancy.Tree()
	t.Root(fancy.RootStyle.Render(fmt.Sprintf("jscompiler config (%s)", cfg.Address)))

	startup := fancy.BranchNode("Startup compile", onOff(cfg.StartupCompileEnabled()))
	if cfg.CompiledFile != "" {
		startup.Child(fmt.Sprintf("Output: %s", fancy.ArtifactText(cfg.CompiledFile)))
	}
	for _, src := range cfg.SourceFiles {
		startup.Child(fancy.SourceText(src))
	}
	t.Child(startup)

	roots := fancy.BranchNode("Source roots", fmt.Sprintf("(%d)", len(cfg.SourceRoots)))
	for _, root := range cfg.SourceRoots {
		roots.Child(fancy.PathText(root))
	}
	t.Child(roots)

	if len(cfg.Externs) > 0 {
		externs := fancy.BranchNode("Externs", fmt.Sprintf("(%d)", len(cfg.Externs)))
		for _, ext := range cfg.Externs {
			externs.Child(fancy.SourceText(ext))
		}
		t.Child(externs)
	}

	if cfg.OutputDir != "" {
		t.Child(fmt.Sprintf("Output dir: %s", fancy.PathText(cfg.OutputDir)))
	}
	if !cfg.ConfineOutput {
		t.Child(fancy.ErrorText("Output paths are not confined"))
	}
	t.Child(fmt.Sprintf("Reply timeout: %s", cfg.ReplyTimeout))

	comp := fancy.BranchNode("Compiler", cfg.Compiler.Level)
	workers := "per CPU"
	if cfg.Compiler.Workers > 0 {
		workers = fmt.Sprint(cfg.Compiler.Workers)
	}
	comp.Child(fmt.Sprintf("Workers: %s", fancy.CountText(workers)))
	comp.Child(fmt.Sprintf("Queue: %s", fancy.CountText(fmt.Sprint(cfg.Compiler.QueueSize))))
	comp.Child(fmt.Sprintf("Cache: %s", fancy.CountText(fmt.Sprint(cfg.Compiler.CacheSize))))
	t.Child(comp)

	listeners := fancy.BranchNode("Listeners", "")
	if cfg.RPC.Listen != "" {
		listeners.Child(fmt.Sprintf("gRPC: %s", fancy.ListenerText(cfg.RPC.Listen)))
	}
	if cfg.MCP.Listen != "" {
		listeners.Child(fmt.Sprintf("MCP: %s", fancy.ListenerText(cfg.MCP.Listen+cfg.MCP.Path)))
	}
	if cfg.RPC.Listen == "" && cfg.MCP.Listen == "" {
		listeners.Child(fancy.InfoStyle.Render("none"))
	}
	t.Child(listeners)

	t.Child(cfg.Log.ToTree().Tree())

	return t.String()
}

func onOff(b bool) string {
	if b {
		return "(on)"
	}
	return "(off)"
}
