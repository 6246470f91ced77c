// Package server assembles the compile service from a configuration and runs it under the
// supervisor.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robbyt/go-supervisor/supervisor"

	"github.com/atlanticdynamic/jscompiler/internal/artifact"
	"github.com/atlanticdynamic/jscompiler/internal/bus"
	"github.com/atlanticdynamic/jscompiler/internal/compiler"
	"github.com/atlanticdynamic/jscompiler/internal/config"
	"github.com/atlanticdynamic/jscompiler/internal/orchestrator"
	"github.com/atlanticdynamic/jscompiler/internal/server/runnables/compilesvc"
	"github.com/atlanticdynamic/jscompiler/internal/server/runnables/mcpbridge"
	"github.com/atlanticdynamic/jscompiler/internal/server/runnables/rpcbridge"
	"github.com/atlanticdynamic/jscompiler/internal/sources"
	"github.com/atlanticdynamic/jscompiler/internal/workerpool"
)

// Server holds every component built from one configuration.
type Server struct {
	Bus          *bus.EventBus
	Orchestrator *orchestrator.Orchestrator
	Pool         *workerpool.Pool
	CompileSvc   *compilesvc.Runner
	RPC          *rpcbridge.Runner
	MCP          *mcpbridge.Runner
}

// Runnables returns the components in start order. The supervisor waits for each to report
// ready before starting the next: the pool comes first so the startup compile has workers, and
// the bridges come after the compile service so no outside request arrives before the handler
// is registered and the startup compile has answered.
func (s *Server) Runnables() []supervisor.Runnable {
	runnables := []supervisor.Runnable{s.Pool, s.CompileSvc}
	if s.RPC != nil {
		runnables = append(runnables, s.RPC)
	}
	if s.MCP != nil {
		runnables = append(runnables, s.MCP)
	}
	return runnables
}

// Build creates the components for cfg. The configuration must already be valid.
func Build(ctx context.Context, handler slog.Handler, cfg *config.Config, version string) (*Server, error) {
	level, err := compiler.ParseOptimizationLevel(cfg.Compiler.Level)
	if err != nil {
		return nil, err
	}

	pool, err := workerpool.New(
		workerpool.WithLogHandler(handler),
		workerpool.WithWorkers(cfg.Compiler.Workers),
		workerpool.WithQueueSize(cfg.Compiler.QueueSize),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	var engine compiler.Engine = compiler.NewEsbuildEngine(
		compiler.WithEsbuildLogger(slog.New(handler).WithGroup("compiler.EsbuildEngine")),
	)
	if cfg.Compiler.CacheSize > 0 {
		engine, err = compiler.NewCachedEngine(
			engine,
			cfg.Compiler.CacheSize,
			slog.New(handler).WithGroup("compiler.CachedEngine"),
		)
		if err != nil {
			return nil, err
		}
	}
	engine, err = compiler.NewPooledEngine(engine, pool)
	if err != nil {
		return nil, fmt.Errorf("failed to create pooled compiler: %w", err)
	}

	resolver, err := sources.NewResolver(cfg.SourceRoots, sources.WithLogHandler(handler))
	if err != nil {
		return nil, fmt.Errorf("failed to create source resolver: %w", err)
	}
	writer := artifact.NewWriter(
		artifact.WithLogHandler(handler),
		artifact.WithBaseDir(cfg.OutputDir),
		artifact.WithConfinement(cfg.ConfineOutput),
	)

	orch, err := orchestrator.New(
		resolver,
		engine,
		writer,
		orchestrator.WithLogHandler(handler),
		orchestrator.WithAddress(cfg.Address),
		orchestrator.WithExterns(cfg.Externs),
		orchestrator.WithOptimizationLevel(level),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create orchestrator: %w", err)
	}

	eventBus := bus.New(
		bus.WithLogHandler(handler),
		bus.WithContext(ctx),
		bus.WithReplyTimeout(cfg.Timeout()),
	)

	svc, err := compilesvc.NewRunner(
		eventBus,
		orch,
		compilesvc.WithLogHandler(handler),
		compilesvc.WithContext(ctx),
		compilesvc.WithStartupConfig(compilesvc.StartupConfig{
			SourceFiles:    cfg.SourceFiles,
			CompiledFile:   cfg.CompiledFile,
			CompileOnStart: cfg.CompileOnStart,
		}),
	)
	if err != nil {
		eventBus.Close()
		return nil, fmt.Errorf("failed to create compile service: %w", err)
	}

	s := &Server{
		Bus:          eventBus,
		Orchestrator: orch,
		Pool:         pool,
		CompileSvc:   svc,
	}

	if cfg.RPC.Listen != "" {
		s.RPC, err = rpcbridge.NewRunner(
			cfg.RPC.Listen,
			eventBus,
			rpcbridge.WithLogHandler(handler),
			rpcbridge.WithAddress(cfg.Address),
		)
		if err != nil {
			eventBus.Close()
			return nil, fmt.Errorf("failed to create gRPC bridge: %w", err)
		}
	}

	if cfg.MCP.Listen != "" {
		s.MCP, err = mcpbridge.NewRunner(
			cfg.MCP.Listen,
			eventBus,
			mcpbridge.WithLogHandler(handler),
			mcpbridge.WithAddress(cfg.Address),
			mcpbridge.WithPath(cfg.MCP.Path),
			mcpbridge.WithVersion(version),
		)
		if err != nil {
			eventBus.Close()
			return nil, fmt.Errorf("failed to create MCP bridge: %w", err)
		}
	}

	return s, nil
}

// Run builds the server from cfg and blocks until ctx is canceled or a component fails. A
// failed startup compile is returned as an error.
func Run(ctx context.Context, logger *slog.Logger, cfg *config.Config, version string) error {
	handler := logger.Handler()
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s, err := Build(runCtx, handler, cfg, version)
	if err != nil {
		return err
	}
	defer s.Bus.Close()

	super, err := supervisor.New(
		supervisor.WithContext(runCtx),
		supervisor.WithLogHandler(handler),
		supervisor.WithStartupTimeout(startupTimeout(cfg)),
		supervisor.WithRunnables(s.Runnables()...),
	)
	if err != nil {
		return fmt.Errorf("failed to create supervisor: %w", err)
	}

	// a failed startup compile surfaces here, before any bridge is started
	if err := super.Run(); err != nil {
		return fmt.Errorf("failed to run server: %w", err)
	}

	logger.Info("Server shutdown complete")
	return nil
}

// startupTimeout leaves the startup compile its full reply timeout before the supervisor gives
// up waiting for the compile service.
func startupTimeout(cfg *config.Config) time.Duration {
	return max(supervisor.DefaultStartupTimeout, 2*cfg.Timeout())
}
