package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/atlanticdynamic/jscompiler/cmd/jscompiler/server"
	"github.com/atlanticdynamic/jscompiler/internal/config"
)

func newServerCmd() *cli.Command {
	return &cli.Command{
		Name:  "server",
		Usage: "Start the compile service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to TOML configuration file",
				Aliases: []string{"c"},
				Sources: cli.EnvVars("JSCOMPILER_CONFIG"),
			},
			&cli.BoolFlag{
				Name:  "compile-on-start",
				Usage: "Compile jsSourceFiles into jsCompiledFile before accepting requests",
			},
			&cli.StringSliceFlag{
				Name:  "source-root",
				Usage: "Directory searched for sources and externs (repeatable, replaces sourceRoots)",
			},
			&cli.StringFlag{
				Name:  "output-dir",
				Usage: "Directory relative compiled file paths are written under",
			},
			&cli.StringFlag{
				Name:  "rpc-listen",
				Usage: "Address for the gRPC bridge (host:port or unix:/path/to/socket)",
			},
			&cli.StringFlag{
				Name:  "mcp-listen",
				Usage: "Address for the MCP streamable HTTP bridge (host:port)",
			},
		},
		Action: serverAction,
	}
}

// loadServerConfig reads --config, or starts from defaults, then applies flag overrides.
func loadServerConfig(cmd *cli.Command) (*config.Config, error) {
	cfg := config.NewDefault()
	if path := cmd.String("config"); path != "" {
		loaded, err := config.NewConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cmd.IsSet("compile-on-start") {
		cfg.CompileOnStart = cmd.Bool("compile-on-start")
	}
	if cmd.IsSet("source-root") {
		cfg.SourceRoots = cmd.StringSlice("source-root")
	}
	if cmd.IsSet("output-dir") {
		cfg.OutputDir = cmd.String("output-dir")
	}
	if cmd.IsSet("rpc-listen") {
		cfg.RPC.Listen = cmd.String("rpc-listen")
	}
	if cmd.IsSet("mcp-listen") {
		cfg.MCP.Listen = cmd.String("mcp-listen")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func serverAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadServerConfig(cmd)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	logger, closer, err := setupLogger(cmd, &cfg.Log)
	if err != nil {
		return cli.Exit(fmt.Errorf("failed to set up logging: %w", err), 1)
	}
	defer func() { _ = closer.Close() }()

	logger.Info("Starting jscompiler",
		"version", Version,
		"address", cfg.Address,
		"compileOnStart", cfg.StartupCompileEnabled(),
		"rpc", cfg.RPC.Listen,
		"mcp", cfg.MCP.Listen,
	)

	if err := server.Run(ctx, logger, cfg, Version); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	return nil
}
