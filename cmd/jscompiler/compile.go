package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/atlanticdynamic/jscompiler/internal/client"
	mcpclient "github.com/atlanticdynamic/jscompiler/internal/client/mcp"
	"github.com/atlanticdynamic/jscompiler/internal/orchestrator"
)

type compileClient interface {
	Compile(ctx context.Context, req orchestrator.Request) (orchestrator.Response, error)
}

func newCompileCmd() *cli.Command {
	return &cli.Command{
		Name:      "compile",
		Usage:     "Ask a running server to compile sources into one file",
		ArgsUsage: "<source> [source...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Usage:   "gRPC server address (host:port or unix:/path/to/socket)",
				Aliases: []string{"s"},
				Value:   "localhost:8765",
				Sources: cli.EnvVars("JSCOMPILER_SERVER"),
			},
			&cli.StringFlag{
				Name:  "mcp",
				Usage: "Use the MCP endpoint at this URL instead of gRPC (e.g. http://localhost:8766/mcp)",
			},
			&cli.StringFlag{
				Name:    "out",
				Usage:   "Compiled file path, as seen by the server",
				Aliases: []string{"o"},
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Usage:   "Time to wait for the server's answer",
				Aliases: []string{"t"},
				Value:   35 * time.Second,
			},
		},
		Action: compileAction,
	}
}

func newCompileClient(cmd *cli.Command, logger *slog.Logger) (compileClient, error) {
	if endpoint := cmd.String("mcp"); endpoint != "" {
		return mcpclient.New(endpoint, mcpclient.WithVersion(Version), mcpclient.WithLogger(logger))
	}
	return client.New(client.Config{Logger: logger, ServerAddr: cmd.String("server")}), nil
}

func compileAction(ctx context.Context, cmd *cli.Command) error {
	logger, closer, err := setupLogger(cmd, nil)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer func() { _ = closer.Close() }()

	if t := cmd.Duration("timeout"); t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	c, err := newCompileClient(cmd, logger)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	// validation is left to the server so its answer is the single source of truth
	resp, err := c.Compile(ctx, orchestrator.Request{
		SourceFiles:  cmd.Args().Slice(),
		CompiledFile: cmd.String("out"),
	})
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if !resp.IsOK() {
		return cli.Exit(resp.String(), 1)
	}

	_, err = fmt.Fprintln(cmd.Root().Writer, resp.Message)
	return err
}
