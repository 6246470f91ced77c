package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

// Version is set during build using ldflags
var Version = "dev"

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "jscompiler",
		Version: Version,
		Usage:   "Compile and minify JavaScript through a message bus endpoint",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (trace, debug, info, warn, error)",
				Sources: cli.EnvVars("JSCOMPILER_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "Log format (text, json)",
				Sources: cli.EnvVars("JSCOMPILER_LOG_FORMAT"),
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Load environment variables from this file before reading configuration",
				Value: ".env",
			},
		},
		Before: loadEnvFile,
		Commands: []*cli.Command{
			newServerCmd(),
			newCompileCmd(),
			newValidateCmd(),
			newVersionCmd(),
		},
	}
}

// loadEnvFile loads --env-file without overriding variables already set. A missing default
// file is ignored; a missing file named explicitly is an error.
func loadEnvFile(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("env-file")
	if path == "" {
		return ctx, nil
	}
	err := godotenv.Load(path)
	if err == nil || (errors.Is(err, fs.ErrNotExist) && !cmd.IsSet("env-file")) {
		return ctx, nil
	}
	return ctx, fmt.Errorf("failed to load env file %s: %w", path, err)
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
