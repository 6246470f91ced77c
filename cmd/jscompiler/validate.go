package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/atlanticdynamic/jscompiler/internal/config"
	"github.com/atlanticdynamic/jscompiler/internal/fancy"
)

func newValidateCmd() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Aliases:   []string{"lint"},
		Usage:     "Validate one or more configuration files",
		ArgsUsage: "<config.toml> [config.toml...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "tree",
				Aliases: []string{"t"},
				Usage:   "Show detailed tree view of each valid configuration",
			},
		},
		Action: validateAction,
	}
}

type validationResult struct {
	Path   string
	Config *config.Config
	Error  error
}

func (r validationResult) Valid() bool {
	return r.Error == nil
}

func validateConfigs(paths []string) []validationResult {
	results := make([]validationResult, 0, len(paths))
	for _, path := range paths {
		cfg, err := config.NewConfig(path)
		if err == nil {
			err = cfg.Validate()
		}
		results = append(results, validationResult{Path: path, Config: cfg, Error: err})
	}
	return results
}

// renderConfigSummary creates a formatted summary string for the configuration
func renderConfigSummary(cfg *config.Config) string {
	var summary strings.Builder
	fmt.Fprintf(&summary, "  address: %s\n", cfg.Address)
	fmt.Fprintf(&summary, "  startup compile: %t (%d sources)\n", cfg.StartupCompileEnabled(), len(cfg.SourceFiles))
	fmt.Fprintf(&summary, "  source roots: %d\n", len(cfg.SourceRoots))
	fmt.Fprintf(&summary, "  externs: %d\n", len(cfg.Externs))
	return summary.String()
}

func printResults(w io.Writer, results []validationResult, tree bool) int {
	invalid := 0
	for _, r := range results {
		if !r.Valid() {
			invalid++
			fmt.Fprintf(w, "%s %s\n  %s\n", fancy.ErrorText("✗"), fancy.PathText(r.Path), r.Error)
			continue
		}
		fmt.Fprintf(w, "%s %s\n", fancy.ValidText("✓"), fancy.PathText(r.Path))
		if tree {
			fmt.Fprintln(w, r.Config)
		} else {
			fmt.Fprint(w, renderConfigSummary(r.Config))
		}
	}
	return invalid
}

func validateAction(_ context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return cli.Exit("at least one config file path is required", 1)
	}

	invalid := printResults(cmd.Root().Writer, validateConfigs(paths), cmd.Bool("tree"))
	if invalid > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d configuration files are invalid", invalid, len(paths)), 1)
	}
	return nil
}
