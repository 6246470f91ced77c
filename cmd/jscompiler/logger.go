package main

import (
	"io"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/atlanticdynamic/jscompiler/internal/config/logs"
	"github.com/atlanticdynamic/jscompiler/internal/logging"
)

// setupLogger installs the default logger from the log section, with the global --log-level
// and --log-format flags taking precedence. A nil section means defaults.
func setupLogger(cmd *cli.Command, section *logs.Config) (*slog.Logger, io.Closer, error) {
	lc := logs.Config{}
	if section != nil {
		lc = *section
	}
	if cmd.IsSet("log-level") {
		level, err := logs.LevelFromString(cmd.String("log-level"))
		if err != nil {
			return nil, nil, err
		}
		lc.Level = level
	}
	if cmd.IsSet("log-format") {
		format, err := logs.FormatFromString(cmd.String("log-format"))
		if err != nil {
			return nil, nil, err
		}
		lc.Format = format
	}

	handler, closer, err := logging.SetupLogger(
		lc.EffectiveFormat().String(),
		lc.EffectiveLevel().String(),
		lc.Output,
	)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(handler), closer, nil
}
