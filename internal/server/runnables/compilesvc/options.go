package compilesvc

import (
	"context"
	"log/slog"
)

type Option func(*Runner)

// WithLogger sets a custom logger for the Runner instance.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithLogHandler sets a custom log handler for the Runner instance.
func WithLogHandler(handler slog.Handler) Option {
	return func(r *Runner) {
		r.logger = slog.New(handler).WithGroup("compilesvc.Runner")
	}
}

// WithContext sets a custom parent context for the Runner instance.
func WithContext(ctx context.Context) Option {
	return func(r *Runner) {
		r.parentCtx = ctx
	}
}

// WithStartupCompile requests a compile of sourceFiles into compiledFile before the Runner
// reports Running.
func WithStartupCompile(sourceFiles []string, compiledFile string) Option {
	return func(r *Runner) {
		r.startup = StartupConfig{
			SourceFiles:    sourceFiles,
			CompiledFile:   compiledFile,
			CompileOnStart: true,
		}
	}
}

// WithStartupConfig sets the complete startup configuration.
func WithStartupConfig(cfg StartupConfig) Option {
	return func(r *Runner) {
		r.startup = cfg
	}
}
