package compiler

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/atlanticdynamic/jscompiler/internal/sources"
	"github.com/evanw/esbuild/pkg/api"
)

var _ Engine = (*EsbuildEngine)(nil)

// EsbuildEngine compiles each source independently with esbuild's transform API and
// concatenates the results in input order. Because no output format is set, esbuild treats
// every file as a classic script and leaves top-level names alone.
type EsbuildEngine struct {
	logger *slog.Logger
	target api.Target
}

// EsbuildOption configures an EsbuildEngine.
type EsbuildOption func(*EsbuildEngine)

// WithEsbuildLogger sets the logger.
func WithEsbuildLogger(logger *slog.Logger) EsbuildOption {
	return func(e *EsbuildEngine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTarget sets the language level of the output.
func WithTarget(target api.Target) EsbuildOption {
	return func(e *EsbuildEngine) {
		e.target = target
	}
}

// NewEsbuildEngine creates an esbuild backed Engine.
func NewEsbuildEngine(opts ...EsbuildOption) *EsbuildEngine {
	e := &EsbuildEngine{
		logger: slog.Default().WithGroup("compiler.EsbuildEngine"),
		target: api.ES2015,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compile implements Engine.
func (e *EsbuildEngine) Compile(ctx context.Context, req Request) (*Outcome, error) {
	if len(req.Sources) == 0 {
		return &Outcome{Errors: []Diagnostic{{Text: "no input sources"}}}, nil
	}

	out := &Outcome{}

	// externs are parsed so a broken declaration file fails the build, but never emitted
	for _, ext := range req.Externs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := api.Transform(string(ext.Content), api.TransformOptions{
			Loader:     api.LoaderJS,
			Sourcefile: ext.Identifier,
			LogLevel:   api.LogLevelSilent,
		})
		out.Errors = append(out.Errors, convertMessages(res.Errors)...)
	}

	var code bytes.Buffer
	for _, src := range req.Sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := api.Transform(string(src.Content), e.transformOptions(src, req.Level))
		out.Errors = append(out.Errors, convertMessages(res.Errors)...)
		out.Warnings = append(out.Warnings, convertMessages(res.Warnings)...)
		if len(res.Errors) > 0 {
			continue
		}
		code.Write(res.Code)
		if len(res.Code) > 0 && res.Code[len(res.Code)-1] != '\n' {
			code.WriteByte('\n')
		}
	}

	if len(out.Errors) > 0 {
		e.logger.Debug("Compilation failed", "errors", len(out.Errors), "warnings", len(out.Warnings))
		return out, nil
	}

	out.Code = code.Bytes()
	e.logger.Debug("Compilation succeeded",
		"sources", len(req.Sources),
		"externs", len(req.Externs),
		"level", req.Level.String(),
		"bytes", len(out.Code),
		"warnings", len(out.Warnings))
	return out, nil
}

func (e *EsbuildEngine) transformOptions(src sources.Source, level OptimizationLevel) api.TransformOptions {
	opts := api.TransformOptions{
		Loader:           api.LoaderJS,
		Sourcefile:       src.Identifier,
		Target:           e.target,
		Charset:          api.CharsetUTF8,
		LegalComments:    api.LegalCommentsNone,
		LogLevel:         api.LogLevelSilent,
		MinifyWhitespace: true,
	}
	if level == Simple {
		opts.MinifySyntax = true
		opts.MinifyIdentifiers = true
	}
	return opts
}

func convertMessages(msgs []api.Message) []Diagnostic {
	if len(msgs) == 0 {
		return nil
	}
	out := make([]Diagnostic, 0, len(msgs))
	for _, m := range msgs {
		d := Diagnostic{Text: m.Text}
		if m.Location != nil {
			d.File = m.Location.File
			d.Line = m.Location.Line
			d.Column = m.Location.Column
		}
		out = append(out, d)
	}
	return out
}
