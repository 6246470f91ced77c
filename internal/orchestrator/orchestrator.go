// Package orchestrator drives a compile request through validation, source resolution,
// compilation and artifact writing, and maps every failure to one of four error codes.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofrs/uuid/v5"
	"github.com/robbyt/go-loglater"

	"github.com/atlanticdynamic/jscompiler/internal/artifact"
	"github.com/atlanticdynamic/jscompiler/internal/bus"
	"github.com/atlanticdynamic/jscompiler/internal/compiler"
	"github.com/atlanticdynamic/jscompiler/internal/sources"
)

// DefaultAddress is the bus address compile requests are served on.
const DefaultAddress = "com.dreikraft.vertx.js/compile"

// SourceResolver finds compiler inputs by identifier.
type SourceResolver interface {
	ResolveAll(ctx context.Context, identifiers []string) ([]sources.Source, []error)
}

// ArtifactWriter creates directories and writes the compiled artifact.
type ArtifactWriter interface {
	MkdirAll(dir string) error
	WriteFile(ctx context.Context, path string, data []byte) error
}

var (
	ErrNilResolver = errors.New("source resolver cannot be nil")
	ErrNilCompiler = errors.New("compiler cannot be nil")
	ErrNilWriter   = errors.New("artifact writer cannot be nil")
)

// Orchestrator handles compile requests. It holds no per-request state and is safe for
// concurrent use.
type Orchestrator struct {
	handler  slog.Handler
	logger   *slog.Logger
	address  string
	externs  []string
	level    compiler.OptimizationLevel
	resolver SourceResolver
	compiler compiler.Engine
	writer   ArtifactWriter
}

// New creates an Orchestrator.
func New(
	resolver SourceResolver,
	engine compiler.Engine,
	writer ArtifactWriter,
	opts ...Option,
) (*Orchestrator, error) {
	if resolver == nil {
		return nil, ErrNilResolver
	}
	if engine == nil {
		return nil, ErrNilCompiler
	}
	if writer == nil {
		return nil, ErrNilWriter
	}

	o := &Orchestrator{
		handler:  slog.Default().Handler(),
		address:  DefaultAddress,
		level:    compiler.Simple,
		resolver: resolver,
		compiler: engine,
		writer:   writer,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = slog.New(o.handler).WithGroup("orchestrator.Orchestrator")
	return o, nil
}

// Address returns the bus address the orchestrator reports in its messages.
func (o *Orchestrator) Address() string {
	return o.address
}

// HandleMessage is the bus.Handler for the compile address. It always answers the message
// exactly once: Reply with the encoded Response on success, Fail with the error code otherwise.
func (o *Orchestrator) HandleMessage(ctx context.Context, msg *bus.Message) {
	resp := o.handleBody(ctx, msg.Body)

	var err error
	if resp.IsOK() {
		var body []byte
		body, err = json.Marshal(resp)
		if err == nil {
			err = msg.Reply(body)
		}
	} else {
		err = msg.Fail(int(resp.Code), resp.Message)
	}
	if err != nil {
		o.logger.Error("Failed to deliver response", "messageID", msg.ID, "error", err)
	}
}

func (o *Orchestrator) handleBody(ctx context.Context, body []byte) Response {
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		o.logger.Warn("Rejected undecodable message", "error", err)
		return Failure(CodeInvalidRequest, fmt.Sprintf("invalid message at %s: %s", o.address, body))
	}
	return o.handle(ctx, req, body)
}

// Handle processes a decoded request.
func (o *Orchestrator) Handle(ctx context.Context, req Request) Response {
	body, err := req.Encode()
	if err != nil {
		return Failure(CodeUnexpected, fmt.Sprintf(
			"unexpected exception %v while processing message %v", err, req))
	}
	return o.handle(ctx, req, body)
}

func (o *Orchestrator) handle(ctx context.Context, req Request, body []byte) (resp Response) {
	requestID := uuid.Must(uuid.NewV6())
	collector := loglater.NewLogCollector(nil)
	logger := slog.New(collector).WithGroup("orchestrator.Orchestrator").With(
		"requestID", requestID,
		"compiledFile", req.CompiledFile,
	)
	// set when a source or extern was skipped, so a successful response still replays the
	// request log
	var skipped bool

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Recovered from panic", "panic", r)
			resp = Failure(CodeUnexpected, fmt.Sprintf(
				"unexpected exception %v while processing message %s", r, body))
		}
		o.finish(ctx, collector, resp, skipped)
	}()

	if err := req.Validate(); err != nil {
		logger.Warn("Rejected invalid request", "error", err)
		return Failure(CodeInvalidRequest, fmt.Sprintf("invalid message at %s: %s", o.address, body))
	}

	srcs, resolveErrs := o.resolver.ResolveAll(ctx, req.SourceFiles)
	for _, err := range resolveErrs {
		logger.Warn("Failed to add source to compilation", "error", err)
	}
	externs, externErrs := o.loadExterns(ctx, logger)
	skipped = len(resolveErrs) > 0 || externErrs > 0

	logger.Debug("Compiling sources",
		"requested", len(req.SourceFiles),
		"resolved", len(srcs),
		"externs", len(externs),
		"level", o.level)
	outcome, err := o.compiler.Compile(ctx, compiler.Request{
		Sources: srcs,
		Externs: externs,
		Level:   o.level,
	})
	if err != nil {
		logger.Error("Compiler fault", "error", err)
		return Failure(CodeUnexpected, fmt.Sprintf(
			"unexpected exception %v while processing message %s", err, body))
	}
	for _, w := range outcome.Warnings {
		logger.Debug("Compiler warning", "warning", w.String())
	}
	if !outcome.Success() {
		diags := compiler.FormatDiagnostics(outcome.Diagnostics())
		logger.Error("Compilation failed", "diagnostics", diags)
		return Failure(CodeCompileFailed, "failed to compile js: "+diags)
	}

	dir := artifact.ContainingDirectory(req.CompiledFile)
	logger.Debug("Creating output directory", "dir", dir)
	if err := o.writer.MkdirAll(dir); err != nil {
		logger.Error("Failed to create output directory", "error", err)
		return Failure(CodeWriteFailed, fmt.Sprintf(
			"failed to write compiled js file %s: %v", req.CompiledFile, err))
	}

	logger.Debug("Writing compiled file", "bytes", len(outcome.Code))
	if err := o.writer.WriteFile(ctx, req.CompiledFile, outcome.Code); err != nil {
		logger.Error("Failed to write compiled file", "error", err)
		return Failure(CodeWriteFailed, fmt.Sprintf(
			"failed to write compiled js file %s: %v", req.CompiledFile, err))
	}

	return OK(fmt.Sprintf("successfully compiled %d javascript files", len(req.SourceFiles)))
}

// loadExterns returns the externs that resolved and how many were skipped.
func (o *Orchestrator) loadExterns(ctx context.Context, logger *slog.Logger) ([]sources.Source, int) {
	if len(o.externs) == 0 {
		return nil, 0
	}
	externs, errs := o.resolver.ResolveAll(ctx, o.externs)
	for _, err := range errs {
		logger.Warn("Failed to load externs", "error", err)
	}
	return externs, len(errs)
}

// finish writes the one-line request summary and, when the request failed, skipped an input,
// or debug logging is on, replays the request's collected stage logs.
func (o *Orchestrator) finish(ctx context.Context, collector *loglater.LogCollector, resp Response, skipped bool) {
	if resp.IsOK() {
		o.logger.Info("Compile request completed", "message", resp.Message)
	} else {
		o.logger.Warn("Compile request failed", "code", resp.Code, "message", resp.Message)
	}

	if resp.IsOK() && !skipped && !o.handler.Enabled(ctx, slog.LevelDebug) {
		return
	}
	if err := collector.PlayLogs(o.handler); err != nil {
		o.logger.Error("Failed to replay request logs", "error", err)
	}
}
