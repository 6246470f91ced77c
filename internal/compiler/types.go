// Package compiler wraps the external JavaScript optimizer behind a small interface. The
// default Engine is esbuild; CachedEngine and PooledEngine decorate any Engine.
package compiler

import (
	"context"
	"fmt"
	"strings"

	"github.com/atlanticdynamic/jscompiler/internal/sources"
)

// OptimizationLevel selects how aggressively sources are rewritten.
type OptimizationLevel int

const (
	// WhitespaceOnly removes whitespace and comments without touching identifiers or syntax.
	WhitespaceOnly OptimizationLevel = iota
	// Simple removes whitespace, folds syntax and renames local identifiers. Top-level and
	// global names are never renamed, so the external API shape is preserved.
	Simple
)

func (l OptimizationLevel) String() string {
	switch l {
	case WhitespaceOnly:
		return "WHITESPACE_ONLY"
	case Simple:
		return "SIMPLE"
	default:
		return fmt.Sprintf("OptimizationLevel(%d)", int(l))
	}
}

// ParseOptimizationLevel accepts "simple" or "whitespace_only" in any case; empty means Simple.
func ParseOptimizationLevel(s string) (OptimizationLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "SIMPLE":
		return Simple, nil
	case "WHITESPACE_ONLY", "WHITESPACE":
		return WhitespaceOnly, nil
	default:
		return Simple, fmt.Errorf("unknown optimization level: %s", s)
	}
}

// Request is one compiler invocation.
type Request struct {
	Sources []sources.Source
	// Externs are declaration-only inputs describing the API surface that must not be
	// renamed. They are checked but never emitted.
	Externs []sources.Source
	Level   OptimizationLevel
}

// Diagnostic is a single compiler message.
type Diagnostic struct {
	File   string
	Line   int
	Column int
	Text   string
}

func (d Diagnostic) String() string {
	if d.File == "" {
		return d.Text
	}
	if d.Line == 0 {
		return fmt.Sprintf("%s: %s", d.File, d.Text)
	}
	return fmt.Sprintf("%s:%d:%d: %s", d.File, d.Line, d.Column, d.Text)
}

// Outcome is the immutable result of a compilation. A compilation succeeded when it produced
// no errors, in which case Code holds the artifact.
type Outcome struct {
	Code     []byte
	Errors   []Diagnostic
	Warnings []Diagnostic
}

// Success reports whether the compilation produced an artifact.
func (o *Outcome) Success() bool {
	return o != nil && len(o.Errors) == 0
}

// Diagnostics renders the errors as strings, in the order they were reported.
func (o *Outcome) Diagnostics() []string {
	if o == nil {
		return nil
	}
	out := make([]string, 0, len(o.Errors))
	for _, d := range o.Errors {
		out = append(out, d.String())
	}
	return out
}

// FormatDiagnostics joins diagnostics as a bracketed, comma separated list.
func FormatDiagnostics(diags []string) string {
	return "[" + strings.Join(diags, ", ") + "]"
}

// Engine compiles sources. Compile errors are reported in the Outcome; the returned error is
// reserved for faults such as a canceled context.
type Engine interface {
	Compile(ctx context.Context, req Request) (*Outcome, error)
}
