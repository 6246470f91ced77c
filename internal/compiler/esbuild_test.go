package compiler

import (
	"context"
	"strings"
	"testing"

	"github.com/atlanticdynamic/jscompiler/internal/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validJS = `
// greeting helper
function greet(name) {
    var prefix = "Hello, ";
    return prefix + name + "!";
}
window.greeting = greet("world");
`

const invalidJS = `
function broken( {
    return 1;
`

func src(id, content string) sources.Source {
	return sources.Source{Identifier: id, Content: []byte(content)}
}

func TestEsbuildEngine_Compile(t *testing.T) {
	t.Parallel()
	engine := NewEsbuildEngine()
	ctx := context.Background()

	t.Run("valid source is minified", func(t *testing.T) {
		out, err := engine.Compile(ctx, Request{Sources: []sources.Source{src("js/valid.js", validJS)}, Level: Simple})
		require.NoError(t, err)
		require.True(t, out.Success(), "diagnostics: %v", out.Diagnostics())

		code := string(out.Code)
		assert.NotEmpty(t, code)
		assert.Less(t, len(code), len(validJS))
		assert.NotContains(t, code, "greeting helper", "comments should be stripped")
		assert.Contains(t, code, "greet", "top-level names must survive")
		assert.Contains(t, code, "window.greeting")
	})

	t.Run("whitespace only keeps local names", func(t *testing.T) {
		out, err := engine.Compile(ctx, Request{Sources: []sources.Source{src("js/valid.js", validJS)}, Level: WhitespaceOnly})
		require.NoError(t, err)
		require.True(t, out.Success())
		assert.Contains(t, string(out.Code), "prefix")
	})

	t.Run("simple renames locals", func(t *testing.T) {
		out, err := engine.Compile(ctx, Request{Sources: []sources.Source{src("js/valid.js", validJS)}, Level: Simple})
		require.NoError(t, err)
		require.True(t, out.Success())
		assert.NotContains(t, string(out.Code), "prefix")
	})

	t.Run("invalid source fails with diagnostics", func(t *testing.T) {
		out, err := engine.Compile(ctx, Request{Sources: []sources.Source{src("js/invalid.js", invalidJS)}, Level: Simple})
		require.NoError(t, err)
		assert.False(t, out.Success())
		assert.Empty(t, out.Code)

		diags := out.Diagnostics()
		require.NotEmpty(t, diags)
		assert.True(t, strings.HasPrefix(diags[0], "js/invalid.js:"), "diagnostic should name the file: %s", diags[0])
	})

	t.Run("one invalid source fails the whole compilation", func(t *testing.T) {
		out, err := engine.Compile(ctx, Request{
			Sources: []sources.Source{src("a.js", validJS), src("b.js", invalidJS)},
			Level:   Simple,
		})
		require.NoError(t, err)
		assert.False(t, out.Success())
		assert.Empty(t, out.Code)
	})

	t.Run("sources are concatenated in order", func(t *testing.T) {
		out, err := engine.Compile(ctx, Request{
			Sources: []sources.Source{src("a.js", "var first = 1;"), src("b.js", "var second = 2;")},
			Level:   Simple,
		})
		require.NoError(t, err)
		require.True(t, out.Success())

		code := string(out.Code)
		first := strings.Index(code, "first")
		second := strings.Index(code, "second")
		require.GreaterOrEqual(t, first, 0)
		require.GreaterOrEqual(t, second, 0)
		assert.Less(t, first, second)
	})

	t.Run("no sources is a compile failure", func(t *testing.T) {
		out, err := engine.Compile(ctx, Request{Level: Simple})
		require.NoError(t, err)
		assert.False(t, out.Success())
		assert.Equal(t, []string{"no input sources"}, out.Diagnostics())
	})

	t.Run("broken extern fails the compilation", func(t *testing.T) {
		out, err := engine.Compile(ctx, Request{
			Sources: []sources.Source{src("a.js", validJS)},
			Externs: []sources.Source{src("externs/broken.js", invalidJS)},
			Level:   Simple,
		})
		require.NoError(t, err)
		assert.False(t, out.Success())
	})

	t.Run("externs are not emitted", func(t *testing.T) {
		out, err := engine.Compile(ctx, Request{
			Sources: []sources.Source{src("a.js", "var local = 1;")},
			Externs: []sources.Source{src("externs/lib.js", "var externalLibrary;")},
			Level:   Simple,
		})
		require.NoError(t, err)
		require.True(t, out.Success())
		assert.NotContains(t, string(out.Code), "externalLibrary")
	})

	t.Run("deterministic output", func(t *testing.T) {
		req := Request{Sources: []sources.Source{src("js/valid.js", validJS)}, Level: Simple}
		first, err := engine.Compile(ctx, req)
		require.NoError(t, err)
		second, err := engine.Compile(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, first.Code, second.Code)
	})

	t.Run("canceled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := engine.Compile(cctx, Request{Sources: []sources.Source{src("a.js", validJS)}})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDiagnostic_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "boom", Diagnostic{Text: "boom"}.String())
	assert.Equal(t, "a.js: boom", Diagnostic{File: "a.js", Text: "boom"}.String())
	assert.Equal(t, "a.js:3:7: boom", Diagnostic{File: "a.js", Line: 3, Column: 7, Text: "boom"}.String())
}

func TestFormatDiagnostics(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "[]", FormatDiagnostics(nil))
	assert.Equal(t, "[a, b]", FormatDiagnostics([]string{"a", "b"}))
}

func TestOptimizationLevel_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "SIMPLE", Simple.String())
	assert.Equal(t, "WHITESPACE_ONLY", WhitespaceOnly.String())
	assert.Equal(t, "OptimizationLevel(9)", OptimizationLevel(9).String())
}

func TestParseOptimizationLevel(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]OptimizationLevel{
		"":                Simple,
		"simple":          Simple,
		"SIMPLE":          Simple,
		"whitespace_only": WhitespaceOnly,
		" whitespace ":    WhitespaceOnly,
	} {
		got, err := ParseOptimizationLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseOptimizationLevel("advanced")
	require.Error(t, err)
}
