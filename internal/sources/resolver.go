// Package sources maps logical source identifiers such as "js/app.js" to their content by
// searching an ordered list of source roots, the way a classpath lookup would.
package sources

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"
)

// Source is one resolved compilation input.
type Source struct {
	Identifier string
	Content    []byte
}

// Root is a named filesystem searched for identifiers.
type Root struct {
	Name string
	FS   fs.FS
}

// Resolver looks identifiers up against its roots in order; the first root containing the
// identifier wins. Content is read on every call, nothing is cached.
type Resolver struct {
	logger *slog.Logger
	roots  []Root
}

// NewResolver creates a Resolver over directories on disk.
func NewResolver(dirs []string, opts ...Option) (*Resolver, error) {
	roots := make([]Root, 0, len(dirs))
	for _, dir := range dirs {
		roots = append(roots, Root{Name: dir, FS: os.DirFS(dir)})
	}
	return NewResolverFromRoots(roots, opts...)
}

// NewResolverFromRoots creates a Resolver over arbitrary filesystems.
func NewResolverFromRoots(roots []Root, opts ...Option) (*Resolver, error) {
	if len(roots) == 0 {
		return nil, ErrNoRoots
	}
	r := &Resolver{
		logger: slog.Default().WithGroup("sources.Resolver"),
		roots:  roots,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Roots returns the names of the configured roots in search order.
func (r *Resolver) Roots() []string {
	names := make([]string, 0, len(r.roots))
	for _, root := range r.roots {
		names = append(names, root.Name)
	}
	return names
}

// Resolve loads the content for one identifier.
func (r *Resolver) Resolve(ctx context.Context, identifier string) (Source, error) {
	name, err := cleanIdentifier(identifier)
	if err != nil {
		return Source{}, &ResolutionError{Identifier: identifier, Err: err}
	}

	for _, root := range r.roots {
		if err := ctx.Err(); err != nil {
			return Source{}, &ResolutionError{Identifier: identifier, Err: err}
		}

		content, err := fs.ReadFile(root.FS, name)
		if err == nil {
			r.logger.Debug("Resolved source", "identifier", identifier, "root", root.Name, "bytes", len(content))
			return Source{Identifier: identifier, Content: content}, nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return Source{}, &ResolutionError{
			Identifier: identifier,
			Err:        fmt.Errorf("reading from %s: %w", root.Name, err),
		}
	}

	return Source{}, &ResolutionError{Identifier: identifier, Err: ErrSourceNotFound}
}

// ResolveAll resolves every identifier in order. Identifiers that fail are skipped and
// reported in the returned error list for the caller to log; they never abort the batch.
func (r *Resolver) ResolveAll(ctx context.Context, identifiers []string) ([]Source, []error) {
	resolved := make([]Source, 0, len(identifiers))
	var failures []error
	for _, id := range identifiers {
		src, err := r.Resolve(ctx, id)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		r.logger.Debug("Adding source to compilation", "identifier", id)
		resolved = append(resolved, src)
	}
	return resolved, failures
}

// cleanIdentifier turns an identifier into an fs.FS path. A leading "/" is tolerated, the
// same as a classpath-absolute resource name.
func cleanIdentifier(identifier string) (string, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(identifier), "/")
	if trimmed == "" {
		return "", ErrInvalidIdentifier
	}
	name := path.Clean(trimmed)
	if !fs.ValidPath(name) {
		return "", fmt.Errorf("%w: %s", ErrInvalidIdentifier, identifier)
	}
	return name, nil
}
