package artifact

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

var (
	ErrEmptyPath      = errors.New("artifact path is empty")
	ErrIsDir          = errors.New("artifact path is a directory")
	ErrOutsideBaseDir = errors.New("artifact path escapes the output directory")
)

// lockStripes bounds the number of mutexes regardless of how many distinct paths are written.
const lockStripes = 64

// Writer creates output directories and writes artifacts. Writes to the same path are
// serialized, and each write lands through a temporary file renamed over the target, so the
// last successful write wins and readers never observe a partially written artifact.
type Writer struct {
	logger   *slog.Logger
	baseDir  string
	confine  bool
	dirMode  fs.FileMode
	fileMode fs.FileMode

	locks [lockStripes]sync.Mutex
}

// NewWriter creates a Writer.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{
		logger:   slog.Default().WithGroup("artifact.Writer"),
		dirMode:  0o755,
		fileMode: 0o644,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Resolve returns the on-disk location for an artifact path. A confined Writer rejects
// absolute paths and paths that climb out of the base directory with ErrOutsideBaseDir.
func (w *Writer) Resolve(path string) (string, error) {
	local := filepath.FromSlash(path)
	if w.confine && !filepath.IsLocal(local) {
		return "", fmt.Errorf("%w: %s", ErrOutsideBaseDir, path)
	}
	if w.baseDir == "" || filepath.IsAbs(local) {
		return local, nil
	}
	return filepath.Join(w.baseDir, local), nil
}

// MkdirAll creates dir and any missing parents. An empty dir refers to the current directory
// and is a no-op.
func (w *Writer) MkdirAll(dir string) error {
	if dir == "" {
		return nil
	}
	target, err := w.Resolve(dir)
	if err != nil {
		return err
	}
	w.logger.Debug("Creating output directory", "dir", target)
	if err := os.MkdirAll(target, w.dirMode); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", target, err)
	}
	return nil
}

// WriteFile writes data to path. The context is checked before the write starts; once the
// rename has begun the write is not interrupted.
func (w *Writer) WriteFile(ctx context.Context, path string, data []byte) error {
	if path == "" {
		return ErrEmptyPath
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	target, err := w.Resolve(path)
	if err != nil {
		return err
	}
	mu := w.lockFor(target)
	mu.Lock()
	defer mu.Unlock()

	if info, err := os.Stat(target); err == nil && info.IsDir() {
		return fmt.Errorf("%w: %s", ErrIsDir, target)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %s: %w", target, err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		if rmErr := os.Remove(tmpName); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			w.logger.Warn("Failed to remove temporary file", "path", tmpName, "error", rmErr)
		}
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close %s: %w", target, err)
	}
	if err := os.Chmod(tmpName, w.fileMode); err != nil {
		cleanup()
		return fmt.Errorf("failed to set permissions on %s: %w", target, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		cleanup()
		return fmt.Errorf("failed to move artifact into place at %s: %w", target, err)
	}

	w.logger.Debug("Wrote artifact", "path", target, "bytes", len(data))
	return nil
}

// lockFor picks the stripe for path. Distinct paths may share a stripe; the same path always
// maps to the same one.
func (w *Writer) lockFor(path string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(path))
	return &w.locks[h.Sum32()%lockStripes]
}
