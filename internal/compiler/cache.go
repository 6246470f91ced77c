package compiler

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
	"log/slog"

	"github.com/atlanticdynamic/jscompiler/internal/sources"
	lru "github.com/hashicorp/golang-lru/v2"
)

var _ Engine = (*CachedEngine)(nil)

// CachedEngine memoizes outcomes of a deterministic Engine, keyed by a digest of the
// request's level, sources and externs. Identical requests skip the compiler entirely.
type CachedEngine struct {
	next   Engine
	cache  *lru.Cache[string, *Outcome]
	logger *slog.Logger
}

// NewCachedEngine wraps next with an LRU cache holding up to size outcomes.
func NewCachedEngine(next Engine, size int, logger *slog.Logger) (*CachedEngine, error) {
	if next == nil {
		return nil, fmt.Errorf("cached engine requires a backing engine")
	}
	cache, err := lru.New[string, *Outcome](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create compile cache: %w", err)
	}
	if logger == nil {
		logger = slog.Default().WithGroup("compiler.CachedEngine")
	}
	return &CachedEngine{next: next, cache: cache, logger: logger}, nil
}

// Compile implements Engine.
func (c *CachedEngine) Compile(ctx context.Context, req Request) (*Outcome, error) {
	key := requestKey(req)
	if out, ok := c.cache.Get(key); ok {
		c.logger.Debug("Compile cache hit", "key", key[:12])
		return out, nil
	}

	out, err := c.next.Compile(ctx, req)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, out)
	return out, nil
}

// Len returns the number of cached outcomes.
func (c *CachedEngine) Len() int {
	return c.cache.Len()
}

func requestKey(req Request) string {
	h := sha256.New()
	writeInt(h, int64(req.Level))
	writeSources(h, "src", req.Sources)
	writeSources(h, "ext", req.Externs)
	return hex.EncodeToString(h.Sum(nil))
}

func writeSources(h hash.Hash, tag string, srcs []sources.Source) {
	h.Write([]byte(tag))
	writeInt(h, int64(len(srcs)))
	for _, s := range srcs {
		writeInt(h, int64(len(s.Identifier)))
		h.Write([]byte(s.Identifier))
		writeInt(h, int64(len(s.Content)))
		h.Write(s.Content)
	}
}

func writeInt(h hash.Hash, v int64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	h.Write(buf[:])
}
