package catalog

import (
	"context"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedSource memoizes built components in an LRU.
//
// Entries stay until evicted or invalidated; pair it with a
// reference.Watcher to drop components whose files change.
// Not-found results are never cached.
type CachedSource struct {
	inner  Source
	cache  *lru.Cache[string, ComponentInfo]
	logger *slog.Logger
}

var _ Source = (*CachedSource)(nil)

// NewCachedSource wraps inner with an LRU of size entries.
func NewCachedSource(inner Source, size int, logger *slog.Logger) (*CachedSource, error) {
	cache, err := lru.New[string, ComponentInfo](size)
	if err != nil {
		return nil, fmt.Errorf("create component cache: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedSource{inner: inner, cache: cache, logger: logger}, nil
}

// Names is not cached: listing the directory is cheap and picks up new files.
func (c *CachedSource) Names(ctx context.Context) ([]string, error) {
	return c.inner.Names(ctx)
}

// Build returns the cached record or builds and stores it.
func (c *CachedSource) Build(ctx context.Context, name string) (ComponentInfo, bool, error) {
	if info, ok := c.cache.Get(name); ok {
		return info, true, nil
	}
	info, ok, err := c.inner.Build(ctx, name)
	if err != nil || !ok {
		return info, ok, err
	}
	c.cache.Add(name, info)
	return info, true, nil
}

// Invalidate drops the cached record of one component.
func (c *CachedSource) Invalidate(name string) {
	if c.cache.Remove(name) {
		c.logger.Debug("component cache invalidated", "component", name, "cached", c.Len())
	}
}

// Len returns the number of cached records.
func (c *CachedSource) Len() int {
	return c.cache.Len()
}
