package handlers

import (
	"context"
	"log/slog"
	"sync"
)

// lastGood remembers the last successful read of a collection so public
// pages keep rendering while the store is unavailable.
type lastGood[T any] struct {
	mu     sync.RWMutex
	items  []T
	loaded bool
}

func (c *lastGood[T]) load(ctx context.Context, name string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	items, err := fetch(ctx)
	if err == nil {
		c.mu.Lock()
		c.items, c.loaded = items, true
		c.mu.Unlock()
		return items, nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded {
		return nil, err
	}
	slog.Warn("Serving cached collection", "collection", name, "error", err)
	return c.items, nil
}

