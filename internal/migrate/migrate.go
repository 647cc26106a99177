// Package migrate moves checked items from a low-priority list onto its
// primary list.
package migrate

import (
	"context"
	"fmt"

	"tasksweep/internal/cache"
	"tasksweep/internal/config"
	"tasksweep/internal/service"
)

// Engine performs the per-pair migration.
type Engine struct {
	svc   service.Service
	cache *cache.Cache
}

// NewEngine creates an Engine over the given backend and cache.
func NewEngine(svc service.Service, c *cache.Cache) *Engine {
	return &Engine{svc: svc, cache: c}
}

// Migrate moves every checked item on the pair's low-priority list to the
// primary list as a new unchecked item, deleting the original. Items move
// in source-list order. Returns the number of items moved.
//
// Each item is appended to the primary list before its original is
// deleted, so an interruption between the two calls can leave a duplicate
// on the primary list. The remote service offers no transaction across
// the two writes; the duplicate is an accepted limitation.
func (e *Engine) Migrate(ctx context.Context, set config.ListSet) (int, error) {
	primary, err := e.cache.Resolve(ctx, set.Primary)
	if err != nil {
		return 0, err
	}

	source, err := e.cache.Get(ctx, set.LowPriority)
	if err != nil {
		return 0, err
	}

	if source.List.ID == primary.ID {
		return 0, fmt.Errorf("primary and low priority names resolve to the same list %q", set.Primary)
	}

	moved := 0
	for _, item := range source.Items {
		if !item.Checked {
			continue
		}
		if err := e.svc.CreateItem(ctx, primary.ID, item.Text); err != nil {
			return moved, err
		}
		if err := e.svc.DeleteItem(ctx, source.List.ID, item.ID); err != nil {
			return moved, err
		}
		moved++
	}

	return moved, nil
}
