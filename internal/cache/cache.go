// Package cache holds the per-cycle copy of remote lists and resolves
// configured list names to remote lists.
//
// The working set is a handful of lists, so there is no eviction: the
// whole cache goes stale at the start of each poll cycle and refills on
// demand. Only the poll loop's goroutine touches it.
package cache

import (
	"context"
	"fmt"

	"tasksweep/internal/service"
)

// Note is a cached copy of a remote list and its items.
type Note struct {
	List  service.TaskList
	Items []service.Item
}

// Cache maps configured list names to their last-fetched contents.
type Cache struct {
	svc service.Service

	index      []service.TaskList
	indexFresh bool

	notes map[string]*Note
	fresh map[string]bool
}

// New creates an empty cache over the given backend.
func New(svc service.Service) *Cache {
	return &Cache{
		svc:   svc,
		notes: make(map[string]*Note),
		fresh: make(map[string]bool),
	}
}

// BeginCycle marks the entire cache stale. The next Get or Resolve for
// each name refetches from the backend.
func (c *Cache) BeginCycle() {
	c.indexFresh = false
	c.fresh = make(map[string]bool)
}

// Resolve maps a configured list name to its remote list by exact title
// match; the first match wins. If the name is missing from a cached index,
// the index is refetched once before giving up (the list may have been
// renamed or recreated since the last fetch).
func (c *Cache) Resolve(ctx context.Context, name string) (service.TaskList, error) {
	refreshed := false
	if !c.indexFresh {
		if err := c.refreshIndex(ctx); err != nil {
			return service.TaskList{}, err
		}
		refreshed = true
	}

	if list, ok := c.find(name); ok {
		return list, nil
	}

	if !refreshed {
		if err := c.refreshIndex(ctx); err != nil {
			return service.TaskList{}, err
		}
		if list, ok := c.find(name); ok {
			return list, nil
		}
	}

	return service.TaskList{}, fmt.Errorf("%w: %q", service.ErrListNotFound, name)
}

// Get returns the cached note for a list name, fetching it if it has not
// been fetched this cycle.
func (c *Cache) Get(ctx context.Context, name string) (*Note, error) {
	if c.fresh[name] {
		return c.notes[name], nil
	}

	list, err := c.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}

	items, err := c.svc.ListItems(ctx, list.ID)
	if err != nil {
		return nil, err
	}

	note := &Note{List: list, Items: items}
	c.notes[name] = note
	c.fresh[name] = true
	return note, nil
}

func (c *Cache) refreshIndex(ctx context.Context) error {
	lists, err := c.svc.Lists(ctx)
	if err != nil {
		return err
	}
	c.index = lists
	c.indexFresh = true
	return nil
}

func (c *Cache) find(name string) (service.TaskList, bool) {
	for _, list := range c.index {
		if list.Title == name {
			return list, true
		}
	}
	return service.TaskList{}, false
}
