// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"tasksweep/internal/service"
)

// ErrNotFound is returned when a resource is not found.
var ErrNotFound = errors.New("not found")

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu    sync.RWMutex
	lists []service.TaskList
	items map[string][]service.Item // listID -> items
	seq   int

	// Error injection for testing
	ListsErr      error
	ListItemsErr  map[string]error // listID -> error
	CreateItemErr error
	DeleteItemErr error

	// Call counters
	ListsCalls     int
	ListItemsCalls map[string]int
	CreateCalls    int
	DeleteCalls    int
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		items:          make(map[string][]service.Item),
		ListItemsErr:   make(map[string]error),
		ListItemsCalls: make(map[string]int),
	}
}

// AddList adds a list to the fake service.
func (f *FakeService) AddList(id, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, service.TaskList{ID: id, Title: title})
	if f.items[id] == nil {
		f.items[id] = nil
	}
}

// RenameList changes a list's title, keeping its ID.
func (f *FakeService) RenameList(id, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, l := range f.lists {
		if l.ID == id {
			f.lists[i].Title = title
		}
	}
}

// AddItem appends an item to a list.
func (f *FakeService) AddItem(listID, itemID, text string, checked bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[listID] = append(f.items[listID], service.Item{
		ID:      itemID,
		Text:    text,
		Checked: checked,
	})
}

// Items returns a snapshot of a list's items for assertions.
func (f *FakeService) Items(listID string) []service.Item {
	f.mu.RLock()
	defer f.mu.RUnlock()
	snapshot := make([]service.Item, len(f.items[listID]))
	copy(snapshot, f.items[listID])
	return snapshot
}

// WriteCalls returns the total number of remote write calls made.
func (f *FakeService) WriteCalls() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.CreateCalls + f.DeleteCalls
}

// Lists implements service.Service.
func (f *FakeService) Lists(ctx context.Context) ([]service.TaskList, error) {
	f.mu.Lock()
	f.ListsCalls++
	f.mu.Unlock()
	if f.ListsErr != nil {
		return nil, f.ListsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.TaskList, len(f.lists))
	copy(result, f.lists)
	return result, nil
}

// ListItems implements service.Service.
func (f *FakeService) ListItems(ctx context.Context, listID string) ([]service.Item, error) {
	f.mu.Lock()
	f.ListItemsCalls[listID]++
	f.mu.Unlock()
	if err, ok := f.ListItemsErr[listID]; ok && err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	items, ok := f.items[listID]
	if !ok {
		return nil, ErrNotFound
	}
	result := make([]service.Item, len(items))
	copy(result, items)
	return result, nil
}

// CreateItem implements service.Service.
func (f *FakeService) CreateItem(ctx context.Context, listID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	if f.CreateItemErr != nil {
		return f.CreateItemErr
	}
	if _, ok := f.items[listID]; !ok {
		return ErrNotFound
	}
	f.seq++
	f.items[listID] = append(f.items[listID], service.Item{
		ID:      fmt.Sprintf("gen-%d", f.seq),
		Text:    text,
		Checked: false,
	})
	return nil
}

// DeleteItem implements service.Service.
func (f *FakeService) DeleteItem(ctx context.Context, listID, itemID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++
	if f.DeleteItemErr != nil {
		return f.DeleteItemErr
	}
	items, ok := f.items[listID]
	if !ok {
		return ErrNotFound
	}
	for i, item := range items {
		if item.ID == itemID {
			f.items[listID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
