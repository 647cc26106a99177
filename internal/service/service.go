// Package service defines the backend-agnostic interface for list operations.
package service

import (
	"context"
	"errors"
)

// Boundary errors. Backends classify their failures onto these so callers
// can decide between skip-and-continue and terminate without inspecting
// transport details.
var (
	// ErrListNotFound means a configured list name has no matching remote list.
	ErrListNotFound = errors.New("list not found")

	// ErrAuth means the credential was rejected by the remote service.
	ErrAuth = errors.New("authentication failed")

	// ErrNetwork means a transient transport failure (timeout, connection).
	ErrNetwork = errors.New("network error")
)

// Service is the remote list-service boundary.
// All remote API calls go through this interface; the migration engine,
// cache, and poll loop never import the Google SDK directly.
type Service interface {
	// Lists returns all task lists (titles and IDs) in API order.
	Lists(ctx context.Context) ([]TaskList, error)

	// ListItems returns every item on a list, completed ones included,
	// in API order.
	ListItems(ctx context.Context, listID string) ([]Item, error)

	// CreateItem appends a new unchecked item with the given text.
	CreateItem(ctx context.Context, listID, text string) error

	// DeleteItem removes an item by ID.
	DeleteItem(ctx context.Context, listID, itemID string) error
}
