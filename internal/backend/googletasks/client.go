// Package googletasks implements the service.Service interface using Google Tasks API.
package googletasks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"tasksweep/internal/service"
)

const (
	// PageSize is the number of lists or items fetched per page.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 10 * time.Second

	statusCompleted   = "completed"
	statusNeedsAction = "needsAction"
)

// Client implements service.Service using Google Tasks API.
type Client struct {
	svc *tasks.Service
}

// New creates a Google Tasks client from an OAuth token source.
// The token source refreshes automatically.
func New(ctx context.Context, ts oauth2.TokenSource) (*Client, error) {
	httpClient := oauth2.NewClient(ctx, ts)

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}

	return &Client{svc: svc}, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client) (*Client, error) {
	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc}, nil
}

// Lists returns all task lists in API order.
func (c *Client) Lists(ctx context.Context) ([]service.TaskList, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var result []service.TaskList
	err := c.svc.Tasklists.List().MaxResults(PageSize).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, list := range resp.Items {
			result = append(result, service.TaskList{
				ID:    list.Id,
				Title: list.Title,
			})
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	return result, nil
}

// ListItems returns every item on a list, completed ones included.
// Completed tasks are hidden by the API by default, so both ShowCompleted
// and ShowHidden are required to see them.
func (c *Client) ListItems(ctx context.Context, listID string) ([]service.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var result []service.Item
	err := c.svc.Tasks.List(listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, task := range resp.Items {
				result = append(result, service.Item{
					ID:      task.Id,
					Text:    task.Title,
					Checked: task.Status == statusCompleted,
				})
			}
			return nil
		})
	if err != nil {
		return nil, classify(err)
	}

	return result, nil
}

// CreateItem appends a new unchecked item with the given text.
func (c *Client) CreateItem(ctx context.Context, listID, text string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := c.svc.Tasks.Insert(listID, &tasks.Task{
		Title:  text,
		Status: statusNeedsAction,
	}).Context(ctx).Do()
	if err != nil {
		return classify(err)
	}
	return nil
}

// DeleteItem removes an item by ID.
func (c *Client) DeleteItem(ctx context.Context, listID, itemID string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	err := c.svc.Tasks.Delete(listID, itemID).Context(ctx).Do()
	if err != nil {
		return classify(err)
	}
	return nil
}

// classify maps API failures onto the service boundary errors.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: token expired or revoked", service.ErrAuth)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", service.ErrListNotFound, err)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: request timed out", service.ErrNetwork)
	}

	// The SDK does not always surface a typed error; fall back to the text.
	errStr := err.Error()
	if strings.Contains(errStr, "401") || strings.Contains(errStr, "403") {
		return fmt.Errorf("%w: token expired or revoked", service.ErrAuth)
	}
	if strings.Contains(errStr, "404") {
		return fmt.Errorf("%w: %v", service.ErrListNotFound, err)
	}

	return fmt.Errorf("%w: %v", service.ErrNetwork, err)
}
