// Package service defines the backend-agnostic interface for list operations.
package service

// TaskList represents a remote list note.
type TaskList struct {
	ID    string
	Title string
}

// Item is a single entry on a list.
type Item struct {
	ID      string
	Text    string
	Checked bool
}
