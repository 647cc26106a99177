// Package tray provides the optional system tray affordance.
//
// Only Windows gets a real icon; everywhere else New returns a no-op
// controller so the poll loop stays platform-agnostic.
package tray

// Controller is the background-run affordance: an icon with a Quit action.
type Controller interface {
	// Start shows the icon. onQuit runs when the user picks Quit from
	// the icon's menu.
	Start(onQuit func())

	// Stop removes the icon. Safe to call if Start was never called.
	Stop()
}

// Noop is a Controller that does nothing. Used on platforms without tray
// support and in tests.
type Noop struct{}

// Start implements Controller.
func (Noop) Start(onQuit func()) {}

// Stop implements Controller.
func (Noop) Stop() {}
