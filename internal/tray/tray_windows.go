//go:build windows

package tray

import (
	"github.com/getlantern/systray"
)

const tooltip = "tasksweep: move checked low-priority items to the primary list"

// New returns the Windows tray controller.
func New() Controller {
	return &winTray{}
}

type winTray struct {
	started bool
}

// Start implements Controller. systray owns its own event loop; Quit
// clicks invoke onQuit, which is expected to cancel the poll loop's
// context.
func (t *winTray) Start(onQuit func()) {
	t.started = true
	go systray.Run(func() {
		systray.SetTitle("tasksweep")
		systray.SetTooltip(tooltip)
		quit := systray.AddMenuItem("Quit", "Stop moving items and exit")
		go func() {
			<-quit.ClickedCh
			onQuit()
			systray.Quit()
		}()
	}, func() {})
}

// Stop implements Controller.
func (t *winTray) Stop() {
	if t.started {
		systray.Quit()
	}
}
