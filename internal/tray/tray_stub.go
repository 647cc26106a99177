//go:build !windows

package tray

// New returns the platform tray controller. There is no tray integration
// on this platform.
func New() Controller {
	return Noop{}
}
