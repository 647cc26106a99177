// Package exitcode defines process exit codes.
package exitcode

const (
	// Success indicates normal completion, including interruption of the
	// poll loop by signal or tray quit.
	Success = 0

	// ConfigError indicates a missing-beyond-first-run or malformed
	// configuration.
	ConfigError = 2

	// AuthError indicates an unrecoverable authentication failure.
	AuthError = 3
)
