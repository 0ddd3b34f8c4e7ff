// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	Success = 0

	// UserError covers bad arguments and requests the server rejected.
	UserError = 1

	// AuthError means there is no usable session.
	AuthError = 2

	// BackendError covers an unreachable server and server-side failures.
	BackendError = 3
)
