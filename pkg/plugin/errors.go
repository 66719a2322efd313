package plugin

import (
	"errors"
	"fmt"
	"runtime/debug"
)

var (
	// ErrNotRunning is returned by Deinit when there is nothing to tear down.
	ErrNotRunning = errors.New("plugin: not running")

	// ErrAlreadyInitialized is returned by Init after the first call.
	ErrAlreadyInitialized = errors.New("plugin: already initialized")

	// ErrMissingCollaborator is returned by New when a required collaborator is nil.
	ErrMissingCollaborator = errors.New("plugin: missing collaborator")

	// ErrPanic wraps a panic recovered from a collaborator or host call.
	ErrPanic = errors.New("plugin: panic")
)

// recoverInto converts a panic into *err, keeping the stack for the host log.
// It must be deferred directly.
func recoverInto(err *error) {
	if v := recover(); v != nil {
		*err = fmt.Errorf("%w: %v\n%s", ErrPanic, v, debug.Stack())
	}
}

// safeCall runs fn and converts a panic into an error.
func safeCall(fn func() error) (err error) {
	defer recoverInto(&err)
	return fn()
}
