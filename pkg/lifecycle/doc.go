// Package lifecycle provides the plugin's phase state machine.
//
// A Machine holds the current Phase and only accepts transitions listed in
// its table. Every accepted transition is logged and reported to an optional
// EventEmitter. The machine never moves on its own; the host's init and
// deinit calls drive it.
//
// # Usage
//
//	m := lifecycle.NewMachine(logger, emitter)
//
//	if err := m.TransitionTo(lifecycle.PhaseInitializing, "InitPlugin called"); err != nil {
//	    return err
//	}
//
// # State Machine
//
// Valid phase transitions:
//   - Uninitialized -> Initializing
//   - Initializing -> Running, FailedInit
//   - Running -> Deinitializing
//   - FailedInit -> Deinitializing
//   - Deinitializing -> Stopped, FailedDeinit
//
// Stopped and FailedDeinit are terminal.
//
// # Version
//
// Current version: 2.0.0
// Minimum compatible version: 2.0.0
//
// See version.go for version constants that can be used programmatically.
package lifecycle
