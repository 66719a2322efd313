package lifecycle

import (
	"errors"
	"fmt"
	"sync"

	"github.com/anoyetta/specialspelltimer/pkg/log"
)

// ErrInvalidTransition is returned for a transition missing from the table.
var ErrInvalidTransition = errors.New("lifecycle: invalid transition")

// Machine implements the phase state machine.
type Machine struct {
	mu           sync.RWMutex
	phase        Phase
	logger       log.Logger
	eventEmitter EventEmitter
}

// NewMachine creates a machine in PhaseUninitialized.
func NewMachine(logger log.Logger, emitter EventEmitter) *Machine {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Machine{
		phase:        PhaseUninitialized,
		logger:       logger,
		eventEmitter: emitter,
	}
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.phase
}

// TransitionTo moves to next if the table allows it.
// The phase is unchanged when an error is returned.
func (m *Machine) TransitionTo(next Phase, reason string) error {
	m.mu.Lock()
	prev := m.phase
	if !CanTransition(prev, next) {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, prev, next)
	}
	m.phase = next
	m.mu.Unlock()

	// Emit event outside of lock
	if m.eventEmitter != nil {
		m.eventEmitter.OnPhaseChange(prev, next, reason)
	}

	m.logger.Info("state transition",
		log.String("from", prev.String()),
		log.String("to", next.String()),
		log.String("reason", reason),
	)

	return nil
}

// CanInit reports whether the host's init call may start initialization.
func (m *Machine) CanInit() bool {
	return CanTransition(m.Phase(), PhaseInitializing)
}

// CanDeinit reports whether the host's deinit call may start teardown.
func (m *Machine) CanDeinit() bool {
	return CanTransition(m.Phase(), PhaseDeinitializing)
}
