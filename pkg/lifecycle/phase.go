package lifecycle

// Phase represents the lifecycle phase of the plugin.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseInitializing
	PhaseRunning
	PhaseDeinitializing
	PhaseStopped
	PhaseFailedInit
	PhaseFailedDeinit
)

// String returns a human-readable representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "Uninitialized"
	case PhaseInitializing:
		return "Initializing"
	case PhaseRunning:
		return "Running"
	case PhaseDeinitializing:
		return "Deinitializing"
	case PhaseStopped:
		return "Stopped"
	case PhaseFailedInit:
		return "FailedInit"
	case PhaseFailedDeinit:
		return "FailedDeinit"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no further transition is possible from p.
func (p Phase) Terminal() bool {
	return len(transitions[p]) == 0
}

// transitions lists the phases reachable from each phase.
var transitions = map[Phase][]Phase{
	PhaseUninitialized:  {PhaseInitializing},
	PhaseInitializing:   {PhaseRunning, PhaseFailedInit},
	PhaseRunning:        {PhaseDeinitializing},
	PhaseFailedInit:     {PhaseDeinitializing},
	PhaseDeinitializing: {PhaseStopped, PhaseFailedDeinit},
}

// CanTransition reports whether from -> to is in the transition table.
func CanTransition(from, to Phase) bool {
	for _, p := range transitions[from] {
		if p == to {
			return true
		}
	}
	return false
}

// EventEmitter is called when the phase changes.
type EventEmitter interface {
	OnPhaseChange(previous, current Phase, reason string)
}
