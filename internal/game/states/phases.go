package states

import "fmt"

// TurnPhase is the step of the turn cycle the world is in.
type TurnPhase int

const (
	// PhaseIdle - between turns; orders are accepted
	PhaseIdle TurnPhase = iota

	// PhaseInfluence - influence deltas applied and recomputed
	PhaseInfluence

	// PhaseDiplomacy - pending proposals resolved
	PhaseDiplomacy

	// PhaseMovement - movers advance along their paths
	PhaseMovement

	// PhaseEnded - final state, no further turns
	PhaseEnded
)

// String returns the string representation of a TurnPhase
func (p TurnPhase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseInfluence:
		return "Influence"
	case PhaseDiplomacy:
		return "Diplomacy"
	case PhaseMovement:
		return "Movement"
	case PhaseEnded:
		return "Ended"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// IsTerminal returns true if no transition leaves the phase
func (p TurnPhase) IsTerminal() bool {
	return p == PhaseEnded
}

// AcceptsOrders returns true if players may queue orders in this phase
func (p TurnPhase) AcceptsOrders() bool {
	return p == PhaseIdle
}

// AllowedTransitions returns the valid phases this phase can transition to
func (p TurnPhase) AllowedTransitions() []TurnPhase {
	switch p {
	case PhaseIdle:
		return []TurnPhase{PhaseInfluence, PhaseEnded}
	case PhaseInfluence:
		return []TurnPhase{PhaseDiplomacy}
	case PhaseDiplomacy:
		return []TurnPhase{PhaseMovement}
	case PhaseMovement:
		return []TurnPhase{PhaseIdle}
	default:
		return []TurnPhase{}
	}
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (p TurnPhase) CanTransitionTo(target TurnPhase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}

// ParsePhase converts a string to a TurnPhase
func ParsePhase(s string) (TurnPhase, error) {
	for p := PhaseIdle; p <= PhaseEnded; p++ {
		if p.String() == s {
			return p, nil
		}
	}
	return PhaseIdle, fmt.Errorf("unknown phase %q", s)
}
