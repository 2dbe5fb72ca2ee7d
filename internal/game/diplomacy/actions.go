package diplomacy

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAction is returned when parsing an unrecognised action name.
var ErrUnknownAction = errors.New("unknown diplomatic action")

// Action is a proposal one empire makes toward another.
type Action int

const (
	NoChange Action = iota
	DeclareWar
	MakePeace
	SignTreaty
	Surrender
)

// allActions lists the proposable actions in presentation order.
var allActions = []Action{DeclareWar, MakePeace, SignTreaty, Surrender}

type actionRule struct {
	name      string
	afterMe   State
	afterYou  State
	legalFrom StateSet
	// unilateral actions commit whatever the peer proposed, or without a peer proposal.
	unilateral bool
	compatible []Action
}

var rules = map[Action]actionRule{
	NoChange: {name: "NO_CHANGE"},
	DeclareWar: {
		name:       "DECLARE_WAR",
		afterMe:    StateWar,
		afterYou:   StateWar,
		legalFrom:  NewStateSet(StateNone, StateTreaty, StateTribute),
		unilateral: true,
	},
	MakePeace: {
		name:       "MAKE_PEACE",
		afterMe:    StateNone,
		afterYou:   StateNone,
		legalFrom:  NewStateSet(StateWar),
		compatible: []Action{MakePeace},
	},
	SignTreaty: {
		name:       "SIGN_TREATY",
		afterMe:    StateTreaty,
		afterYou:   StateTreaty,
		legalFrom:  NewStateSet(StateNone, StateWar),
		compatible: []Action{SignTreaty, MakePeace},
	},
	Surrender: {
		name:       "SURRENDER",
		afterMe:    StateTribute,
		afterYou:   StateTreaty,
		legalFrom:  NewStateSet(StateWar),
		compatible: []Action{MakePeace, SignTreaty},
	},
}

func (a Action) String() string {
	if r, ok := rules[a]; ok {
		return r.name
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// ParseAction converts an action name such as "sign_treaty".
func ParseAction(name string) (Action, error) {
	for a, r := range rules {
		if strings.EqualFold(r.name, name) {
			return a, nil
		}
	}
	return NoChange, fmt.Errorf("%q: %w", name, ErrUnknownAction)
}

// AfterMe is the proposer's state once the action commits.
func (a Action) AfterMe() State { return rules[a].afterMe }

// AfterYou is the peer's state once the action commits.
func (a Action) AfterYou() State { return rules[a].afterYou }

// LegalFrom reports whether a may be proposed from the current state.
func (a Action) LegalFrom(current State) bool {
	if a == NoChange {
		return true
	}
	return rules[a].legalFrom.Has(current)
}

// IsUnilateral reports whether a commits regardless of the peer.
func (a Action) IsUnilateral() bool { return rules[a].unilateral }

// CompatibleWith reports whether a commits given the peer's simultaneous
// proposal. NoChange stands for no peer proposal.
func (a Action) CompatibleWith(peer Action) bool {
	r, ok := rules[a]
	if !ok || a == NoChange {
		return false
	}
	if r.unilateral {
		return true
	}
	for _, c := range r.compatible {
		if c == peer {
			return true
		}
	}
	return false
}
