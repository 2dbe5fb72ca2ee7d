package diplomacy

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownState is returned when parsing an unrecognised relation state.
var ErrUnknownState = errors.New("unknown relation state")

// State is one side's diplomatic stance toward another empire.
type State int

const (
	StateNone State = iota
	StateWar
	StateTreaty
	StateTribute
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "NONE"
	case StateWar:
		return "WAR"
	case StateTreaty:
		return "TREATY"
	case StateTribute:
		return "TRIBUTE"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ParseState converts a state name, case-insensitively.
func ParseState(name string) (State, error) {
	for s := StateNone; s <= StateTribute; s++ {
		if strings.EqualFold(s.String(), name) {
			return s, nil
		}
	}
	return StateNone, fmt.Errorf("%q: %w", name, ErrUnknownState)
}

// StateSet is a bitset of relation states.
type StateSet uint8

func NewStateSet(states ...State) StateSet {
	var set StateSet
	for _, s := range states {
		set = set.With(s)
	}
	return set
}

func (set StateSet) Has(s State) bool      { return set&(1<<uint(s)) != 0 }
func (set StateSet) With(s State) StateSet { return set | 1<<uint(s) }

// KnownStates are available to every empire without any discovery.
var KnownStates = NewStateSet(StateNone, StateWar)
