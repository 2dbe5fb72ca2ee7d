package diplomacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionTable(t *testing.T) {
	tests := []struct {
		action    Action
		afterMe   State
		afterYou  State
		legalFrom []State
	}{
		{DeclareWar, StateWar, StateWar, []State{StateNone, StateTreaty, StateTribute}},
		{MakePeace, StateNone, StateNone, []State{StateWar}},
		{SignTreaty, StateTreaty, StateTreaty, []State{StateNone, StateWar}},
		{Surrender, StateTribute, StateTreaty, []State{StateWar}},
	}

	for _, tt := range tests {
		t.Run(tt.action.String(), func(t *testing.T) {
			assert.Equal(t, tt.afterMe, tt.action.AfterMe())
			assert.Equal(t, tt.afterYou, tt.action.AfterYou())
			legal := NewStateSet(tt.legalFrom...)
			for s := StateNone; s <= StateTribute; s++ {
				assert.Equal(t, legal.Has(s), tt.action.LegalFrom(s), "legal from %s", s)
			}
		})
	}
}

func TestDeclareWarIsCompatibleWithAnything(t *testing.T) {
	assert.True(t, DeclareWar.IsUnilateral())
	for _, peer := range append([]Action{NoChange}, allActions...) {
		assert.True(t, DeclareWar.CompatibleWith(peer), "peer %s", peer)
	}
}

func TestCompatibility(t *testing.T) {
	tests := []struct {
		action   Action
		peer     Action
		expected bool
	}{
		{SignTreaty, SignTreaty, true},
		{SignTreaty, MakePeace, true},
		{SignTreaty, NoChange, false},
		{SignTreaty, DeclareWar, false},
		{SignTreaty, Surrender, false},
		{MakePeace, MakePeace, true},
		{MakePeace, NoChange, false},
		{MakePeace, SignTreaty, false},
		{Surrender, MakePeace, true},
		{Surrender, SignTreaty, true},
		{Surrender, NoChange, false},
		{NoChange, NoChange, false},
	}

	for _, tt := range tests {
		t.Run(tt.action.String()+"/"+tt.peer.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.action.CompatibleWith(tt.peer))
		})
	}
}

func TestParseActionAndState(t *testing.T) {
	a, err := ParseAction("sign_treaty")
	require.NoError(t, err)
	assert.Equal(t, SignTreaty, a)

	_, err = ParseAction("annex")
	assert.ErrorIs(t, err, ErrUnknownAction)

	s, err := ParseState("Tribute")
	require.NoError(t, err)
	assert.Equal(t, StateTribute, s)

	_, err = ParseState("alliance")
	assert.ErrorIs(t, err, ErrUnknownState)

	assert.Equal(t, "State(9)", State(9).String())
}

func TestKnownStates(t *testing.T) {
	assert.True(t, KnownStates.Has(StateNone))
	assert.True(t, KnownStates.Has(StateWar))
	assert.False(t, KnownStates.Has(StateTreaty))
	assert.False(t, KnownStates.Has(StateTribute))
}
