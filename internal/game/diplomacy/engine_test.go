package diplomacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/core"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/events"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/testutil"
)

func newTestEngine(t *testing.T, empires int) (*Engine, *core.EmpireRegistry, *testutil.RecordingPublisher) {
	t.Helper()
	reg := testutil.CreateTestEmpires(empires, false)
	pub := &testutil.RecordingPublisher{}
	return NewEngine(reg, pub, "test-world", testutil.NopLogger()), reg, pub
}

func unlockAll(d *Engine, ids ...core.EmpireID) {
	for _, id := range ids {
		d.Unlock(id, StateTreaty)
		d.Unlock(id, StateTribute)
	}
}

func TestEngine_RelationsStartAtNone(t *testing.T) {
	d, _, _ := newTestEngine(t, 2)
	assert.Equal(t, StateNone, d.Relation(0, 1))
	assert.Empty(t, d.Edges(), "queries do not create edges")
	assert.Equal(t, StateNone, d.Relation(0, 0))
}

func TestEngine_UnilateralWar(t *testing.T) {
	tests := []struct {
		name     string
		aState   State
		bState   State
		peerProp Action
	}{
		{"from none, peer silent", StateNone, StateNone, NoChange},
		{"from none, peer wants treaty", StateNone, StateNone, SignTreaty},
		{"from none, peer declares too", StateNone, StateNone, DeclareWar},
		{"from treaty", StateTreaty, StateTreaty, NoChange},
		{"from tribute", StateTribute, StateTreaty, DeclareWar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _, _ := newTestEngine(t, 2)
			unlockAll(d, 0, 1)
			d.SetRelation(0, 1, tt.aState, tt.bState)
			if tt.peerProp != NoChange {
				require.True(t, d.Propose(1, 0, tt.peerProp))
			}
			require.True(t, d.Propose(0, 1, DeclareWar))

			assert.Equal(t, 1, d.Tick(3))
			assert.Equal(t, StateWar, d.Relation(0, 1))
			assert.Equal(t, StateWar, d.Relation(1, 0))
			assert.Equal(t, NoChange, d.Pending(0, 1))
			assert.Equal(t, NoChange, d.Pending(1, 0))
		})
	}
}

func TestEngine_TreatyRequiresMutualIntent(t *testing.T) {
	t.Run("one-sided proposal waits", func(t *testing.T) {
		d, _, _ := newTestEngine(t, 2)
		unlockAll(d, 0, 1)
		require.True(t, d.Propose(0, 1, SignTreaty))

		assert.Zero(t, d.Tick(1))
		assert.Equal(t, StateNone, d.Relation(0, 1))
		assert.Equal(t, SignTreaty, d.Pending(0, 1), "proposal stays pending")
	})

	t.Run("both sign", func(t *testing.T) {
		d, _, _ := newTestEngine(t, 2)
		unlockAll(d, 0, 1)
		require.True(t, d.Propose(0, 1, SignTreaty))
		require.True(t, d.Propose(1, 0, SignTreaty))

		assert.Equal(t, 1, d.Tick(1))
		assert.Equal(t, StateTreaty, d.Relation(0, 1))
		assert.Equal(t, StateTreaty, d.Relation(1, 0))
		assert.Equal(t, NoChange, d.Pending(0, 1))
		assert.Equal(t, NoChange, d.Pending(1, 0))
	})

	for _, order := range []struct {
		name             string
		signer, peacemkr core.EmpireID
	}{
		{"lower id signs", 0, 1},
		{"higher id signs", 1, 0},
	} {
		t.Run("sign with peace from war, "+order.name, func(t *testing.T) {
			d, _, _ := newTestEngine(t, 2)
			unlockAll(d, 0, 1)
			d.SetRelation(0, 1, StateWar, StateWar)
			require.True(t, d.Propose(order.signer, order.peacemkr, SignTreaty))
			require.True(t, d.Propose(order.peacemkr, order.signer, MakePeace))

			assert.Equal(t, 1, d.Tick(1))
			assert.Equal(t, StateTreaty, d.Relation(0, 1))
			assert.Equal(t, StateTreaty, d.Relation(1, 0))
			assert.Equal(t, NoChange, d.Pending(0, 1))
			assert.Equal(t, NoChange, d.Pending(1, 0))
		})
	}

	t.Run("surrender answers a peace offer", func(t *testing.T) {
		d, _, _ := newTestEngine(t, 2)
		unlockAll(d, 0, 1)
		d.SetRelation(0, 1, StateWar, StateWar)
		require.True(t, d.Propose(0, 1, MakePeace))
		require.True(t, d.Propose(1, 0, Surrender))

		assert.Equal(t, 1, d.Tick(1))
		assert.Equal(t, StateTreaty, d.Relation(0, 1))
		assert.Equal(t, StateTribute, d.Relation(1, 0))
	})
}

func TestEngine_MakePeace(t *testing.T) {
	d, _, _ := newTestEngine(t, 2)
	d.SetRelation(0, 1, StateWar, StateWar)
	require.True(t, d.Propose(0, 1, MakePeace))
	assert.Zero(t, d.Tick(1))
	require.True(t, d.Propose(1, 0, MakePeace))
	assert.Equal(t, 1, d.Tick(2))
	assert.Equal(t, StateNone, d.Relation(0, 1))
	assert.False(t, d.AtWar(0, 1))
}

func TestEngine_SurrenderCreatesOverlord(t *testing.T) {
	d, _, _ := newTestEngine(t, 3)
	unlockAll(d, 0, 1, 2)
	d.SetRelation(2, 0, StateWar, StateWar)
	d.SetRelation(2, 1, StateWar, StateWar)
	require.True(t, d.Propose(2, 0, Surrender))
	require.True(t, d.Propose(0, 2, SignTreaty))
	require.True(t, d.Propose(2, 1, Surrender))
	require.True(t, d.Propose(1, 2, MakePeace))

	assert.Equal(t, 2, d.Tick(4))
	assert.Equal(t, StateTribute, d.Relation(2, 0))
	assert.Equal(t, StateTreaty, d.Relation(0, 2))
	assert.True(t, d.IsTreaty(0, 2))
	assert.Equal(t, []core.EmpireID{0, 1}, d.OverlordsOf(2))
	assert.Empty(t, d.OverlordsOf(0))
}

func TestEngine_IllegalProposalIsSilentNoOp(t *testing.T) {
	d, _, pub := newTestEngine(t, 2)

	assert.False(t, d.Propose(0, 1, MakePeace), "peace is only legal from war")
	assert.False(t, d.Propose(0, 1, SignTreaty), "treaty not unlocked")
	assert.False(t, d.Propose(0, 1, Surrender))
	assert.False(t, d.Propose(0, 0, DeclareWar), "no relation with self")
	assert.False(t, d.Propose(0, 7, DeclareWar), "unknown empire")
	assert.Equal(t, NoChange, d.Pending(0, 1))

	assert.Zero(t, d.Tick(1))
	assert.Empty(t, pub.Events)
}

func TestEngine_SurrenderNeedsTributeUnlocked(t *testing.T) {
	d, _, _ := newTestEngine(t, 2)
	d.SetRelation(0, 1, StateWar, StateWar)
	assert.False(t, d.Propose(0, 1, Surrender))
	d.Unlock(0, StateTribute)
	assert.True(t, d.Propose(0, 1, Surrender))
}

func TestEngine_NoChangeWithdraws(t *testing.T) {
	d, _, _ := newTestEngine(t, 2)
	unlockAll(d, 0, 1)
	require.True(t, d.Propose(0, 1, SignTreaty))
	require.True(t, d.Propose(0, 1, NoChange))
	require.True(t, d.Propose(1, 0, SignTreaty))

	assert.Zero(t, d.Tick(1))
	assert.Equal(t, StateNone, d.Relation(0, 1))
}

func TestEngine_EdgeChangesOncePerTurn(t *testing.T) {
	d, _, _ := newTestEngine(t, 2)
	unlockAll(d, 0, 1)
	d.SetRelation(0, 1, StateTreaty, StateTreaty)
	require.True(t, d.Propose(0, 1, DeclareWar))
	require.True(t, d.Propose(1, 0, DeclareWar))

	assert.Equal(t, 1, d.Tick(5))
	assert.Equal(t, StateWar, d.Relation(1, 0))
	assert.Equal(t, NoChange, d.Pending(1, 0), "the peer's proposal is cleared by the commit")

	edges := d.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, 5, edges[0].LastChangeTurn)
}

func TestEngine_PossibleActions(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		unlock   []State
		expected []Action
	}{
		{"none, nothing unlocked", StateNone, nil, []Action{NoChange, DeclareWar}},
		{"none, treaty unlocked", StateNone, []State{StateTreaty}, []Action{NoChange, DeclareWar, SignTreaty}},
		{"war, nothing unlocked", StateWar, nil, []Action{NoChange, MakePeace}},
		{"war, all unlocked", StateWar, []State{StateTreaty, StateTribute}, []Action{NoChange, MakePeace, SignTreaty, Surrender}},
		{"treaty", StateTreaty, []State{StateTreaty}, []Action{NoChange, DeclareWar}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _, _ := newTestEngine(t, 2)
			for _, s := range tt.unlock {
				d.Unlock(0, s)
			}
			d.SetRelation(0, 1, tt.state, tt.state)
			assert.Equal(t, tt.expected, d.PossibleActions(0, 1))
		})
	}
}

func TestEngine_EventsOnlyForHumanSides(t *testing.T) {
	d, reg, pub := newTestEngine(t, 3)
	human, _ := reg.Get(1)
	human.Human = true

	require.True(t, d.Propose(0, 1, DeclareWar))
	require.True(t, d.Propose(0, 2, DeclareWar))
	d.Tick(2)

	changed := pub.OfType(events.TypeRelationChanged)
	require.Len(t, changed, 1)
	ev := changed[0].(*events.RelationChangedEvent)
	assert.Equal(t, core.EmpireID(1), ev.Empire)
	assert.Equal(t, core.EmpireID(0), ev.Other)
	assert.Equal(t, "DECLARE_WAR", ev.Action)
	assert.Equal(t, "NONE", ev.Previous)
	assert.Equal(t, "WAR", ev.Current)
	assert.Equal(t, 2, ev.TurnNumber())
}

func TestEngine_EliminatedEmpiresAreSkipped(t *testing.T) {
	d, reg, _ := newTestEngine(t, 2)
	require.True(t, d.Propose(0, 1, DeclareWar))
	reg.MarkEliminated(1)

	assert.Zero(t, d.Tick(1))
	assert.Equal(t, StateNone, d.Relation(0, 1))
	assert.Equal(t, NoChange, d.Pending(0, 1))
}
