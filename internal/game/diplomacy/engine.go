package diplomacy

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/core"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/events"
)

// EmpireDirectory resolves empires by id.
type EmpireDirectory interface {
	Get(core.EmpireID) (*core.Empire, bool)
}

// Edge is the relation between an unordered pair of empires. Index 0 holds
// the side of the lower empire id.
type Edge struct {
	Empires [2]core.EmpireID `json:"empires"`
	States  [2]State         `json:"states"`
	// Pending holds each side's proposal; NoChange means none.
	Pending [2]Action `json:"pending"`
	// LastChangeTurn is stamped on every commit; nothing reads it yet.
	LastChangeTurn int `json:"last_change_turn"`
}

// side returns the index of empire within the edge.
func (e *Edge) side(empire core.EmpireID) int {
	if e.Empires[0] == empire {
		return 0
	}
	return 1
}

type edgeKey struct{ lo, hi core.EmpireID }

func keyOf(a, b core.EmpireID) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// Engine owns every relation edge and resolves proposals once per turn.
type Engine struct {
	empires   EmpireDirectory
	edges     map[edgeKey]*Edge
	unlocked  map[core.EmpireID]StateSet
	publisher events.Publisher
	worldID   string
	logger    zerolog.Logger
}

// NewEngine creates a diplomacy engine with no relations.
func NewEngine(empires EmpireDirectory, publisher events.Publisher, worldID string, logger zerolog.Logger) *Engine {
	if publisher == nil {
		publisher = events.Discard
	}
	return &Engine{
		empires:   empires,
		edges:     make(map[edgeKey]*Edge),
		unlocked:  make(map[core.EmpireID]StateSet),
		publisher: publisher,
		worldID:   worldID,
		logger:    logger.With().Str("component", "diplomacy").Logger(),
	}
}

// edge returns the edge between a and b, creating it with NONE on first use.
func (d *Engine) edge(a, b core.EmpireID) *Edge {
	k := keyOf(a, b)
	e, ok := d.edges[k]
	if !ok {
		e = &Edge{Empires: [2]core.EmpireID{k.lo, k.hi}}
		d.edges[k] = e
	}
	return e
}

// Edges returns every edge ordered by empire pair.
func (d *Engine) Edges() []*Edge {
	out := make([]*Edge, 0, len(d.edges))
	for _, e := range d.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Empires[0] != out[j].Empires[0] {
			return out[i].Empires[0] < out[j].Empires[0]
		}
		return out[i].Empires[1] < out[j].Empires[1]
	})
	return out
}

// Relation returns a's state toward b. Pairs that never interacted are NONE.
func (d *Engine) Relation(a, b core.EmpireID) State {
	e, ok := d.edges[keyOf(a, b)]
	if !ok || a == b {
		return StateNone
	}
	return e.States[e.side(a)]
}

// SetRelation forces both sides of a relation, as when loading a scenario.
func (d *Engine) SetRelation(a, b core.EmpireID, aState, bState State) {
	if a == b {
		return
	}
	e := d.edge(a, b)
	e.States[e.side(a)] = aState
	e.States[e.side(b)] = bState
}

func (d *Engine) IsTreaty(a, b core.EmpireID) bool { return d.Relation(a, b) == StateTreaty }
func (d *Engine) AtWar(a, b core.EmpireID) bool    { return d.Relation(a, b) == StateWar }

// OverlordsOf returns, in id order, the empires e pays tribute to.
func (d *Engine) OverlordsOf(e core.EmpireID) []core.EmpireID {
	var out []core.EmpireID
	for _, edge := range d.Edges() {
		if edge.Empires[0] != e && edge.Empires[1] != e {
			continue
		}
		s := edge.side(e)
		if edge.States[s] == StateTribute {
			out = append(out, edge.Empires[1-s])
		}
	}
	return out
}

// Unlock makes state available to empire's proposals.
func (d *Engine) Unlock(empire core.EmpireID, state State) {
	d.unlocked[empire] = d.unlocked[empire].With(state)
}

// IsUnlocked reports whether empire may propose actions that lead to state.
func (d *Engine) IsUnlocked(empire core.EmpireID, state State) bool {
	return KnownStates.Has(state) || d.unlocked[empire].Has(state)
}

// allowed reports whether a may propose action toward b right now.
func (d *Engine) allowed(a, b core.EmpireID, action Action) bool {
	if action == NoChange {
		return true
	}
	return action.LegalFrom(d.Relation(a, b)) && d.IsUnlocked(a, action.AfterMe())
}

func (d *Engine) resolvable(ids ...core.EmpireID) bool {
	for _, id := range ids {
		e, ok := d.empires.Get(id)
		if !ok || e.Eliminated {
			return false
		}
	}
	return true
}

// Propose records a's proposal toward b. Illegal or locked actions are
// dropped without error and false is returned. NoChange withdraws any
// pending proposal.
func (d *Engine) Propose(a, b core.EmpireID, action Action) bool {
	if a == b || !d.resolvable(a, b) || !d.allowed(a, b, action) {
		d.logger.Debug().
			Int("empire_id", int(a)).
			Int("target_id", int(b)).
			Str("action", action.String()).
			Str("relation", d.Relation(a, b).String()).
			Msg("Ignored illegal proposal")
		return false
	}
	e := d.edge(a, b)
	e.Pending[e.side(a)] = action
	return true
}

// Pending returns a's outstanding proposal toward b.
func (d *Engine) Pending(a, b core.EmpireID) Action {
	e, ok := d.edges[keyOf(a, b)]
	if !ok {
		return NoChange
	}
	return e.Pending[e.side(a)]
}

// PossibleActions lists NoChange plus every action a could propose toward b.
func (d *Engine) PossibleActions(a, b core.EmpireID) []Action {
	out := []Action{NoChange}
	if a == b {
		return out
	}
	for _, action := range allActions {
		if d.allowed(a, b, action) {
			out = append(out, action)
		}
	}
	return out
}

type proposal struct {
	proposer, target core.EmpireID
	action           Action
}

// Tick commits every compatible proposal. Proposals are visited in
// (proposer, target) order and each edge changes at most once per turn.
// It returns the number of relations that changed.
func (d *Engine) Tick(turn int) int {
	var pending []proposal
	for _, e := range d.Edges() {
		for s := 0; s < 2; s++ {
			if e.Pending[s] != NoChange {
				pending = append(pending, proposal{proposer: e.Empires[s], target: e.Empires[1-s], action: e.Pending[s]})
			}
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].proposer != pending[j].proposer {
			return pending[i].proposer < pending[j].proposer
		}
		return pending[i].target < pending[j].target
	})

	touched := make(map[edgeKey]bool)
	changes := 0
	for _, p := range pending {
		k := keyOf(p.proposer, p.target)
		if touched[k] {
			continue
		}
		e := d.edges[k]
		if !d.resolvable(p.proposer, p.target) {
			e.Pending = [2]Action{}
			continue
		}
		me, you := e.side(p.proposer), e.side(p.target)
		if !p.action.LegalFrom(e.States[me]) {
			e.Pending[me] = NoChange
			continue
		}
		if !p.action.CompatibleWith(e.Pending[you]) {
			continue
		}

		before := e.States
		e.States[me] = p.action.AfterMe()
		e.States[you] = p.action.AfterYou()
		e.Pending = [2]Action{}
		e.LastChangeTurn = turn
		touched[k] = true
		changes++

		d.logger.Info().
			Int("turn", turn).
			Int("empire_id", int(p.proposer)).
			Int("target_id", int(p.target)).
			Str("action", p.action.String()).
			Str("state", e.States[me].String()).
			Msg("Relation changed")
		d.notify(turn, p.proposer, p.target, p.action, before[me], e.States[me])
		d.notify(turn, p.target, p.proposer, p.action, before[you], e.States[you])
	}
	return changes
}

// notify publishes a relation change for empire if a human controls it.
func (d *Engine) notify(turn int, empire, other core.EmpireID, action Action, previous, current State) {
	e, ok := d.empires.Get(empire)
	if !ok || !e.Human {
		return
	}
	d.publisher.Publish(events.NewRelationChangedEvent(d.worldID, turn, empire, other,
		action.String(), previous.String(), current.String()))
}
