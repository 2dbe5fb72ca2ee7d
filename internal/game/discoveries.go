package game

import (
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/core"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/diplomacy"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/effects"
)

// discoveryWorld exposes the engine to discovery effects.
type discoveryWorld struct {
	e *Engine
}

var _ effects.World = discoveryWorld{}

func (e *Engine) discoveries() discoveryWorld { return discoveryWorld{e: e} }

func (w discoveryWorld) UnlockState(empire core.EmpireID, s diplomacy.State) {
	w.e.diplomacy.Unlock(empire, s)
}

func (w discoveryWorld) IsUnlocked(empire core.EmpireID, s diplomacy.State) bool {
	return w.e.diplomacy.IsUnlocked(empire, s)
}

// AllowTerrain lifts the ban for the empire and every mover it owns. Paths
// already planned keep their old constraints until replanned.
func (w discoveryWorld) AllowTerrain(empire core.EmpireID, t core.Terrain) {
	emp, ok := w.e.state.Empires.Get(empire)
	if !ok {
		return
	}
	emp.Forbidden = emp.Forbidden.Without(t)
	for _, m := range w.e.state.Movers.OfEmpire(empire) {
		m.Forbidden = m.Forbidden.Without(t)
	}
}

func (w discoveryWorld) Forbids(empire core.EmpireID, t core.Terrain) bool {
	emp, ok := w.e.state.Empires.Get(empire)
	return !ok || emp.Forbidden.Has(t)
}

func (w discoveryWorld) BoostCapital(empire core.EmpireID, amount int) bool {
	id, ok := w.e.state.Empires.CapitalOf(empire)
	if !ok {
		return false
	}
	s, ok := w.e.state.Sources.Get(id)
	if !ok || s.Empire != empire {
		return false
	}
	s.Power += amount
	return true
}
