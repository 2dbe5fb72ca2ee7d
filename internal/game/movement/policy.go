package movement

import (
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/core"
)

// InfluenceView exposes tile ownership.
type InfluenceView interface {
	Main(core.Coordinate) (core.EmpireID, bool)
}

// RelationView exposes the diplomatic state needed for the invasion rule.
type RelationView interface {
	AtWar(a, b core.EmpireID) bool
}

// Policy decides whether a mover may stand on a tile.
type Policy struct {
	grid      *core.Grid
	influence InfluenceView
	relations RelationView
	movers    *MoverRegistry
	// invadeAtWar lets armies enter tiles of an empire at war with theirs.
	invadeAtWar bool
}

func NewPolicy(grid *core.Grid, influence InfluenceView, relations RelationView, movers *MoverRegistry) *Policy {
	return &Policy{grid: grid, influence: influence, relations: relations, movers: movers}
}

// SetInvadeAtWar toggles the optional rule that lets armies enter tiles
// dominated by an empire at war with their own. It is off by default.
func (p *Policy) SetInvadeAtWar(enabled bool) { p.invadeAtWar = enabled }

// CanStep reports whether m may move onto c right now. Terrain must be
// passable and not forbidden to m, the tile must be free, and it must be
// dominated by m's empire.
func (p *Policy) CanStep(m *Mover, c core.Coordinate) bool {
	if !p.terrainAllows(m, c) {
		return false
	}
	if occupied, _ := p.movers.OccupiedByOther(c, m); occupied {
		return false
	}
	return p.ownershipAllows(m, c)
}

// CanPlan returns the predicate used while planning for m. It matches
// CanStep except that tiles held by friendly movers stay enterable; the
// planner charges extra for them instead.
func (p *Policy) CanPlan(m *Mover) CanEnter {
	return func(c core.Coordinate) bool {
		if !p.terrainAllows(m, c) {
			return false
		}
		if _, foreign := p.movers.OccupiedByOther(c, m); foreign {
			return false
		}
		return p.ownershipAllows(m, c)
	}
}

func (p *Policy) terrainAllows(m *Mover, c core.Coordinate) bool {
	if !p.grid.InBounds(c) {
		return false
	}
	t := p.grid.TerrainAt(c)
	return !t.BlocksMovement() && !m.Forbidden.Has(t)
}

func (p *Policy) ownershipAllows(m *Mover, c core.Coordinate) bool {
	main, ok := p.influence.Main(c)
	if !ok {
		return false
	}
	if main == m.Empire {
		return true
	}
	return p.invadeAtWar && m.Kind == KindArmy && p.relations.AtWar(m.Empire, main)
}
