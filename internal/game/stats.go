package game

import (
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/core"
)

// EmpireStats summarises one empire's standing.
type EmpireStats struct {
	ID         core.EmpireID
	Name       string
	Alive      bool
	Capital    core.SourceID
	Sources    int
	TotalPower int
	// Tiles counts the tiles the empire dominates.
	Tiles  int
	Movers int
}

// Stats returns the standing of every empire in id order.
func (e *Engine) Stats() []EmpireStats {
	st := e.state
	tiles := make(map[core.EmpireID]int)
	for i := range st.Field.Tiles {
		if main := st.Field.Tiles[i].Main; main != core.NoEmpire {
			tiles[main]++
		}
	}

	all := st.Empires.All()
	out := make([]EmpireStats, 0, len(all))
	for _, emp := range all {
		s := EmpireStats{
			ID:      emp.ID,
			Name:    emp.Name,
			Alive:   !emp.Eliminated,
			Capital: emp.Capital,
			Tiles:   tiles[emp.ID],
			Movers:  len(st.Movers.OfEmpire(emp.ID)),
		}
		for _, src := range st.Sources.OfEmpire(emp.ID) {
			s.Sources++
			s.TotalPower += src.Power
		}
		out = append(out, s)
	}
	return out
}

// Leader returns the empire dominating the most tiles. Ties leave no leader.
func (e *Engine) Leader() (core.EmpireID, bool) {
	best, bestTiles, tied := core.NoEmpire, -1, false
	for _, s := range e.Stats() {
		if !s.Alive {
			continue
		}
		switch {
		case s.Tiles > bestTiles:
			best, bestTiles, tied = s.ID, s.Tiles, false
		case s.Tiles == bestTiles:
			tied = true
		}
	}
	if best == core.NoEmpire || tied {
		return core.NoEmpire, false
	}
	return best, true
}
