package game

import (
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/core"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/influence"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/movement"
)

// WorldState holds everything a turn reads and writes.
type WorldState struct {
	Turn    int
	Grid    *core.Grid
	Field   *influence.Field
	Empires *core.EmpireRegistry
	Sources *influence.SourceRegistry
	Movers  *movement.MoverRegistry

	// IDs allocates every id handed out in this world.
	IDs core.IDAllocator
}

func newWorldState(grid *core.Grid) *WorldState {
	return &WorldState{
		Grid:    grid,
		Field:   influence.NewField(grid),
		Empires: core.NewEmpireRegistry(),
		Sources: influence.NewSourceRegistry(),
		Movers:  movement.NewMoverRegistry(),
	}
}
