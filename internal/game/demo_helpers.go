package game

import (
	"math/rand"

	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/core"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/diplomacy"
)

// GenerateRandomOrders issues random orders for every live empire not
// controlled by a human: flags for unflagged sources, destinations for idle
// movers and the occasional diplomatic proposal. This is a helper intended
// for demos and smoke tests. It returns the number of orders accepted.
func GenerateRandomOrders(e *Engine, rng *rand.Rand) int {
	accepted := 0
	alive := e.state.Empires.Alive()
	for _, emp := range alive {
		if emp.Human {
			continue
		}

		for _, s := range e.Sources(emp.ID) {
			if s.Target != nil {
				continue
			}
			tiles := e.FlaggableTiles(s.ID)
			if len(tiles) == 0 {
				continue
			}
			if ok, err := e.SetFlag(s.ID, tiles[rng.Intn(len(tiles))]); err == nil && ok {
				accepted++
			}
		}

		for _, m := range e.Movers(emp.ID) {
			if m.Path != nil || rng.Float32() > 0.5 {
				continue
			}
			tiles := e.ReachableTiles(m.ID)
			if len(tiles) == 0 {
				continue
			}
			dest := tiles[rng.Intn(len(tiles))]
			if ok, err := e.RequestPath(m.ID, dest); err == nil && ok {
				accepted++
				log.Debug().
					Int("empire_id", int(emp.ID)).
					Int("mover_id", int(m.ID)).
					Str("dest", dest.String()).
					Msg("Generated random move")
			}
		}

		if len(alive) < 2 || rng.Float32() > 0.2 {
			continue
		}
		other := alive[rng.Intn(len(alive))].ID
		if other == emp.ID {
			continue
		}
		if proposeRandom(e, rng, emp.ID, other) {
			accepted++
		}
	}
	return accepted
}

func proposeRandom(e *Engine, rng *rand.Rand, from, to core.EmpireID) bool {
	actions := e.PossibleActions(from, to)
	action := actions[rng.Intn(len(actions))]
	if action == diplomacy.NoChange {
		return false
	}
	ok, err := e.ProposeAction(from, to, action)
	if err != nil || !ok {
		return false
	}
	log.Debug().
		Int("empire_id", int(from)).
		Int("target_id", int(to)).
		Str("action", action.String()).
		Msg("Generated random proposal")
	return true
}
