package movement

import (
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/core"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/events"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/influence"
)

// Params tunes movement.
type Params struct {
	// OccupiedCostMultiplier scales the cost of routing through occupied tiles.
	OccupiedCostMultiplier int
	// MoveCostPerTurn is the terrain cost a mover covers in one turn.
	MoveCostPerTurn int
	// ArmiesInvadeAtWar lets armies enter tiles of empires at war with theirs.
	ArmiesInvadeAtWar bool
}

func DefaultParams() Params {
	return Params{OccupiedCostMultiplier: 2, MoveCostPerTurn: 10}
}

// Executor walks movers along their paths, one step at a time.
type Executor struct {
	params    Params
	grid      *core.Grid
	field     *influence.Field
	sources   *influence.SourceRegistry
	movers    *MoverRegistry
	planner   *Planner
	policy    *Policy
	publisher events.Publisher
	worldID   string
	logger    zerolog.Logger
}

// NewExecutor wires the movement phase to the shared world state.
func NewExecutor(params Params, field *influence.Field, sources *influence.SourceRegistry, movers *MoverRegistry,
	relations RelationView, publisher events.Publisher, worldID string, logger zerolog.Logger) *Executor {
	if publisher == nil {
		publisher = events.Discard
	}
	grid := field.Grid()
	policy := NewPolicy(grid, field, relations, movers)
	policy.SetInvadeAtWar(params.ArmiesInvadeAtWar)
	return &Executor{
		params:    params,
		grid:      grid,
		field:     field,
		sources:   sources,
		movers:    movers,
		planner:   NewPlanner(grid, movers, params.OccupiedCostMultiplier),
		policy:    policy,
		publisher: publisher,
		worldID:   worldID,
		logger:    logger.With().Str("component", "movement").Logger(),
	}
}

func (x *Executor) Planner() *Planner { return x.planner }
func (x *Executor) Policy() *Policy   { return x.policy }

// TurnsToMove is the number of turns needed to enter c.
func (x *Executor) TurnsToMove(c core.Coordinate) int {
	return max(1, x.grid.TerrainAt(c).MoveCost()/max(1, x.params.MoveCostPerTurn))
}

// Order plans a path for m to dest and assigns it. When no path exists the
// mover keeps no path, a PathNotFoundEvent is published and false returned.
func (x *Executor) Order(turn int, m *Mover, dest core.Coordinate) bool {
	steps, ok := x.planner.FindPath(m.Position, dest, x.policy.CanPlan(m))
	if !ok {
		x.fail(turn, m, dest, "Path not found")
		return false
	}
	x.assign(m, steps, dest)
	return true
}

// OrderNear is Order with a fallback: when dest is unreachable the mover
// heads for the reachable tile closest to it. It returns the destination
// actually chosen.
func (x *Executor) OrderNear(turn int, m *Mover, dest core.Coordinate) (core.Coordinate, bool) {
	steps, chosen, ok := x.planner.FindPathNear(m.Position, dest, x.policy.CanPlan(m))
	if !ok {
		x.fail(turn, m, dest, "No reachable alternative target")
		return m.Position, false
	}
	if chosen != dest {
		x.logger.Debug().
			Int("mover_id", int(m.ID)).
			Str("requested", dest.String()).
			Str("chosen", chosen.String()).
			Msg("Falling back to nearest reachable target")
	}
	x.assign(m, steps, chosen)
	return chosen, true
}

// Reachable lists the tiles m could plan a route to, in row-major order.
func (x *Executor) Reachable(m *Mover) []core.Coordinate {
	return x.planner.Reachable(m.Position, x.policy.CanPlan(m))
}

func (x *Executor) assign(m *Mover, steps []core.Coordinate, goal core.Coordinate) {
	m.Path = &Path{Steps: steps, Goal: goal, Forbidden: m.Forbidden}
}

func (x *Executor) fail(turn int, m *Mover, goal core.Coordinate, msg string) {
	x.logger.Warn().
		Int("turn", turn).
		Int("mover_id", int(m.ID)).
		Str("from", m.Position.String()).
		Str("goal", goal.String()).
		Msg(msg)
	m.Path = nil
	x.publisher.Publish(events.NewPathNotFoundEvent(x.worldID, turn, m.ID, m.Empire, m.Position, goal))
}

// Advance moves every mover with a path by one turn, in id order.
func (x *Executor) Advance(turn int) {
	for _, m := range x.movers.All() {
		if m.Path == nil {
			continue
		}
		x.advance(turn, m)
	}
}

func (x *Executor) advance(turn int, m *Mover) {
	p := m.Path
	if p.Done() {
		x.complete(turn, m)
		return
	}

	next := p.Steps[0]
	if !x.policy.CanStep(m, next) {
		steps, ok := x.planner.FindPath(m.Position, p.Goal, x.policy.CanPlan(m))
		if !ok || len(steps) == 0 {
			x.fail(turn, m, p.Goal, "Path blocked and replanning failed")
			return
		}
		p.Steps, p.Progress = steps, 0
		next = steps[0]
		if !x.policy.CanStep(m, next) {
			// a friendly mover is in the way; wait for it
			return
		}
	}

	p.Progress++
	if p.Progress < x.TurnsToMove(next) {
		return
	}
	x.relocate(m, next)
	p.Steps = p.Steps[1:]
	p.Progress = 0
	if p.Done() {
		x.complete(turn, m)
	}
}

// relocate puts m on c. Capitals drag their seat along; influence carriers
// claim the tile at once and, while another empire still dominates it,
// queue a delta that outbids the dominant empire's pending one and is
// always a gain.
func (x *Executor) relocate(m *Mover, c core.Coordinate) {
	m.Position = c

	if m.Kind == KindCapital && m.Source != core.NoSource {
		if s, ok := x.sources.Get(m.Source); ok {
			s.Seat = c
		}
	}

	if !m.CarriesInfluence {
		return
	}
	x.field.Set(c, m.Empire, x.field.MaxValue(c))
	if main, ok := x.field.Main(c); ok && main != m.Empire {
		x.field.AddDelta(c, m.Empire, max(1, x.field.PendingDelta(c, main)+1))
	}
}

func (x *Executor) complete(turn int, m *Mover) {
	x.logger.Debug().
		Int("turn", turn).
		Int("mover_id", int(m.ID)).
		Str("destination", m.Position.String()).
		Msg("Move completed")
	m.Path = nil
	x.publisher.Publish(events.NewMoveCompletedEvent(x.worldID, turn, m.ID, m.Empire, m.Position))
}
