package influence

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/ShapeOfThings/internal/common"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/core"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/events"
)

// EmpireDirectory resolves the empire attributes the engine depends on.
type EmpireDirectory interface {
	Culture(core.EmpireID) (string, bool)
	CapitalOf(core.EmpireID) (core.SourceID, bool)
	ClearCapital(core.EmpireID)
	MarkEliminated(core.EmpireID)
}

// RelationView answers the diplomatic questions propagation depends on.
type RelationView interface {
	// IsTreaty reports whether a's relation toward b is TREATY.
	IsTreaty(a, b core.EmpireID) bool
	// OverlordsOf returns, in id order, the empires e pays tribute to.
	OverlordsOf(e core.EmpireID) []core.EmpireID
}

// Params tunes propagation.
type Params struct {
	FlagPressure int
	// SmoothingDivisor sets the fraction of the target gap closed each turn.
	SmoothingDivisor int
	// AdvancementFactor scales the power threshold: factor*(power+1).
	AdvancementFactor int
	// UpkeepDivisor sets the per-turn power upkeep: power/divisor.
	UpkeepDivisor int
}

// DefaultParams returns the standard propagation constants.
func DefaultParams() Params {
	return Params{
		FlagPressure:      10,
		SmoothingDivisor:  10,
		AdvancementFactor: 10,
		UpkeepDivisor:     10,
	}
}

// Result summarises what a tick changed.
type Result struct {
	Conquered  []core.SourceID
	Eliminated []core.EmpireID
}

// Engine runs the per-turn influence algorithm.
type Engine struct {
	params    Params
	empires   EmpireDirectory
	relations RelationView
	publisher events.Publisher
	worldID   string
	logger    zerolog.Logger
}

// NewEngine wires an influence engine to its collaborators.
func NewEngine(params Params, empires EmpireDirectory, relations RelationView, publisher events.Publisher, worldID string, logger zerolog.Logger) *Engine {
	if publisher == nil {
		publisher = events.Discard
	}
	return &Engine{
		params:    params,
		empires:   empires,
		relations: relations,
		publisher: publisher,
		worldID:   worldID,
		logger:    logger.With().Str("component", "influence").Logger(),
	}
}

// Tick advances the field and every source by one turn. The apply phase
// covers the whole grid before any source computes new deltas, and sources
// are always visited in id order, so a tick is deterministic.
func (e *Engine) Tick(turn int, field *Field, sources *SourceRegistry) Result {
	log := e.logger.With().Int("turn", turn).Logger()
	var res Result

	e.applyPhase(field, sources)
	log.Debug().Msg("Applied influence deltas")

	conquered := make(map[core.SourceID]bool)
	losers := make(map[core.EmpireID]core.EmpireID)
	for _, s := range sources.All() {
		if previous, ok := e.bookkeep(turn, field, s); ok {
			conquered[s.ID] = true
			losers[previous] = s.Empire
			res.Conquered = append(res.Conquered, s.ID)
		}
	}
	res.Eliminated = e.checkEliminations(turn, sources, losers)

	for _, s := range sources.All() {
		if !conquered[s.ID] {
			e.accumulatePower(s, sources)
		}
	}

	for _, s := range sources.All() {
		e.propagate(field, s)
	}
	for _, s := range sources.All() {
		e.pressFlag(field, s)
	}
	log.Debug().
		Int("sources", len(sources.All())).
		Int("conquests", len(res.Conquered)).
		Msg("Computed influence deltas")

	return res
}

// applyPhase applies pending deltas and assigns each dominated tile to the
// nearest source of its main empire.
func (e *Engine) applyPhase(field *Field, sources *SourceRegistry) {
	field.ApplyDeltas()
	grid := field.Grid()
	for i := range field.Tiles {
		t := &field.Tiles[i]
		if t.Main == core.NoEmpire {
			t.Source = core.NoSource
			continue
		}
		s, ok := sources.Nearest(t.Main, grid.Coord(i))
		if !ok {
			t.Source = core.NoSource
			continue
		}
		t.Source = s.ID
		s.Controlled[i] = struct{}{}
	}
}

// bookkeep drops tiles the source lost and handles the capture of its seat.
// On conquest it returns the previous owner.
func (e *Engine) bookkeep(turn int, field *Field, s *Source) (core.EmpireID, bool) {
	for idx := range s.Controlled {
		if field.Tiles[idx].Source != s.ID {
			delete(s.Controlled, idx)
		}
	}

	conqueror, ok := field.Main(s.Seat)
	if !ok || conqueror == s.Empire {
		return core.NoEmpire, false
	}

	previous := s.Empire
	before := s.Power
	prevCulture, _ := e.empires.Culture(previous)
	newCulture, _ := e.empires.Culture(conqueror)
	sameCulture := prevCulture == newCulture
	if sameCulture {
		s.Power = max(1, s.Power/2)
	} else {
		s.Power = 1
	}

	if capital, ok := e.empires.CapitalOf(previous); ok && capital == s.ID {
		e.empires.ClearCapital(previous)
	}
	s.Empire = conqueror
	s.Target = nil
	s.PowerAdvancement = 0
	clear(s.Controlled)

	e.logger.Info().
		Int("turn", turn).
		Int("source_id", int(s.ID)).
		Int("previous_empire", int(previous)).
		Int("conqueror", int(conqueror)).
		Int("power_before", before).
		Int("power_after", s.Power).
		Msg("Source conquered")
	e.publisher.Publish(events.NewSourceConqueredEvent(e.worldID, turn, s.ID, s.Seat,
		previous, conqueror, sameCulture, before, s.Power))
	return previous, true
}

// checkEliminations marks the empires that lost their last source this turn.
// losers maps each empire that lost a source to the empire that took it.
func (e *Engine) checkEliminations(turn int, sources *SourceRegistry, losers map[core.EmpireID]core.EmpireID) []core.EmpireID {
	ids := make([]core.EmpireID, 0, len(losers))
	for id := range losers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []core.EmpireID
	for _, id := range ids {
		if len(sources.OfEmpire(id)) > 0 {
			continue
		}
		e.empires.MarkEliminated(id)
		out = append(out, id)
		e.logger.Info().Int("turn", turn).Int("empire_id", int(id)).Msg("Empire eliminated")
		e.publisher.Publish(events.NewEmpireEliminatedEvent(e.worldID, turn, id, losers[id]))
	}
	return out
}

// accumulatePower grows or shrinks a source according to the territory it
// holds. A tributary hands an equal share of any gain to each overlord's
// capital and keeps the remainder.
func (e *Engine) accumulatePower(s *Source, sources *SourceRegistry) {
	increase := s.ControlledCount() - s.Power/max(1, e.params.UpkeepDivisor)
	if increase > 0 {
		overlords := e.relations.OverlordsOf(s.Empire)
		share := increase / (len(overlords) + 1)
		for _, o := range overlords {
			capitalID, ok := e.empires.CapitalOf(o)
			if !ok {
				continue
			}
			capital, ok := sources.Get(capitalID)
			if !ok || capital.Empire != o {
				continue
			}
			capital.PowerAdvancement += share
			increase -= share
		}
	}
	s.PowerAdvancement += increase

	if s.PowerAdvancement < 0 {
		s.Power = max(0, s.Power-1)
		s.PowerAdvancement = s.AdvancementThreshold(e.params.AdvancementFactor)
	} else if s.PowerAdvancement >= s.AdvancementThreshold(e.params.AdvancementFactor) {
		s.PowerAdvancement = 0
		s.Power++
	}
}

type reachedTile struct {
	idx      int
	distance int
}

// flood returns the terrain-weighted distance from the seat to every tile of
// the source's current region plus one ring beyond it, in settle order.
// Only the seat and tiles where the empire already has influence expand.
func (e *Engine) flood(field *Field, s *Source) []reachedTile {
	grid := field.Grid()
	if !grid.InBounds(s.Seat) {
		return nil
	}

	best := make([]int, grid.Size())
	for i := range best {
		best[i] = -1
	}
	done := make([]bool, grid.Size())

	seat := grid.Idx(s.Seat)
	best[seat] = 0
	q := common.NewMinQueue()
	q.Push(seat, 0)

	var out []reachedTile
	for q.Len() > 0 {
		idx, d := q.Pop()
		if done[idx] {
			continue
		}
		done[idx] = true
		out = append(out, reachedTile{idx: idx, distance: d})

		if idx != seat && field.Tiles[idx].Values[s.Empire] == 0 {
			continue
		}
		for _, n := range grid.Neighbors(grid.Coord(idx)) {
			ni := grid.Idx(n)
			if done[ni] {
				continue
			}
			nd := d + grid.Terrain[ni].MoveCost()
			if best[ni] == -1 || nd < best[ni] {
				best[ni] = nd
				q.Push(ni, nd)
			}
		}
	}
	return out
}

// propagate queues the deltas that pull the source's region toward its
// distance-decayed targets. Steps start from the value already pledged by
// earlier sources of the same empire, so the combined delta on a tile never
// passes the targets that produced it.
func (e *Engine) propagate(field *Field, s *Source) {
	grid := field.Grid()
	for _, r := range e.flood(field, s) {
		c := grid.Coord(r.idx)
		target := 0
		if e.CanInfluence(field, s, c) {
			target = max(0, s.Power-r.distance)
		}
		current := field.Tiles[r.idx].Values[s.Empire] + field.PendingDelta(c, s.Empire)
		field.AddDelta(c, s.Empire, common.StepToward(current, target, e.params.SmoothingDivisor))
	}
}

// pressFlag adds flag pressure on the source's target tile, or clears the
// flag once the tile can no longer be influenced.
func (e *Engine) pressFlag(field *Field, s *Source) {
	if s.Target == nil {
		return
	}
	if e.CanInfluence(field, s, *s.Target) {
		field.AddDelta(*s.Target, s.Empire, e.params.FlagPressure)
	} else {
		e.logger.Debug().Int("source_id", int(s.ID)).Str("flag", s.Target.String()).Msg("Flag no longer reachable, clearing")
		s.Target = nil
	}
}

// CanInfluence reports whether s may push influence onto c: always on tiles
// its empire dominates, never on tiles of an empire it holds a treaty with,
// otherwise only next to a tile its empire dominates.
func (e *Engine) CanInfluence(field *Field, s *Source, c core.Coordinate) bool {
	grid := field.Grid()
	if !grid.InBounds(c) {
		return false
	}
	if main, ok := field.Main(c); ok {
		if main == s.Empire {
			return true
		}
		if e.relations.IsTreaty(s.Empire, main) {
			return false
		}
	}
	for _, n := range grid.Neighbors(c) {
		if field.Dominates(n, s.Empire) {
			return true
		}
	}
	return false
}

// FlaggableTiles lists, in row-major order, the tiles s may influence that
// its empire does not dominate yet.
func (e *Engine) FlaggableTiles(field *Field, s *Source) []core.Coordinate {
	grid := field.Grid()
	var out []core.Coordinate
	for i := 0; i < grid.Size(); i++ {
		c := grid.Coord(i)
		if !field.Dominates(c, s.Empire) && e.CanInfluence(field, s, c) {
			out = append(out, c)
		}
	}
	return out
}

// SetFlag directs flag pressure of s onto c. Tiles outside FlaggableTiles are
// ignored and false is returned.
func (e *Engine) SetFlag(field *Field, s *Source, c core.Coordinate) bool {
	if field.Dominates(c, s.Empire) || !e.CanInfluence(field, s, c) {
		e.logger.Debug().Int("source_id", int(s.ID)).Str("tile", c.String()).Msg("Rejected flag on unflaggable tile")
		return false
	}
	target := c
	s.Target = &target
	return true
}
