package game

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/core"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/diplomacy"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/effects"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/events"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/influence"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/movement"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/rules"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/states"
)

// Engine owns one simulated world and runs its turns.
type Engine struct {
	id     string
	state  *WorldState
	logger zerolog.Logger

	influence *influence.Engine
	diplomacy *diplomacy.Engine
	movement  *movement.Executor
	effects   *effects.Registry

	// queue collects the events of a turn; they reach eventBus at turn end.
	queue    *events.Queue
	eventBus *events.EventBus

	stateMachine  *states.StateMachine
	turnProcessor *TurnProcessor

	startingEmpires int
	winConditions   *rules.WinConditionChecker
	gameOver        bool
	winner          core.EmpireID
}

// NewEngine builds a world from cfg. See GameConfig for the defaults.
func NewEngine(ctx context.Context, cfg GameConfig) (*Engine, error) {
	return NewEngineInitializer(cfg).Initialize(ctx)
}

func (e *Engine) ID() string                 { return e.id }
func (e *Engine) Turn() int                  { return e.state.Turn }
func (e *Engine) Phase() states.TurnPhase    { return e.stateMachine.CurrentPhase() }
func (e *Engine) IsGameOver() bool           { return e.gameOver }
func (e *Engine) EventBus() *events.EventBus { return e.eventBus }
func (e *Engine) Grid() *core.Grid           { return e.state.Grid }

// History returns the phase transitions recorded so far.
func (e *Engine) History() []states.Transition { return e.stateMachine.GetHistory() }

// Winner returns the winning empire once the game is over. A game that hit
// the turn limit with several survivors has no winner.
func (e *Engine) Winner() (core.EmpireID, bool) {
	if !e.gameOver || e.winner == core.NoEmpire {
		return core.NoEmpire, false
	}
	return e.winner, true
}

// Empire looks up an empire by id.
func (e *Engine) Empire(id core.EmpireID) (*core.Empire, bool) { return e.state.Empires.Get(id) }

// Empires returns every empire in id order, eliminated ones included.
func (e *Engine) Empires() []*core.Empire { return e.state.Empires.All() }

// Source looks up an influence source by id.
func (e *Engine) Source(id core.SourceID) (*influence.Source, bool) { return e.state.Sources.Get(id) }

// Sources returns the live sources of empire in id order.
func (e *Engine) Sources(empire core.EmpireID) []*influence.Source {
	return e.state.Sources.OfEmpire(empire)
}

// Mover looks up a mover by id.
func (e *Engine) Mover(id core.MoverID) (*movement.Mover, bool) { return e.state.Movers.Get(id) }

// Movers returns the movers of empire in id order.
func (e *Engine) Movers(empire core.EmpireID) []*movement.Mover {
	return e.state.Movers.OfEmpire(empire)
}

// MainController returns the empire dominating c.
func (e *Engine) MainController(c core.Coordinate) (core.EmpireID, bool) {
	return e.state.Field.Main(c)
}

// InfluenceOf returns empire's influence on c.
func (e *Engine) InfluenceOf(c core.Coordinate, empire core.EmpireID) int {
	return e.state.Field.Value(c, empire)
}

// Relation returns a's stance toward b.
func (e *Engine) Relation(a, b core.EmpireID) diplomacy.State {
	return e.diplomacy.Relation(a, b)
}

// PossibleActions lists the actions a may propose toward b this turn.
func (e *Engine) PossibleActions(a, b core.EmpireID) []diplomacy.Action {
	return e.diplomacy.PossibleActions(a, b)
}

// FlaggableTiles lists the tiles the source may put its flag on. Unknown
// sources have none.
func (e *Engine) FlaggableTiles(id core.SourceID) []core.Coordinate {
	s, ok := e.state.Sources.Get(id)
	if !ok {
		return nil
	}
	return e.influence.FlaggableTiles(e.state.Field, s)
}

// ReachableTiles lists the tiles the mover could be ordered to. Unknown
// movers reach nothing.
func (e *Engine) ReachableTiles(id core.MoverID) []core.Coordinate {
	m, ok := e.state.Movers.Get(id)
	if !ok {
		return nil
	}
	return e.movement.Reachable(m)
}

// DiscoveryScore estimates what applying the discovery would gain empire.
func (e *Engine) DiscoveryScore(empire core.EmpireID, key string) (int, error) {
	if _, ok := e.state.Empires.Get(empire); !ok {
		return 0, fmt.Errorf("empire %d: %w", empire, core.ErrUnknownEmpire)
	}
	effect, err := e.effects.Get(key)
	if err != nil {
		return 0, err
	}
	return effect.Score(e.discoveries(), empire), nil
}

// acceptingOrders reports why orders cannot be taken right now, if they cannot.
func (e *Engine) acceptingOrders(order string) error {
	if e.gameOver {
		return core.WrapTurnError(e.state.Turn, order, core.ErrGameOver)
	}
	if phase := e.stateMachine.CurrentPhase(); !phase.AcceptsOrders() {
		e.logger.Warn().
			Str("current_phase", phase.String()).
			Str("order", order).
			Msg("Rejected order outside the idle phase")
		return core.WrapTurnError(e.state.Turn, order, core.ErrWrongPhase)
	}
	return nil
}

func (e *Engine) liveEmpire(id core.EmpireID) (*core.Empire, error) {
	emp, ok := e.state.Empires.Get(id)
	if !ok || emp.Eliminated {
		return nil, fmt.Errorf("empire %d: %w", id, core.ErrUnknownEmpire)
	}
	return emp, nil
}

// RequestPath orders the mover to dest. An unreachable dest is not an error:
// the mover keeps no path, a PathNotFoundEvent is queued and false returned.
func (e *Engine) RequestPath(id core.MoverID, dest core.Coordinate) (bool, error) {
	if err := e.acceptingOrders("request path"); err != nil {
		return false, err
	}
	m, ok := e.state.Movers.Get(id)
	if !ok {
		return false, fmt.Errorf("mover %d: %w", id, core.ErrUnknownMover)
	}
	return e.movement.Order(e.state.Turn, m, dest), nil
}

// RequestPathNear orders the mover to dest or, when dest cannot be reached,
// to the reachable tile closest to it. It returns the tile chosen.
func (e *Engine) RequestPathNear(id core.MoverID, dest core.Coordinate) (core.Coordinate, bool, error) {
	if err := e.acceptingOrders("request path"); err != nil {
		return dest, false, err
	}
	m, ok := e.state.Movers.Get(id)
	if !ok {
		return dest, false, fmt.Errorf("mover %d: %w", id, core.ErrUnknownMover)
	}
	chosen, ok := e.movement.OrderNear(e.state.Turn, m, dest)
	return chosen, ok, nil
}

// SetFlag directs the source's flag pressure onto c. Tiles outside
// FlaggableTiles are ignored and false is returned.
func (e *Engine) SetFlag(id core.SourceID, c core.Coordinate) (bool, error) {
	if err := e.acceptingOrders("set flag"); err != nil {
		return false, err
	}
	s, ok := e.state.Sources.Get(id)
	if !ok {
		return false, fmt.Errorf("source %d: %w", id, core.ErrUnknownSource)
	}
	return e.influence.SetFlag(e.state.Field, s, c), nil
}

// ClearFlag removes the source's flag.
func (e *Engine) ClearFlag(id core.SourceID) error {
	if err := e.acceptingOrders("clear flag"); err != nil {
		return err
	}
	s, ok := e.state.Sources.Get(id)
	if !ok {
		return fmt.Errorf("source %d: %w", id, core.ErrUnknownSource)
	}
	s.Target = nil
	return nil
}

// ProposeAction records a's proposal toward b for the next diplomacy phase.
// Illegal or locked actions are dropped and false is returned.
func (e *Engine) ProposeAction(a, b core.EmpireID, action diplomacy.Action) (bool, error) {
	if err := e.acceptingOrders("propose action"); err != nil {
		return false, err
	}
	if _, err := e.liveEmpire(a); err != nil {
		return false, err
	}
	if _, err := e.liveEmpire(b); err != nil {
		return false, err
	}
	return e.diplomacy.Propose(a, b, action), nil
}

// ApplyDiscovery enacts the effect named key for empire. Applying a
// discovery the empire already holds does nothing.
func (e *Engine) ApplyDiscovery(empire core.EmpireID, key string) error {
	if err := e.acceptingOrders("apply discovery"); err != nil {
		return err
	}
	return e.applyDiscovery(empire, key)
}

func (e *Engine) applyDiscovery(empire core.EmpireID, key string) error {
	emp, err := e.liveEmpire(empire)
	if err != nil {
		return err
	}
	if emp.HasDiscovery(key) {
		return nil
	}
	if err := e.effects.Apply(key, e.discoveries(), empire); err != nil {
		return err
	}
	emp.Discoveries = append(emp.Discoveries, key)
	e.logger.Info().
		Int("empire_id", int(empire)).
		Str("discovery", key).
		Msg("Discovery applied")
	return nil
}

// AddMover places a new mover of empire on at and returns its id. A
// capital mover must start on its empire's capital seat and drags that
// source along as it moves.
func (e *Engine) AddMover(empire core.EmpireID, kind movement.Kind, at core.Coordinate, carriesInfluence bool) (core.MoverID, error) {
	if err := e.acceptingOrders("add mover"); err != nil {
		return core.NoMover, err
	}
	return e.addMover(empire, kind, at, carriesInfluence)
}

func (e *Engine) addMover(empire core.EmpireID, kind movement.Kind, at core.Coordinate, carriesInfluence bool) (core.MoverID, error) {
	emp, err := e.liveEmpire(empire)
	if err != nil {
		return core.NoMover, err
	}
	if !e.state.Grid.InBounds(at) {
		return core.NoMover, fmt.Errorf("mover at %s: %w", at, core.ErrInvalidCoordinates)
	}

	source := core.NoSource
	if kind == movement.KindCapital {
		capital, ok := e.state.Sources.Get(emp.Capital)
		if !ok {
			return core.NoMover, fmt.Errorf("empire %d has no capital: %w", empire, core.ErrUnknownSource)
		}
		if capital.Seat != at {
			return core.NoMover, fmt.Errorf("capital mover at %s, seat is %s: %w", at, capital.Seat, core.ErrInvalidCoordinates)
		}
		source = capital.ID
	}

	m := &movement.Mover{
		ID:               e.state.IDs.NextMover(),
		Empire:           empire,
		Kind:             kind,
		Position:         at,
		Forbidden:        emp.Forbidden,
		CarriesInfluence: carriesInfluence,
		Source:           source,
	}
	e.state.Movers.Add(m)
	e.logger.Debug().
		Int("mover_id", int(m.ID)).
		Int("empire_id", int(empire)).
		Str("kind", kind.String()).
		Str("position", at.String()).
		Msg("Mover added")
	return m.ID, nil
}

// Step runs one full turn. See TurnProcessor.ProcessTurn.
func (e *Engine) Step(ctx context.Context) error {
	return e.turnProcessor.ProcessTurn(ctx)
}

// Run steps until the game ends, turns turns have run (turns <= 0 means no
// cap) or ctx is done. onTurn, when set, is called after every turn and may
// issue orders. It returns the number of turns run.
func (e *Engine) Run(ctx context.Context, turns int, onTurn func(*Engine)) (int, error) {
	ran := 0
	for !e.gameOver && (turns <= 0 || ran < turns) {
		if err := e.Step(ctx); err != nil {
			return ran, err
		}
		ran++
		if onTurn != nil {
			onTurn(e)
		}
	}
	return ran, nil
}

// FlushEvents forwards events queued outside a turn, such as failed path
// requests, to the event bus.
func (e *Engine) FlushEvents() int {
	return e.queue.DrainTo(e.eventBus)
}

// checkGameOver ends the game when at most one empire survives a contest
// or the turn limit is reached.
func (e *Engine) checkGameOver(logger zerolog.Logger) {
	alive := e.state.Empires.Alive()
	ids := make([]core.EmpireID, len(alive))
	for i, emp := range alive {
		ids[i] = emp.ID
	}
	e.gameOver, e.winner = e.winConditions.CheckGameOver(ids, e.state.Turn)
	if e.gameOver {
		logger.Info().
			Int("alive", len(alive)).
			Int("winner", int(e.winner)).
			Msg("Game over")
	}
}
