package game

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/core"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/events"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/influence"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/movement"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/states"
)

// TurnProcessor handles the orchestration of a single turn
type TurnProcessor struct {
	engine *Engine
	logger zerolog.Logger
}

// NewTurnProcessor creates a new turn processor
func NewTurnProcessor(engine *Engine) *TurnProcessor {
	return &TurnProcessor{
		engine: engine,
		logger: engine.logger,
	}
}

// ProcessTurn executes a complete turn: influence, then diplomacy, then
// movement. The context is checked before the turn starts and after it
// ends; a turn that has started always runs to completion, so a
// cancellation reported afterwards leaves the world consistent.
func (tp *TurnProcessor) ProcessTurn(ctx context.Context) error {
	if err := tp.checkContext(ctx, "before starting"); err != nil {
		return err
	}
	if err := tp.validateGameState(); err != nil {
		return err
	}

	tp.initializeTurn()
	turn := tp.engine.state.Turn
	turnLogger := tp.logger.With().Int("turn", turn).Logger()
	turnLogger.Debug().Msg("Starting turn")

	turnStartTime := time.Now()
	tp.engine.queue.Publish(events.NewTurnStartedEvent(tp.engine.id, turn))

	if err := tp.processInfluencePhase(turnLogger); err != nil {
		return err
	}
	if err := tp.processDiplomacyPhase(turnLogger); err != nil {
		return err
	}
	if err := tp.processMovementPhase(turnLogger); err != nil {
		return err
	}
	if err := tp.processEndOfTurnPhase(turnLogger); err != nil {
		return err
	}

	tp.publishTurnEnded(turnStartTime)
	turnLogger.Debug().Dur("elapsed", time.Since(turnStartTime)).Msg("Turn finished")

	return tp.checkContext(ctx, "after finishing")
}

// checkContext checks if the context is cancelled
func (tp *TurnProcessor) checkContext(ctx context.Context, phase string) error {
	select {
	case <-ctx.Done():
		tp.logger.Warn().
			Err(ctx.Err()).
			Int("turn", tp.engine.state.Turn).
			Str("phase", phase).
			Msg("Turn cancelled or timed out")
		return ctx.Err()
	default:
		return nil
	}
}

// validateGameState ensures a new turn may start
func (tp *TurnProcessor) validateGameState() error {
	if tp.engine.gameOver {
		tp.logger.Warn().
			Int("turn", tp.engine.state.Turn).
			Msg("Attempted to step a game that is already over")
		return core.WrapTurnError(tp.engine.state.Turn, "step", core.ErrGameOver)
	}

	currentPhase := tp.engine.stateMachine.CurrentPhase()
	if !currentPhase.AcceptsOrders() {
		tp.logger.Warn().
			Str("current_phase", currentPhase.String()).
			Int("turn", tp.engine.state.Turn).
			Msg("Attempted to step outside the idle phase")
		return core.WrapTurnError(tp.engine.state.Turn, "step", core.ErrWrongPhase)
	}
	return nil
}

// initializeTurn advances the turn counter
func (tp *TurnProcessor) initializeTurn() {
	tp.engine.state.Turn++
	tc := tp.engine.stateMachine.GetContext()
	tc.Turn = tp.engine.state.Turn
	tc.AliveEmpires = len(tp.engine.state.Empires.Alive())
}

func (tp *TurnProcessor) transition(phase states.TurnPhase, reason string) error {
	if err := tp.engine.stateMachine.TransitionTo(phase, reason); err != nil {
		tp.logger.Error().
			Err(err).
			Int("turn", tp.engine.state.Turn).
			Str("to_phase", phase.String()).
			Msg("Phase transition failed")
		return core.WrapTurnError(tp.engine.state.Turn, phase.String(), err)
	}
	return nil
}

// processInfluencePhase propagates influence and settles its fallout on
// the movers.
func (tp *TurnProcessor) processInfluencePhase(turnLogger zerolog.Logger) error {
	if err := tp.transition(states.PhaseInfluence, "turn started"); err != nil {
		return err
	}
	st := tp.engine.state
	res := tp.engine.influence.Tick(st.Turn, st.Field, st.Sources)
	tp.settleInfluence(res, turnLogger)
	turnLogger.Debug().
		Int("conquered", len(res.Conquered)).
		Int("eliminated", len(res.Eliminated)).
		Msg("Influence phase complete")
	return nil
}

// settleInfluence removes the movers of eliminated empires and releases
// capital movers whose source fell.
func (tp *TurnProcessor) settleInfluence(res influence.Result, turnLogger zerolog.Logger) {
	movers := tp.engine.state.Movers
	for _, empire := range res.Eliminated {
		for _, m := range movers.OfEmpire(empire) {
			movers.Remove(m.ID)
			turnLogger.Debug().
				Int("mover_id", int(m.ID)).
				Int("empire_id", int(empire)).
				Msg("Removed mover of eliminated empire")
		}
	}

	if len(res.Conquered) == 0 {
		return
	}
	fallen := make(map[core.SourceID]bool, len(res.Conquered))
	for _, id := range res.Conquered {
		fallen[id] = true
	}
	for _, m := range movers.All() {
		if m.Kind == movement.KindCapital && fallen[m.Source] {
			turnLogger.Debug().
				Int("mover_id", int(m.ID)).
				Int("source_id", int(m.Source)).
				Msg("Capital mover lost its source")
			m.Source = core.NoSource
		}
	}
}

func (tp *TurnProcessor) processDiplomacyPhase(turnLogger zerolog.Logger) error {
	if err := tp.transition(states.PhaseDiplomacy, "influence settled"); err != nil {
		return err
	}
	changes := tp.engine.diplomacy.Tick(tp.engine.state.Turn)
	turnLogger.Debug().Int("relation_changes", changes).Msg("Diplomacy phase complete")
	return nil
}

func (tp *TurnProcessor) processMovementPhase(turnLogger zerolog.Logger) error {
	if err := tp.transition(states.PhaseMovement, "relations resolved"); err != nil {
		return err
	}
	tp.engine.movement.Advance(tp.engine.state.Turn)
	turnLogger.Debug().Int("movers", len(tp.engine.state.Movers.All())).Msg("Movement phase complete")
	return nil
}

// processEndOfTurnPhase returns to Idle and ends the game if it is decided
func (tp *TurnProcessor) processEndOfTurnPhase(turnLogger zerolog.Logger) error {
	if err := tp.transition(states.PhaseIdle, "turn complete"); err != nil {
		return err
	}

	tc := tp.engine.stateMachine.GetContext()
	tc.AliveEmpires = len(tp.engine.state.Empires.Alive())
	tp.engine.checkGameOver(turnLogger)
	if !tp.engine.gameOver {
		return nil
	}
	tc.Winner = int(tp.engine.winner)
	return tp.transition(states.PhaseEnded, "game decided")
}

// publishTurnEnded closes the turn and forwards its events to the bus
func (tp *TurnProcessor) publishTurnEnded(startTime time.Time) {
	tp.engine.queue.Publish(events.NewTurnEndedEvent(
		tp.engine.id,
		tp.engine.state.Turn,
		tp.engine.queue.Len(),
		time.Since(startTime),
	))
	tp.engine.queue.DrainTo(tp.engine.eventBus)
}
