package states

import (
	"errors"
	"time"
)

// IdleState waits for the next turn
type IdleState struct{}

func NewIdleState() State {
	return &IdleState{}
}

func (s *IdleState) Phase() TurnPhase {
	return PhaseIdle
}

func (s *IdleState) Enter(ctx *TurnContext) error {
	if !ctx.TurnStarted.IsZero() {
		ctx.Logger.Debug().
			Int("turn", ctx.Turn).
			Dur("turn_duration", ctx.TurnElapsed()).
			Msg("Turn complete, accepting orders")
		ctx.TurnStarted = time.Time{}
	}
	return nil
}

func (s *IdleState) Exit(ctx *TurnContext) error {
	return nil
}

func (s *IdleState) Validate(ctx *TurnContext) error {
	return nil
}

// InfluenceState applies and propagates influence
type InfluenceState struct{}

func NewInfluenceState() State {
	return &InfluenceState{}
}

func (s *InfluenceState) Phase() TurnPhase {
	return PhaseInfluence
}

func (s *InfluenceState) Enter(ctx *TurnContext) error {
	ctx.TurnStarted = time.Now()
	ctx.Logger.Debug().Int("turn", ctx.Turn).Msg("Influence phase started")
	return nil
}

func (s *InfluenceState) Exit(ctx *TurnContext) error {
	return nil
}

func (s *InfluenceState) Validate(ctx *TurnContext) error {
	if ctx.AliveEmpires < 1 {
		return errors.New("cannot run a turn with no empires alive")
	}
	return nil
}

// DiplomacyState resolves proposals
type DiplomacyState struct{}

func NewDiplomacyState() State {
	return &DiplomacyState{}
}

func (s *DiplomacyState) Phase() TurnPhase {
	return PhaseDiplomacy
}

func (s *DiplomacyState) Enter(ctx *TurnContext) error {
	ctx.Logger.Debug().Int("turn", ctx.Turn).Msg("Diplomacy phase started")
	return nil
}

func (s *DiplomacyState) Exit(ctx *TurnContext) error {
	return nil
}

func (s *DiplomacyState) Validate(ctx *TurnContext) error {
	return nil
}

// MovementState advances movers
type MovementState struct{}

func NewMovementState() State {
	return &MovementState{}
}

func (s *MovementState) Phase() TurnPhase {
	return PhaseMovement
}

func (s *MovementState) Enter(ctx *TurnContext) error {
	ctx.Logger.Debug().Int("turn", ctx.Turn).Msg("Movement phase started")
	return nil
}

func (s *MovementState) Exit(ctx *TurnContext) error {
	return nil
}

func (s *MovementState) Validate(ctx *TurnContext) error {
	return nil
}

// EndedState represents a finished run
type EndedState struct{}

func NewEndedState() State {
	return &EndedState{}
}

func (s *EndedState) Phase() TurnPhase {
	return PhaseEnded
}

func (s *EndedState) Enter(ctx *TurnContext) error {
	ctx.Logger.Info().
		Int("turn", ctx.Turn).
		Int("winner", ctx.Winner).
		Msg("Simulation ended")
	return nil
}

func (s *EndedState) Exit(ctx *TurnContext) error {
	return nil
}

func (s *EndedState) Validate(ctx *TurnContext) error {
	if ctx.Winner < 0 && ctx.AliveEmpires > 1 && !ctx.TurnLimitReached() {
		return errors.New("ending requires a winner or the turn limit")
	}
	return nil
}
