package states

import (
	"time"

	"github.com/rs/zerolog"
)

// TurnContext provides world information to states for making decisions
type TurnContext struct {
	// WorldID uniquely identifies the simulated world
	WorldID string

	// Logger for state-specific logging
	Logger zerolog.Logger

	// Turn is the turn being processed, or the last completed one while idle
	Turn int

	// MaxTurns ends the run once reached; 0 means unlimited
	MaxTurns int

	// AliveEmpires is the number of empires not yet eliminated
	AliveEmpires int

	// TurnStarted is when the current turn left Idle
	TurnStarted time.Time

	// Winner is the surviving empire, -1 while undecided
	Winner int
}

// NewTurnContext creates a new turn context
func NewTurnContext(worldID string, maxTurns int, logger zerolog.Logger) *TurnContext {
	return &TurnContext{
		WorldID:  worldID,
		MaxTurns: maxTurns,
		Logger:   logger.With().Str("world_id", worldID).Logger(),
		Winner:   -1,
	}
}

// TurnLimitReached reports whether the configured turn cap is hit
func (tc *TurnContext) TurnLimitReached() bool {
	return tc.MaxTurns > 0 && tc.Turn >= tc.MaxTurns
}

// TurnElapsed returns the time spent in the current turn so far
func (tc *TurnContext) TurnElapsed() time.Duration {
	if tc.TurnStarted.IsZero() {
		return 0
	}
	return time.Since(tc.TurnStarted)
}
