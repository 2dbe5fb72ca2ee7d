// Package rules decides when a world's contest is over.
package rules

import (
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/core"
)

// WinConditionChecker handles game over detection and winner determination
type WinConditionChecker struct {
	logger          zerolog.Logger
	originalEmpires int
	maxTurns        int
}

// NewWinConditionChecker creates a checker for a world that started with
// originalEmpires empires. maxTurns of 0 means no turn limit.
func NewWinConditionChecker(logger zerolog.Logger, originalEmpires, maxTurns int) *WinConditionChecker {
	return &WinConditionChecker{
		logger:          logger.With().Str("component", "WinConditionChecker").Logger(),
		originalEmpires: originalEmpires,
		maxTurns:        maxTurns,
	}
}

// CheckGameOver reports whether the game ends after turn given the empires
// still alive, and the winner if there is one. The game ends when no
// empire survives, when one survives a contest that started with several,
// or when the turn limit is reached. Only a sole survivor wins.
func (wc *WinConditionChecker) CheckGameOver(alive []core.EmpireID, turn int) (bool, core.EmpireID) {
	wc.logger.Debug().Int("turn", turn).Msg("Checking game over conditions")

	var gameOver bool
	switch {
	case len(alive) == 0:
		gameOver = true
	case len(alive) == 1 && wc.originalEmpires > 1:
		gameOver = true
	case wc.maxTurns > 0 && turn >= wc.maxTurns:
		gameOver = true
	}

	winner := core.NoEmpire
	if gameOver && len(alive) == 1 && wc.originalEmpires > 1 {
		winner = alive[0]
		wc.logger.Info().Int("winner_empire_id", int(winner)).Msg("Winner determined")
	} else if gameOver {
		wc.logger.Info().Int("alive", len(alive)).Msg("No winner found (draw, turn limit or all empires eliminated)")
	}

	wc.logger.Debug().
		Bool("is_game_over", gameOver).
		Int("alive_empire_count", len(alive)).
		Msg("Game over check complete")
	return gameOver, winner
}
