package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrUnknownTerrain     = errors.New("unknown terrain")
	ErrMalformedGrid      = errors.New("malformed grid")
	ErrUnknownEmpire      = errors.New("unknown empire")
	ErrUnknownSource      = errors.New("unknown influence source")
	ErrUnknownMover       = errors.New("unknown mover")
	ErrGameOver           = errors.New("game is over")
	ErrWrongPhase         = errors.New("operation not allowed in current phase")
)

// TurnError annotates an error with the turn and phase it occurred in.
type TurnError struct {
	Turn  int
	Phase string
	Err   error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("turn %d: %s: %v", e.Turn, e.Phase, e.Err)
}

func (e *TurnError) Unwrap() error { return e.Err }

// WrapTurnError wraps err with turn context. A nil err stays nil.
func WrapTurnError(turn int, phase string, err error) error {
	if err == nil {
		return nil
	}
	return &TurnError{Turn: turn, Phase: phase, Err: err}
}
