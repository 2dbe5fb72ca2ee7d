package events

import (
	"time"

	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/core"
)

// Event type constants
const (
	TypeTurnStarted      = "turn.started"
	TypeTurnEnded        = "turn.ended"
	TypeSourceConquered  = "influence.source_conquered"
	TypeEmpireEliminated = "empire.eliminated"
	TypeRelationChanged  = "diplomacy.relation_changed"
	TypeMoveCompleted    = "movement.completed"
	TypePathNotFound     = "movement.path_not_found"
	TypePhaseTransition  = "state.transition"
)

// TurnStartedEvent is published at the beginning of each turn
type TurnStartedEvent struct {
	BaseEvent
}

// NewTurnStartedEvent creates a new TurnStartedEvent
func NewTurnStartedEvent(worldID string, turn int) *TurnStartedEvent {
	return &TurnStartedEvent{BaseEvent: newBase(TypeTurnStarted, worldID, turn)}
}

// TurnEndedEvent is published at the end of each turn
type TurnEndedEvent struct {
	BaseEvent
	EventsCount   int
	ProcessedTime time.Duration
}

// NewTurnEndedEvent creates a new TurnEndedEvent
func NewTurnEndedEvent(worldID string, turn int, eventsCount int, processedTime time.Duration) *TurnEndedEvent {
	return &TurnEndedEvent{
		BaseEvent:     newBase(TypeTurnEnded, worldID, turn),
		EventsCount:   eventsCount,
		ProcessedTime: processedTime,
	}
}

// SourceConqueredEvent is published when a city seat falls to another empire
type SourceConqueredEvent struct {
	BaseEvent
	SourceID       core.SourceID
	Seat           core.Coordinate
	PreviousEmpire core.EmpireID
	Conqueror      core.EmpireID
	SameCulture    bool
	PowerBefore    int
	PowerAfter     int
}

// NewSourceConqueredEvent creates a new SourceConqueredEvent
func NewSourceConqueredEvent(worldID string, turn int, source core.SourceID, seat core.Coordinate,
	previous, conqueror core.EmpireID, sameCulture bool, powerBefore, powerAfter int) *SourceConqueredEvent {
	return &SourceConqueredEvent{
		BaseEvent:      newBase(TypeSourceConquered, worldID, turn),
		SourceID:       source,
		Seat:           seat,
		PreviousEmpire: previous,
		Conqueror:      conqueror,
		SameCulture:    sameCulture,
		PowerBefore:    powerBefore,
		PowerAfter:     powerAfter,
	}
}

// EmpireEliminatedEvent is published when an empire loses its last source
type EmpireEliminatedEvent struct {
	BaseEvent
	EmpireID     core.EmpireID
	EliminatedBy core.EmpireID
}

// NewEmpireEliminatedEvent creates a new EmpireEliminatedEvent
func NewEmpireEliminatedEvent(worldID string, turn int, empire, by core.EmpireID) *EmpireEliminatedEvent {
	return &EmpireEliminatedEvent{
		BaseEvent:    newBase(TypeEmpireEliminated, worldID, turn),
		EmpireID:     empire,
		EliminatedBy: by,
	}
}

// RelationChangedEvent is published to the human side of a relation whose
// state changed. Empire is the side being notified.
type RelationChangedEvent struct {
	BaseEvent
	Empire   core.EmpireID
	Other    core.EmpireID
	Action   string
	Previous string
	Current  string
}

// NewRelationChangedEvent creates a new RelationChangedEvent
func NewRelationChangedEvent(worldID string, turn int, empire, other core.EmpireID, action, previous, current string) *RelationChangedEvent {
	return &RelationChangedEvent{
		BaseEvent: newBase(TypeRelationChanged, worldID, turn),
		Empire:    empire,
		Other:     other,
		Action:    action,
		Previous:  previous,
		Current:   current,
	}
}

// MoveCompletedEvent is published when a mover reaches the end of its path
type MoveCompletedEvent struct {
	BaseEvent
	MoverID     core.MoverID
	Empire      core.EmpireID
	Destination core.Coordinate
}

// NewMoveCompletedEvent creates a new MoveCompletedEvent
func NewMoveCompletedEvent(worldID string, turn int, mover core.MoverID, empire core.EmpireID, dest core.Coordinate) *MoveCompletedEvent {
	return &MoveCompletedEvent{
		BaseEvent:   newBase(TypeMoveCompleted, worldID, turn),
		MoverID:     mover,
		Empire:      empire,
		Destination: dest,
	}
}

// PathNotFoundEvent is published when no legal path exists for a movement order
type PathNotFoundEvent struct {
	BaseEvent
	MoverID core.MoverID
	Empire  core.EmpireID
	From    core.Coordinate
	Goal    core.Coordinate
}

// NewPathNotFoundEvent creates a new PathNotFoundEvent
func NewPathNotFoundEvent(worldID string, turn int, mover core.MoverID, empire core.EmpireID, from, goal core.Coordinate) *PathNotFoundEvent {
	return &PathNotFoundEvent{
		BaseEvent: newBase(TypePathNotFound, worldID, turn),
		MoverID:   mover,
		Empire:    empire,
		From:      from,
		Goal:      goal,
	}
}

// PhaseTransitionEvent is published when the turn state machine changes phase
type PhaseTransitionEvent struct {
	BaseEvent
	FromPhase string
	ToPhase   string
	Reason    string
}

// NewPhaseTransitionEvent creates a new PhaseTransitionEvent
func NewPhaseTransitionEvent(worldID string, turn int, fromPhase, toPhase, reason string) *PhaseTransitionEvent {
	return &PhaseTransitionEvent{
		BaseEvent: newBase(TypePhaseTransition, worldID, turn),
		FromPhase: fromPhase,
		ToPhase:   toPhase,
		Reason:    reason,
	}
}
