package subscribers

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/events"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         bool            // If true, log full event details
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

// ID returns the subscriber's unique identifier
func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool)
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables development mode logging
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

// InterestedIn returns true if the subscriber wants to receive this event type
func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent processes an event by logging it
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	eventLogger := ls.logger.With().
		Str("event_type", event.Type()).
		Str("world_id", event.WorldID()).
		Int("turn", event.TurnNumber()).
		Time("timestamp", event.Timestamp()).
		Logger()

	var logEvent *zerolog.Event
	switch ls.logLevel {
	case zerolog.DebugLevel:
		logEvent = eventLogger.Debug()
	case zerolog.InfoLevel:
		logEvent = eventLogger.Info()
	case zerolog.WarnLevel:
		logEvent = eventLogger.Warn()
	case zerolog.ErrorLevel:
		logEvent = eventLogger.Error()
	default:
		logEvent = eventLogger.Info()
	}

	// Add event-specific fields based on type
	switch e := event.(type) {
	case *events.TurnEndedEvent:
		logEvent.
			Int("events_count", e.EventsCount).
			Dur("process_time", e.ProcessedTime)

	case *events.SourceConqueredEvent:
		logEvent.
			Int("source_id", int(e.SourceID)).
			Int("seat_x", e.Seat.X).
			Int("seat_y", e.Seat.Y).
			Int("previous_empire", int(e.PreviousEmpire)).
			Int("conqueror", int(e.Conqueror)).
			Bool("same_culture", e.SameCulture).
			Int("power_before", e.PowerBefore).
			Int("power_after", e.PowerAfter)

	case *events.EmpireEliminatedEvent:
		logEvent.
			Int("empire_id", int(e.EmpireID)).
			Int("eliminated_by", int(e.EliminatedBy))

	case *events.RelationChangedEvent:
		logEvent.
			Int("empire_id", int(e.Empire)).
			Int("other_id", int(e.Other)).
			Str("action", e.Action).
			Str("previous", e.Previous).
			Str("current", e.Current)

	case *events.MoveCompletedEvent:
		logEvent.
			Int("mover_id", int(e.MoverID)).
			Int("empire_id", int(e.Empire)).
			Int("to_x", e.Destination.X).
			Int("to_y", e.Destination.Y)

	case *events.PathNotFoundEvent:
		logEvent.
			Int("mover_id", int(e.MoverID)).
			Int("empire_id", int(e.Empire)).
			Int("from_x", e.From.X).
			Int("from_y", e.From.Y).
			Int("goal_x", e.Goal.X).
			Int("goal_y", e.Goal.Y)

	case *events.PhaseTransitionEvent:
		logEvent.
			Str("from_phase", e.FromPhase).
			Str("to_phase", e.ToPhase).
			Str("reason", e.Reason)
	}

	// In dev mode, also log the full event as JSON
	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Simulation event")
}
