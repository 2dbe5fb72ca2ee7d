package events

import (
	"time"
)

// Event is the base interface for all simulation events
type Event interface {
	// Type returns the event type as a string for filtering and logging
	Type() string
	// Timestamp returns when the event was recorded
	Timestamp() time.Time
	// WorldID returns the ID of the world this event belongs to
	WorldID() string
	// TurnNumber returns the turn during which the event happened
	TurnNumber() int
}

// BaseEvent provides common fields for all events
type BaseEvent struct {
	EventType string    `json:"type"`
	Time      time.Time `json:"timestamp"`
	World     string    `json:"world_id"`
	Turn      int       `json:"turn"`
}

// Type implements Event interface
func (e BaseEvent) Type() string {
	return e.EventType
}

// Timestamp implements Event interface
func (e BaseEvent) Timestamp() time.Time {
	return e.Time
}

// WorldID implements Event interface
func (e BaseEvent) WorldID() string {
	return e.World
}

// TurnNumber implements Event interface
func (e BaseEvent) TurnNumber() int {
	return e.Turn
}

func newBase(eventType, worldID string, turn int) BaseEvent {
	return BaseEvent{
		EventType: eventType,
		Time:      time.Now(),
		World:     worldID,
		Turn:      turn,
	}
}

// EventHandler is a function that processes events
type EventHandler func(Event)

// Subscriber represents an entity that can receive events
type Subscriber interface {
	// ID returns a unique identifier for this subscriber
	ID() string
	// HandleEvent processes an event
	HandleEvent(Event)
	// InterestedIn returns true if the subscriber wants to receive this event type
	InterestedIn(eventType string) bool
}

// Publisher is the interface the simulation core writes events to
type Publisher interface {
	Publish(Event)
}

// Bus is the main event bus interface
type Bus interface {
	Publisher
	// Subscribe adds a new subscriber to the event bus
	Subscribe(Subscriber)
	// Unsubscribe removes a subscriber from the event bus
	Unsubscribe(subscriberID string)
	// SubscribeFunc adds a function handler for specific event types
	SubscribeFunc(eventType string, handler EventHandler) string
}

// Discard is a Publisher that drops every event.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(Event) {}
