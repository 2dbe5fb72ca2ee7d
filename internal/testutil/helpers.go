package testutil

import (
	"math/rand"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/events"
)

// NewTestRNG creates a deterministic random number generator for tests
func NewTestRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NopLogger returns a no-op logger for tests
func NopLogger() zerolog.Logger {
	return zerolog.Nop()
}

// AssertPanic asserts that the given function panics
func AssertPanic(t *testing.T, f func(), msgAndArgs ...interface{}) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected panic but none occurred: %v", msgAndArgs)
		}
	}()
	f()
}

// RecordingPublisher keeps every published event for later assertions
type RecordingPublisher struct {
	Events []events.Event
}

func (p *RecordingPublisher) Publish(e events.Event) {
	p.Events = append(p.Events, e)
}

// OfType returns the recorded events of one type, in publication order
func (p *RecordingPublisher) OfType(eventType string) []events.Event {
	var out []events.Event
	for _, e := range p.Events {
		if e.Type() == eventType {
			out = append(out, e)
		}
	}
	return out
}

func (p *RecordingPublisher) Reset() { p.Events = nil }
