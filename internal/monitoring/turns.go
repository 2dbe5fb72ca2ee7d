// Package monitoring tracks simulation throughput from the event stream.
package monitoring

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/events"
)

// TurnMonitor is an event subscriber that records how long turns take and
// how many events each type produced. It warns when a turn runs slower
// than the alert threshold, at most once per cooldown.
type TurnMonitor struct {
	mu             sync.RWMutex
	turns          int
	total          time.Duration
	peak           time.Duration
	peakTurn       int
	alertThreshold time.Duration
	alertCooldown  time.Duration
	lastAlert      time.Time
	typeCounts     map[string]int
	logger         zerolog.Logger
	now            func() time.Time
}

// NewTurnMonitor creates a monitor that flags turns slower than threshold.
func NewTurnMonitor(logger zerolog.Logger, threshold time.Duration) *TurnMonitor {
	return &TurnMonitor{
		alertThreshold: threshold,
		alertCooldown:  time.Minute,
		typeCounts:     make(map[string]int),
		logger:         logger.With().Str("component", "TurnMonitor").Logger(),
		now:            time.Now,
	}
}

// ID implements events.Subscriber
func (tm *TurnMonitor) ID() string { return "turn-monitor" }

// InterestedIn implements events.Subscriber
func (tm *TurnMonitor) InterestedIn(string) bool { return true }

// HandleEvent implements events.Subscriber
func (tm *TurnMonitor) HandleEvent(e events.Event) {
	tm.mu.Lock()
	tm.typeCounts[e.Type()]++
	ended, ok := e.(*events.TurnEndedEvent)
	if !ok {
		tm.mu.Unlock()
		return
	}

	d := ended.ProcessedTime
	tm.turns++
	tm.total += d
	if d > tm.peak {
		tm.peak = d
		tm.peakTurn = ended.Turn
	}
	shouldAlert := tm.alertThreshold > 0 && d > tm.alertThreshold &&
		tm.now().Sub(tm.lastAlert) > tm.alertCooldown
	if shouldAlert {
		tm.lastAlert = tm.now()
	}
	tm.mu.Unlock()

	tm.logger.Debug().
		Int("turn", ended.Turn).
		Dur("elapsed", d).
		Int("events", ended.EventsCount).
		Msg("Turn metrics")

	if shouldAlert {
		tm.logger.Warn().
			Int("turn", ended.Turn).
			Dur("elapsed", d).
			Dur("threshold", tm.alertThreshold).
			Msg("Slow turn detected")
	}
}

// GetMetrics returns a snapshot of the recorded metrics
func (tm *TurnMonitor) GetMetrics() TurnMetrics {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	m := TurnMetrics{
		Turns:      tm.turns,
		Total:      tm.total,
		Peak:       tm.peak,
		PeakTurn:   tm.peakTurn,
		EventCount: copyMap(tm.typeCounts),
	}
	if tm.turns > 0 {
		m.Average = tm.total / time.Duration(tm.turns)
	}
	return m
}

// LogSummary writes the current metrics at info level
func (tm *TurnMonitor) LogSummary() {
	m := tm.GetMetrics()
	tm.logger.Info().
		Int("turns", m.Turns).
		Dur("average", m.Average).
		Dur("peak", m.Peak).
		Int("peak_turn", m.PeakTurn).
		Interface("events", m.EventCount).
		Msg("Simulation metrics")
}

// TurnMetrics contains turn timing statistics
type TurnMetrics struct {
	Turns      int            `json:"turns"`
	Total      time.Duration  `json:"total"`
	Average    time.Duration  `json:"average"`
	Peak       time.Duration  `json:"peak"`
	PeakTurn   int            `json:"peak_turn"`
	EventCount map[string]int `json:"event_count"`
}

func copyMap(m map[string]int) map[string]int {
	result := make(map[string]int, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}
