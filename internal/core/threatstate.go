package core

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultDwell is how long the threat level stays at HIGH after the most
// recent escalation before decaying back to LOW.
const DefaultDwell = 30 * time.Second

// ThreatState is the process-wide threat indicator. HIGH and CRITICAL events
// escalate it to HIGH; it decays back to LOW after a dwell window.
//
// A single decay deadline is kept rather than one timer per escalation:
// re-escalating extends the deadline, and the level never drops before the
// most recent escalation has aged out.
type ThreatState struct {
	mu       sync.Mutex
	logger   zerolog.Logger
	level    ThreatLevel
	dwell    time.Duration
	deadline time.Time
	timer    *time.Timer
	handlers []func(ThreatLevel)
}

// NewThreatState creates a threat state at LOW with the given dwell window.
// A non-positive dwell falls back to DefaultDwell.
func NewThreatState(logger zerolog.Logger, dwell time.Duration) *ThreatState {
	if dwell <= 0 {
		dwell = DefaultDwell
	}
	return &ThreatState{
		logger: logger.With().Str("component", "threat_state").Logger(),
		level:  LevelLow,
		dwell:  dwell,
	}
}

// Level returns the current threat level.
func (s *ThreatState) Level() ThreatLevel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

// OnChange registers a callback invoked whenever the level changes.
func (s *ThreatState) OnChange(fn func(ThreatLevel)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, fn)
}

// Escalate raises the level to HIGH and arms (or extends) the decay deadline.
func (s *ThreatState) Escalate() {
	s.mu.Lock()
	changed := s.level != LevelHigh
	s.level = LevelHigh
	s.deadline = time.Now().Add(s.dwell)
	if s.timer == nil {
		s.timer = time.AfterFunc(s.dwell, s.decay)
	} else {
		s.timer.Reset(s.dwell)
	}
	handlers := s.snapshotHandlersLocked()
	s.mu.Unlock()

	if changed {
		s.logger.Warn().Str("level", LevelHigh.String()).Dur("dwell", s.dwell).Msg("threat level escalated")
		for _, fn := range handlers {
			fn(LevelHigh)
		}
	}
}

func (s *ThreatState) decay() {
	s.mu.Lock()
	// A re-escalation may have moved the deadline after this timer was armed.
	if time.Now().Before(s.deadline) {
		s.timer.Reset(time.Until(s.deadline))
		s.mu.Unlock()
		return
	}
	s.timer = nil
	changed := s.level != LevelLow
	s.level = LevelLow
	handlers := s.snapshotHandlersLocked()
	s.mu.Unlock()

	if changed {
		s.logger.Info().Str("level", LevelLow.String()).Msg("threat level decayed")
		for _, fn := range handlers {
			fn(LevelLow)
		}
	}
}

// Stop cancels any pending decay timer. The level is left as-is.
func (s *ThreatState) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *ThreatState) snapshotHandlersLocked() []func(ThreatLevel) {
	out := make([]func(ThreatLevel), len(s.handlers))
	copy(out, s.handlers)
	return out
}
