package detect

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/sentra-project/sentra/internal/core"
)

// DetectedType is the Type label stamped on entries produced by Detect.
const DetectedType = "Malicious Input Detected"

// Detector scans arbitrary input strings for known injection/XSS signatures
// and records a SecurityLog entry for every hit. Detect both inspects and
// records — callers must not log the same input again.
type Detector struct {
	logger   zerolog.Logger
	store    *core.LogStore
	threat   *core.ThreatState
	patterns []Pattern

	mu       sync.Mutex
	handlers []func(*core.SecurityLog)

	// Stats
	scanned  atomic.Int64
	detected atomic.Int64
}

// New creates a Detector writing to the given store and threat state.
func New(logger zerolog.Logger, store *core.LogStore, threat *core.ThreatState) *Detector {
	return &Detector{
		logger:   logger.With().Str("component", "detector").Logger(),
		store:    store,
		threat:   threat,
		patterns: compilePatterns(),
	}
}

// OnLog registers a callback invoked for every appended entry.
func (d *Detector) OnLog(fn func(*core.SecurityLog)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, fn)
}

// Detect tests input against each signature in order, short-circuiting on the
// first match. A match appends exactly one HIGH entry attributed to source
// and escalates the threat level. Empty or clean input returns false with no
// side effects.
func (d *Detector) Detect(input, source string) bool {
	d.scanned.Add(1)
	if input == "" {
		return false
	}

	for _, p := range d.patterns {
		if p.Regex.MatchString(input) {
			d.detected.Add(1)
			d.LogEvent(DetectedType, source,
				fmt.Sprintf("Pattern matched: %s (%s)", p.Name, p.Description),
				core.LevelHigh, true)
			return true
		}
	}
	return false
}

// LogEvent appends a new entry to the bounded log. HIGH and CRITICAL
// severities escalate the threat level for the configured dwell window.
func (d *Detector) LogEvent(eventType, source, details string, severity core.ThreatLevel, blocked bool) *core.SecurityLog {
	entry := core.NewSecurityLog(eventType, source, details, severity, blocked)
	d.store.Append(entry)

	if severity >= core.LevelHigh {
		d.threat.Escalate()
	}

	if blocked {
		d.logger.Warn().
			Str("type", eventType).
			Str("source", source).
			Str("severity", severity.String()).
			Msg("security event blocked")
	} else {
		d.logger.Info().
			Str("type", eventType).
			Str("source", source).
			Str("severity", severity.String()).
			Msg("security event")
	}

	d.mu.Lock()
	handlers := make([]func(*core.SecurityLog), len(d.handlers))
	copy(handlers, d.handlers)
	d.mu.Unlock()
	for _, fn := range handlers {
		fn(entry)
	}

	return entry
}

// Stats returns scan counters.
func (d *Detector) Stats() (scanned, detected int64) {
	return d.scanned.Load(), d.detected.Load()
}

// Patterns returns the signature set in evaluation order.
func (d *Detector) Patterns() []Pattern {
	out := make([]Pattern, len(d.patterns))
	copy(out, d.patterns)
	return out
}
