package feed

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sentra-project/sentra/internal/core"
)

// Threat is a synthetic global threat feed event.
type Threat struct {
	ID        string           `json:"id"`
	Type      string           `json:"type"`
	Target    string           `json:"target"`
	Origin    string           `json:"origin"`
	Severity  core.ThreatLevel `json:"severity"`
	Timestamp time.Time        `json:"timestamp"`
}

var threatTypes = []string{
	"DDoS Attack", "SQL Injection", "XSS Attempt", "Brute Force",
	"Malware Beacon", "Data Exfiltration", "Port Scanning", "Ransomware",
	"Zero-Day Exploit", "Man-in-the-Middle", "Phishing Campaign",
}

var threatTargets = []string{
	"Finance Gateway", "User Database", "Admin Portal", "API Endpoint",
	"Cloud Storage", "Email Server", "Firewall", "Load Balancer",
	"Authentication Service", "Payment Processor",
}

var threatOrigins = []string{
	"Unknown Proxy", "Tor Exit Node", "Botnet (Mirai)", "Compromised IoT",
	"North America", "Eastern Europe", "East Asia", "South America",
	"West Asia", "Cloud Instance (AWS)", "Cloud Instance (Azure)",
}

// ThreatFeed emits synthetic threats at a jittered interval, pausing while
// the host page is not visible. Pausing is a pure pause: no catch-up queue
// of missed events on resume.
type ThreatFeed struct {
	logger    zerolog.Logger
	bc        *Broadcaster[*Threat]
	jitterMin time.Duration
	jitterMax time.Duration

	mu      sync.Mutex
	running bool
	visible bool
	timer   *time.Timer
}

// NewThreatFeed creates a stopped feed. The per-tick delay is drawn uniformly
// from [cfg.JitterMin, cfg.JitterMax). The feed starts out visible.
func NewThreatFeed(logger zerolog.Logger, cfg core.ThreatFeedConfig) *ThreatFeed {
	l := logger.With().Str("component", "threat_feed").Logger()
	return &ThreatFeed{
		logger:    l,
		bc:        NewBroadcaster[*Threat](l),
		jitterMin: cfg.JitterMin,
		jitterMax: cfg.JitterMax,
		visible:   true,
	}
}

// Start begins the emission schedule. Calling Start while running is a no-op.
func (f *ThreatFeed) Start() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.running {
		return
	}
	f.running = true
	f.scheduleLocked()
	f.logger.Info().
		Dur("jitter_min", f.jitterMin).
		Dur("jitter_max", f.jitterMax).
		Msg("threat feed started")
}

// Stop cancels any pending emission. Calling Stop while stopped is a no-op.
func (f *ThreatFeed) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.running {
		return
	}
	f.running = false
	f.cancelTimerLocked()
	f.logger.Info().Msg("threat feed stopped")
}

// SetVisible feeds the host visibility signal. Going invisible cancels the
// pending tick; becoming visible again resumes scheduling exactly once.
func (f *ThreatFeed) SetVisible(visible bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.visible == visible {
		return
	}
	f.visible = visible
	if !visible {
		f.cancelTimerLocked()
		return
	}
	if f.running {
		f.scheduleLocked()
	}
}

// Visible reports whether the feed currently has visibility.
func (f *ThreatFeed) Visible() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visible
}

// Subscribe registers a listener for generated threats.
func (f *ThreatFeed) Subscribe(fn func(*Threat)) func() {
	return f.bc.Subscribe(fn)
}

// scheduleLocked arms the next tick. The timer!=nil guard makes resume paths
// idempotent: at most one tick is ever pending.
func (f *ThreatFeed) scheduleLocked() {
	if f.timer != nil || !f.running || !f.visible {
		return
	}
	delay := f.jitterMin + time.Duration(rand.Int63n(int64(f.jitterMax-f.jitterMin)))
	f.timer = time.AfterFunc(delay, f.tick)
}

func (f *ThreatFeed) cancelTimerLocked() {
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}

func (f *ThreatFeed) tick() {
	f.mu.Lock()
	f.timer = nil
	if !f.running || !f.visible {
		f.mu.Unlock()
		return
	}
	f.mu.Unlock()

	f.bc.Notify(generateThreat())

	f.mu.Lock()
	f.scheduleLocked()
	f.mu.Unlock()
}

func generateThreat() *Threat {
	return &Threat{
		ID:        uuid.New().String(),
		Type:      threatTypes[rand.Intn(len(threatTypes))],
		Target:    threatTargets[rand.Intn(len(threatTargets))],
		Origin:    threatOrigins[rand.Intn(len(threatOrigins))],
		Severity:  severityFor(rand.Float64()),
		Timestamp: time.Now().UTC(),
	}
}

// severityFor maps one uniform draw onto the fixed severity distribution:
// P(critical)=0.05, P(high)=0.15, P(medium)=0.20, P(low)=0.60.
func severityFor(roll float64) core.ThreatLevel {
	switch {
	case roll > 0.95:
		return core.LevelCritical
	case roll > 0.80:
		return core.LevelHigh
	case roll > 0.60:
		return core.LevelMedium
	default:
		return core.LevelLow
	}
}
