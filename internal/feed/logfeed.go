package feed

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sentra-project/sentra/internal/core"
)

// LogSeverity is the SIEM log severity scale. It is distinct from
// core.ThreatLevel: the feed mimics Windows event log levels.
type LogSeverity string

const (
	LogInfo     LogSeverity = "INFO"
	LogWarn     LogSeverity = "WARN"
	LogError    LogSeverity = "ERROR"
	LogCritical LogSeverity = "CRITICAL"
)

// Log categories.
const (
	CategorySystem      = "System"
	CategorySecurity    = "Security"
	CategoryApplication = "Application"
	CategoryFirewall    = "Firewall"
)

// LogEntry is a synthetic SIEM log record.
type LogEntry struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Severity  LogSeverity `json:"severity"`
	Source    string      `json:"source"`
	EventID   string      `json:"event_id"`
	Message   string      `json:"message"`
	User      string      `json:"user"`
	SourceIP  string      `json:"source_ip"`
	Category  string      `json:"category"`
}

type logTemplate struct {
	eventID  string
	message  string
	category string
	severity LogSeverity
}

// Windows/NIST event ID mappings.
var logTemplates = []logTemplate{
	{eventID: "4624", message: "An account was successfully logged on.", category: CategorySecurity, severity: LogInfo},
	{eventID: "4625", message: "An account failed to log on.", category: CategorySecurity, severity: LogWarn},
	{eventID: "1102", message: "The audit log was cleared.", category: CategorySecurity, severity: LogCritical},
	{eventID: "4688", message: "A new process has been created.", category: CategorySystem, severity: LogInfo},
	{eventID: "7045", message: "A service was installed in the system.", category: CategorySystem, severity: LogWarn},
	{eventID: "DENY", message: "Firewall blocked connection on port 445.", category: CategoryFirewall, severity: LogWarn},
	{eventID: "IDS-01", message: "Potential SQL Injection attempt detected.", category: CategoryApplication, severity: LogCritical},
}

var logUsers = []string{"SYSTEM", "admin", "dskum", "service_account", "network_service"}

var logSources = []string{"DC-01", "WEB-01", "DB-01", "FW-ENT-01", "IDS-01"}

// LogFeed generates synthetic SIEM log entries at a fixed period and accepts
// externally authored entries via AddLog. Generated and injected entries
// interleave in real call order and share the same subscriber path.
type LogFeed struct {
	logger   zerolog.Logger
	bc       *Broadcaster[*LogEntry]
	interval time.Duration
	backlog  int
	maxStore int

	mu      sync.Mutex
	running bool
	done    chan struct{}
	store   []*LogEntry
}

// NewLogFeed creates a stopped feed.
func NewLogFeed(logger zerolog.Logger, cfg core.SIEMFeedConfig) *LogFeed {
	l := logger.With().Str("component", "log_feed").Logger()
	return &LogFeed{
		logger:   l,
		bc:       NewBroadcaster[*LogEntry](l),
		interval: cfg.Interval,
		backlog:  cfg.Backlog,
		maxStore: cfg.MaxStore,
	}
}

// Start begins emitting one entry per interval. Idempotent.
func (f *LogFeed) Start() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.running {
		return
	}
	f.running = true
	f.done = make(chan struct{})
	go f.loop(f.done)
	f.logger.Info().Dur("interval", f.interval).Msg("log feed started")
}

// Stop halts emission. Idempotent.
func (f *LogFeed) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.running {
		return
	}
	f.running = false
	close(f.done)
	f.done = nil
	f.logger.Info().Msg("log feed stopped")
}

func (f *LogFeed) loop(done chan struct{}) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			f.emit(generateLogEntry())
		}
	}
}

// Subscribe registers a listener for both generated and injected entries.
func (f *LogFeed) Subscribe(fn func(*LogEntry)) func() {
	return f.bc.Subscribe(fn)
}

// AddLog injects an externally authored entry. It bypasses the random
// generator but is stored and broadcast exactly like a generated one. A
// missing ID is filled in.
func (f *LogFeed) AddLog(entry *LogEntry) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	f.emit(entry)
}

func (f *LogFeed) emit(entry *LogEntry) {
	f.mu.Lock()
	f.store = append([]*LogEntry{entry}, f.store...)
	if len(f.store) > f.maxStore {
		f.store = f.store[:f.maxStore]
	}
	f.mu.Unlock()

	f.bc.Notify(entry)
}

// Backlog returns a snapshot of retained entries, newest first.
func (f *LogFeed) Backlog() []*LogEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*LogEntry, len(f.store))
	copy(out, f.store)
	return out
}

// InitialBacklog synchronously generates a pre-seed batch for a display. It
// does not notify subscribers, touch the retained store, or affect the live
// schedule.
func (f *LogFeed) InitialBacklog() []*LogEntry {
	out := make([]*LogEntry, f.backlog)
	for i := range out {
		out[i] = generateLogEntry()
	}
	return out
}

func generateLogEntry() *LogEntry {
	tmpl := logTemplates[rand.Intn(len(logTemplates))]
	return &LogEntry{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Severity:  tmpl.severity,
		Source:    logSources[rand.Intn(len(logSources))],
		EventID:   tmpl.eventID,
		Message:   tmpl.message,
		User:      logUsers[rand.Intn(len(logUsers))],
		SourceIP:  randomSourceIP(),
		Category:  tmpl.category,
	}
}

// randomSourceIP fabricates an internal address in the 10.0.{0-4} range,
// each octet drawn independently.
func randomSourceIP() string {
	return fmt.Sprintf("10.0.%d.%d", rand.Intn(5), rand.Intn(255))
}
