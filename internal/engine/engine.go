// Package engine is the composition root: it owns every core component and
// ties their lifecycles to application start/stop. Nothing in the repo holds
// module-level singletons; consumers get their collaborators from here.
package engine

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sentra-project/sentra/internal/analyst"
	"github.com/sentra-project/sentra/internal/core"
	"github.com/sentra-project/sentra/internal/demo"
	"github.com/sentra-project/sentra/internal/detect"
	"github.com/sentra-project/sentra/internal/feed"
	"github.com/sentra-project/sentra/internal/settings"
)

// recentThreatCap bounds the threat feed history kept for the API.
const recentThreatCap = 50

// Engine wires the detector, feeds, demo runner, analyst, settings store and
// optional event bus together.
type Engine struct {
	Config     *core.Config
	Logger     zerolog.Logger
	Store      *core.LogStore
	Threat     *core.ThreatState
	Detector   *detect.Detector
	ThreatFeed *feed.ThreatFeed
	LogFeed    *feed.LogFeed
	Demo       *demo.Runner
	Analyst    *analyst.Analyst
	Settings   *settings.Store
	Bus        *core.EventBus

	ctx    context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	started       bool
	startedAt     time.Time
	recentThreats []*feed.Threat
	unsubscribers []func()
}

// New builds an engine from config. Nothing is started yet.
func New(cfg *core.Config) (*Engine, error) {
	var logger zerolog.Logger
	if cfg.Logging.Format == "json" {
		logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	}

	switch cfg.LogLevel() {
	case "debug":
		logger = logger.Level(zerolog.DebugLevel)
	case "warn":
		logger = logger.Level(zerolog.WarnLevel)
	case "error":
		logger = logger.Level(zerolog.ErrorLevel)
	default:
		logger = logger.Level(zerolog.InfoLevel)
	}

	ctx, cancel := context.WithCancel(context.Background())

	store := core.NewLogStore(cfg.Log.Capacity)
	threat := core.NewThreatState(logger, cfg.Threat.Dwell)
	detector := detect.New(logger, store, threat)
	threatFeed := feed.NewThreatFeed(logger, cfg.Feeds.Threat)
	logFeed := feed.NewLogFeed(logger, cfg.Feeds.SIEM)

	llm := analyst.NewLLMClient(logger, cfg.Analyst)
	var opts []analyst.Option
	if llm != nil {
		opts = append(opts, analyst.WithLLM(llm))
	}

	e := &Engine{
		Config:     cfg,
		Logger:     logger.With().Str("component", "engine").Logger(),
		Store:      store,
		Threat:     threat,
		Detector:   detector,
		ThreatFeed: threatFeed,
		LogFeed:    logFeed,
		Demo:       demo.NewRunner(logger, logFeed),
		Analyst:    analyst.New(logger, opts...),
		ctx:        ctx,
		cancel:     cancel,
	}
	return e, nil
}

// Context returns the engine lifetime context.
func (e *Engine) Context() context.Context {
	return e.ctx
}

// Start opens the settings store and bus (when configured), bridges core
// output onto the bus, and starts both feeds. Idempotent.
func (e *Engine) Start() error {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return nil
	}
	e.started = true
	e.startedAt = time.Now().UTC()
	e.mu.Unlock()

	e.Logger.Info().Msg("starting sentra engine")

	if path := e.Config.Settings.Path; path != "" {
		store, err := settings.Open(path)
		if err != nil {
			return err
		}
		e.Settings = store
		e.Logger.Info().Str("path", path).Msg("settings store opened")
	}

	if e.Config.Bus.Enabled {
		bus, err := core.NewEventBus(&e.Config.Bus, e.Logger)
		if err != nil {
			return err
		}
		e.Bus = bus

		e.Detector.OnLog(func(entry *core.SecurityLog) {
			if err := e.Bus.PublishSecurityLog(entry); err != nil {
				e.Logger.Error().Err(err).Str("entry_id", entry.ID).Msg("failed to publish security log")
			}
		})
	}

	unsubThreats := e.ThreatFeed.Subscribe(func(t *feed.Threat) {
		e.mu.Lock()
		e.recentThreats = append([]*feed.Threat{t}, e.recentThreats...)
		if len(e.recentThreats) > recentThreatCap {
			e.recentThreats = e.recentThreats[:recentThreatCap]
		}
		e.mu.Unlock()

		if e.Bus != nil {
			if err := e.Bus.PublishFeed("threats", t.Severity.String(), t); err != nil {
				e.Logger.Error().Err(err).Msg("failed to publish threat")
			}
		}
	})

	unsubLogs := e.LogFeed.Subscribe(func(entry *feed.LogEntry) {
		if e.Bus != nil {
			if err := e.Bus.PublishFeed("siem", entry.Category, entry); err != nil {
				e.Logger.Error().Err(err).Msg("failed to publish SIEM entry")
			}
		}
	})

	e.mu.Lock()
	e.unsubscribers = append(e.unsubscribers, unsubThreats, unsubLogs)
	e.mu.Unlock()

	e.ThreatFeed.Start()
	e.LogFeed.Start()

	e.Logger.Info().Msg("sentra engine started")
	return nil
}

// Stop tears everything down in reverse start order. Every feed Start gets
// its matching Stop here so no timer outlives the engine.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started {
		e.mu.Unlock()
		return
	}
	e.started = false
	unsubs := e.unsubscribers
	e.unsubscribers = nil
	e.mu.Unlock()

	e.Logger.Info().Msg("stopping sentra engine")

	e.Demo.Cancel()
	e.LogFeed.Stop()
	e.ThreatFeed.Stop()
	for _, unsub := range unsubs {
		unsub()
	}
	e.Threat.Stop()

	if e.Bus != nil {
		_ = e.Bus.Close()
		e.Bus = nil
	}
	if e.Settings != nil {
		_ = e.Settings.Close()
		e.Settings = nil
	}

	e.cancel()
	e.Logger.Info().Msg("sentra engine stopped")
}

// RecentThreats returns the latest threat feed events, newest first.
func (e *Engine) RecentThreats() []*feed.Threat {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*feed.Threat, len(e.recentThreats))
	copy(out, e.recentThreats)
	return out
}

// Uptime returns how long the engine has been running.
func (e *Engine) Uptime() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.started {
		return 0
	}
	return time.Since(e.startedAt)
}
