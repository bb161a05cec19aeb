package demo

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sentra-project/sentra/internal/feed"
)

// LogSink receives scripted entries. *feed.LogFeed satisfies it.
type LogSink interface {
	AddLog(entry *feed.LogEntry)
}

// Runner replays a timeline into a LogSink, one scenario at a time. Run is
// synchronous; callers wanting fire-and-forget run it in a goroutine.
type Runner struct {
	logger zerolog.Logger
	sink   LogSink

	mu      sync.Mutex
	running bool
	cancel  chan struct{}
}

// NewRunner creates a Runner that injects into sink.
func NewRunner(logger zerolog.Logger, sink LogSink) *Runner {
	return &Runner{
		logger: logger.With().Str("component", "demo_runner").Logger(),
		sink:   sink,
	}
}

// Running reports whether a scenario is in flight.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Run executes the timeline step by step, waiting each step's relative delay
// before injecting its entry. If a scenario is already in flight, Run returns
// immediately without queueing or restarting. Cancellation (via Cancel or
// ctx) is observed between steps, never mid-step.
func (r *Runner) Run(ctx context.Context, tl Timeline) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		r.logger.Debug().Msg("scenario already running, ignoring")
		return
	}
	r.running = true
	cancel := make(chan struct{})
	r.cancel = cancel
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.running = false
		r.cancel = nil
		r.mu.Unlock()
	}()

	r.logger.Info().Int("steps", len(tl)).Msg("attack scenario started")

	for i, step := range tl {
		timer := time.NewTimer(step.Delay)
		select {
		case <-timer.C:
		case <-cancel:
			timer.Stop()
			r.logger.Info().Int("completed", i).Msg("attack scenario cancelled")
			return
		case <-ctx.Done():
			timer.Stop()
			r.logger.Info().Int("completed", i).Msg("attack scenario aborted by context")
			return
		}

		select {
		case <-cancel:
			r.logger.Info().Int("completed", i).Msg("attack scenario cancelled")
			return
		default:
		}

		entry := step.Entry
		entry.Timestamp = time.Now().UTC()
		r.sink.AddLog(&entry)
	}

	r.logger.Info().Int("steps", len(tl)).Msg("attack scenario completed")
}

// Cancel stops a running scenario before its next step. No effect if nothing
// is running.
func (r *Runner) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		close(r.cancel)
		r.cancel = nil
	}
}
