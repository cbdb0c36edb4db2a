// Package retry redelivers side effects that failed after a status
// change committed. A cron job drains the side_effect_failures queue;
// every replayable step is idempotent, so a crash between replay and
// resolve is safe.
package retry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/onyillto/234Hire-Backend/internal/application"
)

// batchSize caps how many failures one cycle replays.
const batchSize = 50

// maxAttempts caps how often a failure is replayed before it is dropped
// from the queue. A record that keeps failing after this many cycles
// needs an operator, not another tick.
const maxAttempts = 5

// Replayer re-runs a single queued side effect.
type Replayer interface {
	Replay(ctx context.Context, f application.SideEffectFailure) error
}

// Worker wraps robfig/cron and manages the redelivery loop.
type Worker struct {
	cron     *cron.Cron
	failures application.FailureStore
	engine   Replayer
	spec     string // cron spec, e.g. "@every 5m"
	log      *slog.Logger
}

// New creates a Worker that fires every intervalMinutes minutes.
func New(failures application.FailureStore, engine Replayer, intervalMinutes int, log *slog.Logger) *Worker {
	if log == nil {
		log = slog.Default()
	}
	return &Worker{
		cron:     cron.New(),
		failures: failures,
		engine:   engine,
		spec:     fmt.Sprintf("@every %dm", intervalMinutes),
		log:      log,
	}
}

// Start registers the job and starts the scheduler. Also runs one drain
// immediately so restarts do not wait for the first tick.
func (w *Worker) Start(ctx context.Context) error {
	_, err := w.cron.AddFunc(w.spec, func() {
		w.Drain(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	w.cron.Start()
	w.log.Info("redelivery worker started", "spec", w.spec)

	go w.Drain(ctx)
	return nil
}

// Stop gracefully shuts down the scheduler.
func (w *Worker) Stop() {
	w.cron.Stop()
	w.log.Info("redelivery worker stopped")
}

// Drain replays one batch of queued failures. The scheduler calls it on
// every tick; it is exported so an operator can trigger a redelivery
// pass without waiting for the next one.
func (w *Worker) Drain(ctx context.Context) {
	failures, err := w.failures.List(ctx, batchSize)
	if err != nil {
		w.log.Warn("list side-effect failures", "err", err)
		return
	}
	if len(failures) == 0 {
		return
	}

	var replayed, stuck, dropped int
	for _, f := range failures {
		if f.Attempts >= maxAttempts {
			dropped++
			w.log.Warn("dropping side-effect failure after max attempts",
				"id", f.ID, "step", f.Step, "attempts", f.Attempts, "lastError", f.LastError)
			if err := w.failures.Resolve(ctx, f.ID); err != nil {
				w.log.Warn("resolve side-effect failure", "id", f.ID, "err", err)
			}
			continue
		}
		if err := w.engine.Replay(ctx, f); err != nil {
			stuck++
			if err := w.failures.Bump(ctx, f.ID, err.Error()); err != nil {
				w.log.Warn("bump side-effect failure", "id", f.ID, "err", err)
			}
			continue
		}
		if err := w.failures.Resolve(ctx, f.ID); err != nil {
			w.log.Warn("resolve side-effect failure", "id", f.ID, "err", err)
			continue
		}
		replayed++
	}

	w.log.Info("redelivery cycle complete", "replayed", replayed, "stuck", stuck, "dropped", dropped)
}
