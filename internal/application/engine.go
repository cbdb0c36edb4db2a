package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Engine orchestrates every status change of an application: it
// validates the transition, persists the new status with its
// timestamps and analytics, then runs the side effects (ledger,
// counters, notifications, stats) against the parent job and the
// counterparties.
//
// Side effects run after the status write commits and never roll it
// back: a failure is logged, queued for redelivery and surfaced as a
// Warning on the result.
type Engine struct {
	apps     ApplicationStore
	jobs     JobStore
	users    UserStore
	txs      TransactionStore
	ledger   *Ledger
	stats    *StatsAggregator
	dispatch Dispatcher
	failures FailureStore
	log      *slog.Logger

	now func() time.Time // injectable clock for tests
}

// NewEngine wires an Engine from its collaborators.
func NewEngine(
	apps ApplicationStore,
	jobs JobStore,
	users UserStore,
	txs TransactionStore,
	ledger *Ledger,
	stats *StatsAggregator,
	dispatch Dispatcher,
	failures FailureStore,
	log *slog.Logger,
) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		apps:     apps,
		jobs:     jobs,
		users:    users,
		txs:      txs,
		ledger:   ledger,
		stats:    stats,
		dispatch: dispatch,
		failures: failures,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Result is the outcome of a transition: the updated application plus
// any side effects that failed after the status committed.
type Result struct {
	Application *Application `json:"application"`
	Warnings    []Warning    `json:"warnings,omitempty"`
}

// Transition moves an application to requestedStatus on behalf of
// actorID.
//
// Errors before the status write (ErrNotFound, ErrForbidden,
// InvalidTransitionError, ErrConflict) abort the whole operation with
// no state mutated. After the write, failures degrade to Warnings.
func (e *Engine) Transition(ctx context.Context, applicationID string, requested Status, actorID string) (*Result, error) {
	app, err := e.apps.Get(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	job, err := e.jobs.Get(ctx, app.JobID)
	if err != nil {
		return nil, err
	}

	if err := authorize(app, job, requested, actorID); err != nil {
		return nil, err
	}

	// Requesting the current status is an error, not a silent success:
	// a retried request must not double-fire side effects.
	if requested == app.Status {
		return nil, &InvalidTransitionError{From: app.Status, To: requested}
	}
	if !IsTransitionAllowed(app.Status, requested) {
		return nil, &InvalidTransitionError{From: app.Status, To: requested}
	}

	// An acceptance books a payment, so the amount must be payable
	// before anything is persisted; InvalidAmount aborts the whole
	// operation rather than committing a hire the ledger can never book.
	if requested == StatusAccepted {
		if amount, _ := paymentTerms(app, job); amount <= 0 {
			return nil, fmt.Errorf("%w: job %s has no payable amount", ErrInvalidAmount, job.ID)
		}
	}

	now := e.now()
	fromVersion := app.Version
	app.Status = requested
	applyTimestamp(app, requested, now)
	applyAnalytics(app, requested, now)

	if err := e.apps.UpdateStatus(ctx, app, fromVersion); err != nil {
		return nil, err
	}

	warnings := e.runSideEffects(ctx, app, job)
	return &Result{Application: app, Warnings: warnings}, nil
}

// authorize enforces who may trigger which transition: the applicant
// may only withdraw their own application; everything else belongs to
// the job owner.
func authorize(app *Application, job *Job, requested Status, actorID string) error {
	if requested == StatusWithdrawn {
		if actorID != app.ApplicantID {
			return ErrForbidden
		}
		return nil
	}
	if actorID != job.PostedBy {
		return ErrForbidden
	}
	return nil
}

// ─── Side effects ────────────────────────────────────────────────────────────

// runSideEffects dispatches the per-status side effects in order:
// ledger and counters first, then notifications, then stats. Each
// failure becomes a Warning and (where replay is safe) a queued
// redelivery record.
func (e *Engine) runSideEffects(ctx context.Context, app *Application, job *Job) []Warning {
	var warnings []Warning
	fail := func(step string, err error, queue bool) {
		e.log.Warn("side effect failed",
			"applicationId", app.ID, "step", step, "err", err)
		warnings = append(warnings, Warning{Step: step, Err: err.Error()})
		if queue {
			e.queueFailure(ctx, app.ID, step, err)
		}
	}

	// The status event fires for every committed transition, withdrawn
	// included, and does not depend on any notification row landing.
	// It is transient (SSE), so a failed publish is logged, not queued.
	if err := e.dispatch.StatusChanged(ctx, app); err != nil {
		e.log.Warn("publish status event failed", "applicationId", app.ID, "err", err)
	}

	switch app.Status {
	case StatusReviewed:
		if err := e.dispatch.Reviewed(ctx, job, app); err != nil {
			fail(StepNotification, err, true)
		}

	case StatusAccepted:
		if err := e.bookPayment(ctx, app, job); err != nil {
			fail(StepLedger, err, true)
		}
		// Counter increments are not idempotent, so they are never
		// queued for replay; a failure here is surfaced and left to
		// operator reconciliation.
		if err := e.jobs.RecordHire(ctx, job.ID); err != nil {
			fail(StepCounters, err, false)
		}
		if err := e.users.IncrementEmployerHires(ctx, job.PostedBy); err != nil {
			fail(StepCounters, err, false)
		}
		if err := e.dispatch.Accepted(ctx, job, app); err != nil {
			fail(StepNotification, err, true)
		}
		if err := e.stats.Recompute(ctx, job.ID, job.PostedBy); err != nil {
			fail(StepStats, err, true)
		}

	case StatusRejected:
		if err := e.jobs.RecordRejection(ctx, job.ID); err != nil {
			fail(StepCounters, err, false)
		}
		if err := e.users.IncrementEmployerRejections(ctx, job.PostedBy); err != nil {
			fail(StepCounters, err, false)
		}
		if err := e.dispatch.Rejected(ctx, job, app); err != nil {
			fail(StepNotification, err, true)
		}
		if err := e.stats.Recompute(ctx, job.ID, job.PostedBy); err != nil {
			fail(StepStats, err, true)
		}

	case StatusWithdrawn:
		// Timestamp and status event only. The applicant initiated the
		// move, and there is no employer-facing notification for
		// withdrawals.
	}

	return warnings
}

// bookPayment creates the ledger entry for a hire, guarded so a
// replayed or double-fired transition never books twice.
func (e *Engine) bookPayment(ctx context.Context, app *Application, job *Job) error {
	exists, err := e.txs.HasPayment(ctx, job.ID, app.ApplicantID)
	if err != nil {
		return fmt.Errorf("payment lookup: %w", err)
	}
	if exists {
		return nil // already booked
	}

	amount, currency := paymentTerms(app, job)
	_, err = e.ledger.CreateJobPayment(ctx, JobPayment{
		JobID:         job.ID,
		ApplicationID: app.ID,
		PayerID:       job.PostedBy,
		PayeeID:       app.ApplicantID,
		Amount:        amount,
		Currency:      currency,
	})
	return err
}

// paymentTerms resolves what an acceptance pays: the specialist's
// proposed rate when set and positive, otherwise the job's salary cap.
func paymentTerms(app *Application, job *Job) (amount float64, currency string) {
	amount = job.SalaryMax
	if app.ProposedRate != nil && *app.ProposedRate > 0 {
		amount = *app.ProposedRate
	}
	currency = app.Currency
	if currency == "" {
		currency = job.Currency
	}
	return amount, currency
}

// queueFailure records a replayable side-effect failure; best-effort.
// Deterministic validation errors are never queued: replaying them can
// only fail the same way.
func (e *Engine) queueFailure(ctx context.Context, appID, step string, cause error) {
	if errors.Is(cause, ErrInvalidAmount) {
		return
	}
	f := &SideEffectFailure{
		ApplicationID: appID,
		Step:          step,
		LastError:     cause.Error(),
		CreatedAt:     e.now(),
	}
	if err := e.failures.Record(ctx, f); err != nil {
		e.log.Warn("queue side-effect failure",
			"applicationId", appID, "step", step, "err", err)
	}
}

// Replay re-runs one queued side effect. Every replayable step is
// idempotent: the ledger is guarded by HasPayment, stats recomputation
// is a pure overwrite, and a notification replay only fires when the
// original write failed.
func (e *Engine) Replay(ctx context.Context, f SideEffectFailure) error {
	app, err := e.apps.Get(ctx, f.ApplicationID)
	if err != nil {
		return err
	}
	job, err := e.jobs.Get(ctx, app.JobID)
	if err != nil {
		return err
	}

	switch f.Step {
	case StepLedger:
		return e.bookPayment(ctx, app, job)
	case StepStats:
		return e.stats.Recompute(ctx, job.ID, job.PostedBy)
	case StepNotification:
		switch app.Status {
		case StatusReviewed:
			return e.dispatch.Reviewed(ctx, job, app)
		case StatusAccepted:
			return e.dispatch.Accepted(ctx, job, app)
		case StatusRejected:
			return e.dispatch.Rejected(ctx, job, app)
		}
		return nil
	}
	return fmt.Errorf("unknown side-effect step %q", f.Step)
}

// ─── Apply and view tracking ─────────────────────────────────────────────────

// ApplyInput is the payload for creating a new application.
type ApplyInput struct {
	JobID        string
	ApplicantID  string
	ProposedRate *float64
	Currency     string
	CoverLetter  *string
}

// Apply creates a pending application for (job, applicant), bumps the
// job's application counters and notifies the employer. The employer
// notification is non-fatal, matching the side-effect contract.
func (e *Engine) Apply(ctx context.Context, in ApplyInput) (*Application, error) {
	job, err := e.jobs.Get(ctx, in.JobID)
	if err != nil {
		return nil, err
	}

	now := e.now()
	app := &Application{
		JobID:        in.JobID,
		ApplicantID:  in.ApplicantID,
		Status:       StatusPending,
		ProposedRate: in.ProposedRate,
		Currency:     in.Currency,
		CoverLetter:  in.CoverLetter,
		AppliedAt:    now,
	}
	created, err := e.apps.Create(ctx, app)
	if err != nil {
		return nil, err
	}

	if err := e.jobs.RecordApplication(ctx, job.ID); err != nil {
		e.log.Warn("record application counters failed",
			"applicationId", created.ID, "jobId", job.ID, "err", err)
	}
	if err := e.dispatch.StatusChanged(ctx, created); err != nil {
		e.log.Warn("publish status event failed", "applicationId", created.ID, "err", err)
	}
	if err := e.dispatch.ApplicationReceived(ctx, job, created); err != nil {
		e.log.Warn("application-received notification failed",
			"applicationId", created.ID, "err", err)
	}
	return created, nil
}

// RecordView bumps the application's view analytics.
func (e *Engine) RecordView(ctx context.Context, applicationID string) error {
	return e.apps.RecordView(ctx, applicationID)
}

// WithClock overrides the engine's clock. Test hook.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}
