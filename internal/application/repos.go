package application

import "context"

// Typed repository interfaces the engine receives at construction time.
// Postgres implementations live in internal/store; tests use in-memory
// fakes.

// ApplicationStore persists Application entities. Implementations must
// enforce uniqueness of (job, applicant).
type ApplicationStore interface {
	Get(ctx context.Context, id string) (*Application, error)
	// Create inserts a new pending application. ErrConflict when the
	// (job, applicant) pair already exists.
	Create(ctx context.Context, app *Application) (*Application, error)
	// UpdateStatus persists the status, timestamps and analytics fields
	// of app as a compare-and-swap on fromVersion. ErrConflict when the
	// row moved on under us.
	UpdateStatus(ctx context.Context, app *Application, fromVersion int64) error
	// RecordView atomically bumps viewCount and stamps lastViewedAt.
	RecordView(ctx context.Context, id string) error
}

// JobStore persists the Job aggregate. Counter mutations are atomic SQL
// increments, never read-modify-write in application code.
type JobStore interface {
	Get(ctx context.Context, id string) (*Job, error)
	// RecordApplication bumps applicationsCount and totalApplicationsReceived.
	RecordApplication(ctx context.Context, jobID string) error
	// RecordHire marks the job completed and bumps totalHires.
	RecordHire(ctx context.Context, jobID string) error
	// RecordRejection bumps totalRejections.
	RecordRejection(ctx context.Context, jobID string) error
	// UpdateRates persists the recomputed success/response rates.
	UpdateRates(ctx context.Context, jobID string, successRate, responseRate float64) error
	// OwnerTotals sums decision totals across every job of one owner.
	OwnerTotals(ctx context.Context, ownerID string) (EmployerTotals, error)
}

// UserStore mutates the denormalized per-user counters.
type UserStore interface {
	IncrementEmployerHires(ctx context.Context, userID string) error
	IncrementEmployerRejections(ctx context.Context, userID string) error
	UpdateEmployerRates(ctx context.Context, userID string, successRate, responseRate float64) error
	// RecordEarnings adds a completed payment to the specialist's
	// financial stats.
	RecordEarnings(ctx context.Context, userID string, netAmount float64) error
}

// TransactionStore persists ledger entries.
type TransactionStore interface {
	Create(ctx context.Context, tx *Transaction) error
	// HasPayment reports whether a non-failed job_payment already exists
	// for (job, payee) — the once-only guard for retried transitions.
	HasPayment(ctx context.Context, jobID, payeeID string) (bool, error)
}

// FailureStore queues side-effect failures for out-of-band redelivery.
type FailureStore interface {
	Record(ctx context.Context, f *SideEffectFailure) error
	List(ctx context.Context, limit int) ([]SideEffectFailure, error)
	Resolve(ctx context.Context, id string) error
	Bump(ctx context.Context, id string, lastError string) error
}

// Dispatcher produces notifications for the counterparties of a
// transition. Calls are fire-and-forget from the engine's point of
// view: an error becomes a Warning, never a failed transition.
type Dispatcher interface {
	ApplicationReceived(ctx context.Context, job *Job, app *Application) error
	Reviewed(ctx context.Context, job *Job, app *Application) error
	Accepted(ctx context.Context, job *Job, app *Application) error
	Rejected(ctx context.Context, job *Job, app *Application) error
	// StatusChanged emits the gateway SSE event for a committed status
	// write. Fired by the engine on every transition, independent of
	// whether any notification row is written.
	StatusChanged(ctx context.Context, app *Application) error
}
