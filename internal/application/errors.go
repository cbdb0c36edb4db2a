package application

import "fmt"

// ─── Sentinel errors ─────────────────────────────────────────────────────────

// ErrNotFound is returned when an application or its job is missing.
var ErrNotFound = fmt.Errorf("application not found")

// ErrForbidden is returned when the actor is not authorized for the
// requested transition.
var ErrForbidden = fmt.Errorf("actor not authorized for this transition")

// ErrInvalidAmount is returned by the ledger for a non-positive payment.
var ErrInvalidAmount = fmt.Errorf("payment amount must be positive")

// ErrConflict is returned when the optimistic version check loses a race
// with a concurrent transition; callers may retry.
var ErrConflict = fmt.Errorf("application was modified concurrently")

// InvalidTransitionError reports a disallowed edge, including the no-op
// case of requesting the current status.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	if e.From == e.To {
		return fmt.Sprintf("application is already %s", e.From)
	}
	return fmt.Sprintf("transition %s → %s is not allowed", e.From, e.To)
}

// ─── Partial failures ────────────────────────────────────────────────────────

// Warning records a side effect that failed after the status write
// committed. The transition itself is reported as a success.
type Warning struct {
	Step string `json:"step"`
	Err  string `json:"error"`
}

func (w Warning) String() string { return fmt.Sprintf("%s: %s", w.Step, w.Err) }

// Side-effect step names, shared by the engine and the replay worker.
const (
	StepNotification = "notification"
	StepLedger       = "ledger"
	StepCounters     = "counters"
	StepStats        = "stats"
)
