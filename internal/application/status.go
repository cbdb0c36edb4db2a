// Package application defines the status state machine for job
// applications and the engine that drives it.
//
// Valid status graph:
//
//	pending ──► reviewed ──► accepted
//	    │            │   └──► rejected
//	    │            └──────► withdrawn
//	    └──► accepted / rejected / withdrawn
//
// accepted, rejected and withdrawn are terminal states. pending is the
// only initial state and is never reachable again once left.
package application

import "fmt"

// Status values mirror the application_status enum in PostgreSQL.
type Status string

const (
	StatusPending   Status = "pending"
	StatusReviewed  Status = "reviewed"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusWithdrawn Status = "withdrawn"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[Status][]Status{
	StatusPending:  {StatusReviewed, StatusAccepted, StatusRejected, StatusWithdrawn},
	StatusReviewed: {StatusAccepted, StatusRejected, StatusWithdrawn},
	// accepted, rejected and withdrawn are terminal — no outgoing transitions
}

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusPending, StatusReviewed, StatusAccepted, StatusRejected, StatusWithdrawn:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// IsTransitionAllowed returns true when moving from → to is permitted by
// the state machine. Self-transitions are never allowed; the engine
// rejects them before consulting the matrix so retried requests fail
// loudly instead of double-firing side effects.
func IsTransitionAllowed(from, to Status) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false // terminal state — no outgoing transitions
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal returns true when no transition may leave the given status.
func IsTerminal(s Status) bool {
	_, ok := validTransitions[s]
	return !ok
}

// IsDecision returns true for the employer's terminal decisions, the two
// statuses that feed hiring statistics.
func IsDecision(s Status) bool {
	return s == StatusAccepted || s == StatusRejected
}
