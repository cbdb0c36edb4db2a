package application_test

import (
	"testing"

	"github.com/onyillto/234Hire-Backend/internal/application"
)

// ── ParseStatus ────────────────────────────────────────────────────────────

func TestParseStatus_ValidValues(t *testing.T) {
	valid := []string{"pending", "reviewed", "accepted", "rejected", "withdrawn"}
	for _, s := range valid {
		got, err := application.ParseStatus(s)
		if err != nil {
			t.Errorf("ParseStatus(%q) returned unexpected error: %v", s, err)
		}
		if string(got) != s {
			t.Errorf("ParseStatus(%q) = %q, want %q", s, got, s)
		}
	}
}

func TestParseStatus_InvalidValue(t *testing.T) {
	for _, s := range []string{"UNKNOWN", "", "Pending", "ACCEPTED", " pending"} {
		if _, err := application.ParseStatus(s); err == nil {
			t.Errorf("ParseStatus(%q) expected error, got nil", s)
		}
	}
}

// ── IsTransitionAllowed — valid edges ──────────────────────────────────────

func TestIsTransitionAllowed_ValidEdges(t *testing.T) {
	cases := []struct {
		from application.Status
		to   application.Status
	}{
		{application.StatusPending, application.StatusReviewed},
		{application.StatusPending, application.StatusAccepted},
		{application.StatusPending, application.StatusRejected},
		{application.StatusPending, application.StatusWithdrawn},
		{application.StatusReviewed, application.StatusAccepted},
		{application.StatusReviewed, application.StatusRejected},
		{application.StatusReviewed, application.StatusWithdrawn},
	}
	for _, c := range cases {
		if !application.IsTransitionAllowed(c.from, c.to) {
			t.Errorf("IsTransitionAllowed(%s → %s) should be true", c.from, c.to)
		}
	}
}

// ── IsTransitionAllowed — pending is never reachable again ─────────────────

func TestIsTransitionAllowed_PendingIsNeverReachable(t *testing.T) {
	sources := []application.Status{
		application.StatusReviewed,
		application.StatusAccepted,
		application.StatusRejected,
		application.StatusWithdrawn,
	}
	for _, from := range sources {
		if application.IsTransitionAllowed(from, application.StatusPending) {
			t.Errorf("IsTransitionAllowed(%s → pending) must be false: pending is only an initial state", from)
		}
	}
}

// ── IsTransitionAllowed — terminal states have no outgoing transitions ─────

func TestIsTransitionAllowed_FromTerminal(t *testing.T) {
	terminals := []application.Status{
		application.StatusAccepted,
		application.StatusRejected,
		application.StatusWithdrawn,
	}
	targets := []application.Status{
		application.StatusPending,
		application.StatusReviewed,
		application.StatusAccepted,
		application.StatusRejected,
		application.StatusWithdrawn,
	}
	for _, from := range terminals {
		for _, to := range targets {
			if application.IsTransitionAllowed(from, to) {
				t.Errorf("IsTransitionAllowed(%s → %s) should be false (terminal state)", from, to)
			}
		}
	}
}

// ── IsTransitionAllowed — self-transitions are forbidden ──────────────────

func TestIsTransitionAllowed_Self(t *testing.T) {
	all := []application.Status{
		application.StatusPending, application.StatusReviewed,
		application.StatusAccepted, application.StatusRejected,
		application.StatusWithdrawn,
	}
	for _, s := range all {
		if application.IsTransitionAllowed(s, s) {
			t.Errorf("IsTransitionAllowed(%s → %s) should be false (self)", s, s)
		}
	}
}

// ── IsTerminal / IsDecision ────────────────────────────────────────────────

func TestIsTerminal(t *testing.T) {
	cases := map[application.Status]bool{
		application.StatusPending:   false,
		application.StatusReviewed:  false,
		application.StatusAccepted:  true,
		application.StatusRejected:  true,
		application.StatusWithdrawn: true,
	}
	for s, want := range cases {
		if got := application.IsTerminal(s); got != want {
			t.Errorf("IsTerminal(%s) = %v, want %v", s, got, want)
		}
	}
}

func TestIsDecision(t *testing.T) {
	if !application.IsDecision(application.StatusAccepted) ||
		!application.IsDecision(application.StatusRejected) {
		t.Error("accepted and rejected are the employer's decisions")
	}
	for _, s := range []application.Status{
		application.StatusPending,
		application.StatusReviewed,
		application.StatusWithdrawn,
	} {
		if application.IsDecision(s) {
			t.Errorf("IsDecision(%s) must be false", s)
		}
	}
}
