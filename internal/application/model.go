package application

import (
	"encoding/json"
	"time"
)

// Application is a specialist's request to be considered for a Job.
// Status is mutated only through the engine; the descriptive payload
// (proposed rate, portfolio, terms) is written once on apply.
type Application struct {
	ID          string `json:"id"`
	JobID       string `json:"jobId"`
	ApplicantID string `json:"applicantId"`

	Status Status `json:"status"`

	ProposedRate *float64        `json:"proposedRate,omitempty"`
	Currency     string          `json:"currency,omitempty"`
	CoverLetter  *string         `json:"coverLetter,omitempty"`
	Portfolio    json.RawMessage `json:"portfolio,omitempty"`
	Terms        json.RawMessage `json:"terms,omitempty"`

	// Lifecycle timestamps, each set at most once when the status first
	// enters the corresponding state.
	AppliedAt   time.Time  `json:"appliedAt"`
	ReviewedAt  *time.Time `json:"reviewedAt,omitempty"`
	HiredAt     *time.Time `json:"hiredAt,omitempty"`
	RejectedAt  *time.Time `json:"rejectedAt,omitempty"`
	WithdrawnAt *time.Time `json:"withdrawnAt,omitempty"`

	// Analytics, write-once except the view counters.
	TimeToReviewHours   *int       `json:"timeToReviewHours,omitempty"`
	TimeToDecisionHours *int       `json:"timeToDecisionHours,omitempty"`
	ViewCount           int        `json:"viewCount"`
	LastViewedAt        *time.Time `json:"lastViewedAt,omitempty"`

	// Version is the optimistic-concurrency token: every status update is
	// a compare-and-swap on this field.
	Version   int64     `json:"-"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HiringStats are the denormalized hiring counters kept on a Job.
type HiringStats struct {
	TotalApplicationsReceived int     `json:"totalApplicationsReceived"`
	TotalHires                int     `json:"totalHires"`
	TotalRejections           int     `json:"totalRejections"`
	HiringSuccessRate         float64 `json:"hiringSuccessRate"`
	ResponseRate              float64 `json:"responseRate"`
}

// JobStatus values mirror the job_status enum in PostgreSQL.
type JobStatus string

const (
	JobActive    JobStatus = "active"
	JobReviewing JobStatus = "reviewing"
	JobCompleted JobStatus = "completed"
	JobPaused    JobStatus = "paused"
	JobCancelled JobStatus = "cancelled"
)

// Job is the slice of the job aggregate the engine reads and mutates:
// ownership for authorization, salary for the ledger, and the
// denormalized counters.
type Job struct {
	ID                string      `json:"id"`
	PostedBy          string      `json:"postedBy"`
	Title             string      `json:"title"`
	Status            JobStatus   `json:"status"`
	SalaryMax         float64     `json:"salaryMax"`
	Currency          string      `json:"currency"`
	ApplicationsCount int         `json:"applicationsCount"`
	HiringStats       HiringStats `json:"hiringStats"`
}

// EmployerTotals are the per-owner decision totals the stats aggregator
// reloads before recomputing rates.
type EmployerTotals struct {
	TotalApplicationsReceived int
	TotalHires                int
	TotalRejections           int
}

// TransactionStatus values mirror the transaction_status enum.
type TransactionStatus string

const (
	TxPending   TransactionStatus = "pending"
	TxCompleted TransactionStatus = "completed"
	TxFailed    TransactionStatus = "failed"
)

// Transaction is a ledger entry: money owed from employer to specialist
// net of the platform fee. netAmount + platformFee = amount, always.
type Transaction struct {
	ID            string            `json:"id"`
	Type          string            `json:"type"` // always "job_payment" for engine-created entries
	JobID         string            `json:"jobId"`
	ApplicationID string            `json:"applicationId"`
	PayerID       string            `json:"payerId"`
	PayeeID       string            `json:"payeeId"`
	Amount        float64           `json:"amount"`
	PlatformFee   float64           `json:"platformFee"`
	NetAmount     float64           `json:"netAmount"`
	Currency      string            `json:"currency"`
	Status        TransactionStatus `json:"status"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// Notification is a message for one counterparty of a transition.
// Created by the dispatcher, never mutated here (isRead toggling is a
// gateway concern).
type Notification struct {
	ID                   string    `json:"id"`
	RecipientID          string    `json:"recipientId"`
	SenderID             *string   `json:"senderId,omitempty"`
	Type                 string    `json:"type"`
	Title                string    `json:"title"`
	Message              string    `json:"message"`
	IsRead               bool      `json:"isRead"`
	RelatedJobID         *string   `json:"relatedJobId,omitempty"`
	RelatedApplicationID *string   `json:"relatedApplicationId,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
}

// SideEffectFailure is a queued replay record for a side effect that
// failed after the status write committed.
type SideEffectFailure struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"applicationId"`
	Step          string    `json:"step"`
	LastError     string    `json:"lastError"`
	Attempts      int       `json:"attempts"`
	CreatedAt     time.Time `json:"createdAt"`
}
