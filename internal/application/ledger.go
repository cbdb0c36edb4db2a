package application

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// DefaultPlatformFeePct is the platform's cut of a job payment.
const DefaultPlatformFeePct = 10.0

// JobPayment describes one employer → specialist payment.
type JobPayment struct {
	JobID         string
	ApplicationID string
	PayerID       string
	PayeeID       string
	Amount        float64
	Currency      string
}

// Ledger creates financial transactions for hires.
type Ledger struct {
	txs    TransactionStore
	users  UserStore
	feePct float64
}

// NewLedger returns a Ledger charging feePct percent per payment.
// feePct ≤ 0 falls back to DefaultPlatformFeePct.
func NewLedger(txs TransactionStore, users UserStore, feePct float64) *Ledger {
	if feePct <= 0 {
		feePct = DefaultPlatformFeePct
	}
	return &Ledger{txs: txs, users: users, feePct: feePct}
}

// CreateJobPayment books one completed job_payment transaction and
// credits the payee's financial stats. The caller is responsible for
// the once-only guard (HasPayment); the unique partial index on
// (job_id, payee_id) backstops it.
func (l *Ledger) CreateJobPayment(ctx context.Context, p JobPayment) (*Transaction, error) {
	if p.Amount <= 0 {
		return nil, fmt.Errorf("%w: got %.2f", ErrInvalidAmount, p.Amount)
	}

	fee := round2(p.Amount * l.feePct / 100)
	tx := &Transaction{
		ID:            uuid.NewString(),
		Type:          "job_payment",
		JobID:         p.JobID,
		ApplicationID: p.ApplicationID,
		PayerID:       p.PayerID,
		PayeeID:       p.PayeeID,
		Amount:        round2(p.Amount),
		PlatformFee:   fee,
		NetAmount:     round2(p.Amount - fee),
		Currency:      p.Currency,
		Status:        TxCompleted,
		CreatedAt:     time.Now().UTC(),
	}

	if err := l.txs.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	if err := l.users.RecordEarnings(ctx, p.PayeeID, tx.NetAmount); err != nil {
		return nil, fmt.Errorf("record payee earnings: %w", err)
	}
	return tx, nil
}

// round2 rounds at the monetary boundary: two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
