package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/onyillto/234Hire-Backend/internal/application"
)

// TransactionStore persists ledger entries. The unique partial index
//
//	CREATE UNIQUE INDEX ON transactions (job_id, payee_id)
//	WHERE status <> 'failed'
//
// backstops the engine's once-only guard against races.
type TransactionStore struct {
	pool *pgxpool.Pool
}

// NewTransactionStore returns a configured TransactionStore.
func NewTransactionStore(pool *pgxpool.Pool) *TransactionStore {
	return &TransactionStore{pool: pool}
}

// Create inserts one ledger entry.
func (s *TransactionStore) Create(ctx context.Context, tx *application.Transaction) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO transactions
		   (id, type, job_id, application_id, payer_id, payee_id,
		    amount, platform_fee, net_amount, currency, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::transaction_status, $12)`,
		tx.ID, tx.Type, tx.JobID, tx.ApplicationID, tx.PayerID, tx.PayeeID,
		tx.Amount, tx.PlatformFee, tx.NetAmount, tx.Currency,
		string(tx.Status), tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

// HasPayment reports whether a non-failed job_payment already exists
// for (job, payee).
func (s *TransactionStore) HasPayment(ctx context.Context, jobID, payeeID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM transactions
		   WHERE job_id = $1 AND payee_id = $2
		     AND type = 'job_payment' AND status <> 'failed'
		 )`, jobID, payeeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("payment exists query: %w", err)
	}
	return exists, nil
}
