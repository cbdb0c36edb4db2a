package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UserStore mutates the denormalized per-user counters: the employer's
// hire/rejection tallies and the specialist's financial stats.
type UserStore struct {
	pool *pgxpool.Pool
}

// NewUserStore returns a configured UserStore.
func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

// IncrementEmployerHires bumps the employer's hire counter.
func (s *UserStore) IncrementEmployerHires(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE users
		 SET employer_hires_count = employer_hires_count + 1,
		     updated_at           = NOW()
		 WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("increment employer hires: %w", err)
	}
	return nil
}

// IncrementEmployerRejections bumps the employer's rejection counter.
func (s *UserStore) IncrementEmployerRejections(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE users
		 SET employer_rejections_count = employer_rejections_count + 1,
		     updated_at                = NOW()
		 WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("increment employer rejections: %w", err)
	}
	return nil
}

// UpdateEmployerRates persists the recomputed hiring rates.
func (s *UserStore) UpdateEmployerRates(ctx context.Context, userID string, successRate, responseRate float64) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE users
		 SET employer_success_rate  = $1,
		     employer_response_rate = $2,
		     updated_at             = NOW()
		 WHERE id = $3`, successRate, responseRate, userID)
	if err != nil {
		return fmt.Errorf("update employer rates: %w", err)
	}
	return nil
}

// RecordEarnings adds one completed payment to the specialist's
// financial stats.
func (s *UserStore) RecordEarnings(ctx context.Context, userID string, netAmount float64) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE users
		 SET specialist_total_earned   = specialist_total_earned + $1,
		     specialist_payments_count = specialist_payments_count + 1,
		     updated_at                = NOW()
		 WHERE id = $2`, netAmount, userID)
	if err != nil {
		return fmt.Errorf("record earnings: %w", err)
	}
	return nil
}
