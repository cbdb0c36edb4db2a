package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/onyillto/234Hire-Backend/internal/application"
)

// FailureStore queues side-effect failures for the redelivery worker.
type FailureStore struct {
	pool *pgxpool.Pool
}

// NewFailureStore returns a configured FailureStore.
func NewFailureStore(pool *pgxpool.Pool) *FailureStore {
	return &FailureStore{pool: pool}
}

// Record inserts one failure record, assigning an id when missing.
func (s *FailureStore) Record(ctx context.Context, f *application.SideEffectFailure) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO side_effect_failures
		   (id, application_id, step, last_error, attempts, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		f.ID, f.ApplicationID, f.Step, f.LastError, f.Attempts, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("record side-effect failure: %w", err)
	}
	return nil
}

// List returns up to limit pending failures, oldest first.
func (s *FailureStore) List(ctx context.Context, limit int) ([]application.SideEffectFailure, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, application_id, step, last_error, attempts, created_at
		 FROM side_effect_failures
		 ORDER BY created_at ASC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list side-effect failures: %w", err)
	}
	defer rows.Close()

	failures := make([]application.SideEffectFailure, 0)
	for rows.Next() {
		var f application.SideEffectFailure
		if err := rows.Scan(&f.ID, &f.ApplicationID, &f.Step,
			&f.LastError, &f.Attempts, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan side-effect failure: %w", err)
		}
		failures = append(failures, f)
	}
	return failures, rows.Err()
}

// Resolve removes a failure after a successful replay.
func (s *FailureStore) Resolve(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM side_effect_failures WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("resolve side-effect failure: %w", err)
	}
	return nil
}

// Bump increments the attempt counter after a failed replay.
func (s *FailureStore) Bump(ctx context.Context, id, lastError string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE side_effect_failures
		 SET attempts = attempts + 1, last_error = $1
		 WHERE id = $2`, lastError, id)
	if err != nil {
		return fmt.Errorf("bump side-effect failure: %w", err)
	}
	return nil
}
