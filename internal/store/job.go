package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/onyillto/234Hire-Backend/internal/application"
)

// JobStore persists the job aggregate. Every counter mutation is a
// single atomic UPDATE so concurrent transitions across different
// applications of the same job never lose increments.
type JobStore struct {
	pool *pgxpool.Pool
}

// NewJobStore returns a configured JobStore.
func NewJobStore(pool *pgxpool.Pool) *JobStore {
	return &JobStore{pool: pool}
}

// Get loads the engine's slice of a job.
func (s *JobStore) Get(ctx context.Context, id string) (*application.Job, error) {
	var j application.Job
	err := s.pool.QueryRow(ctx,
		`SELECT id, posted_by, title, status, salary_max, currency,
		        applications_count, total_applications_received,
		        total_hires, total_rejections,
		        hiring_success_rate, response_rate
		 FROM jobs WHERE id = $1`, id,
	).Scan(
		&j.ID, &j.PostedBy, &j.Title, &j.Status, &j.SalaryMax, &j.Currency,
		&j.ApplicationsCount, &j.HiringStats.TotalApplicationsReceived,
		&j.HiringStats.TotalHires, &j.HiringStats.TotalRejections,
		&j.HiringStats.HiringSuccessRate, &j.HiringStats.ResponseRate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, application.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return &j, nil
}

// RecordApplication bumps both application counters on apply.
func (s *JobStore) RecordApplication(ctx context.Context, jobID string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE jobs
		 SET applications_count          = applications_count + 1,
		     total_applications_received = total_applications_received + 1,
		     updated_at                  = NOW()
		 WHERE id = $1`, jobID)
	if err != nil {
		return fmt.Errorf("record application: %w", err)
	}
	return nil
}

// RecordHire marks the job completed and bumps its hire counter.
func (s *JobStore) RecordHire(ctx context.Context, jobID string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE jobs
		 SET status      = 'completed'::job_status,
		     total_hires = total_hires + 1,
		     updated_at  = NOW()
		 WHERE id = $1`, jobID)
	if err != nil {
		return fmt.Errorf("record hire: %w", err)
	}
	return nil
}

// RecordRejection bumps the job's rejection counter.
func (s *JobStore) RecordRejection(ctx context.Context, jobID string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE jobs
		 SET total_rejections = total_rejections + 1,
		     updated_at       = NOW()
		 WHERE id = $1`, jobID)
	if err != nil {
		return fmt.Errorf("record rejection: %w", err)
	}
	return nil
}

// UpdateRates persists recomputed success/response rates on one job.
func (s *JobStore) UpdateRates(ctx context.Context, jobID string, successRate, responseRate float64) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE jobs
		 SET hiring_success_rate = $1,
		     response_rate       = $2,
		     updated_at          = NOW()
		 WHERE id = $3`, successRate, responseRate, jobID)
	if err != nil {
		return fmt.Errorf("update job rates: %w", err)
	}
	return nil
}

// OwnerTotals sums decision totals across all jobs of one owner.
func (s *JobStore) OwnerTotals(ctx context.Context, ownerID string) (application.EmployerTotals, error) {
	var t application.EmployerTotals
	err := s.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(total_applications_received), 0),
		        COALESCE(SUM(total_hires), 0),
		        COALESCE(SUM(total_rejections), 0)
		 FROM jobs WHERE posted_by = $1`, ownerID,
	).Scan(&t.TotalApplicationsReceived, &t.TotalHires, &t.TotalRejections)
	if err != nil {
		return t, fmt.Errorf("owner totals: %w", err)
	}
	return t, nil
}
