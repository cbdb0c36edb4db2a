// Package store implements the repository interfaces from
// internal/application on PostgreSQL via pgx.
//
// Tables: applications (unique (job_id, applicant_id), version column
// for optimistic locking), jobs, users, transactions (unique partial
// index on (job_id, payee_id) WHERE status <> 'failed'), notifications,
// side_effect_failures.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/onyillto/234Hire-Backend/internal/application"
)

const applicationColumns = `
	id, job_id, applicant_id, status, proposed_rate, currency, cover_letter,
	portfolio, terms, applied_at, reviewed_at, hired_at, rejected_at,
	withdrawn_at, time_to_review_hours, time_to_decision_hours,
	view_count, last_viewed_at, version, updated_at`

// ApplicationStore persists applications.
type ApplicationStore struct {
	pool *pgxpool.Pool
}

// NewApplicationStore returns a configured ApplicationStore.
func NewApplicationStore(pool *pgxpool.Pool) *ApplicationStore {
	return &ApplicationStore{pool: pool}
}

func scanApplication(row pgx.Row) (*application.Application, error) {
	var a application.Application
	err := row.Scan(
		&a.ID, &a.JobID, &a.ApplicantID, &a.Status, &a.ProposedRate,
		&a.Currency, &a.CoverLetter, &a.Portfolio, &a.Terms,
		&a.AppliedAt, &a.ReviewedAt, &a.HiredAt, &a.RejectedAt,
		&a.WithdrawnAt, &a.TimeToReviewHours, &a.TimeToDecisionHours,
		&a.ViewCount, &a.LastViewedAt, &a.Version, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Get loads one application by id.
func (s *ApplicationStore) Get(ctx context.Context, id string) (*application.Application, error) {
	app, err := scanApplication(s.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, application.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}
	return app, nil
}

// Create inserts a new pending application. The unique index on
// (job_id, applicant_id) turns a duplicate apply into ErrConflict.
func (s *ApplicationStore) Create(ctx context.Context, app *application.Application) (*application.Application, error) {
	created, err := scanApplication(s.pool.QueryRow(ctx,
		`INSERT INTO applications
		   (job_id, applicant_id, status, proposed_rate, currency,
		    cover_letter, applied_at)
		 VALUES ($1, $2, $3::application_status, $4, $5, $6, $7)
		 ON CONFLICT (job_id, applicant_id) DO NOTHING
		 RETURNING `+applicationColumns,
		app.JobID, app.ApplicantID, string(app.Status),
		app.ProposedRate, app.Currency, app.CoverLetter, app.AppliedAt,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, application.ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}
	return created, nil
}

// UpdateStatus is the compare-and-swap status write: it only lands when
// the row still carries fromVersion, so two concurrent transitions on
// the same application cannot both commit.
func (s *ApplicationStore) UpdateStatus(ctx context.Context, app *application.Application, fromVersion int64) error {
	updated, err := scanApplication(s.pool.QueryRow(ctx,
		`UPDATE applications
		 SET status                 = $1::application_status,
		     reviewed_at            = $2,
		     hired_at               = $3,
		     rejected_at            = $4,
		     withdrawn_at           = $5,
		     time_to_review_hours   = $6,
		     time_to_decision_hours = $7,
		     version                = version + 1,
		     updated_at             = NOW()
		 WHERE id = $8 AND version = $9
		 RETURNING `+applicationColumns,
		string(app.Status), app.ReviewedAt, app.HiredAt, app.RejectedAt,
		app.WithdrawnAt, app.TimeToReviewHours, app.TimeToDecisionHours,
		app.ID, fromVersion,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return application.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	*app = *updated
	return nil
}

// RecordView atomically bumps the view counter.
func (s *ApplicationStore) RecordView(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE applications
		 SET view_count     = view_count + 1,
		     last_viewed_at = NOW()
		 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("record view: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return application.ErrNotFound
	}
	return nil
}

// ListByJob returns a job's applications, newest first.
func (s *ApplicationStore) ListByJob(ctx context.Context, jobID string) ([]application.Application, error) {
	return s.list(ctx,
		`SELECT `+applicationColumns+` FROM applications
		 WHERE job_id = $1 ORDER BY applied_at DESC`, jobID)
}

// ListByApplicant returns a specialist's applications, newest first.
func (s *ApplicationStore) ListByApplicant(ctx context.Context, applicantID string) ([]application.Application, error) {
	return s.list(ctx,
		`SELECT `+applicationColumns+` FROM applications
		 WHERE applicant_id = $1 ORDER BY applied_at DESC`, applicantID)
}

func (s *ApplicationStore) list(ctx context.Context, query, arg string) ([]application.Application, error) {
	rows, err := s.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list applications query: %w", err)
	}
	defer rows.Close()

	apps := make([]application.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("list applications scan: %w", err)
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}
