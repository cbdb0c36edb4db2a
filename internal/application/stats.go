package application

import (
	"context"
	"fmt"
)

// StatsAggregator recomputes an employer's hiring success and response
// rates after each terminal decision.
type StatsAggregator struct {
	jobs  JobStore
	users UserStore
}

// NewStatsAggregator returns a configured StatsAggregator.
func NewStatsAggregator(jobs JobStore, users UserStore) *StatsAggregator {
	return &StatsAggregator{jobs: jobs, users: users}
}

// Recompute reloads the owner's decision totals, recomputes both rates
// and persists them on the employer profile and on the job that
// triggered the decision.
func (a *StatsAggregator) Recompute(ctx context.Context, jobID, ownerID string) error {
	totals, err := a.jobs.OwnerTotals(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("load owner totals: %w", err)
	}
	success, response := Rates(totals)
	if err := a.users.UpdateEmployerRates(ctx, ownerID, success, response); err != nil {
		return fmt.Errorf("update employer rates: %w", err)
	}

	job, err := a.jobs.Get(ctx, jobID)
	if err != nil {
		return fmt.Errorf("load job: %w", err)
	}
	jobSuccess, jobResponse := Rates(EmployerTotals{
		TotalApplicationsReceived: job.HiringStats.TotalApplicationsReceived,
		TotalHires:                job.HiringStats.TotalHires,
		TotalRejections:           job.HiringStats.TotalRejections,
	})
	if err := a.jobs.UpdateRates(ctx, jobID, jobSuccess, jobResponse); err != nil {
		return fmt.Errorf("update job rates: %w", err)
	}
	return nil
}

// Rates computes (hiringSuccessRate, responseRate) as percentages
// rounded to two decimal places. Zero denominators yield 0.
func Rates(t EmployerTotals) (successRate, responseRate float64) {
	decisions := t.TotalHires + t.TotalRejections
	if decisions > 0 {
		successRate = round2(float64(t.TotalHires) / float64(decisions) * 100)
	}
	if t.TotalApplicationsReceived > 0 {
		responseRate = round2(float64(decisions) / float64(t.TotalApplicationsReceived) * 100)
	}
	return successRate, responseRate
}
