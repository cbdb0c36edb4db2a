package application_test

// In-memory fakes for the repository interfaces. The engine is wired
// against these so every transition scenario runs without PostgreSQL.

import (
	"context"
	"fmt"
	"sync"

	"github.com/onyillto/234Hire-Backend/internal/application"
)

// ── ApplicationStore ───────────────────────────────────────────────────────

type fakeApps struct {
	mu            sync.Mutex
	byID          map[string]*application.Application
	nextID        int
	forceConflict bool
	views         map[string]int
}

func newFakeApps() *fakeApps {
	return &fakeApps{
		byID:  make(map[string]*application.Application),
		views: make(map[string]int),
	}
}

func (s *fakeApps) put(app *application.Application) {
	cp := *app
	s.byID[app.ID] = &cp
}

func (s *fakeApps) Get(ctx context.Context, id string) (*application.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.byID[id]
	if !ok {
		return nil, application.ErrNotFound
	}
	cp := *app
	return &cp, nil
}

func (s *fakeApps) Create(ctx context.Context, app *application.Application) (*application.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.JobID == app.JobID && existing.ApplicantID == app.ApplicantID {
			return nil, application.ErrConflict
		}
	}
	s.nextID++
	cp := *app
	cp.ID = fmt.Sprintf("app-%d", s.nextID)
	cp.Version = 1
	s.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (s *fakeApps) UpdateStatus(ctx context.Context, app *application.Application, fromVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.forceConflict {
		return application.ErrConflict
	}
	stored, ok := s.byID[app.ID]
	if !ok || stored.Version != fromVersion {
		return application.ErrConflict
	}
	cp := *app
	cp.Version = fromVersion + 1
	s.byID[app.ID] = &cp
	*app = cp
	return nil
}

func (s *fakeApps) RecordView(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return application.ErrNotFound
	}
	s.views[id]++
	return nil
}

// ── JobStore ───────────────────────────────────────────────────────────────

type fakeJobs struct {
	byID    map[string]*application.Job
	hireErr error
}

func newFakeJobs() *fakeJobs {
	return &fakeJobs{byID: make(map[string]*application.Job)}
}

func (s *fakeJobs) Get(ctx context.Context, id string) (*application.Job, error) {
	job, ok := s.byID[id]
	if !ok {
		return nil, application.ErrNotFound
	}
	cp := *job
	return &cp, nil
}

func (s *fakeJobs) RecordApplication(ctx context.Context, jobID string) error {
	job := s.byID[jobID]
	job.ApplicationsCount++
	job.HiringStats.TotalApplicationsReceived++
	return nil
}

func (s *fakeJobs) RecordHire(ctx context.Context, jobID string) error {
	if s.hireErr != nil {
		return s.hireErr
	}
	job := s.byID[jobID]
	job.Status = application.JobCompleted
	job.HiringStats.TotalHires++
	return nil
}

func (s *fakeJobs) RecordRejection(ctx context.Context, jobID string) error {
	s.byID[jobID].HiringStats.TotalRejections++
	return nil
}

func (s *fakeJobs) UpdateRates(ctx context.Context, jobID string, successRate, responseRate float64) error {
	job := s.byID[jobID]
	job.HiringStats.HiringSuccessRate = successRate
	job.HiringStats.ResponseRate = responseRate
	return nil
}

func (s *fakeJobs) OwnerTotals(ctx context.Context, ownerID string) (application.EmployerTotals, error) {
	var t application.EmployerTotals
	for _, job := range s.byID {
		if job.PostedBy != ownerID {
			continue
		}
		t.TotalApplicationsReceived += job.HiringStats.TotalApplicationsReceived
		t.TotalHires += job.HiringStats.TotalHires
		t.TotalRejections += job.HiringStats.TotalRejections
	}
	return t, nil
}

// ── UserStore ──────────────────────────────────────────────────────────────

type fakeUsers struct {
	hires      map[string]int
	rejections map[string]int
	earned     map[string]float64
	payments   map[string]int
	rates      map[string][2]float64
	earnErr    error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		hires:      make(map[string]int),
		rejections: make(map[string]int),
		earned:     make(map[string]float64),
		payments:   make(map[string]int),
		rates:      make(map[string][2]float64),
	}
}

func (s *fakeUsers) IncrementEmployerHires(ctx context.Context, userID string) error {
	s.hires[userID]++
	return nil
}

func (s *fakeUsers) IncrementEmployerRejections(ctx context.Context, userID string) error {
	s.rejections[userID]++
	return nil
}

func (s *fakeUsers) UpdateEmployerRates(ctx context.Context, userID string, successRate, responseRate float64) error {
	s.rates[userID] = [2]float64{successRate, responseRate}
	return nil
}

func (s *fakeUsers) RecordEarnings(ctx context.Context, userID string, netAmount float64) error {
	if s.earnErr != nil {
		return s.earnErr
	}
	s.earned[userID] += netAmount
	s.payments[userID]++
	return nil
}

// ── TransactionStore ───────────────────────────────────────────────────────

type fakeTxs struct {
	created   []*application.Transaction
	createErr error
}

func (s *fakeTxs) Create(ctx context.Context, tx *application.Transaction) error {
	if s.createErr != nil {
		return s.createErr
	}
	cp := *tx
	s.created = append(s.created, &cp)
	return nil
}

func (s *fakeTxs) HasPayment(ctx context.Context, jobID, payeeID string) (bool, error) {
	for _, tx := range s.created {
		if tx.JobID == jobID && tx.PayeeID == payeeID &&
			tx.Type == "job_payment" && tx.Status != application.TxFailed {
			return true, nil
		}
	}
	return false, nil
}

// ── FailureStore ───────────────────────────────────────────────────────────

type fakeFailures struct {
	recs   []application.SideEffectFailure
	nextID int
}

func (s *fakeFailures) Record(ctx context.Context, f *application.SideEffectFailure) error {
	s.nextID++
	if f.ID == "" {
		f.ID = fmt.Sprintf("fail-%d", s.nextID)
	}
	s.recs = append(s.recs, *f)
	return nil
}

func (s *fakeFailures) List(ctx context.Context, limit int) ([]application.SideEffectFailure, error) {
	if len(s.recs) > limit {
		return append([]application.SideEffectFailure(nil), s.recs[:limit]...), nil
	}
	return append([]application.SideEffectFailure(nil), s.recs...), nil
}

func (s *fakeFailures) Resolve(ctx context.Context, id string) error {
	kept := s.recs[:0]
	for _, f := range s.recs {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	s.recs = kept
	return nil
}

func (s *fakeFailures) Bump(ctx context.Context, id, lastError string) error {
	for i := range s.recs {
		if s.recs[i].ID == id {
			s.recs[i].Attempts++
			s.recs[i].LastError = lastError
		}
	}
	return nil
}

// ── Dispatcher ─────────────────────────────────────────────────────────────

type fakeDispatcher struct {
	counts map[string]int
	errs   map[string]error
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{counts: make(map[string]int), errs: make(map[string]error)}
}

func (d *fakeDispatcher) send(kind string) error {
	if err := d.errs[kind]; err != nil {
		return err
	}
	d.counts[kind]++
	return nil
}

func (d *fakeDispatcher) ApplicationReceived(ctx context.Context, job *application.Job, app *application.Application) error {
	return d.send("received")
}

func (d *fakeDispatcher) Reviewed(ctx context.Context, job *application.Job, app *application.Application) error {
	return d.send("reviewed")
}

func (d *fakeDispatcher) Accepted(ctx context.Context, job *application.Job, app *application.Application) error {
	return d.send("accepted")
}

func (d *fakeDispatcher) Rejected(ctx context.Context, job *application.Job, app *application.Application) error {
	return d.send("rejected")
}

func (d *fakeDispatcher) StatusChanged(ctx context.Context, app *application.Application) error {
	return d.send("event")
}
