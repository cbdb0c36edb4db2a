// Package notify builds notification records for the counterparties of
// an application transition and publishes the matching Redis events for
// gateway SSE forwarding.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/onyillto/234Hire-Backend/internal/application"
)

// EventChannel is the Redis pub/sub channel for status events.
const EventChannel = "EVENT_APPLICATION_STATUS"

// Store is the slice of persistence the dispatcher needs.
type Store interface {
	Create(ctx context.Context, n *application.Notification) error
}

// Dispatcher writes notification rows and publishes status events.
// Notification ids are deterministic per (type, application, recipient)
// and the store insert is conflict-tolerant, so a replayed dispatch
// whose first attempt half-succeeded never duplicates the rows that
// did land.
type Dispatcher struct {
	store Store
	rdb   *redis.Client
}

// NewDispatcher returns a configured Dispatcher. rdb may be nil in
// tests; events are then skipped.
func NewDispatcher(store Store, rdb *redis.Client) *Dispatcher {
	return &Dispatcher{store: store, rdb: rdb}
}

// ApplicationReceived notifies the employer that a specialist applied.
func (d *Dispatcher) ApplicationReceived(ctx context.Context, job *application.Job, app *application.Application) error {
	n := d.build(job, app, job.PostedBy, &app.ApplicantID,
		"application_received",
		"New application",
		fmt.Sprintf("A specialist applied to %q.", job.Title))
	return d.store.Create(ctx, n)
}

// Reviewed notifies the applicant that the employer reviewed their
// application.
func (d *Dispatcher) Reviewed(ctx context.Context, job *application.Job, app *application.Application) error {
	n := d.build(job, app, app.ApplicantID, &job.PostedBy,
		"application_reviewed",
		"Application reviewed",
		fmt.Sprintf("Your application for %q has been reviewed.", job.Title))
	return d.store.Create(ctx, n)
}

// Accepted notifies both counterparties: the specialist that they were
// hired, the employer that the payment was booked. The two writes fan
// out concurrently.
func (d *Dispatcher) Accepted(ctx context.Context, job *application.Job, app *application.Application) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return d.store.Create(gctx, d.build(job, app, app.ApplicantID, &job.PostedBy,
			"application_accepted",
			"You were hired",
			fmt.Sprintf("Congratulations — your application for %q was accepted.", job.Title)))
	})
	g.Go(func() error {
		return d.store.Create(gctx, d.build(job, app, job.PostedBy, nil,
			"hire_confirmed",
			"Hire confirmed",
			fmt.Sprintf("You hired a specialist for %q; the payment has been booked.", job.Title)))
	})
	return g.Wait()
}

// Rejected notifies the applicant of the rejection.
func (d *Dispatcher) Rejected(ctx context.Context, job *application.Job, app *application.Application) error {
	n := d.build(job, app, app.ApplicantID, &job.PostedBy,
		"application_rejected",
		"Application update",
		fmt.Sprintf("Your application for %q was not selected.", job.Title))
	return d.store.Create(ctx, n)
}

func (d *Dispatcher) build(job *application.Job, app *application.Application, recipient string, sender *string, typ, title, message string) *application.Notification {
	return &application.Notification{
		ID:                   notificationID(typ, app.ID, recipient),
		RecipientID:          recipient,
		SenderID:             sender,
		Type:                 typ,
		Title:                title,
		Message:              message,
		RelatedJobID:         &job.ID,
		RelatedApplicationID: &app.ID,
		CreatedAt:            time.Now().UTC(),
	}
}

// notificationID derives a stable UUID from what the notification is
// about, keeping redelivered dispatches idempotent.
func notificationID(typ, applicationID, recipientID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID,
		[]byte("notification:"+typ+":"+applicationID+":"+recipientID)).String()
}

// StatusChanged emits the SSE status event for a committed transition.
// Skipped when no Redis client is wired (tests).
func (d *Dispatcher) StatusChanged(ctx context.Context, app *application.Application) error {
	if d.rdb == nil {
		return nil
	}
	event, _ := json.Marshal(map[string]string{
		"type":          EventChannel,
		"applicationId": app.ID,
		"jobId":         app.JobID,
		"applicantId":   app.ApplicantID,
		"status":        string(app.Status),
	})
	return d.rdb.Publish(ctx, EventChannel, event).Err()
}
