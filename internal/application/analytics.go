package application

import "time"

// HoursBetween returns the whole hours elapsed from start to end,
// rounded down. Negative spans clamp to zero so a skewed clock never
// produces a negative metric.
func HoursBetween(start, end time.Time) int {
	h := int(end.Sub(start).Hours())
	if h < 0 {
		return 0
	}
	return h
}

// applyAnalytics stamps the elapsed-time metrics for a status change.
// Both fields are write-once: a re-entrant call never overwrites a
// value recorded earlier.
func applyAnalytics(app *Application, to Status, now time.Time) {
	switch {
	case to == StatusReviewed:
		if app.TimeToReviewHours == nil {
			h := HoursBetween(app.AppliedAt, now)
			app.TimeToReviewHours = &h
		}
	case IsDecision(to):
		if app.TimeToDecisionHours == nil {
			h := HoursBetween(app.AppliedAt, now)
			app.TimeToDecisionHours = &h
		}
	}
}

// applyTimestamp stamps the status-specific timestamp, write-once.
func applyTimestamp(app *Application, to Status, now time.Time) {
	set := func(t **time.Time) {
		if *t == nil {
			ts := now
			*t = &ts
		}
	}
	switch to {
	case StatusReviewed:
		set(&app.ReviewedAt)
	case StatusAccepted:
		set(&app.HiredAt)
	case StatusRejected:
		set(&app.RejectedAt)
	case StatusWithdrawn:
		set(&app.WithdrawnAt)
	}
}
