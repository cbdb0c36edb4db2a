package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/onyillto/234Hire-Backend/internal/application"
)

// NotificationStore persists notification rows for the gateway to read.
type NotificationStore struct {
	pool *pgxpool.Pool
}

// NewNotificationStore returns a configured NotificationStore.
func NewNotificationStore(pool *pgxpool.Pool) *NotificationStore {
	return &NotificationStore{pool: pool}
}

// Create inserts one notification. Ids are deterministic per
// (type, application, recipient), so a redelivered dispatch that
// already landed is a no-op instead of a duplicate row.
func (s *NotificationStore) Create(ctx context.Context, n *application.Notification) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO notifications
		   (id, recipient_id, sender_id, type, title, message,
		    is_read, related_job_id, related_application_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (id) DO NOTHING`,
		n.ID, n.RecipientID, n.SenderID, n.Type, n.Title, n.Message,
		n.IsRead, n.RelatedJobID, n.RelatedApplicationID, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}
