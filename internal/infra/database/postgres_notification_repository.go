package database

import (
	"context"
	"database/sql"
	"fmt"

	"invoice_reminder_service/internal/domain/notification"
)

// Custom errors
var ErrNotificationNotFound = fmt.Errorf("notification not found")

type PostgresNotificationRepository struct {
	db *sql.DB
}

func NewPostgresNotificationRepository(db *sql.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	query := `INSERT INTO notifications (recipient_id, title, message, type, related_invoice_id, is_read)
               VALUES ($1, $2, $3, $4, $5, FALSE)
               RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, n.RecipientID, n.Title, n.Message, n.Type, n.RelatedInvoiceID).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating notification: %w", err)
	}
	return nil
}

// ListForRecipient returns notifications addressed to the given user plus
// broadcast entries (NULL recipient means all admins), newest first.
func (r *PostgresNotificationRepository) ListForRecipient(ctx context.Context, recipientID int64, limit int) ([]*notification.Notification, error) {
	query := `SELECT id, recipient_id, title, message, type, related_invoice_id, is_read, created_at
               FROM notifications
               WHERE recipient_id = $1 OR recipient_id IS NULL
               ORDER BY created_at DESC
               LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, recipientID, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing notifications for recipient: %w", err)
	}
	defer rows.Close()

	notifications := make([]*notification.Notification, 0)
	for rows.Next() {
		n := &notification.Notification{}
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Title, &n.Message, &n.Type, &n.RelatedInvoiceID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning notification row: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification rows: %w", err)
	}
	return notifications, nil
}

func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error marking notification read: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking marked notification rows: %w", err)
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
