package notification

import "context"

// Repository defines operations on the notification sink.
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	// ListForRecipient returns notifications visible to the given user,
	// including broadcast (NULL recipient) entries, newest first.
	ListForRecipient(ctx context.Context, recipientID int64, limit int) ([]*Notification, error)
	MarkRead(ctx context.Context, id int64) error
}
