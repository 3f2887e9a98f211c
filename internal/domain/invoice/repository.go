package invoice

import (
	"context"
	"time"
)

// Repository defines the read operations the reminder engine needs from the
// invoice store. Invoice mutation lives with the dashboard CRUD layer.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Invoice, error)
	// ListPendingDueBefore returns every invoice with status 'pending' whose
	// due date is strictly before the given date, joined with its customer.
	ListPendingDueBefore(ctx context.Context, date time.Time) ([]*WithCustomer, error)
}
