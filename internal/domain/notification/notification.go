package notification

import (
	"database/sql"
	"time"
)

// Type categorizes a notification for the dashboard UI.
type Type string

const (
	TypeInvoiceOverdue Type = "INVOICE_OVERDUE"
	TypeSystem         Type = "SYSTEM"
)

// Notification is a user-visible entry in the dashboard notification feed.
// Corresponds to the 'notifications' table. The reminder engine creates them;
// the UI marks them read.
type Notification struct {
	ID int64
	// RecipientID is the target user; NULL means visible to all admins.
	RecipientID      sql.NullInt64
	Title            string
	Message          string
	Type             Type
	RelatedInvoiceID sql.NullInt64
	IsRead           bool
	CreatedAt        time.Time
}
