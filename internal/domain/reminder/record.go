package reminder

import "time"

// Record is a ledger entry marking that a reminder was dispatched for an
// invoice at a given threshold. The (InvoiceID, ThresholdDays) pair is unique
// in the 'invoice_reminders' table, which is what makes dispatch at-most-once
// per tier. Records are insert-only from the engine's point of view.
type Record struct {
	ID            int64
	InvoiceID     int64
	ThresholdDays int
	// MessageSent tracks whether the outbound message actually went out.
	// A false value means the notification exists but delivery is still owed,
	// left for an out-of-band delivery worker to reconcile.
	MessageSent bool
	CreatedAt   time.Time
}
