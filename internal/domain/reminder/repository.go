package reminder

import "context"

// RuleRepository defines persistence operations for reminder rules.
// Rules are administrator-managed and read-only to the dispatcher.
type RuleRepository interface {
	Create(ctx context.Context, rule *Rule) error
	GetByID(ctx context.Context, id int32) (*Rule, error)
	Update(ctx context.Context, rule *Rule) error
	Delete(ctx context.Context, id int32) error
	// ListEnabled returns enabled rules ordered by ascending threshold.
	ListEnabled(ctx context.Context) ([]*Rule, error)
	ListAll(ctx context.Context) ([]*Rule, error)
}

// LedgerRepository defines access to the reminder dedup ledger.
type LedgerRepository interface {
	// Exists reports whether a reminder was already dispatched for the
	// (invoiceID, thresholdDays) pair.
	Exists(ctx context.Context, invoiceID int64, thresholdDays int) (bool, error)
	// Insert claims the (invoiceID, thresholdDays) pair. Returns
	// ErrDuplicateReminder from the infra layer when the pair is already
	// claimed (unique constraint).
	Insert(ctx context.Context, record *Record) error
	ListByInvoice(ctx context.Context, invoiceID int64) ([]*Record, error)
}
