package reminder

import "time"

// Rule is an administrator-configured reminder tier: once an invoice is
// overdue by at least ThresholdDays, a reminder for that tier becomes due.
// Corresponds to the 'reminder_rules' table.
type Rule struct {
	ID            int32
	ThresholdDays int // non-negative day offset, e.g. 3, 7, 15
	Enabled       bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
