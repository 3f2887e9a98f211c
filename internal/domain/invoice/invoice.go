package invoice

import (
	"time"

	"invoice_reminder_service/internal/domain/customer"
)

// Status represents the lifecycle state of an invoice.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

// Invoice represents an invoice issued to a customer.
// Rows in the 'invoices' table are created and updated by the dashboard CRUD
// pages; the reminder engine reads them and never changes status.
type Invoice struct {
	ID          int64
	Number      string // human-facing invoice number, e.g. "INV-2026-0042"
	CustomerID  int64
	DueDate     time.Time
	TotalAmount float64
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// WithCustomer pairs an invoice with its customer, as produced by the
// overdue scan query.
type WithCustomer struct {
	Invoice  Invoice
	Customer customer.Customer
}
