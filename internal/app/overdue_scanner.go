package app

import (
	"context"
	"fmt"
	"time"

	"invoice_reminder_service/internal/domain/invoice"

	"github.com/sirupsen/logrus"
)

// OverdueInvoice is an overdue invoice paired with its customer and the
// number of whole days it is past due.
type OverdueInvoice struct {
	invoice.WithCustomer
	DaysOverdue int
}

// OverdueScanner computes which invoices are overdue for a given moment.
// An invoice is overdue when its status is 'pending' and its due date is
// strictly before today; due today is not overdue.
type OverdueScanner struct {
	invoiceRepo invoice.Repository
	logger      *logrus.Entry
}

func NewOverdueScanner(ir invoice.Repository, logger *logrus.Entry) *OverdueScanner {
	return &OverdueScanner{invoiceRepo: ir, logger: logger}
}

// Scan returns all overdue invoices as of now. The scan is all-or-nothing:
// a store error aborts it and no partial list is returned.
func (s *OverdueScanner) Scan(ctx context.Context, now time.Time) ([]*OverdueInvoice, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	rows, err := s.invoiceRepo.ListPendingDueBefore(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending invoices due before %s: %w", today.Format("2006-01-02"), err)
	}

	overdue := make([]*OverdueInvoice, 0, len(rows))
	for _, row := range rows {
		due := row.Invoice.DueDate
		dueDate := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, today.Location())
		days := int(today.Sub(dueDate).Hours() / 24)
		if days < 1 {
			// The query guarantees due_date < today; anything else here means
			// the store and the clock disagree, so leave the row out.
			s.logger.WithFields(logrus.Fields{
				"invoice_id": row.Invoice.ID,
				"due_date":   due.Format("2006-01-02"),
			}).Warn("Invoice returned by overdue query is not past due; skipping")
			continue
		}
		overdue = append(overdue, &OverdueInvoice{WithCustomer: *row, DaysOverdue: days})
	}

	s.logger.WithField("count", len(overdue)).Debug("Overdue scan complete")
	return overdue, nil
}
