package app

import (
	"context"
	"fmt"
	"testing"
	"time"

	"invoice_reminder_service/internal/domain/invoice"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func dueDaysAgo(now time.Time, days int) time.Time {
	d := now.AddDate(0, 0, -days)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

func TestScan_ComputesWholeDayFloor(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	now := time.Date(2026, time.August, 31, 9, 0, 0, 0, time.UTC)

	rows := []*invoice.WithCustomer{
		{Invoice: invoice.Invoice{ID: 1, Number: "INV-001", DueDate: dueDaysAgo(now, 1), Status: invoice.StatusPending}},
		{Invoice: invoice.Invoice{ID: 2, Number: "INV-002", DueDate: dueDaysAgo(now, 30), Status: invoice.StatusPending}},
	}
	invoiceRepo.On("ListPendingDueBefore", mock.Anything, mock.Anything).Return(rows, nil)

	scanner := NewOverdueScanner(invoiceRepo, testLogger())
	overdue, err := scanner.Scan(context.Background(), now)

	assert.NoError(t, err)
	assert.Len(t, overdue, 2)
	assert.Equal(t, 1, overdue[0].DaysOverdue)
	assert.Equal(t, 30, overdue[1].DaysOverdue)
}

func TestScan_QueriesWithTodayMidnightCutoff(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	now := time.Date(2026, time.August, 31, 17, 45, 12, 0, time.UTC)
	wantCutoff := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)

	invoiceRepo.On("ListPendingDueBefore", mock.Anything, wantCutoff).
		Return([]*invoice.WithCustomer{}, nil)

	scanner := NewOverdueScanner(invoiceRepo, testLogger())
	overdue, err := scanner.Scan(context.Background(), now)

	assert.NoError(t, err)
	assert.Empty(t, overdue)
	invoiceRepo.AssertExpectations(t)
}

func TestScan_SkipsRowsNotStrictlyPastDue(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	now := time.Date(2026, time.August, 31, 9, 0, 0, 0, time.UTC)

	// A store that misbehaves and returns rows due today or later: the
	// scanner must never report a non-positive days-overdue value.
	rows := []*invoice.WithCustomer{
		{Invoice: invoice.Invoice{ID: 1, Number: "INV-001", DueDate: dueDaysAgo(now, 0), Status: invoice.StatusPending}},
		{Invoice: invoice.Invoice{ID: 2, Number: "INV-002", DueDate: dueDaysAgo(now, -3), Status: invoice.StatusPending}},
		{Invoice: invoice.Invoice{ID: 3, Number: "INV-003", DueDate: dueDaysAgo(now, 5), Status: invoice.StatusPending}},
	}
	invoiceRepo.On("ListPendingDueBefore", mock.Anything, mock.Anything).Return(rows, nil)

	scanner := NewOverdueScanner(invoiceRepo, testLogger())
	overdue, err := scanner.Scan(context.Background(), now)

	assert.NoError(t, err)
	assert.Len(t, overdue, 1)
	assert.Equal(t, "INV-003", overdue[0].Invoice.Number)
	assert.Equal(t, 5, overdue[0].DaysOverdue)
}

func TestScan_PropagatesStoreError(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	invoiceRepo.On("ListPendingDueBefore", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("connection refused"))

	scanner := NewOverdueScanner(invoiceRepo, testLogger())
	overdue, err := scanner.Scan(context.Background(), time.Now())

	assert.Error(t, err)
	assert.Nil(t, overdue)
}
