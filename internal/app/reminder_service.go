package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"invoice_reminder_service/internal/domain/delivery"
	"invoice_reminder_service/internal/domain/notification"
	"invoice_reminder_service/internal/domain/reminder"
	idb "invoice_reminder_service/internal/infra/database"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

var (
	reminderRunsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reminder",
			Name:      "runs_total",
			Help:      "Total number of reminder runs by outcome.",
		},
		[]string{"outcome"}, // completed, failed, rejected
	)
	remindersSentCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reminder",
			Name:      "reminders_sent_total",
			Help:      "Total number of overdue reminders dispatched.",
		},
	)
	pairErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reminder",
			Name:      "pair_errors_total",
			Help:      "Total number of per-(invoice, threshold) dispatch failures.",
		},
	)
)

// ErrRunInProgress is returned when a reminder run is requested while another
// one is still active. Triggers are rejected rather than queued; the next
// scheduled run is the natural retry.
var ErrRunInProgress = fmt.Errorf("a reminder run is already in progress")

// RunEntry is one line of a run summary: an overdue invoice and whether at
// least one reminder tier was dispatched for it during the run.
type RunEntry struct {
	InvoiceNumber string `json:"invoiceNumber"`
	DaysOverdue   int    `json:"daysOverdue"`
	Sent          bool   `json:"sent"`
}

// RunSummary is the ephemeral result of one scan-and-dispatch run. It is
// returned to the caller and logged, never persisted.
type RunSummary struct {
	RunID         string
	StartedAt     time.Time
	FinishedAt    time.Time
	Entries       []RunEntry
	RemindersSent int
	PairErrors    int
}

// ReminderService defines the reminder engine's run operation.
type ReminderService interface {
	// RunCheck executes one full overdue scan and reminder dispatch cycle.
	RunCheck(ctx context.Context) (*RunSummary, error)
}

// ReminderServiceImpl implements ReminderService. It owns the single-run
// mutual exclusion gate: the ledger's unique constraint is the only other
// coordination point, so one run at a time is all the engine needs.
type ReminderServiceImpl struct {
	scanner    *OverdueScanner
	ruleRepo   reminder.RuleRepository
	ledgerRepo reminder.LedgerRepository
	notifRepo  notification.Repository
	notifier   delivery.Notifier
	logger     *logrus.Entry

	runGate sync.Mutex
}

func NewReminderServiceImpl(
	scanner *OverdueScanner,
	rr reminder.RuleRepository,
	lr reminder.LedgerRepository,
	nr notification.Repository,
	notifier delivery.Notifier,
	logger *logrus.Entry,
) *ReminderServiceImpl {
	return &ReminderServiceImpl{
		scanner:    scanner,
		ruleRepo:   rr,
		ledgerRepo: lr,
		notifRepo:  nr,
		notifier:   notifier,
		logger:     logger,
	}
}

// RunCheck scans for overdue invoices and dispatches every enabled, not yet
// recorded reminder tier for each of them. A pair-level failure is logged and
// skipped; only a failed scan or rule fetch aborts the whole run.
func (s *ReminderServiceImpl) RunCheck(ctx context.Context) (*RunSummary, error) {
	if !s.runGate.TryLock() {
		reminderRunsCounter.WithLabelValues("rejected").Inc()
		return nil, ErrRunInProgress
	}
	defer s.runGate.Unlock()

	summary := &RunSummary{RunID: uuid.NewString(), StartedAt: time.Now()}
	runLogger := s.logger.WithField("run_id", summary.RunID)
	runLogger.Info("Reminder run started")

	overdue, err := s.scanner.Scan(ctx, summary.StartedAt)
	if err != nil {
		reminderRunsCounter.WithLabelValues("failed").Inc()
		runLogger.WithError(err).Error("Overdue scan failed; aborting run")
		return nil, fmt.Errorf("overdue scan failed: %w", err)
	}

	rules, err := s.ruleRepo.ListEnabled(ctx)
	if err != nil {
		reminderRunsCounter.WithLabelValues("failed").Inc()
		runLogger.WithError(err).Error("Failed to load enabled reminder rules; aborting run")
		return nil, fmt.Errorf("failed to load enabled reminder rules: %w", err)
	}
	// Ascending threshold order so per-invoice logs read low tier to high.
	sort.Slice(rules, func(i, j int) bool { return rules[i].ThresholdDays < rules[j].ThresholdDays })

	for _, item := range overdue {
		entry := RunEntry{InvoiceNumber: item.Invoice.Number, DaysOverdue: item.DaysOverdue}

		for _, rule := range rules {
			if item.DaysOverdue < rule.ThresholdDays {
				break // rules are sorted; no higher tier can match either
			}

			sent, err := s.dispatchPair(ctx, runLogger, item, rule.ThresholdDays)
			if err != nil {
				summary.PairErrors++
				pairErrorsCounter.Inc()
				runLogger.WithError(err).WithFields(logrus.Fields{
					"invoice_id":     item.Invoice.ID,
					"invoice_number": item.Invoice.Number,
					"threshold_days": rule.ThresholdDays,
				}).Error("Reminder dispatch failed for pair; continuing run")
				continue
			}
			if sent {
				entry.Sent = true
				summary.RemindersSent++
				remindersSentCounter.Inc()
			}
		}

		summary.Entries = append(summary.Entries, entry)
	}

	summary.FinishedAt = time.Now()
	reminderRunsCounter.WithLabelValues("completed").Inc()
	runLogger.WithFields(logrus.Fields{
		"overdue_invoices": len(summary.Entries),
		"reminders_sent":   summary.RemindersSent,
		"pair_errors":      summary.PairErrors,
		"duration":         summary.FinishedAt.Sub(summary.StartedAt).String(),
	}).Info("Reminder run completed")
	return summary, nil
}

// dispatchPair handles one (invoice, threshold) pair. Ordering matters:
// the notification is written before the ledger record, so a crash in
// between produces a duplicate notification on the next run instead of a
// silently lost reminder.
func (s *ReminderServiceImpl) dispatchPair(ctx context.Context, runLogger *logrus.Entry, item *OverdueInvoice, thresholdDays int) (bool, error) {
	exists, err := s.ledgerRepo.Exists(ctx, item.Invoice.ID, thresholdDays)
	if err != nil {
		return false, fmt.Errorf("failed to check reminder ledger: %w", err)
	}
	if exists {
		return false, nil // already reminded at this tier
	}

	n := &notification.Notification{
		Title: fmt.Sprintf("Invoice %s is overdue", item.Invoice.Number),
		Message: fmt.Sprintf("Invoice %s for %s is %d days overdue. Amount due: %.2f.",
			item.Invoice.Number, item.Customer.Name, item.DaysOverdue, item.Invoice.TotalAmount),
		Type:             notification.TypeInvoiceOverdue,
		RelatedInvoiceID: sql.NullInt64{Int64: item.Invoice.ID, Valid: true},
	}
	if err := s.notifRepo.Create(ctx, n); err != nil {
		return false, fmt.Errorf("failed to create overdue notification: %w", err)
	}

	// Outbound delivery is best-effort: a failure only leaves the ledger row
	// with message_sent=false for an out-of-band delivery worker to pick up.
	msg := delivery.Message{
		Subject: fmt.Sprintf("Payment reminder: invoice %s", item.Invoice.Number),
		Body:    n.Message,
	}
	if item.Customer.Email.Valid {
		msg.To = []string{item.Customer.Email.String}
	}
	messageSent := true
	if err := s.notifier.Send(ctx, msg); err != nil {
		messageSent = false
		runLogger.WithError(err).WithFields(logrus.Fields{
			"invoice_id":     item.Invoice.ID,
			"threshold_days": thresholdDays,
		}).Warn("Outbound reminder message was not delivered")
	}

	record := &reminder.Record{
		InvoiceID:     item.Invoice.ID,
		ThresholdDays: thresholdDays,
		MessageSent:   messageSent,
	}
	if err := s.ledgerRepo.Insert(ctx, record); err != nil {
		if errors.Is(err, idb.ErrDuplicateReminder) {
			// Lost a race for the pair; the other writer owns it.
			runLogger.WithFields(logrus.Fields{
				"invoice_id":     item.Invoice.ID,
				"threshold_days": thresholdDays,
			}).Info("Reminder pair already claimed; skipping")
			return false, nil
		}
		return false, fmt.Errorf("failed to record reminder in ledger: %w", err)
	}

	return true, nil
}
