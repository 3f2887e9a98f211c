package scheduler

import (
	"context"
	"errors"
	"time"

	"invoice_reminder_service/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// runTimeout bounds a single scheduled run. Runs normally finish in seconds;
// minutes of headroom covers a large overdue backlog.
const runTimeout = 5 * time.Minute

// ReminderScheduler triggers the daily reminder run. Manual triggers go
// through the HTTP API; both paths share the service's single-run gate.
type ReminderScheduler struct {
	cronEngine          *cron.Cron
	reminderService     app.ReminderService
	logger              *logrus.Entry
	cronSpecReminderRun string
}

func NewReminderScheduler(
	rs app.ReminderService,
	logger *logrus.Entry,
	cronSpecReminderRun string, // e.g., "0 9 * * *" (09:00 daily)
) *ReminderScheduler {
	return &ReminderScheduler{
		cronEngine:          cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		reminderService:     rs,
		logger:              logger,
		cronSpecReminderRun: cronSpecReminderRun,
	}
}

func (s *ReminderScheduler) Start() error {
	s.logger.Info("Starting reminder scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpecReminderRun, func() {
		s.logger.Info("Cron job triggered for daily overdue reminder run")
		s.executeReminderRun()
	})
	if err != nil {
		return err
	}

	s.cronEngine.Start()
	s.logger.WithField("cron_spec", s.cronSpecReminderRun).Info("Reminder scheduler started")
	return nil
}

// executeReminderRun performs one scheduled run. Every failure mode is caught
// here; a failed run is logged with zero reminders sent and never takes the
// process down.
func (s *ReminderScheduler) executeReminderRun() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	summary, err := s.reminderService.RunCheck(ctx)
	if err != nil {
		if errors.Is(err, app.ErrRunInProgress) {
			s.logger.Warn("Scheduled reminder run skipped: another run is already in progress")
			return
		}
		s.logger.WithError(err).Error("Scheduled reminder run failed; 0 reminders sent")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"run_id":           summary.RunID,
		"overdue_invoices": len(summary.Entries),
		"reminders_sent":   summary.RemindersSent,
		"pair_errors":      summary.PairErrors,
	}).Info("Scheduled reminder run completed")
}

func (s *ReminderScheduler) Stop() {
	s.logger.Info("Stopping reminder scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()               // Wait for graceful shutdown
	s.logger.Info("Reminder scheduler gracefully stopped")
}
