package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"invoice_reminder_service/internal/app"

	"github.com/sirupsen/logrus"
)

// ReminderHandler exposes the manual reminder-run trigger.
type ReminderHandler struct {
	reminderService app.ReminderService
	logger          *logrus.Entry
}

func NewReminderHandler(rs app.ReminderService, logger *logrus.Entry) *ReminderHandler {
	return &ReminderHandler{reminderService: rs, logger: logger}
}

// RunNow triggers a full scan-and-dispatch run and returns the summary as an
// ordered JSON list of {invoiceNumber, daysOverdue, sent}. Partial failure is
// still a 200: pair errors only show up as sent=false entries. Only a total
// scan failure yields a 5xx; an already-active run yields 409.
func (h *ReminderHandler) RunNow(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reminderService.RunCheck(r.Context())
	if err != nil {
		if errors.Is(err, app.ErrRunInProgress) {
			h.logger.Warn("Manual reminder run rejected: run already in progress")
			http.Error(w, "A reminder run is already in progress", http.StatusConflict)
			return
		}
		h.logger.WithError(err).Error("Manual reminder run failed")
		http.Error(w, "Reminder run failed", http.StatusInternalServerError)
		return
	}

	entries := summary.Entries
	if entries == nil {
		entries = []app.RunEntry{} // encode as [] rather than null
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		h.logger.WithError(err).Error("Failed to encode run summary response")
	}
}
