package delivery

import (
	"context"
	"strings"

	"invoice_reminder_service/internal/domain/delivery"

	"github.com/sirupsen/logrus"
)

// LogNotifier is the default stand-in for a real outbound channel. It logs
// the message and returns delivery.ErrNotConfigured, so the dispatcher
// records the reminder with message_sent=false and a delivery worker can
// reconcile later.
type LogNotifier struct {
	logger *logrus.Entry
}

func NewLogNotifier(logger *logrus.Entry) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(_ context.Context, msg delivery.Message) error {
	n.logger.WithFields(logrus.Fields{
		"to":      strings.Join(msg.To, ","),
		"subject": msg.Subject,
	}).Info("Outbound reminder message (delivery not configured, logging only)")
	return delivery.ErrNotConfigured
}
