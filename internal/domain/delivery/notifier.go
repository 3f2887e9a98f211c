package delivery

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by the logging stub notifier: the message was
// recorded but no outbound channel is wired, so the reminder ledger keeps
// message_sent=false for later reconciliation.
var ErrNotConfigured = errors.New("outbound delivery is not configured")

// Message is a channel-agnostic outbound reminder message.
type Message struct {
	// To lists recipient addresses. Implementations that deliver to a fixed
	// channel (e.g. a Telegram admin chat) may ignore it.
	To      []string
	Subject string
	Body    string
}

// Notifier abstracts the outbound message channel (e-mail, Telegram, ...).
// The dispatcher calls Send best-effort and never blocks a reminder on
// delivery confirmation.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}
