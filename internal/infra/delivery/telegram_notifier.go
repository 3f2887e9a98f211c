package delivery

import (
	"context"
	"fmt"

	"invoice_reminder_service/internal/domain/delivery"

	"gopkg.in/telebot.v3"
)

// TelegramNotifier posts reminder messages to a configured admin chat using
// the gopkg.in/telebot.v3 library. Recipient addresses in the message are
// ignored; the chat is fixed per deployment.
type TelegramNotifier struct {
	bot         *telebot.Bot
	adminChatID int64
}

func NewTelegramNotifier(b *telebot.Bot, adminChatID int64) *TelegramNotifier {
	return &TelegramNotifier{bot: b, adminChatID: adminChatID}
}

func (n *TelegramNotifier) Send(ctx context.Context, msg delivery.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	text := msg.Body
	if msg.Subject != "" {
		text = fmt.Sprintf("%s\n\n%s", msg.Subject, msg.Body)
	}

	recipient := &telebot.User{ID: n.adminChatID}
	if _, err := n.bot.Send(recipient, text, &telebot.SendOptions{}); err != nil {
		return fmt.Errorf("failed to send reminder to Telegram chat %d: %w", n.adminChatID, err)
	}
	return nil
}
