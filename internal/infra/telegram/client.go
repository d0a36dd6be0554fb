// internal/infra/telegram/client.go
package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"medication_reminder_bot/internal/domain/notifier"

	"gopkg.in/telebot.v3"
)

// Sender is the part of *telebot.Bot the adapter needs.
type Sender interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// TelebotAdapter implements the notifier.Client interface using the gopkg.in/telebot.v3 library.
type TelebotAdapter struct {
	bot         Sender
	recipientID int64
}

func NewTelebotAdapter(b Sender, recipientChatID int64) *TelebotAdapter {
	return &TelebotAdapter{bot: b, recipientID: recipientChatID}
}

// Send sends a text message to the configured recipient.
// Errors returned by the Bot API are rejections; anything else leaves the outcome unknown.
func (tba *TelebotAdapter) Send(ctx context.Context, text string) (notifier.Delivery, error) {
	if err := ctx.Err(); err != nil {
		return notifier.Delivery{Status: notifier.DeliveryUnknown}, err
	}

	recipient := &telebot.User{ID: tba.recipientID} // Direct user chat
	msg, err := tba.bot.Send(recipient, text, &telebot.SendOptions{ParseMode: telebot.ModeDefault})
	if err != nil {
		return classifySendError(err)
	}

	d := notifier.Delivery{Status: notifier.DeliveryDelivered}
	if msg != nil {
		d.MessageID = strconv.Itoa(msg.ID)
	}
	return d, nil
}

func classifySendError(err error) (notifier.Delivery, error) {
	var apiErr *telebot.Error
	if errors.As(err, &apiErr) {
		return notifier.Delivery{Status: notifier.DeliveryRejected, Reason: apiErr.Description}, nil
	}
	// Bot API errors without a predefined *telebot.Error come back as "telegram: <description> (<code>)".
	if strings.HasPrefix(err.Error(), "telegram: ") {
		return notifier.Delivery{Status: notifier.DeliveryRejected, Reason: strings.TrimPrefix(err.Error(), "telegram: ")}, nil
	}
	return notifier.Delivery{Status: notifier.DeliveryUnknown}, err
}
