// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"medication_reminder_bot/internal/app"
	"medication_reminder_bot/internal/domain/cycle"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterBotCommands wires /start, /help and /status. Only the configured
// recipient gets answers; the commands never change the cycle.
func RegisterBotCommands(
	ctx context.Context,
	b *telebot.Bot,
	recipientID int64,
	statusService *app.StatusService,
	now func() time.Time,
	baseLogger *logrus.Entry, // For contextual logging
) {
	cmdLogger := baseLogger.WithField("handler_group", "commands")

	authorized := func(c telebot.Context, command string) (*logrus.Entry, bool) {
		logCtx := cmdLogger.WithField("command", command).WithField("sender_id", c.Sender().ID)
		if c.Sender().ID != recipientID {
			logCtx.Warn("Unauthorized access attempt")
			return logCtx, false
		}
		logCtx.Info("Command received")
		return logCtx, true
	}

	b.Handle("/start", func(c telebot.Context) error {
		if _, ok := authorized(c, "/start"); !ok {
			return c.Send("This bot only talks to the person whose medication plan it follows.")
		}
		return c.Send(fmt.Sprintf("Hi %s! I will remind you to take your medication every morning and evening. Use /status to see today's reminders.", c.Sender().FirstName))
	})

	b.Handle("/help", func(c telebot.Context) error {
		if _, ok := authorized(c, "/help"); !ok {
			return c.Send("No commands are available for you.")
		}
		var helpText strings.Builder
		helpText.WriteString("Available commands:\n\n")
		helpText.WriteString("/status - today's medications and which reminders were sent\n")
		helpText.WriteString("/help - show this message")
		return c.Send(helpText.String())
	})

	b.Handle("/status", func(c telebot.Context) error {
		logCtx, ok := authorized(c, "/status")
		if !ok {
			return c.Send("No commands are available for you.")
		}
		st, err := statusService.Status(ctx, now())
		if err != nil {
			logCtx.WithError(err).Error("Failed to build cycle status")
			return c.Send("Could not read the reminder status. Please try again later.")
		}
		return c.Send(FormatStatus(st))
	})
}

// FormatStatus renders a cycle status snapshot as plain text.
func FormatStatus(st *app.CycleStatus) string {
	var b strings.Builder
	lastDay := st.EndDate.AddDate(0, 0, -1)
	fmt.Fprintf(&b, "Cycle: %s to %s\n", cycle.FormatDate(st.StartDate), cycle.FormatDate(lastDay))
	fmt.Fprintf(&b, "Reminders delivered: %d of %d\n", st.DeliveredCount, st.TotalReminders)

	switch {
	case st.Ended:
		b.WriteString("The medication cycle has ended.")
		return b.String()
	case !st.InCycle:
		fmt.Fprintf(&b, "The cycle starts on %s.", cycle.FormatDate(st.StartDate))
		return b.String()
	}

	fmt.Fprintf(&b, "\nToday (%s, cycle day %d):\n", cycle.FormatDate(st.Today), st.CycleDay)
	morningSent, eveningSent := false, false
	if st.TodayRow != nil {
		morningSent, eveningSent = st.TodayRow.MorningMessageSent, st.TodayRow.EveningMessageSent
	}
	fmt.Fprintf(&b, "Morning %s: %s [%s]\n", cycle.MorningWindow, medsOrNone(st.MorningMeds), sentLabel(morningSent))
	fmt.Fprintf(&b, "Evening %s: %s [%s]", cycle.EveningWindow, medsOrNone(st.EveningMeds), sentLabel(eveningSent))
	return b.String()
}

func medsOrNone(meds []string) string {
	if len(meds) == 0 {
		return "nothing"
	}
	return strings.Join(meds, ", ")
}

func sentLabel(sent bool) string {
	if sent {
		return "sent"
	}
	return "not sent"
}
