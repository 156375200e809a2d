// Package telegram connects the dialog engine to the Telegram Bot API over
// long polling.
package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/meetbot/internal/dialog"
)

// inbound is one decoded update plus what is needed to answer it.
type inbound struct {
	updateID int
	event    dialog.Event
	chatID   int64
	// messageID is the message holding the pressed button, for edits.
	messageID  int
	callbackID string
}

// decodeUpdate turns an update into a dialog event. Updates without a sender
// or of kinds the bot does not handle are reported as not ok.
func decodeUpdate(u tgbotapi.Update) (inbound, bool) {
	switch {
	case u.CallbackQuery != nil:
		q := u.CallbackQuery
		if q.From == nil {
			return inbound{}, false
		}
		in := inbound{
			updateID:   u.UpdateID,
			event:      dialog.Callback(q.From.ID, displayName(q.From), q.Data),
			chatID:     q.From.ID,
			callbackID: q.ID,
		}
		if q.Message != nil {
			in.messageID = q.Message.MessageID
			if q.Message.Chat != nil {
				in.chatID = q.Message.Chat.ID
			}
		}
		return in, true

	case u.Message != nil:
		m := u.Message
		if m.From == nil || m.Chat == nil {
			return inbound{}, false
		}
		in := inbound{updateID: u.UpdateID, chatID: m.Chat.ID}
		name := displayName(m.From)
		if m.IsCommand() {
			in.event = dialog.Command(m.From.ID, name, strings.ToLower(m.Command()))
			return in, true
		}
		if m.Text == "" {
			return inbound{}, false
		}
		in.event = dialog.Text(m.From.ID, name, m.Text)
		return in, true
	}
	return inbound{}, false
}

// displayName prefers the full name and falls back to the username.
func displayName(u *tgbotapi.User) string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" {
		name = u.UserName
	}
	return name
}
