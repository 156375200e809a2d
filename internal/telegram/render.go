package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/meetbot/internal/dialog"
)

// render converts a reply into the request that shows it. Edits need the
// message that carried the pressed button; without one a new message is sent.
func render(chatID int64, messageID int, r dialog.Reply) tgbotapi.Chattable {
	parseMode := ""
	if r.Format == dialog.FormatHTML {
		parseMode = tgbotapi.ModeHTML
	}

	if r.Edit && messageID != 0 && r.Menu == nil {
		edit := tgbotapi.NewEditMessageText(chatID, messageID, r.Text)
		edit.ParseMode = parseMode
		if len(r.Controls) > 0 {
			markup := inlineKeyboard(r.Controls)
			edit.ReplyMarkup = &markup
		}
		return edit
	}

	msg := tgbotapi.NewMessage(chatID, r.Text)
	msg.ParseMode = parseMode
	switch {
	case len(r.Controls) > 0:
		msg.ReplyMarkup = inlineKeyboard(r.Controls)
	case r.Menu != nil:
		msg.ReplyMarkup = replyKeyboard(r.Menu)
	}
	return msg
}

func inlineKeyboard(controls [][]dialog.Option) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(controls))
	for _, row := range controls {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, opt := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(opt.Label, opt.Token))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func replyKeyboard(menu [][]string) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(menu))
	for _, row := range menu {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
		}
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(buttons...))
	}
	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.ResizeKeyboard = true
	return keyboard
}
