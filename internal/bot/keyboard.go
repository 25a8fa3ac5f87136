package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/rupeetasks/taskbot/internal/model"
)

// Menu labels shown on the persistent reply keyboard. Dispatch matches these
// against incoming text before the content catch-all.
const (
	menuViewTasks     = "📋 View Tasks"
	menuMySubmissions = "📤 My Submissions"
	menuWallet        = "💰 Wallet"
	menuWithdraw      = "💸 Withdraw"
)

func (b *Bot) getMainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuViewTasks),
			tgbotapi.NewKeyboardButton(menuMySubmissions),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuWallet),
			tgbotapi.NewKeyboardButton(menuWithdraw),
		),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}

func (b *Bot) getSubmitKeyboard(task model.Task) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Submit Proof", submitPrefix+task.ID),
		),
	)
}
