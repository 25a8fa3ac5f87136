package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/rupeetasks/taskbot/internal/model"
	"github.com/rupeetasks/taskbot/internal/service"
	"github.com/rupeetasks/taskbot/internal/session"
)

// userKey converts a Telegram user ID to the document key used by the store.
func userKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.sender.Send(c); err != nil {
		zap.L().Error("failed to send message", zap.Error(err))
	}
}

func (b *Bot) sendText(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) handleCommand(message *tgbotapi.Message) error {
	switch message.Command() {
	case "start":
		return b.handleStart(message)
	case "stats":
		return b.handleStats(message)
	}

	return nil
}

func (b *Bot) handleStart(message *tgbotapi.Message) error {
	_, err := b.service.EnsureUser(context.Background(), userKey(message.From.ID), message.From.UserName)
	if err != nil {
		return fmt.Errorf("start for user %d: %w", message.From.ID, err)
	}

	msg := tgbotapi.NewMessage(message.Chat.ID,
		"Welcome to RupeeTasksBot ✅\nComplete tasks & earn money.")
	msg.ReplyMarkup = b.getMainKeyboard()
	b.send(msg)
	return nil
}

func (b *Bot) handleMenu(message *tgbotapi.Message) error {
	switch message.Text {
	case menuViewTasks:
		return b.handleViewTasks(message)
	case menuMySubmissions:
		return b.handleMySubmissions(message)
	case menuWallet:
		return b.handleWallet(message)
	case menuWithdraw:
		return b.handleWithdraw(message)
	}

	return nil
}

func (b *Bot) handleViewTasks(message *tgbotapi.Message) error {
	tasks, err := b.service.Tasks(context.Background())
	if err != nil {
		return fmt.Errorf("view tasks: %w", err)
	}

	if len(tasks) == 0 {
		b.sendText(message.Chat.ID, "No tasks available right now.")
		return nil
	}

	for _, task := range tasks {
		text := fmt.Sprintf("📝 %s\n💰 Reward: ₹%d\n\n%s", task.Title, task.Reward, task.Description)
		msg := tgbotapi.NewMessage(message.Chat.ID, text)
		msg.ReplyMarkup = b.getSubmitKeyboard(task)
		b.send(msg)
	}
	return nil
}

func (b *Bot) handleMySubmissions(message *tgbotapi.Message) error {
	submissions, err := b.service.Submissions(context.Background(), userKey(message.From.ID))
	if err != nil {
		return fmt.Errorf("my submissions: %w", err)
	}

	text := "📊 Your Submissions:\n\n"
	if len(submissions) == 0 {
		text += "No submissions yet."
	} else {
		for _, sub := range submissions {
			text += fmt.Sprintf("Task: %s | Status: %s\n", sub.TaskID, sub.Status)
		}
	}
	b.sendText(message.Chat.ID, text)
	return nil
}

func (b *Bot) handleWallet(message *tgbotapi.Message) error {
	user, err := b.service.Wallet(context.Background(), userKey(message.From.ID))
	if errors.Is(err, model.ErrUserNotFound) {
		b.sendText(message.Chat.ID, "Please send /start first.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("wallet: %w", err)
	}

	text := fmt.Sprintf("💰 Your Wallet\n\nBalance: ₹%d\n✅ Completed: %d\n⏳ Pending: %d",
		user.Balance, user.TotalDone, user.TotalPending)
	b.sendText(message.Chat.ID, text)
	return nil
}

func (b *Bot) handleWithdraw(message *tgbotapi.Message) error {
	b.service.StartWithdrawal(userKey(message.From.ID))
	b.sendText(message.Chat.ID, "Enter amount to withdraw:")
	return nil
}

func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery) error {
	taskID := strings.TrimPrefix(callback.Data, submitPrefix)
	chatID := callback.Message.Chat.ID

	err := b.service.StartSubmission(context.Background(), userKey(callback.From.ID), taskID)
	switch {
	case errors.Is(err, model.ErrTaskNotFound):
		b.sendText(chatID, "This task is no longer available.")
	case err != nil:
		return fmt.Errorf("submit callback: %w", err)
	default:
		b.sendText(chatID, "Send your proof (text or screenshot).")
	}

	// Answer the callback so the client stops showing a loading indicator.
	if _, err := b.sender.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		zap.L().Error("failed to answer callback", zap.Error(err))
	}
	return nil
}

// handleContent is the catch-all for plain text and photos. It consults the
// active flow and is a no-op for users with nothing in progress.
func (b *Bot) handleContent(message *tgbotapi.Message) error {
	uid := userKey(message.From.ID)

	switch b.service.ActiveFlow(uid) {
	case session.FlowAwaitingProof:
		return b.handleProof(message, uid)
	case session.FlowAwaitingAmount:
		return b.handleAmount(message, uid)
	case session.FlowAwaitingUPI:
		return b.handleUPI(message, uid)
	default:
		return nil
	}
}

func (b *Bot) handleProof(message *tgbotapi.Message, uid string) error {
	proof := message.Text
	if len(message.Photo) > 0 {
		// Telegram lists photo sizes smallest first.
		proof = message.Photo[len(message.Photo)-1].FileID
	}

	if _, err := b.service.SubmitProof(context.Background(), uid, proof); err != nil {
		return fmt.Errorf("submit proof: %w", err)
	}

	b.sendText(message.Chat.ID, "✅ Proof submitted! Status: Pending review.")
	return nil
}

func (b *Bot) handleAmount(message *tgbotapi.Message, uid string) error {
	err := b.service.EnterAmount(context.Background(), uid, message.Text)
	switch {
	case errors.Is(err, service.ErrInvalidAmount):
		b.sendText(message.Chat.ID, "Enter valid number.")
	case errors.Is(err, service.ErrBelowMinimum):
		b.sendText(message.Chat.ID, fmt.Sprintf("Minimum withdraw is ₹%d", model.MinWithdrawAmount))
	case errors.Is(err, model.ErrInsufficientBalance):
		b.sendText(message.Chat.ID, "Not enough balance.")
	case errors.Is(err, model.ErrUserNotFound):
		b.sendText(message.Chat.ID, "Please send /start first.")
	case err != nil:
		return fmt.Errorf("withdraw amount: %w", err)
	default:
		b.sendText(message.Chat.ID, "Enter your UPI ID:")
	}
	return nil
}

func (b *Bot) handleUPI(message *tgbotapi.Message, uid string) error {
	_, err := b.service.EnterUPI(context.Background(), uid, message.Text)
	switch {
	case errors.Is(err, model.ErrInsufficientBalance):
		b.sendText(message.Chat.ID, "Not enough balance.")
	case err != nil:
		return fmt.Errorf("withdraw upi: %w", err)
	default:
		b.sendText(message.Chat.ID, "✅ Withdraw request submitted. It will be processed after review.")
	}
	return nil
}

func (b *Bot) handleStats(message *tgbotapi.Message) error {
	stats, err := b.service.Stats(context.Background(), userKey(message.From.ID))
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}

	if stats.Total() == 0 {
		b.sendText(message.Chat.ID, "No submissions yet.")
		return nil
	}

	png, err := b.charts.SubmissionStatus(stats.Pending, stats.Approved, stats.Rejected)
	if err != nil {
		return fmt.Errorf("stats chart: %w", err)
	}

	photo := tgbotapi.NewPhoto(message.Chat.ID, tgbotapi.FileBytes{
		Name:  "stats.png",
		Bytes: png,
	})
	photo.Caption = fmt.Sprintf("📊 Your submissions: %d total", stats.Total())
	b.send(photo)
	return nil
}
