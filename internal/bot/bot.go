package bot

import (
	"encoding/json"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/rupeetasks/taskbot/internal/charts"
	"github.com/rupeetasks/taskbot/internal/service"
)

// submitPrefix marks callback data carrying a task ID for the proof flow.
const submitPrefix = "submit_"

// sender is the slice of the Telegram API the handlers use. *tgbotapi.BotAPI
// satisfies it; tests substitute a recording fake.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Bot struct {
	api     *tgbotapi.BotAPI
	sender  sender
	service *service.TaskBoard
	charts  *charts.ChartGenerator
}

func NewBot(token string, service *service.TaskBoard) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return &Bot{
		api:     api,
		sender:  api,
		service: service,
		charts:  charts.NewChartGenerator(),
	}, nil
}

// eventKind enumerates every way an update can be dispatched. The order of
// the cases in classifyUpdate is the dispatch priority: command, menu label,
// callback, then the content catch-all.
type eventKind int

const (
	eventIgnore eventKind = iota
	eventCommand
	eventMenu
	eventCallback
	eventContent
)

type event struct {
	kind     eventKind
	message  *tgbotapi.Message
	callback *tgbotapi.CallbackQuery
}

var menuLabels = map[string]bool{
	menuViewTasks:     true,
	menuMySubmissions: true,
	menuWallet:        true,
	menuWithdraw:      true,
}

func classifyUpdate(update tgbotapi.Update) event {
	if update.CallbackQuery != nil {
		if strings.HasPrefix(update.CallbackQuery.Data, submitPrefix) {
			return event{kind: eventCallback, callback: update.CallbackQuery}
		}
		return event{kind: eventIgnore}
	}

	msg := update.Message
	if msg == nil || msg.From == nil {
		return event{kind: eventIgnore}
	}
	if msg.IsCommand() {
		return event{kind: eventCommand, message: msg}
	}
	if menuLabels[msg.Text] {
		return event{kind: eventMenu, message: msg}
	}
	if msg.Text != "" || len(msg.Photo) > 0 {
		return event{kind: eventContent, message: msg}
	}
	return event{kind: eventIgnore}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) error {
	switch ev := classifyUpdate(update); ev.kind {
	case eventCommand:
		return b.handleCommand(ev.message)
	case eventMenu:
		return b.handleMenu(ev.message)
	case eventCallback:
		return b.handleCallback(ev.callback)
	case eventContent:
		return b.handleContent(ev.message)
	default:
		return nil
	}
}

// safeHandleUpdate keeps one faulty update from taking the poller down.
func (b *Bot) safeHandleUpdate(update tgbotapi.Update) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while handling update %d: %v", update.UpdateID, r)
		}
	}()
	return b.handleUpdate(update)
}

// Start runs the bot in long polling mode. Handler errors are logged and the
// loop moves on to the next update.
func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	zap.L().Info("bot is running", zap.String("username", b.api.Self.UserName))

	for update := range updates {
		if err := b.safeHandleUpdate(update); err != nil {
			zap.L().Error("error handling update",
				zap.Int("update_id", update.UpdateID),
				zap.Error(err),
			)
		}
	}

	return nil
}

// HandleWebhook is the entry point for webhook-delivered updates.
func (b *Bot) HandleWebhook(body []byte) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return err
	}

	return b.safeHandleUpdate(update)
}
