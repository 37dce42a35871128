package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"inside_value_bot/internal/modules/config"
	"inside_value_bot/pkg/logger"
)

// StatusSource отдаёт текст для команды /status. Проставляется после
// сборки графа, чтобы не завязывать телеграм на сканер на этапе конструктора.
type StatusSource interface {
	StatusText() string
}

type destination struct {
	bot    *tgbot.BotAPI
	chatID int64
}

// Telegram — веер алертов по нескольким ботам/чатам.
// Падение одной доставки не валит остальные.
type Telegram struct {
	dests []destination

	mu     sync.Mutex
	status StatusSource
}

// Пауза между доставками, чтобы не упереться в лимиты Telegram.
const sendSpacing = 500 * time.Millisecond

func NewTelegram(cfg *config.Config) (*Telegram, error) {
	t := &Telegram{}
	for _, b := range cfg.Telegram.Bots {
		bot, err := tgbot.NewBotAPI(b.Token)
		if err != nil {
			return nil, fmt.Errorf("telegram bot init: %w", err)
		}
		t.dests = append(t.dests, destination{bot: bot, chatID: b.ChatID})
	}
	if len(t.dests) == 0 {
		return nil, fmt.Errorf("telegram: no bots configured")
	}
	return t, nil
}

func (t *Telegram) SetStatusSource(s StatusSource) {
	t.mu.Lock()
	t.status = s
	t.mu.Unlock()
}

func (t *Telegram) Send(msg string) {
	for i, d := range t.dests {
		if i > 0 {
			time.Sleep(sendSpacing)
		}
		if _, err := d.bot.Send(tgbot.NewMessage(d.chatID, msg)); err != nil {
			logger.Error("[ALERT] send to chat %d failed: %v", d.chatID, err)
		}
	}
}

func (t *Telegram) Sendf(format string, args ...any) { t.Send(fmt.Sprintf(format, args...)) }

// Start — long-polling первого бота, единственная команда /status.
func (t *Telegram) Start(ctx context.Context) {
	d := t.dests[0]

	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	u.AllowedUpdates = []string{"message"}

	updates := d.bot.GetUpdatesChan(u)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case upd := <-updates:
				if upd.Message == nil || upd.Message.Chat == nil ||
					upd.Message.Chat.ID != d.chatID || !upd.Message.IsCommand() {
					continue
				}
				switch upd.Message.Command() {
				case "status":
					t.handleStatus(d)
				}
			}
		}
	}()
}

func (t *Telegram) handleStatus(d destination) {
	t.mu.Lock()
	src := t.status
	t.mu.Unlock()

	text := "📭 Scanner is not running"
	if src != nil {
		text = src.StatusText()
	}
	_, _ = d.bot.Send(tgbot.NewMessage(d.chatID, text))
}

func (t *Telegram) Stop() {
	for _, d := range t.dests {
		d.bot.StopReceivingUpdates()
	}
}
