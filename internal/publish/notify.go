package publish

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/you/deenreels/internal/config"
)

// Notifier reports run outcomes to an admin Telegram chat. Optional: a nil
// Notifier drops messages.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewNotifier returns nil (no error) when the bot token or chat ID is not
// configured.
func NewNotifier(cfg config.Config) (*Notifier, error) {
	if cfg.BotToken == "" || cfg.AdminChatID == 0 {
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return &Notifier{bot: bot, chatID: cfg.AdminChatID}, nil
}

// Notify sends a message to the admin chat, best effort.
func (n *Notifier) Notify(text string) {
	if n == nil {
		return
	}
	if _, err := n.bot.Send(tgbotapi.NewMessage(n.chatID, text)); err != nil {
		log.Warn().Err(err).Msg("telegram notify failed")
	}
}
