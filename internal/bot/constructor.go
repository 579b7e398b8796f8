package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"seatwatch/internal/i18n"
	"seatwatch/internal/provider"
	"seatwatch/internal/search"
	"seatwatch/internal/storage"
)

// NewBot creates the Telegram bot and its session registry.
func NewBot(token string, client provider.Client, db storage.Storage, tr *i18n.Translator, defaults search.Defaults, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		logger.Error("Failed to create bot API", zap.Error(err))
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := &Bot{
		api:      api,
		db:       db,
		tr:       tr,
		logger:   logger,
		langs:    make(map[int64]string),
		hydrated: make(map[int64]bool),
	}
	b.registry = search.NewRegistry(client, b, defaults, logger)

	logger.Info("Bot created", zap.String("bot_username", api.Self.UserName))
	return b, nil
}

// GetAPI returns the bot API for testing
func (b *Bot) GetAPI() *tgbotapi.BotAPI {
	return b.api
}
