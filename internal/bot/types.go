package bot

import (
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"seatwatch/internal/i18n"
	"seatwatch/internal/search"
	"seatwatch/internal/storage"
)

// Bot is the Telegram gateway: it dispatches updates into per-chat search
// sessions and renders session output back into messages. It implements
// search.Gateway.
type Bot struct {
	api      *tgbotapi.BotAPI
	registry *search.Registry
	db       storage.Storage
	tr       *i18n.Translator
	logger   *zap.Logger

	mu       sync.Mutex
	langs    map[int64]string // chat locale cache, backed by storage
	hydrated map[int64]bool   // chats whose stored preferences were applied
}
