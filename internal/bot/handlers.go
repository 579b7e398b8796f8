package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// handleMessage processes a single message
func (b *Bot) handleMessage(message *tgbotapi.Message) {
	// Recover from panics to prevent bot crashes
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleMessage", zap.Any("panic", r))
		}
	}()

	ctx := context.Background()
	chatID := message.Chat.ID

	if message.IsCommand() {
		switch message.Command() {
		case "start":
			b.handleStart(ctx, chatID)
		default:
			b.reply(chatID, "menu.welcome", nil, b.mainMenuKeyboard(chatID))
		}
		return
	}

	b.handleTextCommand(ctx, chatID, message.Text)
}

// handleCallbackQuery processes inline keyboard button clicks
func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	// Recover from panics
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleCallbackQuery", zap.Any("panic", r))
		}
	}()

	// Answer the callback query to remove loading state
	if b.api != nil {
		callback := tgbotapi.NewCallback(query.ID, "")
		b.api.Request(callback)
	}

	if query.Message == nil {
		return
	}
	b.dispatchCallback(context.Background(), query.Message.Chat.ID, query.Data)
}
