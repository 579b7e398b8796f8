package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"seatwatch/internal/i18n"
	"seatwatch/internal/models"
	"seatwatch/internal/search"
)

// sendMessage sends a message, logging failures instead of propagating them.
func (b *Bot) sendMessage(msg tgbotapi.MessageConfig) {
	if b.api == nil {
		return // For testing
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", msg.ChatID),
		)
	}
}

// reply sends a translated message, optionally with an inline keyboard.
func (b *Bot) reply(chatID int64, key string, params map[string]string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, b.t(chatID, key, params))
	if keyboard != nil {
		msg.ReplyMarkup = *keyboard
	}
	b.sendMessage(msg)
}

// t translates a key into the chat's locale.
func (b *Bot) t(chatID int64, key string, params map[string]string) string {
	return b.tr.T(key, b.locale(chatID), params)
}

// locale returns the chat's language, falling back to the default.
func (b *Bot) locale(chatID int64) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if lang, ok := b.langs[chatID]; ok {
		return lang
	}
	return i18n.DefaultLocale
}

func (b *Bot) setLocale(chatID int64, lang string) {
	b.mu.Lock()
	b.langs[chatID] = lang
	b.mu.Unlock()
}

// session returns the chat's search session, applying stored preferences the
// first time the chat is seen after startup.
func (b *Bot) session(ctx context.Context, chatID int64) *search.Session {
	s := b.registry.Get(chatID)

	b.mu.Lock()
	seen := b.hydrated[chatID]
	b.hydrated[chatID] = true
	b.mu.Unlock()
	if seen {
		return s
	}

	prefs, ok, err := b.db.GetPreferences(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to load preferences", zap.Error(err), zap.Int64("chat_id", chatID))
		return s
	}
	if !ok {
		return s
	}

	if prefs.Language != "" {
		b.setLocale(chatID, prefs.Language)
	}
	if prefs.Origin != "" {
		s.SetOrigin(prefs.Origin)
	}
	if prefs.Destination != "" {
		s.SetDestination(prefs.Destination)
	}
	if prefs.Days > 0 {
		s.SetDays(prefs.Days)
	}
	return s
}

// persistPrefs saves the chat's current settings; failures are logged, the
// in-memory session stays authoritative.
func (b *Bot) persistPrefs(ctx context.Context, s *search.Session) {
	prefs := models.Preferences{
		ChatID:      s.ChatID,
		Language:    b.locale(s.ChatID),
		Origin:      s.Origin(),
		Destination: s.Destination(),
		Days:        s.Days(),
	}
	if err := b.db.SavePreferences(ctx, prefs); err != nil {
		b.logger.Error("Failed to save preferences", zap.Error(err), zap.Int64("chat_id", s.ChatID))
	}
}
