package bot

import (
	"context"
	"strconv"
	"strings"

	"seatwatch/internal/cities"
)

const maxSearchDays = 30

// handleStart greets the chat and shows the main menu.
func (b *Bot) handleStart(ctx context.Context, chatID int64) {
	b.session(ctx, chatID) // hydrate stored preferences
	b.reply(chatID, "menu.welcome", nil, b.mainMenuKeyboard(chatID))
}

// handleTextCommand parses the plain-text grammar: "more",
// "origin:<cityNameOrCode>", "destination:<...>", "days:<n>". Anything else
// falls back to the menu.
func (b *Bot) handleTextCommand(ctx context.Context, chatID int64, text string) {
	text = normalizeDigits(strings.TrimSpace(text))
	lower := strings.ToLower(text)

	switch {
	case lower == "more":
		b.session(ctx, chatID).More()

	case strings.HasPrefix(lower, "origin:"):
		b.setCityFromText(ctx, chatID, text[len("origin:"):], true)

	case strings.HasPrefix(lower, "destination:"):
		b.setCityFromText(ctx, chatID, text[len("destination:"):], false)

	case strings.HasPrefix(lower, "days:"):
		b.setDaysFromText(ctx, chatID, text[len("days:"):])

	default:
		b.reply(chatID, "menu.welcome", nil, b.mainMenuKeyboard(chatID))
	}
}

func (b *Bot) setCityFromText(ctx context.Context, chatID int64, query string, isOrigin bool) {
	city, ok := cities.Match(query)
	if !ok {
		b.reply(chatID, "errors.unknown_city", map[string]string{"query": strings.TrimSpace(query)}, nil)
		return
	}

	s := b.session(ctx, chatID)
	key := "settings.destination_set"
	if isOrigin {
		s.SetOrigin(city.Code)
		key = "settings.origin_set"
	} else {
		s.SetDestination(city.Code)
	}
	b.persistPrefs(ctx, s)
	b.reply(chatID, key, map[string]string{"city": city.Name(b.locale(chatID))}, nil)
}

func (b *Bot) setDaysFromText(ctx context.Context, chatID int64, value string) {
	days, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || days < 1 || days > maxSearchDays {
		b.reply(chatID, "errors.bad_days", nil, nil)
		return
	}

	s := b.session(ctx, chatID)
	s.SetDays(days)
	b.persistPrefs(ctx, s)
	b.reply(chatID, "settings.days_set", map[string]string{"days": strconv.Itoa(days)}, nil)
}

// normalizeDigits converts Persian (and Arabic-Indic) numerals to ASCII so
// "days:۷" parses the same as "days:7".
func normalizeDigits(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '۰' && r <= '۹': // Persian
			return '0' + (r - '۰')
		case r >= '٠' && r <= '٩': // Arabic-Indic
			return '0' + (r - '٠')
		}
		return r
	}, s)
}
