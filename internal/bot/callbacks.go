package bot

import (
	"context"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"seatwatch/internal/cities"
	"seatwatch/internal/i18n"
	"seatwatch/internal/models"
	"seatwatch/internal/search"
)

// dispatchCallback routes a button payload: plain action tokens and
// parameterized "action:value" tokens.
func (b *Bot) dispatchCallback(ctx context.Context, chatID int64, data string) {
	s := b.session(ctx, chatID)

	switch data {
	case "check_trains":
		b.startSearch(ctx, s, models.KindTrain)
		return
	case "check_flights":
		b.startSearch(ctx, s, models.KindFlight)
		return
	case "stop":
		if !s.Active() {
			b.reply(chatID, "search.already_idle", nil, b.mainMenuKeyboard(chatID))
			return
		}
		s.Stop()
		b.reply(chatID, "search.stopped", nil, b.mainMenuKeyboard(chatID))
		return
	case "reset":
		offerResume := !s.SettingsChanged() && s.LastKind() != models.KindNone
		b.reply(chatID, "reset.confirm", nil, b.resetConfirmKeyboard(chatID, offerResume))
		return
	case "reset_confirm":
		s.Stop()
		b.reply(chatID, "reset.done", nil, b.mainMenuKeyboard(chatID))
		return
	case "reset_resume":
		kind := s.LastKind()
		if kind == models.KindNone {
			b.reply(chatID, "reset.done", nil, b.mainMenuKeyboard(chatID))
			return
		}
		b.reply(chatID, "reset.resumed", nil, nil)
		b.startSearch(ctx, s, kind)
		return
	case "reset_cancel":
		b.reply(chatID, "reset.cancelled", nil, nil)
		return
	case "more":
		s.More()
		return
	case "help":
		lines := b.tr.List("help.lines", b.locale(chatID))
		msg := tgbotapi.NewMessage(chatID, strings.Join(lines, "\n"))
		msg.ReplyMarkup = *b.mainMenuKeyboard(chatID)
		b.sendMessage(msg)
		return
	case "back":
		b.reply(chatID, "menu.welcome", nil, b.mainMenuKeyboard(chatID))
		return
	case "settings":
		b.showSettings(chatID, s)
		return
	case "filters":
		b.reply(chatID, "filters.title", nil, b.filtersKeyboard(chatID))
		return
	case "language":
		b.reply(chatID, "lang.choose", nil, b.languageKeyboard())
		return
	case "pick_origin":
		b.reply(chatID, "settings.pick_origin", nil, b.cityKeyboard(chatID, "set_origin"))
		return
	case "pick_destination":
		b.reply(chatID, "settings.pick_destination", nil, b.cityKeyboard(chatID, "set_destination"))
		return
	case "pick_interval":
		b.reply(chatID, "settings.pick_interval", nil, b.intervalKeyboard(chatID))
		return
	case "lang_fa", "lang_en":
		b.changeLanguage(ctx, s, strings.TrimPrefix(data, "lang_"))
		return
	}

	action, value, found := strings.Cut(data, ":")
	if !found {
		b.logger.Warn("Unknown callback payload", zap.String("data", data), zap.Int64("chat_id", chatID))
		return
	}

	switch action {
	case "set_origin", "set_destination":
		b.setCityFromCallback(ctx, s, action, value)
	case "interval":
		if days, err := strconv.Atoi(value); err == nil && days >= 1 && days <= maxSearchDays {
			s.SetDays(days)
			b.persistPrefs(ctx, s)
			b.reply(chatID, "settings.days_set", map[string]string{"days": value}, nil)
		}
	case "price":
		b.setPriceFilter(s, value)
	case "time":
		b.setTimeFilter(s, value)
	case "seats":
		if seats, err := strconv.Atoi(value); err == nil && seats >= 1 {
			s.SetSeatFloor(seats)
			b.reply(chatID, "filters.seats_set", map[string]string{"seats": value}, nil)
		}
	default:
		b.logger.Warn("Unknown callback action", zap.String("data", data), zap.Int64("chat_id", chatID))
	}
}

// startSearch re-arms the chat's search: any active loop pair is stopped and
// a fresh one started, so result numbering restarts from 1.
func (b *Bot) startSearch(ctx context.Context, s *search.Session, kind models.SearchKind) {
	s.Start(kind)

	params, ok := s.ActiveParams()
	if !ok {
		return
	}

	if err := b.db.RecordSearch(ctx, models.SearchRecord{
		ChatID:      s.ChatID,
		Kind:        kind.String(),
		Origin:      params.Origin,
		Destination: params.Destination,
		StartDate:   params.StartDate,
		EndDate:     params.EndDate,
		StartedAt:   time.Now().UTC(),
	}); err != nil {
		b.logger.Error("Failed to record search", zap.Error(err), zap.Int64("chat_id", s.ChatID))
	}

	locale := b.locale(s.ChatID)
	b.reply(s.ChatID, "search.started", map[string]string{
		"kind":        b.tr.T("kind."+kind.String(), locale, nil),
		"origin":      b.cityName(params.Origin, locale),
		"destination": b.cityName(params.Destination, locale),
		"start":       params.StartDate.Format("2006-01-02"),
		"end":         params.EndDate.Format("2006-01-02"),
	}, b.searchActionsKeyboard(s.ChatID))
}

func (b *Bot) showSettings(chatID int64, s *search.Session) {
	locale := b.locale(chatID)
	b.reply(chatID, "settings.title", map[string]string{
		"origin":      b.cityName(s.Origin(), locale),
		"destination": b.cityName(s.Destination(), locale),
		"days":        strconv.Itoa(s.Days()),
	}, b.settingsKeyboard(chatID))
}

func (b *Bot) setCityFromCallback(ctx context.Context, s *search.Session, action, code string) {
	city, ok := cities.ByCode(code)
	if !ok {
		b.logger.Warn("Callback referenced unknown city", zap.String("code", code))
		return
	}

	key := "settings.destination_set"
	if action == "set_origin" {
		s.SetOrigin(city.Code)
		key = "settings.origin_set"
	} else {
		s.SetDestination(city.Code)
	}
	b.persistPrefs(ctx, s)
	b.reply(s.ChatID, key, map[string]string{"city": city.Name(b.locale(s.ChatID))}, nil)
}

func (b *Bot) setPriceFilter(s *search.Session, value string) {
	millions, err := strconv.Atoi(value)
	if err != nil || millions < 0 {
		return
	}
	if millions == 0 {
		s.SetPriceCeiling(0)
		b.reply(s.ChatID, "filters.price_cleared", nil, nil)
		return
	}
	ceiling := int64(millions) * 1_000_000
	s.SetPriceCeiling(ceiling)
	b.reply(s.ChatID, "filters.price_set", map[string]string{"price": formatPrice(ceiling)}, nil)
}

func (b *Bot) setTimeFilter(s *search.Session, value string) {
	bucket := models.TimeBucket(value)
	switch bucket {
	case models.BucketAny:
		s.SetTimeBucket(models.BucketAny)
		b.reply(s.ChatID, "filters.time_cleared", nil, nil)
	case models.BucketMorning, models.BucketAfternoon, models.BucketEvening:
		s.SetTimeBucket(bucket)
		b.reply(s.ChatID, "filters.time_set", map[string]string{
			"bucket": b.t(s.ChatID, "filters.time."+value, nil),
		}, nil)
	default:
		b.logger.Warn("Unknown time bucket in callback", zap.String("value", value))
	}
}

func (b *Bot) changeLanguage(ctx context.Context, s *search.Session, lang string) {
	b.setLocale(s.ChatID, lang)
	b.persistPrefs(ctx, s)
	b.reply(s.ChatID, "lang.changed", map[string]string{
		"language": i18n.AvailableLanguages[lang],
	}, b.mainMenuKeyboard(s.ChatID))
}
