package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"seatwatch/internal/cities"
	"seatwatch/internal/i18n"
)

func (b *Bot) mainMenuKeyboard(chatID int64) *tgbotapi.InlineKeyboardMarkup {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.t(chatID, "buttons.check_trains", nil), "check_trains"),
			tgbotapi.NewInlineKeyboardButtonData(b.t(chatID, "buttons.check_flights", nil), "check_flights"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.t(chatID, "buttons.settings", nil), "settings"),
			tgbotapi.NewInlineKeyboardButtonData(b.t(chatID, "buttons.filters", nil), "filters"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.t(chatID, "buttons.language", nil), "language"),
			tgbotapi.NewInlineKeyboardButtonData(b.t(chatID, "buttons.help", nil), "help"),
		),
	)
	return &keyboard
}

func (b *Bot) searchActionsKeyboard(chatID int64) *tgbotapi.InlineKeyboardMarkup {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.t(chatID, "buttons.stop", nil), "stop"),
			tgbotapi.NewInlineKeyboardButtonData(b.t(chatID, "buttons.reset", nil), "reset"),
		),
	)
	return &keyboard
}

func (b *Bot) morePromptKeyboard(chatID int64) *tgbotapi.InlineKeyboardMarkup {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.t(chatID, "buttons.more", nil), "more"),
			tgbotapi.NewInlineKeyboardButtonData(b.t(chatID, "buttons.stop", nil), "stop"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.t(chatID, "buttons.new_search", nil), "reset"),
		),
	)
	return &keyboard
}

func (b *Bot) settingsKeyboard(chatID int64) *tgbotapi.InlineKeyboardMarkup {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.t(chatID, "settings.pick_origin", nil), "pick_origin"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.t(chatID, "settings.pick_destination", nil), "pick_destination"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.t(chatID, "settings.pick_interval", nil), "pick_interval"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.t(chatID, "buttons.back", nil), "back"),
		),
	)
	return &keyboard
}

// cityKeyboard lists the directory two buttons per row, payloads of the form
// set_origin:THR / set_destination:THR.
func (b *Bot) cityKeyboard(chatID int64, action string) *tgbotapi.InlineKeyboardMarkup {
	locale := b.locale(chatID)
	all := cities.All()

	var rows [][]tgbotapi.InlineKeyboardButton
	var currentRow []tgbotapi.InlineKeyboardButton
	for i, city := range all {
		button := tgbotapi.NewInlineKeyboardButtonData(
			city.Name(locale),
			fmt.Sprintf("%s:%s", action, city.Code),
		)
		currentRow = append(currentRow, button)

		if len(currentRow) == 2 || i == len(all)-1 {
			rows = append(rows, currentRow)
			currentRow = []tgbotapi.InlineKeyboardButton{}
		}
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(b.t(chatID, "buttons.back", nil), "settings"),
	))

	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &keyboard
}

func (b *Bot) intervalKeyboard(chatID int64) *tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, days := range []int{3, 7, 14, 30} {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("%d", days),
			fmt.Sprintf("interval:%d", days),
		))
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		row,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.t(chatID, "buttons.back", nil), "settings"),
		),
	)
	return &keyboard
}

// filtersKeyboard: price values are millions of IRR, 0 clears the filter.
func (b *Bot) filtersKeyboard(chatID int64) *tgbotapi.InlineKeyboardMarkup {
	priceRow := []tgbotapi.InlineKeyboardButton{}
	for _, millions := range []int{1, 3, 5, 10, 0} {
		label := fmt.Sprintf("< %dM", millions)
		if millions == 0 {
			label = "∅"
		}
		priceRow = append(priceRow, tgbotapi.NewInlineKeyboardButtonData(
			label, fmt.Sprintf("price:%d", millions)))
	}

	timeRow := []tgbotapi.InlineKeyboardButton{}
	for _, bucket := range []string{"any", "morning", "afternoon", "evening"} {
		timeRow = append(timeRow, tgbotapi.NewInlineKeyboardButtonData(
			b.t(chatID, "filters.time."+bucket, nil),
			fmt.Sprintf("time:%s", bucket)))
	}

	seatRow := []tgbotapi.InlineKeyboardButton{}
	for _, seats := range []int{1, 2, 4} {
		seatRow = append(seatRow, tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("≥ %d", seats), fmt.Sprintf("seats:%d", seats)))
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		priceRow,
		timeRow,
		seatRow,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.t(chatID, "buttons.back", nil), "back"),
		),
	)
	return &keyboard
}

func (b *Bot) languageKeyboard() *tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, code := range []string{"fa", "en"} {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			i18n.AvailableLanguages[code], "lang_"+code))
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(row)
	return &keyboard
}

func (b *Bot) resetConfirmKeyboard(chatID int64, offerResume bool) *tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.t(chatID, "buttons.stop", nil), "reset_confirm"),
			tgbotapi.NewInlineKeyboardButtonData(b.t(chatID, "buttons.back", nil), "reset_cancel"),
		),
	}
	if offerResume {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.t(chatID, "buttons.resume", nil), "reset_resume"),
		))
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &keyboard
}
