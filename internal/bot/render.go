package bot

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"seatwatch/internal/cities"
	"seatwatch/internal/models"
)

var pricePrinter = message.NewPrinter(language.English)

// formatPrice renders a minor-unit amount with thousands separators.
func formatPrice(price int64) string {
	return pricePrinter.Sprintf("%d", price)
}

// SendResult renders one numbered result into the chat's locale and sends it.
// It implements search.Gateway.
func (b *Bot) SendResult(chatID int64, item models.ResultItem, index int) error {
	text, err := b.renderResult(b.locale(chatID), item, index)
	if err != nil {
		return err
	}
	if b.api == nil {
		return nil // For testing
	}
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("failed to send result: %w", err)
	}
	return nil
}

// SendMorePrompt shows the "more / new search" footer after a page.
func (b *Bot) SendMorePrompt(chatID int64) error {
	if b.api == nil {
		return nil // For testing
	}
	msg := tgbotapi.NewMessage(chatID, b.t(chatID, "result.more_prompt", nil))
	msg.ReplyMarkup = *b.morePromptKeyboard(chatID)
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send more prompt: %w", err)
	}
	return nil
}

// renderResult builds the message text for one item: localized route names,
// formatted date and HH:MM times, seat count, separated price, and the
// kind-specific train or flight identification.
func (b *Bot) renderResult(locale string, item models.ResultItem, index int) (string, error) {
	params := map[string]string{
		"index":       strconv.Itoa(index),
		"origin":      b.cityName(item.Origin, locale),
		"destination": b.cityName(item.Destination, locale),
		"date":        item.DepartureDate(),
		"departure":   item.DepartureClock(),
		"arrival":     item.ArrivalClock(),
		"seats":       strconv.Itoa(item.Seats),
		"price":       formatPrice(item.Price),
	}

	switch item.Kind() {
	case models.KindTrain:
		params["type"] = item.TrainType
		params["number"] = item.TrainNumber
		return b.tr.T("result.train", locale, params), nil
	case models.KindFlight:
		params["airline"] = item.AirlineCode
		params["number"] = item.FlightNumber
		return b.tr.T("result.flight", locale, params), nil
	default:
		return "", fmt.Errorf("item has neither a train nor a flight number")
	}
}

// cityName maps a provider code to a localized display name. Train responses
// already carry display names, so unknown values pass through untouched.
func (b *Bot) cityName(codeOrName, locale string) string {
	if city, ok := cities.ByCode(codeOrName); ok {
		return city.Name(locale)
	}
	return codeOrName
}
