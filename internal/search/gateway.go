package search

import "seatwatch/internal/models"

// Gateway is what the delivery loop needs from the chat transport: render and
// send one numbered result, and show the "more / new search" prompt after a
// page. Implementations are best-effort; errors are logged, never fatal.
type Gateway interface {
	SendResult(chatID int64, item models.ResultItem, index int) error
	SendMorePrompt(chatID int64) error
}
