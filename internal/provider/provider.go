package provider

import (
	"context"
	"time"

	"seatwatch/internal/models"
)

// Client fetches seat availability for a single calendar date. Implementations
// hide the provider's wire protocol; callers only see normalized items.
type Client interface {
	FetchForDate(ctx context.Context, kind models.SearchKind, origin, destination string, date time.Time) ([]models.ResultItem, error)
}

// Error wraps a provider failure with the operation that produced it.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op string, err error) *Error {
	return &Error{Op: op, Err: err}
}
