package search

import (
	"go.uber.org/zap"

	"seatwatch/internal/models"
)

// runPolling sweeps the date range against the provider over and over until
// the run is cancelled. A route with no seats now may free up later, so after
// finishing the last date the cycle restarts from the first. Each date with
// at least one seated item pushes the whole batch onto the queue; empty dates
// push nothing.
func (s *Session) runPolling(r *run) {
	defer close(r.pollerDone)

	cycle := 0
	for r.ctx.Err() == nil {
		cycle++
		for date := r.params.StartDate; !date.After(r.params.EndDate); date = date.AddDate(0, 0, 1) {
			if r.ctx.Err() != nil {
				s.logger.Info("Polling loop cancelled mid-cycle", zap.Int("cycle", cycle))
				return
			}

			items, err := s.provider.FetchForDate(r.ctx, r.kind, r.params.Origin, r.params.Destination, date)
			if err != nil {
				if r.ctx.Err() != nil {
					return
				}
				// One bad date does not abort the cycle.
				s.logger.Error("Provider fetch failed after retries",
					zap.Error(err),
					zap.String("date", date.Format("2006-01-02")),
				)
				continue
			}
			if !anySeats(items) {
				continue
			}

			select {
			case r.queue <- items:
				s.logger.Info("Availability found",
					zap.String("date", date.Format("2006-01-02")),
					zap.Int("count", len(items)),
				)
			case <-r.ctx.Done():
				return
			}
		}
		s.logger.Debug("Polling cycle complete, restarting", zap.Int("cycle", cycle))
	}
}

// anySeats reports whether a batch holds at least one item with a free seat.
func anySeats(items []models.ResultItem) bool {
	for _, item := range items {
		if item.Seats > 0 {
			return true
		}
	}
	return false
}
