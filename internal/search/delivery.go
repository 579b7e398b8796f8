package search

import (
	"time"

	"go.uber.org/zap"

	"seatwatch/internal/models"
)

const (
	// PageSize is how many items one delivered page holds.
	PageSize = 10

	dequeueTimeout   = 500 * time.Millisecond
	morePollInterval = time.Second
)

// runDelivery drains the run's queue, filters and sorts each batch, and sends
// results in pages of PageSize, pausing on the "waiting for more" gate
// between pages. Batches are processed strictly in arrival order; a new batch
// is never merged into an undelivered remainder.
func (s *Session) runDelivery(r *run) {
	defer close(r.deliveryDone)

	var buffer []models.ResultItem
	for r.ctx.Err() == nil {
		if r.waitingForMore.Load() {
			select {
			case <-time.After(morePollInterval):
			case <-r.ctx.Done():
				return
			}
			continue
		}

		if len(buffer) == 0 {
			select {
			case batch := <-r.queue:
				buffer = r.unseen(Matching(batch, r.kind, s.Filters()))
			case <-time.After(dequeueTimeout):
			case <-r.ctx.Done():
				return
			}
			continue
		}

		n := PageSize
		if len(buffer) < n {
			n = len(buffer)
		}
		page := buffer[:n]
		offset := r.deliveredCount()
		for i, item := range page {
			if err := s.gateway.SendResult(s.ChatID, item, offset+i+1); err != nil {
				// Best-effort delivery: a bad item or send failure skips
				// that item, never the page.
				s.logger.Error("Failed to deliver result",
					zap.Error(err),
					zap.Int("index", offset+i+1),
				)
			}
		}
		r.appendDelivered(page)
		buffer = buffer[n:]

		if len(buffer) > 0 || r.ctx.Err() == nil {
			if err := s.gateway.SendMorePrompt(s.ChatID); err != nil {
				s.logger.Error("Failed to send pagination prompt", zap.Error(err))
			}
			r.waitingForMore.Store(true)
		}
	}
}
