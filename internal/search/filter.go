package search

import (
	"sort"

	"seatwatch/internal/models"
)

// Matching reduces a raw provider batch to the deliverable items: the right
// kind, at least one free seat, and passing every active session filter. The
// result is sorted earliest departure first, cheaper price as tie-break.
func Matching(batch []models.ResultItem, kind models.SearchKind, filters models.Filters) []models.ResultItem {
	out := make([]models.ResultItem, 0, len(batch))
	for _, item := range batch {
		if item.Kind() != kind || item.Seats <= 0 {
			continue
		}
		if filters.PriceCeiling > 0 && item.Price >= filters.PriceCeiling {
			continue
		}
		if filters.SeatFloor > 0 && item.Seats < filters.SeatFloor {
			continue
		}
		if !filters.Bucket.Contains(item.DepartureHour()) {
			continue
		}
		out = append(out, item)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return departsBefore(out[i], out[j])
	})
	return out
}

// departsBefore orders items by (departure timestamp, price). Timestamps that
// fail to parse are compared as raw ISO text, which sorts the same way for
// well-formed dates.
func departsBefore(a, b models.ResultItem) bool {
	ta, aok := models.ParseTimestamp(a.Departure)
	tb, bok := models.ParseTimestamp(b.Departure)
	if aok && bok {
		if !ta.Equal(tb) {
			return ta.Before(tb)
		}
	} else if a.Departure != b.Departure {
		return a.Departure < b.Departure
	}
	return a.Price < b.Price
}
