package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindDiscrimination(t *testing.T) {
	assert.Equal(t, KindTrain, ResultItem{TrainNumber: "142"}.Kind())
	assert.Equal(t, KindFlight, ResultItem{FlightNumber: "452"}.Kind())
	assert.Equal(t, KindNone, ResultItem{}.Kind())
}

func TestSearchKindString(t *testing.T) {
	assert.Equal(t, "train", KindTrain.String())
	assert.Equal(t, "flight", KindFlight.String())
	assert.Equal(t, "none", KindNone.String())
}

func TestParseTimestamp(t *testing.T) {
	ts, ok := ParseTimestamp("2026-09-01T08:30:00Z")
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 9, 1, 8, 30, 0, 0, time.UTC), ts)

	// offset-naive, the provider's usual shape
	ts, ok = ParseTimestamp("2026-09-01T08:30:00")
	require.True(t, ok)
	assert.Equal(t, 8, ts.Hour())

	ts, ok = ParseTimestamp("2026-09-01 08:30:00")
	require.True(t, ok)
	assert.Equal(t, 30, ts.Minute())

	_, ok = ParseTimestamp("tomorrow morning")
	assert.False(t, ok)
}

func TestDepartureHourFallsBackToRawText(t *testing.T) {
	assert.Equal(t, 21, ResultItem{Departure: "2026-09-01T21:15:00"}.DepartureHour())

	// unparseable, but the hour digits are still where ISO puts them
	assert.Equal(t, 21, ResultItem{Departure: "2026-09-01T21:15:00GARBAGE+"}.DepartureHour())

	assert.Equal(t, 0, ResultItem{Departure: "???"}.DepartureHour())
}

func TestClocksAndDate(t *testing.T) {
	item := ResultItem{
		Departure: "2026-09-01T08:30:00",
		Arrival:   "2026-09-01T18:05:00",
	}
	assert.Equal(t, "08:30", item.DepartureClock())
	assert.Equal(t, "18:05", item.ArrivalClock())
	assert.Equal(t, "2026-09-01", item.DepartureDate())

	malformed := ResultItem{Departure: "2026-09-01T23:59:00junk", Arrival: "??"}
	assert.Equal(t, "23:59", malformed.DepartureClock())
	assert.Equal(t, "??", malformed.ArrivalClock())
	assert.Equal(t, "2026-09-01", malformed.DepartureDate())
}

func TestTimeBucketContains(t *testing.T) {
	tests := []struct {
		bucket TimeBucket
		hour   int
		want   bool
	}{
		{BucketMorning, 6, true},
		{BucketMorning, 11, true},
		{BucketMorning, 12, false},
		{BucketMorning, 5, false},
		{BucketAfternoon, 12, true},
		{BucketAfternoon, 17, true},
		{BucketAfternoon, 18, false},
		{BucketEvening, 18, true},
		{BucketEvening, 23, true},
		{BucketEvening, 17, false},
		{BucketAny, 3, true},
		{TimeBucket(""), 3, true},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, tt.bucket.Contains(tt.hour),
			"bucket %q hour %d", tt.bucket, tt.hour)
	}
}
