package search

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"seatwatch/internal/models"
)

func train(number, departure string, seats int, price int64) models.ResultItem {
	return models.ResultItem{
		Origin:      "THR",
		Destination: "SYZ",
		Departure:   departure,
		Arrival:     "",
		Seats:       seats,
		Price:       price,
		TrainType:   "Ghazal",
		TrainNumber: number,
	}
}

func flight(number, departure string, seats int, price int64) models.ResultItem {
	return models.ResultItem{
		Origin:       "THR",
		Destination:  "SYZ",
		Departure:    departure,
		Seats:        seats,
		Price:        price,
		AirlineCode:  "IR",
		FlightNumber: number,
	}
}

func TestMatching(t *testing.T) {
	testCases := []struct {
		name     string
		batch    []models.ResultItem
		kind     models.SearchKind
		filters  models.Filters
		expected []string // expected numbers, in order
	}{
		{
			name: "wrong kind excluded",
			batch: []models.ResultItem{
				train("101", "2025-03-20T08:00:00", 5, 1000),
				flight("IR700", "2025-03-20T09:00:00", 5, 1000),
			},
			kind:     models.KindTrain,
			expected: []string{"101"},
		},
		{
			name: "zero seats excluded",
			batch: []models.ResultItem{
				train("101", "2025-03-20T08:00:00", 0, 1000),
				train("102", "2025-03-20T09:00:00", 3, 1000),
			},
			kind:     models.KindTrain,
			expected: []string{"102"},
		},
		{
			name: "price ceiling is exclusive",
			batch: []models.ResultItem{
				train("101", "2025-03-20T08:00:00", 5, 2_999_999),
				train("102", "2025-03-20T09:00:00", 5, 3_000_000),
				train("103", "2025-03-20T10:00:00", 5, 3_000_001),
			},
			kind:     models.KindTrain,
			filters:  models.Filters{PriceCeiling: 3_000_000},
			expected: []string{"101"},
		},
		{
			name: "seat floor is inclusive",
			batch: []models.ResultItem{
				train("101", "2025-03-20T08:00:00", 1, 1000),
				train("102", "2025-03-20T09:00:00", 2, 1000),
				train("103", "2025-03-20T10:00:00", 5, 1000),
			},
			kind:     models.KindTrain,
			filters:  models.Filters{SeatFloor: 2},
			expected: []string{"102", "103"},
		},
		{
			name: "morning bucket half open",
			batch: []models.ResultItem{
				train("101", "2025-03-20T05:59:00", 5, 1000),
				train("102", "2025-03-20T06:00:00", 5, 1000),
				train("103", "2025-03-20T11:59:00", 5, 1000),
				train("104", "2025-03-20T12:00:00", 5, 1000),
			},
			kind:     models.KindTrain,
			filters:  models.Filters{Bucket: models.BucketMorning},
			expected: []string{"102", "103"},
		},
		{
			name: "evening bucket with malformed timestamp fallback",
			batch: []models.ResultItem{
				train("101", "2025-03-20T19:30:00+03:30", 5, 1000),
				train("102", "2025-03-20X21:15:00GARBAGE", 5, 1000),
				train("103", "2025-03-20T10:00:00", 5, 1000),
			},
			kind:     models.KindTrain,
			filters:  models.Filters{Bucket: models.BucketEvening},
			expected: []string{"101", "102"},
		},
		{
			name: "sorted by departure then price",
			batch: []models.ResultItem{
				train("late", "2025-03-20T18:00:00", 5, 1000),
				train("early-expensive", "2025-03-20T08:00:00", 5, 9000),
				train("early-cheap", "2025-03-20T08:00:00", 5, 2000),
			},
			kind:     models.KindTrain,
			expected: []string{"early-cheap", "early-expensive", "late"},
		},
		{
			name: "offset naive and offset aware sort together",
			batch: []models.ResultItem{
				train("b", "2025-03-21T08:00:00", 5, 1000),
				train("a", "2025-03-20T08:00:00+03:30", 5, 1000),
			},
			kind:     models.KindTrain,
			expected: []string{"a", "b"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Matching(tc.batch, tc.kind, tc.filters)
			numbers := make([]string, 0, len(got))
			for _, item := range got {
				numbers = append(numbers, item.TrainNumber+item.FlightNumber)
			}
			assert.Equal(t, tc.expected, numbers)
		})
	}
}

func TestMatchingOrderingIsNonDecreasing(t *testing.T) {
	batch := []models.ResultItem{
		train("1", "2025-03-22T07:00:00", 3, 500),
		train("2", "2025-03-20T23:00:00", 1, 900),
		train("3", "2025-03-20T23:00:00", 2, 100),
		train("4", "2025-03-21T00:30:00", 4, 700),
		train("5", "2025-03-20T06:10:00", 9, 50),
	}

	got := Matching(batch, models.KindTrain, models.Filters{})
	assert.Len(t, got, 5)
	isSorted := sort.SliceIsSorted(got, func(i, j int) bool {
		return departsBefore(got[i], got[j])
	})
	assert.True(t, isSorted, "output must be non-decreasing in (departure, price)")
}

func TestMatchingSeatFloorScenario(t *testing.T) {
	// seats [1, 2, 5] with floor 2 keeps only 2 and 5, relative order intact
	batch := []models.ResultItem{
		train("one", "2025-03-20T08:00:00", 1, 1000),
		train("two", "2025-03-20T09:00:00", 2, 1000),
		train("five", "2025-03-20T10:00:00", 5, 1000),
	}

	got := Matching(batch, models.KindTrain, models.Filters{SeatFloor: 2})
	assert.Len(t, got, 2)
	assert.Equal(t, "two", got[0].TrainNumber)
	assert.Equal(t, "five", got[1].TrainNumber)
}
