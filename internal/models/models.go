package models

import "time"

// SearchKind identifies what a session is searching for
type SearchKind int

const (
	KindNone SearchKind = iota
	KindTrain
	KindFlight
)

func (k SearchKind) String() string {
	switch k {
	case KindTrain:
		return "train"
	case KindFlight:
		return "flight"
	default:
		return "none"
	}
}

// TimeBucket is a time-of-day filter on the departure hour
type TimeBucket string

const (
	BucketAny       TimeBucket = "any"
	BucketMorning   TimeBucket = "morning"   // [06:00, 12:00)
	BucketAfternoon TimeBucket = "afternoon" // [12:00, 18:00)
	BucketEvening   TimeBucket = "evening"   // [18:00, 24:00)
)

// Contains reports whether the given departure hour falls inside the bucket.
func (b TimeBucket) Contains(hour int) bool {
	switch b {
	case BucketMorning:
		return hour >= 6 && hour < 12
	case BucketAfternoon:
		return hour >= 12 && hour < 18
	case BucketEvening:
		return hour >= 18 && hour < 24
	default:
		return true
	}
}

// Filters are the per-session result filters. Zero values mean "not set".
type Filters struct {
	PriceCeiling int64      // exclude items priced at or above this, minor units
	SeatFloor    int        // exclude items with fewer seats than this
	Bucket       TimeBucket // empty or BucketAny means no time filter
}

// SearchParams are the route and date range a search runs over.
type SearchParams struct {
	Origin      string
	Destination string
	StartDate   time.Time // inclusive
	EndDate     time.Time // inclusive
}

// ResultItem is one available train or flight, normalized from the
// provider's raw response. Exactly one of TrainNumber / FlightNumber is set
// and discriminates the kind.
type ResultItem struct {
	Origin      string
	Destination string
	Departure   string // raw provider timestamp, ISO-8601, possibly offset-naive
	Arrival     string
	Seats       int
	Price       int64 // adult fare, minor currency units

	TrainType   string
	TrainNumber string

	AirlineCode  string
	FlightNumber string
}

// Kind reports whether the item is a train or a flight, discriminated by
// which number field the provider populated.
func (r ResultItem) Kind() SearchKind {
	switch {
	case r.TrainNumber != "":
		return KindTrain
	case r.FlightNumber != "":
		return KindFlight
	default:
		return KindNone
	}
}

// timestampLayouts are tried in order when parsing provider timestamps.
// Malformed responses omit the offset, so the naive layout comes second.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses a provider timestamp, tolerating offset-naive text.
func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DepartureHour returns the departure hour of day. When the timestamp does
// not parse it falls back to slicing the hour digits out of the raw ISO text.
func (r ResultItem) DepartureHour() int {
	if t, ok := ParseTimestamp(r.Departure); ok {
		return t.Hour()
	}
	if len(r.Departure) >= 13 {
		h := int(r.Departure[11]-'0')*10 + int(r.Departure[12]-'0')
		if h >= 0 && h < 24 {
			return h
		}
	}
	return 0
}

// DepartureClock returns the departure time as HH:MM, with the same raw-text
// fallback as DepartureHour.
func (r ResultItem) DepartureClock() string {
	return clock(r.Departure)
}

// ArrivalClock returns the arrival time as HH:MM.
func (r ResultItem) ArrivalClock() string {
	return clock(r.Arrival)
}

func clock(s string) string {
	if t, ok := ParseTimestamp(s); ok {
		return t.Format("15:04")
	}
	if len(s) >= 16 {
		return s[11:16]
	}
	return s
}

// DepartureDate returns the calendar date of departure as YYYY-MM-DD.
func (r ResultItem) DepartureDate() string {
	if t, ok := ParseTimestamp(r.Departure); ok {
		return t.Format("2006-01-02")
	}
	if len(r.Departure) >= 10 {
		return r.Departure[:10]
	}
	return r.Departure
}
