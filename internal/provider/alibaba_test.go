package provider

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"seatwatch/internal/models"
)

func newTestClient(t *testing.T, baseURL string) *Alibaba {
	t.Helper()
	client, err := NewAlibaba(Options{
		BaseURL:        baseURL,
		RetryAttempts:  3,
		RetryDelay:     10 * time.Millisecond,
		RequestsPerSec: 1000,
	}, zap.NewNop())
	require.NoError(t, err)
	return client
}

func TestFetchTrainsNormalizesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, trainPath, r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "THR", body["origin"])
		assert.Equal(t, "SYZ", body["destination"])
		assert.Equal(t, "2026-09-01", body["departureDate"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":{"departing":[
			{"originName":"Tehran","destinationName":"Shiraz",
			 "moveDatetime":"2026-09-01T08:30:00","arrivalDatetime":"2026-09-01T18:10:00",
			 "trainType":"Ghazal","trainNumber":142,"seat":12,"cost":2500000},
			{"originName":"Tehran","destinationName":"Shiraz",
			 "moveDatetime":"2026-09-01T21:00:00","arrivalDatetime":"2026-09-02T07:00:00",
			 "trainType":"Fadak","trainNumber":147,"seat":0,"cost":4100000}
		]}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	items, err := client.FetchForDate(t.Context(), models.KindTrain, "THR", "SYZ", date)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Tehran", items[0].Origin)
	assert.Equal(t, "Shiraz", items[0].Destination)
	assert.Equal(t, "2026-09-01T08:30:00", items[0].Departure)
	assert.Equal(t, 12, items[0].Seats)
	assert.Equal(t, int64(2500000), items[0].Price)
	assert.Equal(t, "Ghazal", items[0].TrainType)
	assert.Equal(t, "142", items[0].TrainNumber)
	assert.Equal(t, models.KindTrain, items[0].Kind())

	// sold-out entries pass through unchanged; filtering is the caller's job
	assert.Equal(t, 0, items[1].Seats)
}

func TestFetchFlightsTwoStep(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+flightPath, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "MHD", body["origin"])
		assert.Equal(t, float64(1), body["adult"])

		w.Write([]byte(`{"result":{"requestId":"req-778"}}`))
	})
	mux.HandleFunc("GET "+flightPath+"/req-778", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":{"departing":[
			{"origin":"MHD","destination":"THR","airlineCode":"IR",
			 "flightNumber":"452","leaveDateTime":"2026-09-02T06:45:00",
			 "arrivalDateTime":"2026-09-02T08:15:00","priceAdult":9800000,"seat":4}
		]}}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server.URL)
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	items, err := client.FetchForDate(t.Context(), models.KindFlight, "MHD", "THR", date)
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, "IR", items[0].AirlineCode)
	assert.Equal(t, "452", items[0].FlightNumber)
	assert.Equal(t, int64(9800000), items[0].Price)
	assert.Equal(t, models.KindFlight, items[0].Kind())
}

func TestFlightSearchWithoutRequestIDFailsFast(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"result":{}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	_, err := client.FetchForDate(t.Context(), models.KindFlight, "THR", "KIH", date)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "a malformed submit response must not be retried")
}

func TestPastDateSkippedWithoutRequest(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	client.now = func() time.Time {
		return time.Date(2026, 9, 10, 15, 30, 0, 0, time.UTC)
	}

	items, err := client.FetchForDate(t.Context(), models.KindTrain, "THR", "SYZ",
		time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, items)
	assert.Equal(t, int32(0), calls.Load())
}

func TestTodayIsNotTreatedAsPast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":{"departing":[]}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	client.now = func() time.Time {
		return time.Date(2026, 9, 10, 23, 59, 0, 0, time.UTC)
	}

	items, err := client.FetchForDate(t.Context(), models.KindTrain, "THR", "SYZ",
		time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestServerErrorsAreRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"result":{"departing":[
			{"originName":"Tehran","destinationName":"Shiraz",
			 "moveDatetime":"2026-09-01T08:30:00","arrivalDatetime":"2026-09-01T18:10:00",
			 "trainType":"Ghazal","trainNumber":142,"seat":5,"cost":2500000}
		]}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	items, err := client.FetchForDate(t.Context(), models.KindTrain, "THR", "SYZ", date)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRetriesExhaust(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	_, err := client.FetchForDate(t.Context(), models.KindTrain, "THR", "SYZ", date)
	require.Error(t, err)

	var provErr *Error
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "fetch train", provErr.Op)
	assert.Equal(t, int32(3), calls.Load(), "attempts option bounds the retries")
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`blocked`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	_, err := client.FetchForDate(t.Context(), models.KindTrain, "THR", "SYZ", date)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Equal(t, int32(1), calls.Load())
}

func TestInvalidProxyURLRejected(t *testing.T) {
	_, err := NewAlibaba(Options{
		BaseURL:  "https://example.com",
		ProxyURL: "http://bad url with spaces",
	}, zap.NewNop())
	require.Error(t, err)
}
