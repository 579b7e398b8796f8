package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"seatwatch/internal/models"
)

const (
	trainPath  = "/api/v2/train/available"
	flightPath = "/api/v1/flights/domestic/available"

	userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
)

// Options configures the Alibaba client.
type Options struct {
	BaseURL        string
	ProxyURL       string // optional
	RetryAttempts  int
	RetryDelay     time.Duration
	RequestsPerSec float64
}

// Alibaba queries the booking site's internal availability API. Trains are a
// single POST; flights are a submit-then-poll pair keyed by request id.
type Alibaba struct {
	baseURL  string
	http     *http.Client
	limiter  *rate.Limiter
	attempts int
	delay    time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewAlibaba creates a client for the availability API.
func NewAlibaba(opts Options, logger *zap.Logger) (*Alibaba, error) {
	transport := &http.Transport{}
	if opts.ProxyURL != "" {
		proxy, err := url.Parse(opts.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxy)
		logger.Info("Provider requests routed through proxy", zap.String("proxy", proxy.Host))
	}

	attempts := opts.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	rps := opts.RequestsPerSec
	if rps <= 0 {
		rps = 2
	}

	return &Alibaba{
		baseURL:  opts.BaseURL,
		http:     &http.Client{Transport: transport, Timeout: 30 * time.Second},
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
		attempts: attempts,
		delay:    opts.RetryDelay,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// FetchForDate fetches availability for one calendar date, retrying transient
// failures with a fixed delay. Dates before the provider's current UTC date
// are rejected without retry and yield no results.
func (a *Alibaba) FetchForDate(ctx context.Context, kind models.SearchKind, origin, destination string, date time.Time) ([]models.ResultItem, error) {
	today := a.now().UTC().Truncate(24 * time.Hour)
	if date.Before(today) {
		a.logger.Error("Rejected past departure date",
			zap.String("date", date.Format("2006-01-02")),
			zap.String("today_utc", today.Format("2006-01-02")),
		)
		return nil, nil
	}

	var items []models.ResultItem
	operation := func() error {
		var err error
		switch kind {
		case models.KindTrain:
			items, err = a.fetchTrains(ctx, origin, destination, date)
		case models.KindFlight:
			items, err = a.fetchFlights(ctx, origin, destination, date)
		default:
			return backoff.Permanent(fmt.Errorf("unsupported search kind %s", kind))
		}
		if err != nil {
			a.logger.Warn("Provider fetch failed, will retry",
				zap.Error(err),
				zap.String("kind", kind.String()),
				zap.String("date", date.Format("2006-01-02")),
			)
		}
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(a.delay), uint64(a.attempts-1)),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, newError("fetch "+kind.String(), err)
	}
	return items, nil
}

type trainResponse struct {
	Result struct {
		Departing []trainEntry `json:"departing"`
	} `json:"result"`
}

type trainEntry struct {
	OriginName      string      `json:"originName"`
	DestinationName string      `json:"destinationName"`
	MoveDatetime    string      `json:"moveDatetime"`
	ArrivalDatetime string      `json:"arrivalDatetime"`
	TrainType       string      `json:"trainType"`
	TrainNumber     json.Number `json:"trainNumber"`
	Seat            int         `json:"seat"`
	Cost            int64       `json:"cost"`
}

func (a *Alibaba) fetchTrains(ctx context.Context, origin, destination string, date time.Time) ([]models.ResultItem, error) {
	body := map[string]interface{}{
		"origin":         origin,
		"destination":    destination,
		"departureDate":  date.Format("2006-01-02"),
		"passengerCount": 1,
		"ticketType":     "Family",
	}

	var resp trainResponse
	if err := a.postJSON(ctx, a.baseURL+trainPath, body, &resp); err != nil {
		return nil, err
	}

	items := make([]models.ResultItem, 0, len(resp.Result.Departing))
	for _, t := range resp.Result.Departing {
		items = append(items, models.ResultItem{
			Origin:      t.OriginName,
			Destination: t.DestinationName,
			Departure:   t.MoveDatetime,
			Arrival:     t.ArrivalDatetime,
			Seats:       t.Seat,
			Price:       t.Cost,
			TrainType:   t.TrainType,
			TrainNumber: t.TrainNumber.String(),
		})
	}
	a.logger.Info("Fetched trains",
		zap.String("date", date.Format("2006-01-02")),
		zap.Int("count", len(items)),
	)
	return items, nil
}

type flightSubmitResponse struct {
	Result struct {
		RequestID string `json:"requestId"`
	} `json:"result"`
}

type flightResponse struct {
	Result struct {
		Departing []flightEntry `json:"departing"`
	} `json:"result"`
}

type flightEntry struct {
	Origin          string `json:"origin"`
	Destination     string `json:"destination"`
	AirlineCode     string `json:"airlineCode"`
	FlightNumber    string `json:"flightNumber"`
	LeaveDateTime   string `json:"leaveDateTime"`
	ArrivalDateTime string `json:"arrivalDateTime"`
	PriceAdult      int64  `json:"priceAdult"`
	Seat            int    `json:"seat"`
}

// fetchFlights is the two-step protocol: submit the search, then poll the
// result set by request id.
func (a *Alibaba) fetchFlights(ctx context.Context, origin, destination string, date time.Time) ([]models.ResultItem, error) {
	body := map[string]interface{}{
		"origin":        origin,
		"destination":   destination,
		"departureDate": date.Format("2006-01-02"),
		"returnDate":    "",
		"adult":         1,
		"child":         0,
		"infant":        0,
	}

	var submit flightSubmitResponse
	if err := a.postJSON(ctx, a.baseURL+flightPath, body, &submit); err != nil {
		return nil, err
	}
	if submit.Result.RequestID == "" {
		return nil, backoff.Permanent(fmt.Errorf("flight search returned no request id"))
	}

	var resp flightResponse
	if err := a.getJSON(ctx, a.baseURL+flightPath+"/"+submit.Result.RequestID, &resp); err != nil {
		return nil, err
	}

	items := make([]models.ResultItem, 0, len(resp.Result.Departing))
	for _, f := range resp.Result.Departing {
		items = append(items, models.ResultItem{
			Origin:       f.Origin,
			Destination:  f.Destination,
			Departure:    f.LeaveDateTime,
			Arrival:      f.ArrivalDateTime,
			Seats:        f.Seat,
			Price:        f.PriceAdult,
			AirlineCode:  f.AirlineCode,
			FlightNumber: f.FlightNumber,
		})
	}
	a.logger.Info("Fetched flights",
		zap.String("date", date.Format("2006-01-02")),
		zap.Int("count", len(items)),
	)
	return items, nil
}

func (a *Alibaba) postJSON(ctx context.Context, url string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return backoff.Permanent(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	return a.do(req, out)
}

func (a *Alibaba) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return backoff.Permanent(err)
	}
	return a.do(req, out)
}

// do issues one rate-limited request. Transport errors and 5xx responses are
// retryable; other non-2xx responses are permanent.
func (a *Alibaba) do(req *http.Request, out interface{}) error {
	if err := a.limiter.Wait(req.Context()); err != nil {
		return backoff.Permanent(err)
	}

	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("User-Agent", userAgent)

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("provider returned status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return backoff.Permanent(fmt.Errorf("provider returned status %d: %s", resp.StatusCode, text))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return backoff.Permanent(fmt.Errorf("failed to decode provider response: %w", err))
	}
	return nil
}
