package search

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"seatwatch/internal/models"
	"seatwatch/internal/provider"
)

const (
	// shutdownTimeout bounds how long Stop waits for a loop to observe
	// cancellation before giving up on it.
	shutdownTimeout = 5 * time.Second

	queueCapacity = 16
)

// Defaults seed a freshly created session.
type Defaults struct {
	Origin      string
	Destination string
	Days        int
}

// Registry owns one Session per chat, created lazily on first interaction and
// kept for the process lifetime.
type Registry struct {
	mu       sync.Mutex
	sessions map[int64]*Session

	provider provider.Client
	gateway  Gateway
	defaults Defaults
	logger   *zap.Logger
}

// NewRegistry creates a session registry.
func NewRegistry(client provider.Client, gateway Gateway, defaults Defaults, logger *zap.Logger) *Registry {
	return &Registry{
		sessions: make(map[int64]*Session),
		provider: client,
		gateway:  gateway,
		defaults: defaults,
		logger:   logger,
	}
}

// Get returns the chat's session, creating it with the configured defaults on
// first use.
func (r *Registry) Get(chatID int64) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[chatID]; ok {
		return s
	}
	s := &Session{
		ChatID:      chatID,
		provider:    r.provider,
		gateway:     r.gateway,
		logger:      r.logger.With(zap.Int64("chat_id", chatID)),
		origin:      r.defaults.Origin,
		destination: r.defaults.Destination,
		days:        r.defaults.Days,
	}
	r.sessions[chatID] = s
	return s
}

// run is the state of one launched polling/delivery loop pair. Each Start
// creates a fresh run so a stale pair can never observe the new one's queue
// or flags.
type run struct {
	kind   models.SearchKind
	params models.SearchParams

	ctx    context.Context
	cancel context.CancelFunc

	queue        chan []models.ResultItem
	pollerDone   chan struct{}
	deliveryDone chan struct{}

	waitingForMore atomic.Bool

	mu        sync.Mutex
	delivered []models.ResultItem
	seen      map[string]struct{}
}

func (r *run) deliveredCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.delivered)
}

func (r *run) appendDelivered(items []models.ResultItem) {
	r.mu.Lock()
	r.delivered = append(r.delivered, items...)
	for _, item := range items {
		r.seen[identity(item)] = struct{}{}
	}
	r.mu.Unlock()
}

// unseen drops items already delivered this search. The polling loop pushes
// the same availability again every cycle; only new or changed entries are
// worth another notification.
func (r *run) unseen(items []models.ResultItem) []models.ResultItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := items[:0]
	for _, item := range items {
		if _, ok := r.seen[identity(item)]; !ok {
			out = append(out, item)
		}
	}
	return out
}

func identity(item models.ResultItem) string {
	return item.Departure + "|" + item.TrainNumber + item.FlightNumber + "|" +
		strconv.FormatInt(item.Price, 10) + "|" + strconv.Itoa(item.Seats)
}

// Session is the per-chat search state: route, date interval, filters, and
// the currently running loop pair, if any. All methods are safe to call
// concurrently with running loops.
type Session struct {
	ChatID int64

	provider provider.Client
	gateway  Gateway
	logger   *zap.Logger

	mu              sync.Mutex
	origin          string
	destination     string
	days            int
	filters         models.Filters
	active          *run
	lastKind        models.SearchKind
	settingsChanged bool
}

// Start launches a new polling/delivery pair for the given kind. Any active
// search, same kind or not, is stopped first: starting is always a full
// re-arm, so result numbering restarts from 1.
func (s *Session) Start(kind models.SearchKind) {
	s.Stop()

	s.mu.Lock()
	start := time.Now().UTC().Truncate(24 * time.Hour)
	params := models.SearchParams{
		Origin:      s.origin,
		Destination: s.destination,
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, s.days-1),
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &run{
		kind:         kind,
		params:       params,
		ctx:          ctx,
		cancel:       cancel,
		queue:        make(chan []models.ResultItem, queueCapacity),
		pollerDone:   make(chan struct{}),
		deliveryDone: make(chan struct{}),
		seen:         make(map[string]struct{}),
	}
	s.active = r
	s.lastKind = kind
	s.settingsChanged = false
	s.mu.Unlock()

	s.logger.Info("Search started",
		zap.String("kind", kind.String()),
		zap.String("origin", params.Origin),
		zap.String("destination", params.Destination),
		zap.String("start", params.StartDate.Format("2006-01-02")),
		zap.String("end", params.EndDate.Format("2006-01-02")),
	)

	go s.runPolling(r)
	go s.runDelivery(r)
}

// Stop cancels the active loop pair, waits a bounded time for each loop to
// exit, drains the queue, and resets the session to idle. A loop missing the
// deadline is logged and abandoned; its late output is immaterial because the
// run is already detached from the session.
func (s *Session) Stop() {
	s.mu.Lock()
	r := s.active
	s.active = nil
	s.mu.Unlock()

	if r == nil {
		return
	}

	r.cancel()
	if !awaitDone(r.pollerDone, shutdownTimeout) {
		s.logger.Warn("Polling loop did not stop within timeout")
	}
	if !awaitDone(r.deliveryDone, shutdownTimeout) {
		s.logger.Warn("Delivery loop did not stop within timeout")
	}

	for {
		select {
		case <-r.queue:
		default:
			s.logger.Info("Search stopped", zap.String("kind", r.kind.String()))
			return
		}
	}
}

// Resume restarts the last search with its captured kind; used by the reset
// flow when settings have not changed. Returns false when there is nothing to
// resume.
func (s *Session) Resume() bool {
	s.mu.Lock()
	kind := s.lastKind
	s.mu.Unlock()

	if kind == models.KindNone {
		return false
	}
	s.Start(kind)
	return true
}

// More releases the pagination gate so the delivery loop sends the next page.
func (s *Session) More() {
	if r := s.currentRun(); r != nil {
		r.waitingForMore.Store(false)
	}
}

// Active reports whether a loop pair is currently running.
func (s *Session) Active() bool {
	return s.currentRun() != nil
}

// Kind returns the active search kind, KindNone when idle.
func (s *Session) Kind() models.SearchKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return models.KindNone
	}
	return s.active.kind
}

// LastKind returns the kind of the most recently started search, KindNone if
// none was ever started. It survives Stop so the reset flow can offer resume.
func (s *Session) LastKind() models.SearchKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastKind
}

// ActiveParams returns the parameters the running search was started with.
func (s *Session) ActiveParams() (models.SearchParams, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return models.SearchParams{}, false
	}
	return s.active.params, true
}

// DeliveredCount returns how many items have been sent this search.
func (s *Session) DeliveredCount() int {
	if r := s.currentRun(); r != nil {
		return r.deliveredCount()
	}
	return 0
}

// WaitingForMore reports whether delivery is paused on the pagination gate.
func (s *Session) WaitingForMore() bool {
	if r := s.currentRun(); r != nil {
		return r.waitingForMore.Load()
	}
	return false
}

// SettingsChanged reports whether route, interval or filters were modified
// after the last search started; it gates the resume offer on reset.
func (s *Session) SettingsChanged() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settingsChanged
}

func (s *Session) SetOrigin(code string) {
	s.mu.Lock()
	s.origin = code
	s.settingsChanged = true
	s.mu.Unlock()
}

func (s *Session) SetDestination(code string) {
	s.mu.Lock()
	s.destination = code
	s.settingsChanged = true
	s.mu.Unlock()
}

func (s *Session) SetDays(days int) {
	s.mu.Lock()
	s.days = days
	s.settingsChanged = true
	s.mu.Unlock()
}

func (s *Session) SetPriceCeiling(price int64) {
	s.mu.Lock()
	s.filters.PriceCeiling = price
	s.settingsChanged = true
	s.mu.Unlock()
}

func (s *Session) SetSeatFloor(seats int) {
	s.mu.Lock()
	s.filters.SeatFloor = seats
	s.settingsChanged = true
	s.mu.Unlock()
}

func (s *Session) SetTimeBucket(bucket models.TimeBucket) {
	s.mu.Lock()
	s.filters.Bucket = bucket
	s.settingsChanged = true
	s.mu.Unlock()
}

func (s *Session) Origin() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.origin
}

func (s *Session) Destination() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destination
}

func (s *Session) Days() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.days
}

// Filters returns the current filters; the delivery loop reads them live so
// a filter change applies to the next batch.
func (s *Session) Filters() models.Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

func (s *Session) currentRun() *run {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func awaitDone(done chan struct{}, timeout time.Duration) bool {
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
