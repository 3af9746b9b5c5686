package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/placeseek/places-export/pkg/filename"
	"github.com/placeseek/places-export/pkg/places"
)

// Prometheus metrics for session operations.
var (
	sessionsStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "places_sessions_started_total",
		Help: "Total search sessions created",
	})

	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "places_sessions_active",
		Help: "Sessions currently held in the in-memory store",
	})

	pagesFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "places_pages_fetched_total",
		Help: "Total result pages fetched across all sessions",
	})

	tokenWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "places_token_wait_seconds",
		Help:    "Time spent waiting for continuation tokens to become valid",
		Buckets: []float64{0.5, 1, 2, 3, 5},
	})
)

// Searcher fetches one result page. places.Client implements it; tests
// substitute a fake.
type Searcher interface {
	Search(ctx context.Context, query, pageToken string) (*places.SearchResponse, error)
}

// Manager orchestrates the search/paginate flow against a Searcher and keeps
// per-query state in a Store.
type Manager struct {
	searcher Searcher
	store    Store
	logger   zerolog.Logger

	// Injectable clock and sleep so tests simulate the token delay without
	// real waiting.
	now   func() time.Time
	sleep func(d time.Duration)

	// Guards overlapping FetchNext calls for the same session.
	mu       sync.Mutex
	inFlight map[string]*sync.Mutex
}

// NewManager creates a session manager.
func NewManager(searcher Searcher, store Store) *Manager {
	return &Manager{
		searcher: searcher,
		store:    store,
		logger:   log.With().Str("component", "session-manager").Logger(),
		now:      time.Now,
		sleep:    time.Sleep,
		inFlight: make(map[string]*sync.Mutex),
	}
}

// SetClock overrides the clock and sleep functions (for testing).
func (m *Manager) SetClock(now func() time.Time, sleep func(time.Duration)) {
	m.now = now
	m.sleep = sleep
}

// Store returns the backing session store.
func (m *Manager) Store() Store {
	return m.store
}

// Start runs the first page of a search and creates a session for it.
// An empty query fails before any upstream call. A first page with zero
// records fails with ErrNoResults and stores nothing.
func (m *Manager) Start(ctx context.Context, query string) (*Session, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, places.ErrEmptyQuery
	}

	resp, err := m.searcher.Search(ctx, query, "")
	if err != nil {
		return nil, err
	}
	pagesFetchedTotal.Inc()

	records := places.ExtractRecords(resp)
	if len(records) == 0 {
		m.logger.Info().Str("query", query).Msg("Search returned no places")
		return nil, ErrNoResults
	}

	s := &Session{
		ID:            uuid.NewString(),
		Query:         query,
		Records:       records,
		NextPageToken: resp.NextPageToken,
		PageCount:     1,
		Filename:      filename.Derive(query),
	}
	if s.NextPageToken != "" {
		s.NotBefore = m.now().Add(TokenDelay)
	}

	if err := m.store.Put(ctx, s); err != nil {
		return nil, err
	}
	sessionsStartedTotal.Inc()

	m.logger.Info().
		Str("session_id", s.ID).
		Str("query", query).
		Int("records", len(records)).
		Bool("has_more", s.HasMore()).
		Msg("Session started")

	return s, nil
}

// FetchNext fetches the continuation page for a session and appends its
// records. The pagination state is validated before any upstream call:
// a missing token fails with ErrNoMoreResults and a session at the page cap
// fails with ErrPageLimitReached. The call blocks until the continuation
// token's settling interval has elapsed.
//
// The returned slice holds only the newly appended records; the returned
// session reflects the full accumulated state.
func (m *Manager) FetchNext(ctx context.Context, id string) ([]places.Record, *Session, error) {
	lock := m.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	s, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if s.NextPageToken == "" {
		return nil, nil, ErrNoMoreResults
	}
	if s.PageCount >= MaxPages {
		return nil, nil, ErrPageLimitReached
	}

	if wait := s.NotBefore.Sub(m.now()); wait > 0 {
		m.logger.Debug().
			Str("session_id", s.ID).
			Dur("wait", wait).
			Msg("Waiting for continuation token to become valid")
		tokenWaitSeconds.Observe(wait.Seconds())
		m.sleep(wait)
	}

	resp, err := m.searcher.Search(ctx, s.Query, s.NextPageToken)
	if err != nil {
		return nil, nil, err
	}
	pagesFetchedTotal.Inc()

	// An empty continuation page is a legitimate outcome, not an error:
	// the session just stops growing.
	added := places.ExtractRecords(resp)

	s.Records = append(s.Records, added...)
	s.NextPageToken = resp.NextPageToken
	s.PageCount++
	if s.NextPageToken != "" {
		s.NotBefore = m.now().Add(TokenDelay)
	} else {
		s.NotBefore = time.Time{}
	}

	if err := m.store.Put(ctx, s); err != nil {
		return nil, nil, err
	}

	m.logger.Info().
		Str("session_id", s.ID).
		Int("page", s.PageCount).
		Int("added", len(added)).
		Int("total", len(s.Records)).
		Str("state", string(s.State())).
		Msg("Fetched continuation page")

	return added, s, nil
}

// Get retrieves a session by id.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	return m.store.Get(ctx, id)
}

// sessionLock returns the mutex guarding one session's pagination.
func (m *Manager) sessionLock(id string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok := m.inFlight[id]
	if !ok {
		lock = &sync.Mutex{}
		m.inFlight[id] = lock
	}
	return lock
}
