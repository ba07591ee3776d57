// Package viewer ties the feed, the filter, the loading indicator and the modal together.
// Every browser page is a client with its own view, load token, indicator and modal,
// so pages never see each other's state.
package viewer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/apodview/pkg/domain"
	"github.com/umputun/apodview/pkg/gallery"
	"github.com/umputun/apodview/pkg/loading"
	"github.com/umputun/apodview/pkg/modal"
)

//go:generate moq -out mocks/feed_client.go -pkg mocks -skip-ensure -fmt goimports . FeedClient

// DefaultLoadingMessage is shown while the feed is loading
const DefaultLoadingMessage = "🔄 Loading space photos…"

const (
	defaultIdleTTL    = 30 * time.Minute
	defaultMaxClients = 1000
)

// ErrNotFound returned when a record is not part of the client's current view
var ErrNotFound = errors.New("record not found")

// FeedClient fetches normalized feed records
type FeedClient interface {
	Fetch(ctx context.Context) ([]domain.Record, error)
}

// Dismissal is the outcome of a dismissal event
type Dismissal int

const (
	DismissIgnored Dismissal = iota // the live overlay stays open
	DismissClosed                   // the live overlay was closed
	DismissOrphan                   // nothing is open for the client, the overlay on the page is left over
)

// Viewer is the application controller
type Viewer struct {
	client     FeedClient
	minLoading time.Duration
	resolve    func(string) string
	loadingMsg string
	idleTTL    time.Duration
	maxClients int
	now        func() time.Time

	mu      sync.Mutex
	clients map[string]*clientView
}

// clientView is the state of a single page
type clientView struct {
	indicator *loading.Indicator
	modal     *modal.Controller

	token     uint64 // last issued load
	viewToken uint64 // load the view came from
	view      []domain.Record
	loaded    bool
	seen      time.Time
}

// Config holds viewer settings
type Config struct {
	MinLoading     time.Duration
	LoadingMessage string
	Resolve        func(string) string // embed address resolver, nil for default
	IdleTTL        time.Duration       // idle clients are dropped after it, zero means 30m
	MaxClients     int                 // the least recently seen client is dropped above it, zero means 1000
}

// LoadResult describes a finished load
type LoadResult struct {
	Token     uint64
	Records   []domain.Record // filtered and sorted view
	FeedCount int             // records received from the feed before filtering
	Stale     bool            // a newer load was issued by the same client, result was not applied
}

// Status is a snapshot of a client's state
type Status struct {
	Loading   loading.State `json:"loading"`
	Modal     string        `json:"modal"`
	ViewSize  int           `json:"view_size"`
	Loaded    bool          `json:"loaded"`
	LastToken uint64        `json:"last_token"`
	Clients   int           `json:"clients"`
}

// New makes a viewer for the given feed client
func New(client FeedClient, cfg Config) *Viewer {
	if cfg.LoadingMessage == "" {
		cfg.LoadingMessage = DefaultLoadingMessage
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = defaultIdleTTL
	}
	if cfg.MaxClients <= 0 {
		cfg.MaxClients = defaultMaxClients
	}
	return &Viewer{
		client:     client,
		minLoading: cfg.MinLoading,
		resolve:    cfg.Resolve,
		loadingMsg: cfg.LoadingMessage,
		idleTTL:    cfg.IdleTTL,
		maxClients: cfg.MaxClients,
		now:        time.Now,
		clients:    map[string]*clientView{},
	}
}

// Load fetches the feed while the client's loading indicator is shown, then filters and sorts it.
// Only the latest load issued by the client replaces its view, older ones come back marked Stale.
func (v *Viewer) Load(ctx context.Context, clientID string, rng gallery.Range) (LoadResult, error) {
	cv, token := v.nextToken(clientID)

	var records []domain.Record
	err := cv.indicator.Run(ctx, v.loadingMsg, func(ctx context.Context) error {
		var fetchErr error
		records, fetchErr = v.client.Fetch(ctx)
		return fetchErr
	})

	res := LoadResult{Token: token, FeedCount: len(records)}
	if err != nil {
		v.mu.Lock()
		res.Stale = token != cv.token
		v.mu.Unlock()
		return res, err
	}

	res.Records = gallery.SortByDate(gallery.Apply(records, rng))

	v.mu.Lock()
	defer v.mu.Unlock()
	if token != cv.token {
		lgr.Printf("[DEBUG] discard stale load %d of client %q, latest is %d", token, clientID, cv.token)
		res.Stale = true
		return res, nil
	}
	cv.view = res.Records
	cv.viewToken = token
	cv.loaded = true
	return res, nil
}

// Snapshot fetches, filters and sorts the feed without touching any client view
func (v *Viewer) Snapshot(ctx context.Context, rng gallery.Range) ([]domain.Record, error) {
	records, err := v.client.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return gallery.SortByDate(gallery.Apply(records, rng)), nil
}

// Record returns the record at idx of the client's view made by load viewToken
func (v *Viewer) Record(clientID string, viewToken uint64, idx int) (domain.Record, error) {
	_, rec, err := v.lookup(clientID, viewToken, idx)
	return rec, err
}

// OpenModal opens the client's overlay for the record at idx of its view
func (v *Viewer) OpenModal(clientID string, viewToken uint64, idx int) (modal.Session, error) {
	cv, rec, err := v.lookup(clientID, viewToken, idx)
	if err != nil {
		return modal.Session{}, err
	}
	return cv.modal.Open(rec), nil
}

// Dismiss forwards a dismissal event to the client's modal controller
func (v *Viewer) Dismiss(clientID string, ev modal.Event) Dismissal {
	v.mu.Lock()
	cv, ok := v.clients[clientID]
	if ok {
		cv.seen = v.now()
	}
	v.mu.Unlock()

	if ok && cv.modal.Dispatch(ev) {
		return DismissClosed
	}
	if !ok || cv.modal.State() == modal.Closed {
		lgr.Printf("[DEBUG] nothing open for client %q, clear overlay of session %d", clientID, ev.Session)
		return DismissOrphan
	}
	return DismissIgnored
}

// Status returns the client's state and the number of tracked clients
func (v *Viewer) Status(clientID string) Status {
	v.mu.Lock()
	defer v.mu.Unlock()
	st := Status{Modal: modal.Closed.String(), Clients: len(v.clients)}
	cv, ok := v.clients[clientID]
	if !ok {
		return st
	}
	st.Loading = cv.indicator.State()
	st.Modal = cv.modal.State().String()
	st.ViewSize = len(cv.view)
	st.Loaded = cv.loaded
	st.LastToken = cv.token
	return st
}

func (v *Viewer) lookup(clientID string, viewToken uint64, idx int) (*clientView, domain.Record, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	cv, ok := v.clients[clientID]
	if !ok || !cv.loaded || cv.viewToken != viewToken || idx < 0 || idx >= len(cv.view) {
		return nil, domain.Record{}, ErrNotFound
	}
	cv.seen = v.now()
	return cv, cv.view[idx], nil
}

// clientLocked returns the state of clientID, making it on first use
func (v *Viewer) clientLocked(clientID string) *clientView {
	now := v.now()
	if cv, ok := v.clients[clientID]; ok {
		cv.seen = now
		return cv
	}
	v.evictLocked(now)
	cv := &clientView{
		indicator: loading.New(v.minLoading),
		modal:     modal.NewController(v.resolve),
		seen:      now,
	}
	v.clients[clientID] = cv
	return cv
}

// evictLocked drops idle clients and, when still full, the least recently seen one
func (v *Viewer) evictLocked(now time.Time) {
	for id, cv := range v.clients {
		if now.Sub(cv.seen) > v.idleTTL && !cv.indicator.State().Visible {
			delete(v.clients, id)
		}
	}
	for len(v.clients) >= v.maxClients {
		var oldestID string
		var oldest time.Time
		found := false
		for id, cv := range v.clients {
			if !found || cv.seen.Before(oldest) {
				oldestID, oldest, found = id, cv.seen, true
			}
		}
		lgr.Printf("[DEBUG] drop client %q, %d clients tracked", oldestID, len(v.clients))
		delete(v.clients, oldestID)
	}
}

func (v *Viewer) nextToken(clientID string) (*clientView, uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	cv := v.clientLocked(clientID)
	cv.token++
	return cv, cv.token
}
