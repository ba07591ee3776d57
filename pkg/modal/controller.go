// Package modal owns the single detail overlay and its open/close state machine.
package modal

import (
	"sync"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/apodview/pkg/domain"
	"github.com/umputun/apodview/pkg/embed"
)

// State of the overlay
type State int

const (
	Closed State = iota
	Open
)

func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// Source identifies the input which produced a dismissal event
type Source string

const (
	SourceCloseControl Source = "close"
	SourceBackdrop     Source = "backdrop"
	SourceKey          Source = "key"
)

// EscapeKey is the only key closing the overlay
const EscapeKey = "Escape"

// Event is a dismissal input tagged with the session it was rendered for
type Event struct {
	Session uint64
	Source  Source
	Key     string
}

// Session is a live overlay
type Session struct {
	ID      uint64
	Record  domain.Record
	Content Content

	keyListener bool // armed once per open, cleared when it fires or on close
}

// Controller keeps at most one live session. Open always replaces the previous session,
// dismissal events for anything but the live session are ignored.
type Controller struct {
	resolve func(string) string

	mu        sync.Mutex
	seq       uint64
	session   *Session
	overlays  int
	listeners int
}

// NewController makes a closed controller, nil resolve means embed.Resolve
func NewController(resolve func(string) string) *Controller {
	if resolve == nil {
		resolve = embed.Resolve
	}
	return &Controller{resolve: resolve}
}

// Open closes any live session and opens a new one for the record
func (c *Controller) Open(rec domain.Record) Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closeLocked()

	c.seq++
	c.session = &Session{
		ID:          c.seq,
		Record:      rec,
		Content:     BuildContent(rec, c.resolve),
		keyListener: true,
	}
	c.overlays++
	c.listeners++
	lgr.Printf("[DEBUG] modal session %d opened for %q (%s)", c.seq, rec.Title, rec.Date)
	return *c.session
}

// Close detaches the live session, returns false if nothing was open
func (c *Controller) Close() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

// Dispatch applies a dismissal event and reports whether the overlay was closed
func (c *Controller) Dispatch(ev Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil || ev.Session != c.session.ID {
		lgr.Printf("[DEBUG] ignore %s event for stale modal session %d", ev.Source, ev.Session)
		return false
	}

	switch ev.Source {
	case SourceCloseControl, SourceBackdrop:
		return c.closeLocked()
	case SourceKey:
		if !c.session.keyListener || ev.Key != EscapeKey {
			return false
		}
		c.session.keyListener = false
		c.listeners--
		return c.closeLocked()
	default:
		return false
	}
}

// State returns Open when a session is live
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return Closed
	}
	return Open
}

// Current returns a copy of the live session
func (c *Controller) Current() (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// Overlays returns the number of attached overlays, never more than one
func (c *Controller) Overlays() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.overlays
}

// Listeners returns the number of registered key listeners
func (c *Controller) Listeners() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listeners
}

func (c *Controller) closeLocked() bool {
	if c.session == nil {
		return false
	}
	if c.session.keyListener {
		c.session.keyListener = false
		c.listeners--
	}
	c.overlays--
	lgr.Printf("[DEBUG] modal session %d closed", c.session.ID)
	c.session = nil
	return true
}
