// Package loading implements the busy indicator with a guaranteed minimal visible time.
package loading

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultMinVisible is the minimal time the indicator stays visible
const DefaultMinVisible = 800 * time.Millisecond

// Indicator tracks busy state. Overlapping runs keep it visible until the last one hides it.
type Indicator struct {
	minVisible time.Duration

	mu      sync.Mutex
	active  int
	message string
}

// State is a snapshot of the indicator
type State struct {
	Visible bool   `json:"visible"`
	Message string `json:"message,omitempty"`
}

// New makes an indicator, zero minVisible means DefaultMinVisible
func New(minVisible time.Duration) *Indicator {
	if minVisible <= 0 {
		minVisible = DefaultMinVisible
	}
	return &Indicator{minVisible: minVisible}
}

// MinVisible returns the guaranteed visible duration
func (l *Indicator) MinVisible() time.Duration {
	return l.minVisible
}

// Show makes the indicator visible with the message
func (l *Indicator) Show(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.active++
	l.message = msg
}

// Hide releases one Show, the indicator is hidden once every Show is released
func (l *Indicator) Hide() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active > 0 {
		l.active--
	}
	if l.active == 0 {
		l.message = ""
	}
}

// State returns the current visibility and message
func (l *Indicator) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return State{Visible: l.active > 0, Message: l.message}
}

// Run shows the indicator, runs op and waits for both op and the minimal visible time
// before hiding. The timer is cut short only when ctx is canceled.
func (l *Indicator) Run(ctx context.Context, msg string, op func(ctx context.Context) error) error {
	l.Show(msg)
	defer l.Hide()

	var g errgroup.Group
	g.Go(func() error {
		return op(ctx)
	})
	g.Go(func() error {
		timer := time.NewTimer(l.minVisible)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
		}
		return nil
	})
	return g.Wait()
}
