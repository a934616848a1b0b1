package server

import (
	"context"
	"sync/atomic"
	"time"

	"goom-server/internal/protocol"
)

const (
	DefaultTickRate  = 30   // ticks per second
	DefaultInboxSize = 1024 // buffered inbound events
)

// Runner is the host event loop. It serializes transport events, tasks and
// ticks onto the goroutine that calls Run.
type Runner struct {
	server   *Server
	interval time.Duration
	inbox    chan protocol.Event
	tasks    chan func(*Server)
	done     chan struct{}
	stopped  atomic.Bool
	dropped  atomic.Int64
}

// NewRunner creates a runner ticking s tickRate times per second.
// Non-positive values use the defaults.
func NewRunner(s *Server, tickRate, inboxSize int) *Runner {
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}
	if inboxSize <= 0 {
		inboxSize = DefaultInboxSize
	}
	return &Runner{
		server:   s,
		interval: time.Second / time.Duration(tickRate),
		inbox:    make(chan protocol.Event, inboxSize),
		tasks:    make(chan func(*Server), 64),
		done:     make(chan struct{}),
	}
}

// Enqueue hands an event to the loop. It reports false when the event was
// dropped. Connection events wait for room in the inbox and are dropped
// only once the loop has stopped. Every other event is dropped without
// blocking when the inbox is full.
func (r *Runner) Enqueue(ev protocol.Event) bool {
	if ev.Type == protocol.TypeConnection {
		if r.stopped.Load() {
			r.dropped.Add(1)
			return false
		}
		select {
		case r.inbox <- ev:
			return true
		case <-r.done:
			r.dropped.Add(1)
			return false
		}
	}
	select {
	case r.inbox <- ev:
		return true
	default:
		r.dropped.Add(1)
		if m := r.server.metrics; m != nil {
			m.InboxDropped.Inc()
		}
		return false
	}
}

// Dropped returns the number of events lost to a full inbox.
func (r *Runner) Dropped() int64 { return r.dropped.Load() }

// Do runs fn on the loop goroutine. It returns once fn is queued, or
// immediately if the loop has stopped.
func (r *Runner) Do(fn func(*Server)) {
	if r.stopped.Load() {
		return
	}
	select {
	case r.tasks <- fn:
	case <-r.done:
	}
}

// Run drives the server until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer func() {
		ticker.Stop()
		r.stopped.Store(true)
		close(r.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-r.inbox:
			r.server.ReceiveEvent(ev)
		case fn := <-r.tasks:
			fn(r.server)
		case <-ticker.C:
			r.server.Update()
		}
	}
}
