package server

import (
	"log/slog"
	"time"

	"goom-server/internal/behavior"
	"goom-server/internal/protocol"
)

// BroadcastFunc delivers an event to every connected client.
type BroadcastFunc func(ev protocol.Outgoing)

// SendFunc delivers an event to a single client.
type SendFunc func(ev protocol.Outgoing, to string)

// Tracker receives lifecycle events for analytics.
type Tracker interface {
	Track(event, playerID string, data map[string]any)
}

// Journal records every tick that flushed at least one event.
type Journal interface {
	Record(tick uint64, elapsed float64, events []protocol.Outgoing) error
}

type options struct {
	logger  *slog.Logger
	now     func() time.Time
	spawn   SpawnPolicy
	metrics *Metrics
	tracker Tracker
	journal Journal
	actions behavior.Actions
}

// Option configures a Server.
type Option func(*options)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock replaces time.Now as the source of elapsed time.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithSpawnPolicy sets how players are created on connection.
func WithSpawnPolicy(p SpawnPolicy) Option {
	return func(o *options) { o.spawn = p }
}

// WithMetrics enables prometheus instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTracker forwards lifecycle events to an analytics sink.
func WithTracker(t Tracker) Option {
	return func(o *options) { o.tracker = t }
}

// WithJournal records flushed ticks.
func WithJournal(j Journal) Option {
	return func(o *options) { o.journal = j }
}

// WithActions sets the behaviour actions available to agent models.
func WithActions(a behavior.Actions) Option {
	return func(o *options) { o.actions = a }
}
