package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments the tick loop.
type Metrics struct {
	TickDuration prometheus.Histogram
	DirtyBodies  prometheus.Histogram
	Events       *prometheus.CounterVec
	Outgoing     *prometheus.CounterVec
	Players      prometheus.Gauge
	InboxDropped prometheus.Counter
}

// NewMetrics registers the tick loop metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		TickDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "goom_tick_duration_seconds",
			Help:    "Time spent in one server tick",
			Buckets: []float64{.0001, .0005, .001, .0025, .005, .01, .025, .05},
		}),
		DirtyBodies: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "goom_dirty_bodies",
			Help:    "Bodies included in update_world per tick",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		Events: f.NewCounterVec(prometheus.CounterOpts{
			Name: "goom_events_dispatched_total",
			Help: "Inbound events dispatched, by type",
		}, []string{"type"}),
		Outgoing: f.NewCounterVec(prometheus.CounterOpts{
			Name: "goom_events_sent_total",
			Help: "Outgoing events flushed, by delivery",
		}, []string{"delivery"}),
		Players: f.NewGauge(prometheus.GaugeOpts{
			Name: "goom_players",
			Help: "Players currently admitted",
		}),
		InboxDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "goom_inbox_dropped_total",
			Help: "Inbound events dropped because the runner inbox was full",
		}),
	}
}
