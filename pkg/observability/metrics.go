package observability

import (
	"context"
	"time"

	"github.com/aretw0/knockknock/pkg/domain"
	"github.com/aretw0/knockknock/pkg/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "knockknock"

// Metrics collects dialogue and session metrics.
type Metrics struct {
	registry *prometheus.Registry

	turns    *prometheus.CounterVec
	rounds   prometheus.Counter
	sessions *prometheus.CounterVec
	active   prometheus.Gauge
	duration prometheus.Histogram
}

// NewMetrics creates the collectors on a fresh registry.
// Process and Go runtime collectors are included.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		turns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "turns_total",
				Help:      "Total number of dialogue turns, by state reached",
			},
			[]string{"state"},
		),
		rounds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_total",
			Help:      "Total number of setup phrases sent",
		}),
		sessions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sessions_total",
				Help:      "Total number of finished sessions, by outcome",
			},
			[]string{"outcome"},
		),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Sessions currently in progress",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "session_duration_seconds",
			Help:      "Duration of sessions",
			Buckets:   prometheus.ExponentialBuckets(0.1, 4, 8),
		}),
	}

	m.registry.MustRegister(
		m.turns,
		m.rounds,
		m.sessions,
		m.active,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Hooks returns lifecycle hooks that record turns and rounds.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurn: func(_ context.Context, e *domain.TurnEvent) {
			m.turns.WithLabelValues(e.To.String()).Inc()
			if e.To == domain.StateClueGiven {
				m.rounds.Inc()
			}
		},
	}
}

// SessionStarted implements server.Observer.
func (m *Metrics) SessionStarted(string) {
	m.active.Inc()
}

// SessionEnded implements server.Observer.
func (m *Metrics) SessionEnded(_ string, outcome server.Outcome, elapsed time.Duration) {
	m.active.Dec()
	m.sessions.WithLabelValues(string(outcome)).Inc()
	m.duration.Observe(elapsed.Seconds())
}

var _ server.Observer = (*Metrics)(nil)
