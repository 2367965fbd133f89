package observability

import (
	"context"
	"time"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "arbor"

// Metrics exposes dispatch activity as Prometheus collectors.
type Metrics struct {
	deliveries       *prometheus.CounterVec
	statesCreated    *prometheus.CounterVec
	events           *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		deliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "deliveries_total",
				Help:      "Messages delivered to components.",
			},
			[]string{"component", "message_type", "result"},
		),
		statesCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "states_created_total",
				Help:      "States materialized on first visit.",
			},
			[]string{"component"},
		),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_total",
				Help:      "Events ascended into a parent.",
			},
			[]string{"from", "to", "event_type"},
		),
		dispatchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "dispatch_duration_seconds",
				Help:      "Duration of root-level dispatches in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"result"},
		),
	}

	for _, c := range []prometheus.Collector{m.deliveries, m.statesCreated, m.events, m.dispatchDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDeliver: func(_ context.Context, e *domain.DeliveryEvent) {
			m.deliveries.WithLabelValues(e.ComponentID, e.MessageType, result(e.Err)).Inc()
		},
		OnStateCreated: func(_ context.Context, e *domain.StateEvent) {
			m.statesCreated.WithLabelValues(e.ComponentID).Inc()
		},
		OnEvent: func(_ context.Context, e *domain.EventTrace) {
			m.events.WithLabelValues(e.FromComponentID, e.ToComponentID, e.EventType).Inc()
		},
	}
}

// Track runs fn and records its duration.
func (m *Metrics) Track(fn func() error) error {
	start := time.Now()
	err := fn()
	m.dispatchDuration.WithLabelValues(result(err)).Observe(time.Since(start).Seconds())
	return err
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
