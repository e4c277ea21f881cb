package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ssn_relay_events_total",
		Help: "Chat events received, by pipeline outcome",
	}, []string{"outcome"})

	deliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ssn_relay_deliveries_total",
		Help: "Lines sent to the TTS engine, by status",
	}, []string{"status"})

	deliveryLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ssn_relay_delivery_seconds",
		Help:    "Time to connect, write and close one TTS delivery",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.0},
	})
)

// RecordEvent counts one handled event under its outcome label.
func RecordEvent(outcome string) {
	eventsTotal.WithLabelValues(outcome).Inc()
}

// Deliverer matches the relay's delivery port.
type Deliverer interface {
	Deliver(ctx context.Context, line string) error
}

// MeteredDeliverer records count and latency of every delivery it forwards.
type MeteredDeliverer struct {
	next Deliverer
}

// NewMeteredDeliverer wraps next.
func NewMeteredDeliverer(next Deliverer) *MeteredDeliverer {
	return &MeteredDeliverer{next: next}
}

// Deliver forwards to the wrapped deliverer.
func (m *MeteredDeliverer) Deliver(ctx context.Context, line string) error {
	start := time.Now()
	err := m.next.Deliver(ctx, line)
	deliveryLatency.Observe(time.Since(start).Seconds())

	status := "success"
	if err != nil {
		status = "error"
	}
	deliveriesTotal.WithLabelValues(status).Inc()
	return err
}
