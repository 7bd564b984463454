package observability

import (
	"bookinghub/internal/domain/entities"
	"bookinghub/internal/usecase/interfaces"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "bookinghub"

// Collector is a prometheus.Collector for booking transitions, live pushes
// and realtime connections.
type Collector struct {
	transitions *prometheus.CounterVec
	livePushes  *prometheus.CounterVec
	connections *prometheus.GaugeVec
}

var _ interfaces.IMetricsRecorder = (*Collector)(nil)

func NewMetricsCollector() *Collector {
	return &Collector{
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "booking_transitions_total",
				Help:      "Booking transition attempts by target state and outcome.",
			}, []string{"target", "outcome"},
		),
		livePushes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "live_pushes_total",
				Help:      "Live notification pushes by outcome (delivered, offline, error).",
			}, []string{"outcome"},
		),
		connections: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "realtime_connections",
				Help:      "The number of admitted realtime connections by role.",
			}, []string{"role"},
		),
	}
}

func (c *Collector) RecordTransition(target string, outcome string) {
	c.transitions.WithLabelValues(target, outcome).Inc()
}

func (c *Collector) RecordLivePush(outcome string) {
	c.livePushes.WithLabelValues(outcome).Inc()
}

func (c *Collector) ConnectionOpened(role entities.Role) {
	c.connections.WithLabelValues(string(role)).Inc()
}

func (c *Collector) ConnectionClosed(role entities.Role) {
	c.connections.WithLabelValues(string(role)).Dec()
}

// Describe is part of the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.transitions.Describe(ch)
	c.livePushes.Describe(ch)
	c.connections.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.transitions.Collect(ch)
	c.livePushes.Collect(ch)
	c.connections.Collect(ch)
}
