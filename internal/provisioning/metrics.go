package provisioning

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics holds the provisioning metrics of one CLI run. A nil *Metrics
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	nodesCreated *prometheus.CounterVec
	nodeCreate   *prometheus.HistogramVec
	nodesDeleted *prometheus.CounterVec
	launch       *prometheus.HistogramVec
}

// NewMetrics creates the metrics on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		nodesCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "hforge",
				Subsystem: "node",
				Name:      "create_total",
				Help:      "Total number of node creation calls by role and result",
			},
			[]string{"cluster", "role", "result"},
		),
		nodeCreate: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "hforge",
				Subsystem: "node",
				Name:      "create_duration_seconds",
				Help:      "Duration of node creation calls in seconds",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 10), // 1s to ~8.5min
			},
			[]string{"cluster", "role"},
		),
		nodesDeleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "hforge",
				Subsystem: "node",
				Name:      "delete_total",
				Help:      "Total number of node deletions by result",
			},
			[]string{"cluster", "result"},
		),
		launch: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "hforge",
				Subsystem: "cluster",
				Name:      "launch_duration_seconds",
				Help:      "Duration of a full cluster launch in seconds",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
			},
			[]string{"cluster", "result"},
		),
	}
	m.registry.MustRegister(m.nodesCreated, m.nodeCreate, m.nodesDeleted, m.launch)
	return m
}

// Registry returns the registry holding every provisioning metric.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordNodeCreate records one node creation call.
func (m *Metrics) RecordNodeCreate(clusterName, role, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.nodesCreated.WithLabelValues(clusterName, role, result).Inc()
	m.nodeCreate.WithLabelValues(clusterName, role).Observe(elapsed.Seconds())
}

// RecordNodeDelete records one node deletion.
func (m *Metrics) RecordNodeDelete(clusterName, result string) {
	if m == nil {
		return
	}
	m.nodesDeleted.WithLabelValues(clusterName, result).Inc()
}

// RecordLaunch records a whole launch.
func (m *Metrics) RecordLaunch(clusterName, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.launch.WithLabelValues(clusterName, result).Observe(elapsed.Seconds())
}

// WriteTextfile writes every metric to path in the Prometheus text format,
// for pickup by a node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
