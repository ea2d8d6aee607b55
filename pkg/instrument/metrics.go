package instrument

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "relayed").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for action duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus collectors.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "relayed",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors. It implements relay.Observer.
type Metrics struct {
	cellChanges    *prometheus.CounterVec
	actionsTotal   *prometheus.CounterVec
	actionDuration *prometheus.HistogramVec
}

// NewMetrics registers the collectors with the configured registry.
// Registering twice with the same registry panics, so create one Metrics
// per registry.
//
// Metrics collected:
//   - relayed_cell_changes_total: values accepted, by cell
//   - relayed_actions_total: domain actions, by action and status
//   - relayed_action_duration_seconds: domain action duration, by action
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		cellChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cell_changes_total",
			Help:        "Total number of values accepted by relay cells",
			ConstLabels: config.ConstLabels,
		}, []string{"cell"}),

		actionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "actions_total",
			Help:        "Total number of domain actions by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"action", "status"}),

		actionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "action_duration_seconds",
			Help:        "Domain action duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"action"}),
	}
}

// CellChanged counts one accepted value for the named cell.
func (m *Metrics) CellChanged(name string, _ any) {
	if m == nil {
		return
	}
	m.cellChanges.WithLabelValues(name).Inc()
}

// ObserveAction records one finished action.
func (m *Metrics) ObserveAction(action string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.actionDuration.WithLabelValues(action).Observe(d.Seconds())
	m.actionsTotal.WithLabelValues(action, actionStatus(err)).Inc()
}

// StatusError lets an error choose its own status label. Errors that do
// not implement it are reported as "error".
type StatusError interface {
	error
	Status() string
}

func actionStatus(err error) string {
	if err == nil {
		return "success"
	}
	var se StatusError
	if errors.As(err, &se) && se.Status() != "" {
		return se.Status()
	}
	return "error"
}
