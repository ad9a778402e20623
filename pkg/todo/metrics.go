package todo

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "todoview").
	Namespace string

	// Buckets are the histogram buckets for remote call duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Metrics holds the Prometheus collectors for remote calls and the remaining
// counter. A nil *Metrics records nothing.
type Metrics struct {
	remoteTotal    *prometheus.CounterVec
	remoteDuration *prometheus.HistogramVec
	remaining      prometheus.Gauge
	itemsMounted   prometheus.Gauge
	togglesFailed  prometheus.Counter
	togglesDenied  prometheus.Counter
}

// NewMetrics registers the collectors with config.Registry.
//
// Metrics collected:
//   - todoview_remote_requests_total: remote calls by operation and result
//   - todoview_remote_request_duration_seconds: remote call latency by operation
//   - todoview_remaining_items: current value of the remaining counter
//   - todoview_mounted_items: items currently mounted
//   - todoview_toggle_failures_total: toggles that ended in the Failed state
//   - todoview_toggle_rejections_total: gestures rejected while in flight
func NewMetrics(config MetricsConfig) *Metrics {
	if config.Namespace == "" {
		config.Namespace = "todoview"
	}
	if config.Buckets == nil {
		config.Buckets = prometheus.DefBuckets
	}
	if config.Registry == nil {
		config.Registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		remoteTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "remote_requests_total",
			Help:      "Total number of remote list and toggle calls",
		}, []string{"op", "result"}),

		remoteDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "remote_request_duration_seconds",
			Help:      "Remote call duration in seconds",
			Buckets:   config.Buckets,
		}, []string{"op"}),

		remaining: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Name:      "remaining_items",
			Help:      "Number of mounted items that are not completed",
		}),

		itemsMounted: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Name:      "mounted_items",
			Help:      "Number of items currently mounted",
		}),

		togglesFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "toggle_failures_total",
			Help:      "Total number of toggles that failed remotely",
		}),

		togglesDenied: factory.NewCounter(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "toggle_rejections_total",
			Help:      "Total number of toggle gestures rejected while in flight",
		}),
	}
}

func (m *Metrics) observeRemote(op string, seconds float64, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.remoteTotal.WithLabelValues(op, result).Inc()
	m.remoteDuration.WithLabelValues(op).Observe(seconds)
}

func (m *Metrics) setRemaining(n int) {
	if m == nil {
		return
	}
	m.remaining.Set(float64(n))
}

func (m *Metrics) setMounted(n int) {
	if m == nil {
		return
	}
	m.itemsMounted.Set(float64(n))
}

func (m *Metrics) toggleFailed() {
	if m == nil {
		return
	}
	m.togglesFailed.Inc()
}

func (m *Metrics) toggleRejected() {
	if m == nil {
		return
	}
	m.togglesDenied.Inc()
}
