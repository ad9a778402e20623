package host

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// hostMetrics holds the host's collectors. A nil *hostMetrics records
// nothing.
type hostMetrics struct {
	clients  prometheus.Gauge
	renders  prometheus.Counter
	gestures *prometheus.CounterVec
}

func newHostMetrics(reg prometheus.Registerer, namespace string) *hostMetrics {
	factory := promauto.With(reg)

	return &hostMetrics{
		clients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_clients",
			Help:      "Number of connected websocket clients",
		}),

		renders: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Total number of page renders pushed to the hub",
		}),

		gestures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gestures_total",
			Help:      "Total number of user gestures by kind and result",
		}, []string{"kind", "result"}),
	}
}

func (m *hostMetrics) setClients(n int) {
	if m == nil {
		return
	}
	m.clients.Set(float64(n))
}

func (m *hostMetrics) rendered() {
	if m == nil {
		return
	}
	m.renders.Inc()
}

func (m *hostMetrics) gesture(kind string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.gestures.WithLabelValues(kind, result).Inc()
}
