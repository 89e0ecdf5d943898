package cnv

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the registry's prometheus collectors.
type Metrics struct {
	// Converter lifecycle
	ConvertersOpened *prometheus.CounterVec
	ConvertersClosed *prometheus.CounterVec

	// Descriptor cache
	CacheEvictions    prometheus.Counter
	DescriptorsCached prometheus.Gauge

	// Error recovery
	Callbacks *prometheus.CounterVec
}

// NewMetrics creates conversion metrics and registers them with reg.
// A nil reg leaves the collectors unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ConvertersOpened: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cnv",
			Name:      "converters_opened_total",
			Help:      "Total number of converters opened by codec",
		}, []string{"codec"}),

		ConvertersClosed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cnv",
			Name:      "converters_closed_total",
			Help:      "Total number of converters closed by codec",
		}, []string{"codec"}),

		CacheEvictions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "cnv",
			Name:      "cache_evictions_total",
			Help:      "Total number of descriptors evicted by cache flushes",
		}),

		DescriptorsCached: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "cnv",
			Name:      "descriptors_cached",
			Help:      "Number of descriptors currently cached",
		}),

		Callbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cnv",
			Name:      "callbacks_total",
			Help:      "Total number of error callbacks by direction and reason",
		}, []string{"direction", "reason"}),
	}
}

func (m *Metrics) opened(codec string) {
	if m == nil {
		return
	}
	m.ConvertersOpened.WithLabelValues(codec).Inc()
}

func (m *Metrics) closed(codec string) {
	if m == nil {
		return
	}
	m.ConvertersClosed.WithLabelValues(codec).Inc()
}

func (m *Metrics) cached(n int) {
	if m == nil {
		return
	}
	m.DescriptorsCached.Set(float64(n))
}

func (m *Metrics) evicted(n int) {
	if m == nil {
		return
	}
	m.CacheEvictions.Add(float64(n))
}

func (m *Metrics) callback(dir Direction, reason Reason) {
	if m == nil {
		return
	}
	m.Callbacks.WithLabelValues(string(dir), reason.String()).Inc()
}
