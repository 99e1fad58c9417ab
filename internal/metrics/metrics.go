package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pos"

// Metrics holds the business and storage counters. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	salesCommitted   *prometheus.CounterVec
	salesRevenue     prometheus.Counter
	checkoutRejected *prometheus.CounterVec
	storageFallbacks *prometheus.CounterVec
	corruptEntries   *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		salesCommitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_committed_total",
			Help:      "Committed checkouts by payment method.",
		}, []string{"payment_method"}),
		salesRevenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_revenue_total",
			Help:      "Sum of committed sale totals.",
		}),
		checkoutRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_rejected_total",
			Help:      "Checkouts rejected by reason.",
		}, []string{"reason"}),
		storageFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_fallbacks_total",
			Help:      "Document backend failures that fell back to key-value storage.",
		}, []string{"operation"}),
		corruptEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_corrupt_entries_total",
			Help:      "Stored entries that failed to decode and were reset.",
		}, []string{"key"}),
	}
	reg.MustRegister(m.salesCommitted, m.salesRevenue, m.checkoutRejected, m.storageFallbacks, m.corruptEntries)
	return m
}

func (m *Metrics) SaleCommitted(method string, total float64) {
	if m == nil {
		return
	}
	m.salesCommitted.WithLabelValues(method).Inc()
	if total > 0 {
		m.salesRevenue.Add(total)
	}
}

func (m *Metrics) CheckoutRejected(reason string) {
	if m == nil {
		return
	}
	m.checkoutRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) StorageFallback(operation string) {
	if m == nil {
		return
	}
	m.storageFallbacks.WithLabelValues(operation).Inc()
}

func (m *Metrics) CorruptEntry(key string) {
	if m == nil {
		return
	}
	m.corruptEntries.WithLabelValues(key).Inc()
}

func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.gatherer
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
