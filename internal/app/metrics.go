package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "storefront"

// Metrics holds the storefront's Prometheus collectors.
type Metrics struct {
	CartOperations *prometheus.CounterVec
	CatalogLoads   *prometheus.CounterVec
	CatalogSize    prometheus.Gauge
	SessionsActive prometheus.Gauge
	Checkouts      *prometheus.CounterVec
}

// NewMetrics registers the collectors with reg. Pass
// prometheus.DefaultRegisterer to expose them on the default handler.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		CartOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cart_operations_total",
			Help:      "Cart mutations by operation and whether they changed the cart.",
		}, []string{"operation", "changed"}),

		CatalogLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "catalog_loads_total",
			Help:      "Catalog load attempts by source and result.",
		}, []string{"source", "result"}),

		CatalogSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "catalog_products",
			Help:      "Products currently loaded.",
		}),

		SessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "sessions_active",
			Help:      "Live storefront sessions.",
		}),

		Checkouts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "checkouts_total",
			Help:      "Checkout requests by result.",
		}, []string{"result"}),
	}
}

// nopMetrics returns collectors bound to a throwaway registry.
func nopMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}
