package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Checkout counts checkout attempts and the best-effort cart prune that follows them.
// A nil *Checkout is valid and records nothing.
type Checkout struct {
	attempts      *prometheus.CounterVec
	pruneRetries  prometheus.Counter
	pruneFailures prometheus.Counter
	orderTotal    prometheus.Histogram
}

func NewCheckout(reg prometheus.Registerer) *Checkout {
	m := &Checkout{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "checkout_attempts_total",
			Help:      "Checkout attempts by mode and result.",
		}, []string{"mode", "result"}),
		pruneRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "checkout_cart_prune_retries_total",
			Help:      "Cart prunes that needed a second attempt after an order was placed.",
		}),
		pruneFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "checkout_cart_prune_failures_total",
			Help:      "Orders placed whose cart could not be pruned.",
		}),
		orderTotal: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "storefront",
			Name:      "order_total_amount",
			Help:      "Order totals in currency units.",
			Buckets:   []float64{10, 50, 100, 250, 500, 1000, 5000, 10000},
		}),
	}
	reg.MustRegister(m.attempts, m.pruneRetries, m.pruneFailures, m.orderTotal)
	return m
}

func (m *Checkout) Attempt(mode, result string) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(mode, result).Inc()
}

func (m *Checkout) PruneRetried() {
	if m == nil {
		return
	}
	m.pruneRetries.Inc()
}

func (m *Checkout) PruneFailed() {
	if m == nil {
		return
	}
	m.pruneFailures.Inc()
}

func (m *Checkout) OrderPlaced(total float64) {
	if m == nil {
		return
	}
	m.orderTotal.Observe(total)
}

// Handler serves the registry in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
