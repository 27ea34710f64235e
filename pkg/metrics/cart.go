package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records cart mutations and storage degradation events.
type CartMetrics struct {
	mutations        *prometheus.CounterVec
	fallbacks        prometheus.Counter
	subscriberPanics prometheus.Counter
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations by operation.",
	}, []string{"op"})
	fallbacks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "storage_fallbacks_total",
		Help: "Operations served by the in-memory storage fallback.",
	})
	subscriberPanics := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_subscriber_panics_total",
		Help: "Subscriber callbacks that panicked during notification.",
	})
	reg.MustRegister(mutations, fallbacks, subscriberPanics)
	return &CartMetrics{
		mutations:        mutations,
		fallbacks:        fallbacks,
		subscriberPanics: subscriberPanics,
	}
}

// IncMutation increments the mutation counter for the named operation.
func (c *CartMetrics) IncMutation(op string) {
	if c == nil || c.mutations == nil {
		return
	}
	c.mutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncFallback increments the storage fallback counter.
func (c *CartMetrics) IncFallback() {
	if c == nil || c.fallbacks == nil {
		return
	}
	c.fallbacks.Inc()
}

// IncSubscriberPanic increments the subscriber panic counter.
func (c *CartMetrics) IncSubscriberPanic() {
	if c == nil || c.subscriberPanics == nil {
		return
	}
	c.subscriberPanics.Inc()
}

func normalizeLabel(op string) string {
	if op == "" {
		return "unknown"
	}
	return op
}
