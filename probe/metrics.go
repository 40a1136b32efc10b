package probe

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes order lifecycle counters on a dedicated registry.
// It implements order.Metrics.
type Metrics struct {
	reg *prometheus.Registry

	ordersCreated   prometheus.Counter
	ordersConfirmed prometheus.Counter
	ordersRetired   prometheus.Counter
	notifyFailures  prometheus.Counter
}

// NewMetrics builds the counter set on its own registry so the probe
// endpoint only ever exposes what the bot deliberately publishes.
func NewMetrics() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "numbot", Subsystem: "orders", Name: "created_total",
			Help: "Orders created.",
		}),
		ordersConfirmed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "numbot", Subsystem: "orders", Name: "confirmed_total",
			Help: "Orders that reached payment confirmation.",
		}),
		ordersRetired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "numbot", Subsystem: "orders", Name: "retired_total",
			Help: "Orders retired after the follow-up message.",
		}),
		notifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "numbot", Subsystem: "notify", Name: "failures_total",
			Help: "Notification deliveries that returned an error.",
		}),
	}
	m.reg.MustRegister(m.ordersCreated, m.ordersConfirmed, m.ordersRetired, m.notifyFailures)
	return m
}

// Registry returns the backing registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// OrderCreated implements order.Metrics.
func (m *Metrics) OrderCreated() { m.ordersCreated.Inc() }

// OrderConfirmed implements order.Metrics.
func (m *Metrics) OrderConfirmed() { m.ordersConfirmed.Inc() }

// OrderRetired implements order.Metrics.
func (m *Metrics) OrderRetired() { m.ordersRetired.Inc() }

// NotifyFailed implements order.Metrics.
func (m *Metrics) NotifyFailed() { m.notifyFailures.Inc() }
