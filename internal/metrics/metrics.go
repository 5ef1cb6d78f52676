// Package metrics exposes Prometheus counters for wallet sessions and
// contract calls.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values.
const (
	OutcomeOK       = "ok"
	OutcomeAbsent   = "absent"
	OutcomeDenied   = "denied"
	OutcomeError    = "error"
	OutcomeRejected = "rejected" // precondition failed, call not attempted
)

// Call kind label values.
const (
	KindRead  = "read"
	KindWrite = "write"
)

// Metrics holds the counters on a private registry so tests and multiple
// sessions never collide on the global default registry.
type Metrics struct {
	Registry *prometheus.Registry

	ConnectTotal *prometheus.CounterVec
	CallsTotal   *prometheus.CounterVec
}

// New creates and registers all counters.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		ConnectTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nftmint",
			Name:      "connect_total",
			Help:      "Wallet connection attempts by outcome.",
		}, []string{"outcome"}),
		CallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nftmint",
			Name:      "contract_calls_total",
			Help:      "Contract calls by kind and outcome.",
		}, []string{"kind", "outcome"}),
	}
	m.Registry.MustRegister(m.ConnectTotal, m.CallsTotal)
	return m
}

// Connect records a connection attempt.
func (m *Metrics) Connect(outcome string) {
	if m == nil {
		return
	}
	m.ConnectTotal.WithLabelValues(outcome).Inc()
}

// Call records a contract call.
func (m *Metrics) Call(kind, outcome string) {
	if m == nil {
		return
	}
	m.CallsTotal.WithLabelValues(kind, outcome).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
