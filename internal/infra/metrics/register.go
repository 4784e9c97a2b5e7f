// Package metrics exposes the ledger's Prometheus collectors: payment
// lifecycle and revenue counters, webhook outcomes, entitlement grants,
// media token resolution and balance movement.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once
	pending      []prometheus.Collector
)

// register queues collectors at init time; nothing reaches the default
// registry until MustRegister runs.
func register(cs ...prometheus.Collector) {
	pending = append(pending, cs...)
}

// MustRegister installs every queued collector exactly once. cmd/app
// calls it before mounting the /metrics handler.
func MustRegister() {
	registerOnce.Do(func() {
		if len(pending) > 0 {
			prometheus.MustRegister(pending...)
		}
	})
}
