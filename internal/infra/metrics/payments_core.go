package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		paymentsTotal,
		paymentsRevenueTotal,
	)
}

var (
	paymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_total",
			Help: "Payments by kind and status (pending/confirmed/failed/expired/refunded).",
		},
		[]string{"kind", "status"},
	)

	paymentsRevenueTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_revenue_total",
			Help: "Total base amount of confirmed payments in centavos, by kind.",
		},
		[]string{"kind"},
	)
)

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func IncPayment(kind, status string) {
	paymentsTotal.WithLabelValues(norm(kind), norm(status)).Inc()
}

func AddRevenue(kind string, amount int64) {
	paymentsRevenueTotal.WithLabelValues(norm(kind)).Add(float64(amount))
}
