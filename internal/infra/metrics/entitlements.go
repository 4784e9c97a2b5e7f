package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	subscriptionsExpiredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "subscriptions_expired_total",
		Help: "Active subscriptions moved to expired by the sweep.",
	})
	proLapsedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pro_plans_lapsed_total",
		Help: "Creator pro flags cleared after their validity window.",
	})
)

func init() {
	register(subscriptionsExpiredTotal, proLapsedTotal)
}

func IncSubscriptionsExpired(n int) {
	if n > 0 {
		subscriptionsExpiredTotal.Add(float64(n))
	}
}

func IncProLapsed(n int) {
	if n > 0 {
		proLapsedTotal.Add(float64(n))
	}
}
