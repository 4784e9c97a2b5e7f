package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		webhookEventsTotal,
		webhookRejectedTotal,
	)
}

var (
	webhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_webhook_events_total",
			Help: "Authenticated gateway webhook events by event name.",
		},
		[]string{"event"},
	)

	webhookRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_webhook_rejected_total",
			Help: "Webhook deliveries rejected before any state read.",
		},
		[]string{"reason"},
	)
)

func IncWebhookEvent(event string) {
	webhookEventsTotal.WithLabelValues(norm(event)).Inc()
}

func IncWebhookRejected(reason string) {
	webhookRejectedTotal.WithLabelValues(norm(reason)).Inc()
}
