package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(mediaResolveTotal)
}

var mediaResolveTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "media_resolve_total",
		Help: "Secure media token resolutions by outcome (ok/token_invalid/subject_mismatch/not_entitled).",
	},
	[]string{"outcome"},
)

func IncMediaResolve(outcome string) {
	mediaResolveTotal.WithLabelValues(norm(outcome)).Inc()
}
