package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		balanceCreditsTotal,
		balanceDebitsTotal,
	)
}

var (
	balanceCreditsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "balance_credits_total",
			Help: "Sum of payee-share credits in centavos.",
		},
	)

	balanceDebitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "balance_debits_total",
			Help: "Sum of refund debits in centavos (pre-floor).",
		},
	)
)

func AddBalanceCredit(amount int64) { balanceCreditsTotal.Add(float64(amount)) }
func AddBalanceDebit(amount int64)  { balanceDebitsTotal.Add(float64(amount)) }
