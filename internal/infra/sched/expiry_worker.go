package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"creator-payment-ledger/internal/domain/ports/repository"
	"creator-payment-ledger/internal/infra/metrics"
)

// ExpiryWorker finishes lapsed entitlements: active subscriptions past
// their expiry and creator pro flags past their validity window.
type ExpiryWorker struct {
	interval time.Duration
	subs     repository.SubscriptionRepository
	creators repository.CreatorRepository
	log      *zerolog.Logger
}

func NewExpiryWorker(interval time.Duration, subs repository.SubscriptionRepository, creators repository.CreatorRepository, logger *zerolog.Logger) *ExpiryWorker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	l := logger.With().Str("component", "ExpiryWorker").Logger()
	return &ExpiryWorker{interval: interval, subs: subs, creators: creators, log: &l}
}

func (w *ExpiryWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting expiry worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping expiry worker")
			return ctx.Err()
		case <-ticker.C:
			now := time.Now()
			n, err := w.subs.ExpireDue(ctx, nil, now, 500)
			if err != nil {
				w.log.Error().Err(err).Msg("subscription expiry failed")
			}
			if n > 0 {
				metrics.IncSubscriptionsExpired(n)
				w.log.Info().Int("count", n).Msg("subscriptions expired")
			}

			m, err := w.creators.ClearLapsedPro(ctx, nil, now)
			if err != nil {
				w.log.Error().Err(err).Msg("pro lapse sweep failed")
			}
			if m > 0 {
				metrics.IncProLapsed(m)
				w.log.Info().Int("count", m).Msg("pro plans lapsed")
			}
		}
	}
}
