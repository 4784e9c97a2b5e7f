package sched

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"creator-payment-ledger/internal/domain"
	"creator-payment-ledger/internal/domain/ports/repository"
	redisinfra "creator-payment-ledger/internal/infra/redis"
	"creator-payment-ledger/internal/usecase"
)

const reconcilerLockKey = "lock:payment_reconciler"

// PaymentReconciler periodically scans for stale pending payments and
// pulls their charge status from the gateway. This covers webhook
// deliveries that were lost and processes that crashed mid-confirm;
// chargeless rows past their window are expired by the same pass.
type PaymentReconciler struct {
	uc         usecase.ReconcileUseCase
	payments   repository.PaymentRepository
	locker     redisinfra.Locker
	interval   time.Duration // how often to scan
	staleAfter time.Duration // how old a pending payment must be to poll
	log        *zerolog.Logger
}

func NewPaymentReconciler(
	uc usecase.ReconcileUseCase,
	payments repository.PaymentRepository,
	locker redisinfra.Locker,
	interval, staleAfter time.Duration,
	logger *zerolog.Logger,
) *PaymentReconciler {
	if interval <= 0 {
		interval = time.Minute
	}
	if staleAfter <= 0 {
		staleAfter = 10 * time.Minute
	}
	l := logger.With().Str("component", "PaymentReconciler").Logger()
	return &PaymentReconciler{
		uc: uc, payments: payments, locker: locker,
		interval: interval, staleAfter: staleAfter, log: &l,
	}
}

func (w *PaymentReconciler) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting payment reconciler")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping payment reconciler")
			return ctx.Err()
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *PaymentReconciler) tick(ctx context.Context) {
	if w.locker != nil {
		token, err := w.locker.TryLock(ctx, reconcilerLockKey, w.interval)
		if err != nil {
			if !errors.Is(err, domain.ErrLockNotAcquired) {
				w.log.Warn().Err(err).Msg("reconciler lock error")
			}
			return // another instance is sweeping
		}
		defer func() {
			if err := w.locker.Unlock(ctx, reconcilerLockKey, token); err != nil {
				w.log.Warn().Err(err).Msg("reconciler unlock error")
			}
		}()
	}

	cutoff := time.Now().Add(-w.staleAfter)
	pending, err := w.payments.ListPendingOlderThan(ctx, nil, cutoff, 200)
	if err != nil {
		w.log.Error().Err(err).Msg("list pending failed")
		return
	}
	for _, p := range pending {
		if _, err := w.uc.PollCharge(ctx, p); err != nil {
			w.log.Warn().Err(err).Str("payment_id", p.ID).Msg("poll charge failed")
			continue
		}
	}
	if len(pending) > 0 {
		w.log.Info().Int("count", len(pending)).Msg("stale pending payments swept")
	}
}
