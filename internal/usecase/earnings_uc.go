package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"creator-payment-ledger/internal/domain"
	"creator-payment-ledger/internal/domain/ports/repository"
)

var _ EarningsUseCase = (*earningsUC)(nil)

// EarningsSummary is the creator dashboard view: live balance plus
// confirmed revenue for the current week and month.
type EarningsSummary struct {
	CreatorID     string `json:"creator_id"`
	Available     int64  `json:"available"`
	Pending       int64  `json:"pending"`
	TotalEarnings int64  `json:"total_earnings"`
	Week          int64  `json:"week"`
	Month         int64  `json:"month"`
}

// EarningsCache holds computed summaries until a confirmation or
// refund invalidates them. A nil cache disables caching.
type EarningsCache interface {
	Get(ctx context.Context, creatorID string) (*EarningsSummary, bool)
	Set(ctx context.Context, creatorID string, s *EarningsSummary)
}

type EarningsUseCase interface {
	Summary(ctx context.Context, creatorID string) (*EarningsSummary, error)
}

type earningsUC struct {
	balances repository.BalanceRepository
	payments repository.PaymentRepository
	cache    EarningsCache
	log      *zerolog.Logger
}

func NewEarningsUseCase(
	balances repository.BalanceRepository,
	payments repository.PaymentRepository,
	cache EarningsCache,
	logger *zerolog.Logger,
) *earningsUC {
	return &earningsUC{balances: balances, payments: payments, cache: cache, log: logger}
}

func (u *earningsUC) Summary(ctx context.Context, creatorID string) (*EarningsSummary, error) {
	if creatorID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if u.cache != nil {
		if s, ok := u.cache.Get(ctx, creatorID); ok {
			return s, nil
		}
	}

	s := &EarningsSummary{CreatorID: creatorID}
	b, err := u.balances.Find(ctx, nil, creatorID)
	switch {
	case err == nil:
		s.Available = b.Available
		s.Pending = b.Pending
		s.TotalEarnings = b.TotalEarnings
	case errors.Is(err, domain.ErrNotFound):
		// creator has never been paid; all zeros
	default:
		return nil, err
	}

	if s.Week, err = u.payments.SumConfirmedByPayee(ctx, nil, creatorID, "week"); err != nil {
		return nil, err
	}
	if s.Month, err = u.payments.SumConfirmedByPayee(ctx, nil, creatorID, "month"); err != nil {
		return nil, err
	}

	if u.cache != nil {
		u.cache.Set(ctx, creatorID, s)
	}
	return s, nil
}
