package usecase

import (
	"fmt"

	"creator-payment-ledger/internal/domain"
	"creator-payment-ledger/internal/domain/model"
)

// FeePolicy holds the configured split parameters. All monetary values
// are centavos; percentages are basis points.
type FeePolicy struct {
	GatewayFixedFee int64 // flat gateway fee per charge
	GatewayFeeBps   int64 // variable gateway fee on the base amount
	PlatformFeeBps  int64 // platform cut on the base amount
	MinTipAmount    int64 // minimum tip, rejected below
	MinPriceAmount  int64 // minimum product price for every other kind
}

// FeeCalculator is the pure split function: base price and kind in,
// deterministic FeeBreakdown out. No I/O.
//
// Rounding is floor throughout (integer division truncates toward
// zero on non-negative values), so the payee share absorbs the
// remainder-free difference and the split always reconciles:
// Amount = GatewayFee + PlatformFee + PayeeShare.
type FeeCalculator struct {
	policy FeePolicy
}

func NewFeeCalculator(policy FeePolicy) *FeeCalculator {
	return &FeeCalculator{policy: policy}
}

func (c *FeeCalculator) minFor(kind model.PaymentKind) int64 {
	if kind == model.PaymentKindTip {
		return c.policy.MinTipAmount
	}
	return c.policy.MinPriceAmount
}

// ComputeFees validates baseAmount for the kind and returns the split.
// The gateway fee is passed through to the payer (TotalCharged =
// Amount + GatewayFee); the platform fee comes out of the payee share.
// Platform-only kinds (pro_plan) route the whole remainder to the
// platform and carry a zero payee share.
func (c *FeeCalculator) ComputeFees(baseAmount int64, kind model.PaymentKind) (model.FeeBreakdown, error) {
	if baseAmount <= 0 {
		return model.FeeBreakdown{}, fmt.Errorf("base amount %d: %w", baseAmount, domain.ErrInvalidArgument)
	}
	if min := c.minFor(kind); baseAmount < min {
		return model.FeeBreakdown{}, fmt.Errorf("base amount %d below minimum %d: %w", baseAmount, min, domain.ErrAmountBelowMinimum)
	}

	gatewayFee := c.policy.GatewayFixedFee + baseAmount*c.policy.GatewayFeeBps/10000

	var platformFee, payeeShare int64
	if kind == model.PaymentKindProPlan {
		platformFee = baseAmount - gatewayFee
	} else {
		platformFee = baseAmount * c.policy.PlatformFeeBps / 10000
		payeeShare = baseAmount - gatewayFee - platformFee
	}
	if payeeShare < 0 || platformFee < 0 {
		return model.FeeBreakdown{}, fmt.Errorf("base amount %d does not cover fees: %w", baseAmount, domain.ErrAmountBelowMinimum)
	}

	return model.FeeBreakdown{
		Amount:       baseAmount,
		GatewayFee:   gatewayFee,
		PlatformFee:  platformFee,
		PayeeShare:   payeeShare,
		TotalCharged: baseAmount + gatewayFee,
	}, nil
}
