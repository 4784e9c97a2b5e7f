package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"creator-payment-ledger/internal/domain"
	"creator-payment-ledger/internal/domain/model"
	"creator-payment-ledger/internal/domain/ports/repository"
)

// entitlementEngine materializes the entitlement a confirmed payment
// pays for. It dispatches strictly on the payment kind and decodes only
// the matching metadata branch. Every grant is insert-if-not-exists so
// a crashed confirmation can be re-driven without double-granting.
type entitlementEngine struct {
	subs      repository.SubscriptionRepository
	purchases repository.PurchaseRepository
	creators  repository.CreatorRepository
	log       *zerolog.Logger
}

func newEntitlementEngine(
	subs repository.SubscriptionRepository,
	purchases repository.PurchaseRepository,
	creators repository.CreatorRepository,
	logger *zerolog.Logger,
) *entitlementEngine {
	return &entitlementEngine{subs: subs, purchases: purchases, creators: creators, log: logger}
}

func (e *entitlementEngine) Grant(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	switch p.Kind {
	case model.PaymentKindSubscription:
		return e.grantSubscription(ctx, tx, p)
	case model.PaymentKindPPV:
		return e.grantPPV(ctx, tx, p)
	case model.PaymentKindTip:
		return nil // a tip grants nothing durable; the balance credit is the whole effect
	case model.PaymentKindProPlan:
		return e.grantProPlan(ctx, tx, p)
	case model.PaymentKindPack:
		return e.grantPack(ctx, tx, p)
	default:
		return fmt.Errorf("unknown payment kind %q: %w", p.Kind, domain.ErrInvalidArgument)
	}
}

func (e *entitlementEngine) grantSubscription(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	meta := p.Metadata.Subscription
	if meta == nil || p.PayeeID == nil {
		return domain.ErrInvalidArgument
	}
	sub, err := model.NewSubscription(uuid.NewString(), p.PayerID, *p.PayeeID, p.Amount, meta.DurationDays)
	if err != nil {
		return err
	}
	inserted, err := e.subs.SaveIfNone(ctx, tx, sub)
	if err != nil {
		return err
	}
	if !inserted {
		// A period is already running; treat the confirmation as a
		// renewal and push its expiry out.
		_, err = e.subs.ExtendActive(ctx, tx, p.PayerID, *p.PayeeID, time.Duration(meta.DurationDays)*24*time.Hour)
		return err
	}
	return nil
}

func (e *entitlementEngine) grantPPV(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	meta := p.Metadata.PPV
	if meta == nil {
		return domain.ErrInvalidArgument
	}
	if meta.MessageID != nil {
		// Message-PPV variant: the unlock flag is the entitlement.
		changed, err := e.purchases.MarkMessagePaid(ctx, tx, *meta.MessageID)
		if err != nil {
			return err
		}
		if !changed {
			e.log.Debug().Str("payment_id", p.ID).Str("message_id", *meta.MessageID).Msg("message already unlocked")
		}
		return nil
	}
	purchase := &model.ContentPurchase{
		ID:         uuid.NewString(),
		PayerID:    p.PayerID,
		ContentID:  meta.ContentID,
		MediaIndex: meta.MediaIndex,
		PaymentID:  p.ID,
		CreatedAt:  time.Now(),
	}
	_, err := e.purchases.SaveContentPurchaseIfNone(ctx, tx, purchase)
	return err
}

func (e *entitlementEngine) grantPack(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	meta := p.Metadata.Pack
	if meta == nil {
		return domain.ErrInvalidArgument
	}
	purchase := &model.PackPurchase{
		ID:        uuid.NewString(),
		PayerID:   p.PayerID,
		PackID:    meta.PackID,
		PaymentID: p.ID,
		CreatedAt: time.Now(),
	}
	_, err := e.purchases.SavePackPurchaseIfNone(ctx, tx, purchase)
	return err
}

func (e *entitlementEngine) grantProPlan(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	meta := p.Metadata.ProPlan
	if meta == nil {
		return domain.ErrInvalidArgument
	}
	until := time.Now().Add(time.Duration(meta.DurationDays) * 24 * time.Hour)
	return e.creators.SetPro(ctx, tx, p.PayerID, until)
}
