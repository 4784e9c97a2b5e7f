package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"creator-payment-ledger/internal/domain"
	"creator-payment-ledger/internal/domain/model"
	"creator-payment-ledger/internal/domain/ports/adapter"
	"creator-payment-ledger/internal/domain/ports/repository"
	"creator-payment-ledger/internal/infra/metrics"
)

// Gateway webhook event names. Anything else is acknowledged untouched.
const (
	EventPaymentReceived  = "PAYMENT_RECEIVED"
	EventPaymentConfirmed = "PAYMENT_CONFIRMED"
	EventPaymentOverdue   = "PAYMENT_OVERDUE"
	EventPaymentDeleted   = "PAYMENT_DELETED"
	EventPaymentRefunded  = "PAYMENT_REFUNDED"
)

// Compile-time check
var _ ReconcileUseCase = (*reconcileUC)(nil)

// ReconcileUseCase is the single guarded state machine that drives a
// payment out of pending. The webhook handler and the poll sweep both
// call into it; neither owns any transition logic of its own.
//
// Legal transitions: pending -> confirmed | failed | expired, and
// confirmed -> refunded. Every other request is a no-op that returns
// the current state (idempotency under at-least-once delivery).
type ReconcileUseCase interface {
	HandleGatewayEvent(ctx context.Context, event, paymentID string) (*model.Payment, error)
	Confirm(ctx context.Context, paymentID string) (*model.Payment, error)
	Fail(ctx context.Context, paymentID string) (*model.Payment, error)
	Expire(ctx context.Context, paymentID string) (*model.Payment, error)
	Refund(ctx context.Context, paymentID string) (*model.Payment, error)
	// RequestRefund asks the gateway to reverse a confirmed charge, then
	// applies the refund transition; the later webhook delivery no-ops.
	RequestRefund(ctx context.Context, paymentID string) (*model.Payment, error)
	// PollCharge fetches the charge status and applies the matching
	// transition. Used by the reconciliation sweep.
	PollCharge(ctx context.Context, p *model.Payment) (*model.Payment, error)
	// Poll is the payer-facing status check: it returns the payment,
	// pulling the gateway first when the row is still pending. Only the
	// payer or the payee may look.
	Poll(ctx context.Context, paymentID, callerID string) (*model.Payment, error)
}

// ReconcilePolicy names the refund behavior explicitly instead of
// inheriting it silently: by default a refund reverses money but keeps
// granted entitlements (goodwill). One-time unlocks are never revoked.
type ReconcilePolicy struct {
	RevokeSubscriptionOnRefund bool
}

type reconcileUC struct {
	payments    repository.PaymentRepository
	balances    repository.BalanceRepository
	users       repository.UserRepository
	engine      *entitlementEngine
	gateway     adapter.PaymentGateway
	tm          repository.TransactionManager
	mailer      adapter.Mailer
	broadcaster adapter.TipBroadcaster
	invalidator adapter.CacheInvalidator
	policy      ReconcilePolicy
	log         *zerolog.Logger
}

func NewReconcileUseCase(
	payments repository.PaymentRepository,
	balances repository.BalanceRepository,
	subs repository.SubscriptionRepository,
	purchases repository.PurchaseRepository,
	creators repository.CreatorRepository,
	users repository.UserRepository,
	gateway adapter.PaymentGateway,
	tm repository.TransactionManager,
	mailer adapter.Mailer,
	broadcaster adapter.TipBroadcaster,
	invalidator adapter.CacheInvalidator,
	policy ReconcilePolicy,
	logger *zerolog.Logger,
) *reconcileUC {
	return &reconcileUC{
		payments:    payments,
		balances:    balances,
		users:       users,
		engine:      newEntitlementEngine(subs, purchases, creators, logger),
		gateway:     gateway,
		tm:          tm,
		mailer:      mailer,
		broadcaster: broadcaster,
		invalidator: invalidator,
		policy:      policy,
		log:         logger,
	}
}

// HandleGatewayEvent maps a webhook event to a transition. Unrecognized
// events return the payment unchanged and no error so the webhook
// handler acknowledges them; the gateway must not retry forever on
// events irrelevant to the ledger.
func (u *reconcileUC) HandleGatewayEvent(ctx context.Context, event, paymentID string) (*model.Payment, error) {
	metrics.IncWebhookEvent(event)
	switch event {
	case EventPaymentReceived, EventPaymentConfirmed:
		return u.Confirm(ctx, paymentID)
	case EventPaymentOverdue:
		return u.Expire(ctx, paymentID)
	case EventPaymentDeleted:
		return u.Fail(ctx, paymentID)
	case EventPaymentRefunded:
		return u.Refund(ctx, paymentID)
	default:
		u.log.Info().Str("event", event).Str("payment_id", paymentID).Msg("ignoring unrecognized gateway event")
		return u.payments.FindByID(ctx, nil, paymentID)
	}
}

func (u *reconcileUC) Confirm(ctx context.Context, paymentID string) (*model.Payment, error) {
	var p *model.Payment
	var transitioned bool

	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		now := time.Now()
		changed, err := u.payments.UpdateStatusIf(ctx, tx, paymentID, model.PaymentStatusConfirmed,
			[]model.PaymentStatus{model.PaymentStatusPending}, &now)
		if err != nil {
			return err
		}
		p, err = u.payments.FindByID(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		if !changed {
			// Duplicate or out-of-order delivery; whoever won the guard
			// already granted. Nothing more to do.
			return nil
		}
		transitioned = true

		// Entitlement grant and balance credit are one logical unit with
		// the status flip: either all three commit or none do.
		if err := u.engine.Grant(ctx, tx, p); err != nil {
			return fmt.Errorf("grant %s: %w", p.Kind, err)
		}
		if p.PayeeID != nil && p.PayeeShare > 0 {
			if err := u.balances.Credit(ctx, tx, *p.PayeeID, p.PayeeShare); err != nil {
				return fmt.Errorf("credit payee: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if transitioned {
		metrics.IncPayment(string(p.Kind), string(model.PaymentStatusConfirmed))
		metrics.AddRevenue(string(p.Kind), p.Amount)
		if p.PayeeID != nil && p.PayeeShare > 0 {
			metrics.AddBalanceCredit(p.PayeeShare)
		}
		u.log.Info().Str("payment_id", p.ID).Str("kind", string(p.Kind)).Msg("payment confirmed")
		u.notifyConfirmed(ctx, p)
	}
	return p, nil
}

// notifyConfirmed runs the best-effort side channel: email, tip
// broadcast, cache invalidation. Failures are logged and dropped; the
// confirmed state is already durable.
func (u *reconcileUC) notifyConfirmed(ctx context.Context, p *model.Payment) {
	if payer, err := u.users.FindByID(ctx, nil, p.PayerID); err == nil {
		if err := u.mailer.SendPaymentConfirmed(ctx, payer.Email, "mail_confirmed", map[string]string{
			"payment_id": p.ID,
			"kind":       string(p.Kind),
		}); err != nil {
			u.log.Warn().Err(err).Str("payment_id", p.ID).Msg("confirmation mail failed")
		}
		if p.Kind == model.PaymentKindTip && p.PayeeID != nil {
			ev := adapter.TipEvent{
				CreatorID: *p.PayeeID,
				Amount:    p.Amount,
				PayerName: payer.Name,
			}
			if tip := p.Metadata.Tip; tip != nil {
				ev.Message = tip.Message
				if tip.ContentID != nil {
					ev.ContentID = *tip.ContentID
				}
			}
			if err := u.broadcaster.BroadcastTip(ctx, ev); err != nil {
				u.log.Warn().Err(err).Str("payment_id", p.ID).Msg("tip broadcast failed")
			}
		}
	} else {
		u.log.Warn().Err(err).Str("payment_id", p.ID).Msg("payer lookup for notification failed")
	}

	if p.PayeeID != nil {
		if err := u.invalidator.InvalidateEarnings(ctx, *p.PayeeID); err != nil {
			u.log.Warn().Err(err).Msg("earnings invalidation failed")
		}
	}
	if err := u.invalidator.InvalidateFeed(ctx, p.PayerID); err != nil {
		u.log.Warn().Err(err).Msg("feed invalidation failed")
	}
}

func (u *reconcileUC) Fail(ctx context.Context, paymentID string) (*model.Payment, error) {
	return u.terminal(ctx, paymentID, model.PaymentStatusFailed)
}

func (u *reconcileUC) Expire(ctx context.Context, paymentID string) (*model.Payment, error) {
	return u.terminal(ctx, paymentID, model.PaymentStatusExpired)
}

// terminal handles the grant-nothing edges pending->failed|expired.
func (u *reconcileUC) terminal(ctx context.Context, paymentID string, status model.PaymentStatus) (*model.Payment, error) {
	changed, err := u.payments.UpdateStatusIf(ctx, nil, paymentID, status,
		[]model.PaymentStatus{model.PaymentStatusPending}, nil)
	if err != nil {
		return nil, err
	}
	p, err := u.payments.FindByID(ctx, nil, paymentID)
	if err != nil {
		return nil, err
	}
	if changed {
		metrics.IncPayment(string(p.Kind), string(status))
		u.log.Info().Str("payment_id", p.ID).Str("status", string(status)).Msg("payment closed")
	}
	return p, nil
}

func (u *reconcileUC) Refund(ctx context.Context, paymentID string) (*model.Payment, error) {
	var p *model.Payment
	var transitioned bool

	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		changed, err := u.payments.UpdateStatusIf(ctx, tx, paymentID, model.PaymentStatusRefunded,
			[]model.PaymentStatus{model.PaymentStatusConfirmed}, nil)
		if err != nil {
			return err
		}
		p, err = u.payments.FindByID(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
		transitioned = true

		if p.PayeeID != nil && p.PayeeShare > 0 {
			// Debit floors at zero inside the repository; the payee never
			// goes negative even after earlier withdrawals.
			if err := u.balances.Debit(ctx, tx, *p.PayeeID, p.PayeeShare); err != nil {
				return fmt.Errorf("debit payee: %w", err)
			}
		}
		if u.policy.RevokeSubscriptionOnRefund && p.Kind == model.PaymentKindSubscription && p.PayeeID != nil {
			if _, err := u.engine.subs.CancelActive(ctx, tx, p.PayerID, *p.PayeeID); err != nil {
				return fmt.Errorf("cancel subscription: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if transitioned {
		metrics.IncPayment(string(p.Kind), string(model.PaymentStatusRefunded))
		if p.PayeeID != nil && p.PayeeShare > 0 {
			metrics.AddBalanceDebit(p.PayeeShare)
			if err := u.invalidator.InvalidateEarnings(ctx, *p.PayeeID); err != nil {
				u.log.Warn().Err(err).Msg("earnings invalidation failed")
			}
		}
		u.log.Info().Str("payment_id", p.ID).Msg("payment refunded")
	}
	return p, nil
}

func (u *reconcileUC) RequestRefund(ctx context.Context, paymentID string) (*model.Payment, error) {
	p, err := u.payments.FindByID(ctx, nil, paymentID)
	if err != nil {
		return nil, err
	}
	if p.Status != model.PaymentStatusConfirmed {
		return nil, fmt.Errorf("payment %s is %s: %w", p.ID, p.Status, domain.ErrRefundNotConfirmed)
	}
	if err := u.gateway.Refund(ctx, p.ChargeID); err != nil {
		return nil, fmt.Errorf("gateway refund: %v: %w", err, domain.ErrGatewayUnavailable)
	}
	return u.Refund(ctx, paymentID)
}

func (u *reconcileUC) Poll(ctx context.Context, paymentID, callerID string) (*model.Payment, error) {
	p, err := u.payments.FindByID(ctx, nil, paymentID)
	if err != nil {
		return nil, err
	}
	if p.PayerID != callerID && (p.PayeeID == nil || *p.PayeeID != callerID) {
		return nil, domain.ErrNotFound
	}
	if p.Status != model.PaymentStatusPending {
		return p, nil
	}
	polled, err := u.PollCharge(ctx, p)
	if err != nil {
		// The row is still good; a flaky gateway must not break polling.
		u.log.Warn().Err(err).Str("payment_id", p.ID).Msg("poll fell back to stored state")
		return p, nil
	}
	return polled, nil
}

// chargelessTTL bounds the life of a pending payment whose charge
// creation never completed and that therefore carries no gateway
// expiry. Mirrors the next-day due date the gateway puts on charges.
// Without it such rows pend forever and clog the oldest-first sweep.
const chargelessTTL = 24 * time.Hour

// PollCharge drives a stale pending payment from the pull side. The
// charge status maps onto the same transitions the webhook uses.
func (u *reconcileUC) PollCharge(ctx context.Context, p *model.Payment) (*model.Payment, error) {
	if p.ChargeID == "" {
		// Charge creation never completed; the payment can only expire.
		deadline := p.CreatedAt.Add(chargelessTTL)
		if p.ChargeExpiresAt != nil {
			deadline = *p.ChargeExpiresAt
		}
		if time.Now().After(deadline) {
			return u.Expire(ctx, p.ID)
		}
		return p, nil
	}
	status, err := u.gateway.GetCharge(ctx, p.ChargeID)
	if err != nil {
		return nil, fmt.Errorf("get charge %s: %v: %w", p.ChargeID, err, domain.ErrGatewayUnavailable)
	}
	switch status {
	case adapter.ChargeStatusReceived, adapter.ChargeStatusConfirmed:
		return u.Confirm(ctx, p.ID)
	case adapter.ChargeStatusOverdue:
		return u.Expire(ctx, p.ID)
	case adapter.ChargeStatusDeleted:
		return u.Fail(ctx, p.ID)
	case adapter.ChargeStatusRefunded:
		return u.Refund(ctx, p.ID)
	default:
		return p, nil
	}
}
