package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"creator-payment-ledger/internal/domain"
	"creator-payment-ledger/internal/domain/model"
	"creator-payment-ledger/internal/domain/ports/adapter"
	"creator-payment-ledger/internal/domain/ports/repository"
	"creator-payment-ledger/internal/infra/metrics"
)

// Compile-time check
var _ CheckoutUseCase = (*checkoutUC)(nil)

// CheckoutUseCase turns a purchase intent into a pending payment plus
// payer-facing charge instructions. Every method validates the product
// and duplicate state before any mutation, then runs the shared
// create-charge pipeline.
type CheckoutUseCase interface {
	CreateSubscriptionPayment(ctx context.Context, payerID, creatorID string, durationDays int, taxID string) (*model.Payment, error)
	CreatePPVPayment(ctx context.Context, payerID, contentID string, mediaIndex *int, taxID string) (*model.Payment, error)
	CreateTipPayment(ctx context.Context, payerID, creatorID string, amount int64, message string, contentID *string, taxID string) (*model.Payment, error)
	CreateProPlanPayment(ctx context.Context, creatorUserID, taxID string) (*model.Payment, error)
	CreatePackPayment(ctx context.Context, payerID, packID, taxID string) (*model.Payment, error)
	CreateMessagePPVPayment(ctx context.Context, payerID, messageID, taxID string) (*model.Payment, error)
}

// CheckoutConfig carries the kind parameters that are platform policy
// rather than product data.
type CheckoutConfig struct {
	ProPlanPrice        int64 // centavos
	ProPlanDurationDays int
}

type checkoutUC struct {
	payments  repository.PaymentRepository
	subs      repository.SubscriptionRepository
	purchases repository.PurchaseRepository
	users     repository.UserRepository
	creators  repository.CreatorRepository
	catalog   repository.ContentRepository
	gateway   adapter.PaymentGateway
	fees      *FeeCalculator
	cfg       CheckoutConfig
	log       *zerolog.Logger
}

func NewCheckoutUseCase(
	payments repository.PaymentRepository,
	subs repository.SubscriptionRepository,
	purchases repository.PurchaseRepository,
	users repository.UserRepository,
	creators repository.CreatorRepository,
	catalog repository.ContentRepository,
	gateway adapter.PaymentGateway,
	fees *FeeCalculator,
	cfg CheckoutConfig,
	logger *zerolog.Logger,
) *checkoutUC {
	if cfg.ProPlanDurationDays <= 0 {
		cfg.ProPlanDurationDays = 30
	}
	return &checkoutUC{
		payments: payments, subs: subs, purchases: purchases,
		users: users, creators: creators, catalog: catalog,
		gateway: gateway, fees: fees, cfg: cfg, log: logger,
	}
}

func (u *checkoutUC) CreateSubscriptionPayment(ctx context.Context, payerID, creatorID string, durationDays int, taxID string) (*model.Payment, error) {
	if durationDays <= 0 {
		durationDays = 30
	}
	if payerID == creatorID {
		return nil, fmt.Errorf("self-subscription: %w", domain.ErrNotPurchasable)
	}
	profile, err := u.creators.FindProfile(ctx, nil, creatorID)
	if err != nil {
		return nil, err
	}
	if profile.SubscriptionPrice <= 0 {
		return nil, fmt.Errorf("creator has no subscription price: %w", domain.ErrNotPurchasable)
	}
	if existing, err := u.subs.FindActiveByPair(ctx, nil, payerID, creatorID); err == nil && existing != nil {
		return nil, domain.ErrAlreadySubscribed
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	meta := model.PaymentMetadata{Subscription: &model.SubscriptionMeta{DurationDays: durationDays}}
	return u.create(ctx, payerID, &creatorID, model.PaymentKindSubscription, profile.SubscriptionPrice, meta, taxID,
		fmt.Sprintf("Subscription (%d days)", durationDays))
}

func (u *checkoutUC) CreatePPVPayment(ctx context.Context, payerID, contentID string, mediaIndex *int, taxID string) (*model.Payment, error) {
	content, err := u.catalog.FindContent(ctx, nil, contentID)
	if err != nil {
		return nil, err
	}
	if content.Deleted || content.Visibility != model.ContentVisibilityPPV {
		return nil, fmt.Errorf("content %s: %w", contentID, domain.ErrNotPurchasable)
	}
	price, ok := content.PriceForIndex(mediaIndex)
	if !ok {
		return nil, fmt.Errorf("content %s has no price for the requested item: %w", contentID, domain.ErrNotPurchasable)
	}
	owned, err := u.purchases.HasContentPurchase(ctx, nil, payerID, contentID, mediaIndex)
	if err != nil {
		return nil, err
	}
	if owned {
		return nil, domain.ErrAlreadyPurchased
	}

	meta := model.PaymentMetadata{PPV: &model.PPVMeta{ContentID: contentID, MediaIndex: mediaIndex}}
	return u.create(ctx, payerID, &content.CreatorID, model.PaymentKindPPV, price, meta, taxID, "PPV content unlock")
}

func (u *checkoutUC) CreateTipPayment(ctx context.Context, payerID, creatorID string, amount int64, message string, contentID *string, taxID string) (*model.Payment, error) {
	if _, err := u.creators.FindProfile(ctx, nil, creatorID); err != nil {
		return nil, err
	}
	meta := model.PaymentMetadata{Tip: &model.TipMeta{Message: message, ContentID: contentID}}
	return u.create(ctx, payerID, &creatorID, model.PaymentKindTip, amount, meta, taxID, "Tip")
}

func (u *checkoutUC) CreateProPlanPayment(ctx context.Context, creatorUserID, taxID string) (*model.Payment, error) {
	if _, err := u.creators.FindProfile(ctx, nil, creatorUserID); err != nil {
		return nil, err
	}
	meta := model.PaymentMetadata{ProPlan: &model.ProPlanMeta{DurationDays: u.cfg.ProPlanDurationDays}}
	// Platform-only charge: no payee, the platform keeps the remainder.
	return u.create(ctx, creatorUserID, nil, model.PaymentKindProPlan, u.cfg.ProPlanPrice, meta, taxID, "Pro plan")
}

func (u *checkoutUC) CreatePackPayment(ctx context.Context, payerID, packID, taxID string) (*model.Payment, error) {
	pack, err := u.catalog.FindPack(ctx, nil, packID)
	if err != nil {
		return nil, err
	}
	if !pack.Active {
		return nil, fmt.Errorf("pack %s is inactive: %w", packID, domain.ErrNotPurchasable)
	}
	owned, err := u.purchases.HasPackPurchase(ctx, nil, payerID, packID)
	if err != nil {
		return nil, err
	}
	if owned {
		return nil, domain.ErrAlreadyPurchased
	}

	meta := model.PaymentMetadata{Pack: &model.PackMeta{PackID: packID}}
	return u.create(ctx, payerID, &pack.CreatorID, model.PaymentKindPack, pack.Price, meta, taxID, "Media pack")
}

func (u *checkoutUC) CreateMessagePPVPayment(ctx context.Context, payerID, messageID, taxID string) (*model.Payment, error) {
	msg, err := u.catalog.FindMessage(ctx, nil, messageID)
	if err != nil {
		return nil, err
	}
	if !msg.PPV || msg.UserID != payerID {
		return nil, fmt.Errorf("message %s: %w", messageID, domain.ErrNotPurchasable)
	}
	if msg.Paid {
		return nil, domain.ErrAlreadyPurchased
	}

	meta := model.PaymentMetadata{PPV: &model.PPVMeta{ContentID: msg.ContentID, MessageID: &messageID}}
	return u.create(ctx, payerID, &msg.SenderID, model.PaymentKindPPV, msg.Price, meta, taxID, "Message unlock")
}

// create runs the shared pipeline: fee split, customer link, pending
// row, gateway charge keyed by the payment id, instruction persist.
func (u *checkoutUC) create(ctx context.Context, payerID string, payeeID *string, kind model.PaymentKind, baseAmount int64, meta model.PaymentMetadata, taxID, description string) (*model.Payment, error) {
	fees, err := u.fees.ComputeFees(baseAmount, kind)
	if err != nil {
		return nil, err
	}
	if err := meta.Validate(kind); err != nil {
		return nil, err
	}

	payer, err := u.users.FindByID(ctx, nil, payerID)
	if err != nil {
		return nil, err
	}
	customerID, err := u.ensureCustomer(ctx, payer, taxID)
	if err != nil {
		return nil, err
	}

	p, err := model.NewPendingPayment(payerID, payeeID, kind, fees, meta)
	if err != nil {
		return nil, err
	}
	if err := u.payments.Save(ctx, nil, p); err != nil {
		return nil, err
	}

	// The payment id travels as the charge's external reference; the
	// webhook and the poll sweep both join back on it.
	charge, err := u.gateway.CreateCharge(ctx, customerID, fees.TotalCharged, description, p.ID)
	if err != nil {
		u.log.Error().Err(err).Str("payment_id", p.ID).Str("kind", string(kind)).Msg("charge creation failed")
		return nil, fmt.Errorf("create charge: %v: %w", err, domain.ErrGatewayUnavailable)
	}
	if err := u.payments.SetCharge(ctx, nil, p.ID, charge.ID, charge.QRPayload, charge.QRImage, charge.ExpiresAt); err != nil {
		return nil, err
	}
	p.ChargeID = charge.ID
	p.QRPayload = charge.QRPayload
	p.QRImage = charge.QRImage
	p.ChargeExpiresAt = charge.ExpiresAt

	metrics.IncPayment(string(kind), string(model.PaymentStatusPending))
	u.log.Info().Str("payment_id", p.ID).Str("kind", string(kind)).Int64("total", fees.TotalCharged).Msg("payment created")
	return p, nil
}

// ensureCustomer reuses the payer's linked gateway customer, adopts an
// existing gateway record by email, or creates one. A newly supplied
// tax id is pushed to the gateway and stored.
func (u *checkoutUC) ensureCustomer(ctx context.Context, payer *model.User, taxID string) (string, error) {
	newTaxID := taxID != "" && taxID != payer.TaxID

	if payer.CustomerID != "" {
		if newTaxID {
			if err := u.gateway.UpdateCustomer(ctx, payer.CustomerID, map[string]string{"cpfCnpj": taxID}); err != nil {
				return "", fmt.Errorf("update customer: %v: %w", err, domain.ErrGatewayUnavailable)
			}
			if err := u.users.SetTaxID(ctx, nil, payer.ID, taxID); err != nil {
				return "", err
			}
		}
		return payer.CustomerID, nil
	}

	effectiveTaxID := payer.TaxID
	if taxID != "" {
		effectiveTaxID = taxID
	}

	var customerID string
	if existing, err := u.gateway.FindCustomerByEmail(ctx, payer.Email); err == nil && existing != nil {
		customerID = existing.ID
		if newTaxID {
			if err := u.gateway.UpdateCustomer(ctx, customerID, map[string]string{"cpfCnpj": taxID}); err != nil {
				return "", fmt.Errorf("update customer: %v: %w", err, domain.ErrGatewayUnavailable)
			}
		}
	} else {
		customerID, err = u.gateway.CreateCustomer(ctx, payer.Name, payer.Email, effectiveTaxID)
		if err != nil {
			return "", fmt.Errorf("create customer: %v: %w", err, domain.ErrGatewayUnavailable)
		}
	}

	if err := u.users.LinkCustomer(ctx, nil, payer.ID, customerID); err != nil {
		return "", err
	}
	if newTaxID {
		if err := u.users.SetTaxID(ctx, nil, payer.ID, taxID); err != nil {
			return "", err
		}
	}
	return customerID, nil
}
