package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"creator-payment-ledger/internal/domain"
	"creator-payment-ledger/internal/domain/model"
	"creator-payment-ledger/internal/domain/ports/adapter"
	"creator-payment-ledger/internal/domain/ports/repository"
	"creator-payment-ledger/internal/infra/metrics"
)

// Compile-time check
var _ MediaTokenUseCase = (*mediaTokenUC)(nil)

// MediaTokenUseCase gates stored media behind entitlement checks.
// Issue signs a short-lived scoped token; Resolve verifies it,
// re-checks the live entitlement (never trusting the grant baked in at
// issue time) and mints a fresh time-limited retrieval URL.
type MediaTokenUseCase interface {
	// mediaIndex scopes a content token to one item of a multi-media
	// post; nil means the whole post.
	Issue(userID string, kind model.ResourceKind, resourceID, storageKey string, mediaIndex *int) (string, error)
	// Resolve verifies token and returns a signed retrieval URL. With a
	// non-empty callerID (session mode) the caller must match the token
	// subject; with an empty callerID (token-only mode, for bare
	// <img>/<video> loads) the subject is taken from the token itself.
	Resolve(ctx context.Context, token, callerID string) (string, error)
}

type mediaClaims struct {
	Kind       string `json:"kind"`
	ResourceID string `json:"rid"`
	StorageKey string `json:"key"`
	MediaIndex *int   `json:"idx,omitempty"`
	jwt.RegisteredClaims
}

type mediaTokenUC struct {
	secret    []byte
	tokenTTL  time.Duration
	urlTTL    time.Duration
	subs      repository.SubscriptionRepository
	purchases repository.PurchaseRepository
	catalog   repository.ContentRepository
	signer    adapter.ObjectURLSigner
	log       *zerolog.Logger
}

func NewMediaTokenUseCase(
	secret string,
	tokenTTL, urlTTL time.Duration,
	subs repository.SubscriptionRepository,
	purchases repository.PurchaseRepository,
	catalog repository.ContentRepository,
	signer adapter.ObjectURLSigner,
	logger *zerolog.Logger,
) *mediaTokenUC {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	if urlTTL <= 0 {
		urlTTL = 15 * time.Minute
	}
	return &mediaTokenUC{
		secret: []byte(secret), tokenTTL: tokenTTL, urlTTL: urlTTL,
		subs: subs, purchases: purchases, catalog: catalog,
		signer: signer, log: logger,
	}
}

// Issue does not check entitlement: issuance only happens from code
// paths that already rendered the item to an entitled user.
func (u *mediaTokenUC) Issue(userID string, kind model.ResourceKind, resourceID, storageKey string, mediaIndex *int) (string, error) {
	if userID == "" || resourceID == "" || storageKey == "" {
		return "", domain.ErrInvalidArgument
	}
	now := time.Now()
	claims := mediaClaims{
		Kind:       string(kind),
		ResourceID: resourceID,
		StorageKey: storageKey,
		MediaIndex: mediaIndex,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(u.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(u.secret)
}

func (u *mediaTokenUC) Resolve(ctx context.Context, token, callerID string) (string, error) {
	claims := &mediaClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return u.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tkn.Valid {
		metrics.IncMediaResolve("token_invalid")
		return "", domain.ErrTokenInvalid
	}
	if callerID != "" && callerID != claims.Subject {
		metrics.IncMediaResolve("subject_mismatch")
		return "", domain.ErrTokenInvalid
	}

	entitled, err := u.checkEntitlement(ctx, claims.Subject, model.ResourceKind(claims.Kind), claims.ResourceID, claims.MediaIndex)
	if err != nil {
		return "", err
	}
	if !entitled {
		metrics.IncMediaResolve("not_entitled")
		return "", fmt.Errorf("%s %s for user %s: %w", claims.Kind, claims.ResourceID, claims.Subject, domain.ErrNotEntitled)
	}

	url, err := u.signer.SignedURL(ctx, claims.StorageKey, u.urlTTL)
	if err != nil {
		return "", fmt.Errorf("sign url: %w", err)
	}
	metrics.IncMediaResolve("ok")
	return url, nil
}

// checkEntitlement re-reads the live data model so access revoked or
// refunded between issue and use is denied.
func (u *mediaTokenUC) checkEntitlement(ctx context.Context, userID string, kind model.ResourceKind, resourceID string, mediaIndex *int) (bool, error) {
	switch kind {
	case model.ResourceKindContent:
		content, err := u.catalog.FindContent(ctx, nil, resourceID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return false, nil
			}
			return false, err
		}
		if content.Deleted {
			return false, nil
		}
		if content.CreatorID == userID {
			return true, nil
		}
		switch content.Visibility {
		case model.ContentVisibilityPublic:
			return true, nil
		case model.ContentVisibilitySubscribers:
			sub, err := u.subs.FindActiveByPair(ctx, nil, userID, content.CreatorID)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return false, err
			}
			return sub != nil, nil
		default: // PPV: a covering purchase or an active subscription
			// The index from the token narrows the check to one item; the
			// repository treats a whole-content purchase as covering it.
			if owned, err := u.purchases.HasContentPurchase(ctx, nil, userID, resourceID, mediaIndex); err != nil {
				return false, err
			} else if owned {
				return true, nil
			}
			sub, err := u.subs.FindActiveByPair(ctx, nil, userID, content.CreatorID)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return false, err
			}
			return sub != nil, nil
		}
	case model.ResourceKindPack:
		pack, err := u.catalog.FindPack(ctx, nil, resourceID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return false, nil
			}
			return false, err
		}
		if pack.CreatorID == userID {
			return true, nil
		}
		return u.purchases.HasPackPurchase(ctx, nil, userID, resourceID)
	case model.ResourceKindMessage:
		msg, err := u.catalog.FindMessage(ctx, nil, resourceID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return false, nil
			}
			return false, err
		}
		if msg.SenderID == userID {
			return true, nil
		}
		if msg.UserID != userID {
			return false, nil
		}
		return !msg.PPV || msg.Paid, nil
	default:
		return false, fmt.Errorf("resource kind %q: %w", kind, domain.ErrInvalidArgument)
	}
}
