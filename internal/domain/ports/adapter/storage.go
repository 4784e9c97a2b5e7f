package adapter

import (
	"context"
	"time"
)

// ObjectURLSigner mints short-lived retrieval URLs for protected media
// objects so the underlying storage key is never exposed directly.
type ObjectURLSigner interface {
	SignedURL(ctx context.Context, storageKey string, ttl time.Duration) (string, error)
}
