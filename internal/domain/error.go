package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidExecContext = errors.New("invalid query execution context")
	ErrOperationFailed    = errors.New("storage operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")

	// Purchase validation errors. Each one maps to a distinct,
	// localizable reason shown to the payer; never collapse them into a
	// generic failure.
	ErrNotPurchasable     = errors.New("product is not purchasable in its current state")
	ErrAlreadyPurchased   = errors.New("product already purchased")
	ErrAlreadySubscribed  = errors.New("payer already has an active subscription to this creator")
	ErrAmountBelowMinimum = errors.New("amount is below the configured minimum")

	// Reconciliation errors
	ErrRefundNotConfirmed = errors.New("refund is only legal on a confirmed payment")
	ErrGatewayUnavailable = errors.New("payment gateway request failed")
	ErrLockNotAcquired    = errors.New("could not acquire distributed lock")

	// Secure media access errors. ErrTokenInvalid covers bad signature,
	// expiry and subject mismatch; ErrNotEntitled means the token
	// verified but the live entitlement is gone.
	ErrTokenInvalid = errors.New("access token invalid or expired")
	ErrNotEntitled  = errors.New("payer is not entitled to this resource")
)
