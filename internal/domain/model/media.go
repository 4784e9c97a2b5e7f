package model

// ResourceKind scopes a secure media access token to one entitlement
// check at resolution time.
type ResourceKind string

const (
	ResourceKindContent ResourceKind = "content" // requires subscription or content purchase
	ResourceKindPack    ResourceKind = "pack"    // requires pack purchase
	ResourceKindMessage ResourceKind = "message" // requires message unlock (or being a party to it)
)
