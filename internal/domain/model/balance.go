package model

import "time"

// Balance is one row per creator. Mutated only through the balance
// repository's atomic increment/decrement operations, never by
// read-then-write in application code.
type Balance struct {
	CreatorID     string
	Available     int64 // withdrawable now, centavos
	Pending       int64 // reserved for future holds, unused by this core
	TotalEarnings int64 // lifetime counter; decremented (floored at 0) on refund
	UpdatedAt     time.Time
}
