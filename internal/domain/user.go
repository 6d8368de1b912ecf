package domain

import "time"

// User represents a bot user with a durable credit balance.
type User struct {
	ID          int64
	DisplayName string
	// Balance is the credit count; it is never negative.
	Balance int64
	// Effect is the user's sticky voice-effect code. It is not validated
	// against the registry; unknown codes degrade to the identity
	// transform when applied.
	Effect    string
	CreatedAt time.Time
}

// Payment is an append-only audit record of an admin-confirmed grant.
type Payment struct {
	ID        int64
	UserID    int64
	Amount    int64
	Points    int64
	CreatedAt time.Time
}

// Stats aggregates ledger-wide counters for the admin panel.
type Stats struct {
	UserCount    int64
	TotalBalance int64
}
