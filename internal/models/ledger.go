package models

// LedgerEntry is a durable record of one confirmed, settled contribution
// to a group. Entries are written exactly once per checkout session and
// never mutated afterwards.
type LedgerEntry struct {
	// ID is the unique identifier for the entry (UUID format).
	ID string

	// SessionID is the payment processor's checkout session identifier.
	// Unique across the ledger: redelivery of the same completed-checkout
	// event must not produce a second entry.
	SessionID string

	// GroupID is the group the contribution was made to.
	GroupID string

	// UserID is the contributing user.
	UserID string

	// AmountCents is the settled amount in minor units (cents).
	AmountCents int64

	// RecordedAt is the Unix timestamp when the entry was committed.
	RecordedAt int64
}

// Contribution is a per-user aggregate over a group's ledger entries.
// Derived on every query, never stored.
type Contribution struct {
	// Username is the contributor's display name. Empty if the profile
	// could not be resolved; the amount is counted regardless.
	Username string

	// TotalCents is the sum of the user's contributions in cents.
	TotalCents int64
}
