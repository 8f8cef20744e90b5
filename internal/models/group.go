package models

// Group represents a pool of members who contribute money together.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Ski Trip", "Roommates").
	Name string

	// CreatorID is the user who created the group. The creator is always
	// also a member.
	CreatorID string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}
