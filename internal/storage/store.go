// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/groupfund/internal/models"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when an insert would violate a uniqueness
	// constraint (existing email, existing membership, already-recorded
	// checkout session). Callers decide whether that is an error or an
	// idempotent no-op.
	ErrDuplicate = errors.New("duplicate entry")
)

// Store defines the interface for all persistence operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateUser persists a new user. The user.ID field will be populated
	// by the store if empty. Returns ErrDuplicate if the email or username
	// is already registered.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email. Returns ErrNotFound if no
	// such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID. Returns ErrNotFound if no such
	// user exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByUsername retrieves a user by username. Returns ErrNotFound
	// if no such user exists.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// CreateFriendRequest inserts a pending friendship edge. Returns
	// ErrDuplicate if an edge already exists between the pair in either
	// direction.
	CreateFriendRequest(ctx context.Context, friendship *models.Friendship) error

	// GetPendingRequest retrieves the pending request from requester to
	// receiver. Returns ErrNotFound if there is none.
	GetPendingRequest(ctx context.Context, requesterID, receiverID string) (*models.Friendship, error)

	// UpdateFriendshipStatus moves a friendship to the given status.
	UpdateFriendshipStatus(ctx context.Context, id, status string) error

	// ListFriends returns the users on the other end of every accepted
	// friendship involving userID.
	ListFriends(ctx context.Context, userID string) ([]*models.User, error)

	// CreateGroup persists a new group and adds the creator as its first
	// member, atomically. The group.ID field will be populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by ID. Returns ErrNotFound if no such
	// group exists.
	GetGroup(ctx context.Context, id string) (*models.Group, error)

	// AddGroupMember adds a user to a group. Returns ErrDuplicate if the
	// user is already a member.
	AddGroupMember(ctx context.Context, groupID, userID string) error

	// RecordPayment commits one ledger entry, keyed on the external
	// checkout session ID. Returns ErrDuplicate if an entry for the same
	// session already exists; the ledger is unchanged in that case.
	RecordPayment(ctx context.Context, entry *models.LedgerEntry) error

	// GroupTotalCents sums the recorded contributions for a group.
	// A group with no entries yields 0, not an error.
	GroupTotalCents(ctx context.Context, groupID string) (int64, error)

	// ListPaymentsByGroup returns all ledger entries for a group, oldest
	// first.
	ListPaymentsByGroup(ctx context.Context, groupID string) ([]*models.LedgerEntry, error)

	// Close releases any resources held by the store.
	Close() error
}
