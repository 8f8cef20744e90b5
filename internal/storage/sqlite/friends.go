package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/groupfund/internal/models"
	"github.com/mmynk/groupfund/internal/storage"
)

// CreateFriendRequest inserts a pending friendship edge.
// Returns storage.ErrDuplicate if an edge between the pair already exists
// in either direction, regardless of its status.
func (s *SQLiteStore) CreateFriendRequest(ctx context.Context, friendship *models.Friendship) error {
	if friendship.ID == "" {
		friendship.ID = uuid.New().String()
	}
	if friendship.Status == "" {
		friendship.Status = models.FriendStatusPending
	}
	if friendship.CreatedAt == 0 {
		friendship.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// The UNIQUE (requester_id, receiver_id) constraint only covers one
	// direction, so the reverse edge is checked inside the transaction.
	var existing int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM friends
		 WHERE (requester_id = ? AND receiver_id = ?)
		    OR (requester_id = ? AND receiver_id = ?)`,
		friendship.RequesterID, friendship.ReceiverID,
		friendship.ReceiverID, friendship.RequesterID,
	).Scan(&existing)
	if err == nil {
		return storage.ErrDuplicate
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("failed to check existing friendship: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO friends (id, requester_id, receiver_id, status, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		friendship.ID, friendship.RequesterID, friendship.ReceiverID,
		friendship.Status, friendship.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert friend request: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetPendingRequest retrieves the pending request from requester to receiver.
func (s *SQLiteStore) GetPendingRequest(ctx context.Context, requesterID, receiverID string) (*models.Friendship, error) {
	friendship := &models.Friendship{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, requester_id, receiver_id, status, created_at
		 FROM friends
		 WHERE requester_id = ? AND receiver_id = ? AND status = ?`,
		requesterID, receiverID, models.FriendStatusPending,
	).Scan(&friendship.ID, &friendship.RequesterID, &friendship.ReceiverID,
		&friendship.Status, &friendship.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending request: %w", err)
	}

	return friendship, nil
}

// UpdateFriendshipStatus moves a friendship to the given status.
func (s *SQLiteStore) UpdateFriendshipStatus(ctx context.Context, id, status string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE friends SET status = ? WHERE id = ?",
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update friendship status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// ListFriends returns the users on the other end of every accepted
// friendship involving userID.
func (s *SQLiteStore) ListFriends(ctx context.Context, userID string) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.id, u.email, u.username, u.password_hash, u.created_at
		 FROM friends f
		 JOIN users u ON u.id = CASE WHEN f.requester_id = ? THEN f.receiver_id ELSE f.requester_id END
		 WHERE (f.requester_id = ? OR f.receiver_id = ?) AND f.status = ?
		 ORDER BY u.username`,
		userID, userID, userID, models.FriendStatusAccept,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	var friends []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.Email, &user.Username, &user.PasswordHash, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		friends = append(friends, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate friends: %w", err)
	}

	return friends, nil
}
