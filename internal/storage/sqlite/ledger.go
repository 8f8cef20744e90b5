package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/groupfund/internal/models"
	"github.com/mmynk/groupfund/internal/storage"
)

// RecordPayment commits one ledger entry, keyed on the checkout session ID.
//
// The insert relies on the UNIQUE(session_id) constraint instead of a
// read-then-write check: when the payment processor redelivers an event, or
// two deliveries race, the losing insert affects zero rows and the caller
// gets storage.ErrDuplicate. The conflict is resolved with DO NOTHING rather
// than by inspecting driver error codes, so the outcome is the same under
// any SQLite driver.
func (s *SQLiteStore) RecordPayment(ctx context.Context, entry *models.LedgerEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.RecordedAt == 0 {
		entry.RecordedAt = time.Now().Unix()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO group_payments (id, session_id, group_id, user_id, amount_cents, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (session_id) DO NOTHING`,
		entry.ID, entry.SessionID, entry.GroupID, entry.UserID,
		entry.AmountCents, entry.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert ledger entry: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrDuplicate
	}

	return nil
}

// GroupTotalCents sums the recorded contributions for a group.
func (s *SQLiteStore) GroupTotalCents(ctx context.Context, groupID string) (int64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount_cents), 0) FROM group_payments WHERE group_id = ?",
		groupID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum group payments: %w", err)
	}

	return total, nil
}

// ListPaymentsByGroup returns all ledger entries for a group, oldest first.
func (s *SQLiteStore) ListPaymentsByGroup(ctx context.Context, groupID string) ([]*models.LedgerEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, group_id, user_id, amount_cents, recorded_at
		 FROM group_payments WHERE group_id = ? ORDER BY recorded_at, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list group payments: %w", err)
	}
	defer rows.Close()

	var entries []*models.LedgerEntry
	for rows.Next() {
		entry := &models.LedgerEntry{}
		if err := rows.Scan(&entry.ID, &entry.SessionID, &entry.GroupID,
			&entry.UserID, &entry.AmountCents, &entry.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}

	return entries, nil
}
