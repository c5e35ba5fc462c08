package sqlite

import (
	"context"
	"fmt"
	"time"
)

// LockMonth closes a month bucket to mutations. Locking an already locked
// month is a no-op.
func (s *Store) LockMonth(ctx context.Context, monthKey string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO month_locks (month_key, locked_at) VALUES (?, ?) ON CONFLICT (month_key) DO NOTHING",
		monthKey, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to lock month: %w", err)
	}
	return nil
}

// UnlockMonth reopens a month bucket. Unlocking an unlocked month is a no-op.
func (s *Store) UnlockMonth(ctx context.Context, monthKey string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM month_locks WHERE month_key = ?", monthKey,
	)
	if err != nil {
		return fmt.Errorf("failed to unlock month: %w", err)
	}
	return nil
}

// IsMonthLocked reports whether the month bucket is closed.
func (s *Store) IsMonthLocked(ctx context.Context, monthKey string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM month_locks WHERE month_key = ?", monthKey,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check month lock: %w", err)
	}
	return count > 0, nil
}

// ListLockedMonths returns all locked month keys in ascending order.
func (s *Store) ListLockedMonths(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT month_key FROM month_locks ORDER BY month_key")
	if err != nil {
		return nil, fmt.Errorf("failed to list locked months: %w", err)
	}
	defer rows.Close()

	var months []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan month key: %w", err)
		}
		months = append(months, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating month locks: %w", err)
	}
	return months, nil
}
