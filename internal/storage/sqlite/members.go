package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mdtanveer0786/roommate-expense-tracker/internal/models"
)

// CreateMember inserts a new roster member, stamping ID and timestamps.
func (s *Store) CreateMember(ctx context.Context, member *models.Member) error {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if member.CreatedAt == 0 {
		member.CreatedAt = now
	}
	member.UpdatedAt = now

	query := `
		INSERT INTO members (id, name, color, avatar, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		member.ID,
		member.Name,
		member.Color,
		member.Avatar,
		member.CreatedAt,
		member.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}
	return nil
}

// GetMember retrieves a member by ID.
func (s *Store) GetMember(ctx context.Context, id string) (*models.Member, error) {
	query := `
		SELECT id, name, color, avatar, created_at, updated_at
		FROM members
		WHERE id = ?
	`
	member := &models.Member{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&member.ID,
		&member.Name,
		&member.Color,
		&member.Avatar,
		&member.CreatedAt,
		&member.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Kind: "member", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return member, nil
}

// ListMembers returns the full roster sorted by name.
func (s *Store) ListMembers(ctx context.Context) ([]models.Member, error) {
	query := `
		SELECT id, name, color, avatar, created_at, updated_at
		FROM members
		ORDER BY name, id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Color, &m.Avatar, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating members: %w", err)
	}
	return members, nil
}

// UpdateMember updates a member's display attributes.
func (s *Store) UpdateMember(ctx context.Context, member *models.Member) error {
	member.UpdatedAt = time.Now().Unix()

	query := `
		UPDATE members
		SET name = ?, color = ?, avatar = ?, updated_at = ?
		WHERE id = ?
	`
	res, err := s.db.ExecContext(ctx, query,
		member.Name,
		member.Color,
		member.Avatar,
		member.UpdatedAt,
		member.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return &models.NotFoundError{Kind: "member", ID: member.ID}
	}
	return nil
}

// DeleteMember removes a member from the roster.
func (s *Store) DeleteMember(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM members WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return &models.NotFoundError{Kind: "member", ID: id}
	}
	return nil
}

// CountMemberRefs reports how many expenses and absences reference the
// member. An expense counts once whether the member is its payer, a
// participant or a share holder.
func (s *Store) CountMemberRefs(ctx context.Context, memberID string) (int, int, error) {
	expenseQuery := `
		SELECT COUNT(*) FROM (
			SELECT id FROM expenses WHERE payer_id = ?
			UNION
			SELECT expense_id FROM expense_participants WHERE member_id = ?
			UNION
			SELECT expense_id FROM expense_shares WHERE member_id = ?
		)
	`
	var expenses int
	err := s.db.QueryRowContext(ctx, expenseQuery, memberID, memberID, memberID).Scan(&expenses)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count expense references: %w", err)
	}

	var absences int
	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM absences WHERE member_id = ?", memberID,
	).Scan(&absences)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count absence references: %w", err)
	}

	return expenses, absences, nil
}
