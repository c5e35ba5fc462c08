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

// CreateAbsence persists a new absence record, stamping ID and timestamps.
func (s *Store) CreateAbsence(ctx context.Context, absence *models.Absence) error {
	if absence.ID == "" {
		absence.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if absence.CreatedAt == 0 {
		absence.CreatedAt = now
	}
	absence.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO absences (id, member_id, start_date, end_date, reason, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		absence.ID, absence.MemberID,
		absence.StartDate.String(), absence.EndDate.String(), absence.Reason,
		absence.CreatedAt, absence.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create absence: %w", err)
	}
	return nil
}

// GetAbsence retrieves an absence record by ID.
func (s *Store) GetAbsence(ctx context.Context, id string) (*models.Absence, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, member_id, start_date, end_date, reason, created_at, updated_at
		 FROM absences WHERE id = ?`, id)

	absence, err := scanAbsence(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Kind: "absence", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get absence: %w", err)
	}
	return absence, nil
}

// ListAbsences returns all absence records, newest start date first.
func (s *Store) ListAbsences(ctx context.Context) ([]models.Absence, error) {
	return s.queryAbsences(ctx,
		`SELECT id, member_id, start_date, end_date, reason, created_at, updated_at
		 FROM absences ORDER BY start_date DESC, id`)
}

// ListAbsencesByMember returns one member's absence records, newest start
// date first.
func (s *Store) ListAbsencesByMember(ctx context.Context, memberID string) ([]models.Absence, error) {
	return s.queryAbsences(ctx,
		`SELECT id, member_id, start_date, end_date, reason, created_at, updated_at
		 FROM absences WHERE member_id = ? ORDER BY start_date DESC, id`, memberID)
}

// UpdateAbsence replaces an existing absence record.
func (s *Store) UpdateAbsence(ctx context.Context, absence *models.Absence) error {
	absence.UpdatedAt = time.Now().Unix()

	res, err := s.db.ExecContext(ctx,
		`UPDATE absences
		 SET member_id = ?, start_date = ?, end_date = ?, reason = ?, updated_at = ?
		 WHERE id = ?`,
		absence.MemberID, absence.StartDate.String(), absence.EndDate.String(),
		absence.Reason, absence.UpdatedAt, absence.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update absence: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return &models.NotFoundError{Kind: "absence", ID: absence.ID}
	}
	return nil
}

// DeleteAbsence removes an absence record.
func (s *Store) DeleteAbsence(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM absences WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete absence: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return &models.NotFoundError{Kind: "absence", ID: id}
	}
	return nil
}

func (s *Store) queryAbsences(ctx context.Context, query string, args ...any) ([]models.Absence, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list absences: %w", err)
	}
	defer rows.Close()

	var absences []models.Absence
	for rows.Next() {
		absence, err := scanAbsence(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan absence: %w", err)
		}
		absences = append(absences, *absence)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating absences: %w", err)
	}
	return absences, nil
}

// scanAbsence reads one absence row via the given Scan function, converting
// the stored date strings back to Dates.
func scanAbsence(scan func(dest ...any) error) (*models.Absence, error) {
	var a models.Absence
	var start, end string
	if err := scan(&a.ID, &a.MemberID, &start, &end, &a.Reason, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if a.StartDate, err = models.ParseDate(start); err != nil {
		return nil, fmt.Errorf("failed to parse start date: %w", err)
	}
	if a.EndDate, err = models.ParseDate(end); err != nil {
		return nil, fmt.Errorf("failed to parse end date: %w", err)
	}
	return &a, nil
}
