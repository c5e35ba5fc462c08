package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mdtanveer0786/roommate-expense-tracker/internal/models"
)

// CreateExpense persists a new expense with its participant list, entered
// split values and resolved shares in one transaction.
func (s *Store) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if expense.CreatedAt == 0 {
		expense.CreatedAt = now
	}
	expense.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, title, amount, payer_id, split_mode, category,
			expense_date, month_key, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Title, expense.Amount, expense.PayerID,
		string(expense.SplitMode), expense.Category,
		expense.Date.String(), expense.MonthKey(), expense.Notes,
		expense.CreatedAt, expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := insertExpenseChildren(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateExpense replaces an expense row and rewrites its child rows.
func (s *Store) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	expense.UpdatedAt = time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE expenses
		 SET title = ?, amount = ?, payer_id = ?, split_mode = ?, category = ?,
		     expense_date = ?, month_key = ?, notes = ?, updated_at = ?
		 WHERE id = ?`,
		expense.Title, expense.Amount, expense.PayerID,
		string(expense.SplitMode), expense.Category,
		expense.Date.String(), expense.MonthKey(), expense.Notes,
		expense.UpdatedAt, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return &models.NotFoundError{Kind: "expense", ID: expense.ID}
	}

	for _, table := range []string{"expense_participants", "expense_shares"} {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM "+table+" WHERE expense_id = ?", expense.ID,
		); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	if err := insertExpenseChildren(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// insertExpenseChildren writes the participant and share rows for an expense
// inside the caller's transaction.
func insertExpenseChildren(ctx context.Context, tx *sql.Tx, expense *models.Expense) error {
	for i, memberID := range expense.SplitBetween {
		var splitValue any
		if expense.SplitMode != models.SplitEqual {
			if v, ok := expense.SplitValues[memberID]; ok {
				splitValue = v
			}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO expense_participants (expense_id, member_id, position, split_value)
			 VALUES (?, ?, ?, ?)`,
			expense.ID, memberID, i, splitValue,
		); err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	for memberID, share := range expense.Shares {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO expense_shares (expense_id, member_id, share) VALUES (?, ?, ?)",
			expense.ID, memberID, share,
		); err != nil {
			return fmt.Errorf("failed to insert share: %w", err)
		}
	}
	return nil
}

// GetExpense retrieves an expense with its participants and shares.
func (s *Store) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	expenses, err := s.queryExpenses(ctx, "WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return nil, &models.NotFoundError{Kind: "expense", ID: id}
	}
	return &expenses[0], nil
}

// ListExpenses returns all expenses, newest date first.
func (s *Store) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	return s.queryExpenses(ctx, "")
}

// ListExpensesByMonth returns the expenses of one month bucket, newest date
// first.
func (s *Store) ListExpensesByMonth(ctx context.Context, monthKey string) ([]models.Expense, error) {
	return s.queryExpenses(ctx, "WHERE month_key = ?", monthKey)
}

// DeleteExpense removes an expense; participant and share rows cascade.
func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return &models.NotFoundError{Kind: "expense", ID: id}
	}
	return nil
}

// queryExpenses loads expense rows matching the WHERE clause, then attaches
// participants and shares with one bulk query per child table instead of one
// pair per expense.
func (s *Store) queryExpenses(ctx context.Context, where string, args ...any) ([]models.Expense, error) {
	query := `
		SELECT id, title, amount, payer_id, split_mode, category,
		       expense_date, notes, created_at, updated_at
		FROM expenses ` + where + `
		ORDER BY expense_date DESC, created_at DESC, id
	`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	index := make(map[string]int)
	for rows.Next() {
		var e models.Expense
		var mode, date string
		if err := rows.Scan(&e.ID, &e.Title, &e.Amount, &e.PayerID, &mode,
			&e.Category, &date, &e.Notes, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.SplitMode = models.SplitMode(mode)
		if e.Date, err = models.ParseDate(date); err != nil {
			return nil, fmt.Errorf("failed to parse expense date: %w", err)
		}
		index[e.ID] = len(expenses)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}
	if len(expenses) == 0 {
		return nil, nil
	}

	ids := make([]any, len(expenses))
	for i := range expenses {
		ids[i] = expenses[i].ID
	}
	placeholders := "?" + repeatPlaceholder(len(ids)-1)

	if err := s.attachParticipants(ctx, expenses, index, placeholders, ids); err != nil {
		return nil, err
	}
	if err := s.attachShares(ctx, expenses, index, placeholders, ids); err != nil {
		return nil, err
	}
	return expenses, nil
}

func (s *Store) attachParticipants(ctx context.Context, expenses []models.Expense, index map[string]int, placeholders string, ids []any) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT expense_id, member_id, split_value
		 FROM expense_participants
		 WHERE expense_id IN (`+placeholders+`)
		 ORDER BY expense_id, position`,
		ids...,
	)
	if err != nil {
		return fmt.Errorf("failed to load participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var expenseID, memberID string
		var splitValue sql.NullFloat64
		if err := rows.Scan(&expenseID, &memberID, &splitValue); err != nil {
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		e := &expenses[index[expenseID]]
		e.SplitBetween = append(e.SplitBetween, memberID)
		if splitValue.Valid {
			if e.SplitValues == nil {
				e.SplitValues = make(map[string]float64)
			}
			e.SplitValues[memberID] = splitValue.Float64
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating participants: %w", err)
	}
	return nil
}

func (s *Store) attachShares(ctx context.Context, expenses []models.Expense, index map[string]int, placeholders string, ids []any) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT expense_id, member_id, share
		 FROM expense_shares
		 WHERE expense_id IN (`+placeholders+`)`,
		ids...,
	)
	if err != nil {
		return fmt.Errorf("failed to load shares: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var expenseID, memberID string
		var share float64
		if err := rows.Scan(&expenseID, &memberID, &share); err != nil {
			return fmt.Errorf("failed to scan share: %w", err)
		}
		e := &expenses[index[expenseID]]
		if e.Shares == nil {
			e.Shares = make(map[string]float64)
		}
		e.Shares[memberID] = share
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating shares: %w", err)
	}
	return nil
}

// repeatPlaceholder returns ", ?" repeated n times, for building IN clauses.
func repeatPlaceholder(n int) string {
	if n <= 0 {
		return ""
	}
	result := ""
	for i := 0; i < n; i++ {
		result += ", ?"
	}
	return result
}
