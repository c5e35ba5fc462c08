// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mdtanveer0786/roommate-expense-tracker/internal/models"
)

// Store defines the persistence operations the services need. The
// abstraction allows swapping backends (SQLite file, bbolt key-value store,
// in-memory) without touching the service layer.
//
// Create methods stamp missing IDs and timestamps on the passed struct.
// Lookups of missing rows return *models.NotFoundError.
type Store interface {
	// CreateMember persists a new roster member.
	CreateMember(ctx context.Context, member *models.Member) error

	// GetMember retrieves a member by ID.
	GetMember(ctx context.Context, id string) (*models.Member, error)

	// ListMembers returns the full roster sorted by name.
	ListMembers(ctx context.Context) ([]models.Member, error)

	// UpdateMember updates a member's display attributes.
	UpdateMember(ctx context.Context, member *models.Member) error

	// DeleteMember removes a member. Callers are responsible for checking
	// references first; backends may additionally enforce integrity.
	DeleteMember(ctx context.Context, id string) error

	// CountMemberRefs reports how many expenses (as payer, participant or
	// share holder) and how many absence records reference the member.
	CountMemberRefs(ctx context.Context, memberID string) (expenses, absences int, err error)

	// CreateExpense persists a new expense with its participant list,
	// entered split values and resolved shares.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by ID.
	GetExpense(ctx context.Context, id string) (*models.Expense, error)

	// ListExpenses returns all expenses, newest date first.
	ListExpenses(ctx context.Context) ([]models.Expense, error)

	// ListExpensesByMonth returns the expenses of one month bucket,
	// newest date first.
	ListExpensesByMonth(ctx context.Context, monthKey string) ([]models.Expense, error)

	// UpdateExpense replaces an existing expense and its child rows.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes an expense and its child rows.
	DeleteExpense(ctx context.Context, id string) error

	// CreateAbsence persists a new absence record.
	CreateAbsence(ctx context.Context, absence *models.Absence) error

	// GetAbsence retrieves an absence record by ID.
	GetAbsence(ctx context.Context, id string) (*models.Absence, error)

	// ListAbsences returns all absence records, newest start date first.
	ListAbsences(ctx context.Context) ([]models.Absence, error)

	// ListAbsencesByMember returns one member's absence records, newest
	// start date first.
	ListAbsencesByMember(ctx context.Context, memberID string) ([]models.Absence, error)

	// UpdateAbsence replaces an existing absence record.
	UpdateAbsence(ctx context.Context, absence *models.Absence) error

	// DeleteAbsence removes an absence record.
	DeleteAbsence(ctx context.Context, id string) error

	// LockMonth closes a month bucket to mutations. Locking an already
	// locked month is a no-op.
	LockMonth(ctx context.Context, monthKey string) error

	// UnlockMonth reopens a month bucket. Unlocking an unlocked month is a
	// no-op.
	UnlockMonth(ctx context.Context, monthKey string) error

	// IsMonthLocked reports whether the month bucket is closed.
	IsMonthLocked(ctx context.Context, monthKey string) (bool, error)

	// ListLockedMonths returns all locked month keys in ascending order.
	ListLockedMonths(ctx context.Context) ([]string, error)

	// Close releases any resources held by the store.
	Close() error
}
