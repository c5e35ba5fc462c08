// Package memory provides an in-memory implementation of the storage.Store
// interface for tests and throwaway runs. Nothing survives a restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mdtanveer0786/roommate-expense-tracker/internal/models"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store keeps every record in maps guarded by one mutex. All getters hand out
// copies, so callers can never reach the stored state through an alias.
type Store struct {
	mu       sync.Mutex
	members  map[string]models.Member
	expenses map[string]models.Expense
	absences map[string]models.Absence
	locked   map[string]bool
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		members:  make(map[string]models.Member),
		expenses: make(map[string]models.Expense),
		absences: make(map[string]models.Absence),
		locked:   make(map[string]bool),
	}
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error { return nil }

// CreateMember persists a new roster member, stamping ID and timestamps.
func (s *Store) CreateMember(_ context.Context, member *models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stamp(&member.ID, &member.CreatedAt, &member.UpdatedAt)
	s.members[member.ID] = *member
	return nil
}

// GetMember retrieves a member by ID.
func (s *Store) GetMember(_ context.Context, id string) (*models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[id]
	if !ok {
		return nil, &models.NotFoundError{Kind: "member", ID: id}
	}
	return &m, nil
}

// ListMembers returns the full roster sorted by name.
func (s *Store) ListMembers(_ context.Context) ([]models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	members := make([]models.Member, 0, len(s.members))
	for _, m := range s.members {
		members = append(members, m)
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].Name != members[j].Name {
			return members[i].Name < members[j].Name
		}
		return members[i].ID < members[j].ID
	})
	return members, nil
}

// UpdateMember updates a member's display attributes.
func (s *Store) UpdateMember(_ context.Context, member *models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[member.ID]; !ok {
		return &models.NotFoundError{Kind: "member", ID: member.ID}
	}
	member.UpdatedAt = time.Now().Unix()
	s.members[member.ID] = *member
	return nil
}

// DeleteMember removes a member from the roster.
func (s *Store) DeleteMember(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[id]; !ok {
		return &models.NotFoundError{Kind: "member", ID: id}
	}
	delete(s.members, id)
	return nil
}

// CountMemberRefs reports how many expenses and absences reference the
// member. An expense counts once whether the member is its payer, a
// participant or a share holder.
func (s *Store) CountMemberRefs(_ context.Context, memberID string) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expenses int
	for _, e := range s.expenses {
		if expenseReferences(e, memberID) {
			expenses++
		}
	}
	var absences int
	for _, a := range s.absences {
		if a.MemberID == memberID {
			absences++
		}
	}
	return expenses, absences, nil
}

func expenseReferences(e models.Expense, memberID string) bool {
	if e.PayerID == memberID {
		return true
	}
	for _, id := range e.SplitBetween {
		if id == memberID {
			return true
		}
	}
	_, ok := e.Shares[memberID]
	return ok
}

// CreateExpense persists a new expense, stamping ID and timestamps.
func (s *Store) CreateExpense(_ context.Context, expense *models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stamp(&expense.ID, &expense.CreatedAt, &expense.UpdatedAt)
	s.expenses[expense.ID] = copyExpense(*expense)
	return nil
}

// GetExpense retrieves an expense by ID.
func (s *Store) GetExpense(_ context.Context, id string) (*models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.expenses[id]
	if !ok {
		return nil, &models.NotFoundError{Kind: "expense", ID: id}
	}
	out := copyExpense(e)
	return &out, nil
}

// ListExpenses returns all expenses, newest date first.
func (s *Store) ListExpenses(_ context.Context) ([]models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listExpensesLocked(func(models.Expense) bool { return true }), nil
}

// ListExpensesByMonth returns the expenses of one month bucket, newest date
// first.
func (s *Store) ListExpensesByMonth(_ context.Context, monthKey string) ([]models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listExpensesLocked(func(e models.Expense) bool {
		return e.MonthKey() == monthKey
	}), nil
}

func (s *Store) listExpensesLocked(keep func(models.Expense) bool) []models.Expense {
	var expenses []models.Expense
	for _, e := range s.expenses {
		if keep(e) {
			expenses = append(expenses, copyExpense(e))
		}
	}
	sort.Slice(expenses, func(i, j int) bool {
		if !expenses[i].Date.Equal(expenses[j].Date) {
			return expenses[j].Date.Before(expenses[i].Date.Time)
		}
		if expenses[i].CreatedAt != expenses[j].CreatedAt {
			return expenses[i].CreatedAt > expenses[j].CreatedAt
		}
		return expenses[i].ID < expenses[j].ID
	})
	return expenses
}

// UpdateExpense replaces an existing expense.
func (s *Store) UpdateExpense(_ context.Context, expense *models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.expenses[expense.ID]; !ok {
		return &models.NotFoundError{Kind: "expense", ID: expense.ID}
	}
	expense.UpdatedAt = time.Now().Unix()
	s.expenses[expense.ID] = copyExpense(*expense)
	return nil
}

// DeleteExpense removes an expense.
func (s *Store) DeleteExpense(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.expenses[id]; !ok {
		return &models.NotFoundError{Kind: "expense", ID: id}
	}
	delete(s.expenses, id)
	return nil
}

// CreateAbsence persists a new absence record, stamping ID and timestamps.
func (s *Store) CreateAbsence(_ context.Context, absence *models.Absence) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stamp(&absence.ID, &absence.CreatedAt, &absence.UpdatedAt)
	s.absences[absence.ID] = *absence
	return nil
}

// GetAbsence retrieves an absence record by ID.
func (s *Store) GetAbsence(_ context.Context, id string) (*models.Absence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.absences[id]
	if !ok {
		return nil, &models.NotFoundError{Kind: "absence", ID: id}
	}
	return &a, nil
}

// ListAbsences returns all absence records, newest start date first.
func (s *Store) ListAbsences(_ context.Context) ([]models.Absence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listAbsencesLocked(func(models.Absence) bool { return true }), nil
}

// ListAbsencesByMember returns one member's absence records, newest start
// date first.
func (s *Store) ListAbsencesByMember(_ context.Context, memberID string) ([]models.Absence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listAbsencesLocked(func(a models.Absence) bool {
		return a.MemberID == memberID
	}), nil
}

func (s *Store) listAbsencesLocked(keep func(models.Absence) bool) []models.Absence {
	var absences []models.Absence
	for _, a := range s.absences {
		if keep(a) {
			absences = append(absences, a)
		}
	}
	sort.Slice(absences, func(i, j int) bool {
		if !absences[i].StartDate.Equal(absences[j].StartDate) {
			return absences[j].StartDate.Before(absences[i].StartDate.Time)
		}
		return absences[i].ID < absences[j].ID
	})
	return absences
}

// UpdateAbsence replaces an existing absence record.
func (s *Store) UpdateAbsence(_ context.Context, absence *models.Absence) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.absences[absence.ID]; !ok {
		return &models.NotFoundError{Kind: "absence", ID: absence.ID}
	}
	absence.UpdatedAt = time.Now().Unix()
	s.absences[absence.ID] = *absence
	return nil
}

// DeleteAbsence removes an absence record.
func (s *Store) DeleteAbsence(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.absences[id]; !ok {
		return &models.NotFoundError{Kind: "absence", ID: id}
	}
	delete(s.absences, id)
	return nil
}

// LockMonth closes a month bucket to mutations.
func (s *Store) LockMonth(_ context.Context, monthKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locked[monthKey] = true
	return nil
}

// UnlockMonth reopens a month bucket.
func (s *Store) UnlockMonth(_ context.Context, monthKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locked, monthKey)
	return nil
}

// IsMonthLocked reports whether the month bucket is closed.
func (s *Store) IsMonthLocked(_ context.Context, monthKey string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked[monthKey], nil
}

// ListLockedMonths returns all locked month keys in ascending order.
func (s *Store) ListLockedMonths(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	months := make([]string, 0, len(s.locked))
	for key := range s.locked {
		months = append(months, key)
	}
	sort.Strings(months)
	return months, nil
}

// stamp fills in a missing ID and timestamps the way the SQLite backend does.
func stamp(id *string, createdAt, updatedAt *int64) {
	if *id == "" {
		*id = uuid.New().String()
	}
	now := time.Now().Unix()
	if *createdAt == 0 {
		*createdAt = now
	}
	*updatedAt = now
}

// copyExpense deep-copies an expense so shared slices and maps never leak
// between the store and its callers.
func copyExpense(e models.Expense) models.Expense {
	out := e
	if e.SplitBetween != nil {
		out.SplitBetween = append([]string(nil), e.SplitBetween...)
	}
	if e.SplitValues != nil {
		out.SplitValues = make(map[string]float64, len(e.SplitValues))
		for k, v := range e.SplitValues {
			out.SplitValues[k] = v
		}
	}
	if e.Shares != nil {
		out.Shares = make(map[string]float64, len(e.Shares))
		for k, v := range e.Shares {
			out.Shares[k] = v
		}
	}
	return out
}
