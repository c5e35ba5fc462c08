// Package bolt provides a bbolt-backed implementation of the storage.Store
// interface. Records are stored as JSON values in one bucket per entity,
// keyed by their UUID (month locks by month key). It is a single-file
// alternative to the SQLite backend with no migration step.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	bbolt "go.etcd.io/bbolt"

	"github.com/mdtanveer0786/roommate-expense-tracker/internal/models"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Bucket names.
const (
	bucketMembers    = "members"
	bucketExpenses   = "expenses"
	bucketAbsences   = "absences"
	bucketMonthLocks = "month_locks"
)

// Store implements storage.Store using bbolt.
type Store struct {
	db *bbolt.DB
}

// New opens (or creates) the database file at dbPath and initializes the
// entity buckets.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, bucket := range []string{bucketMembers, bucketExpenses, bucketAbsences, bucketMonthLocks} {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// put marshals value to JSON and stores it under key in the bucket.
func (s *Store) put(bucket, key string, value any) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal value: %w", err)
		}
		return tx.Bucket([]byte(bucket)).Put([]byte(key), data)
	})
}

// get unmarshals the value stored under key in the bucket into out. The
// returned NotFoundError carries kind and key for the caller.
func (s *Store) get(bucket, kind, key string, out any) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucket)).Get([]byte(key))
		if data == nil {
			return &models.NotFoundError{Kind: kind, ID: key}
		}
		return json.Unmarshal(data, out)
	})
}

// delete removes the value stored under key, failing with NotFoundError when
// the key is absent.
func (s *Store) delete(bucket, kind, key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b.Get([]byte(key)) == nil {
			return &models.NotFoundError{Kind: kind, ID: key}
		}
		return b.Delete([]byte(key))
	})
}

// forEach decodes every value in the bucket into a fresh T and hands it to fn.
func forEach[T any](s *Store, bucket string, fn func(T)) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucket)).ForEach(func(_, v []byte) error {
			var record T
			if err := json.Unmarshal(v, &record); err != nil {
				return fmt.Errorf("failed to unmarshal record: %w", err)
			}
			fn(record)
			return nil
		})
	})
}

// CreateMember persists a new roster member, stamping ID and timestamps.
func (s *Store) CreateMember(_ context.Context, member *models.Member) error {
	stamp(&member.ID, &member.CreatedAt, &member.UpdatedAt)
	return s.put(bucketMembers, member.ID, member)
}

// GetMember retrieves a member by ID.
func (s *Store) GetMember(_ context.Context, id string) (*models.Member, error) {
	var m models.Member
	if err := s.get(bucketMembers, "member", id, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMembers returns the full roster sorted by name.
func (s *Store) ListMembers(_ context.Context) ([]models.Member, error) {
	var members []models.Member
	if err := forEach(s, bucketMembers, func(m models.Member) {
		members = append(members, m)
	}); err != nil {
		return nil, err
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
func (s *Store) UpdateMember(ctx context.Context, member *models.Member) error {
	if _, err := s.GetMember(ctx, member.ID); err != nil {
		return err
	}
	member.UpdatedAt = time.Now().Unix()
	return s.put(bucketMembers, member.ID, member)
}

// DeleteMember removes a member from the roster.
func (s *Store) DeleteMember(_ context.Context, id string) error {
	return s.delete(bucketMembers, "member", id)
}

// CountMemberRefs reports how many expenses and absences reference the
// member. An expense counts once whether the member is its payer, a
// participant or a share holder.
func (s *Store) CountMemberRefs(_ context.Context, memberID string) (int, int, error) {
	var expenses int
	err := forEach(s, bucketExpenses, func(e models.Expense) {
		if e.PayerID == memberID {
			expenses++
			return
		}
		for _, id := range e.SplitBetween {
			if id == memberID {
				expenses++
				return
			}
		}
		if _, ok := e.Shares[memberID]; ok {
			expenses++
		}
	})
	if err != nil {
		return 0, 0, err
	}

	var absences int
	err = forEach(s, bucketAbsences, func(a models.Absence) {
		if a.MemberID == memberID {
			absences++
		}
	})
	if err != nil {
		return 0, 0, err
	}
	return expenses, absences, nil
}

// CreateExpense persists a new expense, stamping ID and timestamps.
func (s *Store) CreateExpense(_ context.Context, expense *models.Expense) error {
	stamp(&expense.ID, &expense.CreatedAt, &expense.UpdatedAt)
	return s.put(bucketExpenses, expense.ID, expense)
}

// GetExpense retrieves an expense by ID.
func (s *Store) GetExpense(_ context.Context, id string) (*models.Expense, error) {
	var e models.Expense
	if err := s.get(bucketExpenses, "expense", id, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// ListExpenses returns all expenses, newest date first.
func (s *Store) ListExpenses(_ context.Context) ([]models.Expense, error) {
	return s.listExpenses(func(models.Expense) bool { return true })
}

// ListExpensesByMonth returns the expenses of one month bucket, newest date
// first.
func (s *Store) ListExpensesByMonth(_ context.Context, monthKey string) ([]models.Expense, error) {
	return s.listExpenses(func(e models.Expense) bool {
		return e.MonthKey() == monthKey
	})
}

func (s *Store) listExpenses(keep func(models.Expense) bool) ([]models.Expense, error) {
	var expenses []models.Expense
	if err := forEach(s, bucketExpenses, func(e models.Expense) {
		if keep(e) {
			expenses = append(expenses, e)
		}
	}); err != nil {
		return nil, err
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
	return expenses, nil
}

// UpdateExpense replaces an existing expense.
func (s *Store) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	if _, err := s.GetExpense(ctx, expense.ID); err != nil {
		return err
	}
	expense.UpdatedAt = time.Now().Unix()
	return s.put(bucketExpenses, expense.ID, expense)
}

// DeleteExpense removes an expense.
func (s *Store) DeleteExpense(_ context.Context, id string) error {
	return s.delete(bucketExpenses, "expense", id)
}

// CreateAbsence persists a new absence record, stamping ID and timestamps.
func (s *Store) CreateAbsence(_ context.Context, absence *models.Absence) error {
	stamp(&absence.ID, &absence.CreatedAt, &absence.UpdatedAt)
	return s.put(bucketAbsences, absence.ID, absence)
}

// GetAbsence retrieves an absence record by ID.
func (s *Store) GetAbsence(_ context.Context, id string) (*models.Absence, error) {
	var a models.Absence
	if err := s.get(bucketAbsences, "absence", id, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAbsences returns all absence records, newest start date first.
func (s *Store) ListAbsences(_ context.Context) ([]models.Absence, error) {
	return s.listAbsences(func(models.Absence) bool { return true })
}

// ListAbsencesByMember returns one member's absence records, newest start
// date first.
func (s *Store) ListAbsencesByMember(_ context.Context, memberID string) ([]models.Absence, error) {
	return s.listAbsences(func(a models.Absence) bool {
		return a.MemberID == memberID
	})
}

func (s *Store) listAbsences(keep func(models.Absence) bool) ([]models.Absence, error) {
	var absences []models.Absence
	if err := forEach(s, bucketAbsences, func(a models.Absence) {
		if keep(a) {
			absences = append(absences, a)
		}
	}); err != nil {
		return nil, err
	}
	sort.Slice(absences, func(i, j int) bool {
		if !absences[i].StartDate.Equal(absences[j].StartDate) {
			return absences[j].StartDate.Before(absences[i].StartDate.Time)
		}
		return absences[i].ID < absences[j].ID
	})
	return absences, nil
}

// UpdateAbsence replaces an existing absence record.
func (s *Store) UpdateAbsence(ctx context.Context, absence *models.Absence) error {
	if _, err := s.GetAbsence(ctx, absence.ID); err != nil {
		return err
	}
	absence.UpdatedAt = time.Now().Unix()
	return s.put(bucketAbsences, absence.ID, absence)
}

// DeleteAbsence removes an absence record.
func (s *Store) DeleteAbsence(_ context.Context, id string) error {
	return s.delete(bucketAbsences, "absence", id)
}

// LockMonth closes a month bucket to mutations. Locking an already locked
// month is a no-op.
func (s *Store) LockMonth(_ context.Context, monthKey string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		lockedAt, err := json.Marshal(time.Now().Unix())
		if err != nil {
			return err
		}
		return tx.Bucket([]byte(bucketMonthLocks)).Put([]byte(monthKey), lockedAt)
	})
}

// UnlockMonth reopens a month bucket. Unlocking an unlocked month is a no-op.
func (s *Store) UnlockMonth(_ context.Context, monthKey string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketMonthLocks)).Delete([]byte(monthKey))
	})
}

// IsMonthLocked reports whether the month bucket is closed.
func (s *Store) IsMonthLocked(_ context.Context, monthKey string) (bool, error) {
	var locked bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		locked = tx.Bucket([]byte(bucketMonthLocks)).Get([]byte(monthKey)) != nil
		return nil
	})
	return locked, err
}

// ListLockedMonths returns all locked month keys in ascending order. bbolt
// iterates keys in byte order, which is chronological for YYYY-MM keys.
func (s *Store) ListLockedMonths(_ context.Context) ([]string, error) {
	var months []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketMonthLocks)).ForEach(func(k, _ []byte) error {
			months = append(months, string(k))
			return nil
		})
	})
	return months, err
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
