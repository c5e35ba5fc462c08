package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/mdtanveer0786/roommate-expense-tracker/internal/models"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/storage"
)

// defaultColors is the palette cycled through when members are added
// without an explicit color.
var defaultColors = []string{
	"#e07a5f", "#3d405b", "#81b29a", "#f2cc8f",
	"#6d597a", "#b56576", "#355070", "#eaac8b",
}

// MemberService manages the household roster and absence records.
type MemberService struct {
	store storage.Store
}

// NewMemberService creates a new MemberService with the given storage backend.
func NewMemberService(store storage.Store) *MemberService {
	return &MemberService{store: store}
}

// CreateMember adds a roommate to the roster. Color and avatar are defaulted
// when left empty: the color cycles through a fixed palette, the avatar is
// the name's first letter.
func (s *MemberService) CreateMember(ctx context.Context, member *models.Member) error {
	member.Name = strings.TrimSpace(member.Name)
	if err := member.Validate(); err != nil {
		return err
	}

	if member.Color == "" {
		roster, err := s.store.ListMembers(ctx)
		if err != nil {
			return fmt.Errorf("failed to list members: %w", err)
		}
		member.Color = defaultColors[len(roster)%len(defaultColors)]
	}
	if member.Avatar == "" {
		member.Avatar = defaultAvatar(member.Name)
	}

	return s.store.CreateMember(ctx, member)
}

// defaultAvatar returns the uppercased first letter of the name.
func defaultAvatar(name string) string {
	for _, r := range name {
		return string(unicode.ToUpper(r))
	}
	return ""
}

// GetMember retrieves a member by ID.
func (s *MemberService) GetMember(ctx context.Context, id string) (*models.Member, error) {
	return s.store.GetMember(ctx, id)
}

// ListMembers returns the full roster sorted by name.
func (s *MemberService) ListMembers(ctx context.Context) ([]models.Member, error) {
	return s.store.ListMembers(ctx)
}

// UpdateMember changes a member's display attributes. Empty color or avatar
// keep their current values; the ID and creation timestamp are immutable.
func (s *MemberService) UpdateMember(ctx context.Context, member *models.Member) error {
	existing, err := s.store.GetMember(ctx, member.ID)
	if err != nil {
		return err
	}

	member.Name = strings.TrimSpace(member.Name)
	if err := member.Validate(); err != nil {
		return err
	}
	if member.Color == "" {
		member.Color = existing.Color
	}
	if member.Avatar == "" {
		member.Avatar = existing.Avatar
	}
	member.CreatedAt = existing.CreatedAt

	return s.store.UpdateMember(ctx, member)
}

// DeleteMember removes a member from the roster. Members referenced by any
// expense or absence record cannot be deleted; balances would stop adding up
// if their history disappeared.
func (s *MemberService) DeleteMember(ctx context.Context, id string) error {
	if _, err := s.store.GetMember(ctx, id); err != nil {
		return err
	}

	expenses, absences, err := s.store.CountMemberRefs(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count member references: %w", err)
	}
	if expenses > 0 || absences > 0 {
		return &models.ReferentialIntegrityError{
			MemberID: id,
			Expenses: expenses,
			Absences: absences,
		}
	}

	return s.store.DeleteMember(ctx, id)
}

// CreateAbsence records a date range during which a member is away. A zero
// end date is normalized to the start date. Ranges of the same member must
// not overlap.
func (s *MemberService) CreateAbsence(ctx context.Context, absence *models.Absence) error {
	if _, err := s.store.GetMember(ctx, absence.MemberID); err != nil {
		return err
	}

	if absence.EndDate.IsZero() {
		absence.EndDate = absence.StartDate
	}
	if err := absence.Validate(); err != nil {
		return err
	}
	if err := s.checkOverlap(ctx, absence); err != nil {
		return err
	}

	return s.store.CreateAbsence(ctx, absence)
}

// UpdateAbsence changes an absence record's dates or reason. The member link
// is immutable.
func (s *MemberService) UpdateAbsence(ctx context.Context, absence *models.Absence) error {
	existing, err := s.store.GetAbsence(ctx, absence.ID)
	if err != nil {
		return err
	}
	absence.MemberID = existing.MemberID
	absence.CreatedAt = existing.CreatedAt

	if absence.EndDate.IsZero() {
		absence.EndDate = absence.StartDate
	}
	if err := absence.Validate(); err != nil {
		return err
	}
	if err := s.checkOverlap(ctx, absence); err != nil {
		return err
	}

	return s.store.UpdateAbsence(ctx, absence)
}

// DeleteAbsence removes an absence record. Shares already resolved from it
// stay as stored.
func (s *MemberService) DeleteAbsence(ctx context.Context, id string) error {
	return s.store.DeleteAbsence(ctx, id)
}

// ListAbsences returns absence records, optionally restricted to one member.
func (s *MemberService) ListAbsences(ctx context.Context, memberID string) ([]models.Absence, error) {
	if memberID == "" {
		return s.store.ListAbsences(ctx)
	}
	if _, err := s.store.GetMember(ctx, memberID); err != nil {
		return nil, err
	}
	return s.store.ListAbsencesByMember(ctx, memberID)
}

// checkOverlap rejects an absence whose range shares a day with another
// record of the same member. The record itself is skipped so an update can
// keep part of its old range.
func (s *MemberService) checkOverlap(ctx context.Context, absence *models.Absence) error {
	others, err := s.store.ListAbsencesByMember(ctx, absence.MemberID)
	if err != nil {
		return fmt.Errorf("failed to list absences: %w", err)
	}
	for _, other := range others {
		if other.ID == absence.ID {
			continue
		}
		if absence.Overlaps(other) {
			return &models.InvalidInputError{
				Reason: fmt.Sprintf("absence overlaps existing record %s to %s", other.StartDate, other.EndDate),
			}
		}
	}
	return nil
}
