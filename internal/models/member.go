package models

import "strings"

// Member represents a roommate in the household roster.
//
// Members are display entities, not user accounts: anyone with access to the
// household can act on behalf of any member. A member can only be deleted
// while no expense or absence references it.
type Member struct {
	// ID is the unique identifier for the member (UUID format).
	// Immutable once created; expenses and absences reference it.
	ID string `json:"id"`

	// Name is the display name of the roommate.
	Name string `json:"name"`

	// Color is a display hint for the UI (hex string, e.g. "#e07a5f").
	Color string `json:"color,omitempty"`

	// Avatar is a short glyph or emoji shown next to the name.
	Avatar string `json:"avatar,omitempty"`

	// CreatedAt is the Unix timestamp when the member was added.
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt is the Unix timestamp of the last display-attribute change.
	UpdatedAt int64 `json:"updated_at"`
}

// Validate checks the fields a caller must supply.
func (m Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return &InvalidInputError{Reason: "member name is required"}
	}
	return nil
}
