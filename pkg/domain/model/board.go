package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
)

// Board represents a kanban board owned by a user
type Board struct {
	ID          types.BoardID `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	OwnerID     types.UserID  `json:"owner_id"`
	IsPublic    bool          `json:"is_public"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Validate checks the invariants of a board record
func (b *Board) Validate() error {
	if err := b.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid board")
	}
	if b.Name == "" {
		return goerr.Wrap(ErrValidation, "board name is required")
	}
	if err := b.OwnerID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid board owner", goerr.V("boardID", b.ID))
	}
	return nil
}

// BoardMember represents a user's membership on a board. The owner is also
// recorded as a member with the owner role.
type BoardMember struct {
	BoardID  types.BoardID    `json:"board_id"`
	UserID   types.UserID     `json:"user_id"`
	Role     types.MemberRole `json:"role"`
	JoinedAt time.Time        `json:"joined_at"`
}

// Validate checks the invariants of a board membership
func (m *BoardMember) Validate() error {
	if err := m.BoardID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid membership")
	}
	if err := m.UserID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid membership", goerr.V("boardID", m.BoardID))
	}
	if !m.Role.IsValid() {
		return goerr.Wrap(ErrValidation, "invalid member role", goerr.V("role", m.Role))
	}
	return nil
}
