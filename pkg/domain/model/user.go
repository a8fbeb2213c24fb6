package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
)

// User represents a registered account. TelegramChatID is the external
// identity link: empty means unlinked, and the user repository enforces that
// a chat ID is linked to at most one user.
type User struct {
	ID             types.UserID `json:"id"`
	Username       string       `json:"username"`
	Email          string       `json:"email"`
	HashedPassword string       `json:"-" masq:"secret"`
	FullName       string       `json:"full_name"`
	IsActive       bool         `json:"is_active"`
	TelegramChatID types.ChatID `json:"telegram_chat_id,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// Validate checks the invariants of a user record
func (u *User) Validate() error {
	if err := u.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid user")
	}
	if u.Username == "" {
		return goerr.Wrap(ErrValidation, "username is required")
	}
	if u.Email == "" {
		return goerr.Wrap(ErrValidation, "email is required", goerr.V("username", u.Username))
	}
	return nil
}

// DisplayName returns the full name when present, otherwise the username
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// IsLinked reports whether the user has a linked Telegram chat
func (u *User) IsLinked() bool {
	return u.TelegramChatID != ""
}
