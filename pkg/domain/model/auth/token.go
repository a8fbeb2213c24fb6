package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
)

// TokenID identifies a login session token
type TokenID string

// TokenSecret is the secret half of a session token pair
type TokenSecret string

func (x TokenID) String() string     { return string(x) }
func (x TokenSecret) String() string { return string(x) }

// Validate checks if the token ID is non-empty
func (x TokenID) Validate() error {
	if x == "" {
		return goerr.New("token ID is empty")
	}
	return nil
}

// Validate checks if the token secret is non-empty
func (x TokenSecret) Validate() error {
	if x == "" {
		return goerr.New("token secret is empty")
	}
	return nil
}

// Token is a server-side login session, presented by the client as the
// token_id/token_secret cookie pair.
type Token struct {
	ID        TokenID
	Secret    TokenSecret `masq:"secret"`
	UserID    types.UserID
	ExpiresAt time.Time
	CreatedAt time.Time
}

// NewToken issues a fresh token for the user with the given lifetime
func NewToken(userID types.UserID, ttl time.Duration) *Token {
	now := time.Now().UTC()
	return &Token{
		ID:        TokenID(uuid.New().String()),
		Secret:    TokenSecret(uuid.New().String()),
		UserID:    userID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}

// Validate checks the invariants of a token
func (t *Token) Validate() error {
	if err := t.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token")
	}
	if err := t.Secret.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token")
	}
	if err := t.UserID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token")
	}
	return nil
}

// IsExpired reports whether the token has passed its expiry
func (t *Token) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
