package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kanbot/pkg/domain/interfaces"
	"github.com/secmon-lab/kanbot/pkg/domain/model"
	"github.com/secmon-lab/kanbot/pkg/domain/model/auth"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is the lifetime of a login session token
const TokenTTL = 7 * 24 * time.Hour

type AuthUseCase struct {
	repo interfaces.Repository
}

func NewAuthUseCase(repo interfaces.Repository) *AuthUseCase {
	return &AuthUseCase{repo: repo}
}

// RegisterInput is the payload for account creation
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

func (uc *AuthUseCase) Register(ctx context.Context, input *RegisterInput) (*model.User, error) {
	if input.Username == "" || input.Email == "" {
		return nil, goerr.Wrap(model.ErrValidation, "username and email are required")
	}
	if len(input.Password) < 8 {
		return nil, goerr.Wrap(model.ErrValidation, "password must be at least 8 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to hash password")
	}

	user, err := uc.repo.User().Create(ctx, &model.User{
		Username:       input.Username,
		Email:          input.Email,
		HashedPassword: string(hashed),
		FullName:       input.FullName,
		IsActive:       true,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create user")
	}

	return user, nil
}

// Login verifies the credentials and issues a session token
func (uc *AuthUseCase) Login(ctx context.Context, username, password string) (*model.User, *auth.Token, error) {
	user, err := uc.repo.User().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, nil, goerr.Wrap(ErrInvalidCredentials, "unknown user")
		}
		return nil, nil, goerr.Wrap(err, "failed to look up user")
	}

	if !user.IsActive {
		return nil, nil, goerr.Wrap(ErrInvalidCredentials, "account is inactive")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, nil, goerr.Wrap(ErrInvalidCredentials, "password mismatch")
	}

	token := auth.NewToken(user.ID, TokenTTL)
	if err := uc.repo.PutToken(ctx, token); err != nil {
		return nil, nil, goerr.Wrap(err, "failed to store session token")
	}

	return user, token, nil
}

// Logout revokes the session token. Revoking an unknown token is not an
// error.
func (uc *AuthUseCase) Logout(ctx context.Context, tokenID auth.TokenID) error {
	if err := uc.repo.DeleteToken(ctx, tokenID); err != nil && !errors.Is(err, model.ErrNotFound) {
		return goerr.Wrap(err, "failed to delete session token")
	}
	return nil
}

// ValidateToken checks the token pair presented by a client and returns the
// stored token. Expired tokens are revoked on sight.
func (uc *AuthUseCase) ValidateToken(ctx context.Context, tokenID auth.TokenID, secret auth.TokenSecret) (*auth.Token, error) {
	token, err := uc.repo.GetToken(ctx, tokenID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, goerr.Wrap(ErrUnauthenticated, "unknown session token")
		}
		return nil, goerr.Wrap(err, "failed to look up session token")
	}

	if subtle.ConstantTimeCompare([]byte(token.Secret), []byte(secret)) != 1 {
		return nil, goerr.Wrap(ErrUnauthenticated, "session token secret mismatch")
	}

	if token.IsExpired(time.Now()) {
		_ = uc.repo.DeleteToken(ctx, tokenID)
		return nil, goerr.Wrap(ErrUnauthenticated, "session token expired")
	}

	return token, nil
}

// GetUser returns the account behind a validated session
func (uc *AuthUseCase) GetUser(ctx context.Context, userID types.UserID) (*model.User, error) {
	user, err := uc.repo.User().Get(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get user", goerr.V("userID", userID))
	}
	return user, nil
}
