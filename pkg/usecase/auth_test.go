package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/kanbot/pkg/repository/memory"
	"github.com/secmon-lab/kanbot/pkg/service/session"
	"github.com/secmon-lab/kanbot/pkg/usecase"
)

func newUseCases(t *testing.T) (*usecase.UseCases, *memory.Memory) {
	t.Helper()
	repo := memory.New()
	sessions := session.New()
	t.Cleanup(sessions.Close)
	return usecase.New(repo, sessions), repo
}

func TestRegisterAndLogin(t *testing.T) {
	uc, _ := newUseCases(t)
	ctx := context.Background()

	user, err := uc.Auth.Register(ctx, &usecase.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct horse",
		FullName: "Alice Anderson",
	})
	gt.NoError(t, err).Required()
	gt.Value(t, user.HashedPassword).NotEqual("correct horse")

	loggedIn, token, err := uc.Auth.Login(ctx, "alice", "correct horse")
	gt.NoError(t, err).Required()
	gt.Value(t, loggedIn.ID).Equal(user.ID)
	gt.Value(t, token.UserID).Equal(user.ID)

	validated, err := uc.Auth.ValidateToken(ctx, token.ID, token.Secret)
	gt.NoError(t, err).Required()
	gt.Value(t, validated.UserID).Equal(user.ID)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	uc, _ := newUseCases(t)
	ctx := context.Background()

	_, err := uc.Auth.Register(ctx, &usecase.RegisterInput{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "password1",
	})
	gt.NoError(t, err).Required()

	_, _, err = uc.Auth.Login(ctx, "bob", "wrong")
	gt.Bool(t, errors.Is(err, usecase.ErrInvalidCredentials)).True()

	_, _, err = uc.Auth.Login(ctx, "nobody", "password1")
	gt.Bool(t, errors.Is(err, usecase.ErrInvalidCredentials)).True()
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	uc, _ := newUseCases(t)

	_, err := uc.Auth.Register(context.Background(), &usecase.RegisterInput{
		Username: "carol",
		Email:    "carol@example.com",
		Password: "short",
	})
	gt.Value(t, err).NotNil()
}

func TestLogoutRevokesToken(t *testing.T) {
	uc, _ := newUseCases(t)
	ctx := context.Background()

	_, err := uc.Auth.Register(ctx, &usecase.RegisterInput{
		Username: "dave",
		Email:    "dave@example.com",
		Password: "password1",
	})
	gt.NoError(t, err).Required()

	_, token, err := uc.Auth.Login(ctx, "dave", "password1")
	gt.NoError(t, err).Required()

	gt.NoError(t, uc.Auth.Logout(ctx, token.ID)).Required()

	_, err = uc.Auth.ValidateToken(ctx, token.ID, token.Secret)
	gt.Bool(t, errors.Is(err, usecase.ErrUnauthenticated)).True()

	// Revoking again is not an error
	gt.NoError(t, uc.Auth.Logout(ctx, token.ID))
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	uc, _ := newUseCases(t)
	ctx := context.Background()

	_, err := uc.Auth.Register(ctx, &usecase.RegisterInput{
		Username: "erin",
		Email:    "erin@example.com",
		Password: "password1",
	})
	gt.NoError(t, err).Required()

	_, token, err := uc.Auth.Login(ctx, "erin", "password1")
	gt.NoError(t, err).Required()

	_, err = uc.Auth.ValidateToken(ctx, token.ID, "forged-secret")
	gt.Bool(t, errors.Is(err, usecase.ErrUnauthenticated)).True()
}
