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

func TestBoardCreateSeedsDefaultColumns(t *testing.T) {
	repo := memory.New()
	sessions := session.New()
	t.Cleanup(sessions.Close)

	uc := usecase.New(repo, sessions, usecase.WithDefaultColumns([]usecase.DefaultColumn{
		{Name: "To Do", Color: "#93c5fd"},
		{Name: "In Progress", Color: "#fde047"},
		{Name: "Done", Color: "#86efac"},
	}))
	ctx := context.Background()

	user, err := uc.Auth.Register(ctx, &usecase.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct horse",
	})
	gt.NoError(t, err).Required()

	board, err := uc.Board.Create(ctx, user.ID, &usecase.BoardInput{Name: "Work"})
	gt.NoError(t, err).Required()

	columns, err := uc.Column.List(ctx, user.ID, board.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, columns).Length(3).Required()
	gt.Value(t, columns[0].Name).Equal("To Do")
	gt.Value(t, columns[1].Name).Equal("In Progress")
	gt.Value(t, columns[2].Name).Equal("Done")
	gt.Value(t, columns[2].Position).Equal(2)
}

func TestBoardMembership(t *testing.T) {
	uc, _ := newUseCases(t)
	ctx := context.Background()

	owner, err := uc.Auth.Register(ctx, &usecase.RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "correct horse",
	})
	gt.NoError(t, err).Required()
	guest, err := uc.Auth.Register(ctx, &usecase.RegisterInput{
		Username: "bob", Email: "bob@example.com", Password: "correct horse",
	})
	gt.NoError(t, err).Required()

	board, err := uc.Board.Create(ctx, owner.ID, &usecase.BoardInput{Name: "Private"})
	gt.NoError(t, err).Required()

	_, err = uc.Board.Get(ctx, guest.ID, board.ID)
	gt.Value(t, errors.Is(err, usecase.ErrPermissionDenied)).Equal(true)

	gt.NoError(t, uc.Board.AddMember(ctx, owner.ID, board.ID, guest.ID)).Required()

	got, err := uc.Board.Get(ctx, guest.ID, board.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.ID).Equal(board.ID)

	// Members cannot manage membership, only the owner can
	err = uc.Board.RemoveMember(ctx, guest.ID, board.ID, guest.ID)
	gt.Value(t, errors.Is(err, usecase.ErrPermissionDenied)).Equal(true)

	gt.NoError(t, uc.Board.RemoveMember(ctx, owner.ID, board.ID, guest.ID)).Required()
	_, err = uc.Board.Get(ctx, guest.ID, board.ID)
	gt.Value(t, errors.Is(err, usecase.ErrPermissionDenied)).Equal(true)
}
