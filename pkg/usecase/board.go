package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kanbot/pkg/domain/interfaces"
	"github.com/secmon-lab/kanbot/pkg/domain/model"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
)

type BoardUseCase struct {
	repo           interfaces.Repository
	defaultColumns []DefaultColumn
}

// DefaultColumn is a column template applied to every newly created board
type DefaultColumn struct {
	Name  string
	Color string
}

func NewBoardUseCase(repo interfaces.Repository, defaultColumns []DefaultColumn) *BoardUseCase {
	return &BoardUseCase{
		repo:           repo,
		defaultColumns: defaultColumns,
	}
}

// requireViewer checks that the user may read the board: member, owner, or
// anyone when the board is public.
func requireViewer(ctx context.Context, repo interfaces.Repository, boardID types.BoardID, userID types.UserID) (*model.Board, error) {
	board, err := repo.Board().Get(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if board.IsPublic || board.OwnerID == userID {
		return board, nil
	}
	if _, err := repo.Board().GetMember(ctx, boardID, userID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, goerr.Wrap(ErrPermissionDenied, "not a board member",
				goerr.V("boardID", boardID), goerr.V("userID", userID))
		}
		return nil, err
	}
	return board, nil
}

// requireMember checks that the user may mutate the board's contents
func requireMember(ctx context.Context, repo interfaces.Repository, boardID types.BoardID, userID types.UserID) (*model.Board, error) {
	board, err := repo.Board().Get(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if board.OwnerID == userID {
		return board, nil
	}
	if _, err := repo.Board().GetMember(ctx, boardID, userID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, goerr.Wrap(ErrPermissionDenied, "not a board member",
				goerr.V("boardID", boardID), goerr.V("userID", userID))
		}
		return nil, err
	}
	return board, nil
}

// requireOwner checks that the user owns the board
func requireOwner(ctx context.Context, repo interfaces.Repository, boardID types.BoardID, userID types.UserID) (*model.Board, error) {
	board, err := repo.Board().Get(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if board.OwnerID != userID {
		return nil, goerr.Wrap(ErrPermissionDenied, "board owner only",
			goerr.V("boardID", boardID), goerr.V("userID", userID))
	}
	return board, nil
}

type BoardInput struct {
	Name        string
	Description string
	IsPublic    bool
}

func (uc *BoardUseCase) Create(ctx context.Context, userID types.UserID, input *BoardInput) (*model.Board, error) {
	if input.Name == "" {
		return nil, goerr.Wrap(model.ErrValidation, "board name is required")
	}

	board, err := uc.repo.Board().Create(ctx, &model.Board{
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     userID,
		IsPublic:    input.IsPublic,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create board")
	}

	for i, tmpl := range uc.defaultColumns {
		if _, err := uc.repo.Column().Create(ctx, &model.Column{
			BoardID:  board.ID,
			Name:     tmpl.Name,
			Position: i,
			Color:    tmpl.Color,
		}); err != nil {
			return nil, goerr.Wrap(err, "failed to create default column",
				goerr.V("boardID", board.ID), goerr.V("name", tmpl.Name))
		}
	}

	return board, nil
}

func (uc *BoardUseCase) Get(ctx context.Context, userID types.UserID, boardID types.BoardID) (*model.Board, error) {
	return requireViewer(ctx, uc.repo, boardID, userID)
}

func (uc *BoardUseCase) List(ctx context.Context, userID types.UserID) ([]*model.Board, error) {
	boards, err := uc.repo.Board().ListByUser(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list boards")
	}
	return boards, nil
}

func (uc *BoardUseCase) Update(ctx context.Context, userID types.UserID, boardID types.BoardID, input *BoardInput) (*model.Board, error) {
	board, err := requireOwner(ctx, uc.repo, boardID, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		board.Name = input.Name
	}
	board.Description = input.Description
	board.IsPublic = input.IsPublic

	updated, err := uc.repo.Board().Update(ctx, board)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update board")
	}
	return updated, nil
}

func (uc *BoardUseCase) Delete(ctx context.Context, userID types.UserID, boardID types.BoardID) error {
	if _, err := requireOwner(ctx, uc.repo, boardID, userID); err != nil {
		return err
	}
	if err := uc.repo.Board().Delete(ctx, boardID); err != nil {
		return goerr.Wrap(err, "failed to delete board")
	}
	return nil
}

func (uc *BoardUseCase) AddMember(ctx context.Context, userID types.UserID, boardID types.BoardID, newMemberID types.UserID) error {
	if _, err := requireOwner(ctx, uc.repo, boardID, userID); err != nil {
		return err
	}
	if _, err := uc.repo.User().Get(ctx, newMemberID); err != nil {
		return goerr.Wrap(err, "unknown user", goerr.V("userID", newMemberID))
	}

	if err := uc.repo.Board().AddMember(ctx, &model.BoardMember{
		BoardID: boardID,
		UserID:  newMemberID,
		Role:    types.MemberRoleMember,
	}); err != nil {
		return goerr.Wrap(err, "failed to add member")
	}
	return nil
}

func (uc *BoardUseCase) RemoveMember(ctx context.Context, userID types.UserID, boardID types.BoardID, memberID types.UserID) error {
	board, err := requireOwner(ctx, uc.repo, boardID, userID)
	if err != nil {
		return err
	}
	if memberID == board.OwnerID {
		return goerr.Wrap(ErrPermissionDenied, "cannot remove the board owner")
	}
	if err := uc.repo.Board().RemoveMember(ctx, boardID, memberID); err != nil {
		return goerr.Wrap(err, "failed to remove member")
	}
	return nil
}

func (uc *BoardUseCase) ListMembers(ctx context.Context, userID types.UserID, boardID types.BoardID) ([]*model.BoardMember, error) {
	if _, err := requireViewer(ctx, uc.repo, boardID, userID); err != nil {
		return nil, err
	}
	members, err := uc.repo.Board().ListMembers(ctx, boardID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list members")
	}
	return members, nil
}
