package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kanbot/pkg/domain/interfaces"
	"github.com/secmon-lab/kanbot/pkg/domain/model"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
)

type ColumnUseCase struct {
	repo interfaces.Repository
}

func NewColumnUseCase(repo interfaces.Repository) *ColumnUseCase {
	return &ColumnUseCase{repo: repo}
}

type ColumnInput struct {
	Name     string
	Position *int
	Color    string
}

func (uc *ColumnUseCase) Create(ctx context.Context, userID types.UserID, boardID types.BoardID, input *ColumnInput) (*model.Column, error) {
	if _, err := requireMember(ctx, uc.repo, boardID, userID); err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, goerr.Wrap(model.ErrValidation, "column name is required")
	}

	position := 0
	if input.Position != nil {
		position = *input.Position
	} else {
		existing, err := uc.repo.Column().ListByBoard(ctx, boardID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list columns")
		}
		position = len(existing)
	}

	column, err := uc.repo.Column().Create(ctx, &model.Column{
		BoardID:  boardID,
		Name:     input.Name,
		Position: position,
		Color:    input.Color,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create column")
	}
	return column, nil
}

func (uc *ColumnUseCase) List(ctx context.Context, userID types.UserID, boardID types.BoardID) ([]*model.Column, error) {
	if _, err := requireViewer(ctx, uc.repo, boardID, userID); err != nil {
		return nil, err
	}
	columns, err := uc.repo.Column().ListByBoard(ctx, boardID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list columns")
	}
	return columns, nil
}

func (uc *ColumnUseCase) Update(ctx context.Context, userID types.UserID, columnID types.ColumnID, input *ColumnInput) (*model.Column, error) {
	column, err := uc.repo.Column().Get(ctx, columnID)
	if err != nil {
		return nil, err
	}
	if _, err := requireMember(ctx, uc.repo, column.BoardID, userID); err != nil {
		return nil, err
	}

	if input.Name != "" {
		column.Name = input.Name
	}
	if input.Position != nil {
		column.Position = *input.Position
	}
	if input.Color != "" {
		column.Color = input.Color
	}

	updated, err := uc.repo.Column().Update(ctx, column)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update column")
	}
	return updated, nil
}

func (uc *ColumnUseCase) Delete(ctx context.Context, userID types.UserID, columnID types.ColumnID) error {
	column, err := uc.repo.Column().Get(ctx, columnID)
	if err != nil {
		return err
	}
	if _, err := requireMember(ctx, uc.repo, column.BoardID, userID); err != nil {
		return err
	}
	if err := uc.repo.Column().Delete(ctx, columnID); err != nil {
		return goerr.Wrap(err, "failed to delete column")
	}
	return nil
}
