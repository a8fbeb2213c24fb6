package interfaces

import (
	"context"

	"github.com/secmon-lab/kanbot/pkg/domain/model"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
)

// ColumnRepository persists board columns
type ColumnRepository interface {
	Create(ctx context.Context, column *model.Column) (*model.Column, error)
	Get(ctx context.Context, id types.ColumnID) (*model.Column, error)
	// ListByBoard returns the board's columns ordered by ascending position.
	ListByBoard(ctx context.Context, boardID types.BoardID) ([]*model.Column, error)
	Update(ctx context.Context, column *model.Column) (*model.Column, error)
	Delete(ctx context.Context, id types.ColumnID) error
}
