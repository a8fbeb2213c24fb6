package interfaces

import (
	"context"
	"time"

	"github.com/secmon-lab/kanbot/pkg/domain/model"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
)

// TaskRepository persists tasks
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) (*model.Task, error)
	Get(ctx context.Context, id types.TaskID) (*model.Task, error)
	// ListByBoard returns the board's tasks ordered by ascending position.
	ListByBoard(ctx context.Context, boardID types.BoardID) ([]*model.Task, error)
	// ListByColumn returns the column's tasks ordered by ascending position.
	ListByColumn(ctx context.Context, columnID types.ColumnID) ([]*model.Task, error)
	Update(ctx context.Context, task *model.Task) (*model.Task, error)
	Delete(ctx context.Context, id types.TaskID) error
	// Search matches the query case-insensitively against title and
	// description, optionally restricted to one board.
	Search(ctx context.Context, query string, boardID types.BoardID) ([]*model.Task, error)
	// ListDueBetween returns tasks whose due date falls in [from, to),
	// ordered by ascending due date. Tasks without a due date never match.
	ListDueBetween(ctx context.Context, from, to time.Time) ([]*model.Task, error)
}
