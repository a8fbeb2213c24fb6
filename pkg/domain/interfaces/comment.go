package interfaces

import (
	"context"

	"github.com/secmon-lab/kanbot/pkg/domain/model"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
)

// CommentRepository persists task comments
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) (*model.Comment, error)
	Get(ctx context.Context, id types.CommentID) (*model.Comment, error)
	// ListByTask returns the task's comments ordered by ascending creation time.
	ListByTask(ctx context.Context, taskID types.TaskID) ([]*model.Comment, error)
	Delete(ctx context.Context, id types.CommentID) error
}
