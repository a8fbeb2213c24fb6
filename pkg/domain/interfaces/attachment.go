package interfaces

import (
	"context"

	"github.com/secmon-lab/kanbot/pkg/domain/model"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
)

// AttachmentRepository persists attachment metadata records
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *model.Attachment) (*model.Attachment, error)
	Get(ctx context.Context, id types.AttachmentID) (*model.Attachment, error)
	ListByTask(ctx context.Context, taskID types.TaskID) ([]*model.Attachment, error)
	Delete(ctx context.Context, id types.AttachmentID) error
}
