package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kanbot/pkg/domain/model"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
)

type attachmentRepository struct {
	mu          sync.RWMutex
	attachments map[types.AttachmentID]*model.Attachment
}

func newAttachmentRepository() *attachmentRepository {
	return &attachmentRepository{
		attachments: make(map[types.AttachmentID]*model.Attachment),
	}
}

func copyAttachment(a *model.Attachment) *model.Attachment {
	copied := *a
	return &copied
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *model.Attachment) (*model.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyAttachment(attachment)
	if created.ID == "" {
		created.ID = types.NewAttachmentID()
	}
	created.CreatedAt = time.Now().UTC()

	r.attachments[created.ID] = created
	return copyAttachment(created), nil
}

func (r *attachmentRepository) Get(ctx context.Context, id types.AttachmentID) (*model.Attachment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	attachment, exists := r.attachments[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "attachment not found", goerr.V("id", id))
	}

	return copyAttachment(attachment), nil
}

func (r *attachmentRepository) ListByTask(ctx context.Context, taskID types.TaskID) ([]*model.Attachment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Attachment, 0)
	for _, attachment := range r.attachments {
		if attachment.TaskID == taskID {
			result = append(result, copyAttachment(attachment))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *attachmentRepository) Delete(ctx context.Context, id types.AttachmentID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.attachments[id]; !exists {
		return goerr.Wrap(ErrNotFound, "attachment not found", goerr.V("id", id))
	}

	delete(r.attachments, id)
	return nil
}
